package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"myflix/internal/apperr"
	"myflix/internal/metrics"
	"myflix/internal/models"
	"myflix/internal/repositories"
	"myflix/internal/utils"
	"myflix/internal/validation"
)

const (
	OTPExpirationMinutes    = 10
	OTPPurposeResetPassword = "reset_password"
)

// OTPService drives the forgot-password flow: a short-lived single-use code
// is mailed to the account's address and exchanged for a password update.
type OTPService interface {
	GenerateOTPForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, req *models.ResetPasswordRequest) error
}

type otpService struct {
	userRepo     repositories.UserRepository
	otpRepo      repositories.OTPRepository
	emailService EmailService
	registry     *validation.Registry
}

func NewOTPService(userRepo repositories.UserRepository, otpRepo repositories.OTPRepository, emailService EmailService, registry *validation.Registry) OTPService {
	return &otpService{userRepo: userRepo, otpRepo: otpRepo, emailService: emailService, registry: registry}
}

func (s *otpService) GenerateOTPForgotPassword(ctx context.Context, email string) error {
	user, err := s.findUserByEmail(ctx, email)
	if err != nil {
		return err
	}

	otpCode, err := utils.GenerateSecureOTP(6)
	if err != nil {
		return apperr.Storage(err)
	}

	expiresAt := time.Now().Add(OTPExpirationMinutes * time.Minute)

	otp := &models.OTP{
		UserID:    user.ID,
		OTPCode:   otpCode,
		Purpose:   OTPPurposeResetPassword,
		ExpiresAt: expiresAt,
		IsUsed:    false,
	}

	if _, err := s.otpRepo.Create(ctx, otp); err != nil {
		return apperr.Storage(err)
	}

	subject := "Your Password Reset OTP"
	body := fmt.Sprintf("Your OTP for password reset is: %s", otpCode)
	if err := s.emailService.SendEmail(user.Email, subject, body); err != nil {
		log.Error().Err(err).Str("userID", user.ID.Hex()).Msg("Failed to send OTP email")
		return apperr.Storage(err)
	}

	log.Info().Str("userID", user.ID.Hex()).Msg("Password reset OTP generated and sent")
	return nil
}

func (s *otpService) ResetPassword(ctx context.Context, req *models.ResetPasswordRequest) error {
	if err := validation.Struct(req); err != nil {
		return err
	}

	user, err := s.findUserByEmail(ctx, req.Email)
	if err != nil {
		return err
	}

	otp, err := s.otpRepo.FindByUserIDAndOTPCode(ctx, user.ID, req.OTP, OTPPurposeResetPassword)
	if err != nil {
		return apperr.Storage(err)
	}
	if otp == nil {
		log.Warn().Str("userID", user.ID.Hex()).Msg("Invalid or expired OTP presented")
		return apperr.Validation("Invalid or expired OTP")
	}

	hash, err := s.registry.Password(req.NewPassword, nil)
	if err != nil {
		return err
	}

	if err := s.otpRepo.MarkAsUsed(ctx, otp.ID); err != nil {
		return apperr.Storage(err)
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, hash); err != nil {
		return apperr.Storage(err)
	}

	log.Info().Str("userID", user.ID.Hex()).Msg("Password reset successfully")
	metrics.PasswordResetsTotal.Inc()
	return nil
}

func (s *otpService) findUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, validation.NormalizeEmail(email))
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if user == nil {
		return nil, apperr.New(apperr.KindNotFound, "No account found for that email")
	}
	return user, nil
}
