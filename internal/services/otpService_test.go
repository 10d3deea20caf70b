package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"myflix/internal/apperr"
	"myflix/internal/models"
)

func newTestOTPService(users *fakeUserRepo, otps *fakeOTPRepo, email *recordingEmailService) OTPService {
	registry := newTestRegistry(users, &fakeMovieRepo{}, &fakeDirectorRepo{}, &fakeGenreRepo{})
	return NewOTPService(users, otps, email, registry)
}

func lastOTPFromEmail(t *testing.T, email *recordingEmailService) string {
	t.Helper()
	require.NotEmpty(t, email.body)
	body := email.body[len(email.body)-1]
	code := strings.TrimPrefix(body, "Your OTP for password reset is: ")
	require.Len(t, code, 6)
	return code
}

func TestGenerateOTPForgotPassword(t *testing.T) {
	ctx := context.Background()

	t.Run("stores a code and mails it to the account address", func(t *testing.T) {
		users := &fakeUserRepo{}
		user := seedUser(t, users, "alice1", "secret", "alice@gmail.com")
		otps := &fakeOTPRepo{}
		email := &recordingEmailService{}
		svc := newTestOTPService(users, otps, email)

		require.NoError(t, svc.GenerateOTPForgotPassword(ctx, "Alice+reset@GMAIL.com"))

		require.Len(t, otps.otps, 1)
		stored := otps.otps[0]
		assert.Equal(t, user.ID, stored.UserID)
		assert.Equal(t, OTPPurposeResetPassword, stored.Purpose)
		assert.False(t, stored.IsUsed)
		assert.True(t, stored.ExpiresAt.After(time.Now()))

		require.Equal(t, []string{"alice@gmail.com"}, email.to)
		assert.Equal(t, stored.OTPCode, lastOTPFromEmail(t, email))
	})

	t.Run("reports an unknown email as not found", func(t *testing.T) {
		svc := newTestOTPService(&fakeUserRepo{}, &fakeOTPRepo{}, &recordingEmailService{})

		err := svc.GenerateOTPForgotPassword(ctx, "nobody@example.com")
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})
}

func TestResetPassword(t *testing.T) {
	ctx := context.Background()

	t.Run("updates the password and burns the code", func(t *testing.T) {
		users := &fakeUserRepo{}
		user := seedUser(t, users, "alice1", "secret", "alice@gmail.com")
		otps := &fakeOTPRepo{}
		email := &recordingEmailService{}
		svc := newTestOTPService(users, otps, email)

		require.NoError(t, svc.GenerateOTPForgotPassword(ctx, "alice@gmail.com"))
		code := lastOTPFromEmail(t, email)

		require.NoError(t, svc.ResetPassword(ctx, &models.ResetPasswordRequest{
			Email:       "alice@gmail.com",
			OTP:         code,
			NewPassword: "brandnew",
		}))
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("brandnew")))

		err := svc.ResetPassword(ctx, &models.ResetPasswordRequest{
			Email:       "alice@gmail.com",
			OTP:         code,
			NewPassword: "another",
		})
		assert.EqualError(t, err, "Invalid or expired OTP")
	})

	t.Run("rejects a wrong code", func(t *testing.T) {
		users := &fakeUserRepo{}
		seedUser(t, users, "alice1", "secret", "alice@gmail.com")
		svc := newTestOTPService(users, &fakeOTPRepo{}, &recordingEmailService{})

		err := svc.ResetPassword(ctx, &models.ResetPasswordRequest{
			Email:       "alice@gmail.com",
			OTP:         "000000",
			NewPassword: "brandnew",
		})
		assert.EqualError(t, err, "Invalid or expired OTP")
	})

	t.Run("rejects an expired code", func(t *testing.T) {
		users := &fakeUserRepo{}
		user := seedUser(t, users, "alice1", "secret", "alice@gmail.com")
		otps := &fakeOTPRepo{}
		otps.otps = append(otps.otps, &models.OTP{
			UserID:    user.ID,
			OTPCode:   "123456",
			Purpose:   OTPPurposeResetPassword,
			ExpiresAt: time.Now().Add(-time.Minute),
		})
		svc := newTestOTPService(users, otps, &recordingEmailService{})

		err := svc.ResetPassword(ctx, &models.ResetPasswordRequest{
			Email:       "alice@gmail.com",
			OTP:         "123456",
			NewPassword: "brandnew",
		})
		assert.EqualError(t, err, "Invalid or expired OTP")
	})

	t.Run("rejects a missing new password before any lookup", func(t *testing.T) {
		users := &fakeUserRepo{}
		seedUser(t, users, "alice1", "secret", "alice@gmail.com")
		svc := newTestOTPService(users, &fakeOTPRepo{}, &recordingEmailService{})

		err := svc.ResetPassword(ctx, &models.ResetPasswordRequest{
			Email: "alice@gmail.com",
			OTP:   "123456",
		})
		assert.EqualError(t, err, "newpassword is required")
	})
}
