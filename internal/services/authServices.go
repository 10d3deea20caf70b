package services

import (
	"context"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/gorilla/sessions"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/facebook"
	"github.com/markbates/goth/providers/google"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"myflix/internal/apperr"
	"myflix/internal/models"
	"myflix/internal/repositories"
	"myflix/internal/utils"
	"myflix/internal/validation"
)

const (
	MaxAge = 86400 * 30
	IsProd = false
)

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]`)

type AuthService interface {
	HandleLogin(ctx context.Context, u goth.User) (string, error)
}

type authService struct {
	userRepo repositories.UserRepository
}

func NewAuthService(userRepo repositories.UserRepository) AuthService {
	return &authService{userRepo: userRepo}
}

func InitializeGoth() {
	googleClientID := os.Getenv("GOOGLE_CLIENT_ID")
	googleClientSecret := os.Getenv("GOOGLE_CLIENT_SECRET")
	facebookClientID := os.Getenv("FACEBOOK_CLIENT_ID")
	facebookClientSecret := os.Getenv("FACEBOOK_CLIENT_SECRET")

	sessionKey := os.Getenv("SESSION_KEY")

	store := sessions.NewCookieStore([]byte(sessionKey))
	store.MaxAge(MaxAge)

	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.Secure = IsProd
	store.Options.SameSite = http.SameSiteLaxMode

	gothic.Store = store

	goth.UseProviders(
		google.New(googleClientID, googleClientSecret, "http://localhost:8080/auth/google/callback"),
		facebook.New(facebookClientID, facebookClientSecret, "http://localhost:8080/auth/facebook/callback"),
	)
	log.Info().Msg("Goth providers initialized")
}

func (a *authService) HandleLogin(ctx context.Context, u goth.User) (string, error) {
	log.Info().Str("email", u.Email).Msg("Attempting to handle login for user")
	if u.Email == "" {
		log.Error().Msg("Missing email in Goth user data")
		return "", apperr.BadInput("Provider profile is missing an email address")
	}

	email := validation.NormalizeEmail(u.Email)

	user, err := a.userRepo.FindByEmail(ctx, email)
	if err != nil {
		log.Error().Err(err).Str("email", email).Msg("Error finding user by email")
		return "", apperr.Storage(err)
	}

	if user == nil {
		log.Info().Str("email", email).Msg("User not found, creating new user")
		username, err := a.usernameFromProfile(ctx, u)
		if err != nil {
			return "", err
		}

		now := time.Now()
		newUser := &models.User{
			ID:         primitive.NewObjectID(),
			Username:   username,
			Email:      email,
			Favourites: []primitive.ObjectID{},
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if _, err := a.userRepo.Create(ctx, newUser); err != nil {
			log.Error().Err(err).Str("email", email).Msg("Error creating new user")
			return "", apperr.Storage(err)
		}
		user = newUser
		log.Info().Str("email", email).Str("userID", user.ID.Hex()).Msg("New user created successfully")
	} else {
		log.Info().Str("email", email).Str("userID", user.ID.Hex()).Msg("User found in database")
	}

	token, err := utils.GenerateJWT(user.ID, user.Username)
	if err != nil {
		log.Error().Err(err).Str("userID", user.ID.Hex()).Msg("Error generating JWT for user")
		return "", err
	}
	log.Info().Str("userID", user.ID.Hex()).Msg("JWT generated successfully")

	return token, nil
}

// usernameFromProfile derives a username that satisfies the account rules
// (at least five alphanumeric characters) from the provider profile, adding a
// numeric suffix until it is free.
func (a *authService) usernameFromProfile(ctx context.Context, u goth.User) (string, error) {
	base := nonAlphanumeric.ReplaceAllString(u.NickName, "")
	if len(base) < 5 {
		local := strings.SplitN(u.Email, "@", 2)[0]
		base = nonAlphanumeric.ReplaceAllString(local, "")
	}
	if len(base) < 5 {
		base = "viewer"
	}

	candidate := base
	for attempt := 0; attempt < 5; attempt++ {
		taken, err := a.userRepo.UsernameExists(ctx, candidate)
		if err != nil {
			return "", apperr.Storage(err)
		}
		if !taken {
			return candidate, nil
		}
		suffix, err := utils.GenerateSecureOTP(4)
		if err != nil {
			return "", apperr.Storage(err)
		}
		candidate = base + suffix
	}

	log.Error().Str("base", base).Msg("Could not find a free username for provider profile")
	return "", apperr.New(apperr.KindConflict, "Could not allocate a username, try again")
}
