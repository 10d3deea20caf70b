package services

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"myflix/internal/apperr"
	"myflix/internal/metrics"
	"myflix/internal/models"
	"myflix/internal/repositories"
	"myflix/internal/utils"
	"myflix/internal/validation"
)

// UserService carries the user-facing business logic: signup, login, and the
// owner-only profile operations. Profile updates run through the validation
// assembler before a single keyed write.
type UserService interface {
	Register(ctx context.Context, req *models.SignupRequest) (*models.User, error)
	Login(ctx context.Context, creds *models.LoginRequest) (string, *models.User, error)
	GetProfile(ctx context.Context, currentUsername, targetUsername string) (*models.User, error)
	UpdateProfile(ctx context.Context, currentUsername, targetUsername string, payload []byte) (*models.User, error)
	DeleteAccount(ctx context.Context, currentUsername, targetUsername string) error
	AddFavourite(ctx context.Context, currentUsername, targetUsername, movieID string) ([]primitive.ObjectID, error)
	RemoveFavourite(ctx context.Context, currentUsername, targetUsername, movieID string) ([]primitive.ObjectID, error)
}

type userService struct {
	userRepo        repositories.UserRepository
	movieRepo       repositories.MovieRepository
	registry        *validation.Registry
	assembler       *validation.Assembler
	totalUsersGauge prometheus.Gauge
}

func NewUserService(userRepo repositories.UserRepository, movieRepo repositories.MovieRepository, registry *validation.Registry) UserService {
	s := &userService{
		userRepo:  userRepo,
		movieRepo: movieRepo,
		registry:  registry,
		assembler: validation.NewAssembler(registry),
		totalUsersGauge: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "app_total_users",
			Help: "Total number of registered users in the application.",
		}),
	}
	go s.updateTotalUsersPeriodically()
	return s
}

func (s *userService) updateTotalUsersPeriodically() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		count, err := s.userRepo.CountAll(ctx)
		if err != nil {
			log.Error().Err(err).Msg("Error updating total users gauge")
		} else {
			s.totalUsersGauge.Set(float64(count))
		}
		cancel()
	}
}

func (s *userService) Register(ctx context.Context, req *models.SignupRequest) (*models.User, error) {
	log.Debug().Str("username", req.Username).Msg("Attempting to register user")

	if err := validation.Struct(req); err != nil {
		log.Warn().Err(err).Msg("Signup payload failed shape validation")
		return nil, err
	}

	if err := s.registry.Username(ctx, req.Username, validation.AssertNew); err != nil {
		return nil, err
	}

	passwordHash, err := s.registry.Password(req.Password, nil)
	if err != nil {
		return nil, err
	}

	email, err := s.registry.Email(req.Email, nil)
	if err != nil {
		return nil, err
	}

	var birthday *time.Time
	if req.Birthday != nil {
		parsed, err := s.registry.Birthday(*req.Birthday, nil)
		if err != nil {
			return nil, err
		}
		birthday = &parsed
	}

	favourites := []primitive.ObjectID{}
	if len(req.Favourites) > 0 {
		favourites, err = s.registry.Favourites(ctx, req.Favourites, nil)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now()
	user := &models.User{
		ID:         primitive.NewObjectID(),
		Username:   req.Username,
		Email:      email,
		Password:   passwordHash,
		Birthday:   birthday,
		Favourites: favourites,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	createdUser, err := s.userRepo.Create(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			log.Warn().Str("username", req.Username).Msg("Uniqueness lost between validation and insert")
			return nil, apperr.Validation("Username or email already in use")
		}
		return nil, apperr.Storage(err)
	}

	log.Info().Str("user_id", createdUser.ID.Hex()).Str("username", createdUser.Username).Msg("User registered successfully")
	metrics.NewUsersTotal.Inc()

	if count, err := s.userRepo.CountAll(ctx); err == nil {
		s.totalUsersGauge.Set(float64(count))
	}
	return createdUser, nil
}

func (s *userService) Login(ctx context.Context, creds *models.LoginRequest) (string, *models.User, error) {
	log.Debug().Str("username", creds.Username).Msg("Attempting user login")

	if err := validation.Struct(creds); err != nil {
		return "", nil, err
	}

	user, err := s.userRepo.FindByUsername(ctx, creds.Username)
	if err != nil {
		log.Error().Err(err).Str("username", creds.Username).Msg("Error finding user for login")
		return "", nil, apperr.Storage(err)
	}
	if user == nil {
		log.Warn().Str("username", creds.Username).Msg("Invalid credentials during login attempt")
		metrics.LoginAttemptsTotal.WithLabelValues("failed").Inc()
		return "", nil, apperr.Unauthorized("Invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(creds.Password)); err != nil {
		log.Warn().Str("username", creds.Username).Msg("Invalid credentials (password mismatch) during login attempt")
		metrics.LoginAttemptsTotal.WithLabelValues("failed").Inc()
		return "", nil, apperr.Unauthorized("Invalid credentials")
	}

	token, err := utils.GenerateJWT(user.ID, user.Username)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID.Hex()).Msg("Could not generate token for user")
		return "", nil, err
	}

	log.Info().Str("user_id", user.ID.Hex()).Msg("User logged in successfully")
	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	return token, user, nil
}

func (s *userService) GetProfile(ctx context.Context, currentUsername, targetUsername string) (*models.User, error) {
	if currentUsername != targetUsername {
		log.Warn().Str("current", currentUsername).Str("target", targetUsername).Msg("Profile read blocked for non-owner")
		return nil, apperr.Forbidden("You can only view your own profile")
	}

	user, err := s.userRepo.FindByUsername(ctx, targetUsername)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if user == nil {
		return nil, apperr.Newf(apperr.KindNotFound, "User %s not found", targetUsername)
	}
	return user, nil
}

// UpdateProfile applies a partial profile update. The whole payload is
// validated against the stored user before a single keyed write; the first
// broken rule aborts the request.
func (s *userService) UpdateProfile(ctx context.Context, currentUsername, targetUsername string, payload []byte) (*models.User, error) {
	log.Debug().Str("username", targetUsername).Msg("Attempting to update user profile")

	if currentUsername != targetUsername {
		log.Warn().Str("current", currentUsername).Str("target", targetUsername).Msg("Profile update blocked for non-owner")
		return nil, apperr.Forbidden("You can only modify your own profile")
	}

	user, err := s.userRepo.FindByUsername(ctx, targetUsername)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if user == nil {
		return nil, apperr.Newf(apperr.KindNotFound, "User %s not found", targetUsername)
	}

	projection, err := s.assembler.Assemble(ctx, payload, user)
	if err != nil {
		log.Warn().Err(err).Str("username", targetUsername).Msg("Profile update rejected")
		return nil, err
	}
	projection["updated_at"] = time.Now()

	result, err := s.userRepo.UpdateByUsername(ctx, targetUsername, projection)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			log.Warn().Str("username", targetUsername).Msg("Uniqueness lost between validation and update")
			return nil, apperr.Validation("Username or email already in use")
		}
		return nil, apperr.Storage(err)
	}
	if result.MatchedCount == 0 {
		log.Warn().Str("username", targetUsername).Msg("User vanished between validation and update")
		return nil, apperr.Newf(apperr.KindNotFound, "User %s not found", targetUsername)
	}

	// The username is the write key, so reload under the new name when the
	// update changed it.
	reloadName := targetUsername
	if newName, ok := projection["username"].(string); ok {
		reloadName = newName
	}

	updatedUser, err := s.userRepo.FindByUsername(ctx, reloadName)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if updatedUser == nil {
		return nil, apperr.Newf(apperr.KindNotFound, "User %s not found", reloadName)
	}

	log.Info().Str("user_id", updatedUser.ID.Hex()).Msg("User profile updated successfully")
	return updatedUser, nil
}

func (s *userService) DeleteAccount(ctx context.Context, currentUsername, targetUsername string) error {
	log.Debug().Str("username", targetUsername).Msg("Attempting to delete user account")

	if currentUsername != targetUsername {
		log.Warn().Str("current", currentUsername).Str("target", targetUsername).Msg("Account deletion blocked for non-owner")
		return apperr.Forbidden("You can only delete your own profile")
	}

	result, err := s.userRepo.DeleteByUsername(ctx, targetUsername)
	if err != nil {
		return apperr.Storage(err)
	}
	if result.DeletedCount == 0 {
		return apperr.Newf(apperr.KindNotFound, "User %s not found", targetUsername)
	}

	log.Info().Str("username", targetUsername).Msg("User account deleted successfully")

	if count, err := s.userRepo.CountAll(ctx); err == nil {
		s.totalUsersGauge.Set(float64(count))
	}
	return nil
}

// AddFavourite appends a movie to the end of the favourites list. The list
// is ordered and may contain the same movie more than once.
func (s *userService) AddFavourite(ctx context.Context, currentUsername, targetUsername, movieID string) ([]primitive.ObjectID, error) {
	if currentUsername != targetUsername {
		return nil, apperr.Forbidden("You can only modify your own favourites")
	}

	user, err := s.userRepo.FindByUsername(ctx, targetUsername)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if user == nil {
		return nil, apperr.Newf(apperr.KindNotFound, "User %s not found", targetUsername)
	}

	id, err := validation.CheckRef(ctx, s.movieRepo, "Movie", movieID)
	if err != nil {
		return nil, err
	}

	favourites := append(append([]primitive.ObjectID{}, user.Favourites...), id)
	if err := s.writeFavourites(ctx, targetUsername, favourites); err != nil {
		return nil, err
	}

	log.Info().Str("username", targetUsername).Str("movie_id", id.Hex()).Msg("Movie added to favourites")
	metrics.FavouriteUpdatesTotal.WithLabelValues("add").Inc()
	return favourites, nil
}

// RemoveFavourite removes the first occurrence of a movie from the list.
func (s *userService) RemoveFavourite(ctx context.Context, currentUsername, targetUsername, movieID string) ([]primitive.ObjectID, error) {
	if currentUsername != targetUsername {
		return nil, apperr.Forbidden("You can only modify your own favourites")
	}

	user, err := s.userRepo.FindByUsername(ctx, targetUsername)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if user == nil {
		return nil, apperr.Newf(apperr.KindNotFound, "User %s not found", targetUsername)
	}

	id, err := primitive.ObjectIDFromHex(movieID)
	if err != nil {
		return nil, apperr.Validationf("Movie id %q is not a valid id", movieID)
	}

	removed := false
	favourites := make([]primitive.ObjectID, 0, len(user.Favourites))
	for _, fav := range user.Favourites {
		if !removed && fav == id {
			removed = true
			continue
		}
		favourites = append(favourites, fav)
	}
	if !removed {
		return nil, apperr.Validationf("Movie %s is not in favourites", id.Hex())
	}

	if err := s.writeFavourites(ctx, targetUsername, favourites); err != nil {
		return nil, err
	}

	log.Info().Str("username", targetUsername).Str("movie_id", id.Hex()).Msg("Movie removed from favourites")
	metrics.FavouriteUpdatesTotal.WithLabelValues("remove").Inc()
	return favourites, nil
}

func (s *userService) writeFavourites(ctx context.Context, username string, favourites []primitive.ObjectID) error {
	result, err := s.userRepo.UpdateByUsername(ctx, username, bson.M{
		"favourites": favourites,
		"updated_at": time.Now(),
	})
	if err != nil {
		return apperr.Storage(err)
	}
	if result.MatchedCount == 0 {
		return apperr.Newf(apperr.KindNotFound, "User %s not found", username)
	}
	return nil
}
