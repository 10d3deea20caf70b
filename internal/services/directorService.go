package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"myflix/internal/apperr"
	"myflix/internal/metrics"
	"myflix/internal/models"
	"myflix/internal/repositories"
	"myflix/internal/validation"
)

// DirectorService defines the interface for director-related business logic.
type DirectorService interface {
	AddDirector(ctx context.Context, req *models.CreateDirectorRequest) (*models.Director, error)
	GetDirectors(ctx context.Context) ([]models.Director, error)
	GetDirectorByName(ctx context.Context, name string) (*models.Director, error)
}

type directorServiceImpl struct {
	directorRepo repositories.DirectorRepository
	registry     *validation.Registry
}

// NewDirectorService creates a new DirectorService.
func NewDirectorService(directorRepo repositories.DirectorRepository, registry *validation.Registry) DirectorService {
	return &directorServiceImpl{directorRepo: directorRepo, registry: registry}
}

func (s *directorServiceImpl) AddDirector(ctx context.Context, req *models.CreateDirectorRequest) (*models.Director, error) {
	log.Debug().Str("name", req.Name).Msg("Attempting to add director")

	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if err := s.registry.DirectorName(ctx, req.Name, validation.AssertNew); err != nil {
		return nil, err
	}

	birth, err := parseOptionalDate(req.Birth, "Birth")
	if err != nil {
		return nil, err
	}
	death, err := parseOptionalDate(req.Death, "Death")
	if err != nil {
		return nil, err
	}

	director := &models.Director{
		ID:        primitive.NewObjectID(),
		Name:      req.Name,
		Bio:       req.Bio,
		Birth:     birth,
		Death:     death,
		CreatedAt: time.Now(),
	}

	createdDirector, err := s.directorRepo.Create(ctx, director)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			log.Warn().Str("name", req.Name).Msg("Director name already exists during insert")
			return nil, apperr.Validationf("Director %s already exists", req.Name)
		}
		log.Error().Err(err).Str("name", req.Name).Msg("Failed to insert director")
		return nil, apperr.Storage(err)
	}

	log.Info().Str("directorID", createdDirector.ID.Hex()).Str("name", createdDirector.Name).Msg("Director added successfully")
	metrics.DirectorCreatedTotal.Inc()
	return createdDirector, nil
}

func parseOptionalDate(raw *string, field string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	parsed, err := validation.ParseDate(*raw)
	if err != nil {
		return nil, apperr.Validationf("%s must be a valid ISO-8601 date", field)
	}
	return &parsed, nil
}

func (s *directorServiceImpl) GetDirectors(ctx context.Context) ([]models.Director, error) {
	log.Debug().Msg("Attempting to retrieve directors")
	directors, err := s.directorRepo.FindAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Error finding directors")
		return nil, apperr.Storage(err)
	}
	log.Debug().Int("count", len(directors)).Msg("Successfully retrieved directors")
	return directors, nil
}

func (s *directorServiceImpl) GetDirectorByName(ctx context.Context, name string) (*models.Director, error) {
	log.Debug().Str("name", name).Msg("Attempting to retrieve director by name")
	director, err := s.directorRepo.FindByName(ctx, name)
	if err != nil {
		log.Error().Err(err).Str("name", name).Msg("Error finding director by name")
		return nil, apperr.Storage(err)
	}
	if director == nil {
		log.Warn().Str("name", name).Msg("Director not found")
		return nil, apperr.Newf(apperr.KindNotFound, "Director %s not found", name)
	}
	return director, nil
}
