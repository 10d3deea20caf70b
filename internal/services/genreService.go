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

// GenreService defines the interface for genre-related business logic.
type GenreService interface {
	AddGenre(ctx context.Context, req *models.CreateGenreRequest) (*models.Genre, error)
	GetGenres(ctx context.Context) ([]models.Genre, error)
	GetGenreByName(ctx context.Context, name string) (*models.Genre, error)
}

type genreServiceImpl struct {
	genreRepo repositories.GenreRepository
	registry  *validation.Registry
}

// NewGenreService creates a new GenreService.
func NewGenreService(genreRepo repositories.GenreRepository, registry *validation.Registry) GenreService {
	return &genreServiceImpl{genreRepo: genreRepo, registry: registry}
}

func (s *genreServiceImpl) AddGenre(ctx context.Context, req *models.CreateGenreRequest) (*models.Genre, error) {
	log.Debug().Str("name", req.Name).Msg("Attempting to add genre")

	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if err := s.registry.GenreName(ctx, req.Name, validation.AssertNew); err != nil {
		return nil, err
	}

	genre := &models.Genre{
		ID:          primitive.NewObjectID(),
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   time.Now(),
	}

	createdGenre, err := s.genreRepo.Create(ctx, genre)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			log.Warn().Str("name", req.Name).Msg("Genre name already exists during insert")
			return nil, apperr.Validationf("Genre %s already exists", req.Name)
		}
		log.Error().Err(err).Str("name", req.Name).Msg("Failed to insert genre")
		return nil, apperr.Storage(err)
	}

	log.Info().Str("genreID", createdGenre.ID.Hex()).Str("name", createdGenre.Name).Msg("Genre added successfully")
	metrics.GenreCreatedTotal.Inc()
	return createdGenre, nil
}

func (s *genreServiceImpl) GetGenres(ctx context.Context) ([]models.Genre, error) {
	log.Debug().Msg("Attempting to retrieve genres")
	genres, err := s.genreRepo.FindAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Error finding genres")
		return nil, apperr.Storage(err)
	}
	log.Debug().Int("count", len(genres)).Msg("Successfully retrieved genres")
	return genres, nil
}

func (s *genreServiceImpl) GetGenreByName(ctx context.Context, name string) (*models.Genre, error) {
	log.Debug().Str("name", name).Msg("Attempting to retrieve genre by name")
	genre, err := s.genreRepo.FindByName(ctx, name)
	if err != nil {
		log.Error().Err(err).Str("name", name).Msg("Error finding genre by name")
		return nil, apperr.Storage(err)
	}
	if genre == nil {
		log.Warn().Str("name", name).Msg("Genre not found")
		return nil, apperr.Newf(apperr.KindNotFound, "Genre %s not found", name)
	}
	return genre, nil
}
