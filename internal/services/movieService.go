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

// MovieService defines the interface for movie-related business logic. Movies
// embed a snapshot of their genre and director at creation time.
type MovieService interface {
	AddMovie(ctx context.Context, req *models.CreateMovieRequest) (*models.Movie, error)
	GetMovies(ctx context.Context, filter repositories.MovieFilter) ([]models.Movie, error)
	GetMovieByTitle(ctx context.Context, title string) (*models.Movie, error)
}

type movieServiceImpl struct {
	movieRepo    repositories.MovieRepository
	genreRepo    repositories.GenreRepository
	directorRepo repositories.DirectorRepository
	registry     *validation.Registry
}

// NewMovieService creates a new MovieService.
func NewMovieService(movieRepo repositories.MovieRepository, genreRepo repositories.GenreRepository, directorRepo repositories.DirectorRepository, registry *validation.Registry) MovieService {
	return &movieServiceImpl{
		movieRepo:    movieRepo,
		genreRepo:    genreRepo,
		directorRepo: directorRepo,
		registry:     registry,
	}
}

func (s *movieServiceImpl) AddMovie(ctx context.Context, req *models.CreateMovieRequest) (*models.Movie, error) {
	log.Debug().Str("title", req.Title).Msg("Attempting to add movie")

	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if err := s.registry.MovieTitle(ctx, req.Title, validation.AssertNew); err != nil {
		return nil, err
	}

	genre, err := s.resolveGenre(ctx, req.GenreID)
	if err != nil {
		return nil, err
	}
	director, err := s.resolveDirector(ctx, req.DirectorID)
	if err != nil {
		return nil, err
	}

	movie := &models.Movie{
		ID:          primitive.NewObjectID(),
		Title:       req.Title,
		Description: req.Description,
		Genre: models.GenreDescriptor{
			Name:        genre.Name,
			Description: genre.Description,
		},
		Director: models.DirectorDescriptor{
			Name:  director.Name,
			Bio:   director.Bio,
			Birth: director.Birth,
			Death: director.Death,
		},
		Actors:    req.Actors,
		ImagePath: req.ImagePath,
		Featured:  req.Featured,
		CreatedAt: time.Now(),
	}

	createdMovie, err := s.movieRepo.Create(ctx, movie)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			log.Warn().Str("title", req.Title).Msg("Movie title already exists during insert")
			return nil, apperr.Validationf("Movie %s already exists", req.Title)
		}
		log.Error().Err(err).Str("title", req.Title).Msg("Failed to insert movie")
		return nil, apperr.Storage(err)
	}

	log.Info().Str("movieID", createdMovie.ID.Hex()).Str("title", createdMovie.Title).Msg("Movie added successfully")
	metrics.MovieCreatedTotal.Inc()
	return createdMovie, nil
}

func (s *movieServiceImpl) resolveGenre(ctx context.Context, rawID string) (*models.Genre, error) {
	id, err := primitive.ObjectIDFromHex(rawID)
	if err != nil {
		return nil, apperr.Validationf("Genre id %q is not a valid id", rawID)
	}
	genre, err := s.genreRepo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if genre == nil {
		return nil, apperr.Validationf("Genre %s does not exist", id.Hex())
	}
	return genre, nil
}

func (s *movieServiceImpl) resolveDirector(ctx context.Context, rawID string) (*models.Director, error) {
	id, err := primitive.ObjectIDFromHex(rawID)
	if err != nil {
		return nil, apperr.Validationf("Director id %q is not a valid id", rawID)
	}
	director, err := s.directorRepo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if director == nil {
		return nil, apperr.Validationf("Director %s does not exist", id.Hex())
	}
	return director, nil
}

func (s *movieServiceImpl) GetMovies(ctx context.Context, filter repositories.MovieFilter) ([]models.Movie, error) {
	log.Debug().Msg("Attempting to retrieve movies")
	movies, err := s.movieRepo.FindAll(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("Error finding movies")
		return nil, apperr.Storage(err)
	}
	log.Debug().Int("count", len(movies)).Msg("Successfully retrieved movies")
	return movies, nil
}

func (s *movieServiceImpl) GetMovieByTitle(ctx context.Context, title string) (*models.Movie, error) {
	log.Debug().Str("title", title).Msg("Attempting to retrieve movie by title")
	movie, err := s.movieRepo.FindByTitle(ctx, title)
	if err != nil {
		log.Error().Err(err).Str("title", title).Msg("Error finding movie by title")
		return nil, apperr.Storage(err)
	}
	if movie == nil {
		log.Warn().Str("title", title).Msg("Movie not found")
		return nil, apperr.Newf(apperr.KindNotFound, "Movie %s not found", title)
	}
	return movie, nil
}
