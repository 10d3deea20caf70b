package repositories

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"myflix/internal/database"
	"myflix/internal/models"
	"myflix/internal/utils"
)

// MovieFilter narrows a catalog listing. Zero values mean no constraint.
type MovieFilter struct {
	Genre    string
	Director string
	Featured *bool
}

type MovieRepository interface {
	Create(ctx context.Context, movie *models.Movie) (*models.Movie, error)
	FindByTitle(ctx context.Context, title string) (*models.Movie, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Movie, error)
	FindAll(ctx context.Context, filter MovieFilter) ([]models.Movie, error)
	IDExists(ctx context.Context, id primitive.ObjectID) (bool, error)
	TitleExists(ctx context.Context, title string) (bool, error)
}

type movieRepository struct {
	db database.Service
}

func NewMovieRepository(db database.Service) MovieRepository {
	return &movieRepository{db: db}
}

func (r *movieRepository) collection() *mongo.Collection {
	return r.db.Database().Collection("movies")
}

func (r *movieRepository) Create(ctx context.Context, movie *models.Movie) (*models.Movie, error) {
	queryType := "create"
	repository := "movie"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	_, err := r.collection().InsertOne(ctx, movie)
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		log.Error().Err(err).Str("title", movie.Title).Msg("Failed to insert movie into database")
		return nil, fmt.Errorf("failed to create movie: %w", err)
	}
	return movie, nil
}

func (r *movieRepository) FindByTitle(ctx context.Context, title string) (*models.Movie, error) {
	queryType := "findByTitle"
	repository := "movie"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	var movie models.Movie
	err := r.collection().FindOne(ctx, bson.M{"title": title}).Decode(&movie)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return nil, err
	}
	return &movie, nil
}

// FindByIDs returns the matching movies in the order the ids were given.
// Duplicate ids yield duplicate entries; ids with no document are skipped.
func (r *movieRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Movie, error) {
	queryType := "findByIds"
	repository := "movie"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	if len(ids) == 0 {
		return []models.Movie{}, nil
	}

	cursor, err := r.collection().Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return nil, err
	}
	defer cursor.Close(ctx)

	var fetched []models.Movie
	if err := cursor.All(ctx, &fetched); err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return nil, err
	}

	byID := make(map[primitive.ObjectID]models.Movie, len(fetched))
	for _, m := range fetched {
		byID[m.ID] = m
	}

	ordered := make([]models.Movie, 0, len(ids))
	for _, id := range ids {
		if m, ok := byID[id]; ok {
			ordered = append(ordered, m)
		}
	}
	return ordered, nil
}

func (r *movieRepository) FindAll(ctx context.Context, filter MovieFilter) ([]models.Movie, error) {
	queryType := "findAll"
	repository := "movie"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	query := bson.M{}
	if filter.Genre != "" {
		query["genre.name"] = filter.Genre
	}
	if filter.Director != "" {
		query["director.name"] = filter.Director
	}
	if filter.Featured != nil {
		query["featured"] = *filter.Featured
	}

	cursor, err := r.collection().Find(ctx, query)
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		log.Error().Err(err).Msg("Failed to list movies")
		return nil, err
	}
	defer cursor.Close(ctx)

	movies := []models.Movie{}
	if err := cursor.All(ctx, &movies); err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return nil, err
	}
	return movies, nil
}

func (r *movieRepository) IDExists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	queryType := "idExists"
	repository := "movie"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	count, err := r.collection().CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return false, err
	}
	return count > 0, nil
}

func (r *movieRepository) TitleExists(ctx context.Context, title string) (bool, error) {
	queryType := "titleExists"
	repository := "movie"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	count, err := r.collection().CountDocuments(ctx, bson.M{"title": title})
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return false, err
	}
	return count > 0, nil
}
