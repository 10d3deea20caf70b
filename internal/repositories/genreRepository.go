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

type GenreRepository interface {
	Create(ctx context.Context, genre *models.Genre) (*models.Genre, error)
	FindByName(ctx context.Context, name string) (*models.Genre, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Genre, error)
	FindAll(ctx context.Context) ([]models.Genre, error)
	NameExists(ctx context.Context, name string) (bool, error)
	IDExists(ctx context.Context, id primitive.ObjectID) (bool, error)
}

type genreRepository struct {
	db database.Service
}

func NewGenreRepository(db database.Service) GenreRepository {
	return &genreRepository{db: db}
}

func (r *genreRepository) collection() *mongo.Collection {
	return r.db.Database().Collection("genres")
}

func (r *genreRepository) Create(ctx context.Context, genre *models.Genre) (*models.Genre, error) {
	queryType := "create"
	repository := "genre"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	_, err := r.collection().InsertOne(ctx, genre)
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		log.Error().Err(err).Str("name", genre.Name).Msg("Failed to insert genre into database")
		return nil, fmt.Errorf("failed to create genre: %w", err)
	}
	return genre, nil
}

func (r *genreRepository) FindByName(ctx context.Context, name string) (*models.Genre, error) {
	queryType := "findByName"
	repository := "genre"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	var genre models.Genre
	err := r.collection().FindOne(ctx, bson.M{"name": name}).Decode(&genre)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return nil, err
	}
	return &genre, nil
}

func (r *genreRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Genre, error) {
	queryType := "findById"
	repository := "genre"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	var genre models.Genre
	err := r.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&genre)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return nil, err
	}
	return &genre, nil
}

func (r *genreRepository) FindAll(ctx context.Context) ([]models.Genre, error) {
	queryType := "findAll"
	repository := "genre"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	cursor, err := r.collection().Find(ctx, bson.M{})
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		log.Error().Err(err).Msg("Failed to list genres")
		return nil, err
	}
	defer cursor.Close(ctx)

	genres := []models.Genre{}
	if err := cursor.All(ctx, &genres); err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return nil, err
	}
	return genres, nil
}

func (r *genreRepository) NameExists(ctx context.Context, name string) (bool, error) {
	queryType := "nameExists"
	repository := "genre"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	count, err := r.collection().CountDocuments(ctx, bson.M{"name": name})
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return false, err
	}
	return count > 0, nil
}

func (r *genreRepository) IDExists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	queryType := "idExists"
	repository := "genre"
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
