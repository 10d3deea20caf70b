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

type DirectorRepository interface {
	Create(ctx context.Context, director *models.Director) (*models.Director, error)
	FindByName(ctx context.Context, name string) (*models.Director, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Director, error)
	FindAll(ctx context.Context) ([]models.Director, error)
	NameExists(ctx context.Context, name string) (bool, error)
	IDExists(ctx context.Context, id primitive.ObjectID) (bool, error)
}

type directorRepository struct {
	db database.Service
}

func NewDirectorRepository(db database.Service) DirectorRepository {
	return &directorRepository{db: db}
}

func (r *directorRepository) collection() *mongo.Collection {
	return r.db.Database().Collection("directors")
}

func (r *directorRepository) Create(ctx context.Context, director *models.Director) (*models.Director, error) {
	queryType := "create"
	repository := "director"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	_, err := r.collection().InsertOne(ctx, director)
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		log.Error().Err(err).Str("name", director.Name).Msg("Failed to insert director into database")
		return nil, fmt.Errorf("failed to create director: %w", err)
	}
	return director, nil
}

func (r *directorRepository) FindByName(ctx context.Context, name string) (*models.Director, error) {
	queryType := "findByName"
	repository := "director"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	var director models.Director
	err := r.collection().FindOne(ctx, bson.M{"name": name}).Decode(&director)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return nil, err
	}
	return &director, nil
}

func (r *directorRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Director, error) {
	queryType := "findById"
	repository := "director"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	var director models.Director
	err := r.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&director)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return nil, err
	}
	return &director, nil
}

func (r *directorRepository) FindAll(ctx context.Context) ([]models.Director, error) {
	queryType := "findAll"
	repository := "director"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	cursor, err := r.collection().Find(ctx, bson.M{})
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		log.Error().Err(err).Msg("Failed to list directors")
		return nil, err
	}
	defer cursor.Close(ctx)

	directors := []models.Director{}
	if err := cursor.All(ctx, &directors); err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return nil, err
	}
	return directors, nil
}

func (r *directorRepository) NameExists(ctx context.Context, name string) (bool, error) {
	queryType := "nameExists"
	repository := "director"
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

func (r *directorRepository) IDExists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	queryType := "idExists"
	repository := "director"
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
