package database

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	_ "github.com/joho/godotenv/autoload"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"myflix/internal/utils"
)

type Service interface {
	Health() map[string]string
	Client() *mongo.Client
	Database() *mongo.Database
	Close() error
}

type service struct {
	db     *mongo.Client
	dbName string
}

func New() Service {
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		log.Fatal().Msg("MONGO_URI environment variable not set")
	}

	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "myflix"
	}

	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}

	return &service{
		db:     client,
		dbName: dbName,
	}
}

func (s *service) Health() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	err := s.db.Ping(ctx, nil)
	if err != nil {
		log.Error().Err(err).Msg("Database health check failed")
		return map[string]string{
			"message": "db down",
			"error":   err.Error(),
		}
	}

	return map[string]string{
		"message": "It's healthy",
	}
}

func (s *service) Client() *mongo.Client {
	return s.db
}

func (s *service) Database() *mongo.Database {
	return s.db.Database(s.dbName)
}

func (s *service) Close() error {
	return s.db.Disconnect(context.Background())
}

// EnsureIndexes creates the unique indexes the validation rules rely on.
// Uniqueness lost between a validation read and the mutation then surfaces
// as a duplicate key error at write time instead of silently passing.
func EnsureIndexes(db Service) error {
	d := db.Database()

	indexes := []struct {
		collection string
		field      string
	}{
		{"users", "username"},
		{"users", "email"},
		{"movies", "title"},
		{"directors", "name"},
		{"genres", "name"},
	}

	for _, idx := range indexes {
		keys := bson.D{{Key: idx.field, Value: 1}}
		if err := utils.CreateUniqueIndex(d.Collection(idx.collection), keys, idx.field); err != nil {
			return err
		}
		log.Debug().Str("collection", idx.collection).Str("field", idx.field).Msg("Unique index ensured")
	}
	return nil
}
