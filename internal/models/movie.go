package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Movie embeds snapshots of its genre and director taken at creation time.
// Movies are immutable after creation, so the snapshots never drift.
type Movie struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description" bson:"description"`
	Genre       GenreDescriptor    `json:"genre" bson:"genre"`
	Director    DirectorDescriptor `json:"director" bson:"director"`
	Actors      []string           `json:"actors" bson:"actors"`
	ImagePath   *string            `json:"imagePath" bson:"image_path"`
	Featured    *bool              `json:"featured" bson:"featured"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
}

type GenreDescriptor struct {
	Name        string `json:"name" bson:"name"`
	Description string `json:"description" bson:"description"`
}

type DirectorDescriptor struct {
	Name  string     `json:"name" bson:"name"`
	Bio   string     `json:"bio" bson:"bio"`
	Birth *time.Time `json:"birth" bson:"birth"`
	Death *time.Time `json:"death" bson:"death"`
}

// CreateMovieRequest references genre and director by id; the service resolves
// them into embedded descriptors.
type CreateMovieRequest struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description" validate:"required"`
	GenreID     string   `json:"genreId" validate:"required"`
	DirectorID  string   `json:"directorId" validate:"required"`
	Actors      []string `json:"actors" validate:"required,min=1,dive,required"`
	ImagePath   *string  `json:"imagePath"`
	Featured    *bool    `json:"featured"`
}
