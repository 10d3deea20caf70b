package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Director struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Bio       string             `json:"bio" bson:"bio"`
	Birth     *time.Time         `json:"birth" bson:"birth"`
	Death     *time.Time         `json:"death" bson:"death"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

type CreateDirectorRequest struct {
	Name  string  `json:"name" validate:"required"`
	Bio   string  `json:"bio" validate:"required"`
	Birth *string `json:"birth"`
	Death *string `json:"death"`
}
