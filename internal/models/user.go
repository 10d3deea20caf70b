package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID         primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Username   string               `json:"username" bson:"username"`
	Email      string               `json:"email" bson:"email"`
	Password   string               `json:"-" bson:"password"`
	Birthday   *time.Time           `json:"birthday" bson:"birthday"`
	Favourites []primitive.ObjectID `json:"favourites" bson:"favourites"`
	CreatedAt  time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time            `json:"updated_at" bson:"updated_at"`
}

// SignupRequest carries the raw signup payload. Tag validation covers field
// presence only; the stateful rules (uniqueness, reference existence) run in
// the validation package afterwards.
type SignupRequest struct {
	Username   string   `json:"username" validate:"required"`
	Password   string   `json:"password" validate:"required"`
	Email      string   `json:"email" validate:"required"`
	Birthday   *string  `json:"birthday"`
	Favourites []string `json:"favourites"`
}
