package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OTP is a single-use reset code. Codes are delivered by email only and never
// serialized into API responses.
type OTP struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UserID    primitive.ObjectID `bson:"user_id" json:"-"`
	OTPCode   string             `bson:"otp_code" json:"-"`
	Purpose   string             `bson:"purpose" json:"-"`
	ExpiresAt time.Time          `bson:"expires_at" json:"-"`
	IsUsed    bool               `bson:"is_used" json:"-"`
	CreatedAt time.Time          `bson:"created_at" json:"-"`
}
