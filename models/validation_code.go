package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ValidationCode is usable only before ExpiresAt and only with an
// exact email+code match. One code per email; re-signup upserts over
// the previous one.
type ValidationCode struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Email     string             `bson:"email"`
	Code      string             `bson:"code"`
	ExpiresAt time.Time          `bson:"expires_at"`
}
