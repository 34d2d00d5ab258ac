package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DefaultBio     = "This user prefers to keep an air of mystery about them."
	DefaultPicture = "/uploads/default-avatar.png"
)

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email     string             `bson:"email" json:"email"`
	Username  string             `bson:"username" json:"username"`
	Password  string             `bson:"password" json:"-"`
	Picture   string             `bson:"picture" json:"picture"`
	Bio       string             `bson:"bio" json:"bio"`
	Verified  bool               `bson:"verified" json:"verified"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}

// UserSummary is the denormalized author subset attached to blogs and
// comments when references get resolved.
type UserSummary struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	Username string             `bson:"username" json:"username"`
	Picture  string             `bson:"picture" json:"picture"`
}
