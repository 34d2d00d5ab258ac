package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Blog references its author by id and embeds like and comment id
// arrays. Like uniqueness is enforced by the conditional update in the
// store, not by the schema.
type Blog struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title       string               `bson:"title" json:"title"`
	Description string               `bson:"description" json:"description"`
	Content     string               `bson:"content" json:"content"`
	Image       string               `bson:"image" json:"image"`
	Author      primitive.ObjectID   `bson:"author" json:"author"`
	Likes       []primitive.ObjectID `bson:"likes" json:"likes"`
	Comments    []primitive.ObjectID `bson:"comments" json:"comments"`
	CreatedAt   time.Time            `bson:"created_at" json:"createdAt"`
}
