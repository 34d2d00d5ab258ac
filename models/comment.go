package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Comment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Content   string             `bson:"content" json:"content"`
	Author    primitive.ObjectID `bson:"author" json:"author"`
	Blog      primitive.ObjectID `bson:"blog" json:"blog"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}
