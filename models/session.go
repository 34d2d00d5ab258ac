package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Session is the identity resolved from the request cookie by the
// session middleware.
type Session struct {
	Token  string
	UserID primitive.ObjectID
}
