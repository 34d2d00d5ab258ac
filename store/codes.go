package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ShahwaizZahid/pog-blog/models"
)

type ValidationCodes struct {
	c *mongo.Collection
}

func NewValidationCodes(db *mongo.Database) *ValidationCodes {
	return &ValidationCodes{c: db.Collection("validation_codes")}
}

// Upsert replaces any previous code for the email, so a re-signup
// supersedes the stale code instead of leaving it behind.
func (s *ValidationCodes) Upsert(ctx context.Context, code models.ValidationCode) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"email": code.Email},
		bson.M{"$set": bson.M{"code": code.Code, "expires_at": code.ExpiresAt}},
		options.Update().SetUpsert(true))
	return err
}

// Find requires an exact email+code match. Expiry is the caller's
// check; the TTL index only garbage-collects.
func (s *ValidationCodes) Find(ctx context.Context, email, code string) (*models.ValidationCode, error) {
	var vc models.ValidationCode
	err := s.c.FindOne(ctx, bson.M{"email": email, "code": code}).Decode(&vc)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &vc, nil
}

func (s *ValidationCodes) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
