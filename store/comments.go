package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ShahwaizZahid/pog-blog/models"
)

type Comments struct {
	c *mongo.Collection
}

func NewComments(db *mongo.Database) *Comments {
	return &Comments{c: db.Collection("comments")}
}

func (s *Comments) Insert(ctx context.Context, cm *models.Comment) error {
	res, err := s.c.InsertOne(ctx, cm)
	if err != nil {
		return err
	}
	cm.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// ByIDs resolves comment references in the order they were requested,
// which is the blog's embedded array order. Dangling references are
// skipped.
func (s *Comments) ByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Comment, error) {
	if len(ids) == 0 {
		return []models.Comment{}, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var found []models.Comment
	if err := cur.All(ctx, &found); err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]models.Comment, len(found))
	for _, cm := range found {
		byID[cm.ID] = cm
	}
	out := make([]models.Comment, 0, len(ids))
	for _, id := range ids {
		if cm, ok := byID[id]; ok {
			out = append(out, cm)
		}
	}
	return out, nil
}
