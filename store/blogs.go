package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ShahwaizZahid/pog-blog/models"
)

type Blogs struct {
	c *mongo.Collection
}

func NewBlogs(db *mongo.Database) *Blogs {
	return &Blogs{c: db.Collection("blogs")}
}

func (s *Blogs) Insert(ctx context.Context, b *models.Blog) error {
	res, err := s.c.InsertOne(ctx, b)
	if err != nil {
		return err
	}
	b.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// Page returns one fixed-size page ordered by publication time
// descending, plus the total count the caller needs for hasMore. The
// count runs per request; concurrent inserts can shift items between
// pages.
func (s *Blogs) Page(ctx context.Context, page, size int) ([]models.Blog, int64, error) {
	total, err := s.c.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetSkip(int64((page-1)*size)).
		SetLimit(int64(size)))
	if err != nil {
		return nil, 0, err
	}
	var blogs []models.Blog
	if err := cur.All(ctx, &blogs); err != nil {
		return nil, 0, err
	}
	return blogs, total, nil
}

func (s *Blogs) ByID(ctx context.Context, id primitive.ObjectID) (*models.Blog, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

// ByAuthorTitle takes the first match; nothing enforces (author,
// title) uniqueness at insert time.
func (s *Blogs) ByAuthorTitle(ctx context.Context, author primitive.ObjectID, title string) (*models.Blog, error) {
	return s.findOne(ctx, bson.M{"author": author, "title": title})
}

func (s *Blogs) findOne(ctx context.Context, filter bson.M) (*models.Blog, error) {
	var b models.Blog
	err := s.c.FindOne(ctx, filter).Decode(&b)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *Blogs) ByAuthor(ctx context.Context, author primitive.ObjectID) ([]models.Blog, error) {
	cur, err := s.c.Find(ctx, bson.M{"author": author},
		options.Find().SetSort(bson.M{"created_at": -1}))
	if err != nil {
		return nil, err
	}
	var blogs []models.Blog
	if err := cur.All(ctx, &blogs); err != nil {
		return nil, err
	}
	return blogs, nil
}

// AddLike appends userID to the blog's like set only if it is not
// already a member, in a single conditional update. Zero matches maps
// to ErrAlreadyLiked, which also covers a missing blog (see
// ErrAlreadyLiked). Returns the like count after the update.
func (s *Blogs) AddLike(ctx context.Context, blogID, userID primitive.ObjectID) (int, error) {
	var updated struct {
		Likes []primitive.ObjectID `bson:"likes"`
	}
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": blogID, "likes": bson.M{"$ne": userID}},
		bson.M{"$push": bson.M{"likes": userID}},
		options.FindOneAndUpdate().
			SetReturnDocument(options.After).
			SetProjection(bson.M{"likes": 1}),
	).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return 0, ErrAlreadyLiked
	}
	if err != nil {
		return 0, err
	}
	return len(updated.Likes), nil
}

// LikeWindow slices the embedded like-id array with $slice [skip,
// limit]. Callers fetch one element past the page size to detect
// hasMore without a count query.
func (s *Blogs) LikeWindow(ctx context.Context, blogID primitive.ObjectID, skip, limit int) ([]primitive.ObjectID, error) {
	return s.window(ctx, blogID, "likes", skip, limit)
}

// CommentWindow is the same window over the comment reference array.
// Array order is append order, so pages come back oldest first.
func (s *Blogs) CommentWindow(ctx context.Context, blogID primitive.ObjectID, skip, limit int) ([]primitive.ObjectID, error) {
	return s.window(ctx, blogID, "comments", skip, limit)
}

func (s *Blogs) window(ctx context.Context, blogID primitive.ObjectID, field string, skip, limit int) ([]primitive.ObjectID, error) {
	var doc struct {
		Likes    []primitive.ObjectID `bson:"likes"`
		Comments []primitive.ObjectID `bson:"comments"`
	}
	err := s.c.FindOne(ctx, bson.M{"_id": blogID},
		options.FindOne().SetProjection(bson.M{
			field: bson.M{"$slice": bson.A{skip, limit}},
		})).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if field == "likes" {
		return doc.Likes, nil
	}
	return doc.Comments, nil
}

// AppendComment is the second write of comment creation, independent
// of the comment insert. A failure here leaves the inserted comment
// unreferenced by its blog.
func (s *Blogs) AppendComment(ctx context.Context, blogID, commentID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": blogID},
		bson.M{"$push": bson.M{"comments": commentID}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
