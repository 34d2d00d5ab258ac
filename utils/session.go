package utils

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ShahwaizZahid/pog-blog/models"
)

// SessionTTL is how long a login stays valid without re-authenticating.
const SessionTTL = 7 * 24 * time.Hour

var ErrSessionNotFound = errors.New("session not found")

// RedisSessions maps opaque session tokens to user ids with a TTL.
type RedisSessions struct {
	RDB *redis.Client
}

func (s *RedisSessions) Create(ctx context.Context, userID primitive.ObjectID) (string, error) {
	token := uuid.NewString()
	if err := s.RDB.Set(ctx, "session:"+token, userID.Hex(), SessionTTL).Err(); err != nil {
		return "", err
	}
	return token, nil
}

func (s *RedisSessions) Resolve(ctx context.Context, token string) (models.Session, error) {
	hex, err := s.RDB.Get(ctx, "session:"+token).Result()
	if err == redis.Nil {
		return models.Session{}, ErrSessionNotFound
	}
	if err != nil {
		return models.Session{}, err
	}
	userID, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return models.Session{}, ErrSessionNotFound
	}
	return models.Session{Token: token, UserID: userID}, nil
}

func (s *RedisSessions) Delete(ctx context.Context, token string) error {
	return s.RDB.Del(ctx, "session:"+token).Err()
}
