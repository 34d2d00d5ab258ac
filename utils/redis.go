package utils

import (
	"github.com/go-redis/redis/v8"
)

var redisClient *redis.Client

func SetRedis(client *redis.Client) {
	redisClient = client
}

func GetRedis() *redis.Client {
	return redisClient
}
