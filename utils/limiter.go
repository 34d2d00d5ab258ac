package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisLimiter throttles verification-code emails: at most one send
// per key per minute and 10 per hour.
type RedisLimiter struct {
	RDB *redis.Client
}

func (l *RedisLimiter) CanSend(ctx context.Context, key string) (bool, string) {
	minuteKey := fmt.Sprintf("otp_minute_%s", key)
	hourKey := fmt.Sprintf("otp_hour_%s", key)
	if l.RDB.Exists(ctx, minuteKey).Val() > 0 {
		return false, "please wait a minute before requesting another code"
	}
	cnt, _ := l.RDB.Get(ctx, hourKey).Int()
	if cnt >= 10 {
		return false, "too many codes requested, try again in an hour"
	}
	return true, ""
}

func (l *RedisLimiter) MarkSent(ctx context.Context, key string) {
	minuteKey := fmt.Sprintf("otp_minute_%s", key)
	hourKey := fmt.Sprintf("otp_hour_%s", key)
	l.RDB.Set(ctx, minuteKey, 1, 60*time.Second)
	l.RDB.Incr(ctx, hourKey)
	l.RDB.Expire(ctx, hourKey, time.Hour)
}
