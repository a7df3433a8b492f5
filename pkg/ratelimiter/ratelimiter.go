package ratelimiter

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	ScopeGlobal  = "global"
	ScopeComment = "comment"
	ScopeArticle = "article"
)

// RateLimitError carries the remaining cooldown so handlers can set Retry-After.
type RateLimitError struct {
	Message    string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return e.Message
}

func rateLimitKey(userID uuid.UUID, scope string) string {
	return fmt.Sprintf("ratelimit:%s:%s", scope, userID.String())
}

// CheckAndSetRateLimit sets a cooldown key if absent. Returns false when the
// user is still inside the cooldown window. A nil client disables limiting.
func CheckAndSetRateLimit(ctx context.Context, client *redis.Client, userID uuid.UUID, scope string, window time.Duration) (bool, error) {
	if client == nil {
		return true, nil
	}

	ok, err := client.SetNX(ctx, rateLimitKey(userID, scope), time.Now().Unix(), window).Result()
	if err != nil {
		return false, err
	}
	return ok, nil
}

// GetRateLimitTTL returns the remaining cooldown for a user/scope pair.
func GetRateLimitTTL(ctx context.Context, client *redis.Client, userID uuid.UUID, scope string) (time.Duration, error) {
	if client == nil {
		return 0, nil
	}
	return client.TTL(ctx, rateLimitKey(userID, scope)).Result()
}

// ClearRateLimit removes a cooldown key, used to roll back on failed writes.
func ClearRateLimit(ctx context.Context, client *redis.Client, userID uuid.UUID, scope string) error {
	if client == nil {
		return nil
	}
	return client.Del(ctx, rateLimitKey(userID, scope)).Err()
}

func GetDurationFromEnv(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return fallback
	}
	return d
}
