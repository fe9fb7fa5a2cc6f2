package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Limiter is a per user, per action cooldown backed by redis SETNX.
// A nil redis client disables limiting.
type Limiter struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) *Limiter {
	return &Limiter{rdb: rdb}
}

func key(userID uuid.UUID, action string) string {
	return fmt.Sprintf("rate_limit:user:%s:%s", userID.String(), action)
}

// Allow reports whether the action may run now and starts the cooldown if so.
func (l *Limiter) Allow(ctx context.Context, userID uuid.UUID, action string, cooldown time.Duration) (bool, error) {
	if l == nil || l.rdb == nil || cooldown <= 0 {
		return true, nil
	}

	wasSet, err := l.rdb.SetNX(ctx, key(userID, action), "locked", cooldown).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit in redis: %w", err)
	}

	return wasSet, nil
}

// TTL returns how long until the action is allowed again.
func (l *Limiter) TTL(ctx context.Context, userID uuid.UUID, action string) (time.Duration, error) {
	if l == nil || l.rdb == nil {
		return 0, nil
	}
	return l.rdb.TTL(ctx, key(userID, action)).Result()
}

// Clear lifts the cooldown, used when the guarded action failed before doing work.
func (l *Limiter) Clear(ctx context.Context, userID uuid.UUID, action string) error {
	if l == nil || l.rdb == nil {
		return nil
	}
	return l.rdb.Del(ctx, key(userID, action)).Err()
}
