package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// AttemptCounter keeps per-user quiz attempt counts under user:{id}:quiz_attempts.
type AttemptCounter struct {
	client *redis.Client
}

func NewAttemptCounter(client *redis.Client) *AttemptCounter {
	return &AttemptCounter{client: client}
}

// Increment atomically bumps the counter and returns the new value.
func (c *AttemptCounter) Increment(ctx context.Context, userID string) (int64, error) {
	n, err := c.client.Incr(ctx, attemptsKey(userID)).Result()
	if err != nil {
		return 0, fmt.Errorf("increment attempts for %s: %w", userID, err)
	}
	return n, nil
}

func attemptsKey(userID string) string {
	return "user:" + userID + ":quiz_attempts"
}
