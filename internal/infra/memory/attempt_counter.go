package memory

import (
	"context"
	"sync"
)

// AttemptCounter counts quiz attempts per user in process memory.
type AttemptCounter struct {
	mu     sync.Mutex
	counts map[string]int64
}

func NewAttemptCounter() *AttemptCounter {
	return &AttemptCounter{counts: make(map[string]int64)}
}

func (c *AttemptCounter) Increment(_ context.Context, userID string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[userID]++
	return c.counts[userID], nil
}

// Attempts returns the current count for userID.
func (c *AttemptCounter) Attempts(userID string) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[userID]
}
