package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"quiz-risk-service/internal/domain"
)

// SubmissionStore is a process-local SubmissionRepository. Results are
// copied in and out so callers never share state with the store.
type SubmissionStore struct {
	mu          sync.RWMutex
	submissions map[string]domain.SubmissionResult
}

func NewSubmissionStore() *SubmissionStore {
	return &SubmissionStore{submissions: make(map[string]domain.SubmissionResult)}
}

func (s *SubmissionStore) Insert(_ context.Context, result domain.SubmissionResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.submissions[result.ID]; exists {
		return fmt.Errorf("submission %s already exists", result.ID)
	}
	s.submissions[result.ID] = result.Clone()
	return nil
}

func (s *SubmissionStore) Get(_ context.Context, id string) (domain.SubmissionResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.submissions[id]
	if !ok {
		return domain.SubmissionResult{}, domain.ErrSubmissionNotFound
	}
	return result.Clone(), nil
}

func (s *SubmissionStore) Update(_ context.Context, id string, patch domain.SubmissionPatch) (domain.SubmissionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result, ok := s.submissions[id]
	if !ok {
		return domain.SubmissionResult{}, domain.ErrSubmissionNotFound
	}
	result = result.Clone()
	patch.Apply(&result)
	s.submissions[id] = result
	return result.Clone(), nil
}

func (s *SubmissionStore) List(_ context.Context) ([]domain.SubmissionResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collectLocked(func(domain.SubmissionResult) bool { return true }, 0), nil
}

func (s *SubmissionStore) ListByUser(_ context.Context, userID string, limit int) ([]domain.SubmissionResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collectLocked(func(r domain.SubmissionResult) bool { return r.UserID == userID }, limit), nil
}

func (s *SubmissionStore) collectLocked(keep func(domain.SubmissionResult) bool, limit int) []domain.SubmissionResult {
	out := make([]domain.SubmissionResult, 0, len(s.submissions))
	for _, r := range s.submissions {
		if keep(r) {
			out = append(out, r.Clone())
		}
	}
	// newest first, id as tie-breaker for a stable order
	sort.Slice(out, func(i, j int) bool {
		if !out[i].SubmittedAt.Equal(out[j].SubmittedAt) {
			return out[i].SubmittedAt.After(out[j].SubmittedAt)
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
