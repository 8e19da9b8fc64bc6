package memory

import (
	"context"
	"sync"

	"quiz-risk-service/internal/domain"
)

// QuizStore keeps generated quizzes in process memory.
type QuizStore struct {
	mu      sync.RWMutex
	quizzes map[string]domain.Quiz
}

// NewQuizStore returns a store seeded with quizzes, which may be nil.
func NewQuizStore(quizzes map[string]domain.Quiz) *QuizStore {
	s := &QuizStore{quizzes: make(map[string]domain.Quiz, len(quizzes))}
	for id, q := range quizzes {
		s.quizzes[id] = q
	}
	return s
}

func (s *QuizStore) SaveQuiz(_ context.Context, quiz domain.Quiz) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quizzes[quiz.ID] = quiz
	return nil
}

func (s *QuizStore) LoadQuiz(_ context.Context, quizID string) (domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if quiz, ok := s.quizzes[quizID]; ok {
		return quiz, nil
	}
	return domain.Quiz{}, domain.ErrQuizNotFound
}
