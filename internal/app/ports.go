package app

import (
	"context"

	"quiz-risk-service/internal/domain"
)

// QuizRepository loads quiz content (from cache/backing store).
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// QuizStore persists generated quizzes.
type QuizStore interface {
	SaveQuiz(ctx context.Context, quiz domain.Quiz) error
	LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// SubmissionRepository abstracts where assessed submissions live (memory, Postgres, Mongo).
type SubmissionRepository interface {
	Insert(ctx context.Context, result domain.SubmissionResult) error
	Get(ctx context.Context, id string) (domain.SubmissionResult, error)
	// Update applies patch atomically and returns the stored result.
	// Unknown ids yield domain.ErrSubmissionNotFound.
	Update(ctx context.Context, id string, patch domain.SubmissionPatch) (domain.SubmissionResult, error)
	// List returns every submission, newest first.
	List(ctx context.Context) ([]domain.SubmissionResult, error)
	// ListByUser returns up to limit submissions of one user, newest first.
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.SubmissionResult, error)
}

// AttemptCounter tracks how many quizzes each user has submitted.
type AttemptCounter interface {
	Increment(ctx context.Context, userID string) (int64, error)
}

// Recommender turns a reviewed submission into learning recommendations.
type Recommender interface {
	Recommend(ctx context.Context, result domain.SubmissionResult) domain.Recommendation
}
