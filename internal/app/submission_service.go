package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"quiz-risk-service/internal/assessment"
	"quiz-risk-service/internal/domain"
	"quiz-risk-service/internal/logger"
)

// HistoryLimit caps how many submissions History returns.
const HistoryLimit = 10

// SubmissionService accepts quiz submissions and serves them back.
type SubmissionService struct {
	assessor    *assessment.Assessor
	submissions SubmissionRepository
	quizzes     QuizRepository
	attempts    AttemptCounter
	feed        *ReviewFeed
	log         *logger.Logger
	now         func() time.Time
	newID       func() string
}

// SubmissionDeps groups the collaborators of SubmissionService. Quizzes,
// Attempts and Feed are optional.
type SubmissionDeps struct {
	Assessor    *assessment.Assessor
	Submissions SubmissionRepository
	Quizzes     QuizRepository
	Attempts    AttemptCounter
	Feed        *ReviewFeed
	Log         *logger.Logger
}

func NewSubmissionService(deps SubmissionDeps) *SubmissionService {
	s := &SubmissionService{
		assessor:    deps.Assessor,
		submissions: deps.Submissions,
		quizzes:     deps.Quizzes,
		attempts:    deps.Attempts,
		feed:        deps.Feed,
		log:         deps.Log,
		now:         time.Now,
		newID:       uuid.NewString,
	}
	if s.assessor == nil {
		s.assessor = assessment.NewAssessor(nil, deps.Log)
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	return s
}

// Submit assesses a submission for user, stores it as pending review and
// bumps the user's attempt counter.
func (s *SubmissionService) Submit(ctx context.Context, user domain.User, sub domain.Submission) (domain.SubmissionResult, error) {
	if user.ID == "" {
		return domain.SubmissionResult{}, domain.ErrUnauthenticated
	}

	if len(sub.Questions) == 0 && sub.QuizID != "" {
		if s.quizzes == nil {
			return domain.SubmissionResult{}, domain.ErrQuizNotFound
		}
		quiz, err := s.quizzes.GetQuiz(ctx, sub.QuizID)
		if err != nil {
			return domain.SubmissionResult{}, err
		}
		sub.Questions = quiz.Questions
	}
	if err := sub.Validate(); err != nil {
		return domain.SubmissionResult{}, err
	}

	sub.UserID = user.ID
	sub.UserName = user.Name
	if sub.UserName == "" {
		sub.UserName = "Unknown"
	}
	sub.UserEmail = user.Email

	result, err := s.assessor.Assess(sub)
	if err != nil {
		return domain.SubmissionResult{}, err
	}
	result.ID = s.newID()
	result.SubmittedAt = s.now().UTC()

	if err := s.submissions.Insert(ctx, result); err != nil {
		return domain.SubmissionResult{}, fmt.Errorf("store submission: %w", err)
	}

	if s.attempts != nil {
		if _, err := s.attempts.Increment(ctx, user.ID); err != nil {
			s.log.Warn("attempt counter update failed", "user_id", user.ID, "error", err)
		}
	}

	s.feed.Publish(eventFor(domain.EventSubmitted, result, result.SubmittedAt))

	risk := "unavailable"
	if result.Prediction != nil {
		risk = result.Prediction.RiskLabel
	}
	s.log.Info("submission accepted", "submission_id", result.ID, "user_id", user.ID, "score", result.Score, "risk", risk)
	return result, nil
}

// Get returns a single stored submission.
func (s *SubmissionService) Get(ctx context.Context, id string) (domain.SubmissionResult, error) {
	return s.submissions.Get(ctx, id)
}

// History returns the caller's most recent submissions, newest first.
func (s *SubmissionService) History(ctx context.Context, user domain.User) ([]domain.SubmissionResult, error) {
	if user.ID == "" {
		return nil, domain.ErrUnauthenticated
	}
	return s.submissions.ListByUser(ctx, user.ID, HistoryLimit)
}

// List returns every submission, newest first.
func (s *SubmissionService) List(ctx context.Context) ([]domain.SubmissionResult, error) {
	return s.submissions.List(ctx)
}
