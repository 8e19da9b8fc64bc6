package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"quiz-risk-service/internal/domain"
	"quiz-risk-service/internal/logger"
	"quiz-risk-service/internal/report"
)

const quizStatusGenerated = "generated"

// QuizService generates quizzes and stores them for later submission.
type QuizService struct {
	gen   report.Generator
	store QuizStore
	log   *logger.Logger
	now   func() time.Time
	newID func() string
}

// NewQuizService builds a QuizService. A nil generator makes Generate fail
// with domain.ErrGenerationFailed.
func NewQuizService(gen report.Generator, store QuizStore, log *logger.Logger) *QuizService {
	if log == nil {
		log = logger.Nop()
	}
	return &QuizService{gen: gen, store: store, log: log, now: time.Now, newID: uuid.NewString}
}

// Generate asks the generator for questions matching prompt and persists the quiz.
func (s *QuizService) Generate(ctx context.Context, user domain.User, prompt string, cfg domain.QuizConfig) (domain.Quiz, error) {
	if user.ID == "" {
		return domain.Quiz{}, domain.ErrUnauthenticated
	}
	if strings.TrimSpace(prompt) == "" {
		return domain.Quiz{}, fmt.Errorf("%w: empty prompt", domain.ErrGenerationFailed)
	}
	if s.gen == nil {
		return domain.Quiz{}, fmt.Errorf("%w: generator not configured", domain.ErrGenerationFailed)
	}

	text, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("%w: %w", domain.ErrGenerationFailed, err)
	}
	questions, err := report.ParseQuestions(text)
	if err != nil {
		return domain.Quiz{}, err
	}

	quiz := domain.Quiz{
		ID:          s.newID(),
		UserID:      user.ID,
		Config:      cfg,
		Questions:   questions,
		GeneratedAt: s.now().UTC(),
		Status:      quizStatusGenerated,
	}
	if err := s.store.SaveQuiz(ctx, quiz); err != nil {
		return domain.Quiz{}, fmt.Errorf("store quiz: %w", err)
	}
	s.log.Info("quiz generated", "quiz_id", quiz.ID, "user_id", user.ID, "questions", len(questions))
	return quiz, nil
}
