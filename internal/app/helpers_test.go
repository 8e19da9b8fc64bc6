package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"quiz-risk-service/internal/domain"
	"quiz-risk-service/internal/infra/memory"
)

var fixedNow = time.Date(2025, 5, 12, 10, 30, 0, 0, time.UTC)

func sequentialIDs(prefix string) func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func sampleQuestions() []domain.Question {
	return []domain.Question{
		{ID: 1, Prompt: "2+2?", SkillType: "Cognitive", Options: []string{"3", "4"}, CorrectAnswer: "4"},
		{ID: 2, Prompt: "3+3?", SkillType: "Cognitive", Options: []string{"6", "7"}, CorrectAnswer: "6"},
		{ID: 3, Prompt: "A friend is sad", SkillType: "Emotional", Options: []string{"comfort", "ignore"}, CorrectAnswer: "comfort"},
		{ID: 4, Prompt: "Someone cuts in line", SkillType: "Behavioral", Options: []string{"talk calmly", "yell"}, CorrectAnswer: "talk calmly"},
	}
}

func sampleAnswers() []domain.Answer {
	return []domain.Answer{
		{QuestionID: 1, Answer: "4", TimeSpent: 10},
		{QuestionID: 2, Answer: "7", TimeSpent: 14},
		{QuestionID: 3, Answer: "comfort", TimeSpent: 9},
		{QuestionID: 4, Answer: "yell", TimeSpent: 6},
	}
}

var studentUser = domain.User{ID: "stu-1", Name: "Sam", Email: "sam@example.com", Role: "student"}
var teacherUser = domain.User{ID: "tch-1", Name: "Ms. Rivera", Role: domain.RoleTeacher}

type failingCounter struct{}

func (failingCounter) Increment(context.Context, string) (int64, error) {
	return 0, errors.New("counter offline")
}

type newSubmissionFixture struct {
	svc      *SubmissionService
	store    *memory.SubmissionStore
	attempts *memory.AttemptCounter
	feed     *ReviewFeed
	quizzes  *memory.QuizStore
}

func newSubmissionFixtureWith(counter AttemptCounter) newSubmissionFixture {
	f := newSubmissionFixture{
		store:    memory.NewSubmissionStore(),
		attempts: memory.NewAttemptCounter(),
		feed:     NewReviewFeed(),
		quizzes: memory.NewQuizStore(map[string]domain.Quiz{
			"quiz-1": {ID: "quiz-1", Questions: sampleQuestions()},
		}),
	}
	if counter == nil {
		counter = f.attempts
	}
	f.svc = NewSubmissionService(SubmissionDeps{
		Submissions: f.store,
		Quizzes:     memory.NewQuizRepository(f.quizzes, time.Minute),
		Attempts:    counter,
		Feed:        f.feed,
	})
	f.svc.now = func() time.Time { return fixedNow }
	f.svc.newID = sequentialIDs("sub")
	return f
}
