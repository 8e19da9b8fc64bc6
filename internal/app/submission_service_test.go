package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"quiz-risk-service/internal/domain"
)

func TestSubmitStoresPendingResult(t *testing.T) {
	f := newSubmissionFixtureWith(nil)
	events, cancel := f.feed.Subscribe()
	defer cancel()

	result, err := f.svc.Submit(context.Background(), studentUser, domain.Submission{
		UserID:    "spoofed",
		Questions: sampleQuestions(),
		Answers:   sampleAnswers(),
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.ID != "sub-1" || !result.SubmittedAt.Equal(fixedNow) {
		t.Fatalf("unexpected id/time: %s %s", result.ID, result.SubmittedAt)
	}
	if result.UserID != "stu-1" || result.UserName != "Sam" || result.UserEmail != "sam@example.com" {
		t.Fatalf("identity not taken from caller: %+v", result)
	}
	if result.Score != 50 || result.CorrectAnswers != 2 || result.TotalQuestions != 4 {
		t.Fatalf("unexpected score: %v %d/%d", result.Score, result.CorrectAnswers, result.TotalQuestions)
	}
	if result.Status != domain.StatusPendingReview {
		t.Fatalf("expected pending_review, got %s", result.Status)
	}
	if result.SkillPerformance[domain.SkillBehavioural].Total != 1 {
		t.Fatalf("Behavioral spelling not normalised: %+v", result.SkillPerformance)
	}

	stored, err := f.store.Get(context.Background(), "sub-1")
	if err != nil {
		t.Fatalf("stored submission: %v", err)
	}
	if stored.Digest == "" {
		t.Fatal("expected digest to be stored")
	}
	if f.attempts.Attempts("stu-1") != 1 {
		t.Fatalf("expected attempt counter 1, got %d", f.attempts.Attempts("stu-1"))
	}

	select {
	case ev := <-events:
		if ev.Type != domain.EventSubmitted || ev.SubmissionID != "sub-1" || ev.UserID != "stu-1" {
			t.Fatalf("unexpected event: %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("expected submitted event")
	}
}

func TestSubmitLoadsQuestionsByQuizID(t *testing.T) {
	f := newSubmissionFixtureWith(nil)
	result, err := f.svc.Submit(context.Background(), studentUser, domain.Submission{
		QuizID:  "quiz-1",
		Answers: sampleAnswers(),
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.QuizID != "quiz-1" || result.TotalQuestions != 4 {
		t.Fatalf("expected quiz questions to be used: %+v", result)
	}
}

func TestSubmitUnknownQuiz(t *testing.T) {
	f := newSubmissionFixtureWith(nil)
	_, err := f.svc.Submit(context.Background(), studentUser, domain.Submission{QuizID: "nope", Answers: sampleAnswers()})
	if !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}
}

func TestSubmitValidation(t *testing.T) {
	f := newSubmissionFixtureWith(nil)
	ctx := context.Background()

	cases := []struct {
		name string
		user domain.User
		sub  domain.Submission
		want error
	}{
		{"no identity", domain.User{}, domain.Submission{Questions: sampleQuestions(), Answers: sampleAnswers()}, domain.ErrUnauthenticated},
		{"no answers", studentUser, domain.Submission{Questions: sampleQuestions()}, domain.ErrEmptySubmission},
		{"no questions", studentUser, domain.Submission{Answers: sampleAnswers()}, domain.ErrEmptySubmission},
		{"negative time", studentUser, domain.Submission{
			Questions: sampleQuestions(),
			Answers:   []domain.Answer{{QuestionID: 1, Answer: "4", TimeSpent: -1}},
		}, domain.ErrInvalidAnswer},
		{"nothing scorable", studentUser, domain.Submission{
			Questions: sampleQuestions(),
			Answers:   []domain.Answer{{QuestionID: 99, Answer: "x", TimeSpent: 3}},
		}, domain.ErrDivisionUndefined},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.svc.Submit(ctx, tc.user, tc.sub); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	all, _ := f.store.List(ctx)
	if len(all) != 0 {
		t.Fatalf("rejected submissions must not be stored, got %d", len(all))
	}
}

func TestSubmitSurvivesCounterFailure(t *testing.T) {
	f := newSubmissionFixtureWith(failingCounter{})
	if _, err := f.svc.Submit(context.Background(), studentUser, domain.Submission{
		Questions: sampleQuestions(),
		Answers:   sampleAnswers(),
	}); err != nil {
		t.Fatalf("submit should succeed when the counter fails: %v", err)
	}
}

func TestSubmitDefaultsUserName(t *testing.T) {
	f := newSubmissionFixtureWith(nil)
	result, err := f.svc.Submit(context.Background(), domain.User{ID: "anon"}, domain.Submission{
		Questions: sampleQuestions(),
		Answers:   sampleAnswers(),
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.UserName != "Unknown" {
		t.Fatalf("expected Unknown user name, got %q", result.UserName)
	}
}

func TestHistoryIsCappedAndNewestFirst(t *testing.T) {
	f := newSubmissionFixtureWith(nil)
	ctx := context.Background()

	clock := fixedNow
	f.svc.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	for range HistoryLimit + 2 {
		if _, err := f.svc.Submit(ctx, studentUser, domain.Submission{Questions: sampleQuestions(), Answers: sampleAnswers()}); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}

	history, err := f.svc.History(ctx, studentUser)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != HistoryLimit {
		t.Fatalf("expected %d results, got %d", HistoryLimit, len(history))
	}
	if history[0].ID != "sub-12" {
		t.Fatalf("expected newest first, got %s", history[0].ID)
	}

	other, _ := f.svc.History(ctx, domain.User{ID: "someone-else"})
	if len(other) != 0 {
		t.Fatalf("expected no history for other user, got %d", len(other))
	}
}
