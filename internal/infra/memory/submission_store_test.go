package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"quiz-risk-service/internal/domain"
)

func storedResult(id, userID string, at time.Time) domain.SubmissionResult {
	return domain.SubmissionResult{
		ID:          id,
		UserID:      userID,
		SubmittedAt: at,
		Status:      domain.StatusPendingReview,
	}
}

func TestSubmissionStoreInsertGet(t *testing.T) {
	store := NewSubmissionStore()
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	if err := store.Insert(ctx, storedResult("s1", "u1", base)); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := store.Insert(ctx, storedResult("s1", "u1", base)); err == nil {
		t.Fatal("expected duplicate insert to fail")
	}

	got, err := store.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.UserID != "u1" || got.Status != domain.StatusPendingReview {
		t.Fatalf("unexpected result: %+v", got)
	}
	if _, err := store.Get(ctx, "missing"); !errors.Is(err, domain.ErrSubmissionNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSubmissionStoreUpdate(t *testing.T) {
	store := NewSubmissionStore()
	ctx := context.Background()
	_ = store.Insert(ctx, storedResult("s1", "u1", time.Now()))

	status := domain.StatusReviewed
	comments := "good effort"
	got, err := store.Update(ctx, "s1", domain.SubmissionPatch{Status: &status, TeacherComments: &comments})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Status != domain.StatusReviewed || got.TeacherComments != "good effort" {
		t.Fatalf("patch not applied: %+v", got)
	}

	if _, err := store.Update(ctx, "missing", domain.SubmissionPatch{Status: &status}); !errors.Is(err, domain.ErrSubmissionNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSubmissionStoreListOrdering(t *testing.T) {
	store := NewSubmissionStore()
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		_ = store.Insert(ctx, storedResult(id, "u1", base.Add(time.Duration(i)*time.Minute)))
	}
	_ = store.Insert(ctx, storedResult("other", "u2", base.Add(time.Hour)))

	all, _ := store.List(ctx)
	if len(all) != 4 || all[0].ID != "other" || all[3].ID != "a" {
		t.Fatalf("unexpected order: %v", ids(all))
	}

	mine, _ := store.ListByUser(ctx, "u1", 2)
	if len(mine) != 2 || mine[0].ID != "c" || mine[1].ID != "b" {
		t.Fatalf("unexpected user history: %v", ids(mine))
	}
}

func TestAttemptCounter(t *testing.T) {
	c := NewAttemptCounter()
	ctx := context.Background()
	for i := int64(1); i <= 3; i++ {
		n, err := c.Increment(ctx, "u1")
		if err != nil || n != i {
			t.Fatalf("increment %d: got %d, %v", i, n, err)
		}
	}
	if c.Attempts("u2") != 0 {
		t.Fatalf("expected zero attempts for unknown user")
	}
}

func ids(rs []domain.SubmissionResult) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.ID
	}
	return out
}

func TestSubmissionStoreReturnsCopies(t *testing.T) {
	store := NewSubmissionStore()
	ctx := context.Background()

	original := storedResult("s1", "u1", time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))
	original.SkillPerformance = domain.NewSkillPerformance()
	original.SkillPerformance[domain.SkillCognitive] = domain.SkillTally{Correct: 2, Total: 3}
	original.Strengths = []domain.SkillCategory{domain.SkillCognitive}
	original.DetailedResults = []domain.DetailedResult{{QuestionID: 1, UserAnswer: "4"}}
	original.Recommendations = []string{"Practice regularly"}
	original.Prediction = &domain.Prediction{RiskLabel: "Low Risk", Explanations: domain.ExplanationSet{
		Global: []domain.Attribution{{Feature: domain.FeatureCognitiveAccuracy, Score: -0.28}},
	}}
	if err := store.Insert(ctx, original); err != nil {
		t.Fatalf("insert: %v", err)
	}
	original.SkillPerformance[domain.SkillCognitive] = domain.SkillTally{}

	got, err := store.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	got.SkillPerformance[domain.SkillEmotional] = domain.SkillTally{Correct: 9, Total: 9}
	got.Strengths[0] = domain.SkillBehavioural
	got.DetailedResults[0].UserAnswer = "changed"
	got.Recommendations[0] = "changed"
	got.Prediction.RiskLabel = "High Risk"
	got.Prediction.Explanations.Global[0].Score = 1

	listed, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	listed[0].SkillPerformance[domain.SkillBehavioural] = domain.SkillTally{Total: 7}

	fresh, err := store.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get again: %v", err)
	}
	if fresh.SkillPerformance[domain.SkillCognitive] != (domain.SkillTally{Correct: 2, Total: 3}) {
		t.Fatalf("insert shared the caller's map: %+v", fresh.SkillPerformance)
	}
	if fresh.SkillPerformance[domain.SkillEmotional].Total != 0 || fresh.SkillPerformance[domain.SkillBehavioural].Total != 0 {
		t.Fatalf("reads shared the stored map: %+v", fresh.SkillPerformance)
	}
	if fresh.Strengths[0] != domain.SkillCognitive || fresh.DetailedResults[0].UserAnswer != "4" || fresh.Recommendations[0] != "Practice regularly" {
		t.Fatalf("reads shared stored slices: %+v", fresh)
	}
	if fresh.Prediction.RiskLabel != "Low Risk" || fresh.Prediction.Explanations.Global[0].Score != -0.28 {
		t.Fatalf("reads shared the stored prediction: %+v", fresh.Prediction)
	}
}
