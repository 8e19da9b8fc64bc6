package domain

import (
	"errors"
	"testing"
)

func TestSubmissionValidate(t *testing.T) {
	questions := []Question{{ID: 1, SkillType: "Cognitive", CorrectAnswer: "4"}}
	tests := []struct {
		name string
		sub  Submission
		want error
	}{
		{"valid", Submission{Questions: questions, Answers: []Answer{{QuestionID: 1, Answer: "4", TimeSpent: 3}}}, nil},
		{"zero time", Submission{Questions: questions, Answers: []Answer{{QuestionID: 1, TimeSpent: 0}}}, nil},
		{"no answers", Submission{Questions: questions}, ErrEmptySubmission},
		{"no questions", Submission{Answers: []Answer{{QuestionID: 1}}}, ErrEmptySubmission},
		{"negative time", Submission{Questions: questions, Answers: []Answer{{QuestionID: 1, TimeSpent: -1}}}, ErrInvalidAnswer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sub.Validate()
			if tt.want == nil {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestSubmissionResultClonePreservesEmptyAndNil(t *testing.T) {
	r := SubmissionResult{Strengths: []SkillCategory{}, Recommendations: nil}
	c := r.Clone()
	if c.Strengths == nil || len(c.Strengths) != 0 {
		t.Fatalf("expected empty non-nil strengths, got %#v", c.Strengths)
	}
	if c.Recommendations != nil || c.Prediction != nil || c.SkillPerformance != nil {
		t.Fatalf("expected nil fields to stay nil: %+v", c)
	}
}
