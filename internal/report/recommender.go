package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"quiz-risk-service/internal/domain"
	"quiz-risk-service/internal/llm"
	"quiz-risk-service/internal/logger"
)

var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

var recommendationSchema = &llm.Schema{
	Name:        "recommendations",
	Description: "Personalised learning recommendations for a quiz submission",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"recommendations": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"explanation": map[string]any{"type": "string"},
		},
		"required": []any{"recommendations"},
	},
}

var errNoJSONObject = errors.New("no JSON object in generator output")

// Recommender produces learning recommendations for a reviewed submission.
type Recommender struct {
	gen Generator
	log *logger.Logger
}

// NewRecommender builds a Recommender. A nil generator always yields the
// default recommendation.
func NewRecommender(gen Generator, log *logger.Logger) *Recommender {
	if log == nil {
		log = logger.Nop()
	}
	return &Recommender{gen: gen, log: log}
}

// Recommend never fails: generator or parse errors fall back to
// domain.DefaultRecommendation.
func (r *Recommender) Recommend(ctx context.Context, sub domain.SubmissionResult) domain.Recommendation {
	if r.gen == nil {
		return domain.DefaultRecommendation()
	}

	text, err := r.gen.Generate(ctx, BuildRecommendationPrompt(sub))
	if err != nil {
		r.log.Warn("recommendation generation failed, using default", "submission_id", sub.ID, "error", err)
		return domain.DefaultRecommendation()
	}

	rec, err := ParseRecommendation(text)
	if err != nil {
		r.log.Warn("recommendation output unusable, using default", "submission_id", sub.ID, "error", err)
		return domain.DefaultRecommendation()
	}
	return rec
}

// ParseRecommendation extracts the outermost JSON object from text and
// validates it against the recommendation schema.
func ParseRecommendation(text string) (domain.Recommendation, error) {
	raw := jsonObjectPattern.FindString(text)
	if raw == "" {
		return domain.Recommendation{}, errNoJSONObject
	}
	if err := llm.ValidateJSON(recommendationSchema, []byte(raw)); err != nil {
		return domain.Recommendation{}, err
	}

	var rec domain.Recommendation
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return domain.Recommendation{}, fmt.Errorf("decode recommendation: %w", err)
	}
	if rec.Recommendations == nil {
		rec.Recommendations = []string{}
	}
	return rec, nil
}

// BuildRecommendationPrompt renders the submission summary sent to the generator.
func BuildRecommendationPrompt(sub domain.SubmissionResult) string {
	var b strings.Builder
	b.WriteString("Based on the following quiz results, provide personalized learning recommendations:\n\n")
	fmt.Fprintf(&b, "Score: %g%%\n", sub.Score)
	fmt.Fprintf(&b, "Correct Answers: %d/%d\n\n", sub.CorrectAnswers, sub.TotalQuestions)

	b.WriteString("Skill Performance:\n")
	for _, skill := range domain.SkillCategories {
		tally := sub.SkillPerformance[skill]
		fmt.Fprintf(&b, "- %s: %d/%d\n", skill, tally.Correct, tally.Total)
	}

	comments := sub.TeacherComments
	if comments == "" {
		comments = "None"
	}
	fmt.Fprintf(&b, "\nTeacher Comments: %s\n\n", comments)

	if sub.Digest != "" {
		b.WriteString(sub.Digest)
		b.WriteString("\n\n")
	}

	b.WriteString(`Provide:
1. 3-5 specific, actionable recommendations for improvement that incorporate the risk insights
2. A brief explanation of the student's performance pattern considering the risk assessment and the contributing factors

Format as JSON:
{
    "recommendations": ["recommendation1", "recommendation2", ...],
    "explanation": "explanation text"
}
`)
	return b.String()
}
