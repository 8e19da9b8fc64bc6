package assessment

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"quiz-risk-service/internal/domain"
)

// topAttributions is how many global attributions the digest lists.
const topAttributions = 3

// Package assembles the submission result from its scored parts.
// pred may be nil when risk assessment was unavailable.
func Package(sub domain.Submission, card Scorecard, pred *domain.Prediction) domain.SubmissionResult {
	result := domain.SubmissionResult{
		UserID:           sub.UserID,
		UserName:         sub.UserName,
		UserEmail:        sub.UserEmail,
		QuizID:           sub.QuizID,
		Score:            card.Score,
		CorrectAnswers:   card.CorrectAnswers,
		TotalQuestions:   card.TotalQuestions,
		SkillPerformance: card.SkillPerformance,
		Strengths:        card.Strengths,
		Weaknesses:       card.Weaknesses,
		DetailedResults:  card.DetailedResults,
		Metrics:          card.Metrics,
		Prediction:       pred,
		Status:           domain.StatusPendingReview,
		Recommendations:  []string{},
	}
	result.Digest = RenderDigest(result)
	return result
}

// RenderDigest renders the prediction and key metrics as prompt-ready text.
// Missing parts fall back to defaults so any result renders.
func RenderDigest(result domain.SubmissionResult) string {
	var b strings.Builder

	b.WriteString("Risk Assessment Results:\n\n")

	features := ExtractFeatures(&result.Metrics)
	if p := result.Prediction; p != nil {
		features = p.Features
		label := p.RiskLabel
		if label == "" {
			label = p.Level.Label()
		}
		fmt.Fprintf(&b, "Risk Assessment: %s (confidence: %.1f%%)\n\n", label, p.Confidence*100)

		b.WriteString("Global Feature Attribution (Top Contributing Factors):\n")
		for _, a := range topGlobal(p.Explanations.Global, topAttributions) {
			fmt.Fprintf(&b, "  - %s: %+.3f\n", a.Feature, a.Score)
		}
		b.WriteString("\nLocal Rule Explanation (Human-Readable Rules):\n")
		for _, r := range p.Explanations.Local {
			fmt.Fprintf(&b, "  - %s: weight %+.3f\n", r.Condition, r.Weight)
		}
		b.WriteString("\n")
	} else {
		b.WriteString("Risk Assessment: unavailable\n\n")
	}

	b.WriteString("Key Metrics:\n")
	fmt.Fprintf(&b, "- Overall Accuracy: %s\n", percent(features.OverallAccuracy))
	fmt.Fprintf(&b, "- Cognitive Accuracy: %s\n", percent(features.CognitiveAccuracy))
	fmt.Fprintf(&b, "- Emotional Accuracy: %s\n", percent(features.EmotionalAccuracy))
	fmt.Fprintf(&b, "- Behavioural Accuracy: %s\n", percent(features.BehaviouralAccuracy))
	fmt.Fprintf(&b, "- Average Time Spent: %.1fs\n", features.AvgTimeSpent)
	fmt.Fprintf(&b, "- Emotional Regulation Score: %s\n", percent(features.EmotionalRegulationScore))
	fmt.Fprintf(&b, "- Negative Coping Responses: %.0f\n", features.NegativeCopingResponses)
	fmt.Fprintf(&b, "- Attention Variance: %.2f\n", features.AttentionVariance)
	return b.String()
}

// topGlobal returns the n attributions with the largest magnitude. Ties keep
// feature order.
func topGlobal(attrs []domain.Attribution, n int) []domain.Attribution {
	sorted := append([]domain.Attribution(nil), attrs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return math.Abs(sorted[i].Score) > math.Abs(sorted[j].Score)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func percent(fraction float64) string {
	return fmt.Sprintf("%.2f%%", fraction*100)
}
