package assessment

import (
	"math"

	"quiz-risk-service/internal/domain"
)

// ExtractFeatures maps a metrics bundle onto the classifier's feature vector.
// A nil bundle yields the zero vector.
func ExtractFeatures(m *domain.Metrics) domain.FeatureVector {
	if m == nil {
		return domain.FeatureVector{}
	}
	return domain.FeatureVector{
		OverallAccuracy:          m.OverallAccuracy,
		CognitiveAccuracy:        m.CognitiveAccuracy,
		EmotionalAccuracy:        m.EmotionalAccuracy,
		BehaviouralAccuracy:      m.BehaviouralAccuracy,
		AvgTimeSpent:             m.AvgTimeSpent,
		NegativeCopingResponses:  float64(m.NegativeCopingResponses),
		EmotionalRegulationScore: m.EmotionalRegulationScore,
		AttentionVariance:        m.AttentionVariance,
	}
}

// validateFeatures rejects vectors carrying NaN or infinite values.
func validateFeatures(v domain.FeatureVector) error {
	for _, x := range v.Values() {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return domain.ErrMalformedFeatures
		}
	}
	return nil
}
