package assessment

import "quiz-risk-service/internal/domain"

// Classifier predicts a risk level from a feature vector.
type Classifier interface {
	Classify(v domain.FeatureVector) (domain.RiskAssessment, error)
}

// Accuracy bands used by ThresholdClassifier.
const (
	LowRiskAccuracy    = 0.70
	MediumRiskAccuracy = 0.50
)

var bandProbabilities = map[domain.RiskLevel]domain.Probabilities{
	domain.RiskLow:    {Low: 0.80, Medium: 0.15, High: 0.05},
	domain.RiskMedium: {Low: 0.20, Medium: 0.60, High: 0.20},
	domain.RiskHigh:   {Low: 0.10, Medium: 0.20, High: 0.70},
}

// ThresholdClassifier bands risk on overall accuracy alone. The remaining
// features only feed the explanations.
type ThresholdClassifier struct{}

// NewThresholdClassifier returns the rule-based classifier.
func NewThresholdClassifier() ThresholdClassifier {
	return ThresholdClassifier{}
}

func (ThresholdClassifier) Classify(v domain.FeatureVector) (domain.RiskAssessment, error) {
	if err := validateFeatures(v); err != nil {
		return domain.RiskAssessment{}, err
	}

	level := domain.RiskHigh
	switch {
	case v.OverallAccuracy >= LowRiskAccuracy:
		level = domain.RiskLow
	case v.OverallAccuracy >= MediumRiskAccuracy:
		level = domain.RiskMedium
	}

	probs := bandProbabilities[level]
	return domain.RiskAssessment{
		Level:         level,
		Probabilities: probs,
		Confidence:    probs.Of(level),
	}, nil
}
