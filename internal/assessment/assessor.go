package assessment

import (
	"fmt"

	"quiz-risk-service/internal/domain"
	"quiz-risk-service/internal/logger"
)

// Assessor runs the scoring and risk pipeline. It holds no mutable state and
// is safe for concurrent use.
type Assessor struct {
	classifier Classifier
	log        *logger.Logger
}

// NewAssessor builds an Assessor. A nil classifier defaults to the
// threshold classifier and a nil logger discards output.
func NewAssessor(classifier Classifier, log *logger.Logger) *Assessor {
	if classifier == nil {
		classifier = NewThresholdClassifier()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Assessor{classifier: classifier, log: log}
}

// Assess scores a submission and attaches the risk prediction. Only an
// unscorable submission fails; a prediction failure leaves Prediction nil.
func (a *Assessor) Assess(sub domain.Submission) (domain.SubmissionResult, error) {
	card, err := Score(sub.Questions, sub.Answers)
	if err != nil {
		return domain.SubmissionResult{}, err
	}

	pred, err := a.Predict(card.Metrics)
	if err != nil {
		a.log.Warn("risk prediction unavailable", "user_id", sub.UserID, "error", err)
		pred = nil
	}
	return Package(sub, card, pred), nil
}

// Predict classifies the metrics and explains the result.
func (a *Assessor) Predict(m domain.Metrics) (*domain.Prediction, error) {
	features := ExtractFeatures(&m)
	risk, err := a.classifier.Classify(features)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrClassificationUnavailable, err)
	}
	return &domain.Prediction{
		RiskAssessment: risk,
		RiskLabel:      risk.Level.Label(),
		Features:       features,
		Explanations:   Explain(features),
	}, nil
}
