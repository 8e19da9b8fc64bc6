package assessment

import (
	"quiz-risk-service/internal/domain"
)

// riskDirection states which side of a threshold raises risk.
type riskDirection int

const (
	riskWhenLow riskDirection = iota
	riskWhenHigh
)

// globalRule emits riskValue when the feature sits on its risky side of the
// threshold, safeValue otherwise. riskValue > 0 > safeValue.
type globalRule struct {
	feature   string
	threshold float64
	direction riskDirection
	// inclusive puts the threshold itself on the risky side.
	inclusive bool
	riskValue float64
	safeValue float64
}

func (r globalRule) risky(x float64) bool {
	if r.direction == riskWhenLow {
		if r.inclusive {
			return x <= r.threshold
		}
		return x < r.threshold
	}
	if r.inclusive {
		return x >= r.threshold
	}
	return x > r.threshold
}

var globalRules = []globalRule{
	{feature: domain.FeatureOverallAccuracy, threshold: 0.50, direction: riskWhenLow, riskValue: 0.30, safeValue: -0.20},
	{feature: domain.FeatureCognitiveAccuracy, threshold: 0.30, direction: riskWhenLow, inclusive: true, riskValue: 0.42, safeValue: -0.28},
	{feature: domain.FeatureEmotionalAccuracy, threshold: 0.50, direction: riskWhenLow, inclusive: true, riskValue: 0.18, safeValue: -0.12},
	{feature: domain.FeatureBehaviouralAccuracy, threshold: 0.50, direction: riskWhenLow, riskValue: 0.14, safeValue: -0.10},
	{feature: domain.FeatureAvgTimeSpent, threshold: 5, direction: riskWhenLow, inclusive: true, riskValue: 0.05, safeValue: -0.09},
	{feature: domain.FeatureNegativeCopingResponses, threshold: 2, direction: riskWhenHigh, riskValue: 0.26, safeValue: -0.15},
	{feature: domain.FeatureEmotionalRegulationScore, threshold: 0.5, direction: riskWhenLow, inclusive: true, riskValue: 0.12, safeValue: -0.15},
	{feature: domain.FeatureAttentionVariance, threshold: 0.5, direction: riskWhenHigh, riskValue: 0.08, safeValue: -0.04},
}

// localBucket is one piecewise range of a local rule. Buckets are checked in
// order and the first match wins. A bucket's weight carries the same sign the
// global rule gives every value inside it.
type localBucket struct {
	condition string
	match     func(x float64) bool
	weight    float64
}

type localRule struct {
	feature   string
	direction riskDirection
	buckets   []localBucket
}

var localRules = []localRule{
	{
		feature:   domain.FeatureCognitiveAccuracy,
		direction: riskWhenLow,
		buckets: []localBucket{
			{"cognitive_accuracy <= 0.30", func(x float64) bool { return x <= 0.30 }, 0.41},
			{"0.30 < cognitive_accuracy <= 0.60", func(x float64) bool { return x <= 0.60 }, -0.12},
			{"cognitive_accuracy > 0.60", func(float64) bool { return true }, -0.35},
		},
	},
	{
		feature:   domain.FeatureNegativeCopingResponses,
		direction: riskWhenHigh,
		buckets: []localBucket{
			{"negative_coping_responses > 2", func(x float64) bool { return x > 2 }, 0.27},
			{"0 < negative_coping_responses <= 2", func(x float64) bool { return x > 0 }, -0.06},
			{"negative_coping_responses = 0", func(float64) bool { return true }, -0.18},
		},
	},
	{
		feature:   domain.FeatureEmotionalAccuracy,
		direction: riskWhenLow,
		buckets: []localBucket{
			{"emotional_accuracy <= 0.50", func(x float64) bool { return x <= 0.50 }, 0.19},
			{"emotional_accuracy > 0.50", func(float64) bool { return true }, -0.15},
		},
	},
	{
		feature:   domain.FeatureAttentionVariance,
		direction: riskWhenHigh,
		buckets: []localBucket{
			{"attention_variance > 0.5 (inconsistent)", func(x float64) bool { return x > 0.5 }, 0.16},
			{"attention_variance <= 0.5 (consistent)", func(float64) bool { return true }, -0.08},
		},
	},
}

// Explain produces the global and local explanation views for v. It does not
// consult the classifier; both views read the feature values directly.
func Explain(v domain.FeatureVector) domain.ExplanationSet {
	return domain.ExplanationSet{
		Global: explainGlobal(v),
		Local:  explainLocal(v),
	}
}

func explainGlobal(v domain.FeatureVector) []domain.Attribution {
	out := make([]domain.Attribution, 0, len(globalRules))
	for _, rule := range globalRules {
		x, _ := v.Value(rule.feature)
		score := rule.safeValue
		if rule.risky(x) {
			score = rule.riskValue
		}
		out = append(out, domain.Attribution{Feature: rule.feature, Score: score})
	}
	return out
}

func explainLocal(v domain.FeatureVector) []domain.Rule {
	out := make([]domain.Rule, 0, len(localRules))
	for _, rule := range localRules {
		x, _ := v.Value(rule.feature)
		for _, b := range rule.buckets {
			if b.match(x) {
				out = append(out, domain.Rule{Condition: b.condition, Weight: b.weight})
				break
			}
		}
	}
	return out
}
