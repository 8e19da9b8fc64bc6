package domain

import (
	"fmt"
	"maps"
	"slices"
	"time"
)

// SkillCategory buckets questions for per-skill accuracy.
type SkillCategory string

const (
	SkillCognitive   SkillCategory = "Cognitive"
	SkillEmotional   SkillCategory = "Emotional"
	SkillBehavioural SkillCategory = "Behavioural"
)

// SkillCategories is the fixed reporting order.
var SkillCategories = []SkillCategory{SkillCognitive, SkillEmotional, SkillBehavioural}

// NormalizeSkill maps a raw skill type onto a known category.
// The American spelling "Behavioral" is folded into Behavioural.
func NormalizeSkill(raw string) (SkillCategory, bool) {
	switch raw {
	case string(SkillCognitive):
		return SkillCognitive, true
	case string(SkillEmotional):
		return SkillEmotional, true
	case string(SkillBehavioural), "Behavioral":
		return SkillBehavioural, true
	}
	return "", false
}

// QuizConfig is the student profile a quiz was generated for.
type QuizConfig struct {
	Age             int    `json:"age" bson:"age"`
	Grade           string `json:"grade" bson:"grade"`
	LearningLevel   string `json:"learningLevel" bson:"learningLevel"`
	SpecialNeedType string `json:"specialNeedType" bson:"specialNeedType"`
	Interests       string `json:"interests" bson:"interests"`
	Language        string `json:"language" bson:"language"`
}

// Question is immutable once a quiz has been generated.
type Question struct {
	ID                int      `json:"id" bson:"id"`
	Prompt            string   `json:"question" bson:"question"`
	SkillType         string   `json:"skillType" bson:"skillType"`
	Difficulty        string   `json:"difficulty" bson:"difficulty"`
	Options           []string `json:"options" bson:"options"`
	CorrectAnswer     string   `json:"correctAnswer" bson:"correctAnswer"`
	TimeLimit         int      `json:"timeLimit" bson:"timeLimit"`
	BehaviorIndicator string   `json:"behaviorIndicator" bson:"behaviorIndicator"`
}

// Quiz is a generated set of questions.
type Quiz struct {
	ID          string     `json:"id" bson:"_id"`
	UserID      string     `json:"userId" bson:"userId"`
	Config      QuizConfig `json:"config" bson:"config"`
	Questions   []Question `json:"questions" bson:"questions"`
	GeneratedAt time.Time  `json:"generatedAt" bson:"generatedAt"`
	Status      string     `json:"status" bson:"status"`
}

// Answer is one response within a submission.
type Answer struct {
	QuestionID int    `json:"questionId" bson:"questionId"`
	Answer     string `json:"answer" bson:"answer"`
	TimeSpent  int    `json:"timeSpent" bson:"timeSpent"`
}

// Submission is the raw input of one assessment.
type Submission struct {
	UserID    string     `json:"userId"`
	UserName  string     `json:"userName,omitempty"`
	UserEmail string     `json:"userEmail,omitempty"`
	QuizID    string     `json:"quizId,omitempty"`
	Answers   []Answer   `json:"answers"`
	Questions []Question `json:"questions"`
}

// Validate checks a submission at the boundary, before scoring.
func (s Submission) Validate() error {
	if len(s.Questions) == 0 || len(s.Answers) == 0 {
		return ErrEmptySubmission
	}
	for _, a := range s.Answers {
		if a.TimeSpent < 0 {
			return fmt.Errorf("%w: question %d has negative time spent", ErrInvalidAnswer, a.QuestionID)
		}
	}
	return nil
}

// SkillTally counts correct answers within one category.
type SkillTally struct {
	Correct int `json:"correct" bson:"correct"`
	Total   int `json:"total" bson:"total"`
}

// Accuracy returns Correct/Total, or 0 when the category was not attempted.
func (t SkillTally) Accuracy() float64 {
	if t.Total == 0 {
		return 0
	}
	return float64(t.Correct) / float64(t.Total)
}

// SkillPerformance always carries all three categories.
type SkillPerformance map[SkillCategory]SkillTally

// NewSkillPerformance returns a performance map with zeroed categories.
func NewSkillPerformance() SkillPerformance {
	perf := make(SkillPerformance, len(SkillCategories))
	for _, c := range SkillCategories {
		perf[c] = SkillTally{}
	}
	return perf
}

// DetailedResult records how a single resolved answer was scored.
type DetailedResult struct {
	QuestionID    int           `json:"questionId" bson:"questionId"`
	Question      string        `json:"question" bson:"question"`
	SkillType     SkillCategory `json:"skillType" bson:"skillType"`
	UserAnswer    string        `json:"userAnswer" bson:"userAnswer"`
	CorrectAnswer string        `json:"correctAnswer" bson:"correctAnswer"`
	IsCorrect     bool          `json:"isCorrect" bson:"isCorrect"`
	TimeSpent     int           `json:"timeSpent" bson:"timeSpent"`
}

// Metrics is the engineered metrics bundle produced by scoring.
type Metrics struct {
	OverallAccuracy          float64 `json:"overall_accuracy" bson:"overall_accuracy"`
	CognitiveAccuracy        float64 `json:"cognitive_accuracy" bson:"cognitive_accuracy"`
	EmotionalAccuracy        float64 `json:"emotional_accuracy" bson:"emotional_accuracy"`
	BehaviouralAccuracy      float64 `json:"behavioural_accuracy" bson:"behavioural_accuracy"`
	AvgTimeSpent             float64 `json:"avg_time_spent" bson:"avg_time_spent"`
	NegativeCopingResponses  int     `json:"negative_coping_responses" bson:"negative_coping_responses"`
	PositiveCopingResponses  int     `json:"positive_coping_responses" bson:"positive_coping_responses"`
	EmotionalRegulationScore float64 `json:"emotional_regulation_score" bson:"emotional_regulation_score"`
	AttentionVariance        float64 `json:"attention_variance" bson:"attention_variance"`
	TotalQuestions           int     `json:"total_questions" bson:"total_questions"`
	TotalTimeSpent           int     `json:"total_time_spent" bson:"total_time_spent"`
}

// Feature names in classifier input order.
const (
	FeatureOverallAccuracy          = "overall_accuracy"
	FeatureCognitiveAccuracy        = "cognitive_accuracy"
	FeatureEmotionalAccuracy        = "emotional_accuracy"
	FeatureBehaviouralAccuracy      = "behavioural_accuracy"
	FeatureAvgTimeSpent             = "avg_time_spent"
	FeatureNegativeCopingResponses  = "negative_coping_responses"
	FeatureEmotionalRegulationScore = "emotional_regulation_score"
	FeatureAttentionVariance        = "attention_variance"
)

// FeatureNames lists the eight features in vector order.
var FeatureNames = []string{
	FeatureOverallAccuracy,
	FeatureCognitiveAccuracy,
	FeatureEmotionalAccuracy,
	FeatureBehaviouralAccuracy,
	FeatureAvgTimeSpent,
	FeatureNegativeCopingResponses,
	FeatureEmotionalRegulationScore,
	FeatureAttentionVariance,
}

// FeatureVector is the fixed-shape classifier input.
type FeatureVector struct {
	OverallAccuracy          float64 `json:"overall_accuracy" bson:"overall_accuracy"`
	CognitiveAccuracy        float64 `json:"cognitive_accuracy" bson:"cognitive_accuracy"`
	EmotionalAccuracy        float64 `json:"emotional_accuracy" bson:"emotional_accuracy"`
	BehaviouralAccuracy      float64 `json:"behavioural_accuracy" bson:"behavioural_accuracy"`
	AvgTimeSpent             float64 `json:"avg_time_spent" bson:"avg_time_spent"`
	NegativeCopingResponses  float64 `json:"negative_coping_responses" bson:"negative_coping_responses"`
	EmotionalRegulationScore float64 `json:"emotional_regulation_score" bson:"emotional_regulation_score"`
	AttentionVariance        float64 `json:"attention_variance" bson:"attention_variance"`
}

// Values returns the features in FeatureNames order.
func (v FeatureVector) Values() []float64 {
	return []float64{
		v.OverallAccuracy,
		v.CognitiveAccuracy,
		v.EmotionalAccuracy,
		v.BehaviouralAccuracy,
		v.AvgTimeSpent,
		v.NegativeCopingResponses,
		v.EmotionalRegulationScore,
		v.AttentionVariance,
	}
}

// Value looks up a feature by name.
func (v FeatureVector) Value(name string) (float64, bool) {
	for i, n := range FeatureNames {
		if n == name {
			return v.Values()[i], true
		}
	}
	return 0, false
}

// RiskLevel is the ordinal risk classification.
type RiskLevel int

const (
	RiskLow RiskLevel = iota
	RiskMedium
	RiskHigh
)

var riskLabels = [...]string{"Low Risk", "Medium Risk", "High Risk"}

// Label returns the human-readable label, e.g. "Low Risk".
func (r RiskLevel) Label() string {
	if r < RiskLow || r > RiskHigh {
		return "Unknown Risk"
	}
	return riskLabels[r]
}

func (r RiskLevel) String() string {
	switch r {
	case RiskLow:
		return "Low"
	case RiskMedium:
		return "Medium"
	case RiskHigh:
		return "High"
	}
	return "Unknown"
}

// Probabilities is the per-label distribution, indexed by RiskLevel.
type Probabilities struct {
	Low    float64 `json:"low" bson:"low"`
	Medium float64 `json:"medium" bson:"medium"`
	High   float64 `json:"high" bson:"high"`
}

// Of returns the probability assigned to level.
func (p Probabilities) Of(level RiskLevel) float64 {
	switch level {
	case RiskLow:
		return p.Low
	case RiskMedium:
		return p.Medium
	case RiskHigh:
		return p.High
	}
	return 0
}

// RiskAssessment is the classifier output.
type RiskAssessment struct {
	Level         RiskLevel     `json:"predicted_risk" bson:"predicted_risk"`
	Probabilities Probabilities `json:"probabilities" bson:"probabilities"`
	Confidence    float64       `json:"confidence" bson:"confidence"`
}

// Attribution is one global (additive-style) feature contribution.
type Attribution struct {
	Feature string  `json:"feature" bson:"feature"`
	Score   float64 `json:"score" bson:"score"`
}

// Rule is one local threshold explanation.
type Rule struct {
	Condition string  `json:"condition" bson:"condition"`
	Weight    float64 `json:"weight" bson:"weight"`
}

// ExplanationSet holds both explanation views. Positive values push risk up.
type ExplanationSet struct {
	Global []Attribution `json:"global" bson:"global"`
	Local  []Rule        `json:"local" bson:"local"`
}

// GlobalMap returns the global view keyed by feature name.
func (e ExplanationSet) GlobalMap() map[string]float64 {
	out := make(map[string]float64, len(e.Global))
	for _, a := range e.Global {
		out[a.Feature] = a.Score
	}
	return out
}

// LocalMap returns the local view keyed by condition.
func (e ExplanationSet) LocalMap() map[string]float64 {
	out := make(map[string]float64, len(e.Local))
	for _, r := range e.Local {
		out[r.Condition] = r.Weight
	}
	return out
}

// Prediction bundles classification, features, and explanations.
type Prediction struct {
	RiskAssessment `bson:",inline"`
	RiskLabel      string         `json:"risk_label" bson:"risk_label"`
	Features       FeatureVector  `json:"features" bson:"features"`
	Explanations   ExplanationSet `json:"explanations" bson:"explanations"`
}

// ReviewStatus tracks the teacher review workflow.
type ReviewStatus string

const (
	StatusPendingReview ReviewStatus = "pending_review"
	StatusReviewed      ReviewStatus = "reviewed"
	StatusCompleted     ReviewStatus = "completed"
)

// SubmissionResult is the persisted outcome of one submission.
// Prediction is nil when risk assessment was unavailable.
type SubmissionResult struct {
	ID               string           `json:"id" bson:"_id"`
	UserID           string           `json:"userId" bson:"userId"`
	UserName         string           `json:"userName" bson:"userName"`
	UserEmail        string           `json:"userEmail" bson:"userEmail"`
	QuizID           string           `json:"quizId,omitempty" bson:"quizId,omitempty"`
	SubmittedAt      time.Time        `json:"submittedAt" bson:"submittedAt"`
	Score            float64          `json:"score" bson:"score"`
	CorrectAnswers   int              `json:"correctAnswers" bson:"correctAnswers"`
	TotalQuestions   int              `json:"totalQuestions" bson:"totalQuestions"`
	SkillPerformance SkillPerformance `json:"skillPerformance" bson:"skillPerformance"`
	Strengths        []SkillCategory  `json:"strengths" bson:"strengths"`
	Weaknesses       []SkillCategory  `json:"weaknesses" bson:"weaknesses"`
	DetailedResults  []DetailedResult `json:"detailedResults" bson:"detailedResults"`
	Metrics          Metrics          `json:"mlAnalytics" bson:"mlAnalytics"`
	Prediction       *Prediction      `json:"mlPrediction" bson:"mlPrediction"`
	Digest           string           `json:"digest" bson:"digest"`

	Status          ReviewStatus `json:"status" bson:"status"`
	TeacherComments string       `json:"teacherComments" bson:"teacherComments"`
	ReviewedBy      string       `json:"reviewedBy,omitempty" bson:"reviewedBy,omitempty"`
	ReviewedAt      *time.Time   `json:"reviewedAt,omitempty" bson:"reviewedAt,omitempty"`
	Recommendations []string     `json:"recommendations" bson:"recommendations"`
	Explanation     string       `json:"explanation" bson:"explanation"`
	CompletedBy     string       `json:"completedBy,omitempty" bson:"completedBy,omitempty"`
	CompletedAt     *time.Time   `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
}

// Clone returns a deep copy that shares no maps, slices or pointers with r.
func (r SubmissionResult) Clone() SubmissionResult {
	out := r
	out.SkillPerformance = maps.Clone(r.SkillPerformance)
	out.Strengths = slices.Clone(r.Strengths)
	out.Weaknesses = slices.Clone(r.Weaknesses)
	out.DetailedResults = slices.Clone(r.DetailedResults)
	out.Recommendations = slices.Clone(r.Recommendations)
	if r.Prediction != nil {
		p := *r.Prediction
		p.Explanations.Global = slices.Clone(r.Prediction.Explanations.Global)
		p.Explanations.Local = slices.Clone(r.Prediction.Explanations.Local)
		out.Prediction = &p
	}
	if r.ReviewedAt != nil {
		at := *r.ReviewedAt
		out.ReviewedAt = &at
	}
	if r.CompletedAt != nil {
		at := *r.CompletedAt
		out.CompletedAt = &at
	}
	return out
}

// Recommendation is the structured payload expected from the report generator.
type Recommendation struct {
	Recommendations []string `json:"recommendations"`
	Explanation     string   `json:"explanation"`
}

// DefaultRecommendation is used whenever the report generator fails.
func DefaultRecommendation() Recommendation {
	return Recommendation{
		Recommendations: []string{"Practice regularly", "Focus on weaker areas"},
		Explanation:     "Continue practicing to improve your skills.",
	}
}
