package assessment

import (
	"math"
	"strings"

	"quiz-risk-service/internal/domain"
)

// negativeCopingKeywords flags avoidance or negative-affect answers.
var negativeCopingKeywords = []string{
	"yell", "scream", "shout", "angry", "furious", "rage", "tantrum",
	"give up", "quit", "ignore", "avoid", "worry", "panic", "afraid",
	"anxious", "nervous", "scared", "cry", "upset", "frustrated",
}

// Strength and weakness cut-offs in percent.
const (
	strengthPercent = 70
	weaknessPercent = 50
)

// Scorecard is the scoring aggregator output.
type Scorecard struct {
	Score            float64
	CorrectAnswers   int
	TotalQuestions   int
	SkillPerformance domain.SkillPerformance
	Strengths        []domain.SkillCategory
	Weaknesses       []domain.SkillCategory
	DetailedResults  []domain.DetailedResult
	Metrics          domain.Metrics
}

type resolvedAnswer struct {
	answer   domain.Answer
	question domain.Question
	skill    domain.SkillCategory
	correct  bool
}

// Score grades answers against their questions and derives the engineered metrics.
// Answers referencing unknown questions (or questions with an unknown skill type)
// are skipped. ErrDivisionUndefined is returned alongside the partial scorecard
// when nothing could be scored.
func Score(questions []domain.Question, answers []domain.Answer) (Scorecard, error) {
	byID := make(map[int]domain.Question, len(questions))
	for _, q := range questions {
		if _, dup := byID[q.ID]; !dup {
			byID[q.ID] = q
		}
	}

	resolved := make([]resolvedAnswer, 0, len(answers))
	for _, a := range answers {
		q, ok := byID[a.QuestionID]
		if !ok {
			continue
		}
		skill, ok := domain.NormalizeSkill(q.SkillType)
		if !ok {
			continue
		}
		resolved = append(resolved, resolvedAnswer{
			answer:   a,
			question: q,
			skill:    skill,
			correct:  a.Answer == q.CorrectAnswer,
		})
	}

	card := Scorecard{
		SkillPerformance: domain.NewSkillPerformance(),
		Strengths:        []domain.SkillCategory{},
		Weaknesses:       []domain.SkillCategory{},
		DetailedResults:  make([]domain.DetailedResult, 0, len(resolved)),
	}

	for _, r := range resolved {
		tally := card.SkillPerformance[r.skill]
		tally.Total++
		if r.correct {
			tally.Correct++
			card.CorrectAnswers++
		}
		card.SkillPerformance[r.skill] = tally

		card.DetailedResults = append(card.DetailedResults, domain.DetailedResult{
			QuestionID:    r.question.ID,
			Question:      r.question.Prompt,
			SkillType:     r.skill,
			UserAnswer:    r.answer.Answer,
			CorrectAnswer: r.question.CorrectAnswer,
			IsCorrect:     r.correct,
			TimeSpent:     r.answer.TimeSpent,
		})
	}
	card.TotalQuestions = len(resolved)

	for _, skill := range domain.SkillCategories {
		tally := card.SkillPerformance[skill]
		if tally.Total == 0 {
			continue
		}
		switch {
		case tally.Correct*100 >= strengthPercent*tally.Total:
			card.Strengths = append(card.Strengths, skill)
		case tally.Correct*100 < weaknessPercent*tally.Total:
			card.Weaknesses = append(card.Weaknesses, skill)
		}
	}

	card.Metrics = buildMetrics(resolved, card)
	if card.TotalQuestions == 0 {
		return card, domain.ErrDivisionUndefined
	}
	card.Score = round(float64(card.CorrectAnswers)/float64(card.TotalQuestions)*100, 2)
	return card, nil
}

func buildMetrics(resolved []resolvedAnswer, card Scorecard) domain.Metrics {
	perf := card.SkillPerformance
	m := domain.Metrics{
		CognitiveAccuracy:   round(perf[domain.SkillCognitive].Accuracy(), 2),
		EmotionalAccuracy:   round(perf[domain.SkillEmotional].Accuracy(), 2),
		BehaviouralAccuracy: round(perf[domain.SkillBehavioural].Accuracy(), 2),
		TotalQuestions:      card.TotalQuestions,
	}
	if card.TotalQuestions > 0 {
		m.OverallAccuracy = round(float64(card.CorrectAnswers)/float64(card.TotalQuestions), 3)
	}

	times := make([]float64, 0, len(resolved))
	for _, r := range resolved {
		m.TotalTimeSpent += r.answer.TimeSpent
		times = append(times, float64(r.answer.TimeSpent))

		if r.skill != domain.SkillEmotional && r.skill != domain.SkillBehavioural {
			continue
		}
		switch {
		case containsCopingKeyword(r.answer.Answer):
			m.NegativeCopingResponses++
		case !r.correct:
			m.NegativeCopingResponses++
		default:
			m.PositiveCopingResponses++
		}
	}
	if len(times) > 0 {
		m.AvgTimeSpent = round(float64(m.TotalTimeSpent)/float64(len(times)), 1)
	}

	regulated := perf[domain.SkillEmotional].Total + perf[domain.SkillBehavioural].Total
	if regulated > 0 {
		m.EmotionalRegulationScore = round(float64(m.PositiveCopingResponses)/float64(regulated), 2)
	}
	m.AttentionVariance = round(coefficientOfVariation(times), 2)
	return m
}

func containsCopingKeyword(answer string) bool {
	lower := strings.ToLower(answer)
	for _, kw := range negativeCopingKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// coefficientOfVariation is the population standard deviation over the mean;
// 0 for fewer than two samples or a zero mean.
func coefficientOfVariation(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	mean := sum / float64(len(xs))
	if mean <= 0 {
		return 0
	}
	var sq float64
	for _, x := range xs {
		d := x - mean
		sq += d * d
	}
	return math.Sqrt(sq/float64(len(xs))) / mean
}

func round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}
