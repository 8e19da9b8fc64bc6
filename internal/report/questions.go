package report

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"quiz-risk-service/internal/domain"
)

var jsonArrayPattern = regexp.MustCompile(`(?s)\[.*\]`)

const defaultTimeLimit = 30

// generatedQuestion mirrors domain.Question with optional fields so
// defaults can be told apart from explicit zero values.
type generatedQuestion struct {
	Question          string   `json:"question"`
	SkillType         *string  `json:"skillType"`
	Difficulty        *string  `json:"difficulty"`
	Options           []string `json:"options"`
	CorrectAnswer     string   `json:"correctAnswer"`
	TimeLimit         *int     `json:"timeLimit"`
	BehaviorIndicator string   `json:"behaviorIndicator"`
}

// ParseQuestions extracts the first JSON array from text, falling back to the
// whole text, and normalises each entry. Question ids are renumbered 1..n.
func ParseQuestions(text string) ([]domain.Question, error) {
	raw := jsonArrayPattern.FindString(text)
	if raw == "" {
		raw = strings.TrimSpace(text)
	}

	var generated []generatedQuestion
	if err := json.Unmarshal([]byte(raw), &generated); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrGenerationFailed, err)
	}
	if len(generated) == 0 {
		return nil, fmt.Errorf("%w: no questions", domain.ErrGenerationFailed)
	}

	questions := make([]domain.Question, len(generated))
	for i, g := range generated {
		q := domain.Question{
			ID:                i + 1,
			Prompt:            g.Question,
			SkillType:         string(domain.SkillCognitive),
			Difficulty:        "Easy",
			Options:           g.Options,
			CorrectAnswer:     g.CorrectAnswer,
			TimeLimit:         defaultTimeLimit,
			BehaviorIndicator: g.BehaviorIndicator,
		}
		if g.SkillType != nil {
			q.SkillType = *g.SkillType
		}
		if g.Difficulty != nil {
			q.Difficulty = *g.Difficulty
		}
		if g.TimeLimit != nil {
			q.TimeLimit = *g.TimeLimit
		}
		if q.Options == nil {
			q.Options = []string{}
		}
		questions[i] = q
	}
	return questions, nil
}
