package report

import (
	"context"
	"time"

	"quiz-risk-service/internal/llm"
)

// Generator turns a prompt into free text. The text may wrap JSON in prose.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// LLMGenerator adapts an llm.Provider to Generator.
type LLMGenerator struct {
	provider    llm.Provider
	maxTokens   int
	temperature float64
}

// NewLLMGenerator wraps provider. Zero maxTokens or temperature keep provider defaults.
func NewLLMGenerator(provider llm.Provider, maxTokens int, temperature float64) *LLMGenerator {
	return &LLMGenerator{provider: provider, maxTokens: maxTokens, temperature: temperature}
}

func (g *LLMGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	req := llm.UserPrompt(prompt)
	req.MaxTokens = g.maxTokens
	req.Temperature = g.temperature

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

type timeoutGenerator struct {
	inner   Generator
	timeout time.Duration
}

// WithTimeout bounds every Generate call of g by d.
func WithTimeout(g Generator, d time.Duration) Generator {
	return &timeoutGenerator{inner: g, timeout: d}
}

func (t *timeoutGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.Generate(ctx, prompt)
}
