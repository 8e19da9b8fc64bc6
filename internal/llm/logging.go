package llm

import (
	"context"
	"time"

	"quiz-risk-service/internal/logger"
)

// LoggingProvider records latency and token usage of every call.
type LoggingProvider struct {
	inner Provider
	log   *logger.Logger
}

// WithLogging wraps p so each Generate call is logged.
func WithLogging(p Provider, log *logger.Logger) Provider {
	if log == nil {
		log = logger.Nop()
	}
	return &LoggingProvider{inner: p, log: log}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)
	elapsed := time.Since(start)
	if err != nil {
		l.log.Warn("llm request failed", "model", l.inner.ModelID(), "latency", elapsed, "error", err)
		return nil, err
	}
	l.log.Debug("llm request",
		"model", resp.Model,
		"latency", elapsed,
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
	)
	return resp, nil
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}
