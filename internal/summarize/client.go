// Package summarize turns document text into a summary through one
// synchronous language-model call.
package summarize

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"docsum-backend/internal/llm"
	"docsum-backend/internal/shared/metrics"
	"docsum-backend/internal/shared/telemetry"
)

// Summarizer is the contract the document service depends on.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// Client wraps an llm.Generator with the summarization prompt.
type Client struct {
	gen llm.Generator
}

// New returns a Client. A nil generator is a configuration error.
func New(gen llm.Generator) (*Client, error) {
	if gen == nil {
		return nil, fmt.Errorf("summarize: no generator: %w", llm.ErrConfiguration)
	}
	return &Client{gen: gen}, nil
}

// Provider returns the generator label.
func (c *Client) Provider() string { return c.gen.Name() }

// Summarize issues exactly one generation call. There is no retry.
func (c *Client) Summarize(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyContent
	}

	start := time.Now()
	summary, err := c.gen.Generate(ctx, BuildPrompt(text))
	elapsed := time.Since(start)
	metrics.ObserveSummarizeDuration(c.gen.Name(), elapsed)

	logger := telemetry.FromContext(ctx).With(
		zap.String("provider", c.gen.Name()),
		zap.Int("content_chars", len(text)),
		zap.Int64("duration_ms", elapsed.Milliseconds()),
	)
	if err != nil {
		logger.Warn("summarize.failed", zap.Error(err))
		return "", fmt.Errorf("summarize: %w", err)
	}

	summary = strings.TrimSpace(summary)
	if summary == "" {
		logger.Warn("summarize.empty_response")
		return "", fmt.Errorf("summarize: %w", ErrEmptyResponse)
	}
	logger.Info("summarize.complete", zap.Int("summary_chars", len(summary)))
	return summary, nil
}

// IsUpstream reports whether err came from the model provider rather than the caller.
func IsUpstream(err error) bool {
	return errors.Is(err, llm.ErrUpstream) || errors.Is(err, ErrEmptyResponse)
}

var _ Summarizer = (*Client)(nil)
