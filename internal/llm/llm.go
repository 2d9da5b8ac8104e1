// Package llm defines the text-generation contract shared by the
// summarization providers and the errors they report.
package llm

import "context"

// Generator sends one prompt to a language model and returns its text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	// Name is the provider label used in logs and metrics.
	Name() string
}
