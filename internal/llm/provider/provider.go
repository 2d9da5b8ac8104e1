// Package provider selects the llm.Generator named by LLM_PROVIDER.
package provider

import (
	"context"
	"fmt"

	"docsum-backend/internal/llm"
	"docsum-backend/internal/llm/gemini"
	"docsum-backend/internal/llm/ollama"
	"docsum-backend/internal/llm/openai"
	"docsum-backend/internal/shared/config"
)

// New builds the configured generator. Missing endpoints or credentials
// return *llm.ConfigError so callers can refuse to start.
func New(ctx context.Context, cfg config.Config) (llm.Generator, error) {
	var (
		gen llm.Generator
		err error
	)
	switch cfg.LLMProvider {
	case config.ProviderOllama, "":
		gen, err = ollama.NewClient(cfg.OllamaURL, cfg.LLMModel, cfg.LLMTimeout)
	case config.ProviderOpenAI:
		gen, err = openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel, cfg.OpenAIBaseURL, cfg.LLMTimeout)
	case config.ProviderGemini:
		gen, err = gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.LLMModel, gemini.Options{Timeout: cfg.LLMTimeout})
	default:
		return nil, fmt.Errorf("unsupported LLM_PROVIDER %q: %w", cfg.LLMProvider, llm.ErrConfiguration)
	}
	if err != nil {
		return nil, err
	}
	return gen, nil
}
