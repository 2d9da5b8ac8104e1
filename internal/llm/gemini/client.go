package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"docsum-backend/internal/llm"
)

const (
	providerName = "gemini"
	DefaultModel = "gemini-2.0-flash"
)

// Client implements llm.Generator on the Gemini API.
type Client struct {
	client *genai.Client
	model  string
}

// Options tunes the underlying genai client. BaseURL is only set in tests.
type Options struct {
	Timeout time.Duration
	BaseURL string
}

// NewClient builds a Gemini generator. The API key is required.
func NewClient(ctx context.Context, apiKey, model string, opts Options) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, &llm.ConfigError{Provider: providerName, Setting: "GEMINI_API_KEY"}
	}
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if opts.Timeout > 0 {
		cfg.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}
	if opts.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Client{client: client, model: model}, nil
}

func (c *Client) Name() string { return providerName }

func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", upstreamError(err)
	}
	if resp == nil {
		return "", fmt.Errorf("%s: %w", providerName, llm.ErrEmptyResponse)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("%s: %w", providerName, llm.ErrEmptyResponse)
	}
	return text, nil
}

func upstreamError(err error) error {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		var apiErrPtr *genai.APIError
		if !errors.As(err, &apiErrPtr) || apiErrPtr == nil {
			return &llm.UpstreamError{Provider: providerName, Message: "request failed", Err: err}
		}
		apiErr = *apiErrPtr
	}
	return &llm.UpstreamError{
		Provider:           providerName,
		StatusCode:         apiErr.Code,
		Message:            llm.TruncateMessage(apiErr.Message),
		CredentialRejected: credentialRejected(apiErr),
		Err:                err,
	}
}

// credentialRejected recognizes Gemini's bad-key answers: 401/403, or 400
// INVALID_ARGUMENT carrying reason API_KEY_INVALID.
func credentialRejected(apiErr genai.APIError) bool {
	switch apiErr.Code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return true
	case http.StatusBadRequest:
		for _, detail := range apiErr.Details {
			if reason, _ := detail["reason"].(string); reason == "API_KEY_INVALID" {
				return true
			}
		}
	}
	return false
}

var _ llm.Generator = (*Client)(nil)
