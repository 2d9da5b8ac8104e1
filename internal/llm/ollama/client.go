package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"docsum-backend/internal/llm"
)

const (
	providerName = "ollama"
	DefaultModel = "mistral:latest"
)

// Client calls an Ollama /api/generate endpoint without streaming.
type Client struct {
	url        string
	model      string
	httpClient *http.Client
}

// NewClient builds a client for the full generate URL, for example
// http://localhost:11434/api/generate.
func NewClient(url, model string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(url) == "" {
		return nil, &llm.ConfigError{Provider: providerName, Setting: "OLLAMA_API_URL"}
	}
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		url:        strings.TrimSpace(url),
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

func (c *Client) Name() string { return providerName }

func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(generateRequest{Model: c.model, Prompt: prompt, Stream: false})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", &llm.UpstreamError{Provider: providerName, Message: "build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &llm.UpstreamError{Provider: providerName, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &llm.UpstreamError{Provider: providerName, StatusCode: resp.StatusCode, Message: "read body", Err: err}
	}

	var parsed generateResponse
	parseErr := json.Unmarshal(body, &parsed)
	if resp.StatusCode >= 400 {
		msg := llm.TruncateMessage(string(body))
		if parseErr == nil && parsed.Error != "" {
			msg = parsed.Error
		}
		return "", &llm.UpstreamError{Provider: providerName, StatusCode: resp.StatusCode, Message: msg}
	}
	if parseErr != nil {
		return "", &llm.UpstreamError{Provider: providerName, StatusCode: resp.StatusCode, Message: "response parse", Err: parseErr}
	}

	text := strings.TrimSpace(parsed.Response)
	if text == "" {
		return "", fmt.Errorf("%s: %w", providerName, llm.ErrEmptyResponse)
	}
	return text, nil
}

var _ llm.Generator = (*Client)(nil)
