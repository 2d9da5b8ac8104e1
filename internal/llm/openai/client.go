package openai

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
	providerName   = "openai"
	DefaultModel   = "gpt-4o-mini"
	DefaultBaseURL = "https://api.openai.com/v1"
)

// Client implements llm.Generator using OpenAI Chat Completions.
type Client struct {
	apiKey     string
	model      string
	endpoint   string
	httpClient *http.Client
}

// NewClient constructs a new OpenAI client. An empty model or baseURL
// selects the defaults; timeout <= 0 means 120s.
func NewClient(apiKey, model, baseURL string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, &llm.ConfigError{Provider: providerName, Setting: "OPENAI_API_KEY"}
	}
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		apiKey:   apiKey,
		model:    model,
		endpoint: strings.TrimRight(baseURL, "/") + "/chat/completions",
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature *float32      `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Name implements llm.Generator.
func (c *Client) Name() string { return providerName }

// Generate sends prompt as a single user message.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	}
	// gpt-5 models reject an explicit temperature.
	if !isGPT5(c.model) {
		temp := float32(0.2)
		reqBody.Temperature = &temp
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
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

	var parsed chatResponse
	parseErr := json.Unmarshal(body, &parsed)
	if resp.StatusCode >= 400 {
		msg := llm.TruncateMessage(string(body))
		if parseErr == nil && parsed.Error != nil {
			msg = fmt.Sprintf("%s (%s)", parsed.Error.Message, parsed.Error.Type)
		}
		return "", &llm.UpstreamError{Provider: providerName, StatusCode: resp.StatusCode, Message: msg}
	}
	if parseErr != nil {
		return "", &llm.UpstreamError{Provider: providerName, StatusCode: resp.StatusCode, Message: "response parse", Err: parseErr}
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%s response missing choices: %w", providerName, llm.ErrEmptyResponse)
	}
	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("%s response empty content: %w", providerName, llm.ErrEmptyResponse)
	}
	return content, nil
}

func isGPT5(model string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(model)), "gpt-5")
}

var _ llm.Generator = (*Client)(nil)
