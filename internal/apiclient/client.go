// Package apiclient is a typed HTTP client for the document API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"docsum-backend/internal/documents"
)

// ErrNotFound is returned for 404 responses.
var ErrNotFound = errors.New("not found")

// Document mirrors the server's document payload.
type Document = documents.DocumentResponse

// APIError is a non-2xx response carrying the server's error envelope.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api: %s (%d): %s", e.Code, e.StatusCode, e.Message)
}

func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// Client talks to one API base URL.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// New returns a Client. Summarization can take minutes, so the default
// timeout is generous.
func New(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 5 * time.Minute},
	}
}

// Upload sends one file. An empty title keeps the file name.
func (c *Client) Upload(ctx context.Context, fileName string, data []byte, title string) (Document, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filepath.Base(fileName))
	if err != nil {
		return Document{}, err
	}
	if _, err := part.Write(data); err != nil {
		return Document{}, err
	}
	if title != "" {
		if err := writer.WriteField("title", title); err != nil {
			return Document{}, err
		}
	}
	if err := writer.Close(); err != nil {
		return Document{}, err
	}

	var doc Document
	err = c.do(ctx, http.MethodPost, "/documents/upload", writer.FormDataContentType(), body, &doc)
	return doc, err
}

// List returns every document newest first.
func (c *Client) List(ctx context.Context) ([]Document, error) {
	var docs []Document
	err := c.do(ctx, http.MethodGet, "/documents", "", nil, &docs)
	return docs, err
}

// Get fetches one document.
func (c *Client) Get(ctx context.Context, id string) (Document, error) {
	var doc Document
	err := c.do(ctx, http.MethodGet, "/documents/"+url.PathEscape(id), "", nil, &doc)
	return doc, err
}

// Summarize re-runs summarization for a document.
func (c *Client) Summarize(ctx context.Context, id string) (Document, error) {
	var doc Document
	err := c.do(ctx, http.MethodPost, "/documents/"+url.PathEscape(id)+"/summarize", "", nil, &doc)
	return doc, err
}

// SetAudioURL attaches an audio asset URL.
func (c *Client) SetAudioURL(ctx context.Context, id, audioURL string) (Document, error) {
	payload, err := json.Marshal(map[string]string{"audioUrl": audioURL})
	if err != nil {
		return Document{}, err
	}
	var doc Document
	err = c.do(ctx, http.MethodPut, "/documents/"+url.PathEscape(id)+"/audio-url", "application/json", bytes.NewReader(payload), &doc)
	return doc, err
}

// ExportSummary downloads the rendered summary in the given format.
func (c *Client) ExportSummary(ctx context.Context, id, format string) ([]byte, error) {
	path := "/documents/" + url.PathEscape(id) + "/summary/export?format=" + url.QueryEscape(format)
	resp, err := c.send(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	resp, err := c.send(ctx, method, path, contentType, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()

	apiErr := &APIError{StatusCode: resp.StatusCode}
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20)); readErr == nil && json.Unmarshal(raw, &envelope) == nil {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
	}
	return nil, apiErr
}
