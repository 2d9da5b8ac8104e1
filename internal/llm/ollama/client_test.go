package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"docsum-backend/internal/llm"
)

func TestNewClientRequiresURL(t *testing.T) {
	_, err := NewClient("", "", 0)
	require.ErrorIs(t, err, llm.ErrConfiguration)

	var cfgErr *llm.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	require.Equal(t, "OLLAMA_API_URL", cfgErr.Setting)
}

func TestGenerateNonStreaming(t *testing.T) {
	var got generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"model":"mistral:latest","response":"Key points.\n","done":true}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL+"/api/generate", "", time.Second)
	require.NoError(t, err)
	require.Equal(t, "ollama", client.Name())

	text, err := client.Generate(context.Background(), "prompt text")
	require.NoError(t, err)
	require.Equal(t, "Key points.", text)
	require.Equal(t, DefaultModel, got.Model)
	require.Equal(t, "prompt text", got.Prompt)
	require.False(t, got.Stream)
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{name: "empty response", status: http.StatusOK, body: `{"response":"  "}`, want: llm.ErrEmptyResponse},
		{name: "model missing", status: http.StatusNotFound, body: `{"error":"model 'mistral' not found"}`, want: llm.ErrUpstream},
		{name: "unauthorized", status: http.StatusUnauthorized, body: `unauthorized`, want: llm.ErrInvalidCredential},
		{name: "garbage", status: http.StatusOK, body: `<html>`, want: llm.ErrUpstream},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client, err := NewClient(server.URL, "", time.Second)
			require.NoError(t, err)
			_, err = client.Generate(context.Background(), "x")
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestGenerateTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client, err := NewClient(url, "", time.Second)
	require.NoError(t, err)
	_, err = client.Generate(context.Background(), "x")

	var upstream *llm.UpstreamError
	require.ErrorAs(t, err, &upstream)
	require.Zero(t, upstream.StatusCode)
}
