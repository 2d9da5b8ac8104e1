package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestValidateRequiresStoreAndProviderSettings(t *testing.T) {
	cfg := Config{
		DocumentStore:  StorePostgres,
		LLMProvider:    ProviderOpenAI,
		MaxUploadBytes: DefaultMaxUploadBytes,
	}

	err := cfg.Validate()
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrConfiguration))

	var cfgErr *Error
	require.True(t, errors.As(err, &cfgErr))
	require.Len(t, cfgErr.Problems, 2)
	require.Contains(t, err.Error(), "DATABASE_URL")
	require.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestValidateAcceptsMemoryStoreWithOllama(t *testing.T) {
	cfg := Config{
		DocumentStore:  StoreMemory,
		LLMProvider:    ProviderOllama,
		OllamaURL:      "http://localhost:11434/api/generate",
		MaxUploadBytes: DefaultMaxUploadBytes,
	}
	require.NoError(t, cfg.Validate())
}

func TestValidateRejectsUnknownProvider(t *testing.T) {
	cfg := Config{
		DocumentStore:  StoreMemory,
		LLMProvider:    "claude-local",
		MaxUploadBytes: DefaultMaxUploadBytes,
	}
	err := cfg.Validate()
	require.ErrorIs(t, err, ErrConfiguration)
	require.Contains(t, err.Error(), "unsupported LLM_PROVIDER")
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("DOCUMENT_STORE", "MongoDB")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("LLM_PROVIDER", "Gemini")
	t.Setenv("GEMINI_API_KEY", "k")
	t.Setenv("LLM_TIMEOUT", "45")
	t.Setenv("MAX_UPLOAD_BYTES", "2048")
	t.Setenv("CORS_ALLOW_ORIGINS", "http://a.test, http://b.test ,")
	t.Setenv("EXPORT_PDF_FONT", " /fonts/NotoSans.ttf ")

	cfg := Load()
	require.Equal(t, StoreMongo, cfg.DocumentStore)
	require.Equal(t, ProviderGemini, cfg.LLMProvider)
	require.Equal(t, 45*time.Second, cfg.LLMTimeout)
	require.Equal(t, int64(2048), cfg.MaxUploadBytes)
	require.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowOrigin)
	require.Equal(t, "/fonts/NotoSans.ttf", cfg.ExportPDFFont)
	require.NoError(t, cfg.Validate())
}

func TestParseEnvLine(t *testing.T) {
	tests := []struct {
		line   string
		key    string
		val    string
		wantOK bool
	}{
		{line: "A=1", key: "A", val: "1", wantOK: true},
		{line: "export B = \"two\"", key: "B", val: "two", wantOK: true},
		{line: "C='x=y'", key: "C", val: "x=y", wantOK: true},
		{line: "# comment", wantOK: false},
		{line: "novalue", wantOK: false},
		{line: "", wantOK: false},
	}
	for _, tt := range tests {
		key, val, ok := parseEnvLine(tt.line)
		if ok != tt.wantOK {
			t.Fatalf("parseEnvLine(%q) ok=%v, want %v", tt.line, ok, tt.wantOK)
		}
		if ok && (key != tt.key || val != tt.val) {
			t.Fatalf("parseEnvLine(%q) = %q=%q, want %q=%q", tt.line, key, val, tt.key, tt.val)
		}
	}
}
