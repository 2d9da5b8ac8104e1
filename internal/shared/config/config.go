package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// ErrConfiguration marks startup configuration problems. The API refuses to
// serve while Validate reports one.
var ErrConfiguration = errors.New("configuration error")

// Error lists every missing or invalid setting found by Validate.
type Error struct {
	Problems []string
}

func (e *Error) Error() string {
	return "configuration error: " + strings.Join(e.Problems, "; ")
}

func (e *Error) Unwrap() error { return ErrConfiguration }

const (
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
	StoreMemory   = "memory"

	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	DefaultMaxUploadBytes int64 = 10 << 20 // 10MB
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	LogLevel        string
	CORSAllowOrigin []string

	DocumentStore string
	DatabaseURL   string
	MongoURI      string
	MongoDatabase string

	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	SSEKMSKeyID     string

	LLMProvider   string
	LLMModel      string
	LLMTimeout    time.Duration
	OllamaURL     string
	OpenAIAPIKey  string
	OpenAIBaseURL string
	GeminiAPIKey  string

	MaxUploadBytes   int64
	SummarizeLockTTL time.Duration
	// ExportPDFFont is a TrueType file used for PDF export of non-Latin text.
	ExportPDFFont string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	return Config{
		Port:            getEnv("PORT", "8080"),
		Env:             normalizeEnv(getEnv("ENV", "dev")),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000")),

		DocumentStore: normalizeDocumentStore(getEnv("DOCUMENT_STORE", StorePostgres)),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		MongoURI:      os.Getenv("MONGO_URI"),
		MongoDatabase: getEnv("MONGO_DATABASE", "docsum"),

		ObjectStoreType: normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:   getEnv("LOCAL_STORE_DIR", "./data"),
		AWSRegion:       getEnv("AWS_REGION", ""),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3Prefix:        getEnv("S3_PREFIX", ""),
		SSEKMSKeyID:     getEnv("SSE_KMS_KEY_ID", ""),

		LLMProvider:   strings.ToLower(strings.TrimSpace(getEnv("LLM_PROVIDER", ProviderOllama))),
		LLMModel:      getEnv("LLM_MODEL", ""),
		LLMTimeout:    getDuration("LLM_TIMEOUT", 120*time.Second),
		OllamaURL:     getEnv("OLLAMA_API_URL", ""),
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),

		MaxUploadBytes:   getInt64("MAX_UPLOAD_BYTES", DefaultMaxUploadBytes),
		SummarizeLockTTL: getDuration("SUMMARIZE_LOCK_TTL", 10*time.Minute),
		ExportPDFFont:    strings.TrimSpace(os.Getenv("EXPORT_PDF_FONT")),
	}
}

// Validate reports every missing required setting at once.
func (c Config) Validate() error {
	var problems []string

	switch c.DocumentStore {
	case StorePostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			problems = append(problems, "DATABASE_URL is required for DOCUMENT_STORE=postgres")
		}
	case StoreMongo:
		if strings.TrimSpace(c.MongoURI) == "" {
			problems = append(problems, "MONGO_URI is required for DOCUMENT_STORE=mongo")
		}
	case StoreMemory:
	default:
		problems = append(problems, fmt.Sprintf("unsupported DOCUMENT_STORE %q", c.DocumentStore))
	}

	switch c.LLMProvider {
	case ProviderOllama:
		if strings.TrimSpace(c.OllamaURL) == "" {
			problems = append(problems, "OLLAMA_API_URL is required for LLM_PROVIDER=ollama")
		}
	case ProviderOpenAI:
		if strings.TrimSpace(c.OpenAIAPIKey) == "" {
			problems = append(problems, "OPENAI_API_KEY is required for LLM_PROVIDER=openai")
		}
	case ProviderGemini:
		if strings.TrimSpace(c.GeminiAPIKey) == "" {
			problems = append(problems, "GEMINI_API_KEY is required for LLM_PROVIDER=gemini")
		}
	default:
		problems = append(problems, fmt.Sprintf("unsupported LLM_PROVIDER %q", c.LLMProvider))
	}

	if c.ObjectStoreType == "s3" && strings.TrimSpace(c.S3Bucket) == "" {
		problems = append(problems, "S3_BUCKET is required for OBJECT_STORE=s3")
	}
	if c.MaxUploadBytes <= 0 {
		problems = append(problems, "MAX_UPLOAD_BYTES must be positive")
	}

	if len(problems) > 0 {
		return &Error{Problems: problems}
	}
	return nil
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	// Bare integers are seconds.
	if n, err := strconv.Atoi(raw); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return def
}

func getInt64(key string, def int64) int64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return def
	}
	return n
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeDocumentStore(raw string) string {
	switch v := strings.ToLower(strings.TrimSpace(raw)); v {
	case "postgres", "pg", "postgresql":
		return StorePostgres
	case "mongo", "mongodb":
		return StoreMongo
	case "memory", "mem":
		return StoreMemory
	default:
		return v
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}
