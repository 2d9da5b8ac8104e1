package llm

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"
)

var (
	ErrConfiguration     = errors.New("llm configuration error")
	ErrEmptyResponse     = errors.New("llm returned an empty response")
	ErrUpstream          = errors.New("llm upstream error")
	ErrInvalidCredential = errors.New("llm rejected the credential")
)

// ConfigError reports a missing endpoint or credential at construction time.
type ConfigError struct {
	Provider string
	Setting  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s is required", e.Provider, e.Setting)
}

func (e *ConfigError) Unwrap() error { return ErrConfiguration }

// UpstreamError preserves the provider status and message for diagnostics.
// StatusCode is zero for transport failures. CredentialRejected marks
// providers that reject a bad key with something other than 401.
type UpstreamError struct {
	Provider           string
	StatusCode         int
	Message            string
	CredentialRejected bool
	Err                error
}

func (e *UpstreamError) Error() string {
	var b strings.Builder
	b.WriteString(e.Provider)
	if e.StatusCode > 0 {
		fmt.Fprintf(&b, " http status %d", e.StatusCode)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *UpstreamError) Is(target error) bool {
	switch target {
	case ErrUpstream:
		return true
	case ErrInvalidCredential:
		return e.CredentialRejected || e.StatusCode == http.StatusUnauthorized
	}
	return false
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// TruncateMessage shortens upstream bodies before they land in errors and logs.
func TruncateMessage(body string) string {
	const max = 512
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(body[cut]) {
		cut--
	}
	return body[:cut] + "..."
}
