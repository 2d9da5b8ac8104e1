package summarize

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"docsum-backend/internal/llm"
	"docsum-backend/internal/shared/metrics"
	"docsum-backend/internal/shared/server/respond"
)

// Handler exposes direct text summarization over HTTP.
type Handler struct {
	Summarizer Summarizer
}

// NewHandler constructs a Handler.
func NewHandler(s Summarizer) *Handler {
	return &Handler{Summarizer: s}
}

// RegisterRoutes attaches the summarization route to the router group.
func (h *Handler) RegisterRoutes(rg gin.IRoutes) {
	rg.POST("/ai/summarize", h.summarize)
}

type summarizeRequest struct {
	Content string `json:"content"`
}

type summarizeResponse struct {
	Summary string `json:"summary"`
}

func (h *Handler) summarize(c *gin.Context) {
	var req summarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	summary, err := h.Summarizer.Summarize(c.Request.Context(), req.Content)
	metrics.ObserveSummarization(metrics.TriggerDirect, err)
	if err != nil {
		WriteError(c, err)
		return
	}
	respond.OK(c, summarizeResponse{Summary: summary})
}

// ErrorStatus maps summarization errors to an HTTP status and error code.
// ok is false when err is not a summarization error.
func ErrorStatus(err error) (status int, code string, ok bool) {
	switch {
	case errors.Is(err, ErrEmptyContent):
		return http.StatusBadRequest, "empty_content", true
	case errors.Is(err, ErrEmptyResponse):
		return http.StatusBadGateway, "empty_response", true
	case errors.Is(err, llm.ErrInvalidCredential):
		return http.StatusBadGateway, "invalid_credential", true
	case errors.Is(err, llm.ErrUpstream):
		return http.StatusBadGateway, "upstream_error", true
	case errors.Is(err, llm.ErrConfiguration):
		return http.StatusInternalServerError, "configuration_error", true
	}
	return 0, "", false
}

// WriteError renders err with the standard error envelope.
func WriteError(c *gin.Context, err error) {
	if status, code, ok := ErrorStatus(err); ok {
		respond.Error(c, status, code, err.Error(), upstreamDetails(err))
		return
	}
	respond.Error(c, http.StatusInternalServerError, "internal_error", "summarization failed", nil)
}

func upstreamDetails(err error) interface{} {
	var upstream *llm.UpstreamError
	if !errors.As(err, &upstream) {
		return nil
	}
	return gin.H{"provider": upstream.Provider, "upstreamStatus": upstream.StatusCode}
}
