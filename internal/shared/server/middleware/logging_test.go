package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"docsum-backend/internal/shared/telemetry"
)

func TestLoggingIncludesRequiredFields(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, logs := observer.New(zap.InfoLevel)
	prev := telemetry.L()
	telemetry.SetLogger(zap.New(core))
	t.Cleanup(func() { telemetry.SetLogger(prev) })

	router := gin.New()
	router.Use(RequestID(), Logging())
	router.GET("/documents/:id", func(c *gin.Context) {
		c.Set("documentId", c.Param("id"))
		c.Set("statusTransition", "created->summarized")
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/documents/doc-1", nil)
	req.Header.Set("X-Request-Id", "req-42")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if got := resp.Header().Get("X-Request-Id"); got != "req-42" {
		t.Fatalf("expected request id echoed, got %q", got)
	}

	entries := logs.FilterMessage("request.complete").All()
	if len(entries) != 1 {
		t.Fatalf("expected one request.complete entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	required := []string{"request_id", "document_id", "duration_ms", "status", "status_transition", "route"}
	for _, key := range required {
		if _, ok := fields[key]; !ok {
			t.Fatalf("missing %s in log fields: %v", key, fields)
		}
	}
	if fields["request_id"] != "req-42" {
		t.Fatalf("expected request_id req-42, got %v", fields["request_id"])
	}
	if fields["route"] != "/documents/:id" {
		t.Fatalf("expected route /documents/:id, got %v", fields["route"])
	}
}

func TestRequestIDGeneratedWhenMissing(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RequestID())
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, RequestIDFromContext(c))
	})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))

	id := resp.Header().Get("X-Request-Id")
	if id == "" || id != resp.Body.String() {
		t.Fatalf("expected generated request id in header and context, got header=%q body=%q", id, resp.Body.String())
	}
}

func TestRecoveryReturns500(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RequestID(), Recovery())
	router.GET("/boom", func(c *gin.Context) {
		panic("kaboom")
	})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/boom", nil))

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
}
