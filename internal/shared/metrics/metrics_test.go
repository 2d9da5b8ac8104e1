package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveSummarizationCountsByResult(t *testing.T) {
	okBefore := testutil.ToFloat64(summarizationsTotal.WithLabelValues(TriggerRequest, "ok"))
	errBefore := testutil.ToFloat64(summarizationsTotal.WithLabelValues(TriggerRequest, "error"))

	ObserveSummarization(TriggerRequest, nil)
	ObserveSummarization(TriggerRequest, errors.New("boom"))
	ObserveSummarization(TriggerRequest, errors.New("boom"))

	if got := testutil.ToFloat64(summarizationsTotal.WithLabelValues(TriggerRequest, "ok")) - okBefore; got != 1 {
		t.Fatalf("expected 1 ok summarization, got %v", got)
	}
	if got := testutil.ToFloat64(summarizationsTotal.WithLabelValues(TriggerRequest, "error")) - errBefore; got != 2 {
		t.Fatalf("expected 2 failed summarizations, got %v", got)
	}
}

func TestHandlerRendersPrometheusText(t *testing.T) {
	gin.SetMode(gin.TestMode)

	ObserveUpload("ok")
	ObserveSummarizeDuration("ollama", 1500*time.Millisecond)

	r := gin.New()
	r.Use(HTTPRequests())
	r.GET("/metrics", Handler())

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	body, _ := io.ReadAll(resp.Body)
	for _, name := range []string{"docsum_uploads_total", "docsum_summarize_duration_seconds_bucket"} {
		if !strings.Contains(string(body), name) {
			t.Fatalf("expected %s in metrics output", name)
		}
	}
}
