package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Summarization triggers.
const (
	TriggerUpload  = "upload"
	TriggerRequest = "request"
	TriggerDirect  = "direct"
)

var (
	uploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "docsum_uploads_total",
		Help: "Document uploads by outcome.",
	}, []string{"result"})

	summarizationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "docsum_summarizations_total",
		Help: "Summarization attempts by trigger and outcome.",
	}, []string{"trigger", "result"})

	summarizeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "docsum_summarize_duration_seconds",
		Help:    "Latency of the outbound summarization call.",
		Buckets: []float64{.25, .5, 1, 2, 5, 10, 30, 60, 120},
	}, []string{"provider"})

	extractDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "docsum_extract_duration_seconds",
		Help:    "Time spent extracting text from uploads.",
		Buckets: []float64{.005, .01, .05, .1, .25, .5, 1, 2, 5},
	}, []string{"format"})

	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "docsum_http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})
)

// ObserveUpload records an upload outcome ("ok", "invalid", "extract_failed", "error").
func ObserveUpload(result string) {
	uploadsTotal.WithLabelValues(result).Inc()
}

// ObserveSummarization records one summarization attempt.
func ObserveSummarization(trigger string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	summarizationsTotal.WithLabelValues(trigger, result).Inc()
}

// ObserveSummarizeDuration records the latency of one provider call.
func ObserveSummarizeDuration(provider string, elapsed time.Duration) {
	summarizeDuration.WithLabelValues(provider).Observe(elapsed.Seconds())
}

// ObserveExtractDuration records the time spent decoding one upload.
func ObserveExtractDuration(format string, elapsed time.Duration) {
	extractDuration.WithLabelValues(format).Observe(elapsed.Seconds())
}

// HTTPRequests counts completed requests by matched route.
func HTTPRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
