package server

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"docsum-backend/internal/documents"
	"docsum-backend/internal/services/health"
	"docsum-backend/internal/shared/config"
	"docsum-backend/internal/shared/metrics"
	"docsum-backend/internal/shared/server/middleware"
	"docsum-backend/internal/summarize"
)

// RouterDeps holds handler dependencies for the router.
type RouterDeps struct {
	Config           config.Config
	DocumentHandler  *documents.Handler
	SummarizeHandler *summarize.Handler
	Health           *health.Service
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		metrics.HTTPRequests(),
		// Exports are already compressed.
		gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPathsRegexs([]string{`^/documents/[^/]+/(file|summary/export)$`})),
	)

	r.GET("/metrics", metrics.Handler())
	if deps.Health != nil {
		deps.Health.RegisterRoutes(r)
	}
	if deps.DocumentHandler != nil {
		deps.DocumentHandler.RegisterRoutes(r)
	}
	if deps.SummarizeHandler != nil {
		deps.SummarizeHandler.RegisterRoutes(r)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
