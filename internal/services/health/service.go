package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"docsum-backend/internal/shared/server/respond"
	"docsum-backend/internal/shared/telemetry"
)

const pingTimeout = 2 * time.Second

// Pinger is satisfied by every document store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Service encapsulates health-related checks.
type Service struct {
	Store     Pinger
	StoreName string
}

// NewService constructs a new health service.
func NewService(store Pinger, storeName string) *Service {
	return &Service{Store: store, StoreName: storeName}
}

// Status is the health payload.
type Status struct {
	OK    bool   `json:"ok"`
	Store string `json:"store"`
	Error string `json:"error,omitempty"`
}

// Status pings the document store.
func (s *Service) Status(ctx context.Context) Status {
	st := Status{OK: true, Store: s.StoreName}
	if s.Store == nil {
		return st
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := s.Store.Ping(ctx); err != nil {
		telemetry.FromContext(ctx).Warn("health.store_unreachable", zap.String("store", s.StoreName), zap.Error(err))
		st.OK = false
		st.Error = "store unreachable"
	}
	return st
}

// RegisterRoutes attaches GET /health.
func (s *Service) RegisterRoutes(rg gin.IRoutes) {
	rg.GET("/health", func(c *gin.Context) {
		st := s.Status(c.Request.Context())
		if !st.OK {
			respond.JSON(c, http.StatusServiceUnavailable, st)
			return
		}
		respond.OK(c, st)
	})
}
