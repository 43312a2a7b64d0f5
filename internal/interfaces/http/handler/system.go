package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fms/backend/internal/infrastructure/logger"
	"github.com/fms/backend/internal/infrastructure/persistence"
)

// HealthChecker is the database view the health endpoint needs
type HealthChecker interface {
	Ping(ctx context.Context) error
	Stats() (persistence.ConnectionStats, error)
}

// SystemHandler serves health and build information
type SystemHandler struct {
	BaseHandler
	db        HealthChecker
	name      string
	version   string
	startTime time.Time
	timeout   time.Duration
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(db HealthChecker, name, version string) *SystemHandler {
	return &SystemHandler{
		db:        db,
		name:      name,
		version:   version,
		startTime: time.Now(),
		timeout:   3 * time.Second,
	}
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status   string          `json:"status"`
	Database string          `json:"database"`
	Stats    *PoolStatistics `json:"stats,omitempty"`
}

// PoolStatistics reports the connection pool
type PoolStatistics struct {
	MaxOpenConnections int    `json:"maxOpenConnections"`
	OpenConnections    int    `json:"openConnections"`
	InUse              int    `json:"inUse"`
	Idle               int    `json:"idle"`
	WaitCount          int64  `json:"waitCount"`
	WaitDuration       string `json:"waitDuration"`
}

// Health pings the database. It answers 503 when the ping fails.
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		logger.L(c.Request.Context()).Warn("health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "error", Database: "disconnected"})
		return
	}

	resp := HealthResponse{Status: "ok", Database: "connected"}
	if st, err := h.db.Stats(); err == nil {
		resp.Stats = &PoolStatistics{
			MaxOpenConnections: st.MaxOpenConnections,
			OpenConnections:    st.OpenConnections,
			InUse:              st.InUse,
			Idle:               st.Idle,
			WaitCount:          st.WaitCount,
			WaitDuration:       st.WaitDuration.String(),
		}
	}
	c.JSON(http.StatusOK, resp)
}

// InfoResponse describes the running build
type InfoResponse struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	GoVersion string `json:"goVersion"`
	Uptime    string `json:"uptime"`
}

// Info handles GET /api/system/info
func (h *SystemHandler) Info(c *gin.Context) {
	h.Success(c, InfoResponse{
		Name:      h.name,
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	})
}
