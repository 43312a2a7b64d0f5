package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/fms/backend/internal/application/dashboard"
)

// DashboardReader builds the dashboard summary
type DashboardReader interface {
	Summary(ctx context.Context) (*dashboard.Summary, error)
}

// DashboardHandler serves the landing page summary
type DashboardHandler struct {
	BaseHandler
	service DashboardReader
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(service DashboardReader) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Get handles GET /api/dashboard
func (h *DashboardHandler) Get(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}
