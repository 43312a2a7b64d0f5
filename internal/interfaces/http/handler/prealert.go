package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fms/backend/internal/application/prealert"
	"github.com/fms/backend/internal/domain/shared"
	"github.com/fms/backend/internal/interfaces/http/dto"
	"github.com/fms/backend/internal/interfaces/http/middleware"
)

// PreAlertSender is the pre-alert operation the handler needs
type PreAlertSender interface {
	Send(ctx context.Context, actor shared.Actor, req prealert.SendRequest) (*prealert.SendResult, error)
}

// PreAlertHandler handles pre-alert mail dispatch
type PreAlertHandler struct {
	BaseHandler
	service PreAlertSender
}

// NewPreAlertHandler creates a new PreAlertHandler
func NewPreAlertHandler(service PreAlertSender) *PreAlertHandler {
	return &PreAlertHandler{service: service}
}

// SendResponse is the body of a successful send
type SendResponse struct {
	Success bool   `json:"success"`
	LogID   int64  `json:"logId"`
	Status  string `json:"status"`
}

// FailedSendResponse is the error envelope of a failed delivery. It still
// names the mail log row written for the attempt.
type FailedSendResponse struct {
	dto.ErrorResponse
	LogID  int64  `json:"logId,omitempty"`
	Status string `json:"status"`
}

// Send handles POST /api/pre-alert/send
func (h *PreAlertHandler) Send(c *gin.Context) {
	var req prealert.SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.service.Send(c.Request.Context(), actor(c), req)
	if err != nil {
		var de *shared.DomainError
		if result != nil && errors.As(err, &de) && de.Code == shared.CodeMailDeliveryFailed {
			_ = c.Error(err)
			c.JSON(http.StatusBadGateway, FailedSendResponse{
				ErrorResponse: dto.NewErrorResponse(de.Code, de.Message, middleware.RequestIDFrom(c)),
				LogID:         result.LogID,
				Status:        result.Status,
			})
			return
		}
		h.HandleError(c, err)
		return
	}

	h.Success(c, SendResponse{Success: true, LogID: result.LogID, Status: result.Status})
}
