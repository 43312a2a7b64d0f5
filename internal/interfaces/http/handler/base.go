// Package handler holds the gin handlers of the API.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fms/backend/internal/domain/shared"
	"github.com/fms/backend/internal/infrastructure/logger"
	"github.com/fms/backend/internal/interfaces/http/dto"
	"github.com/fms/backend/internal/interfaces/http/middleware"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a 200 with data as the body
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// Created sends a 201 with data as the body
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// ErrorWithCode sends the error envelope, deriving the status from code
func (h *BaseHandler) ErrorWithCode(c *gin.Context, code, message string) {
	c.JSON(dto.GetHTTPStatus(code), dto.NewErrorResponse(code, message, middleware.RequestIDFrom(c)))
}

// BadRequest sends a 400 INVALID_INPUT
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.ErrorWithCode(c, dto.ErrCodeInvalidInput, message)
}

// HandleError writes err as the error envelope. Domain errors with a
// client-facing code keep their code and message; everything else is
// logged and answered with a generic 500.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)

	var de *shared.DomainError
	if errors.As(err, &de) && dto.IsClientFacing(de.Code) {
		if dto.GetHTTPStatus(de.Code) >= http.StatusInternalServerError {
			logger.L(c.Request.Context()).Error("request failed",
				zap.String("code", de.Code),
				zap.Error(err))
		}
		h.ErrorWithCode(c, de.Code, de.Message)
		return
	}

	logger.L(c.Request.Context()).Error("unexpected error", zap.Error(err))
	h.ErrorWithCode(c, dto.ErrCodeInternal, "An unexpected error occurred")
}

// actor returns the caller resolved by the Actor middleware
func actor(c *gin.Context) shared.Actor {
	return middleware.GetActor(c)
}
