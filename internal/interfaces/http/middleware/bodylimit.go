package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fms/backend/internal/interfaces/http/dto"
)

// BodyLimit rejects bodies larger than maxBytes with 413. Bodies without a
// Content-Length are capped while they are read.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes <= 0 {
			c.Next()
			return
		}
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, dto.NewErrorResponse(
				dto.ErrCodeRequestTooLarge,
				"request body exceeds maximum allowed size",
				RequestIDFrom(c),
			))
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
