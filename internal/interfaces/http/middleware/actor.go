package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fms/backend/internal/domain/shared"
	"github.com/fms/backend/internal/interfaces/http/dto"
)

// ActorKey is the gin context key holding the resolved shared.Actor
const ActorKey = "actor"

// Actor resolves the caller identity from X-User-ID, falling back to
// defaultActor when the header is absent. The actor is stored in both the
// gin context and the request context.
func Actor(defaultActor shared.Actor) gin.HandlerFunc {
	if defaultActor.IsZero() {
		defaultActor = shared.SystemActor
	}

	return func(c *gin.Context) {
		actor := defaultActor
		if raw := c.GetHeader(HeaderUserID); raw != "" {
			a, err := shared.NewActor(raw)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(
					shared.CodeValidation, HeaderUserID+": "+err.Error(), RequestIDFrom(c)))
				return
			}
			actor = a
		}

		c.Set(ActorKey, actor)
		c.Request = c.Request.WithContext(shared.WithActor(c.Request.Context(), actor))
		c.Next()
	}
}

// GetActor returns the actor resolved by Actor, or the system actor when
// the middleware did not run
func GetActor(c *gin.Context) shared.Actor {
	if v, ok := c.Get(ActorKey); ok {
		if a, ok := v.(shared.Actor); ok && !a.IsZero() {
			return a
		}
	}
	return shared.SystemActor
}
