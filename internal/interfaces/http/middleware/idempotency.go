package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fms/backend/internal/domain/shared"
	"github.com/fms/backend/internal/infrastructure/logger"
	"github.com/fms/backend/internal/interfaces/http/dto"
)

// MaxIdempotencyKeyLength bounds the Idempotency-Key header
const MaxIdempotencyKeyLength = 255

// IdempotencyConfig configures the Idempotency middleware
type IdempotencyConfig struct {
	Store   shared.IdempotencyStore
	TTL     time.Duration
	Enabled bool
}

// Idempotency runs a POST carrying an Idempotency-Key at most once per
// actor, path and key. A repeat replays the stored 2xx response; a repeat
// while the first request is in flight is rejected with 409. Non-2xx
// responses release the key so the request can be retried.
func Idempotency(cfg IdempotencyConfig) gin.HandlerFunc {
	if !cfg.Enabled || cfg.Store == nil {
		return func(c *gin.Context) { c.Next() }
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = shared.DefaultIdempotencyConfig().TTL
	}

	return func(c *gin.Context) {
		key := strings.TrimSpace(c.GetHeader(HeaderIdempotencyKey))
		if c.Request.Method != http.MethodPost || key == "" {
			c.Next()
			return
		}
		if len(key) > MaxIdempotencyKeyLength {
			abortWithCode(c, dto.ErrCodeInvalidInput, HeaderIdempotencyKey+" is too long")
			return
		}

		ctx := c.Request.Context()
		log := logger.L(ctx)
		storeKey := idempotencyKey(GetActor(c), c.Request.URL.Path, key)

		reserved, err := cfg.Store.Reserve(ctx, storeKey, ttl)
		if err != nil {
			log.Error("idempotency reservation failed", zap.Error(err))
			abortWithCode(c, dto.ErrCodeInternal, "internal server error")
			return
		}

		if !reserved {
			stored, err := cfg.Store.Load(ctx, storeKey)
			if err != nil {
				log.Error("idempotency lookup failed", zap.Error(err))
				abortWithCode(c, dto.ErrCodeInternal, "internal server error")
				return
			}
			if stored == nil || stored.Pending {
				abortWithCode(c, shared.CodeIdempotencyInFlight, "a request with this Idempotency-Key is still in progress")
				return
			}
			log.Info("replaying idempotent response", zap.Int("status", stored.Status))
			c.Header(HeaderReplayed, "true")
			c.Data(stored.Status, stored.ContentType, stored.Body)
			c.Abort()
			return
		}

		rec := &responseRecorder{ResponseWriter: c.Writer}
		c.Writer = rec
		c.Next()

		// The outcome must be recorded even when the client has gone away
		saveCtx := context.WithoutCancel(ctx)
		status := rec.Status()
		if status >= http.StatusOK && status < http.StatusMultipleChoices {
			err = cfg.Store.Complete(saveCtx, storeKey, shared.StoredResponse{
				Status:      status,
				ContentType: rec.Header().Get("Content-Type"),
				Body:        rec.body.Bytes(),
			}, ttl)
		} else {
			err = cfg.Store.Release(saveCtx, storeKey)
		}
		if err != nil {
			log.Warn("failed to record idempotent outcome", zap.Int("status", status), zap.Error(err))
		}
	}
}

// idempotencyKey hashes the scope so arbitrary header values map to a
// fixed-size store key
func idempotencyKey(actor shared.Actor, path, key string) string {
	sum := sha256.Sum256([]byte(actor.String() + "\x00" + path + "\x00" + key))
	return hex.EncodeToString(sum[:])
}

// responseRecorder tees the response body so it can be stored
type responseRecorder struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *responseRecorder) WriteString(s string) (int, error) {
	r.body.WriteString(s)
	return r.ResponseWriter.WriteString(s)
}

func abortWithCode(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(dto.GetHTTPStatus(code), dto.NewErrorResponse(code, message, RequestIDFrom(c)))
}
