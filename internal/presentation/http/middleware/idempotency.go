package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/storefront-api/internal/domain/entity"
	"github.com/sangkips/storefront-api/internal/domain/repository"
	"github.com/sangkips/storefront-api/internal/presentation/http/dto/response"
	"go.uber.org/zap"
)

const (
	// IdempotencyKeyHeader is the HTTP header for idempotency keys
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyKeyTTL is how long keys are valid
	IdempotencyKeyTTL = 24 * time.Hour
	// IdempotencyPendingTTL bounds a reservation whose request never finished
	IdempotencyPendingTTL = 2 * time.Minute
)

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Repo   repository.IdempotencyRepository
	Logger *zap.Logger
}

// responseWriter wraps gin.ResponseWriter to capture the response body
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays the stored response when a write is retried with the
// same key. Reusing a key for a different endpoint or body is rejected.
func Idempotency(config IdempotencyConfig) gin.HandlerFunc {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost && c.Request.Method != http.MethodPut && c.Request.Method != http.MethodPatch {
			c.Next()
			return
		}

		idempotencyKey := c.GetHeader(IdempotencyKeyHeader)
		if idempotencyKey == "" {
			c.Next()
			return
		}

		userIDValue, exists := c.Get("user_id")
		if !exists {
			c.Next()
			return
		}
		userID, ok := userIDValue.(uuid.UUID)
		if !ok {
			c.Next()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			response.BadRequest(c, "Could not read request body")
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		endpoint := c.Request.Method + " " + c.FullPath()
		hash := requestHash(body)

		ctx := c.Request.Context()
		existing, err := config.Repo.GetByKey(ctx, idempotencyKey, userID)
		if err != nil {
			logger.Warn("idempotency lookup failed", zap.String("key", idempotencyKey), zap.Error(err))
			c.Next()
			return
		}
		if existing != nil && !existing.IsExpired() {
			answerFromKey(c, existing, endpoint, hash)
			return
		}

		reserved, err := config.Repo.Reserve(ctx, &entity.IdempotencyKey{
			Key:         idempotencyKey,
			UserID:      userID,
			Endpoint:    endpoint,
			RequestHash: hash,
			ExpiresAt:   time.Now().Add(IdempotencyPendingTTL),
		})
		if err != nil {
			logger.Warn("idempotency reserve failed", zap.String("key", idempotencyKey), zap.Error(err))
			c.Next()
			return
		}
		if !reserved {
			// Another request took the key between the lookup and the insert
			existing, err = config.Repo.GetByKey(ctx, idempotencyKey, userID)
			if err != nil || existing == nil {
				response.ErrorWithCode(c, http.StatusConflict, "A request with this Idempotency-Key is in progress")
				c.Abort()
				return
			}
			answerFromKey(c, existing, endpoint, hash)
			return
		}

		// The reservation must not outlive a failed or panicking handler
		completed := false
		defer func() {
			if completed {
				return
			}
			if err := config.Repo.Release(context.WithoutCancel(ctx), idempotencyKey, userID); err != nil {
				logger.Warn("idempotency release failed", zap.String("key", idempotencyKey), zap.Error(err))
			}
		}()

		blw := &responseWriter{body: bytes.NewBufferString(""), ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		// Server errors are worth retrying, so they are not remembered.
		if c.Writer.Status() >= http.StatusInternalServerError {
			return
		}

		err = config.Repo.Complete(context.WithoutCancel(ctx), &entity.IdempotencyKey{
			Key:          idempotencyKey,
			UserID:       userID,
			ResponseCode: c.Writer.Status(),
			ResponseBody: blw.body.String(),
			ExpiresAt:    time.Now().Add(IdempotencyKeyTTL),
		})
		if err != nil {
			logger.Warn("idempotency store failed", zap.String("key", idempotencyKey), zap.Error(err))
			return
		}
		completed = true
	}
}

// answerFromKey replays a finished response, or refuses while the first
// request is still running or when the key belongs to another request.
func answerFromKey(c *gin.Context, existing *entity.IdempotencyKey, endpoint, hash string) {
	switch {
	case !existing.Matches(endpoint, hash):
		response.ErrorWithCode(c, http.StatusUnprocessableEntity, "Idempotency-Key was already used for a different request")
	case existing.Pending():
		response.ErrorWithCode(c, http.StatusConflict, "A request with this Idempotency-Key is in progress")
	default:
		c.Header("X-Idempotency-Replayed", "true")
		c.Data(existing.ResponseCode, "application/json; charset=utf-8", []byte(existing.ResponseBody))
	}
	c.Abort()
}

// RequireIdempotencyKey rejects requests without an Idempotency-Key header.
// Pair it with Idempotency, which does the replaying.
func RequireIdempotencyKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader(IdempotencyKeyHeader) == "" {
			response.BadRequest(c, "Idempotency-Key header is required for this request")
			c.Abort()
			return
		}
		c.Next()
	}
}

func requestHash(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}
