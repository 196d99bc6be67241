package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"travel-booking/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	IdempotencyHeader    = "Idempotency-Key"
	idempotencyHitHeader = "X-Idempotency-Hit"
	idempotencyLockValue = "PROCESSING"
	idempotencyLockTTL   = 30 * time.Second
)

// storedResponse is what gets replayed for a repeated key.
type storedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// captureWriter keeps a copy of the response body alongside the real write.
type captureWriter struct {
	*responseWriter
	body bytes.Buffer
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	cw.body.Write(b)
	return cw.responseWriter.Write(b)
}

// Idempotency replays the stored response for a repeated Idempotency-Key on
// state-changing requests. Keys are scoped by path. Responses with a 5xx
// status are not stored so the client can retry them.
// A nil client disables the middleware.
func Idempotency(client *redis.Client, ttl time.Duration, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if client == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost && r.Method != http.MethodPut && r.Method != http.MethodPatch {
				next.ServeHTTP(w, r)
				return
			}

			key := r.Header.Get(IdempotencyHeader)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			idemKey := fmt.Sprintf("idempotency:%s:%s", r.URL.Path, key)
			ctx := r.Context()

			val, err := client.Get(ctx, idemKey).Bytes()
			switch {
			case err == nil:
				if string(val) == idempotencyLockValue {
					utils.ResponseConflict(w, "request with this idempotency key is still in progress")
					return
				}
				var stored storedResponse
				if err := json.Unmarshal(val, &stored); err != nil {
					logger.Error("Corrupt idempotency record", zap.String("key", idemKey), zap.Error(err))
					utils.ResponseInternalError(w, "Internal server error")
					return
				}
				w.Header().Set(idempotencyHitHeader, "true")
				if stored.ContentType != "" {
					w.Header().Set("Content-Type", stored.ContentType)
				}
				w.WriteHeader(stored.Status)
				w.Write(stored.Body)
				return

			case !errors.Is(err, redis.Nil):
				// Redis is degraded; serve the request without the guarantee
				logger.Warn("Idempotency lookup failed", zap.String("key", idemKey), zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			acquired, err := client.SetNX(ctx, idemKey, idempotencyLockValue, idempotencyLockTTL).Result()
			if err != nil || !acquired {
				utils.ResponseConflict(w, "request with this idempotency key is still in progress")
				return
			}

			cw := &captureWriter{responseWriter: &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}}
			next.ServeHTTP(cw, r)

			if cw.statusCode >= http.StatusInternalServerError {
				client.Del(ctx, idemKey)
				return
			}

			payload, err := json.Marshal(storedResponse{
				Status:      cw.statusCode,
				ContentType: cw.Header().Get("Content-Type"),
				Body:        cw.body.Bytes(),
			})
			if err == nil {
				err = client.Set(ctx, idemKey, payload, ttl).Err()
			}
			if err != nil {
				logger.Warn("Failed to store idempotent response", zap.String("key", idemKey), zap.Error(err))
				client.Del(ctx, idemKey)
			}
		})
	}
}
