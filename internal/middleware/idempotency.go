package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"go-payrun/internal/shared/apperror"
	"go-payrun/internal/shared/contextutil"
	"go-payrun/internal/workflow"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	IdempotencyHeader = "Idempotency-Key"
	// KeyIdempotencyResult is set by a handler to the small summary a repeated
	// request is told about, e.g. the run and payroll ids.
	KeyIdempotencyResult = "idempotency_result"

	idempotencyLock = 30 * time.Second
	idempotencyTTL  = 24 * time.Hour
)

var (
	ErrRequestInProgress = apperror.New(apperror.CodeConflict, "This request is already being processed", http.StatusConflict)
	ErrAlreadyCompleted  = apperror.New(apperror.CodeConflict, "This request was already completed", http.StatusConflict)
)

// CompletedRequest marks a key as used. Response bodies are never stored: they
// can carry one-shot data such as a signed gateway session.
type CompletedRequest struct {
	Status int `json:"status"`
	Result any `json:"result,omitempty"`
}

func IdempotencyCacheKey(path, userID, key string) string {
	return "payroll-runs:idemp:" + path + ":" + userID + ":" + key
}

// Idempotency answers a repeated Idempotency-Key with 409 and the stored
// summary, and rejects a duplicate that arrives while the first is still
// running. Only 2xx outcomes use up the key; after a 4xx or 5xx the client
// can correct the request and retry under the same key.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		idempKey := c.GetHeader(IdempotencyHeader)
		if idempKey == "" || c.Request.Method != http.MethodPost || rdb == nil {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		log := contextutil.GetLogger(ctx, zap.L())
		cacheKey := IdempotencyCacheKey(c.FullPath(), c.GetString(workflow.KeyUserID), idempKey)
		lockKey := cacheKey + ":lock"

		if raw, err := rdb.Get(ctx, cacheKey).Bytes(); err == nil {
			var done CompletedRequest
			if json.Unmarshal(raw, &done) == nil {
				c.Header("Idempotent-Replay", "true")
				abort(c, ErrAlreadyCompleted.WithDetails(done))
				return
			}
		}

		acquired, err := rdb.SetNX(ctx, lockKey, "locked", idempotencyLock).Result()
		if err != nil {
			log.Warn("idempotency lock unavailable", zap.Error(err))
			c.Next()
			return
		}
		if !acquired {
			abort(c, ErrRequestInProgress)
			return
		}

		c.Next()

		if status := c.Writer.Status(); status >= http.StatusOK && status < http.StatusMultipleChoices {
			result, _ := c.Get(KeyIdempotencyResult)
			payload, err := json.Marshal(CompletedRequest{Status: status, Result: result})
			if err == nil {
				if err := rdb.Set(ctx, cacheKey, payload, idempotencyTTL).Err(); err != nil {
					log.Warn("idempotency cache write failed", zap.Error(err))
				}
			}
		}
		if err := rdb.Del(ctx, lockKey).Err(); err != nil {
			log.Warn("idempotency unlock failed", zap.Error(err))
		}
	}
}
