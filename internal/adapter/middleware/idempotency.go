package middleware

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"loan-decision-engine/pkg/id"
	"loan-decision-engine/pkg/logger"
)

const (
	HeaderIdempotencyKey = "Idempotency-Key"

	// How long the "in-progress" marker lives if the handler never finishes.
	provisionalLockTTL = 30 * time.Second
	redisOpTimeout     = 2 * time.Second
)

type idempEntry struct {
	InProgress  bool      `json:"in_progress"`
	Code        int       `json:"code"`
	ContentType string    `json:"content_type"`
	Body        []byte    `json:"body"`
	BodySHA256  string    `json:"body_sha256"`
	CreatedAt   time.Time `json:"created_at"`
}

type respRecorder struct {
	w    http.ResponseWriter
	buf  *bytes.Buffer
	code int
}

func (r *respRecorder) Header() http.Header { return r.w.Header() }
func (r *respRecorder) Write(b []byte) (int, error) {
	r.buf.Write(b)
	return r.w.Write(b)
}
func (r *respRecorder) WriteHeader(statusCode int) { r.code = statusCode; r.w.WriteHeader(statusCode) }

func errJSON(c echo.Context, code int, msg string) error {
	return c.JSON(code, map[string]any{"loanAmount": nil, "loanPeriod": nil, "errorMessage": msg})
}

// Idempotency replays the stored response for a repeated Idempotency-Key on
// mutating requests. Requests without the header pass straight through.
// Server errors are not stored so the client can retry with the same key.
func Idempotency(rdb *redis.Client, ttl time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			switch req.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}

			idemKey := strings.TrimSpace(req.Header.Get(HeaderIdempotencyKey))
			if idemKey == "" {
				return next(c)
			}
			if !id.ValidRequestID(strings.ToLower(idemKey)) {
				return errJSON(c, http.StatusBadRequest, "invalid Idempotency-Key format")
			}

			var body []byte
			if req.Body != nil {
				b, err := io.ReadAll(req.Body)
				if err != nil {
					return errJSON(c, http.StatusBadRequest, "invalid body")
				}
				body = b
			}
			req.Body = io.NopCloser(bytes.NewReader(body))
			bhash := bodyHash(body)

			key := buildKey(req.Method, c.Path(), idemKey)
			ctx, cancel := context.WithTimeout(req.Context(), redisOpTimeout)
			defer cancel()
			log := logger.Log(req.Context())

			ok, err := provisionalSet(ctx, rdb, key, idempEntry{
				InProgress: true,
				BodySHA256: bhash,
				CreatedAt:  time.Now().UTC(),
			})
			if err != nil {
				log.Error(req.Context(), "idempotency store unavailable", zap.Error(err))
				return errJSON(c, http.StatusServiceUnavailable, "idempotency store unavailable")
			}
			if !ok {
				cur, err := loadEntry(ctx, rdb, key)
				if err != nil {
					log.Warn(req.Context(), "idempotency entry unreadable", zap.String("key", key), zap.Error(err))
					return errJSON(c, http.StatusConflict, "request is already in progress")
				}
				if cur.BodySHA256 != bhash {
					return errJSON(c, http.StatusConflict, "Idempotency-Key reused with different body")
				}
				if !cur.InProgress && cur.Code != 0 {
					c.Response().Header().Set("Idempotent-Replayed", "true")
					return c.Blob(cur.Code, cur.ContentType, cur.Body)
				}
				return errJSON(c, http.StatusConflict, "request is already in progress")
			}

			rec := &respRecorder{w: c.Response().Writer, buf: &bytes.Buffer{}, code: http.StatusOK}
			c.Response().Writer = rec
			if err := next(c); err != nil {
				c.Error(err)
			}

			// the request context may already be done; finish bookkeeping on a fresh one
			saveCtx, saveCancel := context.WithTimeout(context.Background(), redisOpTimeout)
			defer saveCancel()
			if rec.code >= http.StatusInternalServerError {
				if err := release(saveCtx, rdb, key); err != nil {
					log.Warn(req.Context(), "idempotency release failed", zap.String("key", key), zap.Error(err))
				}
				return nil
			}
			final := idempEntry{
				Code:        rec.code,
				ContentType: rec.Header().Get(echo.HeaderContentType),
				Body:        rec.buf.Bytes(),
				BodySHA256:  bhash,
				CreatedAt:   time.Now().UTC(),
			}
			if err := saveFinal(saveCtx, rdb, key, final, ttl); err != nil {
				log.Warn(req.Context(), "idempotency save failed", zap.String("key", key), zap.Error(err))
			}
			return nil
		}
	}
}
