package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"loan-decision-engine/pkg/logger"
)

// RequestLogger puts base and a request id into the request context and logs
// one line per request when it completes.
func RequestLogger(base *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			start := time.Now()

			ctx := logger.NewRequestIDContext(req.Context(), req.Header.Get(echo.HeaderXRequestID))
			rid, _ := logger.GetRequestID(ctx)
			c.Response().Header().Set(echo.HeaderXRequestID, rid)

			log := base.With(
				zap.String("path", c.Path()),
				zap.String("method", req.Method),
				zap.String("ip", c.RealIP()),
			)
			ctx = logger.NewContext(ctx, log)
			c.SetRequest(req.WithContext(ctx))

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			fields := []zap.Field{
				zap.Int("status", c.Response().Status),
				zap.Duration("latency", time.Since(start)),
			}
			if err != nil {
				log.Error(ctx, "request failed", append(fields, zap.Error(err))...)
				return nil
			}
			log.Info(ctx, "request completed", fields...)
			return nil
		}
	}
}
