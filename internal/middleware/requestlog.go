package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RequestLogger logs one line per request: info for successes, warn for
// 4xx and error for 5xx.
func RequestLogger(log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err) // let echo write the response so the status is final
			}

			req := c.Request()
			res := c.Response()
			level := zapcore.InfoLevel
			switch {
			case res.Status >= 500:
				level = zapcore.ErrorLevel
			case res.Status >= 400:
				level = zapcore.WarnLevel
			}
			if ce := log.Check(level, "request"); ce != nil {
				fields := []zap.Field{
					zap.String("method", req.Method),
					zap.String("route", c.Path()),
					zap.String("uri", req.RequestURI),
					zap.Int("status", res.Status),
					zap.Int64("bytes", res.Size),
					zap.Duration("latency", time.Since(start)),
					zap.String("remote_ip", c.RealIP()),
					zap.String("request_id", res.Header().Get(echo.HeaderXRequestID)),
				}
				if err != nil {
					fields = append(fields, zap.Error(err))
				}
				ce.Write(fields...)
			}
			return nil
		}
	}
}
