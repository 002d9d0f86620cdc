package middleware

import (
    "time"

    "github.com/google/uuid"
    "github.com/labstack/echo/v4"
    echomw "github.com/labstack/echo/v4/middleware"
    "go.uber.org/zap"
    "go.uber.org/zap/zapcore"

    "github.com/bantus/rental-backend/internal/logger"
)

// RequestID stamps every request with an X-Request-ID, generating a UUID
// when the client did not send one.
func RequestID() echo.MiddlewareFunc {
    return echomw.RequestIDWithConfig(echomw.RequestIDConfig{
        Generator: func() string { return uuid.NewString() },
    })
}

// RequestLogger stores a request-scoped zap logger (with request_id) in the
// request context and logs one line per request once the handler returns.
// RequestID must run first.
func RequestLogger(base *zap.Logger) echo.MiddlewareFunc {
    base = base.Named("http")
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            start := time.Now()
            req := c.Request()
            rid := c.Response().Header().Get(echo.HeaderXRequestID)
            l := base.With(zap.String("request_id", rid))
            c.SetRequest(req.WithContext(logger.WithContext(req.Context(), l)))

            err := next(c)
            if err != nil {
                c.Error(err)
            }

            status := c.Response().Status
            level := zapcore.InfoLevel
            switch {
            case status >= 500:
                level = zapcore.ErrorLevel
            case status >= 400:
                level = zapcore.WarnLevel
            }
            fields := []zap.Field{
                zap.String("method", req.Method),
                zap.String("path", c.Path()),
                zap.Int("status", status),
                zap.Duration("latency", time.Since(start)),
                zap.String("ip", c.RealIP()),
                zap.String("user_id", userID(c)),
            }
            if err != nil {
                fields = append(fields, zap.Error(err))
            }
            l.Check(level, "request").Write(fields...)
            return nil
        }
    }
}
