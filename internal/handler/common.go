package handler // handler defines the HTTP handlers of the rental API

import (
    "context"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"
    "go.uber.org/zap"

    "github.com/bantus/rental-backend/internal/logger"
    "github.com/bantus/rental-backend/internal/middleware"
    "github.com/bantus/rental-backend/internal/queue"
    "github.com/bantus/rental-backend/internal/service"
)

const (
    requestTimeout = 5 * time.Second
    publishTimeout = 3 * time.Second
    dateLayout     = "2006-01-02"
)

// statusFor maps a service error kind to its HTTP status.
func statusFor(k service.Kind) int {
    switch k {
    case service.KindInvalidInput:
        return http.StatusBadRequest
    case service.KindUnauthenticated:
        return http.StatusUnauthorized
    case service.KindAccessDenied:
        return http.StatusForbidden
    case service.KindNotFound, service.KindReadingNotFound, service.KindNoActiveSession:
        return http.StatusNotFound
    case service.KindDuplicateReading, service.KindDuplicateBill, service.KindConflict:
        return http.StatusConflict
    case service.KindInvalidConsumption:
        return http.StatusUnprocessableEntity
    default:
        return http.StatusInternalServerError
    }
}

// fail writes the JSON error body for err.  Unexpected failures are logged
// with their cause; the client only sees the message.
func fail(c echo.Context, err error) error {
    kind := service.KindOf(err)
    status := statusFor(kind)
    if status >= http.StatusInternalServerError {
        logger.FromContext(c.Request().Context(), nil).Error("request failed", zap.Error(err))
    }
    return c.JSON(status, echo.Map{"error": service.MessageOf(err), "code": string(kind)})
}

// badRequest answers with an invalid_input error.
func badRequest(c echo.Context, msg string) error {
    return c.JSON(http.StatusBadRequest, echo.Map{"error": msg, "code": string(service.KindInvalidInput)})
}

// bind decodes and validates the request body.  On failure it has already
// written the response and returns false.
func bind(c echo.Context, dst any) (bool, error) {
    if err := c.Bind(dst); err != nil {
        return false, badRequest(c, "invalid request body")
    }
    if err := c.Validate(dst); err != nil {
        if details := middleware.ValidationDetails(err); details != nil {
            return false, c.JSON(http.StatusBadRequest, echo.Map{
                "error":   "request validation failed",
                "code":    string(service.KindInvalidInput),
                "details": details,
            })
        }
        return false, badRequest(c, err.Error())
    }
    return true, nil
}

// paramID parses a positive numeric path parameter.
func paramID(c echo.Context, name string) (uint64, bool) {
    id, err := strconv.ParseUint(c.Param(name), 10, 64)
    if err != nil || id == 0 {
        return 0, false
    }
    return id, true
}

// parseDate parses an optional YYYY-MM-DD value; empty yields the zero time.
func parseDate(s string) (time.Time, error) {
    if s == "" {
        return time.Time{}, nil
    }
    return time.Parse(dateLayout, s)
}

// reqCtx bounds a request's storage work.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
    return context.WithTimeout(c.Request().Context(), requestTimeout)
}

// publish sends a domain event after the originating write has committed.
// A failure is logged and otherwise ignored.
func publish(c echo.Context, pub queue.Publisher, name string, event any) {
    if pub == nil {
        return
    }
    ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request().Context()), publishTimeout)
    defer cancel()
    if err := pub.Publish(ctx, name, event); err != nil {
        logger.FromContext(c.Request().Context(), nil).Warn("event not published", zap.String("queue", name), zap.Error(err))
    }
}

func items[T any](list []T) echo.Map {
    if list == nil {
        list = []T{}
    }
    return echo.Map{"items": list}
}
