package handler

import (
    "context"
    "database/sql"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"
)

// HealthHandler reports liveness and the reachability of MySQL and Redis.
type HealthHandler struct {
    DB    *sql.DB
    Redis *redis.Client
}

// Health is the liveness probe used by load balancers.  It returns a plain
// "ok" with 200 as long as the process serves requests.
func Health(c echo.Context) error {
    return c.String(http.StatusOK, "ok")
}

// Ready handles GET /ready.  MySQL must answer a ping; Redis is optional
// and reported as "disabled" when no client is configured.
func (h *HealthHandler) Ready(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
    defer cancel()

    status := http.StatusOK
    checks := echo.Map{"mysql": "ok", "redis": "disabled"}
    if h.DB == nil || h.DB.PingContext(ctx) != nil {
        checks["mysql"] = "down"
        status = http.StatusServiceUnavailable
    }
    if h.Redis != nil {
        checks["redis"] = "ok"
        if err := h.Redis.Ping(ctx).Err(); err != nil {
            checks["redis"] = "down"
        }
    }
    return c.JSON(status, checks)
}
