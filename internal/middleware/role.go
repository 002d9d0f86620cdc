package middleware

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/bantus/rental-backend/internal/model"
)

// RequireRole rejects requests whose principal does not carry one of the
// given roles.  It is a coarse route-group filter; every service still
// runs its own policy check.  JWTAuth must run first.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
    allowed := make(map[model.Role]bool, len(roles))
    for _, r := range roles {
        allowed[r] = true
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if !allowed[PrincipalFrom(c).Role] {
                return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden", "code": "access_denied"})
            }
            return next(c)
        }
    }
}
