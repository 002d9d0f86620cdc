package middleware // middleware provides shared request processing for handlers

import (
    "net/http"
    "strconv"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/bantus/rental-backend/internal/model"
    "github.com/bantus/rental-backend/internal/utils"
)

const principalKey = "principal"

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and stores the resulting model.Principal in the request context.  The
// secret must match the one used when issuing tokens.  The user id and
// role are also stored as strings under "user_id" and "role" so the rate
// limiter and cache can key on them.
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            auth := c.Request().Header.Get(echo.HeaderAuthorization)
            if !strings.HasPrefix(auth, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token", "code": "unauthenticated"})
            }
            p, err := utils.ParseAccessToken(secret, strings.TrimPrefix(auth, "Bearer "))
            if err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token", "code": "unauthenticated"})
            }
            c.Set(principalKey, p)
            c.Set("user_id", strconv.FormatUint(p.UserID, 10))
            c.Set("role", string(p.Role))
            return next(c)
        }
    }
}

// PrincipalFrom returns the principal stored by JWTAuth.  Outside an
// authenticated route it returns the zero principal, which every service
// policy denies.
func PrincipalFrom(c echo.Context) model.Principal {
    p, _ := c.Get(principalKey).(model.Principal)
    return p
}
