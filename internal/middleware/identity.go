package middleware

import "github.com/labstack/echo/v4"

// userID returns the authenticated user id as stored by JWTAuth, or
// "anon" for public routes.  Rate-limit and cache keys use it.
func userID(c echo.Context) string {
    if s, ok := c.Get("user_id").(string); ok && s != "" {
        return s
    }
    return "anon"
}
