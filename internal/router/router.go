package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/bantus/rental-backend/internal/config"
	"github.com/bantus/rental-backend/internal/handler"
	"github.com/bantus/rental-backend/internal/middleware"
)

// Deps carries everything route registration needs.  Redis may be nil, in
// which case rate limiting and caching are skipped.
type Deps struct {
	JWTSecret string
	Redis     *redis.Client
	RateLimit config.RateLimitConfig
	Cache     config.CacheConfig
	Log       *zap.Logger

	Health   *handler.HealthHandler
	Auth     *handler.AuthHandler
	Landlord *handler.LandlordHandler
	Tenant   *handler.TenantHandler
}

// Register mounts every route of the API on e.
func Register(e *echo.Echo, d Deps) {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	RegisterRoutes(e, d.Health)

	limiter := middleware.NewTokenBucket(d.RateLimit, d.Redis, d.Log)
	RegisterAuth(e, d.Auth, d.JWTSecret, limiter)

	// Protected routes share one group so JWTAuth runs before the limiter
	// and the limiter can key on the user.
	authed := e.Group("/v1", middleware.JWTAuth(d.JWTSecret), limiter)
	cache := middleware.NewRedisCache(d.Cache, d.Redis, d.Log)
	RegisterLandlord(authed, d.Landlord, cache)
	RegisterTenant(authed, d.Tenant, d.Landlord, cache)
}

// RegisterRoutes registers routes that do not require authentication: the
// liveness and readiness probes.
func RegisterRoutes(e *echo.Echo, h *handler.HealthHandler) {
	e.GET("/healthz", handler.Health)
	if h != nil {
		e.GET("/ready", h.Ready)
	}
}

// RegisterAuth registers the token endpoints.  Sign-up, login, refresh and
// single-token logout live under /v1/auth without a JWT; /v1/me and the
// revoke-everything logout require one.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group("/v1/auth", limiter)
	g.POST("/register/landlord", a.RegisterLandlord)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh) // rotates the refresh token
	g.POST("/logout", a.Logout)   // body: {"refresh_token": "..."}

	jwt := middleware.JWTAuth(jwtSecret)
	e.GET("/v1/me", a.Me, jwt)
	e.POST("/v1/logout", a.Logout, jwt)
}
