package router

import (
	"github.com/labstack/echo/v4"

	"github.com/bantus/rental-backend/internal/handler"
	"github.com/bantus/rental-backend/internal/middleware"
	"github.com/bantus/rental-backend/internal/model"
)

// RegisterTenant registers the tenant's /v1/my endpoints and the payment
// history route shared by both roles.
func RegisterTenant(v1 *echo.Group, h *handler.TenantHandler, l *handler.LandlordHandler, cache echo.MiddlewareFunc) {
	g := v1.Group("/my", middleware.RequireRole(model.RoleTenant))
	g.GET("/dashboard", h.Dashboard)
	g.GET("/bills", h.MyBills, cache)
	g.POST("/issues", h.ReportIssue)
	g.GET("/issues", h.MyIssues)

	// The service lets the owning landlord and the session's tenant in.
	v1.GET("/sessions/:sessionId/payments", l.SessionPayments,
		middleware.RequireRole(model.RoleLandlord, model.RoleTenant))
}
