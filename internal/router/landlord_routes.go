package router

import (
	"github.com/labstack/echo/v4"

	"github.com/bantus/rental-backend/internal/handler"
	"github.com/bantus/rental-backend/internal/middleware"
	"github.com/bantus/rental-backend/internal/model"
)

// RegisterLandlord registers landlord-scoped endpoints on the authenticated
// /v1 group.  Each route additionally requires the landlord role; the
// services still verify ownership of every room, minicité and session.
// List endpoints go through the response cache.
func RegisterLandlord(v1 *echo.Group, h *handler.LandlordHandler, cache echo.MiddlewareFunc) {
	g := v1.Group("", middleware.RequireRole(model.RoleLandlord))

	// ---- Minicités ----
	g.POST("/minicites", h.CreateMinicite)
	g.GET("/minicites", h.ListMinicites, cache)
	g.PUT("/minicites/:miniciteId", h.UpdateMinicite)
	g.DELETE("/minicites/:miniciteId", h.DeleteMinicite)

	// ---- Rooms ----
	g.POST("/minicites/:miniciteId/rooms", h.CreateRoom)
	g.GET("/minicites/:miniciteId/rooms", h.ListRooms, cache)
	g.GET("/rooms/:roomId", h.RoomDetails)
	g.PUT("/rooms/:roomId", h.UpdateRoom)
	g.DELETE("/rooms/:roomId", h.DeleteRoom)

	// ---- Meter readings ----
	g.POST("/rooms/:roomId/readings", h.RecordReading)
	g.GET("/rooms/:roomId/readings", h.ListReadings)

	// ---- Tenant sessions ----
	g.POST("/rooms/:roomId/sessions", h.AssignTenant)
	g.POST("/sessions/:sessionId/end", h.EndSession)

	// ---- Billing ----
	g.POST("/billing/readings/:readingId/generate", h.GenerateBills)
	g.GET("/sessions/:sessionId/bills", h.SessionBills)

	// ---- Rent payments ----
	g.POST("/sessions/:sessionId/payments", h.RecordPayment)
	g.GET("/landlord/payments", h.LandlordPayments)

	// ---- Tenants ----
	g.POST("/tenants", h.RegisterTenant)
	g.GET("/landlord/tenants", h.ListTenants)

	// ---- Issues ----
	g.GET("/landlord/issues", h.LandlordIssues)
	g.PUT("/issues/:issueId/status", h.UpdateIssueStatus)
}
