package handler

import (
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/bantus/rental-backend/internal/middleware"
    "github.com/bantus/rental-backend/internal/queue"
    "github.com/bantus/rental-backend/internal/service"
)

// TenantHandler serves the /v1/my endpoints of the calling tenant.
type TenantHandler struct {
    Svc *service.Services
    Pub queue.Publisher
}

func NewTenantHandler(svc *service.Services, pub queue.Publisher) *TenantHandler {
    if svc == nil {
        panic("nil services passed to NewTenantHandler")
    }
    return &TenantHandler{Svc: svc, Pub: pub}
}

type issueReq struct {
    Description string  `json:"description" validate:"required,max=2000"`
    Image       *string `json:"image" validate:"omitempty,max=255"`
}

// Dashboard handles GET /v1/my/dashboard.
func (h *TenantHandler) Dashboard(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()
    d, err := h.Svc.Tenancy.TenantDashboard(ctx, middleware.PrincipalFrom(c))
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, d)
}

// MyBills handles GET /v1/my/bills: latest period first, water before
// electricity.
func (h *TenantHandler) MyBills(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()
    list, err := h.Svc.Ledger.MyBills(ctx, middleware.PrincipalFrom(c))
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, items(list))
}

// ReportIssue handles POST /v1/my/issues and publishes issue.reported.
func (h *TenantHandler) ReportIssue(c echo.Context) error {
    var req issueReq
    if ok, err := bind(c, &req); !ok {
        return err
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    issue, err := h.Svc.Issues.Report(ctx, middleware.PrincipalFrom(c), req.Description, req.Image)
    if err != nil {
        return fail(c, err)
    }
    publish(c, h.Pub, queue.QueueIssueReported, queue.IssueReportedEvent{
        IssueID:     issue.ID,
        SessionID:   issue.SessionID,
        RoomID:      issue.RoomID,
        Description: issue.Description,
        ReportedAt:  issue.CreatedAt.UTC().Format(time.RFC3339),
    })
    return c.JSON(http.StatusCreated, issue)
}

// MyIssues handles GET /v1/my/issues.
func (h *TenantHandler) MyIssues(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()
    list, err := h.Svc.Issues.MyIssues(ctx, middleware.PrincipalFrom(c))
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, items(list))
}
