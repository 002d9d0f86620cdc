package handler

import (
    "net/http"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/shopspring/decimal"

    "github.com/bantus/rental-backend/internal/middleware"
    "github.com/bantus/rental-backend/internal/model"
    "github.com/bantus/rental-backend/internal/queue"
    "github.com/bantus/rental-backend/internal/service"
)

// LandlordHandler serves the landlord's property, tenancy, metering,
// billing and payment endpoints.
type LandlordHandler struct {
    Svc *service.Services
    Pub queue.Publisher
}

// NewLandlordHandler panics on a nil service bundle; a nil publisher
// disables notifications.
func NewLandlordHandler(svc *service.Services, pub queue.Publisher) *LandlordHandler {
    if svc == nil {
        panic("nil services passed to NewLandlordHandler")
    }
    return &LandlordHandler{Svc: svc, Pub: pub}
}

// ----- DTOs -----

type miniciteReq struct {
    Name     string `json:"name" validate:"required,max=128"`
    Location string `json:"location" validate:"max=255"`
}

type roomReq struct {
    Label      string          `json:"label" validate:"required,max=32"`
    AnnualRent decimal.Decimal `json:"annual_rent" validate:"dnonneg"`
}

type readingReq struct {
    Period           model.Period    `json:"period"`
    WaterIndex       decimal.Decimal `json:"water_index" validate:"dnonneg"`
    ElectricityIndex decimal.Decimal `json:"electricity_index" validate:"dnonneg"`
}

type assignReq struct {
    TenantID      uint64  `json:"tenant_id" validate:"required"`
    EntryDate     string  `json:"entry_date" validate:"required,datetime=2006-01-02"`
    ContractImage *string `json:"contract_image" validate:"omitempty,max=255"`
}

type endSessionReq struct {
    ExitDate string `json:"exit_date" validate:"omitempty,datetime=2006-01-02"`
}

type generateReq struct {
    WaterRate       decimal.Decimal `json:"water_rate" validate:"dpos"`
    ElectricityRate decimal.Decimal `json:"electricity_rate" validate:"dpos"`
    Deadline        string          `json:"deadline" validate:"required,datetime=2006-01-02"`
}

type paymentReq struct {
    Amount      decimal.Decimal `json:"amount" validate:"dpos"`
    PaymentDate string          `json:"payment_date" validate:"omitempty,datetime=2006-01-02"`
    Note        string          `json:"note" validate:"max=255"`
}

type issueStatusReq struct {
    Status model.IssueStatus `json:"status" validate:"required,oneof=open in_progress resolved"`
}

// ----- minicités -----

// CreateMinicite handles POST /v1/minicites.
func (h *LandlordHandler) CreateMinicite(c echo.Context) error {
    var req miniciteReq
    if ok, err := bind(c, &req); !ok {
        return err
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    m, err := h.Svc.Properties.CreateMinicite(ctx, middleware.PrincipalFrom(c), req.Name, req.Location)
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusCreated, m)
}

// ListMinicites handles GET /v1/minicites.
func (h *LandlordHandler) ListMinicites(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()
    list, err := h.Svc.Properties.ListMinicites(ctx, middleware.PrincipalFrom(c))
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, items(list))
}

// UpdateMinicite handles PUT /v1/minicites/:miniciteId.
func (h *LandlordHandler) UpdateMinicite(c echo.Context) error {
    id, ok := paramID(c, "miniciteId")
    if !ok {
        return badRequest(c, "invalid minicite id")
    }
    var req miniciteReq
    if ok, err := bind(c, &req); !ok {
        return err
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    m, err := h.Svc.Properties.UpdateMinicite(ctx, middleware.PrincipalFrom(c), id, req.Name, req.Location)
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, m)
}

// DeleteMinicite handles DELETE /v1/minicites/:miniciteId.
func (h *LandlordHandler) DeleteMinicite(c echo.Context) error {
    id, ok := paramID(c, "miniciteId")
    if !ok {
        return badRequest(c, "invalid minicite id")
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    if err := h.Svc.Properties.DeleteMinicite(ctx, middleware.PrincipalFrom(c), id); err != nil {
        return fail(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}

// ----- rooms -----

// CreateRoom handles POST /v1/minicites/:miniciteId/rooms.
func (h *LandlordHandler) CreateRoom(c echo.Context) error {
    miniciteID, ok := paramID(c, "miniciteId")
    if !ok {
        return badRequest(c, "invalid minicite id")
    }
    var req roomReq
    if ok, err := bind(c, &req); !ok {
        return err
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    room, err := h.Svc.Properties.CreateRoom(ctx, middleware.PrincipalFrom(c), miniciteID,
        service.RoomInput{Label: req.Label, AnnualRent: req.AnnualRent})
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusCreated, room)
}

// ListRooms handles GET /v1/minicites/:miniciteId/rooms.
func (h *LandlordHandler) ListRooms(c echo.Context) error {
    miniciteID, ok := paramID(c, "miniciteId")
    if !ok {
        return badRequest(c, "invalid minicite id")
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    list, err := h.Svc.Properties.ListRooms(ctx, middleware.PrincipalFrom(c), miniciteID)
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, items(list))
}

// RoomDetails handles GET /v1/rooms/:roomId.
func (h *LandlordHandler) RoomDetails(c echo.Context) error {
    roomID, ok := paramID(c, "roomId")
    if !ok {
        return badRequest(c, "invalid room id")
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    d, err := h.Svc.Properties.RoomDetails(ctx, middleware.PrincipalFrom(c), roomID)
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, d)
}

// UpdateRoom handles PUT /v1/rooms/:roomId.
func (h *LandlordHandler) UpdateRoom(c echo.Context) error {
    roomID, ok := paramID(c, "roomId")
    if !ok {
        return badRequest(c, "invalid room id")
    }
    var req roomReq
    if ok, err := bind(c, &req); !ok {
        return err
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    room, err := h.Svc.Properties.UpdateRoom(ctx, middleware.PrincipalFrom(c), roomID,
        service.RoomInput{Label: req.Label, AnnualRent: req.AnnualRent})
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, room)
}

// DeleteRoom handles DELETE /v1/rooms/:roomId.
func (h *LandlordHandler) DeleteRoom(c echo.Context) error {
    roomID, ok := paramID(c, "roomId")
    if !ok {
        return badRequest(c, "invalid room id")
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    if err := h.Svc.Properties.DeleteRoom(ctx, middleware.PrincipalFrom(c), roomID); err != nil {
        return fail(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}

// ----- readings -----

// RecordReading handles POST /v1/rooms/:roomId/readings.
func (h *LandlordHandler) RecordReading(c echo.Context) error {
    roomID, ok := paramID(c, "roomId")
    if !ok {
        return badRequest(c, "invalid room id")
    }
    var req readingReq
    if ok, err := bind(c, &req); !ok {
        return err
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    m, err := h.Svc.Readings.RecordReading(ctx, middleware.PrincipalFrom(c), service.RecordReadingInput{
        RoomID:           roomID,
        Period:           req.Period,
        WaterIndex:       req.WaterIndex,
        ElectricityIndex: req.ElectricityIndex,
    })
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusCreated, m)
}

// ListReadings handles GET /v1/rooms/:roomId/readings.
func (h *LandlordHandler) ListReadings(c echo.Context) error {
    roomID, ok := paramID(c, "roomId")
    if !ok {
        return badRequest(c, "invalid room id")
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    list, err := h.Svc.Readings.ReadingsForRoom(ctx, middleware.PrincipalFrom(c), roomID)
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, items(list))
}

// ----- sessions -----

// AssignTenant handles POST /v1/rooms/:roomId/sessions.
func (h *LandlordHandler) AssignTenant(c echo.Context) error {
    roomID, ok := paramID(c, "roomId")
    if !ok {
        return badRequest(c, "invalid room id")
    }
    var req assignReq
    if ok, err := bind(c, &req); !ok {
        return err
    }
    entry, err := parseDate(req.EntryDate)
    if err != nil {
        return badRequest(c, "entry_date must be YYYY-MM-DD")
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    s, err := h.Svc.Tenancy.AssignTenant(ctx, middleware.PrincipalFrom(c), service.AssignTenantInput{
        RoomID:        roomID,
        TenantID:      req.TenantID,
        EntryDate:     entry,
        ContractImage: req.ContractImage,
    })
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusCreated, s)
}

// EndSession handles POST /v1/sessions/:sessionId/end.
func (h *LandlordHandler) EndSession(c echo.Context) error {
    sessionID, ok := paramID(c, "sessionId")
    if !ok {
        return badRequest(c, "invalid session id")
    }
    var req endSessionReq
    if ok, err := bind(c, &req); !ok {
        return err
    }
    exit, err := parseDate(req.ExitDate)
    if err != nil {
        return badRequest(c, "exit_date must be YYYY-MM-DD")
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    s, err := h.Svc.Tenancy.EndSession(ctx, middleware.PrincipalFrom(c), sessionID, exit)
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, s)
}

// ----- billing -----

// GenerateBills handles POST /v1/billing/readings/:readingId/generate and
// publishes utility.bills.generated once the bills are committed.
func (h *LandlordHandler) GenerateBills(c echo.Context) error {
    readingID, ok := paramID(c, "readingId")
    if !ok {
        return badRequest(c, "invalid reading id")
    }
    var req generateReq
    if ok, err := bind(c, &req); !ok {
        return err
    }
    deadline, err := parseDate(req.Deadline)
    if err != nil {
        return badRequest(c, "deadline must be YYYY-MM-DD")
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    sum, err := h.Svc.Billing.GenerateBillsFromReading(ctx, middleware.PrincipalFrom(c), service.GenerateBillsInput{
        ReadingID:       readingID,
        WaterRate:       req.WaterRate,
        ElectricityRate: req.ElectricityRate,
        Deadline:        deadline,
    })
    if err != nil {
        return fail(c, err)
    }

    publish(c, h.Pub, queue.QueueBillsGenerated, queue.BillsGeneratedEvent{
        ReadingID:       sum.ReadingID,
        SessionID:       sum.SessionID,
        RoomID:          sum.RoomID,
        Period:          sum.Period.String(),
        WaterConsumed:   sum.Water.Consumed,
        WaterCost:       sum.Water.Cost,
        ElectricityUsed: sum.Electricity.Consumed,
        ElectricityCost: sum.Electricity.Cost,
        Total:           sum.Total,
        Deadline:        req.Deadline,
        GeneratedAt:     time.Now().UTC().Format(time.RFC3339),
    })
    return c.JSON(http.StatusCreated, sum)
}

// SessionBills handles GET /v1/sessions/:sessionId/bills.
func (h *LandlordHandler) SessionBills(c echo.Context) error {
    sessionID, ok := paramID(c, "sessionId")
    if !ok {
        return badRequest(c, "invalid session id")
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    list, err := h.Svc.Ledger.SessionBills(ctx, middleware.PrincipalFrom(c), sessionID)
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, items(list))
}

// ----- rent payments -----

// RecordPayment handles POST /v1/sessions/:sessionId/payments.
func (h *LandlordHandler) RecordPayment(c echo.Context) error {
    sessionID, ok := paramID(c, "sessionId")
    if !ok {
        return badRequest(c, "invalid session id")
    }
    var req paymentReq
    if ok, err := bind(c, &req); !ok {
        return err
    }
    date, err := parseDate(req.PaymentDate)
    if err != nil {
        return badRequest(c, "payment_date must be YYYY-MM-DD")
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    pay, err := h.Svc.Payments.RecordPayment(ctx, middleware.PrincipalFrom(c), sessionID, service.RecordPaymentInput{
        PaymentDate: date,
        Amount:      req.Amount,
        Note:        req.Note,
    })
    if err != nil {
        return fail(c, err)
    }
    publish(c, h.Pub, queue.QueuePaymentRecorded, queue.PaymentRecordedEvent{
        PaymentID:   pay.ID,
        SessionID:   pay.SessionID,
        Amount:      pay.Amount,
        PaymentDate: pay.PaymentDate.Format(dateLayout),
        RecordedAt:  time.Now().UTC().Format(time.RFC3339),
    })
    return c.JSON(http.StatusCreated, pay)
}

// SessionPayments handles GET /v1/sessions/:sessionId/payments for the
// owning landlord and the session's tenant.
func (h *LandlordHandler) SessionPayments(c echo.Context) error {
    sessionID, ok := paramID(c, "sessionId")
    if !ok {
        return badRequest(c, "invalid session id")
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    list, err := h.Svc.Payments.SessionPayments(ctx, middleware.PrincipalFrom(c), sessionID)
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, items(list))
}

// LandlordPayments handles GET /v1/landlord/payments.
func (h *LandlordHandler) LandlordPayments(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()
    list, err := h.Svc.Payments.LandlordPayments(ctx, middleware.PrincipalFrom(c))
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, items(list))
}

// ----- tenants -----

// RegisterTenant handles POST /v1/tenants.
func (h *LandlordHandler) RegisterTenant(c echo.Context) error {
    var req accountReq
    if ok, err := bind(c, &req); !ok {
        return err
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    t, err := h.Svc.Tenants.RegisterTenant(ctx, middleware.PrincipalFrom(c), req.input())
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusCreated, t)
}

// ListTenants handles GET /v1/landlord/tenants.
func (h *LandlordHandler) ListTenants(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()
    list, err := h.Svc.Tenants.ListTenants(ctx, middleware.PrincipalFrom(c))
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, items(list))
}

// ----- issues -----

// LandlordIssues handles GET /v1/landlord/issues.
func (h *LandlordHandler) LandlordIssues(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()
    list, err := h.Svc.Issues.LandlordIssues(ctx, middleware.PrincipalFrom(c))
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, items(list))
}

// UpdateIssueStatus handles PUT /v1/issues/:issueId/status.
func (h *LandlordHandler) UpdateIssueStatus(c echo.Context) error {
    issueID, ok := paramID(c, "issueId")
    if !ok {
        return badRequest(c, "invalid issue id")
    }
    var req issueStatusReq
    if ok, err := bind(c, &req); !ok {
        return err
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    issue, err := h.Svc.Issues.UpdateStatus(ctx, middleware.PrincipalFrom(c), issueID, req.Status)
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, issue)
}
