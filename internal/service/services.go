package service

import (
	"go.uber.org/zap"

	"github.com/bantus/rental-backend/internal/idempotency"
)

// Deps are the storage handles and settings the services are built from.
type Deps struct {
	Users    UserStore
	Tokens   TokenStore
	Props    PropertyStore
	Readings ReadingStore
	Sessions SessionStore
	Bills    BillStore
	Payments PaymentStore
	Issues   IssueStore
	Guard    idempotency.Guard
	Auth     AuthConfig
	Log      *zap.Logger
}

// Services groups every use case so handlers receive one value.
type Services struct {
	Owners     *OwnershipResolver
	Readings   *MeterReadingStore
	Tenancy    *TenancyDirectory
	Billing    *BillingEngine
	Ledger     *BillLedger
	Properties *PropertyService
	Tenants    *TenantService
	Payments   *PaymentService
	Issues     *IssueService
	Auth       *AuthService
}

func New(d Deps) *Services {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	owners := NewOwnershipResolver(d.Users, d.Props, d.Sessions)
	readings := NewMeterReadingStore(owners, d.Readings, log)
	tenancy := NewTenancyDirectory(owners, d.Users, d.Sessions, log)
	return &Services{
		Owners:     owners,
		Readings:   readings,
		Tenancy:    tenancy,
		Billing:    NewBillingEngine(owners, readings, tenancy, d.Bills, d.Guard, log),
		Ledger:     NewBillLedger(owners, d.Bills),
		Properties: NewPropertyService(owners, d.Props, d.Sessions, d.Payments, d.Issues, log),
		Tenants:    NewTenantService(owners, d.Users, d.Auth.BcryptCost, log),
		Payments:   NewPaymentService(owners, tenancy, d.Payments, log),
		Issues:     NewIssueService(owners, tenancy, d.Issues, log),
		Auth:       NewAuthService(d.Auth, owners, d.Users, d.Tokens, log),
	}
}
