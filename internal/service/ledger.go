package service

import (
	"context"

	"github.com/bantus/rental-backend/internal/model"
)

// BillLedger is the read side of utility bills.
type BillLedger struct {
	owners *OwnershipResolver
	bills  BillStore
}

func NewBillLedger(owners *OwnershipResolver, bills BillStore) *BillLedger {
	return &BillLedger{owners: owners, bills: bills}
}

// BillsForTenant lists a tenant's bills, most recent period first and
// water before electricity within a period.
func (l *BillLedger) BillsForTenant(ctx context.Context, tenantID uint64) ([]model.UtilityBill, error) {
	list, err := l.bills.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, internal("list tenant bills", err)
	}
	return list, nil
}

// BillsForSession lists the bills of one session in the same order.
func (l *BillLedger) BillsForSession(ctx context.Context, sessionID uint64) ([]model.UtilityBill, error) {
	list, err := l.bills.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, internal("list session bills", err)
	}
	return list, nil
}

// MyBills is BillsForTenant for the calling tenant.
func (l *BillLedger) MyBills(ctx context.Context, p model.Principal) ([]model.UtilityBill, error) {
	t, err := l.owners.TenantFor(ctx, p)
	if err != nil {
		return nil, err
	}
	return l.BillsForTenant(ctx, t.ID)
}

// SessionBills is BillsForSession for the landlord owning the session.
func (l *BillLedger) SessionBills(ctx context.Context, p model.Principal, sessionID uint64) ([]model.UtilityBill, error) {
	if _, err := l.owners.VerifyLandlordOwnsSession(ctx, p, sessionID); err != nil {
		return nil, err
	}
	return l.BillsForSession(ctx, sessionID)
}
