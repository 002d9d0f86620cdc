package service

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/bantus/rental-backend/internal/model"
)

// PaymentService logs rent payments.  Recording a payment does not touch
// utility bill status.
type PaymentService struct {
	owners   *OwnershipResolver
	tenancy  *TenancyDirectory
	payments PaymentStore
	log      *zap.Logger
	now      func() time.Time
}

func NewPaymentService(owners *OwnershipResolver, tenancy *TenancyDirectory, payments PaymentStore, log *zap.Logger) *PaymentService {
	return &PaymentService{owners: owners, tenancy: tenancy, payments: payments, log: log.Named("payments"), now: time.Now}
}

// RecordPaymentInput describes one rent payment.  A zero PaymentDate means
// today.
type RecordPaymentInput struct {
	PaymentDate time.Time
	Amount      decimal.Decimal
	Note        string
}

func (s *PaymentService) RecordPayment(ctx context.Context, p model.Principal, sessionID uint64, in RecordPaymentInput) (model.RentPayment, error) {
	if !in.Amount.IsPositive() {
		return model.RentPayment{}, invalidInput("amount must be greater than zero")
	}
	if _, err := s.owners.VerifyLandlordOwnsSession(ctx, p, sessionID); err != nil {
		return model.RentPayment{}, err
	}
	date := in.PaymentDate
	if date.IsZero() {
		date = s.now()
	}
	pay := model.RentPayment{
		SessionID:   sessionID,
		PaymentDate: dateOf(date),
		Amount:      in.Amount,
		Note:        strings.TrimSpace(in.Note),
	}
	if err := s.payments.Create(ctx, &pay); err != nil {
		return model.RentPayment{}, wrapError(KindPersistenceFailure, "could not record payment", err)
	}
	s.log.Info("rent payment recorded",
		zap.Uint64("payment_id", pay.ID), zap.Uint64("session_id", sessionID), zap.Stringer("amount", pay.Amount))
	return pay, nil
}

// SessionPayments lists a session's payments.  The owning landlord and the
// session's own tenant may read them.
func (s *PaymentService) SessionPayments(ctx context.Context, p model.Principal, sessionID uint64) ([]model.RentPayment, error) {
	if err := authorize(p, model.RoleLandlord, model.RoleTenant); err != nil {
		return nil, err
	}
	if p.Role == model.RoleLandlord {
		if _, err := s.owners.VerifyLandlordOwnsSession(ctx, p, sessionID); err != nil {
			return nil, err
		}
	} else {
		t, err := s.owners.TenantFor(ctx, p)
		if err != nil {
			return nil, err
		}
		session, found, err := s.tenancy.ActiveSessionForTenant(ctx, t.ID)
		if err != nil {
			return nil, err
		}
		if !found || session.ID != sessionID {
			return nil, newError(KindAccessDenied, "this is not your session")
		}
	}
	list, err := s.payments.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, internal("list payments", err)
	}
	return list, nil
}

// LandlordPayments lists every payment across the landlord's rooms.
func (s *PaymentService) LandlordPayments(ctx context.Context, p model.Principal) ([]model.RentPayment, error) {
	l, err := s.owners.LandlordFor(ctx, p)
	if err != nil {
		return nil, err
	}
	list, err := s.payments.ListByLandlord(ctx, l.ID)
	if err != nil {
		return nil, internal("list payments", err)
	}
	return list, nil
}
