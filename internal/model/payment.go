package model

import (
    "time"

    "github.com/shopspring/decimal"
)

// RentPayment records a rent payment made for a tenant session.
type RentPayment struct {
    ID           uint64          `json:"id"`                      // rent_payments.id
    SessionID    uint64          `json:"session_id"`              // rent_payments.session_id
    PaymentDate  time.Time       `json:"payment_date"`            // rent_payments.payment_date
    Amount       decimal.Decimal `json:"amount"`                  // rent_payments.amount
    Note         string          `json:"note"`                    // rent_payments.note
    TenantName   string          `json:"tenant_name,omitempty"`   // tenants.full_name (landlord listing)
    RoomID       uint64          `json:"room_id,omitempty"`       // rooms.id (landlord listing)
    MiniciteName string          `json:"minicite_name,omitempty"` // minicites.name (landlord listing)
}
