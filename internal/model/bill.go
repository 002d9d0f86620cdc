package model

import (
    "time"

    "github.com/shopspring/decimal"
)

// UtilityType distinguishes the two bills produced per reading.
type UtilityType string

const (
    UtilityWater       UtilityType = "water"
    UtilityElectricity UtilityType = "electricity"
)

// BillStatus mirrors utility_bills.status.
type BillStatus string

const (
    BillUnpaid BillStatus = "unpaid"
    BillPaid   BillStatus = "paid"
)

// UtilityBill is the charge for one utility derived from a meter reading.
// Bills are only ever created in water/electricity pairs that share the
// same ReadingID and SessionID.
//
// Fields:
//  ID            – primary key identifier.
//  SessionID     – billed tenant session.
//  ReadingID     – reading the consumption was computed from.
//  Type          – water or electricity.
//  UnitsConsumed – index delta against the previous reading.
//  Amount        – UnitsConsumed × rate.
//  Deadline      – payment due date.
//  Status        – unpaid or paid.
//  Period        – month of the underlying reading (read side only).
type UtilityBill struct {
    ID            uint64          `json:"id"`             // utility_bills.id
    SessionID     uint64          `json:"session_id"`     // utility_bills.session_id
    ReadingID     uint64          `json:"reading_id"`     // utility_bills.reading_id
    Type          UtilityType     `json:"type"`           // utility_bills.type
    UnitsConsumed decimal.Decimal `json:"units_consumed"` // utility_bills.units_consumed
    Amount        decimal.Decimal `json:"amount"`         // utility_bills.amount
    Deadline      time.Time       `json:"deadline"`       // utility_bills.deadline
    Status        BillStatus      `json:"status"`         // utility_bills.status
    Period        Period          `json:"period"`         // meter_readings.period_month via join
}

// BillLine is one utility's part of a billing summary.
type BillLine struct {
    Consumed decimal.Decimal `json:"consumed"`
    Cost     decimal.Decimal `json:"cost"`
}

// BillSummary is returned after a successful bill generation.
type BillSummary struct {
    ReadingID   uint64          `json:"reading_id"`
    SessionID   uint64          `json:"session_id"`
    RoomID      uint64          `json:"room_id"`
    Period      Period          `json:"period"`
    Water       BillLine        `json:"water"`
    Electricity BillLine        `json:"electricity"`
    Total       decimal.Decimal `json:"total"`
}
