// Package queue defines the domain events exchanged over RabbitMQ, the
// publisher used by the HTTP layer and the notification consumer.
package queue

import "github.com/shopspring/decimal"

// Queue names.  Each event type has its own durable queue and is routed
// through the default exchange.
const (
    QueueBillsGenerated  = "utility.bills.generated"
    QueuePaymentRecorded = "rent.payment.recorded"
    QueueIssueReported   = "issue.reported"
)

// Queues lists every queue the consumer subscribes to.
var Queues = []string{QueueBillsGenerated, QueuePaymentRecorded, QueueIssueReported}

// BillsGeneratedEvent is published after a water/electricity bill pair has
// been committed for a reading.
type BillsGeneratedEvent struct {
    ReadingID       uint64          `json:"reading_id"`
    SessionID       uint64          `json:"session_id"`
    RoomID          uint64          `json:"room_id"`
    Period          string          `json:"period"`
    WaterConsumed   decimal.Decimal `json:"water_consumed"`
    WaterCost       decimal.Decimal `json:"water_cost"`
    ElectricityUsed decimal.Decimal `json:"electricity_consumed"`
    ElectricityCost decimal.Decimal `json:"electricity_cost"`
    Total           decimal.Decimal `json:"total"`
    Deadline        string          `json:"deadline"`
    GeneratedAt     string          `json:"generated_at"`
}

// PaymentRecordedEvent is published after a landlord logs a rent payment.
type PaymentRecordedEvent struct {
    PaymentID   uint64          `json:"payment_id"`
    SessionID   uint64          `json:"session_id"`
    Amount      decimal.Decimal `json:"amount"`
    PaymentDate string          `json:"payment_date"`
    RecordedAt  string          `json:"recorded_at"`
}

// IssueReportedEvent is published after a tenant opens a maintenance issue.
type IssueReportedEvent struct {
    IssueID     uint64 `json:"issue_id"`
    SessionID   uint64 `json:"session_id"`
    RoomID      uint64 `json:"room_id"`
    Description string `json:"description"`
    ReportedAt  string `json:"reported_at"`
}
