package model

import "time"

// SessionStatus mirrors tenant_sessions.status.
type SessionStatus string

const (
    SessionActive SessionStatus = "active"
    SessionClosed SessionStatus = "closed"
)

// TenantSession is the time-bounded occupancy of a room by a tenant.  At
// most one session per room is active at any time.
//
// Fields:
//  ID            – primary key identifier.
//  TenantID      – occupying tenant.
//  RoomID        – occupied room.
//  EntryDate     – first day of occupancy.
//  ExitDate      – last day of occupancy; nil while active.
//  ContractImage – optional reference to the signed contract scan.
//  Status        – active or closed.
type TenantSession struct {
    ID            uint64        `json:"id"`                       // tenant_sessions.id
    TenantID      uint64        `json:"tenant_id"`                // tenant_sessions.tenant_id
    RoomID        uint64        `json:"room_id"`                  // tenant_sessions.room_id
    EntryDate     time.Time     `json:"entry_date"`               // tenant_sessions.entry_date
    ExitDate      *time.Time    `json:"exit_date,omitempty"`      // tenant_sessions.exit_date (nullable)
    ContractImage *string       `json:"contract_image,omitempty"` // tenant_sessions.contract_image (nullable)
    Status        SessionStatus `json:"status"`                   // tenant_sessions.status
}

// SessionDetail is the tenant dashboard view of an active session joined
// with its room, property and landlord.
type SessionDetail struct {
    Session          TenantSession `json:"session"`
    RoomLabel        string        `json:"room_label"`
    AnnualRent       string        `json:"annual_rent"`
    MiniciteName     string        `json:"minicite_name"`
    MiniciteLocation string        `json:"minicite_location"`
    LandlordName     string        `json:"landlord_name"`
    LandlordPhone    string        `json:"landlord_phone"`
}

// TenantListing is one row of a landlord's tenant list (active and former).
type TenantListing struct {
    TenantID     uint64        `json:"tenant_id"`
    FullName     string        `json:"full_name"`
    Username     string        `json:"username"`
    SessionID    uint64        `json:"session_id"`
    Status       SessionStatus `json:"status"`
    EntryDate    time.Time     `json:"entry_date"`
    ExitDate     *time.Time    `json:"exit_date,omitempty"`
    RoomID       uint64        `json:"room_id"`
    RoomLabel    string        `json:"room_label"`
    MiniciteName string        `json:"minicite_name"`
}
