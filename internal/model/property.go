package model

import (
    "time"

    "github.com/shopspring/decimal"
)

// Minicite is a landlord-owned property containing multiple rentable rooms.
//
// Fields:
//  ID         – primary key identifier.
//  LandlordID – owner of the property (landlords.id).
//  Name       – display name.
//  Location   – free-form address.
type Minicite struct {
    ID         uint64    `json:"id"`          // minicites.id
    LandlordID uint64    `json:"landlord_id"` // minicites.landlord_id
    Name       string    `json:"name"`        // minicites.name
    Location   string    `json:"location"`    // minicites.location
    CreatedAt  time.Time `json:"created_at"`  // minicites.created_at
}

// RoomStatus mirrors rooms.status.  A room is occupied exactly while it has
// an active tenant session.
type RoomStatus string

const (
    RoomVacant   RoomStatus = "vacant"
    RoomOccupied RoomStatus = "occupied"
)

// Room is a rentable unit inside a minicité.
//
// Fields:
//  ID         – primary key identifier.
//  MiniciteID – parent property.
//  Label      – apartment/room number shown to users.
//  AnnualRent – yearly rent amount.
//  Status     – vacant or occupied.
type Room struct {
    ID         uint64          `json:"id"`          // rooms.id
    MiniciteID uint64          `json:"minicite_id"` // rooms.minicite_id
    Label      string          `json:"label"`       // rooms.label
    AnnualRent decimal.Decimal `json:"annual_rent"` // rooms.annual_rent
    Status     RoomStatus      `json:"status"`      // rooms.status
}

// RoomDetails is the landlord's view of one room: the room, its minicité,
// and when occupied the active session with its rent history and issues.
type RoomDetails struct {
    Room          Room           `json:"room"`
    Minicite      Minicite       `json:"minicite"`
    ActiveSession *TenantSession `json:"active_session,omitempty"`
    RentHistory   []RentPayment  `json:"rent_history"`
    Issues        []IssueReport  `json:"issues"`
}
