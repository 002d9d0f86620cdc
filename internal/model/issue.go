package model

import "time"

// IssueStatus mirrors issue_reports.status.
type IssueStatus string

const (
    IssueOpen       IssueStatus = "open"
    IssueInProgress IssueStatus = "in_progress"
    IssueResolved   IssueStatus = "resolved"
)

// Valid reports whether s is a known issue status.
func (s IssueStatus) Valid() bool {
    switch s {
    case IssueOpen, IssueInProgress, IssueResolved:
        return true
    }
    return false
}

// IssueReport is a maintenance problem reported by a tenant.
type IssueReport struct {
    ID           uint64      `json:"id"`                      // issue_reports.id
    SessionID    uint64      `json:"session_id"`              // issue_reports.session_id
    Description  string      `json:"description"`             // issue_reports.description
    Image        *string     `json:"image,omitempty"`         // issue_reports.image (nullable)
    Status       IssueStatus `json:"status"`                  // issue_reports.status
    CreatedAt    time.Time   `json:"created_at"`              // issue_reports.created_at
    RoomID       uint64      `json:"room_id,omitempty"`       // rooms.id (landlord listing)
    MiniciteName string      `json:"minicite_name,omitempty"` // minicites.name (landlord listing)
}
