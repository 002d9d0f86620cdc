package model

import "time"

// User represents an account row in the `users` table.  Landlords and
// tenants both log in through a user; their profile data lives in the
// `landlords` and `tenants` tables respectively.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – unique login name.
//  PasswordHash – bcrypt hashed password.
//  Role         – landlord or tenant.
//  CreatedAt    – timestamp of creation.
type User struct {
    ID           uint64    // users.id
    Username     string    // users.username
    PasswordHash string    // users.password_hash
    Role         Role      // users.role
    CreatedAt    time.Time // users.created_at
}

// Landlord is the profile of a user who owns minicités.
type Landlord struct {
    ID       uint64 `json:"id"`        // landlords.id
    UserID   uint64 `json:"user_id"`   // landlords.user_id
    FullName string `json:"full_name"` // landlords.full_name
    Phone    string `json:"phone"`     // landlords.phone
}

// Tenant is the profile of a user who rents rooms.
type Tenant struct {
    ID       uint64 `json:"id"`        // tenants.id
    UserID   uint64 `json:"user_id"`   // tenants.user_id
    FullName string `json:"full_name"` // tenants.full_name
    Phone    string `json:"phone"`     // tenants.phone
}

// RefreshToken models an entry in the `refresh_tokens` table.  Only the
// SHA‑256 hash of the token is stored.
type RefreshToken struct {
    ID        uint64     // refresh_tokens.id
    UserID    uint64     // refresh_tokens.user_id
    TokenHash string     // refresh_tokens.token_hash
    ExpiresAt time.Time  // refresh_tokens.expires_at
    RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
}
