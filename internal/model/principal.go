package model

// Role is the coarse user role carried in access tokens.
type Role string

const (
    RoleLandlord Role = "landlord"
    RoleTenant   Role = "tenant"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool { return r == RoleLandlord || r == RoleTenant }

// Principal is the authenticated caller of a use case.  It is produced by
// the JWT middleware and passed explicitly into every service method.
//
// Fields:
//  UserID – users.id of the caller.
//  Role   – role claim of the access token.
type Principal struct {
    UserID uint64 `json:"user_id"`
    Role   Role   `json:"role"`
}
