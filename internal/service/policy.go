package service

import "github.com/bantus/rental-backend/internal/model"

// authorize is the single role check every operation runs before touching
// storage.  An anonymous or malformed principal is always denied.
func authorize(p model.Principal, allowed ...model.Role) error {
	if p.UserID == 0 || !p.Role.Valid() {
		return newError(KindAccessDenied, "authentication required")
	}
	for _, r := range allowed {
		if p.Role == r {
			return nil
		}
	}
	return newError(KindAccessDenied, "access denied for role "+string(p.Role))
}
