package service

import (
	"context"
	"errors"

	"github.com/bantus/rental-backend/internal/model"
	"github.com/bantus/rental-backend/internal/repository"
)

// OwnershipResolver answers whether a landlord principal transitively owns
// a room, minicité or session through Landlord -> Minicité -> Room ->
// TenantSession.  It has no side effects and is called before every
// landlord-scoped operation.
type OwnershipResolver struct {
	users    UserStore
	props    PropertyStore
	sessions SessionStore
}

func NewOwnershipResolver(users UserStore, props PropertyStore, sessions SessionStore) *OwnershipResolver {
	return &OwnershipResolver{users: users, props: props, sessions: sessions}
}

// LandlordFor resolves the landlord profile of a landlord principal.
func (o *OwnershipResolver) LandlordFor(ctx context.Context, p model.Principal) (model.Landlord, error) {
	if err := authorize(p, model.RoleLandlord); err != nil {
		return model.Landlord{}, err
	}
	l, err := o.users.LandlordByUserID(ctx, p.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return model.Landlord{}, newError(KindAccessDenied, "no landlord profile for this account")
	}
	if err != nil {
		return model.Landlord{}, internal("load landlord", err)
	}
	return l, nil
}

// TenantFor resolves the tenant profile of a tenant principal.
func (o *OwnershipResolver) TenantFor(ctx context.Context, p model.Principal) (model.Tenant, error) {
	if err := authorize(p, model.RoleTenant); err != nil {
		return model.Tenant{}, err
	}
	t, err := o.users.TenantByUserID(ctx, p.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return model.Tenant{}, newError(KindAccessDenied, "no tenant profile for this account")
	}
	if err != nil {
		return model.Tenant{}, internal("load tenant", err)
	}
	return t, nil
}

// VerifyLandlordOwnsRoom fails with NotFound when the room or its minicité
// is missing and with AccessDenied when the room belongs to another
// landlord.  On success it returns the room.
func (o *OwnershipResolver) VerifyLandlordOwnsRoom(ctx context.Context, p model.Principal, roomID uint64) (model.Room, error) {
	l, err := o.LandlordFor(ctx, p)
	if err != nil {
		return model.Room{}, err
	}
	_, owner, err := o.props.RoomOwner(ctx, roomID)
	if errors.Is(err, repository.ErrNotFound) {
		return model.Room{}, newError(KindNotFound, "room not found")
	}
	if err != nil {
		return model.Room{}, internal("resolve room owner", err)
	}
	if owner != l.ID {
		return model.Room{}, newError(KindAccessDenied, "you do not own this room")
	}
	room, err := o.props.GetRoom(ctx, roomID)
	if err != nil {
		return model.Room{}, internal("load room", err)
	}
	return room, nil
}

// VerifyLandlordOwnsMinicite is the minicité-scoped variant.
func (o *OwnershipResolver) VerifyLandlordOwnsMinicite(ctx context.Context, p model.Principal, miniciteID uint64) (model.Minicite, error) {
	l, err := o.LandlordFor(ctx, p)
	if err != nil {
		return model.Minicite{}, err
	}
	m, err := o.props.GetMinicite(ctx, miniciteID)
	if errors.Is(err, repository.ErrNotFound) {
		return model.Minicite{}, newError(KindNotFound, "minicité not found")
	}
	if err != nil {
		return model.Minicite{}, internal("load minicité", err)
	}
	if m.LandlordID != l.ID {
		return model.Minicite{}, newError(KindAccessDenied, "you do not own this minicité")
	}
	return m, nil
}

// VerifyLandlordOwnsSession is the session-scoped variant, resolved
// through the session's room.
func (o *OwnershipResolver) VerifyLandlordOwnsSession(ctx context.Context, p model.Principal, sessionID uint64) (model.TenantSession, error) {
	l, err := o.LandlordFor(ctx, p)
	if err != nil {
		return model.TenantSession{}, err
	}
	_, owner, err := o.sessions.SessionOwner(ctx, sessionID)
	if errors.Is(err, repository.ErrNotFound) {
		return model.TenantSession{}, newError(KindNotFound, "session not found")
	}
	if err != nil {
		return model.TenantSession{}, internal("resolve session owner", err)
	}
	if owner != l.ID {
		return model.TenantSession{}, newError(KindAccessDenied, "you do not own this session")
	}
	s, err := o.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return model.TenantSession{}, internal("load session", err)
	}
	return s, nil
}
