package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/bantus/rental-backend/internal/model"
	"github.com/bantus/rental-backend/internal/repository"
)

// TenancyDirectory resolves which tenant session covers a room and owns
// the session lifecycle.  Opening and closing a session flips the room
// status in the same transaction.
type TenancyDirectory struct {
	owners   *OwnershipResolver
	users    UserStore
	sessions SessionStore
	log      *zap.Logger
	now      func() time.Time
}

func NewTenancyDirectory(owners *OwnershipResolver, users UserStore, sessions SessionStore, log *zap.Logger) *TenancyDirectory {
	return &TenancyDirectory{owners: owners, users: users, sessions: sessions, log: log.Named("tenancy"), now: time.Now}
}

// ActiveSessionCoveringRoom returns the active session whose entry date is
// on or before the last day of the period.  When storage holds more than
// one such session the most recent entry wins and the inconsistency is
// logged.
func (d *TenancyDirectory) ActiveSessionCoveringRoom(ctx context.Context, roomID uint64, period model.Period) (model.TenantSession, error) {
	list, err := d.sessions.ActiveCoveringRoom(ctx, roomID, period.End())
	if err != nil {
		return model.TenantSession{}, internal("look up active session", err)
	}
	if len(list) == 0 {
		return model.TenantSession{}, newError(KindNoActiveSession, "no active tenant session covers this room for "+period.String())
	}
	if len(list) > 1 {
		ids := make([]uint64, len(list))
		for i, s := range list {
			ids[i] = s.ID
		}
		d.log.Warn("multiple active sessions for one room",
			zap.Uint64("room_id", roomID),
			zap.Stringer("period", period),
			zap.Uint64s("session_ids", ids),
			zap.Uint64("picked", list[0].ID))
	}
	return list[0], nil
}

// ActiveSessionForTenant returns the tenant's active session, if any.
func (d *TenancyDirectory) ActiveSessionForTenant(ctx context.Context, tenantID uint64) (s model.TenantSession, found bool, err error) {
	s, err = d.sessions.ActiveForTenant(ctx, tenantID)
	if errors.Is(err, repository.ErrNotFound) {
		return model.TenantSession{}, false, nil
	}
	if err != nil {
		return model.TenantSession{}, false, internal("look up tenant session", err)
	}
	return s, true, nil
}

// AssignTenantInput opens a session.
type AssignTenantInput struct {
	RoomID        uint64
	TenantID      uint64
	EntryDate     time.Time
	ContractImage *string
}

// AssignTenant opens an active session for a tenant in one of the
// landlord's vacant rooms.
func (d *TenancyDirectory) AssignTenant(ctx context.Context, p model.Principal, in AssignTenantInput) (model.TenantSession, error) {
	if in.TenantID == 0 {
		return model.TenantSession{}, invalidInput("tenant_id is required")
	}
	if in.EntryDate.IsZero() {
		return model.TenantSession{}, invalidInput("entry_date is required")
	}
	if _, err := d.owners.VerifyLandlordOwnsRoom(ctx, p, in.RoomID); err != nil {
		return model.TenantSession{}, err
	}

	if _, err := d.users.TenantByID(ctx, in.TenantID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.TenantSession{}, newError(KindNotFound, "tenant not found")
		}
		return model.TenantSession{}, internal("load tenant", err)
	}
	if _, found, err := d.ActiveSessionForTenant(ctx, in.TenantID); err != nil {
		return model.TenantSession{}, err
	} else if found {
		return model.TenantSession{}, newError(KindConflict, "tenant already has an active session")
	}

	s := model.TenantSession{
		TenantID:      in.TenantID,
		RoomID:        in.RoomID,
		EntryDate:     dateOf(in.EntryDate),
		ContractImage: in.ContractImage,
	}
	if err := d.sessions.CreateActive(ctx, &s); err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return model.TenantSession{}, newError(KindConflict, "room is not vacant or tenant already has an active session")
		case errors.Is(err, repository.ErrNotFound):
			return model.TenantSession{}, newError(KindNotFound, "room not found")
		}
		return model.TenantSession{}, wrapError(KindPersistenceFailure, "could not open session", err)
	}
	d.log.Info("session opened",
		zap.Uint64("session_id", s.ID), zap.Uint64("room_id", s.RoomID), zap.Uint64("tenant_id", s.TenantID))
	return s, nil
}

// EndSession closes a session and frees its room.  A zero exit date means
// today.
func (d *TenancyDirectory) EndSession(ctx context.Context, p model.Principal, sessionID uint64, exit time.Time) (model.TenantSession, error) {
	s, err := d.owners.VerifyLandlordOwnsSession(ctx, p, sessionID)
	if err != nil {
		return model.TenantSession{}, err
	}
	if exit.IsZero() {
		exit = d.now()
	}
	exit = dateOf(exit)
	if exit.Before(dateOf(s.EntryDate)) {
		return model.TenantSession{}, invalidInput("exit_date is before the entry date")
	}
	if err := d.sessions.Close(ctx, sessionID, exit); err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return model.TenantSession{}, newError(KindConflict, "session is already closed")
		case errors.Is(err, repository.ErrNotFound):
			return model.TenantSession{}, newError(KindNotFound, "session not found")
		}
		return model.TenantSession{}, wrapError(KindPersistenceFailure, "could not close session", err)
	}
	s.Status = model.SessionClosed
	s.ExitDate = &exit
	d.log.Info("session closed", zap.Uint64("session_id", s.ID), zap.Uint64("room_id", s.RoomID))
	return s, nil
}

// TenantDashboard returns the calling tenant's active session with room,
// minicité and landlord contact details.
func (d *TenancyDirectory) TenantDashboard(ctx context.Context, p model.Principal) (model.SessionDetail, error) {
	t, err := d.owners.TenantFor(ctx, p)
	if err != nil {
		return model.SessionDetail{}, err
	}
	detail, err := d.sessions.DetailForTenant(ctx, t.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return model.SessionDetail{}, newError(KindNoActiveSession, "you have no active rental session")
	}
	if err != nil {
		return model.SessionDetail{}, internal("load dashboard", err)
	}
	return detail, nil
}

// dateOf truncates t to midnight UTC of its calendar day.
func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
