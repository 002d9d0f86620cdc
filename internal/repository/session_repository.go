package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/bantus/rental-backend/internal/model"
)

// SessionRepo manages tenant sessions.  Every write that changes whether a
// session is active also changes the room status in the same transaction,
// so room.status = occupied exactly while an active session exists.
type SessionRepo struct{ DB *sql.DB }

func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{DB: db} }

const sessionColumns = "id, tenant_id, room_id, entry_date, exit_date, contract_image, status"

func scanSession(s interface{ Scan(...any) error }) (model.TenantSession, error) {
	var (
		ts       model.TenantSession
		exit     sql.NullTime
		contract sql.NullString
	)
	if err := s.Scan(&ts.ID, &ts.TenantID, &ts.RoomID, &ts.EntryDate, &exit, &contract, &ts.Status); err != nil {
		return ts, err
	}
	if exit.Valid {
		e := exit.Time
		ts.ExitDate = &e
	}
	if contract.Valid {
		c := contract.String
		ts.ContractImage = &c
	}
	return ts, nil
}

// CreateActive opens a session for a vacant room.  The room row is locked
// for the duration of the transaction; an occupied room or a tenant that
// already has an active session yields ErrConflict, a missing room
// ErrNotFound.
func (r *SessionRepo) CreateActive(ctx context.Context, s *model.TenantSession) error {
	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		var status model.RoomStatus
		err := tx.QueryRowContext(ctx,
			"SELECT status FROM rooms WHERE id=? FOR UPDATE", s.RoomID).Scan(&status)
		if err != nil {
			return notFound(err)
		}
		if status != model.RoomVacant {
			return ErrConflict
		}

		var busy int
		err = tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM tenant_sessions WHERE tenant_id=? AND status='active'", s.TenantID).Scan(&busy)
		if err != nil {
			return err
		}
		if busy > 0 {
			return ErrConflict
		}

		s.Status = model.SessionActive
		res, err := tx.ExecContext(ctx,
			"INSERT INTO tenant_sessions (tenant_id, room_id, entry_date, contract_image, status) VALUES (?,?,?,?,?)",
			s.TenantID, s.RoomID, s.EntryDate, s.ContractImage, s.Status)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		s.ID = uint64(id)

		_, err = tx.ExecContext(ctx,
			"UPDATE rooms SET status=? WHERE id=?", model.RoomOccupied, s.RoomID)
		return err
	})
}

// Close ends an active session and frees its room.  Closing a session that
// is already closed yields ErrConflict.
func (r *SessionRepo) Close(ctx context.Context, sessionID uint64, exit time.Time) error {
	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		var (
			roomID uint64
			status model.SessionStatus
		)
		err := tx.QueryRowContext(ctx,
			"SELECT room_id, status FROM tenant_sessions WHERE id=? FOR UPDATE", sessionID).Scan(&roomID, &status)
		if err != nil {
			return notFound(err)
		}
		if status != model.SessionActive {
			return ErrConflict
		}
		if _, err := tx.ExecContext(ctx,
			"UPDATE tenant_sessions SET status=?, exit_date=? WHERE id=?",
			model.SessionClosed, exit, sessionID); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			"UPDATE rooms SET status=? WHERE id=?", model.RoomVacant, roomID)
		return err
	})
}

// GetByID returns a session by id or ErrNotFound.
func (r *SessionRepo) GetByID(ctx context.Context, id uint64) (model.TenantSession, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+sessionColumns+" FROM tenant_sessions WHERE id=?", id)
	ts, err := scanSession(row)
	return ts, notFound(err)
}

// ActiveCoveringRoom returns every active session of the room whose entry
// date is on or before the given day, most recent entry first.  More than
// one row means the one-active-session-per-room rule has been broken; the
// caller decides how to report that.
func (r *SessionRepo) ActiveCoveringRoom(ctx context.Context, roomID uint64, onOrBefore time.Time) ([]model.TenantSession, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+sessionColumns+" FROM tenant_sessions WHERE room_id=? AND status='active' AND entry_date<=? ORDER BY entry_date DESC, id DESC",
		roomID, onOrBefore)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.TenantSession
	for rows.Next() {
		ts, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ts)
	}
	return out, rows.Err()
}

// ActiveForRoom returns the room's active session regardless of entry date.
func (r *SessionRepo) ActiveForRoom(ctx context.Context, roomID uint64) (model.TenantSession, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+sessionColumns+" FROM tenant_sessions WHERE room_id=? AND status='active' ORDER BY entry_date DESC, id DESC LIMIT 1",
		roomID)
	ts, err := scanSession(row)
	return ts, notFound(err)
}

// ActiveForTenant returns the tenant's active session or ErrNotFound.
func (r *SessionRepo) ActiveForTenant(ctx context.Context, tenantID uint64) (model.TenantSession, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+sessionColumns+" FROM tenant_sessions WHERE tenant_id=? AND status='active' ORDER BY entry_date DESC, id DESC LIMIT 1",
		tenantID)
	ts, err := scanSession(row)
	return ts, notFound(err)
}

// ListByRoom returns the full session history of a room, newest first.
func (r *SessionRepo) ListByRoom(ctx context.Context, roomID uint64) ([]model.TenantSession, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+sessionColumns+" FROM tenant_sessions WHERE room_id=? ORDER BY entry_date DESC, id DESC",
		roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.TenantSession{}
	for rows.Next() {
		ts, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ts)
	}
	return out, rows.Err()
}

// DetailForTenant loads the tenant's active session joined with its room,
// minicité and landlord contact, as shown on the tenant dashboard.
func (r *SessionRepo) DetailForTenant(ctx context.Context, tenantID uint64) (model.SessionDetail, error) {
	const q = `SELECT ts.id, ts.tenant_id, ts.room_id, ts.entry_date, ts.exit_date, ts.contract_image, ts.status,
	                  r.label, r.annual_rent, m.name, m.location, l.full_name, l.phone
	           FROM tenant_sessions ts
	           JOIN rooms r ON r.id = ts.room_id
	           JOIN minicites m ON m.id = r.minicite_id
	           JOIN landlords l ON l.id = m.landlord_id
	           WHERE ts.tenant_id = ? AND ts.status = 'active'
	           ORDER BY ts.entry_date DESC, ts.id DESC
	           LIMIT 1`
	var (
		d        model.SessionDetail
		exit     sql.NullTime
		contract sql.NullString
	)
	err := r.DB.QueryRowContext(ctx, q, tenantID).Scan(
		&d.Session.ID, &d.Session.TenantID, &d.Session.RoomID, &d.Session.EntryDate, &exit, &contract, &d.Session.Status,
		&d.RoomLabel, &d.AnnualRent, &d.MiniciteName, &d.MiniciteLocation, &d.LandlordName, &d.LandlordPhone,
	)
	if err != nil {
		return d, notFound(err)
	}
	if exit.Valid {
		e := exit.Time
		d.Session.ExitDate = &e
	}
	if contract.Valid {
		c := contract.String
		d.Session.ContractImage = &c
	}
	return d, nil
}

// SessionOwner resolves session -> room -> minicité -> landlord.
func (r *SessionRepo) SessionOwner(ctx context.Context, sessionID uint64) (roomID, landlordID uint64, err error) {
	const q = `SELECT ts.room_id, m.landlord_id
	           FROM tenant_sessions ts
	           LEFT JOIN rooms r ON r.id = ts.room_id
	           LEFT JOIN minicites m ON m.id = r.minicite_id
	           WHERE ts.id = ?`
	var owner sql.NullInt64
	if err = r.DB.QueryRowContext(ctx, q, sessionID).Scan(&roomID, &owner); err != nil {
		return 0, 0, notFound(err)
	}
	if !owner.Valid {
		return 0, 0, ErrNotFound
	}
	return roomID, uint64(owner.Int64), nil
}
