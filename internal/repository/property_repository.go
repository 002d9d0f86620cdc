package repository

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"

	"github.com/bantus/rental-backend/internal/model"
)

// PropertyRepo provides CRUD operations for minicités and their rooms, and
// answers the ownership questions that every landlord-scoped operation
// asks: which landlord owns this room, this minicité, this session.
type PropertyRepo struct{ DB *sql.DB }

func NewPropertyRepo(db *sql.DB) *PropertyRepo { return &PropertyRepo{DB: db} }

// CreateMinicite inserts a minicité for the landlord and fills in its id.
func (r *PropertyRepo) CreateMinicite(ctx context.Context, m *model.Minicite) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO minicites (landlord_id, name, location) VALUES (?,?,?)",
		m.LandlordID, m.Name, m.Location)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return nil
}

// ListMinicitesByLandlord returns the landlord's minicités, newest first.
func (r *PropertyRepo) ListMinicitesByLandlord(ctx context.Context, landlordID uint64) ([]model.Minicite, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, landlord_id, name, location, created_at FROM minicites WHERE landlord_id=? ORDER BY created_at DESC, id DESC",
		landlordID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Minicite{}
	for rows.Next() {
		var m model.Minicite
		if err := rows.Scan(&m.ID, &m.LandlordID, &m.Name, &m.Location, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// GetMinicite returns a minicité by id or ErrNotFound.
func (r *PropertyRepo) GetMinicite(ctx context.Context, id uint64) (model.Minicite, error) {
	var m model.Minicite
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, landlord_id, name, location, created_at FROM minicites WHERE id=?",
		id).Scan(&m.ID, &m.LandlordID, &m.Name, &m.Location, &m.CreatedAt)
	return m, notFound(err)
}

// UpdateMinicite changes the name and location of a minicité.
func (r *PropertyRepo) UpdateMinicite(ctx context.Context, id uint64, name, location string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE minicites SET name=?, location=? WHERE id=?", name, location, id)
	if err != nil {
		return err
	}
	return affected(res)
}

// DeleteMinicite removes a minicité.  A minicité that still has rooms
// cannot be deleted and yields ErrConflict.
func (r *PropertyRepo) DeleteMinicite(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM minicites WHERE id=?", id)
	if err != nil {
		if isRowReferenced(err) {
			return ErrConflict
		}
		return err
	}
	return affected(res)
}

// CreateRoom inserts a vacant room and fills in its id.
func (r *PropertyRepo) CreateRoom(ctx context.Context, room *model.Room) error {
	room.Status = model.RoomVacant
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO rooms (minicite_id, label, annual_rent, status) VALUES (?,?,?,?)",
		room.MiniciteID, room.Label, room.AnnualRent, room.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	room.ID = uint64(id)
	return nil
}

// ListRoomsByMinicite returns the rooms of one minicité ordered by label.
func (r *PropertyRepo) ListRoomsByMinicite(ctx context.Context, miniciteID uint64) ([]model.Room, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, minicite_id, label, annual_rent, status FROM rooms WHERE minicite_id=? ORDER BY label ASC, id ASC",
		miniciteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Room{}
	for rows.Next() {
		var room model.Room
		if err := rows.Scan(&room.ID, &room.MiniciteID, &room.Label, &room.AnnualRent, &room.Status); err != nil {
			return nil, err
		}
		out = append(out, room)
	}
	return out, rows.Err()
}

// GetRoom returns a room by id or ErrNotFound.
func (r *PropertyRepo) GetRoom(ctx context.Context, id uint64) (model.Room, error) {
	var room model.Room
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, minicite_id, label, annual_rent, status FROM rooms WHERE id=?",
		id).Scan(&room.ID, &room.MiniciteID, &room.Label, &room.AnnualRent, &room.Status)
	return room, notFound(err)
}

// UpdateRoom changes the label and rent of a room.  Status is owned by the
// session lifecycle and cannot be set here.
func (r *PropertyRepo) UpdateRoom(ctx context.Context, id uint64, label string, annualRent decimal.Decimal) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE rooms SET label=?, annual_rent=? WHERE id=?", label, annualRent, id)
	if err != nil {
		return err
	}
	return affected(res)
}

// DeleteRoom removes a room with no session or reading history.  Anything
// referencing the room yields ErrConflict.
func (r *PropertyRepo) DeleteRoom(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM rooms WHERE id=?", id)
	if err != nil {
		if isRowReferenced(err) {
			return ErrConflict
		}
		return err
	}
	return affected(res)
}

// RoomOwner resolves room -> minicité -> landlord.  ErrNotFound is returned
// when either the room or its minicité is missing.
func (r *PropertyRepo) RoomOwner(ctx context.Context, roomID uint64) (miniciteID, landlordID uint64, err error) {
	const q = `SELECT r.minicite_id, m.landlord_id
	           FROM rooms r
	           LEFT JOIN minicites m ON m.id = r.minicite_id
	           WHERE r.id = ?`
	var owner sql.NullInt64
	if err = r.DB.QueryRowContext(ctx, q, roomID).Scan(&miniciteID, &owner); err != nil {
		return 0, 0, notFound(err)
	}
	if !owner.Valid {
		return 0, 0, ErrNotFound
	}
	return miniciteID, uint64(owner.Int64), nil
}
