package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/bantus/rental-backend/internal/model"
)

// ReadingRepo stores meter readings.  period_month always holds the first
// day of the calendar month so equality on it is equality on year+month,
// and the UNIQUE(room_id, period_month) index backs the one-reading-per-
// month rule.
type ReadingRepo struct{ DB *sql.DB }

func NewReadingRepo(db *sql.DB) *ReadingRepo { return &ReadingRepo{DB: db} }

const readingColumns = "id, room_id, period_month, water_index, electricity_index, recorded_at"

func scanReading(s interface{ Scan(...any) error }) (model.MeterReading, error) {
	var (
		m      model.MeterReading
		period time.Time
	)
	err := s.Scan(&m.ID, &m.RoomID, &period, &m.WaterIndex, &m.ElectricityIndex, &m.RecordedAt)
	m.Period = model.PeriodOf(period)
	return m, err
}

// ExistsForPeriod reports whether the room already has a reading for p.
func (r *ReadingRepo) ExistsForPeriod(ctx context.Context, roomID uint64, p model.Period) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM meter_readings WHERE room_id=? AND period_month=? LIMIT 1",
		roomID, p.Start()).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// Create inserts a reading and fills in id and recorded_at.  A reading for
// the same room and month yields ErrDuplicate.
func (r *ReadingRepo) Create(ctx context.Context, m *model.MeterReading) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO meter_readings (room_id, period_month, water_index, electricity_index) VALUES (?,?,?,?)",
		m.RoomID, m.Period.Start(), m.WaterIndex, m.ElectricityIndex)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicate
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	if m.RecordedAt.IsZero() {
		m.RecordedAt = time.Now().UTC()
	}
	return nil
}

// Previous returns the most recent reading of the room strictly before p,
// or ErrNotFound when there is none.
func (r *ReadingRepo) Previous(ctx context.Context, roomID uint64, p model.Period) (model.MeterReading, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+readingColumns+" FROM meter_readings WHERE room_id=? AND period_month<? ORDER BY period_month DESC LIMIT 1",
		roomID, p.Start())
	m, err := scanReading(row)
	return m, notFound(err)
}

// GetByID returns a reading by id or ErrNotFound.
func (r *ReadingRepo) GetByID(ctx context.Context, id uint64) (model.MeterReading, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+readingColumns+" FROM meter_readings WHERE id=?", id)
	m, err := scanReading(row)
	return m, notFound(err)
}

// ListByRoom returns every reading of a room, most recent period first.
func (r *ReadingRepo) ListByRoom(ctx context.Context, roomID uint64) ([]model.MeterReading, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+readingColumns+" FROM meter_readings WHERE room_id=? ORDER BY period_month DESC",
		roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.MeterReading{}
	for rows.Next() {
		m, err := scanReading(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
