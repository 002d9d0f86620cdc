package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/bantus/rental-backend/internal/model"
)

// BillRepo persists utility bills.  Bills are only ever written in
// water/electricity pairs; UNIQUE(session_id, reading_id, type) stops a
// second pair for the same reading.
type BillRepo struct{ DB *sql.DB }

func NewBillRepo(db *sql.DB) *BillRepo { return &BillRepo{DB: db} }

// InsertPair writes both bills in one transaction and fills in their ids.
// Either both rows are committed or neither is.  A pair that already exists
// yields ErrDuplicate.
func (r *BillRepo) InsertPair(ctx context.Context, water, electricity *model.UtilityBill) error {
	const q = `INSERT INTO utility_bills (session_id, reading_id, type, units_consumed, amount, deadline, status)
	           VALUES (?,?,?,?,?,?,?)`
	err := withTx(ctx, r.DB, func(tx *sql.Tx) error {
		for _, b := range []*model.UtilityBill{water, electricity} {
			res, err := tx.ExecContext(ctx, q,
				b.SessionID, b.ReadingID, b.Type, b.UnitsConsumed, b.Amount, b.Deadline, b.Status)
			if err != nil {
				return err
			}
			id, err := res.LastInsertId()
			if err != nil {
				return err
			}
			b.ID = uint64(id)
		}
		return nil
	})
	if err != nil {
		water.ID, electricity.ID = 0, 0
		if isDuplicateKey(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// ExistsForReading reports whether any bill references the reading.
func (r *BillRepo) ExistsForReading(ctx context.Context, readingID uint64) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM utility_bills WHERE reading_id=?", readingID).Scan(&n)
	return n > 0, err
}

// The type ENUM is declared ('water','electricity'), so ascending order on
// it puts water first within a period.
const billSelect = `SELECT ub.id, ub.session_id, ub.reading_id, ub.type, ub.units_consumed, ub.amount,
                           ub.deadline, ub.status, mr.period_month
                    FROM utility_bills ub
                    JOIN meter_readings mr ON mr.id = ub.reading_id `

const billOrder = ` ORDER BY mr.period_month DESC, ub.type ASC, ub.id ASC`

func (r *BillRepo) list(ctx context.Context, q string, args ...any) ([]model.UtilityBill, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.UtilityBill{}
	for rows.Next() {
		var (
			b      model.UtilityBill
			period time.Time
		)
		if err := rows.Scan(&b.ID, &b.SessionID, &b.ReadingID, &b.Type, &b.UnitsConsumed, &b.Amount,
			&b.Deadline, &b.Status, &period); err != nil {
			return nil, err
		}
		b.Period = model.PeriodOf(period)
		out = append(out, b)
	}
	return out, rows.Err()
}

// ListByTenant returns every bill across all of the tenant's sessions,
// most recent period first and water before electricity within a period.
func (r *BillRepo) ListByTenant(ctx context.Context, tenantID uint64) ([]model.UtilityBill, error) {
	return r.list(ctx,
		billSelect+"JOIN tenant_sessions ts ON ts.id = ub.session_id WHERE ts.tenant_id = ?"+billOrder,
		tenantID)
}

// ListBySession returns the bills of one session in ledger order.
func (r *BillRepo) ListBySession(ctx context.Context, sessionID uint64) ([]model.UtilityBill, error) {
	return r.list(ctx, billSelect+"WHERE ub.session_id = ?"+billOrder, sessionID)
}
