package repository

import (
	"context"
	"database/sql"

	"github.com/bantus/rental-backend/internal/model"
)

// PaymentRepo records rent payments against tenant sessions.
type PaymentRepo struct{ DB *sql.DB }

func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{DB: db} }

// Create inserts a payment and fills in its id.
func (r *PaymentRepo) Create(ctx context.Context, p *model.RentPayment) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO rent_payments (session_id, payment_date, amount, note) VALUES (?,?,?,?)",
		p.SessionID, p.PaymentDate, p.Amount, p.Note)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// ListBySession returns a session's payments, latest first.
func (r *PaymentRepo) ListBySession(ctx context.Context, sessionID uint64) ([]model.RentPayment, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, session_id, payment_date, amount, note FROM rent_payments WHERE session_id=? ORDER BY payment_date DESC, id DESC",
		sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.RentPayment{}
	for rows.Next() {
		var p model.RentPayment
		if err := rows.Scan(&p.ID, &p.SessionID, &p.PaymentDate, &p.Amount, &p.Note); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ListByLandlord returns every payment received in the landlord's rooms
// with the tenant and minicité names attached.
func (r *PaymentRepo) ListByLandlord(ctx context.Context, landlordID uint64) ([]model.RentPayment, error) {
	const q = `SELECT p.id, p.session_id, p.payment_date, p.amount, p.note, t.full_name, r.id, m.name
	           FROM rent_payments p
	           JOIN tenant_sessions ts ON ts.id = p.session_id
	           JOIN tenants t ON t.id = ts.tenant_id
	           JOIN rooms r ON r.id = ts.room_id
	           JOIN minicites m ON m.id = r.minicite_id
	           WHERE m.landlord_id = ?
	           ORDER BY p.payment_date DESC, p.id DESC`
	rows, err := r.DB.QueryContext(ctx, q, landlordID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.RentPayment{}
	for rows.Next() {
		var p model.RentPayment
		if err := rows.Scan(&p.ID, &p.SessionID, &p.PaymentDate, &p.Amount, &p.Note,
			&p.TenantName, &p.RoomID, &p.MiniciteName); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
