package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/bantus/rental-backend/internal/model"
)

// IssueRepo stores issue reports raised by tenants.
type IssueRepo struct{ DB *sql.DB }

func NewIssueRepo(db *sql.DB) *IssueRepo { return &IssueRepo{DB: db} }

// Create inserts an open issue and fills in id and created_at.
func (r *IssueRepo) Create(ctx context.Context, i *model.IssueReport) error {
	i.Status = model.IssueOpen
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO issue_reports (session_id, description, image, status) VALUES (?,?,?,?)",
		i.SessionID, i.Description, i.Image, i.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	i.ID = uint64(id)
	i.CreatedAt = time.Now().UTC()
	return nil
}

func scanIssue(s interface{ Scan(...any) error }, extra ...any) (model.IssueReport, error) {
	var (
		i     model.IssueReport
		image sql.NullString
	)
	dest := append([]any{&i.ID, &i.SessionID, &i.Description, &image, &i.Status, &i.CreatedAt}, extra...)
	if err := s.Scan(dest...); err != nil {
		return i, err
	}
	if image.Valid {
		v := image.String
		i.Image = &v
	}
	return i, nil
}

const issueColumns = "i.id, i.session_id, i.description, i.image, i.status, i.created_at"

// GetByID returns an issue by id or ErrNotFound.
func (r *IssueRepo) GetByID(ctx context.Context, id uint64) (model.IssueReport, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+issueColumns+" FROM issue_reports i WHERE i.id=?", id)
	i, err := scanIssue(row)
	return i, notFound(err)
}

// ListBySession returns the issues raised in one session, newest first.
func (r *IssueRepo) ListBySession(ctx context.Context, sessionID uint64) ([]model.IssueReport, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+issueColumns+" FROM issue_reports i WHERE i.session_id=? ORDER BY i.created_at DESC, i.id DESC",
		sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.IssueReport{}
	for rows.Next() {
		i, err := scanIssue(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

// ListByLandlord returns every issue raised in the landlord's rooms.
func (r *IssueRepo) ListByLandlord(ctx context.Context, landlordID uint64) ([]model.IssueReport, error) {
	const q = `SELECT ` + issueColumns + `, r.id, m.name
	           FROM issue_reports i
	           JOIN tenant_sessions ts ON ts.id = i.session_id
	           JOIN rooms r ON r.id = ts.room_id
	           JOIN minicites m ON m.id = r.minicite_id
	           WHERE m.landlord_id = ?
	           ORDER BY i.created_at DESC, i.id DESC`
	rows, err := r.DB.QueryContext(ctx, q, landlordID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.IssueReport{}
	for rows.Next() {
		var (
			roomID uint64
			name   string
		)
		i, err := scanIssue(rows, &roomID, &name)
		if err != nil {
			return nil, err
		}
		i.RoomID, i.MiniciteName = roomID, name
		out = append(out, i)
	}
	return out, rows.Err()
}

// UpdateStatus sets the status of an issue.
func (r *IssueRepo) UpdateStatus(ctx context.Context, id uint64, status model.IssueStatus) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE issue_reports SET status=? WHERE id=?", status, id)
	if err != nil {
		return err
	}
	return affected(res)
}
