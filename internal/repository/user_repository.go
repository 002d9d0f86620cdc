package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/bantus/rental-backend/internal/model"
)

// UserRepo manages users together with their landlord or tenant profile.
// A profile row is always written in the same transaction as its user.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// normalizeUsername lower-cases and trims a username before storage or lookup.
func normalizeUsername(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func (r *UserRepo) insertUserTx(ctx context.Context, tx *sql.Tx, username, hash string, role model.Role) (uint64, error) {
	res, err := tx.ExecContext(ctx,
		"INSERT INTO users (username, password_hash, role) VALUES (?,?,?)",
		normalizeUsername(username), hash, role)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrDuplicate
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// CreateLandlord inserts a landlord user and its profile.  A taken username
// yields ErrDuplicate.
func (r *UserRepo) CreateLandlord(ctx context.Context, username, hash, fullName, phone string) (model.Landlord, error) {
	l := model.Landlord{FullName: fullName, Phone: phone}
	err := withTx(ctx, r.DB, func(tx *sql.Tx) error {
		uid, err := r.insertUserTx(ctx, tx, username, hash, model.RoleLandlord)
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx,
			"INSERT INTO landlords (user_id, full_name, phone) VALUES (?,?,?)",
			uid, fullName, phone)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		l.ID, l.UserID = uint64(id), uid
		return nil
	})
	return l, err
}

// CreateTenant inserts a tenant user and its profile.
func (r *UserRepo) CreateTenant(ctx context.Context, username, hash, fullName, phone string) (model.Tenant, error) {
	t := model.Tenant{FullName: fullName, Phone: phone}
	err := withTx(ctx, r.DB, func(tx *sql.Tx) error {
		uid, err := r.insertUserTx(ctx, tx, username, hash, model.RoleTenant)
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx,
			"INSERT INTO tenants (user_id, full_name, phone) VALUES (?,?,?)",
			uid, fullName, phone)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		t.ID, t.UserID = uint64(id), uid
		return nil
	})
	return t, err
}

// GetByUsername fetches a user by normalized username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,username,password_hash,role,created_at FROM users WHERE username=? LIMIT 1",
		normalizeUsername(username)).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt)
	return u, notFound(err)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,username,password_hash,role,created_at FROM users WHERE id=? LIMIT 1",
		id).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt)
	return u, notFound(err)
}

// LandlordByUserID resolves the landlord profile of a user.
func (r *UserRepo) LandlordByUserID(ctx context.Context, userID uint64) (model.Landlord, error) {
	var l model.Landlord
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,user_id,full_name,phone FROM landlords WHERE user_id=? LIMIT 1",
		userID).Scan(&l.ID, &l.UserID, &l.FullName, &l.Phone)
	return l, notFound(err)
}

// TenantByUserID resolves the tenant profile of a user.
func (r *UserRepo) TenantByUserID(ctx context.Context, userID uint64) (model.Tenant, error) {
	var t model.Tenant
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,user_id,full_name,phone FROM tenants WHERE user_id=? LIMIT 1",
		userID).Scan(&t.ID, &t.UserID, &t.FullName, &t.Phone)
	return t, notFound(err)
}

// TenantByID fetches a tenant profile by its own id.
func (r *UserRepo) TenantByID(ctx context.Context, id uint64) (model.Tenant, error) {
	var t model.Tenant
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,user_id,full_name,phone FROM tenants WHERE id=? LIMIT 1",
		id).Scan(&t.ID, &t.UserID, &t.FullName, &t.Phone)
	return t, notFound(err)
}

// ListTenantsForLandlord returns every tenant who has, or had, a session in
// one of the landlord's rooms.  Active sessions are listed first.
func (r *UserRepo) ListTenantsForLandlord(ctx context.Context, landlordID uint64) ([]model.TenantListing, error) {
	const q = `SELECT t.id, t.full_name, u.username, ts.id, ts.status, ts.entry_date, ts.exit_date,
	                  r.id, r.label, m.name
	           FROM tenants t
	           JOIN users u ON u.id = t.user_id
	           JOIN tenant_sessions ts ON ts.tenant_id = t.id
	           JOIN rooms r ON r.id = ts.room_id
	           JOIN minicites m ON m.id = r.minicite_id
	           WHERE m.landlord_id = ?
	           ORDER BY ts.status ASC, t.full_name ASC`
	rows, err := r.DB.QueryContext(ctx, q, landlordID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.TenantListing{}
	for rows.Next() {
		var (
			tl   model.TenantListing
			exit sql.NullTime
		)
		if err := rows.Scan(&tl.TenantID, &tl.FullName, &tl.Username, &tl.SessionID, &tl.Status,
			&tl.EntryDate, &exit, &tl.RoomID, &tl.RoomLabel, &tl.MiniciteName); err != nil {
			return nil, err
		}
		if exit.Valid {
			e := exit.Time
			tl.ExitDate = &e
		}
		out = append(out, tl)
	}
	return out, rows.Err()
}
