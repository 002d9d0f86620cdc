package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bantus/rental-backend/internal/model"
)

var sessionCols = []string{"id", "tenant_id", "room_id", "entry_date", "exit_date", "contract_image", "status"}

func TestSessionRepo_CreateActive(t *testing.T) {
	entry := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	t.Run("occupies the room", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewSessionRepo(db)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("SELECT status FROM rooms WHERE id=? FOR UPDATE")).
			WithArgs(7).WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("vacant"))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM tenant_sessions WHERE tenant_id=?")).
			WithArgs(9).WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
		mock.ExpectExec("INSERT INTO tenant_sessions").
			WithArgs(9, 7, entry, nil, "active").
			WillReturnResult(sqlmock.NewResult(3, 1))
		mock.ExpectExec(regexp.QuoteMeta("UPDATE rooms SET status=? WHERE id=?")).
			WithArgs("occupied", 7).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		s := &model.TenantSession{TenantID: 9, RoomID: 7, EntryDate: entry}
		require.NoError(t, repo.CreateActive(context.Background(), s))
		assert.Equal(t, uint64(3), s.ID)
		assert.Equal(t, model.SessionActive, s.Status)
	})

	t.Run("occupied room", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewSessionRepo(db)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT status FROM rooms").
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("occupied"))
		mock.ExpectRollback()

		err := repo.CreateActive(context.Background(), &model.TenantSession{TenantID: 9, RoomID: 7, EntryDate: entry})
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("tenant already housed", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewSessionRepo(db)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT status FROM rooms").
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("vacant"))
		mock.ExpectQuery("SELECT COUNT").
			WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))
		mock.ExpectRollback()

		err := repo.CreateActive(context.Background(), &model.TenantSession{TenantID: 9, RoomID: 7, EntryDate: entry})
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("missing room", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewSessionRepo(db)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT status FROM rooms").WillReturnRows(sqlmock.NewRows([]string{"status"}))
		mock.ExpectRollback()

		err := repo.CreateActive(context.Background(), &model.TenantSession{TenantID: 9, RoomID: 7, EntryDate: entry})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestSessionRepo_Close(t *testing.T) {
	exit := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	t.Run("frees the room", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewSessionRepo(db)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("SELECT room_id, status FROM tenant_sessions WHERE id=? FOR UPDATE")).
			WithArgs(3).WillReturnRows(sqlmock.NewRows([]string{"room_id", "status"}).AddRow(7, "active"))
		mock.ExpectExec(regexp.QuoteMeta("UPDATE tenant_sessions SET status=?, exit_date=? WHERE id=?")).
			WithArgs("closed", exit, 3).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta("UPDATE rooms SET status=? WHERE id=?")).
			WithArgs("vacant", 7).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, repo.Close(context.Background(), 3, exit))
	})

	t.Run("already closed", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewSessionRepo(db)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT room_id, status FROM tenant_sessions").
			WillReturnRows(sqlmock.NewRows([]string{"room_id", "status"}).AddRow(7, "closed"))
		mock.ExpectRollback()

		assert.ErrorIs(t, repo.Close(context.Background(), 3, exit), ErrConflict)
	})
}

func TestSessionRepo_ActiveCoveringRoom(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewSessionRepo(db)
	end := time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC)
	contract := "contracts/3.pdf"

	rows := sqlmock.NewRows(sessionCols).
		AddRow(5, 10, 7, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), nil, nil, "active").
		AddRow(3, 9, 7, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), nil, contract, "active")
	mock.ExpectQuery(regexp.QuoteMeta("entry_date<=? ORDER BY entry_date DESC, id DESC")).
		WithArgs(7, end).WillReturnRows(rows)

	list, err := repo.ActiveCoveringRoom(context.Background(), 7, end)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, uint64(5), list[0].ID)
	assert.Nil(t, list[0].ContractImage)
	require.NotNil(t, list[1].ContractImage)
	assert.Equal(t, contract, *list[1].ContractImage)
}

func TestSessionRepo_SessionOwner(t *testing.T) {
	t.Run("resolved", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewSessionRepo(db)

		mock.ExpectQuery("FROM tenant_sessions ts").WithArgs(3).
			WillReturnRows(sqlmock.NewRows([]string{"room_id", "landlord_id"}).AddRow(7, 2))

		room, landlord, err := repo.SessionOwner(context.Background(), 3)
		require.NoError(t, err)
		assert.Equal(t, uint64(7), room)
		assert.Equal(t, uint64(2), landlord)
	})

	t.Run("broken chain", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewSessionRepo(db)

		mock.ExpectQuery("FROM tenant_sessions ts").
			WillReturnRows(sqlmock.NewRows([]string{"room_id", "landlord_id"}).AddRow(7, nil))

		_, _, err := repo.SessionOwner(context.Background(), 3)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestSessionRepo_DetailForTenant(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewSessionRepo(db)

	cols := append(append([]string{}, sessionCols...),
		"label", "annual_rent", "name", "location", "full_name", "phone")
	mock.ExpectQuery("JOIN landlords l").WithArgs(9).WillReturnRows(sqlmock.NewRows(cols).
		AddRow(3, 9, 7, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), nil, nil, "active",
			"R101", "600000.00", "Les Palmiers", "Douala", "A. Landlord", "+237 600"))

	d, err := repo.DetailForTenant(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), d.Session.ID)
	assert.Equal(t, "R101", d.RoomLabel)
	assert.Equal(t, "600000.00", d.AnnualRent)
	assert.Equal(t, "A. Landlord", d.LandlordName)
}
