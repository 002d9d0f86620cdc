package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bantus/rental-backend/internal/model"
)

func billPair() (*model.UtilityBill, *model.UtilityBill) {
	deadline := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	w := &model.UtilityBill{SessionID: 3, ReadingID: 42, Type: model.UtilityWater,
		UnitsConsumed: decimal.NewFromInt(50), Amount: decimal.NewFromInt(25000), Deadline: deadline, Status: model.BillUnpaid}
	e := &model.UtilityBill{SessionID: 3, ReadingID: 42, Type: model.UtilityElectricity,
		UnitsConsumed: decimal.NewFromInt(300), Amount: decimal.NewFromInt(30000), Deadline: deadline, Status: model.BillUnpaid}
	return w, e
}

func TestBillRepo_InsertPair(t *testing.T) {
	t.Run("commits both", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewBillRepo(db)
		w, e := billPair()

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO utility_bills").
			WithArgs(3, 42, "water", "50", "25000", w.Deadline, "unpaid").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("INSERT INTO utility_bills").
			WithArgs(3, 42, "electricity", "300", "30000", e.Deadline, "unpaid").
			WillReturnResult(sqlmock.NewResult(2, 1))
		mock.ExpectCommit()

		require.NoError(t, repo.InsertPair(context.Background(), w, e))
		assert.Equal(t, uint64(1), w.ID)
		assert.Equal(t, uint64(2), e.ID)
	})

	t.Run("second insert failure rolls back", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewBillRepo(db)
		w, e := billPair()

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO utility_bills").WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("INSERT INTO utility_bills").WillReturnError(errors.New("disk full"))
		mock.ExpectRollback()

		err := repo.InsertPair(context.Background(), w, e)
		require.Error(t, err)
		assert.Zero(t, w.ID)
		assert.Zero(t, e.ID)
	})

	t.Run("duplicate pair", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewBillRepo(db)
		w, e := billPair()

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO utility_bills").WillReturnError(dupKeyErr())
		mock.ExpectRollback()

		assert.ErrorIs(t, repo.InsertPair(context.Background(), w, e), ErrDuplicate)
	})

	t.Run("commit failure", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewBillRepo(db)
		w, e := billPair()

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO utility_bills").WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("INSERT INTO utility_bills").WillReturnResult(sqlmock.NewResult(2, 1))
		mock.ExpectCommit().WillReturnError(errors.New("lost connection"))

		require.Error(t, repo.InsertPair(context.Background(), w, e))
		assert.Zero(t, w.ID)
	})
}

func TestBillRepo_ListByTenant(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewBillRepo(db)

	cols := []string{"id", "session_id", "reading_id", "type", "units_consumed", "amount", "deadline", "status", "period_month"}
	due := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(cols).
		AddRow(3, 3, 42, "water", "50", "25000", due, "unpaid", time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)).
		AddRow(4, 3, 42, "electricity", "300", "30000", due, "unpaid", time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)).
		AddRow(1, 3, 41, "water", "10", "5000", due, "paid", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))

	mock.ExpectQuery(regexp.QuoteMeta("WHERE ts.tenant_id = ? ORDER BY mr.period_month DESC, ub.type ASC")).
		WithArgs(9).WillReturnRows(rows)

	bills, err := repo.ListByTenant(context.Background(), 9)
	require.NoError(t, err)
	require.Len(t, bills, 3)
	assert.Equal(t, model.UtilityWater, bills[0].Type)
	assert.Equal(t, model.UtilityElectricity, bills[1].Type)
	assert.Equal(t, model.Period{Year: 2025, Month: time.March}, bills[2].Period)
	assert.Equal(t, model.BillPaid, bills[2].Status)
}

func TestBillRepo_ExistsForReading(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewBillRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM utility_bills WHERE reading_id=?")).
		WithArgs(42).WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(2))

	ok, err := repo.ExistsForReading(context.Background(), 42)
	require.NoError(t, err)
	assert.True(t, ok)
}
