package database

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bantus/rental-backend/internal/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.Config{DBUser: "rental", DBPass: "pw", DBHost: "db", DBPort: "3306", DBName: "bantus"})

	assert.Contains(t, dsn, "rental:pw@tcp(db:3306)/bantus")
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "charset=utf8mb4")
}

func TestEnsureSchema(t *testing.T) {
	t.Run("runs every statement", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		for range schema {
			mock.ExpectExec("CREATE TABLE IF NOT EXISTS").WillReturnResult(sqlmock.NewResult(0, 0))
		}

		require.NoError(t, EnsureSchema(context.Background(), db))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("stops at first failure", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("CREATE TABLE IF NOT EXISTS users").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS landlords").WillReturnError(errors.New("denied"))

		err = EnsureSchema(context.Background(), db)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "schema statement 2")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
