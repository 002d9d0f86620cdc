package repository

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"
)

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

func dupKeyErr() error {
	return &mysql.MySQLError{Number: mysqlDuplicateEntry, Message: "Duplicate entry"}
}

func referencedErr() error {
	return &mysql.MySQLError{Number: mysqlRowReferenced, Message: "Cannot delete or update a parent row"}
}
