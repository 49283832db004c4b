package services

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

var testLog = zerolog.Nop()

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return sqlx.NewDb(db, "sqlmock"), mock
}

func q(sql string) string {
	return regexp.QuoteMeta(sql)
}

func existsRow(found bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"exists"}).AddRow(found)
}

var (
	companyCols = []string{"handle", "name", "description", "num_employees", "logo_url"}
	jobCols     = []string{"id", "title", "salary", "equity", "company_handle"}
	userCols    = []string{"username", "first_name", "last_name", "email", "is_admin"}
)

func ptr[T any](v T) *T { return &v }
