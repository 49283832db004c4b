package services

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justsurfingit/jobly/internal/apperror"
)

func TestApplicationService_Apply(t *testing.T) {
	db, mock := newMock(t)
	svc := NewApplicationService(db, testLog)

	mock.ExpectQuery(q(`SELECT EXISTS (SELECT 1 FROM jobs WHERE id = $1)`)).WithArgs(1).WillReturnRows(existsRow(true))
	mock.ExpectQuery(q(`FROM applications WHERE username = $1 AND job_id = $2`)).WithArgs("u1", 1).WillReturnRows(existsRow(false))
	mock.ExpectExec(q(`INSERT INTO applications (username, job_id) VALUES ($1, $2)`)).
		WithArgs("u1", 1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	app, err := svc.Apply(context.Background(), "u1", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, app.JobID)
}

func TestApplicationService_Apply_Errors(t *testing.T) {
	t.Run("unknown job", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(q(`FROM jobs WHERE id = $1`)).WithArgs(0).WillReturnRows(existsRow(false))

		_, err := NewApplicationService(db, testLog).Apply(context.Background(), "u1", 0)
		require.Error(t, err)
		assert.Equal(t, "No job: 0", err.Error())
	})

	t.Run("already applied", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(q(`FROM jobs WHERE id = $1`)).WithArgs(1).WillReturnRows(existsRow(true))
		mock.ExpectQuery(q(`FROM applications`)).WithArgs("u1", 1).WillReturnRows(existsRow(true))

		_, err := NewApplicationService(db, testLog).Apply(context.Background(), "u1", 1)
		assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	})

	t.Run("unknown user", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(q(`FROM jobs WHERE id = $1`)).WithArgs(1).WillReturnRows(existsRow(true))
		mock.ExpectQuery(q(`FROM applications`)).WithArgs("nope", 1).WillReturnRows(existsRow(false))
		mock.ExpectExec(q(`INSERT INTO applications`)).WillReturnError(&pgconn.PgError{Code: "23503"})

		_, err := NewApplicationService(db, testLog).Apply(context.Background(), "nope", 1)
		require.Error(t, err)
		assert.Equal(t, "No user: nope", err.Error())
	})
}
