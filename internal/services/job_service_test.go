package services

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justsurfingit/jobly/internal/apperror"
	"github.com/justsurfingit/jobly/internal/dtos"
	"github.com/justsurfingit/jobly/internal/sqlbuild"
)

func TestJobService_CreateJob(t *testing.T) {
	db, mock := newMock(t)
	svc := NewJobService(db, testLog)
	req := &dtos.JobCreationRequest{Title: "new", Salary: ptr(100), Equity: ptr(0.1), CompanyHandle: "c1"}

	mock.ExpectQuery(q(`SELECT EXISTS (SELECT 1 FROM jobs`)).
		WithArgs("new", 100, 0.1, "c1").
		WillReturnRows(existsRow(false))
	mock.ExpectQuery(q(`INSERT INTO jobs (title, salary, equity, company_handle)`)).
		WithArgs("new", 100, 0.1, "c1").
		WillReturnRows(sqlmock.NewRows(jobCols).AddRow(7, "new", 100, "0.1", "c1"))

	job, err := svc.CreateJob(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 7, job.ID)
	assert.Equal(t, "0.1", *job.Equity)
}

func TestJobService_CreateJob_Errors(t *testing.T) {
	req := &dtos.JobCreationRequest{Title: "new", CompanyHandle: "nope"}

	t.Run("duplicate", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(q(`SELECT EXISTS`)).
			WithArgs("new", nil, nil, "nope").
			WillReturnRows(existsRow(true))

		_, err := NewJobService(db, testLog).CreateJob(context.Background(), req)
		assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	})

	t.Run("unknown company", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(q(`SELECT EXISTS`)).WillReturnRows(existsRow(false))
		mock.ExpectQuery(q(`INSERT INTO jobs`)).WillReturnError(&pgconn.PgError{Code: "23503"})

		_, err := NewJobService(db, testLog).CreateJob(context.Background(), req)
		require.Error(t, err)
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
		assert.Equal(t, "No company: nope", err.Error())
	})
}

func TestJobService_FindAll(t *testing.T) {
	db, mock := newMock(t)
	svc := NewJobService(db, testLog)

	mock.ExpectQuery(q(`FROM jobs WHERE "salary" >= $1 AND "equity" >= $2 AND "title" ILIKE $3 ORDER BY title, id`)).
		WithArgs(250000, 0.01, "%eng%").
		WillReturnRows(sqlmock.NewRows(jobCols).
			AddRow(1, "Engineer", 300000, "0.05", "c1").
			AddRow(2, "Senior Engineer", 400000, nil, "c2"))

	jobs, err := svc.FindAll(context.Background(), sqlbuild.FilterSpec{
		"title":     "eng",
		"equityMin": "0.01",
		"salaryMin": "250000",
	})
	require.NoError(t, err)

	require.Len(t, jobs, 2)
	assert.Equal(t, 300000, *jobs[0].Salary)
	assert.Nil(t, jobs[1].Equity)
}

func TestJobService_FindAll_Invalid(t *testing.T) {
	db, _ := newMock(t)
	svc := NewJobService(db, testLog)

	_, err := svc.FindAll(context.Background(), sqlbuild.FilterSpec{"salaryMin": 300000, "salaryMax": 100000})
	require.Error(t, err)
	assert.Equal(t, "Minimum salary can not be greater than maximum.", err.Error())

	_, err = svc.FindAll(context.Background(), sqlbuild.FilterSpec{"equityMax": 2})
	assert.Equal(t, apperror.KindInvalidRequest, apperror.KindOf(err))
}

func TestJobService_Get(t *testing.T) {
	db, mock := newMock(t)
	svc := NewJobService(db, testLog)

	mock.ExpectQuery(q(`FROM jobs WHERE id = $1`)).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(jobCols).AddRow(1, "J1", nil, nil, "c1"))
	mock.ExpectQuery(q(`FROM jobs WHERE id = $1`)).
		WithArgs(0).
		WillReturnRows(sqlmock.NewRows(jobCols))

	job, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, job.Salary)

	_, err = svc.Get(context.Background(), 0)
	require.Error(t, err)
	assert.Equal(t, "No job: 0", err.Error())
}

func TestJobService_Update(t *testing.T) {
	db, mock := newMock(t)
	svc := NewJobService(db, testLog)
	spec := sqlbuild.UpdateSpec{{Field: "salary", Value: 1000000}, {Field: "equity", Value: 0.5}}

	mock.ExpectQuery(q(`UPDATE jobs SET "salary"=$2, "equity"=$3 WHERE id = $1`)).
		WithArgs(1, 1000000, 0.5).
		WillReturnRows(sqlmock.NewRows(jobCols).AddRow(1, "J1", 1000000, "0.5", "c1"))

	job, err := svc.Update(context.Background(), 1, spec)
	require.NoError(t, err)
	assert.Equal(t, 1000000, *job.Salary)

	_, err = svc.Update(context.Background(), 1, sqlbuild.UpdateSpec{{Field: "companyHandle", Value: "c2"}})
	assert.Equal(t, apperror.KindInvalidRequest, apperror.KindOf(err))
}

func TestJobService_Remove(t *testing.T) {
	db, mock := newMock(t)
	svc := NewJobService(db, testLog)

	mock.ExpectQuery(q(`DELETE FROM jobs WHERE id = $1 RETURNING id`)).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	err := svc.Remove(context.Background(), 3)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}
