package services

import (
	"context"
	"database/sql/driver"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/justsurfingit/jobly/internal/apperror"
	"github.com/justsurfingit/jobly/internal/auth"
	"github.com/justsurfingit/jobly/internal/dtos"
	"github.com/justsurfingit/jobly/internal/sqlbuild"
)

// hashOf matches a bcrypt hash of the given password.
type hashOf string

func (p hashOf) Match(v driver.Value) bool {
	hash, ok := v.(string)
	return ok && bcrypt.CompareHashAndPassword([]byte(hash), []byte(p)) == nil
}

func newUserService(t *testing.T) (*UserService, sqlmock.Sqlmock) {
	db, mock := newMock(t)
	return NewUserService(db, auth.NewPasswords(bcrypt.MinCost), testLog), mock
}

func TestUserService_Register(t *testing.T) {
	svc, mock := newUserService(t)
	req := &dtos.UserCreationRequest{
		RegisterRequest: dtos.RegisterRequest{
			Username: "new", Password: "password", FirstName: "Test", LastName: "Tester", Email: "test@test.com",
		},
		IsAdmin: true,
	}

	mock.ExpectQuery(q(`SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`)).
		WithArgs("new").
		WillReturnRows(existsRow(false))
	mock.ExpectQuery(q(`INSERT INTO users`)).
		WithArgs("new", hashOf("password"), "Test", "Tester", "test@test.com", true).
		WillReturnRows(sqlmock.NewRows(userCols).AddRow("new", "Test", "Tester", "test@test.com", true))

	user, err := svc.Register(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, user.IsAdmin)
}

func TestUserService_Register_Duplicate(t *testing.T) {
	svc, mock := newUserService(t)

	mock.ExpectQuery(q(`SELECT EXISTS`)).WithArgs("u1").WillReturnRows(existsRow(true))

	_, err := svc.Register(context.Background(), &dtos.UserCreationRequest{
		RegisterRequest: dtos.RegisterRequest{Username: "u1", Password: "password"},
	})
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
}

func TestUserService_Authenticate(t *testing.T) {
	svc, mock := newUserService(t)
	hash, err := svc.Passwords.Hash("password1")
	require.NoError(t, err)

	credCols := append(append([]string{}, userCols...), "password")
	for i := 0; i < 2; i++ {
		mock.ExpectQuery(q(`FROM users WHERE username = $1`)).
			WithArgs("u1").
			WillReturnRows(sqlmock.NewRows(credCols).AddRow("u1", "U1F", "U1L", "u1@email.com", false, hash))
	}
	mock.ExpectQuery(q(`FROM users WHERE username = $1`)).
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows(credCols))

	user, err := svc.Authenticate(context.Background(), "u1", "password1")
	require.NoError(t, err)
	assert.Equal(t, "U1F", user.FirstName)

	_, err = svc.Authenticate(context.Background(), "u1", "wrong")
	assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(err))

	_, err = svc.Authenticate(context.Background(), "nope", "password1")
	assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(err))
}

func TestUserService_Get(t *testing.T) {
	svc, mock := newUserService(t)

	mock.ExpectQuery(q(`FROM users WHERE username = $1`)).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow("u1", "U1F", "U1L", "u1@email.com", false))
	mock.ExpectQuery(q(`SELECT job_id FROM applications WHERE username = $1 ORDER BY job_id`)).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"job_id"}).AddRow(1).AddRow(4))

	detail, err := svc.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 4}, detail.Applications)
}

func TestUserService_Update(t *testing.T) {
	svc, mock := newUserService(t)
	spec := sqlbuild.UpdateSpec{{Field: "firstName", Value: "New"}, {Field: "password", Value: "new-password"}}

	mock.ExpectQuery(q(`UPDATE users SET "first_name"=$2, "password"=$3 WHERE username = $1`)).
		WithArgs("u1", "New", hashOf("new-password")).
		WillReturnRows(sqlmock.NewRows(userCols).AddRow("u1", "New", "U1L", "u1@email.com", false))

	user, err := svc.Update(context.Background(), "u1", spec)
	require.NoError(t, err)
	assert.Equal(t, "New", user.FirstName)

	v, _ := spec.Get("password")
	assert.Equal(t, "new-password", v, "caller's spec must not be modified")
}

func TestUserService_Update_Rejected(t *testing.T) {
	svc, _ := newUserService(t)

	_, err := svc.Update(context.Background(), "u1", sqlbuild.UpdateSpec{{Field: "isAdmin", Value: true}})
	assert.Equal(t, apperror.KindInvalidRequest, apperror.KindOf(err))

	_, err = svc.Update(context.Background(), "u1", sqlbuild.UpdateSpec{{Field: "username", Value: "x"}})
	assert.Equal(t, apperror.KindInvalidRequest, apperror.KindOf(err))
}

func TestUserService_FindAllAndRemove(t *testing.T) {
	svc, mock := newUserService(t)

	mock.ExpectQuery(q(`FROM users ORDER BY username`)).
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow("u1", "U1F", "U1L", "u1@email.com", false).
			AddRow("u2", "U2F", "U2L", "u2@email.com", true))
	mock.ExpectQuery(q(`DELETE FROM users WHERE username = $1 RETURNING username`)).
		WithArgs("u2").
		WillReturnRows(sqlmock.NewRows([]string{"username"}).AddRow("u2"))

	users, err := svc.FindAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 2)

	require.NoError(t, svc.Remove(context.Background(), "u2"))
}
