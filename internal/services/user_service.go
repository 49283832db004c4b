package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/justsurfingit/jobly/internal/apperror"
	"github.com/justsurfingit/jobly/internal/auth"
	"github.com/justsurfingit/jobly/internal/database"
	"github.com/justsurfingit/jobly/internal/dtos"
	"github.com/justsurfingit/jobly/internal/models"
	"github.com/justsurfingit/jobly/internal/sqlbuild"
)

var userColumns = sqlbuild.ColumnMap{
	"firstName": "first_name",
	"lastName":  "last_name",
	"password":  "password",
	"email":     "email",
}

const (
	userFields = `username, first_name, last_name, email, is_admin`
	userSelect = `SELECT ` + userFields + ` FROM users`
)

type UserService struct {
	DB        Executor
	Passwords *auth.Passwords

	log zerolog.Logger
}

func NewUserService(db Executor, passwords *auth.Passwords, log zerolog.Logger) *UserService {
	return &UserService{
		DB:        db,
		Passwords: passwords,
		log:       log.With().Str("service", "users").Logger(),
	}
}

// Authenticate checks a username/password pair. Both failure cases give the
// same error so callers can not probe for usernames.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	var creds models.UserCredentials
	err := s.DB.GetContext(ctx, &creds, `SELECT `+userFields+`, password FROM users WHERE username = $1`, username)
	if database.IsNoRows(err) {
		return nil, apperror.Unauthorized("Invalid username/password")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !s.Passwords.Matches(creds.Password, password) {
		return nil, apperror.Unauthorized("Invalid username/password")
	}
	return &creds.User, nil
}

// Register stores a new user with a hashed password.
func (s *UserService) Register(ctx context.Context, req *dtos.UserCreationRequest) (*models.User, error) {
	dup, err := exists(ctx, s.DB, `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if dup {
		return nil, apperror.Conflict("Duplicate username: %s", req.Username)
	}

	hash, err := s.Passwords.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	var user models.User
	err = s.DB.GetContext(ctx, &user,
		`INSERT INTO users (username, password, first_name, last_name, email, is_admin)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+userFields,
		req.Username, hash, req.FirstName, req.LastName, req.Email, req.IsAdmin)
	if err != nil {
		return nil, writeError("create user", err, apperror.Conflict("Duplicate username: %s", req.Username), nil)
	}

	s.log.Info().Str("username", user.Username).Bool("admin", user.IsAdmin).Msg("User registered")
	return &user, nil
}

func (s *UserService) FindAll(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	if err := s.DB.SelectContext(ctx, &users, userSelect+` ORDER BY username`); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Get returns the user with the ids of the jobs they applied to.
func (s *UserService) Get(ctx context.Context, username string) (*models.UserDetail, error) {
	var user models.User
	err := s.DB.GetContext(ctx, &user, userSelect+` WHERE username = $1`, username)
	if database.IsNoRows(err) {
		return nil, apperror.NotFound("No user: %s", username)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	applications := []int{}
	err = s.DB.SelectContext(ctx, &applications,
		`SELECT job_id FROM applications WHERE username = $1 ORDER BY job_id`, username)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return &models.UserDetail{User: user, Applications: applications}, nil
}

// Update applies a partial update. A new password is hashed before storing.
func (s *UserService) Update(ctx context.Context, username string, spec sqlbuild.UpdateSpec) (*models.User, error) {
	spec, err := s.hashPassword(spec)
	if err != nil {
		return nil, err
	}
	set, err := sqlbuild.PartialUpdate(spec, userColumns, sqlbuild.WithOffset(1), sqlbuild.StrictColumns())
	if err != nil {
		return nil, err
	}
	s.log.Debug().Str("set", set.Text).Msg("Updating user")

	var user models.User
	query := `UPDATE users SET ` + set.Text + ` WHERE username = $1 RETURNING ` + userFields
	args := append([]interface{}{username}, set.Params...)
	err = s.DB.GetContext(ctx, &user, query, args...)
	if database.IsNoRows(err) {
		return nil, apperror.NotFound("No user: %s", username)
	}
	if err != nil {
		return nil, writeError("update user", err, nil, nil)
	}
	return &user, nil
}

// hashPassword returns a copy of spec whose password, if any, is hashed.
func (s *UserService) hashPassword(spec sqlbuild.UpdateSpec) (sqlbuild.UpdateSpec, error) {
	plain, ok := spec.Get("password")
	if !ok {
		return spec, nil
	}
	pw, ok := plain.(string)
	if !ok {
		return nil, apperror.InvalidRequest("password must be a string")
	}
	hash, err := s.Passwords.Hash(pw)
	if err != nil {
		return nil, err
	}

	out := make(sqlbuild.UpdateSpec, len(spec))
	copy(out, spec)
	out.Set("password", hash)
	return out, nil
}

func (s *UserService) Remove(ctx context.Context, username string) error {
	var deleted string
	err := s.DB.GetContext(ctx, &deleted, `DELETE FROM users WHERE username = $1 RETURNING username`, username)
	if database.IsNoRows(err) {
		return apperror.NotFound("No user: %s", username)
	}
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.log.Info().Str("username", deleted).Msg("User deleted")
	return nil
}
