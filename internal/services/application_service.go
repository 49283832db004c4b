package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/justsurfingit/jobly/internal/apperror"
	"github.com/justsurfingit/jobly/internal/models"
)

type ApplicationService struct {
	DB Executor

	log zerolog.Logger
}

func NewApplicationService(db Executor, log zerolog.Logger) *ApplicationService {
	return &ApplicationService{
		DB:  db,
		log: log.With().Str("service", "applications").Logger(),
	}
}

// Apply records that username applied to job id.
func (s *ApplicationService) Apply(ctx context.Context, username string, jobID int) (*models.Application, error) {
	found, err := exists(ctx, s.DB, `SELECT EXISTS (SELECT 1 FROM jobs WHERE id = $1)`, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to check job: %w", err)
	}
	if !found {
		return nil, apperror.NotFound("No job: %d", jobID)
	}

	dup, err := exists(ctx, s.DB,
		`SELECT EXISTS (SELECT 1 FROM applications WHERE username = $1 AND job_id = $2)`, username, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to check application: %w", err)
	}
	if dup {
		return nil, apperror.Conflict("User %s already applied to job %d", username, jobID)
	}

	_, err = s.DB.ExecContext(ctx, `INSERT INTO applications (username, job_id) VALUES ($1, $2)`, username, jobID)
	if err != nil {
		return nil, writeError("create application", err,
			apperror.Conflict("User %s already applied to job %d", username, jobID),
			apperror.NotFound("No user: %s", username))
	}

	s.log.Info().Str("username", username).Int("job_id", jobID).Msg("Application created")
	return &models.Application{Username: username, JobID: jobID}, nil
}
