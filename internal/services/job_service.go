package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/justsurfingit/jobly/internal/apperror"
	"github.com/justsurfingit/jobly/internal/database"
	"github.com/justsurfingit/jobly/internal/dtos"
	"github.com/justsurfingit/jobly/internal/models"
	"github.com/justsurfingit/jobly/internal/sqlbuild"
)

// JobFilters is the search vocabulary of GET /jobs. Equity is a fraction of
// the company, so both equity bounds must lie in [0, 1].
var JobFilters = &sqlbuild.PredicateTable{
	Rules: []sqlbuild.PredicateRule{
		{Key: "salaryMin", Column: "salary", Op: sqlbuild.Gte, Kind: sqlbuild.Integer},
		{Key: "salaryMax", Column: "salary", Op: sqlbuild.Lte, Kind: sqlbuild.Integer},
		{Key: "equityMin", Column: "equity", Op: sqlbuild.Gte, Kind: sqlbuild.Decimal, Bounds: &sqlbuild.Interval{Min: 0, Max: 1}},
		{Key: "equityMax", Column: "equity", Op: sqlbuild.Lte, Kind: sqlbuild.Decimal, Bounds: &sqlbuild.Interval{Min: 0, Max: 1}},
		{Key: "title", Column: "title", Op: sqlbuild.Contains},
		{Key: "companyHandle", Column: "company_handle", Op: sqlbuild.Equals},
	},
	Ranges: []sqlbuild.RangePair{
		{Label: "salary", Min: "salaryMin", Max: "salaryMax"},
		{Label: "equity", Min: "equityMin", Max: "equityMax"},
	},
}

var jobColumns = sqlbuild.ColumnMap{
	"title":  "title",
	"salary": "salary",
	"equity": "equity",
}

const jobSelect = `SELECT id, title, salary, equity, company_handle FROM jobs`

type JobService struct {
	DB Executor

	log zerolog.Logger
}

func NewJobService(db Executor, log zerolog.Logger) *JobService {
	return &JobService{
		DB:  db,
		log: log.With().Str("service", "jobs").Logger(),
	}
}

// CreateJob inserts a posting for an existing company. The same title, pay
// and company can only be posted once.
func (s *JobService) CreateJob(ctx context.Context, req *dtos.JobCreationRequest) (*models.Job, error) {
	dup, err := exists(ctx, s.DB,
		`SELECT EXISTS (SELECT 1 FROM jobs
		 WHERE title = $1 AND salary IS NOT DISTINCT FROM $2
		   AND equity IS NOT DISTINCT FROM $3 AND company_handle = $4)`,
		req.Title, req.Salary, req.Equity, req.CompanyHandle)
	if err != nil {
		return nil, fmt.Errorf("failed to check duplicate job: %w", err)
	}
	if dup {
		return nil, apperror.Conflict("Duplicate job: %s", req.Title)
	}

	var job models.Job
	err = s.DB.GetContext(ctx, &job,
		`INSERT INTO jobs (title, salary, equity, company_handle)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, title, salary, equity, company_handle`,
		req.Title, req.Salary, req.Equity, req.CompanyHandle)
	if err != nil {
		return nil, writeError("create job", err, nil, apperror.NotFound("No company: %s", req.CompanyHandle))
	}

	s.log.Info().Int("id", job.ID).Str("company", job.CompanyHandle).Msg("Job created")
	return &job, nil
}

// FindAll lists jobs matching filters, ordered by title.
func (s *JobService) FindAll(ctx context.Context, filters sqlbuild.FilterSpec) ([]models.Job, error) {
	where, err := JobFilters.Compile(filters)
	if err != nil {
		return nil, err
	}
	s.log.Debug().Str("where", where.Text).Int("params", len(where.Params)).Msg("Searching jobs")

	jobs := []models.Job{}
	query := jobSelect + where.Clause("WHERE") + ` ORDER BY title, id`
	if err := s.DB.SelectContext(ctx, &jobs, query, where.Params...); err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return jobs, nil
}

// ForCompany lists the jobs of one company. The handle is always bound, so a
// blank handle matches nothing.
func (s *JobService) ForCompany(ctx context.Context, handle string) ([]models.Job, error) {
	jobs := []models.Job{}
	query := jobSelect + ` WHERE company_handle = $1 ORDER BY title, id`
	if err := s.DB.SelectContext(ctx, &jobs, query, handle); err != nil {
		return nil, fmt.Errorf("failed to list company jobs: %w", err)
	}
	return jobs, nil
}

func (s *JobService) Get(ctx context.Context, id int) (*models.Job, error) {
	var job models.Job
	err := s.DB.GetContext(ctx, &job, jobSelect+` WHERE id = $1`, id)
	if database.IsNoRows(err) {
		return nil, apperror.NotFound("No job: %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return &job, nil
}

func (s *JobService) Update(ctx context.Context, id int, spec sqlbuild.UpdateSpec) (*models.Job, error) {
	set, err := sqlbuild.PartialUpdate(spec, jobColumns, sqlbuild.WithOffset(1), sqlbuild.StrictColumns())
	if err != nil {
		return nil, err
	}
	s.log.Debug().Str("set", set.Text).Msg("Updating job")

	var job models.Job
	query := `UPDATE jobs SET ` + set.Text + ` WHERE id = $1
		RETURNING id, title, salary, equity, company_handle`
	args := append([]interface{}{id}, set.Params...)
	err = s.DB.GetContext(ctx, &job, query, args...)
	if database.IsNoRows(err) {
		return nil, apperror.NotFound("No job: %d", id)
	}
	if err != nil {
		return nil, writeError("update job", err, nil, nil)
	}
	return &job, nil
}

func (s *JobService) Remove(ctx context.Context, id int) error {
	var deleted int
	err := s.DB.GetContext(ctx, &deleted, `DELETE FROM jobs WHERE id = $1 RETURNING id`, id)
	if database.IsNoRows(err) {
		return apperror.NotFound("No job: %d", id)
	}
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}

	s.log.Info().Int("id", deleted).Msg("Job deleted")
	return nil
}
