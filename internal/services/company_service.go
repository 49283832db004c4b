package services

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/justsurfingit/jobly/internal/apperror"
	"github.com/justsurfingit/jobly/internal/database"
	"github.com/justsurfingit/jobly/internal/dtos"
	"github.com/justsurfingit/jobly/internal/models"
	"github.com/justsurfingit/jobly/internal/sqlbuild"
)

// CompanyFilters is the search vocabulary of GET /companies.
var CompanyFilters = &sqlbuild.PredicateTable{
	Rules: []sqlbuild.PredicateRule{
		{Key: "name", Column: "name", Op: sqlbuild.Contains},
		{Key: "minEmployees", Column: "num_employees", Op: sqlbuild.Gte, Kind: sqlbuild.Integer},
		{Key: "maxEmployees", Column: "num_employees", Op: sqlbuild.Lte, Kind: sqlbuild.Integer},
	},
	Ranges: []sqlbuild.RangePair{
		{Label: "employees", Min: "minEmployees", Max: "maxEmployees"},
	},
}

var companyColumns = sqlbuild.ColumnMap{
	"name":         "name",
	"description":  "description",
	"numEmployees": "num_employees",
	"logoUrl":      "logo_url",
}

const companySelect = `SELECT handle, name, description, num_employees, logo_url FROM companies`

type CompanyService struct {
	DB   Executor
	Jobs *JobService

	log zerolog.Logger
}

func NewCompanyService(db Executor, jobs *JobService, log zerolog.Logger) *CompanyService {
	return &CompanyService{
		DB:   db,
		Jobs: jobs,
		log:  log.With().Str("service", "companies").Logger(),
	}
}

func (s *CompanyService) Create(ctx context.Context, req *dtos.CompanyCreationRequest) (*models.Company, error) {
	if !validHandle(req.Handle) {
		return nil, apperror.InvalidRequest("invalid handle: %q", req.Handle)
	}

	dup, err := exists(ctx, s.DB, `SELECT EXISTS (SELECT 1 FROM companies WHERE handle = $1)`, req.Handle)
	if err != nil {
		return nil, fmt.Errorf("failed to check company handle: %w", err)
	}
	if dup {
		return nil, apperror.Conflict("Duplicate company: %s", req.Handle)
	}

	var company models.Company
	err = s.DB.GetContext(ctx, &company,
		`INSERT INTO companies (handle, name, description, num_employees, logo_url)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING handle, name, description, num_employees, logo_url`,
		req.Handle, req.Name, req.Description, req.NumEmployees, req.LogoURL)
	if err != nil {
		return nil, writeError("create company", err, apperror.Conflict("Duplicate company: %s", req.Handle), nil)
	}

	s.log.Info().Str("handle", company.Handle).Msg("Company created")
	return &company, nil
}

// validHandle accepts non-empty handles without whitespace.
func validHandle(handle string) bool {
	return handle != "" && !strings.ContainsFunc(handle, unicode.IsSpace)
}

// FindAll lists companies matching filters, ordered by name.
func (s *CompanyService) FindAll(ctx context.Context, filters sqlbuild.FilterSpec) ([]models.Company, error) {
	where, err := CompanyFilters.Compile(filters)
	if err != nil {
		return nil, err
	}
	s.log.Debug().Str("where", where.Text).Int("params", len(where.Params)).Msg("Searching companies")

	companies := []models.Company{}
	query := companySelect + where.Clause("WHERE") + ` ORDER BY name`
	if err := s.DB.SelectContext(ctx, &companies, query, where.Params...); err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	return companies, nil
}

// Get returns the company with its jobs.
func (s *CompanyService) Get(ctx context.Context, handle string) (*models.CompanyDetail, error) {
	var company models.Company
	err := s.DB.GetContext(ctx, &company, companySelect+` WHERE handle = $1`, handle)
	if database.IsNoRows(err) {
		return nil, apperror.NotFound("No company: %s", handle)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get company: %w", err)
	}

	jobs, err := s.Jobs.ForCompany(ctx, handle)
	if err != nil {
		return nil, err
	}
	return &models.CompanyDetail{Company: company, Jobs: jobs}, nil
}

// Update applies a partial update. The handle itself can not be changed.
func (s *CompanyService) Update(ctx context.Context, handle string, spec sqlbuild.UpdateSpec) (*models.Company, error) {
	set, err := sqlbuild.PartialUpdate(spec, companyColumns, sqlbuild.WithOffset(1), sqlbuild.StrictColumns())
	if err != nil {
		return nil, err
	}
	s.log.Debug().Str("set", set.Text).Msg("Updating company")

	var company models.Company
	query := `UPDATE companies SET ` + set.Text + ` WHERE handle = $1
		RETURNING handle, name, description, num_employees, logo_url`
	args := append([]interface{}{handle}, set.Params...)
	err = s.DB.GetContext(ctx, &company, query, args...)
	if database.IsNoRows(err) {
		return nil, apperror.NotFound("No company: %s", handle)
	}
	if err != nil {
		return nil, writeError("update company", err, nil, nil)
	}
	return &company, nil
}

func (s *CompanyService) Remove(ctx context.Context, handle string) error {
	var deleted string
	err := s.DB.GetContext(ctx, &deleted, `DELETE FROM companies WHERE handle = $1 RETURNING handle`, handle)
	if database.IsNoRows(err) {
		return apperror.NotFound("No company: %s", handle)
	}
	if err != nil {
		return fmt.Errorf("failed to delete company: %w", err)
	}

	s.log.Info().Str("handle", deleted).Msg("Company deleted")
	return nil
}
