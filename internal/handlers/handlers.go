package handlers

import (
	"context"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/jobly/internal/apperror"
	"github.com/justsurfingit/jobly/internal/auth"
	"github.com/justsurfingit/jobly/internal/database"
	"github.com/justsurfingit/jobly/internal/dtos"
	"github.com/justsurfingit/jobly/internal/models"
	"github.com/justsurfingit/jobly/internal/services"
	"github.com/justsurfingit/jobly/internal/sqlbuild"
)

// The services the handlers depend on; implemented in internal/services.

type CompanyService interface {
	Create(ctx context.Context, req *dtos.CompanyCreationRequest) (*models.Company, error)
	FindAll(ctx context.Context, filters sqlbuild.FilterSpec) ([]models.Company, error)
	Get(ctx context.Context, handle string) (*models.CompanyDetail, error)
	Update(ctx context.Context, handle string, spec sqlbuild.UpdateSpec) (*models.Company, error)
	Remove(ctx context.Context, handle string) error
}

type JobService interface {
	CreateJob(ctx context.Context, req *dtos.JobCreationRequest) (*models.Job, error)
	FindAll(ctx context.Context, filters sqlbuild.FilterSpec) ([]models.Job, error)
	Get(ctx context.Context, id int) (*models.Job, error)
	Update(ctx context.Context, id int, spec sqlbuild.UpdateSpec) (*models.Job, error)
	Remove(ctx context.Context, id int) error
}

type JobExtractor interface {
	ExtractJob(ctx context.Context, req *dtos.JobExtractionRequest) (*dtos.JobDraft, error)
}

type UserService interface {
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
	Register(ctx context.Context, req *dtos.UserCreationRequest) (*models.User, error)
	FindAll(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, username string) (*models.UserDetail, error)
	Update(ctx context.Context, username string, spec sqlbuild.UpdateSpec) (*models.User, error)
	Remove(ctx context.Context, username string) error
}

type ApplicationService interface {
	Apply(ctx context.Context, username string, jobID int) (*models.Application, error)
}

type TokenIssuer interface {
	Issue(user models.User) (string, error)
}

var (
	_ CompanyService     = (*services.CompanyService)(nil)
	_ JobService         = (*services.JobService)(nil)
	_ JobExtractor       = (*services.LLMService)(nil)
	_ UserService        = (*services.UserService)(nil)
	_ ApplicationService = (*services.ApplicationService)(nil)
	_ Tokens             = (*auth.Tokens)(nil)
	_ Pinger             = (*database.DB)(nil)
)

// bindJSON decodes the body into req and runs its binding rules.
func bindJSON(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return apperror.InvalidRequest("%s", err.Error())
	}
	return nil
}

// filtersFromQuery reads the query string into a FilterSpec. Repeated keys
// keep their first value; keys outside table are rejected.
func filtersFromQuery(c *gin.Context, table *sqlbuild.PredicateTable) (sqlbuild.FilterSpec, error) {
	spec := sqlbuild.FilterSpec{}
	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			spec[key] = values[0]
		}
	}
	if unknown := table.Unknown(spec); len(unknown) > 0 {
		return nil, apperror.InvalidRequest("unknown filter: %s", strings.Join(unknown, ", "))
	}
	return spec, nil
}

func idParam(c *gin.Context, name string) (int, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil {
		return 0, apperror.InvalidRequest("%s must be an integer", name)
	}
	return id, nil
}
