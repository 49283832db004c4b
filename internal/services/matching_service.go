package services

import (
	"context"
	"strings"

	"github.com/justsurfingit/jobly/internal/models"
	"github.com/justsurfingit/jobly/internal/sqlbuild"
)

type companyFinder interface {
	FindAll(ctx context.Context, filters sqlbuild.FilterSpec) ([]models.Company, error)
}

// CompanyMatcher maps a free-form company name onto a stored company.
type CompanyMatcher struct {
	Companies companyFinder
}

func NewCompanyMatcher(companies companyFinder) *CompanyMatcher {
	return &CompanyMatcher{Companies: companies}
}

// MatchHandle returns the handle of the company called name. An exact
// (case-insensitive) name wins; otherwise a single substring hit is accepted.
func (m *CompanyMatcher) MatchHandle(ctx context.Context, name string) (string, bool, error) {
	name = strings.TrimSpace(name)
	// Very short names match almost everything.
	if len(name) < 3 {
		return "", false, nil
	}

	candidates, err := m.Companies.FindAll(ctx, sqlbuild.FilterSpec{"name": name})
	if err != nil {
		return "", false, err
	}
	for _, c := range candidates {
		if strings.EqualFold(c.Name, name) {
			return c.Handle, true, nil
		}
	}
	if len(candidates) == 1 {
		return candidates[0].Handle, true, nil
	}
	return "", false, nil
}
