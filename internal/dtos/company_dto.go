package dtos

import "github.com/justsurfingit/jobly/internal/sqlbuild"

type CompanyCreationRequest struct {
	Handle       string  `json:"handle" binding:"required,min=1,max=25"`
	Name         string  `json:"name" binding:"required,min=1,max=255"`
	Description  string  `json:"description" binding:"required"`
	NumEmployees *int    `json:"numEmployees" binding:"omitempty,min=0"`
	LogoURL      *string `json:"logoUrl" binding:"omitempty,url"`
}

// CompanyUpdateRequest has no handle: a company's handle never changes.
type CompanyUpdateRequest struct {
	Name         *string `json:"name" binding:"omitempty,min=1,max=255"`
	Description  *string `json:"description"`
	NumEmployees *int    `json:"numEmployees" binding:"omitempty,min=0"`
	LogoURL      *string `json:"logoUrl" binding:"omitempty,url"`
}

func (r *CompanyUpdateRequest) UpdateSpec() sqlbuild.UpdateSpec {
	var spec sqlbuild.UpdateSpec
	if r.Name != nil {
		spec.Set("name", *r.Name)
	}
	if r.Description != nil {
		spec.Set("description", *r.Description)
	}
	if r.NumEmployees != nil {
		spec.Set("numEmployees", *r.NumEmployees)
	}
	if r.LogoURL != nil {
		spec.Set("logoUrl", *r.LogoURL)
	}
	return spec
}
