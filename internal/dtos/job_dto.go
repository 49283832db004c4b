package dtos

import "github.com/justsurfingit/jobly/internal/sqlbuild"

type JobExtractionRequest struct {
	RawHTML string `json:"rawHtml" binding:"required"`
	URL     string `json:"url" binding:"omitempty,url"`
}

type JobCreationRequest struct {
	Title         string   `json:"title" binding:"required,min=1,max=255"`
	Salary        *int     `json:"salary" binding:"omitempty,min=0"`
	Equity        *float64 `json:"equity" binding:"omitempty,min=0,max=1"`
	CompanyHandle string   `json:"companyHandle" binding:"required,min=1,max=25"`
}

// JobUpdateRequest only carries the fields a job may change; the owning
// company is fixed at creation.
type JobUpdateRequest struct {
	Title  *string  `json:"title" binding:"omitempty,min=1,max=255"`
	Salary *int     `json:"salary" binding:"omitempty,min=0"`
	Equity *float64 `json:"equity" binding:"omitempty,min=0,max=1"`
}

// UpdateSpec lists the fields that were sent, in declaration order.
func (r *JobUpdateRequest) UpdateSpec() sqlbuild.UpdateSpec {
	var spec sqlbuild.UpdateSpec
	if r.Title != nil {
		spec.Set("title", *r.Title)
	}
	if r.Salary != nil {
		spec.Set("salary", *r.Salary)
	}
	if r.Equity != nil {
		spec.Set("equity", *r.Equity)
	}
	return spec
}

// JobDraft is what the extractor proposes from a raw posting. It is not
// persisted; an admin reviews it and posts it to /jobs.
type JobDraft struct {
	Title         string   `json:"title"`
	Salary        *int     `json:"salary"`
	Equity        *float64 `json:"equity"`
	CompanyName   string   `json:"companyName"`
	CompanyHandle string   `json:"companyHandle"`
	Location      string   `json:"location,omitempty"`
	SourceURL     string   `json:"sourceUrl,omitempty"`
}
