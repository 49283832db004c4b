package dtos

import "github.com/justsurfingit/jobly/internal/sqlbuild"

type LoginRequest struct {
	Username string `json:"username" binding:"required,min=1,max=25"`
	Password string `json:"password" binding:"required,min=1"`
}

// RegisterRequest is self-registration; it can never create an admin.
type RegisterRequest struct {
	Username  string `json:"username" binding:"required,min=1,max=25"`
	Password  string `json:"password" binding:"required,min=5,max=72"`
	FirstName string `json:"firstName" binding:"required,min=1,max=30"`
	LastName  string `json:"lastName" binding:"required,min=1,max=30"`
	Email     string `json:"email" binding:"required,email,max=60"`
}

// UserCreationRequest is used by admins and may create other admins.
type UserCreationRequest struct {
	RegisterRequest
	IsAdmin bool `json:"isAdmin"`
}

type UserUpdateRequest struct {
	FirstName *string `json:"firstName" binding:"omitempty,min=1,max=30"`
	LastName  *string `json:"lastName" binding:"omitempty,min=1,max=30"`
	Password  *string `json:"password" binding:"omitempty,min=5,max=72"`
	Email     *string `json:"email" binding:"omitempty,email,max=60"`
}

// UpdateSpec carries the plain password; the user service hashes it.
func (r *UserUpdateRequest) UpdateSpec() sqlbuild.UpdateSpec {
	var spec sqlbuild.UpdateSpec
	if r.FirstName != nil {
		spec.Set("firstName", *r.FirstName)
	}
	if r.LastName != nil {
		spec.Set("lastName", *r.LastName)
	}
	if r.Password != nil {
		spec.Set("password", *r.Password)
	}
	if r.Email != nil {
		spec.Set("email", *r.Email)
	}
	return spec
}
