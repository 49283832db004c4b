package models

// Rows are scanned by sqlx using the `db` tags (storage names) and rendered
// with the `json` tags (application names).

type Company struct {
	Handle       string  `db:"handle" json:"handle"`
	Name         string  `db:"name" json:"name"`
	Description  string  `db:"description" json:"description"`
	NumEmployees *int    `db:"num_employees" json:"numEmployees"`
	LogoURL      *string `db:"logo_url" json:"logoUrl"`
}

// CompanyDetail is a company with its open jobs.
type CompanyDetail struct {
	Company
	Jobs []Job `json:"jobs"`
}

type Job struct {
	ID    int    `db:"id" json:"id"`
	Title string `db:"title" json:"title"`
	// Salary and Equity are nullable; equity is NUMERIC and kept as text
	// ("0.050") so no precision is lost.
	Salary        *int    `db:"salary" json:"salary"`
	Equity        *string `db:"equity" json:"equity"`
	CompanyHandle string  `db:"company_handle" json:"companyHandle"`
}

type User struct {
	Username  string `db:"username" json:"username"`
	FirstName string `db:"first_name" json:"firstName"`
	LastName  string `db:"last_name" json:"lastName"`
	Email     string `db:"email" json:"email"`
	IsAdmin   bool   `db:"is_admin" json:"isAdmin"`
}

// UserDetail is a user with the ids of the jobs they applied to.
type UserDetail struct {
	User
	Applications []int `json:"applications"`
}

// UserCredentials is only used for login; the hash never leaves the service.
type UserCredentials struct {
	User
	Password string `db:"password" json:"-"`
}

type Application struct {
	Username string `db:"username" json:"username"`
	JobID    int    `db:"job_id" json:"jobId"`
}
