package handlers

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/rs/zerolog"

	"github.com/justsurfingit/jobly/internal/apperror"
	"github.com/justsurfingit/jobly/internal/middleware"
)

// Tokens issues and verifies login tokens; *auth.Tokens implements it.
type Tokens interface {
	TokenIssuer
	middleware.TokenVerifier
}

// Deps are the collaborators of the router. Extractor may be nil, which
// disables POST /jobs/extract.
type Deps struct {
	Companies    CompanyService
	Jobs         JobService
	Extractor    JobExtractor
	Users        UserService
	Applications ApplicationService
	Tokens       Tokens
	DB           Pinger

	CORSOrigins []string
	Log         zerolog.Logger
}

// NewRouter builds the gin engine with every route of the API.
func NewRouter(d Deps) *gin.Engine {
	// Payloads with fields outside the DTO are rejected.
	binding.EnableDecoderDisallowUnknownFields = true

	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestLogger(d.Log),
		cors.New(corsConfig(d.CORSOrigins)),
		middleware.Authenticate(d.Tokens),
	)
	r.NoRoute(func(c *gin.Context) {
		middleware.AbortWithError(c, apperror.NotFound("Not Found"))
	})

	admin := middleware.EnsureAdmin()
	adminOrSelf := middleware.EnsureAdminOrSelf("username")

	r.GET("/health", HealthCheck(d.DB))

	authHandler := NewAuthHandler(d.Users, d.Tokens)
	r.POST("/auth/token", authHandler.Token)
	r.POST("/auth/register", authHandler.Register)

	companyHandler := NewCompanyHandler(d.Companies)
	companies := r.Group("/companies")
	{
		companies.POST("", admin, companyHandler.Create)
		companies.GET("", companyHandler.List)
		companies.GET("/:handle", companyHandler.Get)
		companies.PATCH("/:handle", admin, companyHandler.Update)
		companies.DELETE("/:handle", admin, companyHandler.Delete)
	}

	jobHandler := NewJobHandler(d.Jobs, d.Extractor)
	jobs := r.Group("/jobs")
	{
		jobs.POST("", admin, jobHandler.CreateJob)
		jobs.GET("", jobHandler.List)
		jobs.GET("/:id", jobHandler.Get)
		jobs.PATCH("/:id", admin, jobHandler.Update)
		jobs.DELETE("/:id", admin, jobHandler.Delete)
		if d.Extractor != nil {
			jobs.POST("/extract", admin, jobHandler.ParseJob)
		}
	}

	userHandler := NewUserHandler(d.Users, d.Applications, d.Tokens)
	// Every user route needs a login; the per-route guards narrow it further.
	users := r.Group("/users", middleware.EnsureLoggedIn())
	{
		users.POST("", admin, userHandler.Create)
		users.GET("", admin, userHandler.List)
		users.GET("/:username", adminOrSelf, userHandler.Get)
		users.PATCH("/:username", adminOrSelf, userHandler.Update)
		users.DELETE("/:username", adminOrSelf, userHandler.Delete)
		users.POST("/:username/jobs/:id", adminOrSelf, userHandler.Apply)
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	config := cors.DefaultConfig()
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	config.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	if len(origins) == 0 {
		config.AllowAllOrigins = true
		return config
	}
	for _, o := range origins {
		if o == "*" {
			config.AllowAllOrigins = true
			return config
		}
	}
	config.AllowOrigins = origins
	return config
}
