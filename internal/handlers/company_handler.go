package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/jobly/internal/dtos"
	"github.com/justsurfingit/jobly/internal/middleware"
	"github.com/justsurfingit/jobly/internal/services"
)

type CompanyHandler struct {
	Companies CompanyService
}

func NewCompanyHandler(companies CompanyService) *CompanyHandler {
	return &CompanyHandler{Companies: companies}
}

// Create is POST /companies.
func (h *CompanyHandler) Create(c *gin.Context) {
	var req dtos.CompanyCreationRequest
	if err := bindJSON(c, &req); err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	company, err := h.Companies.Create(c.Request.Context(), &req)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"company": company})
}

// List is GET /companies?name=&minEmployees=&maxEmployees=.
func (h *CompanyHandler) List(c *gin.Context) {
	filters, err := filtersFromQuery(c, services.CompanyFilters)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	companies, err := h.Companies.FindAll(c.Request.Context(), filters)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"companies": companies})
}

func (h *CompanyHandler) Get(c *gin.Context) {
	company, err := h.Companies.Get(c.Request.Context(), c.Param("handle"))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"company": company})
}

func (h *CompanyHandler) Update(c *gin.Context) {
	var req dtos.CompanyUpdateRequest
	if err := bindJSON(c, &req); err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	company, err := h.Companies.Update(c.Request.Context(), c.Param("handle"), req.UpdateSpec())
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"company": company})
}

func (h *CompanyHandler) Delete(c *gin.Context) {
	handle := c.Param("handle")
	if err := h.Companies.Remove(c.Request.Context(), handle); err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": handle})
}
