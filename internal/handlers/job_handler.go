package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/jobly/internal/dtos"
	"github.com/justsurfingit/jobly/internal/middleware"
	"github.com/justsurfingit/jobly/internal/services"
)

type JobHandler struct {
	JobService JobService
	// Extractor is nil when no LLM is configured.
	Extractor JobExtractor
}

func NewJobHandler(jobs JobService, extractor JobExtractor) *JobHandler {
	return &JobHandler{
		JobService: jobs,
		Extractor:  extractor,
	}
}

// ParseJob is POST /jobs/extract. It returns a draft for review; nothing is
// stored.
func (h *JobHandler) ParseJob(c *gin.Context) {
	var req dtos.JobExtractionRequest
	if err := bindJSON(c, &req); err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	draft, err := h.Extractor.ExtractJob(c.Request.Context(), &req)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"draft": draft})
}

func (h *JobHandler) CreateJob(c *gin.Context) {
	var req dtos.JobCreationRequest
	if err := bindJSON(c, &req); err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	job, err := h.JobService.CreateJob(c.Request.Context(), &req)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"job": job})
}

// List is GET /jobs with the filters of services.JobFilters.
func (h *JobHandler) List(c *gin.Context) {
	filters, err := filtersFromQuery(c, services.JobFilters)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	jobs, err := h.JobService.FindAll(c.Request.Context(), filters)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}

func (h *JobHandler) Get(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	job, err := h.JobService.Get(c.Request.Context(), id)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"job": job})
}

func (h *JobHandler) Update(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	var req dtos.JobUpdateRequest
	if err := bindJSON(c, &req); err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	job, err := h.JobService.Update(c.Request.Context(), id, req.UpdateSpec())
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"job": job})
}

func (h *JobHandler) Delete(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	if err := h.JobService.Remove(c.Request.Context(), id); err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
