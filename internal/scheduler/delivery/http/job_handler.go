package http

import (
	"net/http"

	"tcg-pricewatch/internal/scheduler/dto"
	"tcg-pricewatch/internal/scheduler/service"
	"tcg-pricewatch/pkg/logger"

	"github.com/labstack/echo/v4"
)

// JobHandler handles HTTP requests for jobs.
type JobHandler struct {
	jobs service.JobService
	log  *logger.Logger
}

// NewJobHandler creates a new JobHandler.
func NewJobHandler(jobs service.JobService, log *logger.Logger) *JobHandler {
	return &JobHandler{jobs: jobs, log: log}
}

// RegisterRoutes registers the job routes to the Echo group.
func (h *JobHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.CreateJob)
	g.GET("", h.GetAllJobs)
	g.GET("/:id", h.GetJobByID)
	g.PUT("/:id", h.UpdateJob)
	g.DELETE("/:id", h.DeleteJob)
}

// CreateJob godoc
// @Summary Create a new job
// @Description Create a new job with schedules
// @Tags jobs
// @Accept  json
// @Produce  json
// @Param   job  body    dto.CreateJobRequest   true    "Job to create"
// @Success 201 {object} dto.JobResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /jobs [post]
func (h *JobHandler) CreateJob(c echo.Context) error {
	var req dto.CreateJobRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request payload")
	}

	job, err := h.jobs.CreateJob(c.Request().Context(), &req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, job)
}

// GetAllJobs godoc
// @Summary Get all jobs
// @Description Get all jobs
// @Tags jobs
// @Produce  json
// @Success 200 {array} dto.JobResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /jobs [get]
func (h *JobHandler) GetAllJobs(c echo.Context) error {
	jobs, err := h.jobs.GetAllJobs(c.Request().Context())
	if err != nil {
		h.log.Error("Failed to list jobs", logger.ErrorField(err))
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, jobs)
}

// GetJobByID godoc
// @Summary Get a job by ID
// @Description Get a single job by its ID
// @Tags jobs
// @Produce  json
// @Param   id  path    int true    "Job ID"
// @Success 200 {object} dto.JobResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /jobs/{id} [get]
func (h *JobHandler) GetJobByID(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return badRequest(c, "invalid job ID")
	}

	job, err := h.jobs.GetJobByID(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, job)
}

// UpdateJob godoc
// @Summary Update an existing job
// @Description Update an existing job with the given details
// @Tags jobs
// @Accept  json
// @Produce  json
// @Param   id  path    int true    "Job ID"
// @Param   job  body    dto.UpdateJobRequest   true    "Job to update"
// @Success 200 {object} dto.JobResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /jobs/{id} [put]
func (h *JobHandler) UpdateJob(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return badRequest(c, "invalid job ID")
	}

	var req dto.UpdateJobRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request payload")
	}

	job, err := h.jobs.UpdateJob(c.Request().Context(), id, &req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, job)
}

// DeleteJob godoc
// @Summary Delete a job
// @Description Delete a job by its ID
// @Tags jobs
// @Produce  json
// @Param   id  path    int true    "Job ID"
// @Success 204 {object} nil
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /jobs/{id} [delete]
func (h *JobHandler) DeleteJob(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return badRequest(c, "invalid job ID")
	}

	if err := h.jobs.DeleteJob(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
