package http

import (
	"net/http"

	"tcg-pricewatch/internal/scheduler/dto"
	"tcg-pricewatch/internal/scheduler/service"
	"tcg-pricewatch/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ScheduleHandler handles HTTP requests for schedules.
type ScheduleHandler struct {
	schedules service.ScheduleService
	log       *logger.Logger
}

// NewScheduleHandler creates a new ScheduleHandler.
func NewScheduleHandler(schedules service.ScheduleService, log *logger.Logger) *ScheduleHandler {
	return &ScheduleHandler{schedules: schedules, log: log}
}

// RegisterRoutes registers the schedule routes to the Echo group.
func (h *ScheduleHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.CreateSchedule)
	g.GET("", h.GetAllSchedules)
	g.GET("/:id", h.GetScheduleByID)
	g.PUT("/:id", h.UpdateSchedule)
	g.DELETE("/:id", h.DeleteSchedule)
}

// CreateSchedule godoc
// @Summary Create a new schedule
// @Description Create a new schedule with the given details
// @Tags schedules
// @Accept  json
// @Produce  json
// @Param   schedule  body    dto.CreateScheduleRequest   true    "Schedule to create"
// @Success 201 {object} dto.ScheduleResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /schedules [post]
func (h *ScheduleHandler) CreateSchedule(c echo.Context) error {
	var req dto.CreateScheduleRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request payload")
	}

	schedule, err := h.schedules.CreateSchedule(c.Request().Context(), &req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, schedule)
}

// GetAllSchedules godoc
// @Summary Get all schedules
// @Description Get all schedules
// @Tags schedules
// @Produce  json
// @Success 200 {array} dto.ScheduleResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /schedules [get]
func (h *ScheduleHandler) GetAllSchedules(c echo.Context) error {
	schedules, err := h.schedules.GetAllSchedules(c.Request().Context())
	if err != nil {
		h.log.Error("Failed to list schedules", logger.ErrorField(err))
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, schedules)
}

// GetScheduleByID godoc
// @Summary Get a schedule by its ID
// @Description Get a schedule by its ID
// @Tags schedules
// @Produce  json
// @Param   id  path    int true    "Schedule ID"
// @Success 200 {object} dto.ScheduleResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /schedules/{id} [get]
func (h *ScheduleHandler) GetScheduleByID(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return badRequest(c, "invalid schedule ID")
	}

	schedule, err := h.schedules.GetScheduleByID(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, schedule)
}

// UpdateSchedule godoc
// @Summary Update an existing schedule
// @Description Update an existing schedule with the given details
// @Tags schedules
// @Accept  json
// @Produce  json
// @Param   id  path    int true    "Schedule ID"
// @Param   schedule  body    dto.UpdateScheduleRequest   true    "Schedule to update"
// @Success 200 {object} dto.ScheduleResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /schedules/{id} [put]
func (h *ScheduleHandler) UpdateSchedule(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return badRequest(c, "invalid schedule ID")
	}

	var req dto.UpdateScheduleRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request payload")
	}

	schedule, err := h.schedules.UpdateSchedule(c.Request().Context(), id, &req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, schedule)
}

// DeleteSchedule godoc
// @Summary Delete a schedule
// @Description Delete a schedule by its ID
// @Tags schedules
// @Produce  json
// @Param   id  path    int true    "Schedule ID"
// @Success 204 {object} nil
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /schedules/{id} [delete]
func (h *ScheduleHandler) DeleteSchedule(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return badRequest(c, "invalid schedule ID")
	}

	if err := h.schedules.DeleteSchedule(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
