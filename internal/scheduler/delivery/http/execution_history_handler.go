package http

import (
	"net/http"

	"tcg-pricewatch/internal/scheduler/service"
	"tcg-pricewatch/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ExecutionHistoryHandler handles HTTP requests for execution history.
type ExecutionHistoryHandler struct {
	histories service.ExecutionHistoryService
	log       *logger.Logger
}

// NewExecutionHistoryHandler creates a new ExecutionHistoryHandler.
func NewExecutionHistoryHandler(histories service.ExecutionHistoryService, log *logger.Logger) *ExecutionHistoryHandler {
	return &ExecutionHistoryHandler{histories: histories, log: log}
}

// RegisterRoutes registers the execution history routes to the Echo group.
func (h *ExecutionHistoryHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetAllExecutionHistories)
	g.GET("/:id", h.GetExecutionHistoryByID)
}

// RegisterJobRoutes registers the job-specific execution history routes.
func (h *ExecutionHistoryHandler) RegisterJobRoutes(g *echo.Group) {
	g.GET("/:id/executions", h.GetExecutionHistoriesByJobID)
}

// GetAllExecutionHistories godoc
// @Summary Get all execution histories
// @Description Get all execution history records
// @Tags executions
// @Produce  json
// @Success 200 {array} dto.ExecutionHistoryResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /executions [get]
func (h *ExecutionHistoryHandler) GetAllExecutionHistories(c echo.Context) error {
	histories, err := h.histories.GetAllExecutionHistories(c.Request().Context())
	if err != nil {
		h.log.Error("Failed to list execution histories", logger.ErrorField(err))
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, histories)
}

// GetExecutionHistoryByID godoc
// @Summary Get an execution history by ID
// @Description Get a single execution history record by its ID
// @Tags executions
// @Produce  json
// @Param   id  path    int true    "Execution History ID"
// @Success 200 {object} dto.ExecutionHistoryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /executions/{id} [get]
func (h *ExecutionHistoryHandler) GetExecutionHistoryByID(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return badRequest(c, "invalid history ID")
	}

	history, err := h.histories.GetExecutionHistoryByID(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, history)
}

// GetExecutionHistoriesByJobID godoc
// @Summary Get execution histories for a job
// @Description Get all execution history records for a specific job ID
// @Tags executions
// @Produce  json
// @Param   id  path    int true    "Job ID"
// @Success 200 {array} dto.ExecutionHistoryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /jobs/{id}/executions [get]
func (h *ExecutionHistoryHandler) GetExecutionHistoriesByJobID(c echo.Context) error {
	jobID, err := pathID(c)
	if err != nil {
		return badRequest(c, "invalid job ID")
	}

	histories, err := h.histories.GetExecutionHistoriesByJobID(c.Request().Context(), jobID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, histories)
}
