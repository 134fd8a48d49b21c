package http

import (
	"errors"
	"net/http"
	"strconv"

	"tcg-pricewatch/internal/scheduler/dto"
	"tcg-pricewatch/internal/scheduler/service"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// pathID parses the :id path parameter.
func pathID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	return uint(id), err
}

// writeError maps service errors onto HTTP statuses.
func writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "not found"})
	case errors.Is(err, service.ErrInvalidJobType), errors.Is(err, service.ErrInvalidCron):
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
	}
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: msg})
}
