package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type AvailabilityHandler struct {
	service AvailabilityServiceInterface
}

func NewAvailabilityHandler(s AvailabilityServiceInterface) *AvailabilityHandler {
	return &AvailabilityHandler{service: s}
}

// DaySchedule lists a court's day as free and occupied spans.
// GET /venues/:venueId/courts/:courtId/schedule?date=
func (h *AvailabilityHandler) DaySchedule(c echo.Context) error {
	date := c.QueryParam("date")
	if date == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "date is required")
	}

	slots, err := h.service.DaySchedule(c.Request().Context(), c.Param("venueId"), c.Param("courtId"), date)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"date":  date,
		"slots": slots,
	})
}
