package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/canchago/go-court-reservation/internal/application"
)

type PricingHandler struct {
	service PricingServiceInterface
}

func NewPricingHandler(s PricingServiceInterface) *PricingHandler {
	return &PricingHandler{service: s}
}

// Resolve returns the applicable tariff for a slot. court_id is optional;
// without it only venue-wide tariffs are considered.
// GET /venues/:venueId/pricing?court_id=&date=&start_time=&end_time=
func (h *PricingHandler) Resolve(c echo.Context) error {
	in := application.ResolvePriceInput{
		VenueID: c.Param("venueId"),
		CourtID: c.QueryParam("court_id"),
		Date:    c.QueryParam("date"),
		Start:   c.QueryParam("start_time"),
		End:     c.QueryParam("end_time"),
	}
	if in.Date == "" || in.Start == "" || in.End == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "date, start_time and end_time are required")
	}

	res, err := h.service.ResolvePrice(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}
