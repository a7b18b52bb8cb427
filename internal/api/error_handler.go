package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/canchago/go-court-reservation/internal/application"
	"github.com/canchago/go-court-reservation/internal/domain/idempotency"
	"github.com/canchago/go-court-reservation/internal/domain/reservation"
	"github.com/canchago/go-court-reservation/internal/domain/tariff"
	"github.com/canchago/go-court-reservation/internal/domain/timeslot"
	"github.com/canchago/go-court-reservation/internal/domain/venue"
	"github.com/canchago/go-court-reservation/internal/pkg/logger"
)

// ErrorResponse is the unified error payload.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// CustomHTTPErrorHandler maps domain errors onto HTTP statuses and stable
// error codes. Handlers return domain errors as-is; the mapping lives here.
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, code, message := classify(err)

	if status >= 500 {
		logger.Error("server error",
			zap.Int("status", status),
			zap.String("path", c.Request().URL.Path),
			zap.Error(err),
		)
	}

	if err := c.JSON(status, ErrorResponse{Code: code, Message: message}); err != nil {
		logger.Error("failed to write error response", zap.Error(err))
	}
}

func classify(err error) (status int, code, message string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok {
			msg = m
		}
		code := "BAD_REQUEST"
		switch {
		case he.Code == http.StatusUnauthorized:
			code = "UNAUTHORIZED"
		case he.Code == http.StatusNotFound:
			code = "NOT_FOUND"
		case he.Code >= 500:
			code = "INTERNAL_ERROR"
		}
		return he.Code, code, msg
	}

	switch {
	case errors.Is(err, timeslot.ErrInvalidClock),
		errors.Is(err, timeslot.ErrInvalidDate),
		errors.Is(err, timeslot.ErrInvalidRange):
		return http.StatusBadRequest, "VALIDATION_ERROR", err.Error()

	case errors.Is(err, idempotency.ErrKeyRequired):
		return http.StatusBadRequest, "IDEMPOTENCY_KEY_REQUIRED", err.Error()

	case errors.Is(err, reservation.ErrNotOwner):
		return http.StatusForbidden, "FORBIDDEN", err.Error()

	case errors.Is(err, venue.ErrVenueNotFound),
		errors.Is(err, venue.ErrCourtNotFound),
		errors.Is(err, venue.ErrCourtNotInVenue),
		errors.Is(err, reservation.ErrReservationNotFound):
		return http.StatusNotFound, "NOT_FOUND", err.Error()

	case errors.Is(err, tariff.ErrNoApplicableTariff):
		return http.StatusNotFound, "NO_APPLICABLE_TARIFF", err.Error()

	case errors.Is(err, venue.ErrCourtNotReservable):
		return http.StatusConflict, "COURT_NOT_RESERVABLE", err.Error()

	case errors.Is(err, reservation.ErrOverlappingReservation):
		return http.StatusConflict, "OVERLAPPING_RESERVATION", err.Error()

	case errors.Is(err, reservation.ErrInvalidState):
		return http.StatusConflict, "INVALID_STATE", err.Error()

	case errors.Is(err, application.ErrSlotContended):
		return http.StatusConflict, "SLOT_CONTENDED", err.Error()

	case errors.Is(err, venue.ErrOutsideOpeningHours):
		return http.StatusUnprocessableEntity, "OUTSIDE_OPENING_HOURS", err.Error()

	case errors.Is(err, reservation.ErrSlotInPast):
		return http.StatusUnprocessableEntity, "SLOT_IN_PAST", err.Error()

	case errors.Is(err, venue.ErrInvalidTimeZone):
		// A venue with a broken zone is a data problem an operator must fix.
		logger.Error("venue has an invalid time zone, operator action required", zap.Error(err))
		return http.StatusInternalServerError, "INVALID_TIME_ZONE", "venue configuration error"
	}

	return http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error"
}
