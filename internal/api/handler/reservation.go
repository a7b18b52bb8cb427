package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/canchago/go-court-reservation/internal/api/middleware"
	"github.com/canchago/go-court-reservation/internal/application"
)

type ReservationHandler struct {
	service ReservationServiceInterface
}

func NewReservationHandler(s ReservationServiceInterface) *ReservationHandler {
	return &ReservationHandler{service: s}
}

type ConfirmRequest struct {
	IdempotencyKey string `json:"idempotency_key"`
}

type CancelRequest struct {
	Reason         string `json:"reason"`
	IdempotencyKey string `json:"idempotency_key"`
}

// CreateHold places a hold on a slot. Retries with the same idempotency key
// replay the original result with a 200 instead of a 201.
// POST /reservations/hold
func (h *ReservationHandler) CreateHold(c echo.Context) error {
	var req application.CreateHoldInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	resp, replayed, err := h.service.CreateHold(c.Request().Context(), middleware.ActorFrom(c), req)
	if err != nil {
		return err
	}
	if replayed {
		return c.JSON(http.StatusOK, resp)
	}
	return c.JSON(http.StatusCreated, resp)
}

// Confirm moves a hold to confirmed.
// POST /reservations/:id/confirm
func (h *ReservationHandler) Confirm(c echo.Context) error {
	var req ConfirmRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	resp, _, err := h.service.Confirm(c.Request().Context(), middleware.ActorFrom(c), c.Param("id"), req.IdempotencyKey)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

// Cancel cancels a hold or confirmed reservation.
// POST /reservations/:id/cancel
func (h *ReservationHandler) Cancel(c echo.Context) error {
	var req CancelRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	resp, _, err := h.service.Cancel(c.Request().Context(), middleware.ActorFrom(c), c.Param("id"), req.Reason, req.IdempotencyKey)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

// Reschedule moves a confirmed reservation to a new slot.
// POST /reservations/:id/reschedule
func (h *ReservationHandler) Reschedule(c echo.Context) error {
	var req application.RescheduleInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	resp, replayed, err := h.service.Reschedule(c.Request().Context(), middleware.ActorFrom(c), c.Param("id"), req)
	if err != nil {
		return err
	}
	if replayed {
		return c.JSON(http.StatusOK, resp)
	}
	return c.JSON(http.StatusCreated, resp)
}

// GetByID returns one reservation.
// GET /reservations/:id
func (h *ReservationHandler) GetByID(c echo.Context) error {
	resp, err := h.service.GetReservation(c.Request().Context(), middleware.ActorFrom(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

// List returns the actor's reservations, or another user's for staff roles
// via the user_id query parameter.
// GET /reservations?user_id=&limit=&offset=
func (h *ReservationHandler) List(c echo.Context) error {
	actor := middleware.ActorFrom(c)
	userID := c.QueryParam("user_id")
	if userID == "" {
		userID = actor.UserID
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	resp, err := h.service.ListUserReservations(c.Request().Context(), actor, userID, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}
