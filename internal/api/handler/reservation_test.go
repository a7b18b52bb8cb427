package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appmiddleware "github.com/canchago/go-court-reservation/internal/api/middleware"
	"github.com/canchago/go-court-reservation/internal/application"
	"github.com/canchago/go-court-reservation/internal/domain/identity"
	"github.com/canchago/go-court-reservation/internal/domain/reservation"
)

type MockReservationService struct {
	mock.Mock
}

func (m *MockReservationService) CreateHold(ctx context.Context, actor identity.Actor, in application.CreateHoldInput) (*application.ReservationResponse, bool, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*application.ReservationResponse), args.Bool(1), args.Error(2)
}

func (m *MockReservationService) Confirm(ctx context.Context, actor identity.Actor, reservationID, idemKey string) (*application.ReservationResponse, bool, error) {
	args := m.Called(ctx, actor, reservationID, idemKey)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*application.ReservationResponse), args.Bool(1), args.Error(2)
}

func (m *MockReservationService) Cancel(ctx context.Context, actor identity.Actor, reservationID, reason, idemKey string) (*application.ReservationResponse, bool, error) {
	args := m.Called(ctx, actor, reservationID, reason, idemKey)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*application.ReservationResponse), args.Bool(1), args.Error(2)
}

func (m *MockReservationService) Reschedule(ctx context.Context, actor identity.Actor, reservationID string, in application.RescheduleInput) (*application.ReservationResponse, bool, error) {
	args := m.Called(ctx, actor, reservationID, in)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*application.ReservationResponse), args.Bool(1), args.Error(2)
}

func (m *MockReservationService) GetReservation(ctx context.Context, actor identity.Actor, reservationID string) (*application.ReservationResponse, error) {
	args := m.Called(ctx, actor, reservationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*application.ReservationResponse), args.Error(1)
}

func (m *MockReservationService) ListUserReservations(ctx context.Context, actor identity.Actor, userID string, limit, offset int) ([]*application.ReservationResponse, error) {
	args := m.Called(ctx, actor, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*application.ReservationResponse), args.Error(1)
}

func setupReservationRoutes(service ReservationServiceInterface) *echo.Echo {
	e := NewTestEcho()
	h := NewReservationHandler(service)
	g := e.Group("/reservations", appmiddleware.RequireIdentity())
	g.POST("/hold", h.CreateHold)
	g.POST("/:id/confirm", h.Confirm)
	g.POST("/:id/cancel", h.Cancel)
	g.POST("/:id/reschedule", h.Reschedule)
	g.GET("/:id", h.GetByID)
	g.GET("", h.List)
	return e
}

const holdBody = `{
	"venue_id": "v1", "court_id": "c1",
	"date": "2026-09-12", "start_time": "10:00", "end_time": "11:30",
	"idempotency_key": "order-001"
}`

func doRequest(e *echo.Echo, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func asClient(userID string) map[string]string {
	return map[string]string{"X-User-ID": userID}
}

func TestCreateHoldHandler(t *testing.T) {
	t.Run("fresh hold returns 201", func(t *testing.T) {
		service := new(MockReservationService)
		service.On("CreateHold", mock.Anything, identity.Actor{UserID: "u1", Role: identity.RoleClient}, mock.Anything).
			Return(&application.ReservationResponse{ID: "res-1", Status: "hold"}, false, nil)

		rec := doRequest(setupReservationRoutes(service), http.MethodPost, "/reservations/hold", holdBody, asClient("u1"))
		assert.Equal(t, http.StatusCreated, rec.Code)

		var resp application.ReservationResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "res-1", resp.ID)
	})

	t.Run("replay returns 200", func(t *testing.T) {
		service := new(MockReservationService)
		service.On("CreateHold", mock.Anything, mock.Anything, mock.Anything).
			Return(&application.ReservationResponse{ID: "res-1", Status: "hold"}, true, nil)

		rec := doRequest(setupReservationRoutes(service), http.MethodPost, "/reservations/hold", holdBody, asClient("u1"))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing identity returns 401", func(t *testing.T) {
		service := new(MockReservationService)
		rec := doRequest(setupReservationRoutes(service), http.MethodPost, "/reservations/hold", holdBody, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		service.AssertNotCalled(t, "CreateHold", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing fields return 400", func(t *testing.T) {
		service := new(MockReservationService)
		rec := doRequest(setupReservationRoutes(service), http.MethodPost, "/reservations/hold", `{"venue_id": "v1"}`, asClient("u1"))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("overlap maps to 409", func(t *testing.T) {
		service := new(MockReservationService)
		service.On("CreateHold", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, false, reservation.ErrOverlappingReservation)

		rec := doRequest(setupReservationRoutes(service), http.MethodPost, "/reservations/hold", holdBody, asClient("u1"))
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), "OVERLAPPING_RESERVATION")
	})
}

func TestConfirmHandler(t *testing.T) {
	t.Run("confirm succeeds", func(t *testing.T) {
		service := new(MockReservationService)
		service.On("Confirm", mock.Anything, mock.Anything, "res-1", "confirm-1").
			Return(&application.ReservationResponse{ID: "res-1", Status: "confirmed"}, false, nil)

		rec := doRequest(setupReservationRoutes(service), http.MethodPost, "/reservations/res-1/confirm",
			`{"idempotency_key": "confirm-1"}`, asClient("u1"))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("invalid state maps to 409", func(t *testing.T) {
		service := new(MockReservationService)
		service.On("Confirm", mock.Anything, mock.Anything, "res-1", "").
			Return(nil, false, &reservation.InvalidStateError{From: reservation.StatusExpired, Action: "confirm"})

		rec := doRequest(setupReservationRoutes(service), http.MethodPost, "/reservations/res-1/confirm", "", asClient("u1"))
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), "INVALID_STATE")
	})

	t.Run("unknown reservation maps to 404", func(t *testing.T) {
		service := new(MockReservationService)
		service.On("Confirm", mock.Anything, mock.Anything, "missing", "").
			Return(nil, false, reservation.ErrReservationNotFound)

		rec := doRequest(setupReservationRoutes(service), http.MethodPost, "/reservations/missing/confirm", "", asClient("u1"))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestCancelHandler(t *testing.T) {
	service := new(MockReservationService)
	service.On("Cancel", mock.Anything, mock.Anything, "res-1", "rain", "cancel-1").
		Return(&application.ReservationResponse{ID: "res-1", Status: "cancelled"}, false, nil)

	rec := doRequest(setupReservationRoutes(service), http.MethodPost, "/reservations/res-1/cancel",
		`{"reason": "rain", "idempotency_key": "cancel-1"}`, asClient("u1"))
	assert.Equal(t, http.StatusOK, rec.Code)
	service.AssertExpectations(t)
}

func TestRescheduleHandler(t *testing.T) {
	t.Run("reschedule returns 201", func(t *testing.T) {
		service := new(MockReservationService)
		service.On("Reschedule", mock.Anything, mock.Anything, "res-1", mock.Anything).
			Return(&application.ReservationResponse{ID: "res-2", Status: "confirmed"}, false, nil)

		rec := doRequest(setupReservationRoutes(service), http.MethodPost, "/reservations/res-1/reschedule",
			`{"date": "2026-09-13", "start_time": "15:00", "end_time": "16:00"}`, asClient("u1"))
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("foreign reservation maps to 403", func(t *testing.T) {
		service := new(MockReservationService)
		service.On("Reschedule", mock.Anything, mock.Anything, "res-1", mock.Anything).
			Return(nil, false, reservation.ErrNotOwner)

		rec := doRequest(setupReservationRoutes(service), http.MethodPost, "/reservations/res-1/reschedule",
			`{"date": "2026-09-13", "start_time": "15:00", "end_time": "16:00"}`, asClient("u2"))
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "FORBIDDEN")
	})
}

func TestListHandler(t *testing.T) {
	t.Run("defaults to the requesting user", func(t *testing.T) {
		service := new(MockReservationService)
		service.On("ListUserReservations", mock.Anything, mock.Anything, "u1", 0, 0).
			Return([]*application.ReservationResponse{{ID: "res-1"}}, nil)

		rec := doRequest(setupReservationRoutes(service), http.MethodGet, "/reservations", "", asClient("u1"))
		assert.Equal(t, http.StatusOK, rec.Code)
		service.AssertExpectations(t)
	})

	t.Run("staff can query another user", func(t *testing.T) {
		service := new(MockReservationService)
		service.On("ListUserReservations", mock.Anything,
			identity.Actor{UserID: "staff-1", Role: identity.RoleOperator}, "u1", 10, 0).
			Return([]*application.ReservationResponse{}, nil)

		rec := doRequest(setupReservationRoutes(service), http.MethodGet, "/reservations?user_id=u1&limit=10",
			"", map[string]string{"X-User-ID": "staff-1", "X-User-Role": identity.RoleOperator})
		assert.Equal(t, http.StatusOK, rec.Code)
		service.AssertExpectations(t)
	})
}
