package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/canchago/go-court-reservation/internal/application"
	"github.com/canchago/go-court-reservation/internal/domain/tariff"
	"github.com/labstack/echo/v4"
)

type MockPricingService struct {
	mock.Mock
}

func (m *MockPricingService) ResolvePrice(ctx context.Context, in application.ResolvePriceInput) (*tariff.Resolution, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tariff.Resolution), args.Error(1)
}

func setupPricingRoutes(service PricingServiceInterface) *echo.Echo {
	e := NewTestEcho()
	e.GET("/venues/:venueId/pricing", NewPricingHandler(service).Resolve)
	return e
}

func TestResolvePricingHandler(t *testing.T) {
	t.Run("resolved price", func(t *testing.T) {
		service := new(MockPricingService)
		service.On("ResolvePrice", mock.Anything, application.ResolvePriceInput{
			VenueID: "v1", CourtID: "c1",
			Date: "2026-09-12", Start: "10:00", End: "11:30",
		}).Return(&tariff.Resolution{
			Origin: tariff.ScopeCourt, TariffID: "t1", Currency: "COP", PricePerBlock: 100000,
		}, nil)

		req := httptest.NewRequest(http.MethodGet,
			"/venues/v1/pricing?court_id=c1&date=2026-09-12&start_time=10:00&end_time=11:30", nil)
		rec := httptest.NewRecorder()
		setupPricingRoutes(service).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"origin":"cancha"`)
		service.AssertExpectations(t)
	})

	t.Run("missing parameters return 400", func(t *testing.T) {
		service := new(MockPricingService)
		req := httptest.NewRequest(http.MethodGet, "/venues/v1/pricing?date=2026-09-12", nil)
		rec := httptest.NewRecorder()
		setupPricingRoutes(service).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		service.AssertNotCalled(t, "ResolvePrice", mock.Anything, mock.Anything)
	})

	t.Run("no tariff maps to 404", func(t *testing.T) {
		service := new(MockPricingService)
		service.On("ResolvePrice", mock.Anything, mock.Anything).
			Return(nil, tariff.ErrNoApplicableTariff)

		req := httptest.NewRequest(http.MethodGet,
			"/venues/v1/pricing?date=2026-09-12&start_time=06:00&end_time=07:00", nil)
		rec := httptest.NewRecorder()
		setupPricingRoutes(service).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "NO_APPLICABLE_TARIFF")
	})
}
