package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestServer wraps the shared echo instance.
type TestServer struct {
	Echo *echo.Echo
}

// Request executes an HTTP request against the in-process server.
func (s *TestServer) Request(method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var reqBody []byte
	if body != nil {
		reqBody, _ = json.Marshal(body)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	return rec
}

func asUser(userID string) map[string]string {
	return map[string]string{"X-User-ID": userID}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestE2E_HealthCheck(t *testing.T) {
	server := getTestServer(t)

	rec := server.Request("GET", "/health", nil, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody(t, rec)
	assert.Equal(t, "ok", resp["status"])
}

func TestE2E_CompleteBookingJourney(t *testing.T) {
	server := getTestServer(t)
	cat := seedCatalog(t)
	date := bookingDate()
	userID := "e2e-user-maria"

	var reservationID string

	t.Run("pricing resolves the court tariff", func(t *testing.T) {
		path := fmt.Sprintf("/api/v1/venues/%s/pricing?court_id=%s&date=%s&start_time=10:00&end_time=11:30",
			cat.VenueID, cat.CourtID, date)
		rec := server.Request("GET", path, nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decodeBody(t, rec)
		assert.Equal(t, "cancha", resp["origin"])
		assert.Equal(t, float64(100000), resp["price_per_block"])
	})

	t.Run("hold freezes the price", func(t *testing.T) {
		body := map[string]interface{}{
			"venue_id":        cat.VenueID,
			"court_id":        cat.CourtID,
			"date":            date,
			"start_time":      "10:00",
			"end_time":        "11:30",
			"idempotency_key": "e2e-order-001",
		}
		rec := server.Request("POST", "/api/v1/reservations/hold", body, asUser(userID))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		resp := decodeBody(t, rec)
		reservationID = resp["id"].(string)
		assert.Equal(t, "hold", resp["status"])
		assert.Equal(t, float64(150000), resp["total_amount"])
		assert.NotEmpty(t, resp["hold_expires_at"])
	})

	t.Run("retrying the hold replays it", func(t *testing.T) {
		body := map[string]interface{}{
			"venue_id":        cat.VenueID,
			"court_id":        cat.CourtID,
			"date":            date,
			"start_time":      "10:00",
			"end_time":        "11:30",
			"idempotency_key": "e2e-order-001",
		}
		rec := server.Request("POST", "/api/v1/reservations/hold", body, asUser(userID))
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decodeBody(t, rec)
		assert.Equal(t, reservationID, resp["id"])
	})

	t.Run("confirm keeps the snapshot", func(t *testing.T) {
		path := fmt.Sprintf("/api/v1/reservations/%s/confirm", reservationID)
		rec := server.Request("POST", path, map[string]interface{}{}, asUser(userID))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		resp := decodeBody(t, rec)
		assert.Equal(t, "confirmed", resp["status"])
		assert.Equal(t, float64(150000), resp["total_amount"])
	})

	t.Run("schedule shows the slot occupied", func(t *testing.T) {
		path := fmt.Sprintf("/api/v1/venues/%s/courts/%s/schedule?date=%s", cat.VenueID, cat.CourtID, date)
		rec := server.Request("GET", path, nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decodeBody(t, rec)
		slots := resp["slots"].([]interface{})
		occupied := false
		for _, raw := range slots {
			slot := raw.(map[string]interface{})
			if slot["start_time"] == "10:00" && slot["end_time"] == "11:30" {
				occupied = slot["occupied"].(bool)
			}
		}
		assert.True(t, occupied)
	})

	t.Run("cancel well in advance refunds in full", func(t *testing.T) {
		path := fmt.Sprintf("/api/v1/reservations/%s/cancel", reservationID)
		body := map[string]interface{}{"reason": "no puedo asistir", "idempotency_key": "e2e-cancel-001"}
		rec := server.Request("POST", path, body, asUser(userID))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		resp := decodeBody(t, rec)
		assert.Equal(t, "cancelled", resp["status"])
		refund := resp["refund"].(map[string]interface{})
		assert.Equal(t, "total", refund["type"])
		assert.Equal(t, float64(150000), refund["amount"])
	})

	t.Run("cancelled slot is free again", func(t *testing.T) {
		body := map[string]interface{}{
			"venue_id":        cat.VenueID,
			"court_id":        cat.CourtID,
			"date":            date,
			"start_time":      "10:00",
			"end_time":        "11:30",
			"idempotency_key": "e2e-order-002",
		}
		rec := server.Request("POST", "/api/v1/reservations/hold", body, asUser("e2e-user-carlos"))
		assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	})
}

func TestE2E_OverlappingHolds(t *testing.T) {
	server := getTestServer(t)
	cat := seedCatalog(t)
	date := bookingDate()

	holdBody := func(courtID, start, end, key string) map[string]interface{} {
		return map[string]interface{}{
			"venue_id":        cat.VenueID,
			"court_id":        courtID,
			"date":            date,
			"start_time":      start,
			"end_time":        end,
			"idempotency_key": key,
		}
	}

	rec := server.Request("POST", "/api/v1/reservations/hold",
		holdBody(cat.CourtID, "10:00", "11:30", "e2e-overlap-a"), asUser("user-A"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	t.Run("overlapping slot is rejected", func(t *testing.T) {
		rec := server.Request("POST", "/api/v1/reservations/hold",
			holdBody(cat.CourtID, "11:00", "12:00", "e2e-overlap-b"), asUser("user-B"))
		require.Equal(t, http.StatusConflict, rec.Code)

		resp := decodeBody(t, rec)
		assert.Equal(t, "OVERLAPPING_RESERVATION", resp["code"])
	})

	t.Run("slot inside the buffer is rejected", func(t *testing.T) {
		rec := server.Request("POST", "/api/v1/reservations/hold",
			holdBody(cat.CourtID, "11:30", "12:30", "e2e-overlap-c"), asUser("user-B"))
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("slot past the buffer is accepted", func(t *testing.T) {
		rec := server.Request("POST", "/api/v1/reservations/hold",
			holdBody(cat.CourtID, "11:45", "12:45", "e2e-overlap-d"), asUser("user-B"))
		assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	})

	t.Run("other court is unaffected", func(t *testing.T) {
		rec := server.Request("POST", "/api/v1/reservations/hold",
			holdBody(cat.Court2ID, "10:00", "11:30", "e2e-overlap-e"), asUser("user-B"))
		assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	})
}

func TestE2E_Reschedule(t *testing.T) {
	server := getTestServer(t)
	cat := seedCatalog(t)
	date := bookingDate()
	userID := "e2e-user-lucia"

	body := map[string]interface{}{
		"venue_id":        cat.VenueID,
		"court_id":        cat.CourtID,
		"date":            date,
		"start_time":      "10:00",
		"end_time":        "11:30",
		"idempotency_key": "e2e-resch-hold",
	}
	rec := server.Request("POST", "/api/v1/reservations/hold", body, asUser(userID))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	originalID := decodeBody(t, rec)["id"].(string)

	rec = server.Request("POST", fmt.Sprintf("/api/v1/reservations/%s/confirm", originalID),
		map[string]interface{}{}, asUser(userID))
	require.Equal(t, http.StatusOK, rec.Code)

	var newID string

	t.Run("moving to a shorter slot refunds the difference", func(t *testing.T) {
		reschBody := map[string]interface{}{
			"date":            date,
			"start_time":      "14:00",
			"end_time":        "15:00",
			"idempotency_key": "e2e-resch-move",
		}
		rec := server.Request("POST", fmt.Sprintf("/api/v1/reservations/%s/reschedule", originalID),
			reschBody, asUser(userID))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		resp := decodeBody(t, rec)
		newID = resp["id"].(string)
		assert.NotEqual(t, originalID, newID)
		assert.Equal(t, "confirmed", resp["status"])
		assert.Equal(t, float64(100000), resp["total_amount"])
		assert.Equal(t, originalID, resp["rescheduled_from"])

		diff := resp["price_difference"].(map[string]interface{})
		assert.Equal(t, "reembolso_parcial", diff["type"])
		assert.Equal(t, float64(50000), diff["amount"])
	})

	t.Run("original reservation is reprogrammed", func(t *testing.T) {
		rec := server.Request("GET", fmt.Sprintf("/api/v1/reservations/%s", originalID), nil, asUser(userID))
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decodeBody(t, rec)
		assert.Equal(t, "reprogrammed", resp["status"])
	})

	t.Run("old slot no longer blocks", func(t *testing.T) {
		body := map[string]interface{}{
			"venue_id":        cat.VenueID,
			"court_id":        cat.CourtID,
			"date":            date,
			"start_time":      "10:00",
			"end_time":        "11:30",
			"idempotency_key": "e2e-resch-rebook",
		}
		rec := server.Request("POST", "/api/v1/reservations/hold", body, asUser("e2e-user-other"))
		assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	})
}
