package booking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medagenda/booking-api/internal/repository/localstore"
	appointmentService "github.com/medagenda/booking-api/internal/service/appointment"
	"github.com/medagenda/booking-api/internal/service/schedule"
	"github.com/medagenda/booking-api/pkg/metrics"
	"github.com/medagenda/booking-api/pkg/token"
)

// A Monday inside the seeded agenda.
var testMonday = time.Date(2024, 6, 10, 8, 0, 0, 0, time.Local)

type env struct {
	engine *gin.Engine
	now    time.Time
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := localstore.New(context.Background(), localstore.NewMemoryNamespace())
	require.NoError(t, err)

	e := &env{now: testMonday}
	clock := func() time.Time { return e.now }

	slotSvc := schedule.NewService(store).WithClock(clock)
	apptSvc := appointmentService.NewService(store, token.NewGenerator(token.DefaultBytes)).WithClock(clock)

	h := NewHandler(slotSvc, apptSvc, 21, metrics.NewWith("booking_test", prometheus.NewRegistry()))

	engine := gin.New()
	h.RegisterRoutes(engine.Group("/api/v1/public"))
	e.engine = engine
	return e
}

func (e *env) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)

	var parsed map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	}
	return w, parsed
}

func bookingBody(start time.Time) map[string]interface{} {
	return map[string]interface{}{
		"start": start.Format(time.RFC3339),
		"end":   start.Add(30 * time.Minute).Format(time.RFC3339),
		"name":  "Carlos Dias",
		"email": "carlos@example.com",
		"phone": "11 98888-7777",
	}
}

func mondayAt(hour, min int) time.Time {
	return time.Date(2024, 6, 10, hour, min, 0, 0, time.Local)
}

func TestListSlots(t *testing.T) {
	e := newEnv(t)

	w, resp := e.do(t, http.MethodGet, "/api/v1/public/slots?days=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", resp["status"])

	// Seeded Monday agenda: 6 morning slots plus 10 afternoon slots.
	slots := resp["data"].([]interface{})
	assert.Len(t, slots, 16)
}

func TestListSlots_InvalidHorizon(t *testing.T) {
	e := newEnv(t)

	w, _ := e.do(t, http.MethodGet, "/api/v1/public/slots?days=1000", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateAppointment(t *testing.T) {
	e := newEnv(t)

	w, resp := e.do(t, http.MethodPost, "/api/v1/public/appointments", bookingBody(mondayAt(9, 0)))
	require.Equal(t, http.StatusCreated, w.Code)

	data := resp["data"].(map[string]interface{})
	appt := data["appointment"].(map[string]interface{})
	assert.Equal(t, "PENDING", appt["status"])
	assert.NotEmpty(t, data["confirmation_url"])
	assert.NotEmpty(t, data["management_url"])
	assert.Equal(t, float64(48), data["confirmation_deadline_hours"])

	// The booked slot disappears from the next read.
	w, resp = e.do(t, http.MethodGet, "/api/v1/public/slots?days=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, resp["data"].([]interface{}), 15)
}

func TestCreateAppointment_ValidationFailure(t *testing.T) {
	e := newEnv(t)

	body := bookingBody(mondayAt(9, 0))
	delete(body, "email")

	w, resp := e.do(t, http.MethodPost, "/api/v1/public/appointments", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "error", resp["status"])
}

func TestConfirmFlow(t *testing.T) {
	e := newEnv(t)

	_, resp := e.do(t, http.MethodPost, "/api/v1/public/appointments", bookingBody(mondayAt(9, 0)))
	appt := resp["data"].(map[string]interface{})["appointment"].(map[string]interface{})
	confirmToken := appt["confirmation_token"].(string)

	w, resp := e.do(t, http.MethodPost, "/api/v1/public/confirmations/"+confirmToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	res := resp["data"].(map[string]interface{})
	assert.Equal(t, "CONFIRMED", res["outcome"])

	// Idempotent second confirmation.
	w, resp = e.do(t, http.MethodPost, "/api/v1/public/confirmations/"+confirmToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	res = resp["data"].(map[string]interface{})
	assert.Equal(t, "ALREADY_CONFIRMED", res["outcome"])
}

func TestConfirm_ExpiredOutcome(t *testing.T) {
	e := newEnv(t)

	// Booking a slot only 25 hours out puts its 48h deadline in the past.
	start := testMonday.Add(25 * time.Hour)
	_, resp := e.do(t, http.MethodPost, "/api/v1/public/appointments", bookingBody(start))
	appt := resp["data"].(map[string]interface{})["appointment"].(map[string]interface{})
	confirmToken := appt["confirmation_token"].(string)

	w, resp := e.do(t, http.MethodPost, "/api/v1/public/confirmations/"+confirmToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	res := resp["data"].(map[string]interface{})
	assert.Equal(t, "EXPIRED", res["outcome"])
	assert.Equal(t, "NOT_CONFIRMED", res["appointment"].(map[string]interface{})["status"])
}

func TestConfirm_UnknownToken(t *testing.T) {
	e := newEnv(t)

	w, resp := e.do(t, http.MethodPost, "/api/v1/public/confirmations/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "error", resp["status"])
}

func TestManageAndCancelFlow(t *testing.T) {
	e := newEnv(t)

	_, resp := e.do(t, http.MethodPost, "/api/v1/public/appointments", bookingBody(mondayAt(9, 0)))
	appt := resp["data"].(map[string]interface{})["appointment"].(map[string]interface{})
	manageToken := appt["management_token"].(string)
	base := "/api/v1/public/appointments/manage/" + manageToken

	w, resp := e.do(t, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "PENDING", resp["data"].(map[string]interface{})["status"])

	w, resp = e.do(t, http.MethodDelete, base, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "CANCELED", resp["data"].(map[string]interface{})["outcome"])

	w, resp = e.do(t, http.MethodDelete, base, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ALREADY_CANCELED", resp["data"].(map[string]interface{})["outcome"])

	// The canceled slot is offered again.
	w, resp = e.do(t, http.MethodGet, fmt.Sprintf("/api/v1/public/slots?days=%d", 1), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, resp["data"].([]interface{}), 16)
}
