package api

import (
	"bytes"
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

	"github.com/francis1990/clinic-booking-backend/internal/availability"
	"github.com/francis1990/clinic-booking-backend/internal/booking"
	"github.com/francis1990/clinic-booking-backend/internal/bus"
	"github.com/francis1990/clinic-booking-backend/internal/client"
	"github.com/francis1990/clinic-booking-backend/internal/event"
	"github.com/francis1990/clinic-booking-backend/internal/metrics"
	"github.com/francis1990/clinic-booking-backend/internal/resource"
	"github.com/francis1990/clinic-booking-backend/internal/pkg/response"
	"github.com/francis1990/clinic-booking-backend/internal/scheduling"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	bookings := booking.NewMemoryRepository()
	resources := resource.NewMemoryRepository(
		&resource.Resource{ID: 1, Name: "Laura", LastName: "Santos", Specialties: []string{"orthodontics"}},
		&resource.Resource{ID: 2, Name: "Pedro", LastName: "Iglesias"},
	)
	clients := client.NewMemoryRepository(
		&client.Client{ID: 1, Name: "Ana Torres", Email: "ana@example.com"},
	)
	events := event.NewMemoryPublisher()
	avail := availability.NewService(bookings)

	commands := bus.NewCommandBus()
	require.NoError(t, bus.RegisterCommand(commands, scheduling.NewCreateBookingHandler(bookings, avail, events)))
	require.NoError(t, bus.RegisterCommand(commands, scheduling.NewConfirmBookingHandler(bookings, events)))
	require.NoError(t, bus.RegisterCommand(commands, scheduling.NewCancelBookingHandler(bookings, events)))
	require.NoError(t, bus.RegisterCommand(commands, scheduling.NewCompleteBookingHandler(bookings, events)))
	require.NoError(t, bus.RegisterCommand(commands, scheduling.NewRescheduleBookingHandler(bookings, avail, events)))
	require.NoError(t, bus.RegisterCommand(commands, scheduling.NewRegisterClientHandler(clients)))

	queries := bus.NewQueryBus()
	require.NoError(t, bus.RegisterQuery(queries, scheduling.NewGetAvailableSlotsHandler(resources, avail)))
	require.NoError(t, bus.RegisterQuery(queries, scheduling.NewGetBookingDetailsHandler(bookings, resources, clients)))
	require.NoError(t, bus.RegisterQuery(queries, scheduling.NewListBookingsHandler(bookings)))
	require.NoError(t, bus.RegisterQuery(queries, scheduling.NewGetResourceScheduleHandler(bookings, resources)))
	require.NoError(t, bus.RegisterQuery(queries, scheduling.NewListClientBookingsHandler(bookings, clients)))
	require.NoError(t, bus.RegisterQuery(queries, scheduling.NewListResourcesHandler(resources)))
	require.NoError(t, bus.RegisterQuery(queries, scheduling.NewGetResourceHandler(resources)))
	require.NoError(t, bus.RegisterQuery(queries, scheduling.NewListClientsHandler(clients)))

	registry := prometheus.NewRegistry()
	return NewRouter(Config{
		Commands:  commands,
		Queries:   queries,
		Collector: metrics.NewCollector(registry),
		Registry:  registry,
	})
}

func executeRequest(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), "body: %s", w.Body.String())
	return v
}

func TestBookingLifecycleOverHTTP(t *testing.T) {
	router := newTestRouter(t)

	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	createBody := CreateBookingRequest{
		ResourceID: 1,
		ClientID:   1,
		StartTime:  start,
		EndTime:    start.Add(45 * time.Minute),
	}

	var bookingID int64

	t.Run("create", func(t *testing.T) {
		w := executeRequest(t, router, "POST", "/v1/bookings", createBody)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		dto := decode[scheduling.BookingDTO](t, w)
		assert.NotZero(t, dto.ID)
		assert.Equal(t, "pending", dto.Status)
		bookingID = dto.ID
	})

	t.Run("create conflict", func(t *testing.T) {
		conflicting := createBody
		conflicting.StartTime = start.Add(30 * time.Minute)
		conflicting.EndTime = start.Add(time.Hour)

		w := executeRequest(t, router, "POST", "/v1/bookings", conflicting)
		require.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("create with invalid range", func(t *testing.T) {
		invalid := createBody
		invalid.EndTime = invalid.StartTime

		w := executeRequest(t, router, "POST", "/v1/bookings", invalid)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("details", func(t *testing.T) {
		w := executeRequest(t, router, "GET", fmt.Sprintf("/v1/bookings/%d", bookingID), nil)
		require.Equal(t, http.StatusOK, w.Code)

		details := decode[scheduling.BookingDetailsDTO](t, w)
		assert.Equal(t, bookingID, details.Booking.ID)
		require.NotNil(t, details.Resource)
		assert.Equal(t, "Laura", details.Resource.Name)
	})

	t.Run("confirm", func(t *testing.T) {
		w := executeRequest(t, router, "POST", fmt.Sprintf("/v1/bookings/%d/confirm", bookingID), nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "confirmed", decode[scheduling.BookingDTO](t, w).Status)
	})

	t.Run("reschedule", func(t *testing.T) {
		w := executeRequest(t, router, "PATCH", fmt.Sprintf("/v1/bookings/%d/reschedule", bookingID), RescheduleBookingRequest{
			StartTime: start.Add(2 * time.Hour),
			EndTime:   start.Add(2*time.Hour + 45*time.Minute),
		})
		require.Equal(t, http.StatusOK, w.Code)

		dto := decode[scheduling.BookingDTO](t, w)
		assert.Equal(t, "pending", dto.Status)
	})

	t.Run("cancel", func(t *testing.T) {
		w := executeRequest(t, router, "POST", fmt.Sprintf("/v1/bookings/%d/cancel", bookingID), nil)
		require.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("complete cancelled booking fails", func(t *testing.T) {
		w := executeRequest(t, router, "POST", fmt.Sprintf("/v1/bookings/%d/complete", bookingID), nil)
		require.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("missing booking", func(t *testing.T) {
		w := executeRequest(t, router, "GET", "/v1/bookings/9999", nil)
		require.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("bad id", func(t *testing.T) {
		w := executeRequest(t, router, "GET", "/v1/bookings/abc", nil)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestListBookingsOverHTTP(t *testing.T) {
	router := newTestRouter(t)

	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	w := executeRequest(t, router, "POST", "/v1/bookings", CreateBookingRequest{
		ResourceID: 1,
		ClientID:   1,
		StartTime:  start,
		EndTime:    start.Add(time.Hour),
	})
	require.Equal(t, http.StatusCreated, w.Code)

	t.Run("all", func(t *testing.T) {
		w := executeRequest(t, router, "GET", "/v1/bookings", nil)
		require.Equal(t, http.StatusOK, w.Code)

		list := decode[response.ListResponse[scheduling.BookingDTO]](t, w)
		assert.Equal(t, 1, list.Count)
	})

	t.Run("filtered by status", func(t *testing.T) {
		w := executeRequest(t, router, "GET", "/v1/bookings?status=confirmed", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 0, decode[response.ListResponse[scheduling.BookingDTO]](t, w).Count)
	})

	t.Run("invalid status", func(t *testing.T) {
		w := executeRequest(t, router, "GET", "/v1/bookings?status=bogus", nil)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestResourceEndpoints(t *testing.T) {
	router := newTestRouter(t)

	t.Run("list", func(t *testing.T) {
		w := executeRequest(t, router, "GET", "/v1/resources", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 2, decode[response.ListResponse[scheduling.ResourceDTO]](t, w).Count)
	})

	t.Run("get", func(t *testing.T) {
		w := executeRequest(t, router, "GET", "/v1/resources/1", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Laura", decode[scheduling.ResourceDTO](t, w).Name)
	})

	t.Run("slots", func(t *testing.T) {
		w := executeRequest(t, router, "GET", "/v1/resources/1/slots?date=2026-03-10&duration=30", nil)
		require.Equal(t, http.StatusOK, w.Code)

		list := decode[response.ListResponse[scheduling.AvailableSlotDTO]](t, w)
		assert.Equal(t, 24, list.Count)
	})

	t.Run("slots require a date", func(t *testing.T) {
		w := executeRequest(t, router, "GET", "/v1/resources/1/slots", nil)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("schedule", func(t *testing.T) {
		w := executeRequest(t, router, "GET", "/v1/resources/1/schedule?date=2026-03-10", nil)
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unknown resource", func(t *testing.T) {
		w := executeRequest(t, router, "GET", "/v1/resources/404", nil)
		require.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestClientEndpoints(t *testing.T) {
	router := newTestRouter(t)

	t.Run("create", func(t *testing.T) {
		w := executeRequest(t, router, "POST", "/v1/clients", CreateClientRequest{
			Name:  "Carlos Ruiz",
			Email: "carlos@example.com",
		})
		require.Equal(t, http.StatusCreated, w.Code)
		assert.NotZero(t, decode[scheduling.ClientDTO](t, w).ID)
	})

	t.Run("create without email", func(t *testing.T) {
		w := executeRequest(t, router, "POST", "/v1/clients", map[string]string{"name": "No Email"})
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("list", func(t *testing.T) {
		w := executeRequest(t, router, "GET", "/v1/clients", nil)
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("bookings of unknown client", func(t *testing.T) {
		w := executeRequest(t, router, "GET", "/v1/clients/404/bookings", nil)
		require.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHealthAndMetrics(t *testing.T) {
	router := newTestRouter(t)

	w := executeRequest(t, router, "GET", "/healthz", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = executeRequest(t, router, "GET", "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
}
