package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/francis1990/clinic-booking-backend/internal/booking"
	"github.com/francis1990/clinic-booking-backend/internal/bus"
	"github.com/francis1990/clinic-booking-backend/internal/client"
	"github.com/francis1990/clinic-booking-backend/internal/metrics"
	"github.com/francis1990/clinic-booking-backend/internal/pkg/response"
	"github.com/francis1990/clinic-booking-backend/internal/resource"
	"github.com/francis1990/clinic-booking-backend/internal/scheduling"
)

// BookingHandler translates HTTP requests into commands and queries. All
// business decisions live behind the buses.
type BookingHandler struct {
	commands  *bus.CommandBus
	queries   *bus.QueryBus
	collector *metrics.Collector
}

func NewBookingHandler(commands *bus.CommandBus, queries *bus.QueryBus, collector *metrics.Collector) *BookingHandler {
	return &BookingHandler{commands: commands, queries: queries, collector: collector}
}

func (h *BookingHandler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}

	timeRange, err := booking.NewTimeRange(req.StartTime, req.EndTime)
	if err != nil {
		response.Error(c, err)
		return
	}

	dto, err := bus.Exec[scheduling.BookingDTO](c.Request.Context(), h.commands, scheduling.CreateBooking{
		ResourceID:   resource.ID(req.ResourceID),
		ClientID:     client.ID(req.ClientID),
		TimeRange:    timeRange,
		Notes:        req.Notes,
		TreatmentIDs: req.TreatmentIDs,
	})
	if err != nil {
		if errors.Is(err, scheduling.ErrResourceNotAvailable) || errors.Is(err, booking.ErrSlotTaken) {
			h.collector.RecordBookingConflict()
		}
		response.Error(c, err)
		return
	}

	h.collector.RecordBookingCreated()
	c.JSON(http.StatusCreated, dto)
}

func (h *BookingHandler) List(c *gin.Context) {
	var req ListBookingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}

	q := scheduling.ListBookings{
		Status:     booking.Status(req.Status),
		ResourceID: resource.ID(req.ResourceID),
	}
	if req.Date != "" {
		date, _ := time.Parse("2006-01-02", req.Date)
		q.Date = &date
	}

	dtos, err := bus.Query[[]scheduling.BookingDTO](c.Request.Context(), h.queries, q)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewListResponse(dtos))
}

func (h *BookingHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	details, err := bus.Query[scheduling.BookingDetailsDTO](c.Request.Context(), h.queries,
		scheduling.GetBookingDetails{BookingID: booking.ID(id)})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

func (h *BookingHandler) Confirm(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	dto, err := bus.Exec[scheduling.BookingDTO](c.Request.Context(), h.commands,
		scheduling.ConfirmBooking{BookingID: booking.ID(id)})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto)
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if _, err := h.commands.Dispatch(c.Request.Context(),
		scheduling.CancelBooking{BookingID: booking.ID(id)}); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BookingHandler) Complete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	dto, err := bus.Exec[scheduling.BookingDTO](c.Request.Context(), h.commands,
		scheduling.CompleteBooking{BookingID: booking.ID(id)})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto)
}

func (h *BookingHandler) Reschedule(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req RescheduleBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}

	newRange, err := booking.NewTimeRange(req.StartTime, req.EndTime)
	if err != nil {
		response.Error(c, err)
		return
	}

	dto, err := bus.Exec[scheduling.BookingDTO](c.Request.Context(), h.commands,
		scheduling.RescheduleBooking{BookingID: booking.ID(id), NewRange: newRange})
	if err != nil {
		if errors.Is(err, scheduling.ErrResourceNotAvailable) || errors.Is(err, booking.ErrSlotTaken) {
			h.collector.RecordBookingConflict()
		}
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto)
}
