// Package scheduling is the application layer: typed commands and queries,
// their handlers, and the DTOs returned to callers. Handlers orchestrate the
// booking aggregate, the availability service and the repository ports; they
// hold no state of their own.
package scheduling

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/francis1990/clinic-booking-backend/internal/availability"
	"github.com/francis1990/clinic-booking-backend/internal/booking"
	"github.com/francis1990/clinic-booking-backend/internal/client"
	"github.com/francis1990/clinic-booking-backend/internal/event"
	"github.com/francis1990/clinic-booking-backend/internal/pkg/apperror"
	"github.com/francis1990/clinic-booking-backend/internal/resource"
)

var ErrResourceNotAvailable = apperror.New(http.StatusConflict, "resource is not available for the requested time")

// CreateBooking books a resource for a client over a time range.
type CreateBooking struct {
	ResourceID   resource.ID
	ClientID     client.ID
	TimeRange    booking.TimeRange
	Notes        *string
	TreatmentIDs []int64
}

// ConfirmBooking confirms a pending booking.
type ConfirmBooking struct {
	BookingID booking.ID
}

// CancelBooking cancels a booking.
type CancelBooking struct {
	BookingID booking.ID
}

// CompleteBooking marks a confirmed booking as completed.
type CompleteBooking struct {
	BookingID booking.ID
}

// RescheduleBooking moves a booking to a new time range, resetting it to
// pending.
type RescheduleBooking struct {
	BookingID booking.ID
	NewRange  booking.TimeRange
}

// publish delivers an event without failing the command. The mutation is
// already persisted; a lost notification only costs an alert.
func publish(ctx context.Context, pub event.Publisher, e event.Event) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, e); err != nil {
		slog.Warn("event publish failed", "event", e.Name(), "error", err)
	}
}

type CreateBookingHandler struct {
	bookings     booking.Repository
	availability *availability.Service
	events       event.Publisher
}

func NewCreateBookingHandler(bookings booking.Repository, avail *availability.Service, events event.Publisher) *CreateBookingHandler {
	return &CreateBookingHandler{bookings: bookings, availability: avail, events: events}
}

func (h *CreateBookingHandler) Handle(ctx context.Context, cmd CreateBooking) (any, error) {
	free, err := h.availability.IsAvailable(ctx, cmd.ResourceID, cmd.TimeRange, 0)
	if err != nil {
		return nil, err
	}
	if !free {
		return nil, ErrResourceNotAvailable
	}

	b := booking.New(cmd.ResourceID, cmd.ClientID, cmd.TimeRange, cmd.Notes, cmd.TreatmentIDs)
	if err := h.bookings.Save(ctx, b); err != nil {
		return nil, err
	}

	id, _ := b.ID()
	publish(ctx, h.events, event.BookingCreated{
		BookingID:  id,
		ResourceID: cmd.ResourceID,
		ClientID:   cmd.ClientID,
		StartTime:  cmd.TimeRange.Start(),
		EndTime:    cmd.TimeRange.End(),
	})

	return NewBookingDTO(b), nil
}

type ConfirmBookingHandler struct {
	bookings booking.Repository
	events   event.Publisher
}

func NewConfirmBookingHandler(bookings booking.Repository, events event.Publisher) *ConfirmBookingHandler {
	return &ConfirmBookingHandler{bookings: bookings, events: events}
}

func (h *ConfirmBookingHandler) Handle(ctx context.Context, cmd ConfirmBooking) (any, error) {
	b, err := h.bookings.FindByID(ctx, cmd.BookingID)
	if err != nil {
		return nil, err
	}
	if err := b.Confirm(); err != nil {
		return nil, err
	}
	if err := h.bookings.Save(ctx, b); err != nil {
		return nil, err
	}

	publish(ctx, h.events, event.BookingConfirmed{BookingID: cmd.BookingID})
	return NewBookingDTO(b), nil
}

type CancelBookingHandler struct {
	bookings booking.Repository
	events   event.Publisher
}

func NewCancelBookingHandler(bookings booking.Repository, events event.Publisher) *CancelBookingHandler {
	return &CancelBookingHandler{bookings: bookings, events: events}
}

func (h *CancelBookingHandler) Handle(ctx context.Context, cmd CancelBooking) (any, error) {
	b, err := h.bookings.FindByID(ctx, cmd.BookingID)
	if err != nil {
		return nil, err
	}
	if err := b.Cancel(); err != nil {
		return nil, err
	}
	if err := h.bookings.Save(ctx, b); err != nil {
		return nil, err
	}

	publish(ctx, h.events, event.BookingCancelled{BookingID: cmd.BookingID})
	return nil, nil
}

type CompleteBookingHandler struct {
	bookings booking.Repository
	events   event.Publisher
}

func NewCompleteBookingHandler(bookings booking.Repository, events event.Publisher) *CompleteBookingHandler {
	return &CompleteBookingHandler{bookings: bookings, events: events}
}

func (h *CompleteBookingHandler) Handle(ctx context.Context, cmd CompleteBooking) (any, error) {
	b, err := h.bookings.FindByID(ctx, cmd.BookingID)
	if err != nil {
		return nil, err
	}
	if err := b.Complete(); err != nil {
		return nil, err
	}
	if err := h.bookings.Save(ctx, b); err != nil {
		return nil, err
	}

	publish(ctx, h.events, event.BookingCompleted{BookingID: cmd.BookingID})
	return NewBookingDTO(b), nil
}

type RescheduleBookingHandler struct {
	bookings     booking.Repository
	availability *availability.Service
	events       event.Publisher
}

func NewRescheduleBookingHandler(bookings booking.Repository, avail *availability.Service, events event.Publisher) *RescheduleBookingHandler {
	return &RescheduleBookingHandler{bookings: bookings, availability: avail, events: events}
}

func (h *RescheduleBookingHandler) Handle(ctx context.Context, cmd RescheduleBooking) (any, error) {
	b, err := h.bookings.FindByID(ctx, cmd.BookingID)
	if err != nil {
		return nil, err
	}

	// The booking being moved must not count against itself.
	free, err := h.availability.IsAvailable(ctx, b.ResourceID(), cmd.NewRange, cmd.BookingID)
	if err != nil {
		return nil, err
	}
	if !free {
		return nil, ErrResourceNotAvailable
	}

	if err := b.Reschedule(cmd.NewRange); err != nil {
		return nil, err
	}
	if err := h.bookings.Save(ctx, b); err != nil {
		return nil, err
	}

	publish(ctx, h.events, event.BookingRescheduled{
		BookingID: cmd.BookingID,
		StartTime: cmd.NewRange.Start(),
		EndTime:   cmd.NewRange.End(),
	})
	return NewBookingDTO(b), nil
}

// RegisterClient stores a new client record.
type RegisterClient struct {
	Name  string
	Email string
	Phone *string
	Notes *string
}

type RegisterClientHandler struct {
	clients client.Repository
}

func NewRegisterClientHandler(clients client.Repository) *RegisterClientHandler {
	return &RegisterClientHandler{clients: clients}
}

func (h *RegisterClientHandler) Handle(ctx context.Context, cmd RegisterClient) (any, error) {
	if cmd.Name == "" {
		return nil, client.ErrNameRequired
	}
	if cmd.Email == "" {
		return nil, client.ErrEmailRequired
	}

	c := &client.Client{
		Name:  cmd.Name,
		Email: cmd.Email,
		Phone: cmd.Phone,
		Notes: cmd.Notes,
	}
	if err := h.clients.Save(ctx, c); err != nil {
		return nil, err
	}
	return NewClientDTO(c), nil
}
