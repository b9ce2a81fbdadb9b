package scheduling

import (
	"context"
	"errors"
	"time"

	"github.com/francis1990/clinic-booking-backend/internal/availability"
	"github.com/francis1990/clinic-booking-backend/internal/booking"
	"github.com/francis1990/clinic-booking-backend/internal/client"
	"github.com/francis1990/clinic-booking-backend/internal/resource"
)

// GetAvailableSlots asks for the free slots of a resource on a date, tiled
// at the given duration.
type GetAvailableSlots struct {
	ResourceID  resource.ID
	Date        time.Time
	SlotMinutes int
}

// GetBookingDetails asks for a booking together with its resource and
// client.
type GetBookingDetails struct {
	BookingID booking.ID
}

// ListBookings asks for bookings matching the optional filters, ordered by
// start time.
type ListBookings struct {
	Date       *time.Time
	Status     booking.Status
	ResourceID resource.ID
}

// GetResourceSchedule asks for a resource's bookings overlapping a calendar
// day.
type GetResourceSchedule struct {
	ResourceID resource.ID
	Date       time.Time
}

// ListClientBookings asks for a client's bookings, optionally filtered by
// status.
type ListClientBookings struct {
	ClientID client.ID
	Status   booking.Status
}

type GetAvailableSlotsHandler struct {
	resources    resource.Repository
	availability *availability.Service
}

func NewGetAvailableSlotsHandler(resources resource.Repository, avail *availability.Service) *GetAvailableSlotsHandler {
	return &GetAvailableSlotsHandler{resources: resources, availability: avail}
}

func (h *GetAvailableSlotsHandler) Handle(ctx context.Context, q GetAvailableSlots) (any, error) {
	res, err := h.resources.FindByID(ctx, q.ResourceID)
	if err != nil {
		return nil, err
	}

	duration, err := booking.NewDuration(q.SlotMinutes)
	if err != nil {
		return nil, err
	}

	slots, err := h.availability.AvailableSlots(ctx, res, q.Date, duration)
	if err != nil {
		return nil, err
	}

	dtos := make([]AvailableSlotDTO, 0, len(slots))
	for _, s := range slots {
		dtos = append(dtos, NewAvailableSlotDTO(s))
	}
	return dtos, nil
}

type GetBookingDetailsHandler struct {
	bookings  booking.Repository
	resources resource.Repository
	clients   client.Repository
}

func NewGetBookingDetailsHandler(bookings booking.Repository, resources resource.Repository, clients client.Repository) *GetBookingDetailsHandler {
	return &GetBookingDetailsHandler{bookings: bookings, resources: resources, clients: clients}
}

func (h *GetBookingDetailsHandler) Handle(ctx context.Context, q GetBookingDetails) (any, error) {
	b, err := h.bookings.FindByID(ctx, q.BookingID)
	if err != nil {
		return nil, err
	}

	details := BookingDetailsDTO{Booking: NewBookingDTO(b)}

	// Resource and client are optional in the details view; a dangling
	// reference does not hide the booking itself.
	res, err := h.resources.FindByID(ctx, b.ResourceID())
	switch {
	case err == nil:
		dto := NewResourceDTO(res)
		details.Resource = &dto
	case !errors.Is(err, resource.ErrNotFound):
		return nil, err
	}

	c, err := h.clients.FindByID(ctx, b.ClientID())
	switch {
	case err == nil:
		dto := NewClientDTO(c)
		details.Client = &dto
	case !errors.Is(err, client.ErrNotFound):
		return nil, err
	}

	return details, nil
}

type ListBookingsHandler struct {
	bookings booking.Repository
}

func NewListBookingsHandler(bookings booking.Repository) *ListBookingsHandler {
	return &ListBookingsHandler{bookings: bookings}
}

func (h *ListBookingsHandler) Handle(ctx context.Context, q ListBookings) (any, error) {
	bookings, err := h.bookings.FindAll(ctx, booking.Filter{
		Date:       q.Date,
		Status:     q.Status,
		ResourceID: q.ResourceID,
	})
	if err != nil {
		return nil, err
	}
	return newBookingDTOs(bookings), nil
}

type GetResourceScheduleHandler struct {
	bookings  booking.Repository
	resources resource.Repository
}

func NewGetResourceScheduleHandler(bookings booking.Repository, resources resource.Repository) *GetResourceScheduleHandler {
	return &GetResourceScheduleHandler{bookings: bookings, resources: resources}
}

func (h *GetResourceScheduleHandler) Handle(ctx context.Context, q GetResourceSchedule) (any, error) {
	if _, err := h.resources.FindByID(ctx, q.ResourceID); err != nil {
		return nil, err
	}

	dayStart := time.Date(q.Date.Year(), q.Date.Month(), q.Date.Day(), 0, 0, 0, 0, q.Date.Location())
	dayRange, err := booking.NewTimeRange(dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	bookings, err := h.bookings.FindByResourceAndRange(ctx, q.ResourceID, dayRange)
	if err != nil {
		return nil, err
	}
	return newBookingDTOs(bookings), nil
}

type ListClientBookingsHandler struct {
	bookings booking.Repository
	clients  client.Repository
}

func NewListClientBookingsHandler(bookings booking.Repository, clients client.Repository) *ListClientBookingsHandler {
	return &ListClientBookingsHandler{bookings: bookings, clients: clients}
}

func (h *ListClientBookingsHandler) Handle(ctx context.Context, q ListClientBookings) (any, error) {
	if _, err := h.clients.FindByID(ctx, q.ClientID); err != nil {
		return nil, err
	}

	bookings, err := h.bookings.FindByClient(ctx, q.ClientID, booking.Filter{Status: q.Status})
	if err != nil {
		return nil, err
	}
	return newBookingDTOs(bookings), nil
}

// ListResources asks for every bookable resource.
type ListResources struct{}

type ListResourcesHandler struct {
	resources resource.Repository
}

func NewListResourcesHandler(resources resource.Repository) *ListResourcesHandler {
	return &ListResourcesHandler{resources: resources}
}

func (h *ListResourcesHandler) Handle(ctx context.Context, _ ListResources) (any, error) {
	resources, err := h.resources.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	dtos := make([]ResourceDTO, 0, len(resources))
	for _, r := range resources {
		dtos = append(dtos, NewResourceDTO(r))
	}
	return dtos, nil
}

// GetResource asks for a single resource.
type GetResource struct {
	ResourceID resource.ID
}

type GetResourceHandler struct {
	resources resource.Repository
}

func NewGetResourceHandler(resources resource.Repository) *GetResourceHandler {
	return &GetResourceHandler{resources: resources}
}

func (h *GetResourceHandler) Handle(ctx context.Context, q GetResource) (any, error) {
	res, err := h.resources.FindByID(ctx, q.ResourceID)
	if err != nil {
		return nil, err
	}
	return NewResourceDTO(res), nil
}

// ListClients asks for every registered client.
type ListClients struct{}

type ListClientsHandler struct {
	clients client.Repository
}

func NewListClientsHandler(clients client.Repository) *ListClientsHandler {
	return &ListClientsHandler{clients: clients}
}

func (h *ListClientsHandler) Handle(ctx context.Context, _ ListClients) (any, error) {
	clients, err := h.clients.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	dtos := make([]ClientDTO, 0, len(clients))
	for _, c := range clients {
		dtos = append(dtos, NewClientDTO(c))
	}
	return dtos, nil
}
