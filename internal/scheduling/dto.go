package scheduling

import (
	"time"

	"github.com/francis1990/clinic-booking-backend/internal/availability"
	"github.com/francis1990/clinic-booking-backend/internal/booking"
	"github.com/francis1990/clinic-booking-backend/internal/client"
	"github.com/francis1990/clinic-booking-backend/internal/resource"
)

// BookingDTO is the caller-facing view of a booking.
type BookingDTO struct {
	ID           int64     `json:"id"`
	ResourceID   int64     `json:"resource_id"`
	ClientID     int64     `json:"client_id"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	Status       string    `json:"status"`
	Notes        *string   `json:"notes,omitempty"`
	TreatmentIDs []int64   `json:"treatment_ids"`
}

func NewBookingDTO(b *booking.Booking) BookingDTO {
	id, _ := b.ID()
	treatments := b.TreatmentIDs()
	if treatments == nil {
		treatments = []int64{}
	}
	return BookingDTO{
		ID:           int64(id),
		ResourceID:   int64(b.ResourceID()),
		ClientID:     int64(b.ClientID()),
		StartTime:    b.TimeRange().Start(),
		EndTime:      b.TimeRange().End(),
		Status:       string(b.Status()),
		Notes:        b.Notes(),
		TreatmentIDs: treatments,
	}
}

func newBookingDTOs(bookings []*booking.Booking) []BookingDTO {
	dtos := make([]BookingDTO, 0, len(bookings))
	for _, b := range bookings {
		dtos = append(dtos, NewBookingDTO(b))
	}
	return dtos
}

// AvailableSlotDTO describes a bookable window.
type AvailableSlotDTO struct {
	ResourceID      int64     `json:"resource_id"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	DurationMinutes int       `json:"duration_minutes"`
}

func NewAvailableSlotDTO(s *availability.TimeSlot) AvailableSlotDTO {
	return AvailableSlotDTO{
		ResourceID:      int64(s.ResourceID()),
		StartTime:       s.TimeRange().Start(),
		EndTime:         s.TimeRange().End(),
		DurationMinutes: s.TimeRange().DurationInMinutes(),
	}
}

// ResourceDTO is the caller-facing view of a resource.
type ResourceDTO struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	LastName    string   `json:"last_name"`
	Specialties []string `json:"specialties"`
}

func NewResourceDTO(r *resource.Resource) ResourceDTO {
	specialties := r.Specialties
	if specialties == nil {
		specialties = []string{}
	}
	return ResourceDTO{
		ID:          int64(r.ID),
		Name:        r.Name,
		LastName:    r.LastName,
		Specialties: specialties,
	}
}

// ClientDTO is the caller-facing view of a client.
type ClientDTO struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone,omitempty"`
	Notes *string `json:"notes,omitempty"`
}

func NewClientDTO(c *client.Client) ClientDTO {
	return ClientDTO{
		ID:    int64(c.ID),
		Name:  c.Name,
		Email: c.Email,
		Phone: c.Phone,
		Notes: c.Notes,
	}
}

// BookingDetailsDTO joins a booking with its resource and client. Resource
// and client are optional: the booking is returned even if either lookup
// misses.
type BookingDetailsDTO struct {
	Booking  BookingDTO   `json:"booking"`
	Resource *ResourceDTO `json:"resource,omitempty"`
	Client   *ClientDTO   `json:"client,omitempty"`
}
