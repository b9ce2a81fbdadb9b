// Package event defines the booking lifecycle events and the publisher port.
// Publishing is fire-and-forget: command handlers log a failed publish and
// carry on, the mutation itself is already committed.
package event

import (
	"context"
	"time"

	"github.com/francis1990/clinic-booking-backend/internal/booking"
	"github.com/francis1990/clinic-booking-backend/internal/client"
	"github.com/francis1990/clinic-booking-backend/internal/resource"
)

// Event is a booking lifecycle notification.
type Event interface {
	Name() string
}

// Publisher delivers events to interested parties. The core never consumes
// the return value beyond logging it.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

type BookingCreated struct {
	BookingID  booking.ID  `json:"booking_id"`
	ResourceID resource.ID `json:"resource_id"`
	ClientID   client.ID   `json:"client_id"`
	StartTime  time.Time   `json:"start_time"`
	EndTime    time.Time   `json:"end_time"`
}

func (BookingCreated) Name() string { return "booking.created" }

type BookingConfirmed struct {
	BookingID booking.ID `json:"booking_id"`
}

func (BookingConfirmed) Name() string { return "booking.confirmed" }

type BookingCancelled struct {
	BookingID booking.ID `json:"booking_id"`
}

func (BookingCancelled) Name() string { return "booking.cancelled" }

type BookingCompleted struct {
	BookingID booking.ID `json:"booking_id"`
}

func (BookingCompleted) Name() string { return "booking.completed" }

type BookingRescheduled struct {
	BookingID booking.ID `json:"booking_id"`
	StartTime time.Time  `json:"start_time"`
	EndTime   time.Time  `json:"end_time"`
}

func (BookingRescheduled) Name() string { return "booking.rescheduled" }
