package api

import "time"

// CreateBookingRequest is the payload for POST /v1/bookings.
type CreateBookingRequest struct {
	ResourceID   int64     `json:"resource_id" binding:"required"`
	ClientID     int64     `json:"client_id" binding:"required"`
	StartTime    time.Time `json:"start_time" binding:"required"`
	EndTime      time.Time `json:"end_time" binding:"required"`
	Notes        *string   `json:"notes"`
	TreatmentIDs []int64   `json:"treatment_ids"`
}

// RescheduleBookingRequest is the payload for PATCH /v1/bookings/:id/reschedule.
type RescheduleBookingRequest struct {
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
}

// ListBookingsRequest defines query parameters for listing bookings.
type ListBookingsRequest struct {
	Date       string `form:"date" binding:"omitempty,datetime=2006-01-02"`
	Status     string `form:"status" binding:"omitempty,oneof=pending confirmed cancelled completed"`
	ResourceID int64  `form:"resource_id" binding:"omitempty,min=1"`
}

// SlotsRequest defines query parameters for GET /v1/resources/:id/slots.
type SlotsRequest struct {
	Date     string `form:"date" binding:"required,datetime=2006-01-02"`
	Duration int    `form:"duration,default=30" binding:"omitempty,min=1"`
}

// ScheduleRequest defines query parameters for GET /v1/resources/:id/schedule.
type ScheduleRequest struct {
	Date string `form:"date" binding:"required,datetime=2006-01-02"`
}

// CreateClientRequest is the payload for POST /v1/clients.
type CreateClientRequest struct {
	Name  string  `json:"name" binding:"required"`
	Email string  `json:"email" binding:"required,email"`
	Phone *string `json:"phone"`
	Notes *string `json:"notes"`
}

// ClientBookingsRequest defines query parameters for GET /v1/clients/:id/bookings.
type ClientBookingsRequest struct {
	Status string `form:"status" binding:"omitempty,oneof=pending confirmed cancelled completed"`
}
