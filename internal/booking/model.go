package booking

import (
	"net/http"

	"github.com/francis1990/clinic-booking-backend/internal/client"
	"github.com/francis1990/clinic-booking-backend/internal/pkg/apperror"
	"github.com/francis1990/clinic-booking-backend/internal/resource"
)

var (
	ErrNotFound          = apperror.New(http.StatusNotFound, "booking not found")
	ErrInvalidTimeRange  = apperror.New(http.StatusBadRequest, "end time must be after start time")
	ErrInvalidDuration   = apperror.New(http.StatusBadRequest, "duration must be a positive number of minutes")
	ErrInvalidStatus     = apperror.New(http.StatusBadRequest, "invalid booking status")
	ErrIllegalTransition = apperror.New(http.StatusConflict, "booking status does not allow this transition")
	ErrIDAlreadyAssigned = apperror.New(http.StatusInternalServerError, "booking id has already been assigned")
	ErrSlotTaken         = apperror.New(http.StatusConflict, "time slot already booked")
)

// ID identifies a persisted booking. The zero value means "not yet saved".
type ID int64

// Status is the booking lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// ParseStatus validates a raw status string.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return Status(s), nil
	}
	return "", ErrInvalidStatus
}

// Booking is the aggregate binding a resource, a client, a time range and a
// lifecycle status. All mutation goes through the lifecycle methods; the
// struct itself never touches storage.
type Booking struct {
	id           ID
	resourceID   resource.ID
	clientID     client.ID
	timeRange    TimeRange
	status       Status
	notes        *string
	treatmentIDs []int64
}

// New creates a booking that has not been persisted yet: no id, status
// pending.
func New(resourceID resource.ID, clientID client.ID, timeRange TimeRange, notes *string, treatmentIDs []int64) *Booking {
	return &Booking{
		resourceID:   resourceID,
		clientID:     clientID,
		timeRange:    timeRange,
		status:       StatusPending,
		notes:        notes,
		treatmentIDs: treatmentIDs,
	}
}

// Reconstitute rebuilds a booking from persisted fields. Only storage
// adapters should call this.
func Reconstitute(id ID, resourceID resource.ID, clientID client.ID, timeRange TimeRange, status Status, notes *string, treatmentIDs []int64) *Booking {
	return &Booking{
		id:           id,
		resourceID:   resourceID,
		clientID:     clientID,
		timeRange:    timeRange,
		status:       status,
		notes:        notes,
		treatmentIDs: treatmentIDs,
	}
}

// AssignID sets the persistence-generated id. It may be called exactly once.
func (b *Booking) AssignID(id ID) error {
	if b.id != 0 {
		return ErrIDAlreadyAssigned
	}
	b.id = id
	return nil
}

// ID returns the booking id and whether one has been assigned.
func (b *Booking) ID() (ID, bool) {
	return b.id, b.id != 0
}

// Confirm marks the booking confirmed. A cancelled booking cannot be
// confirmed.
func (b *Booking) Confirm() error {
	if b.status == StatusCancelled {
		return ErrIllegalTransition
	}
	b.status = StatusConfirmed
	return nil
}

// Cancel marks the booking cancelled. A completed booking cannot be
// cancelled.
func (b *Booking) Cancel() error {
	if b.status == StatusCompleted {
		return ErrIllegalTransition
	}
	b.status = StatusCancelled
	return nil
}

// Complete marks the booking completed. Only confirmed bookings can be
// completed.
func (b *Booking) Complete() error {
	if b.status != StatusConfirmed {
		return ErrIllegalTransition
	}
	b.status = StatusCompleted
	return nil
}

// Reschedule replaces the time range and resets the status to pending. It is
// rejected for cancelled and completed bookings.
func (b *Booking) Reschedule(newRange TimeRange) error {
	if b.status == StatusCancelled || b.status == StatusCompleted {
		return ErrIllegalTransition
	}
	b.timeRange = newRange
	b.status = StatusPending
	return nil
}

func (b *Booking) ResourceID() resource.ID {
	return b.resourceID
}

func (b *Booking) ClientID() client.ID {
	return b.clientID
}

func (b *Booking) TimeRange() TimeRange {
	return b.timeRange
}

func (b *Booking) Status() Status {
	return b.status
}

func (b *Booking) Notes() *string {
	return b.notes
}

func (b *Booking) TreatmentIDs() []int64 {
	return b.treatmentIDs
}
