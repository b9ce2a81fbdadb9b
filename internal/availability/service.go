// Package availability answers "is this resource free" and "when can I
// book", built on the same overlap predicate the conflict detector uses.
package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/francis1990/clinic-booking-backend/internal/booking"
	"github.com/francis1990/clinic-booking-backend/internal/resource"
)

// Working day window. Slots are generated inside [WorkStartHour, WorkEndHour)
// local to the requested date.
const (
	WorkStartHour = 8
	WorkEndHour   = 20
)

// TimeSlot is a generated candidate window. It is never persisted; its only
// mutation is MarkUnavailable.
type TimeSlot struct {
	resourceID resource.ID
	timeRange  booking.TimeRange
	available  bool
}

func NewTimeSlot(resourceID resource.ID, timeRange booking.TimeRange) *TimeSlot {
	return &TimeSlot{resourceID: resourceID, timeRange: timeRange, available: true}
}

func (s *TimeSlot) ResourceID() resource.ID {
	return s.resourceID
}

func (s *TimeSlot) TimeRange() booking.TimeRange {
	return s.timeRange
}

func (s *TimeSlot) Available() bool {
	return s.available
}

func (s *TimeSlot) MarkUnavailable() {
	s.available = false
}

// BookingReader is the read port the service needs: a coarse overlap-window
// query over a resource's bookings, cancelled ones included.
type BookingReader interface {
	FindByResourceAndRange(ctx context.Context, resourceID resource.ID, r booking.TimeRange) ([]*booking.Booking, error)
}

// Service is stateless and safe to share across concurrent requests.
type Service struct {
	bookings  BookingReader
	conflicts booking.ConflictDetector
}

func NewService(bookings BookingReader) *Service {
	return &Service{
		bookings:  bookings,
		conflicts: booking.NewConflictDetector(),
	}
}

// IsAvailable reports whether the resource is free for the whole range.
// A non-zero exclude id ignores that booking, so a reschedule does not
// collide with itself. The repository query is only a prefilter; the
// conflict detector makes the call.
func (s *Service) IsAvailable(ctx context.Context, resourceID resource.ID, r booking.TimeRange, exclude booking.ID) (bool, error) {
	existing, err := s.bookings.FindByResourceAndRange(ctx, resourceID, r)
	if err != nil {
		return false, fmt.Errorf("load bookings for availability check: %w", err)
	}
	return !s.conflicts.HasConflict(existing, r, exclude), nil
}

// AvailableSlots tiles the working day with contiguous slots of the given
// duration and returns the ones no active booking overlaps, in ascending
// start order. A trailing remainder shorter than the duration is dropped.
func (s *Service) AvailableSlots(ctx context.Context, res *resource.Resource, date time.Time, slotDuration booking.Duration) ([]*TimeSlot, error) {
	slots := generateSlots(res.ID, date, slotDuration)

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayRange, err := booking.NewTimeRange(dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	existing, err := s.bookings.FindByResourceAndRange(ctx, res.ID, dayRange)
	if err != nil {
		return nil, fmt.Errorf("load bookings for slot generation: %w", err)
	}

	for _, slot := range slots {
		for _, b := range existing {
			if b.Status() != booking.StatusCancelled && b.TimeRange().Overlaps(slot.TimeRange()) {
				slot.MarkUnavailable()
				break
			}
		}
	}

	available := make([]*TimeSlot, 0, len(slots))
	for _, slot := range slots {
		if slot.Available() {
			available = append(available, slot)
		}
	}
	return available, nil
}

func generateSlots(resourceID resource.ID, date time.Time, slotDuration booking.Duration) []*TimeSlot {
	cur := time.Date(date.Year(), date.Month(), date.Day(), WorkStartHour, 0, 0, 0, date.Location())
	workEnd := time.Date(date.Year(), date.Month(), date.Day(), WorkEndHour, 0, 0, 0, date.Location())
	step := time.Duration(slotDuration.Minutes()) * time.Minute

	var slots []*TimeSlot
	for {
		slotEnd := cur.Add(step)
		if slotEnd.After(workEnd) {
			break
		}
		r, err := booking.NewTimeRange(cur, slotEnd)
		if err != nil {
			// step is positive, so the range is always valid
			break
		}
		slots = append(slots, NewTimeSlot(resourceID, r))
		cur = slotEnd
	}
	return slots
}
