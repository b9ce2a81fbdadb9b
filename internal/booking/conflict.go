package booking

import "time"

// ConflictDetector holds the overlap logic used everywhere a proposed range
// is checked against existing bookings. It is stateless and safe to share.
type ConflictDetector struct{}

func NewConflictDetector() ConflictDetector {
	return ConflictDetector{}
}

// HasConflict reports whether any of the given bookings collides with the
// proposed range. Cancelled bookings never conflict. A non-zero exclude id
// skips that booking, which lets reschedule ignore the booking being moved.
func (ConflictDetector) HasConflict(existing []*Booking, proposed TimeRange, exclude ID) bool {
	for _, b := range existing {
		if id, ok := b.ID(); ok && exclude != 0 && id == exclude {
			continue
		}
		if b.Status() == StatusCancelled {
			continue
		}
		if b.TimeRange().Overlaps(proposed) {
			return true
		}
	}
	return false
}

// Interval is a plain start/end pair for callers that do not hold full
// booking aggregates.
type Interval struct {
	Start time.Time
	End   time.Time
}

// IntervalFree reports whether [start, end) is free of the given busy
// intervals. Same half-open overlap predicate as HasConflict, without status
// or exclusion semantics.
func (ConflictDetector) IntervalFree(busy []Interval, start, end time.Time) bool {
	for _, iv := range busy {
		if start.Before(iv.End) && end.After(iv.Start) {
			return false
		}
	}
	return true
}
