package booking

import "time"

// TimeRange is a half-open interval [start, end). Construction guarantees
// end > start, so a zero-length range cannot exist.
type TimeRange struct {
	start time.Time
	end   time.Time
}

// NewTimeRange validates ordering and returns the range.
func NewTimeRange(start, end time.Time) (TimeRange, error) {
	if !end.After(start) {
		return TimeRange{}, ErrInvalidTimeRange
	}
	return TimeRange{start: start, end: end}, nil
}

func (r TimeRange) Start() time.Time {
	return r.start
}

func (r TimeRange) End() time.Time {
	return r.end
}

// Overlaps reports whether the two half-open intervals share any instant.
// Ranges that only touch at a boundary do not overlap.
func (r TimeRange) Overlaps(other TimeRange) bool {
	return r.start.Before(other.end) && r.end.After(other.start)
}

// DurationInMinutes returns the range length in whole minutes, truncated
// toward zero.
func (r TimeRange) DurationInMinutes() int {
	return int(r.end.Sub(r.start) / time.Minute)
}

// Duration is a positive number of whole minutes.
type Duration struct {
	minutes int
}

// NewDuration validates positivity and returns the duration.
func NewDuration(minutes int) (Duration, error) {
	if minutes <= 0 {
		return Duration{}, ErrInvalidDuration
	}
	return Duration{minutes: minutes}, nil
}

func (d Duration) Minutes() int {
	return d.minutes
}
