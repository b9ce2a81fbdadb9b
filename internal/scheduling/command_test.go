package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/francis1990/clinic-booking-backend/internal/availability"
	"github.com/francis1990/clinic-booking-backend/internal/booking"
	"github.com/francis1990/clinic-booking-backend/internal/client"
	"github.com/francis1990/clinic-booking-backend/internal/event"
	"github.com/francis1990/clinic-booking-backend/internal/resource"
)

type fixture struct {
	bookings  *booking.MemoryRepository
	resources *resource.MemoryRepository
	clients   *client.MemoryRepository
	events    *event.MemoryPublisher

	create     *CreateBookingHandler
	confirm    *ConfirmBookingHandler
	cancel     *CancelBookingHandler
	complete   *CompleteBookingHandler
	reschedule *RescheduleBookingHandler
	register   *RegisterClientHandler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	phone := "+34 600 000 001"
	f := &fixture{
		bookings: booking.NewMemoryRepository(),
		resources: resource.NewMemoryRepository(
			&resource.Resource{ID: 1, Name: "Laura", LastName: "Santos", Specialties: []string{"orthodontics"}},
			&resource.Resource{ID: 2, Name: "Pedro", LastName: "Iglesias"},
		),
		clients: client.NewMemoryRepository(
			&client.Client{ID: 1, Name: "Ana Torres", Email: "ana@example.com", Phone: &phone},
		),
		events: event.NewMemoryPublisher(),
	}

	avail := availability.NewService(f.bookings)
	f.create = NewCreateBookingHandler(f.bookings, avail, f.events)
	f.confirm = NewConfirmBookingHandler(f.bookings, f.events)
	f.cancel = NewCancelBookingHandler(f.bookings, f.events)
	f.complete = NewCompleteBookingHandler(f.bookings, f.events)
	f.reschedule = NewRescheduleBookingHandler(f.bookings, avail, f.events)
	f.register = NewRegisterClientHandler(f.clients)
	return f
}

func timeRange(t *testing.T, startH, startM, endH, endM int) booking.TimeRange {
	t.Helper()
	day := func(h, m int) time.Time { return time.Date(2026, 3, 10, h, m, 0, 0, time.UTC) }
	r, err := booking.NewTimeRange(day(startH, startM), day(endH, endM))
	require.NoError(t, err)
	return r
}

func (f *fixture) mustCreate(t *testing.T, resourceID resource.ID, r booking.TimeRange) BookingDTO {
	t.Helper()
	res, err := f.create.Handle(context.Background(), CreateBooking{
		ResourceID: resourceID,
		ClientID:   1,
		TimeRange:  r,
	})
	require.NoError(t, err)
	dto, ok := res.(BookingDTO)
	require.True(t, ok, "create result is %T", res)
	return dto
}

func TestCreateBooking(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	dto := f.mustCreate(t, 1, timeRange(t, 9, 0, 9, 45))
	assert.NotZero(t, dto.ID)
	assert.Equal(t, "pending", dto.Status)
	assert.Equal(t, int64(1), dto.ResourceID)

	events := f.events.Events()
	require.Len(t, events, 1)
	created, ok := events[0].(event.BookingCreated)
	require.True(t, ok)
	assert.Equal(t, booking.ID(dto.ID), created.BookingID)

	t.Run("overlapping range is rejected", func(t *testing.T) {
		_, err := f.create.Handle(ctx, CreateBooking{
			ResourceID: 1,
			ClientID:   1,
			TimeRange:  timeRange(t, 9, 30, 10, 0),
		})
		require.ErrorIs(t, err, ErrResourceNotAvailable)
		assert.Len(t, f.events.Events(), 1, "rejected create must not publish")
	})

	t.Run("adjacent range succeeds", func(t *testing.T) {
		adjacent := f.mustCreate(t, 1, timeRange(t, 9, 45, 10, 15))
		assert.NotEqual(t, dto.ID, adjacent.ID)
	})

	t.Run("same range on another resource succeeds", func(t *testing.T) {
		f.mustCreate(t, 2, timeRange(t, 9, 0, 9, 45))
	})
}

func TestConfirmCancelComplete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	dto := f.mustCreate(t, 1, timeRange(t, 9, 0, 10, 0))
	id := booking.ID(dto.ID)

	res, err := f.confirm.Handle(ctx, ConfirmBooking{BookingID: id})
	require.NoError(t, err)
	assert.Equal(t, "confirmed", res.(BookingDTO).Status)

	res, err = f.complete.Handle(ctx, CompleteBooking{BookingID: id})
	require.NoError(t, err)
	assert.Equal(t, "completed", res.(BookingDTO).Status)

	_, err = f.cancel.Handle(ctx, CancelBooking{BookingID: id})
	require.ErrorIs(t, err, booking.ErrIllegalTransition)

	names := make([]string, 0)
	for _, e := range f.events.Events() {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"booking.created", "booking.confirmed", "booking.completed"}, names)
}

func TestCancelFreesTheSlot(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	dto := f.mustCreate(t, 1, timeRange(t, 9, 0, 10, 0))

	res, err := f.cancel.Handle(ctx, CancelBooking{BookingID: booking.ID(dto.ID)})
	require.NoError(t, err)
	assert.Nil(t, res)

	f.mustCreate(t, 1, timeRange(t, 9, 0, 10, 0))
}

func TestCommandsOnMissingBooking(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.confirm.Handle(ctx, ConfirmBooking{BookingID: 404})
	require.ErrorIs(t, err, booking.ErrNotFound)

	_, err = f.cancel.Handle(ctx, CancelBooking{BookingID: 404})
	require.ErrorIs(t, err, booking.ErrNotFound)

	_, err = f.reschedule.Handle(ctx, RescheduleBooking{BookingID: 404, NewRange: timeRange(t, 9, 0, 10, 0)})
	require.ErrorIs(t, err, booking.ErrNotFound)
}

func TestRescheduleBooking(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	a := f.mustCreate(t, 1, timeRange(t, 9, 0, 9, 45))

	res, err := f.confirm.Handle(ctx, ConfirmBooking{BookingID: booking.ID(a.ID)})
	require.NoError(t, err)
	require.Equal(t, "confirmed", res.(BookingDTO).Status)

	t.Run("moving within own window does not self-conflict", func(t *testing.T) {
		res, err := f.reschedule.Handle(ctx, RescheduleBooking{
			BookingID: booking.ID(a.ID),
			NewRange:  timeRange(t, 9, 30, 10, 15),
		})
		require.NoError(t, err)
		dto := res.(BookingDTO)
		assert.Equal(t, "pending", dto.Status, "reschedule resets the status")
		assert.Equal(t, timeRange(t, 9, 30, 10, 15).Start(), dto.StartTime)
	})

	t.Run("the vacated window becomes bookable", func(t *testing.T) {
		f.mustCreate(t, 1, timeRange(t, 9, 0, 9, 30))
	})

	t.Run("moving onto another booking is rejected", func(t *testing.T) {
		_, err := f.reschedule.Handle(ctx, RescheduleBooking{
			BookingID: booking.ID(a.ID),
			NewRange:  timeRange(t, 9, 0, 9, 30),
		})
		require.ErrorIs(t, err, ErrResourceNotAvailable)
	})
}

func TestRegisterClient(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	res, err := f.register.Handle(ctx, RegisterClient{
		Name:  "Carlos Ruiz",
		Email: "carlos@example.com",
	})
	require.NoError(t, err)
	dto := res.(ClientDTO)
	assert.NotZero(t, dto.ID)
	assert.Equal(t, "Carlos Ruiz", dto.Name)

	_, err = f.register.Handle(ctx, RegisterClient{Email: "x@example.com"})
	require.ErrorIs(t, err, client.ErrNameRequired)

	_, err = f.register.Handle(ctx, RegisterClient{Name: "No Email"})
	require.ErrorIs(t, err, client.ErrEmailRequired)
}
