package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/francis1990/clinic-booking-backend/internal/client"
	"github.com/francis1990/clinic-booking-backend/internal/pkg/apperror"
	"github.com/francis1990/clinic-booking-backend/internal/resource"
)

// Filter narrows FindAll / FindByClient results. Zero values mean "no
// filter".
type Filter struct {
	Date       *time.Time // calendar day of the booking start
	Status     Status
	ResourceID resource.ID
}

type Repository interface {
	FindByID(ctx context.Context, id ID) (*Booking, error)

	// Save inserts a booking without an id, assigning the generated id to
	// the aggregate, and updates the stored row otherwise.
	Save(ctx context.Context, b *Booking) error

	Delete(ctx context.Context, id ID) error

	// FindByResourceAndRange returns the resource's bookings overlapping the
	// range, cancelled ones included. Status filtering is the caller's job.
	FindByResourceAndRange(ctx context.Context, resourceID resource.ID, r TimeRange) ([]*Booking, error)

	FindAll(ctx context.Context, filter Filter) ([]*Booking, error)
	FindByClient(ctx context.Context, clientID client.ID, filter Filter) ([]*Booking, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

// bookingColumns is the select list shared by all read queries. Treatments
// are aggregated in the same query to avoid a per-row lookup.
var bookingColumns = []string{
	"b.id", "b.resource_id", "b.client_id", "b.start_time", "b.end_time", "b.status", "b.notes",
	"COALESCE(array_agg(bt.treatment_id) FILTER (WHERE bt.treatment_id IS NOT NULL), '{}') AS treatment_ids",
}

func selectBookings() squirrel.SelectBuilder {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	return psql.Select(bookingColumns...).
		From("public.bookings b").
		LeftJoin("public.booking_treatments bt ON bt.booking_id = b.id").
		GroupBy("b.id")
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var (
		id           int64
		resourceID   int64
		clientID     int64
		start, end   time.Time
		status       string
		notes        *string
		treatmentIDs []int64
	)
	if err := row.Scan(&id, &resourceID, &clientID, &start, &end, &status, &notes, &treatmentIDs); err != nil {
		return nil, err
	}

	timeRange, err := NewTimeRange(start, end)
	if err != nil {
		return nil, fmt.Errorf("stored booking %d has invalid range: %w", id, err)
	}
	st, err := ParseStatus(status)
	if err != nil {
		return nil, fmt.Errorf("stored booking %d has invalid status %q: %w", id, status, err)
	}

	return Reconstitute(ID(id), resource.ID(resourceID), client.ID(clientID), timeRange, st, notes, treatmentIDs), nil
}

func collectBookings(rows pgx.Rows) ([]*Booking, error) {
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *pgxRepository) FindByID(ctx context.Context, id ID) (*Booking, error) {
	query, args, err := selectBookings().Where(squirrel.Eq{"b.id": int64(id)}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	b, err := scanBooking(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return b, nil
}

func (r *pgxRepository) Save(ctx context.Context, b *Booking) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin save booking failed: %w", err)
	}
	defer tx.Rollback(ctx)

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	id, saved := b.ID()
	if !saved {
		query, args, err := psql.Insert("public.bookings").
			Columns("resource_id", "client_id", "start_time", "end_time", "status", "notes").
			Values(int64(b.ResourceID()), int64(b.ClientID()), b.TimeRange().Start(), b.TimeRange().End(), string(b.Status()), b.Notes()).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return fmt.Errorf("build create booking query failed: %w", err)
		}

		var newID int64
		if err := tx.QueryRow(ctx, query, args...).Scan(&newID); err != nil {
			return saveError(err)
		}
		if err := b.AssignID(ID(newID)); err != nil {
			return err
		}
		id = ID(newID)
	} else {
		query, args, err := psql.Update("public.bookings").
			Set("resource_id", int64(b.ResourceID())).
			Set("client_id", int64(b.ClientID())).
			Set("start_time", b.TimeRange().Start()).
			Set("end_time", b.TimeRange().End()).
			Set("status", string(b.Status())).
			Set("notes", b.Notes()).
			Set("updated_at", squirrel.Expr("now()")).
			Where(squirrel.Eq{"id": int64(id)}).
			ToSql()
		if err != nil {
			return fmt.Errorf("build update booking query failed: %w", err)
		}

		ct, err := tx.Exec(ctx, query, args...)
		if err != nil {
			return saveError(err)
		}
		if ct.RowsAffected() == 0 {
			return ErrNotFound
		}
	}

	if err := syncTreatments(ctx, tx, id, b.TreatmentIDs()); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit save booking failed: %w", err)
	}
	return nil
}

// saveError maps an exclusion-constraint violation on the bookings table to
// ErrSlotTaken. The constraint is what serializes the availability check and
// the write under concurrent callers.
func saveError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ExclusionViolation {
		return apperror.Wrap(ErrSlotTaken, err)
	}
	return fmt.Errorf("save booking failed: %w", err)
}

func syncTreatments(ctx context.Context, tx pgx.Tx, id ID, treatmentIDs []int64) error {
	if _, err := tx.Exec(ctx, "DELETE FROM public.booking_treatments WHERE booking_id = $1", int64(id)); err != nil {
		return fmt.Errorf("clear booking treatments failed: %w", err)
	}
	for _, tid := range treatmentIDs {
		if _, err := tx.Exec(ctx,
			"INSERT INTO public.booking_treatments (booking_id, treatment_id) VALUES ($1, $2)",
			int64(id), tid,
		); err != nil {
			return fmt.Errorf("attach treatment %d failed: %w", tid, err)
		}
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id ID) error {
	ct, err := r.pool.Exec(ctx, "DELETE FROM public.bookings WHERE id = $1", int64(id))
	if err != nil {
		return fmt.Errorf("delete booking failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) FindByResourceAndRange(ctx context.Context, resourceID resource.ID, tr TimeRange) ([]*Booking, error) {
	query, args, err := selectBookings().
		Where(squirrel.Eq{"b.resource_id": int64(resourceID)}).
		Where(squirrel.Lt{"b.start_time": tr.End()}).
		Where(squirrel.Gt{"b.end_time": tr.Start()}).
		OrderBy("b.start_time").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build range query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find bookings by range failed: %w", err)
	}
	return collectBookings(rows)
}

func (r *pgxRepository) FindAll(ctx context.Context, filter Filter) ([]*Booking, error) {
	q := selectBookings()
	q = applyFilter(q, filter)

	query, args, err := q.OrderBy("b.start_time").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings failed: %w", err)
	}
	return collectBookings(rows)
}

func (r *pgxRepository) FindByClient(ctx context.Context, clientID client.ID, filter Filter) ([]*Booking, error) {
	q := selectBookings().Where(squirrel.Eq{"b.client_id": int64(clientID)})
	q = applyFilter(q, filter)

	query, args, err := q.OrderBy("b.start_time").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build client bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list client bookings failed: %w", err)
	}
	return collectBookings(rows)
}

func applyFilter(q squirrel.SelectBuilder, filter Filter) squirrel.SelectBuilder {
	if filter.Date != nil {
		day := time.Date(filter.Date.Year(), filter.Date.Month(), filter.Date.Day(), 0, 0, 0, 0, filter.Date.Location())
		q = q.Where(squirrel.GtOrEq{"b.start_time": day}).
			Where(squirrel.Lt{"b.start_time": day.AddDate(0, 0, 1)})
	}
	if filter.Status != "" {
		q = q.Where(squirrel.Eq{"b.status": string(filter.Status)})
	}
	if filter.ResourceID != 0 {
		q = q.Where(squirrel.Eq{"b.resource_id": int64(filter.ResourceID)})
	}
	return q
}
