package booking

import (
	"context"
	"slices"
	"sync"

	"github.com/francis1990/clinic-booking-backend/internal/client"
	"github.com/francis1990/clinic-booking-backend/internal/resource"
)

// MemoryRepository is an in-memory Repository used by tests and local runs
// without a database. Like the Postgres schema, Save rejects a write that
// would double-book a resource, so the check-then-act window of the handlers
// is closed here too.
type MemoryRepository struct {
	mu       sync.RWMutex
	bookings map[ID]*Booking
	nextID   ID
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		bookings: make(map[ID]*Booking),
		nextID:   1,
	}
}

// clone detaches the stored aggregate from the caller's copy.
func clone(b *Booking) *Booking {
	id, _ := b.ID()
	treatments := slices.Clone(b.TreatmentIDs())
	return Reconstitute(id, b.ResourceID(), b.ClientID(), b.TimeRange(), b.Status(), b.Notes(), treatments)
}

func (m *MemoryRepository) FindByID(_ context.Context, id ID) (*Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	b, ok := m.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(b), nil
}

func (m *MemoryRepository) Save(_ context.Context, b *Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, saved := b.ID()

	// Mirror of the bookings exclusion constraint: no two non-cancelled
	// bookings of a resource may overlap.
	if b.Status() != StatusCancelled {
		for otherID, other := range m.bookings {
			if saved && otherID == id {
				continue
			}
			if other.Status() == StatusCancelled || other.ResourceID() != b.ResourceID() {
				continue
			}
			if other.TimeRange().Overlaps(b.TimeRange()) {
				return ErrSlotTaken
			}
		}
	}

	if !saved {
		if err := b.AssignID(m.nextID); err != nil {
			return err
		}
		id = m.nextID
		m.nextID++
	} else if _, ok := m.bookings[id]; !ok {
		return ErrNotFound
	}

	m.bookings[id] = clone(b)
	return nil
}

func (m *MemoryRepository) Delete(_ context.Context, id ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.bookings[id]; !ok {
		return ErrNotFound
	}
	delete(m.bookings, id)
	return nil
}

func (m *MemoryRepository) FindByResourceAndRange(_ context.Context, resourceID resource.ID, tr TimeRange) ([]*Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*Booking
	for _, b := range m.bookings {
		if b.ResourceID() != resourceID {
			continue
		}
		if b.TimeRange().Overlaps(tr) {
			result = append(result, clone(b))
		}
	}
	sortByStart(result)
	return result, nil
}

func (m *MemoryRepository) FindAll(_ context.Context, filter Filter) ([]*Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*Booking
	for _, b := range m.bookings {
		if matches(b, filter) {
			result = append(result, clone(b))
		}
	}
	sortByStart(result)
	return result, nil
}

func (m *MemoryRepository) FindByClient(_ context.Context, clientID client.ID, filter Filter) ([]*Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*Booking
	for _, b := range m.bookings {
		if b.ClientID() != clientID {
			continue
		}
		if matches(b, filter) {
			result = append(result, clone(b))
		}
	}
	sortByStart(result)
	return result, nil
}

func matches(b *Booking, filter Filter) bool {
	if filter.Status != "" && b.Status() != filter.Status {
		return false
	}
	if filter.ResourceID != 0 && b.ResourceID() != filter.ResourceID {
		return false
	}
	if filter.Date != nil {
		y1, m1, d1 := filter.Date.Date()
		y2, m2, d2 := b.TimeRange().Start().Date()
		if y1 != y2 || m1 != m2 || d1 != d2 {
			return false
		}
	}
	return true
}

func sortByStart(bookings []*Booking) {
	slices.SortFunc(bookings, func(a, b *Booking) int {
		return a.TimeRange().Start().Compare(b.TimeRange().Start())
	})
}
