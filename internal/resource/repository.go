package resource

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	FindByID(ctx context.Context, id ID) (*Resource, error)
	FindAll(ctx context.Context) ([]*Resource, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) FindByID(ctx context.Context, id ID) (*Resource, error) {
	const query = `
		SELECT id, name, last_name, specialties
		FROM public.resources
		WHERE id = $1
	`
	row := r.pool.QueryRow(ctx, query, int64(id))

	var res Resource
	if err := row.Scan(&res.ID, &res.Name, &res.LastName, &res.Specialties); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get resource failed: %w", err)
	}
	return &res, nil
}

func (r *pgxRepository) FindAll(ctx context.Context) ([]*Resource, error) {
	const query = `
		SELECT id, name, last_name, specialties
		FROM public.resources
		ORDER BY id
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list resources failed: %w", err)
	}
	defer rows.Close()

	var result []*Resource
	for rows.Next() {
		var res Resource
		if err := rows.Scan(&res.ID, &res.Name, &res.LastName, &res.Specialties); err != nil {
			return nil, fmt.Errorf("scan resource failed: %w", err)
		}
		result = append(result, &res)
	}
	return result, rows.Err()
}

// MemoryRepository is an in-memory Repository used by tests and local runs
// without a database.
type MemoryRepository struct {
	mu        sync.RWMutex
	resources map[ID]Resource
}

func NewMemoryRepository(resources ...*Resource) *MemoryRepository {
	m := &MemoryRepository{resources: make(map[ID]Resource)}
	for _, res := range resources {
		m.resources[res.ID] = *res
	}
	return m
}

func (m *MemoryRepository) FindByID(_ context.Context, id ID) (*Resource, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	res, ok := m.resources[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &res, nil
}

func (m *MemoryRepository) FindAll(_ context.Context) ([]*Resource, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*Resource, 0, len(m.resources))
	for _, res := range m.resources {
		r := res
		result = append(result, &r)
	}
	slices.SortFunc(result, func(a, b *Resource) int { return int(a.ID - b.ID) })
	return result, nil
}
