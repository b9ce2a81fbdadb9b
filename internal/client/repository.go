package client

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
	FindByID(ctx context.Context, id ID) (*Client, error)
	FindAll(ctx context.Context) ([]*Client, error)

	// Save inserts the client when its ID is zero, assigning the generated
	// id, and updates the stored row otherwise.
	Save(ctx context.Context, c *Client) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) FindByID(ctx context.Context, id ID) (*Client, error) {
	const query = `
		SELECT id, name, email, phone, notes
		FROM public.clients
		WHERE id = $1
	`
	row := r.pool.QueryRow(ctx, query, int64(id))

	var c Client
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Notes); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get client failed: %w", err)
	}
	return &c, nil
}

func (r *pgxRepository) FindAll(ctx context.Context) ([]*Client, error) {
	const query = `
		SELECT id, name, email, phone, notes
		FROM public.clients
		ORDER BY id
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list clients failed: %w", err)
	}
	defer rows.Close()

	var result []*Client
	for rows.Next() {
		var c Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Notes); err != nil {
			return nil, fmt.Errorf("scan client failed: %w", err)
		}
		result = append(result, &c)
	}
	return result, rows.Err()
}

func (r *pgxRepository) Save(ctx context.Context, c *Client) error {
	if c.ID == 0 {
		const query = `
			INSERT INTO public.clients (name, email, phone, notes)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`
		if err := r.pool.QueryRow(ctx, query, c.Name, c.Email, c.Phone, c.Notes).Scan(&c.ID); err != nil {
			return fmt.Errorf("create client failed: %w", err)
		}
		return nil
	}

	const query = `
		UPDATE public.clients
		SET name = $1, email = $2, phone = $3, notes = $4
		WHERE id = $5
	`
	ct, err := r.pool.Exec(ctx, query, c.Name, c.Email, c.Phone, c.Notes, int64(c.ID))
	if err != nil {
		return fmt.Errorf("update client failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MemoryRepository is an in-memory Repository used by tests and local runs
// without a database.
type MemoryRepository struct {
	mu      sync.RWMutex
	clients map[ID]Client
	nextID  ID
}

func NewMemoryRepository(clients ...*Client) *MemoryRepository {
	m := &MemoryRepository{clients: make(map[ID]Client), nextID: 1}
	for _, c := range clients {
		m.clients[c.ID] = *c
		if c.ID >= m.nextID {
			m.nextID = c.ID + 1
		}
	}
	return m
}

func (m *MemoryRepository) FindByID(_ context.Context, id ID) (*Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.clients[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (m *MemoryRepository) FindAll(_ context.Context) ([]*Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*Client, 0, len(m.clients))
	for _, c := range m.clients {
		cc := c
		result = append(result, &cc)
	}
	slices.SortFunc(result, func(a, b *Client) int { return int(a.ID - b.ID) })
	return result, nil
}

func (m *MemoryRepository) Save(_ context.Context, c *Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c.ID == 0 {
		c.ID = m.nextID
		m.nextID++
		m.clients[c.ID] = *c
		return nil
	}
	if _, ok := m.clients[c.ID]; !ok {
		return ErrNotFound
	}
	m.clients[c.ID] = *c
	return nil
}
