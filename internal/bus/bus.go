// Package bus provides the in-process command and query dispatch layer.
//
// Each bus is an explicit registry from a message's runtime type to its
// handler. Registration happens once while the application container is
// built; afterwards the registries are only read. A dispatch on a type with
// no handler is a wiring bug and fails with ErrHandlerNotFound.
package bus

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
)

var (
	ErrHandlerNotFound = errors.New("no handler registered for message type")
	ErrHandlerExists   = errors.New("handler already registered for message type")
	ErrResultMismatch  = errors.New("handler result has unexpected type")
)

// CommandHandler handles commands of type C. Commands mutate state; the
// result, if any, is passed back to the dispatcher unmodified.
// Implementations must be safe for concurrent use.
type CommandHandler[C any] interface {
	Handle(ctx context.Context, cmd C) (any, error)
}

// QueryHandler handles queries of type Q. Query handlers must not mutate
// state. Implementations must be safe for concurrent use.
type QueryHandler[Q any] interface {
	Handle(ctx context.Context, q Q) (any, error)
}

// CommandBus maps command types to their single handler.
type CommandBus struct {
	mu       sync.RWMutex
	handlers map[reflect.Type]func(ctx context.Context, cmd any) (any, error)
}

func NewCommandBus() *CommandBus {
	return &CommandBus{handlers: make(map[reflect.Type]func(context.Context, any) (any, error))}
}

// RegisterCommand binds a handler to command type C. Duplicate bindings are
// rejected.
func RegisterCommand[C any](b *CommandBus, h CommandHandler[C]) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var zero C
	t := reflect.TypeOf(zero)
	if _, exists := b.handlers[t]; exists {
		return fmt.Errorf("register command %s: %w", t.String(), ErrHandlerExists)
	}

	b.handlers[t] = func(ctx context.Context, v any) (any, error) {
		return h.Handle(ctx, v.(C))
	}
	return nil
}

// Dispatch invokes the handler registered for the command's type
// synchronously and returns its result unmodified.
func (b *CommandBus) Dispatch(ctx context.Context, cmd any) (any, error) {
	b.mu.RLock()
	f, ok := b.handlers[reflect.TypeOf(cmd)]
	b.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("dispatch %T: %w", cmd, ErrHandlerNotFound)
	}
	return f(ctx, cmd)
}

// QueryBus maps query types to their single handler. It is independent of
// the command bus: the two registries share nothing.
type QueryBus struct {
	mu       sync.RWMutex
	handlers map[reflect.Type]func(ctx context.Context, q any) (any, error)
}

func NewQueryBus() *QueryBus {
	return &QueryBus{handlers: make(map[reflect.Type]func(context.Context, any) (any, error))}
}

// RegisterQuery binds a handler to query type Q. Duplicate bindings are
// rejected.
func RegisterQuery[Q any](b *QueryBus, h QueryHandler[Q]) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var zero Q
	t := reflect.TypeOf(zero)
	if _, exists := b.handlers[t]; exists {
		return fmt.Errorf("register query %s: %w", t.String(), ErrHandlerExists)
	}

	b.handlers[t] = func(ctx context.Context, v any) (any, error) {
		return h.Handle(ctx, v.(Q))
	}
	return nil
}

// Ask invokes the handler registered for the query's type synchronously and
// returns its result unmodified.
func (b *QueryBus) Ask(ctx context.Context, q any) (any, error) {
	b.mu.RLock()
	f, ok := b.handlers[reflect.TypeOf(q)]
	b.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("ask %T: %w", q, ErrHandlerNotFound)
	}
	return f(ctx, q)
}

// Exec is a typed helper around CommandBus.Dispatch.
func Exec[R any](ctx context.Context, b *CommandBus, cmd any) (R, error) {
	var zero R
	res, err := b.Dispatch(ctx, cmd)
	if err != nil {
		return zero, err
	}
	r, ok := res.(R)
	if !ok {
		return zero, fmt.Errorf("dispatch %T: %w", cmd, ErrResultMismatch)
	}
	return r, nil
}

// Query is a typed helper around QueryBus.Ask.
func Query[R any](ctx context.Context, b *QueryBus, q any) (R, error) {
	var zero R
	res, err := b.Ask(ctx, q)
	if err != nil {
		return zero, err
	}
	r, ok := res.(R)
	if !ok {
		return zero, fmt.Errorf("ask %T: %w", q, ErrResultMismatch)
	}
	return r, nil
}
