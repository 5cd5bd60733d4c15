package di

import (
	"context"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/sectrean/injex/internal/errors"
)

// Scope allows you to resolve services.
//
// A Scope can be injected into constructors and is passed to factories. Services resolved from it while
// the service is being created are part of the same resolution. It can also be stored and used later.
//
// Scope is implemented by *Container.
type Scope interface {
	// ID returns the unique identifier of the scope.
	ID() uuid.UUID

	// Contains returns true if the Scope has a service of the given type.
	//
	// Available options:
	// 	- [WithName] specifies the name of the service.
	Contains(t reflect.Type, opts ...ResolveOption) bool

	// Resolve returns a service of the given type from the Scope.
	//
	// Available options:
	// 	- [WithName] specifies the name of the service.
	Resolve(ctx context.Context, t reflect.Type, opts ...ResolveOption) (any, error)

	// ResolveAll returns every service registered for the given type, under any name,
	// in registration order.
	ResolveAll(ctx context.Context, t reflect.Type) ([]any, error)
}

// Resolve a service of the given type from the [Scope].
func Resolve[T any](ctx context.Context, s Scope, opts ...ResolveOption) (T, error) {
	var val T
	anyVal, err := s.Resolve(ctx, reflect.TypeFor[T](), opts...)
	if anyVal != nil {
		val = anyVal.(T)
	}

	return val, err
}

// MustResolve resolves a service of the given type from the [Scope].
//
// If the service cannot be resolved, this function will panic.
func MustResolve[T any](ctx context.Context, s Scope, opts ...ResolveOption) T {
	val, err := Resolve[T](ctx, s, opts...)
	if err != nil {
		panic(err)
	}
	return val
}

// ResolveAll resolves every service registered for type T from the [Scope], in registration order.
//
// An empty slice is returned if no services are registered.
func ResolveAll[T any](ctx context.Context, s Scope) ([]T, error) {
	anyVals, err := s.ResolveAll(ctx, reflect.TypeFor[T]())
	if err != nil {
		return nil, err
	}

	vals := make([]T, len(anyVals))
	for i, v := range anyVals {
		if v != nil {
			vals[i] = v.(T)
		}
	}

	return vals, nil
}

// boundScope is the Scope given to constructors and factories.
//
// While the service is being created, it resolves services as part of the same resolution so
// dependency cycles are detected. Once the service has been created, it behaves like the scope itself.
type boundScope struct {
	scope   *Container
	visitor *resolveVisitor
	mu      sync.Mutex
	done    atomic.Bool
}

func newBoundScope(scope *Container, visitor *resolveVisitor) *boundScope {
	return &boundScope{
		scope:   scope,
		visitor: visitor,
	}
}

func (s *boundScope) release() {
	s.done.Store(true)
}

func (s *boundScope) ID() uuid.UUID {
	return s.scope.ID()
}

func (s *boundScope) Contains(t reflect.Type, opts ...ResolveOption) bool {
	return s.scope.Contains(t, opts...)
}

func (s *boundScope) Resolve(ctx context.Context, t reflect.Type, opts ...ResolveOption) (any, error) {
	if s.done.Load() {
		return s.scope.Resolve(ctx, t, opts...)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := newServiceKey(t, opts)
	val, err := s.scope.resolveKey(ctx, key, s.visitor, false)
	if err != nil {
		return nil, errors.Wrapf(err, "di.Scope.Resolve %s", key)
	}

	return val, nil
}

func (s *boundScope) ResolveAll(ctx context.Context, t reflect.Type) ([]any, error) {
	if s.done.Load() {
		return s.scope.ResolveAll(ctx, t)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	vals, err := s.scope.resolveAll(ctx, t, s.visitor)
	if err != nil {
		return nil, errors.Wrapf(err, "di.Scope.ResolveAll %s", t)
	}

	return vals, nil
}

var _ Scope = (*boundScope)(nil)
