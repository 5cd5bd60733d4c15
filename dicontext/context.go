// Package dicontext stores a [di.Scope] on a [context.Context] and resolves services from it.
package dicontext

import (
	"context"
	"reflect"

	"github.com/sectrean/injex"
	"github.com/sectrean/injex/internal/errors"
)

type scopeContextKey struct{}

// WithScope returns a new [context.Context] that carries the provided [di.Scope].
func WithScope(ctx context.Context, s di.Scope) context.Context {
	return context.WithValue(ctx, scopeContextKey{}, s)
}

// Scope returns the [di.Scope] stored on the [context.Context], if present.
func Scope(ctx context.Context) di.Scope {
	if s, ok := ctx.Value(scopeContextKey{}).(di.Scope); ok {
		return s
	}
	return nil
}

// Resolve a service of type Service from the [di.Scope] stored on the
// [context.Context].
//
// Available options:
//   - [di.WithName] specifies the name of the service.
func Resolve[Service any](ctx context.Context, opts ...di.ResolveOption) (Service, error) {
	var t = reflect.TypeFor[Service]()
	var val Service

	s := Scope(ctx)
	if s == nil {
		return val, errors.Errorf("resolve %s from context: scope not found on context", t)
	}

	anyVal, err := s.Resolve(ctx, t, opts...)
	if err != nil {
		return val, errors.Wrapf(err, "resolve %s from context", t)
	}
	if anyVal != nil {
		val = anyVal.(Service)
	}

	return val, nil
}

// MustResolve resolves a service of the given type from the [di.Scope] stored on the
// [context.Context].
//
// If the service cannot be resolved, this function will panic.
func MustResolve[Service any](ctx context.Context, opts ...di.ResolveOption) Service {
	val, err := Resolve[Service](ctx, opts...)
	if err != nil {
		panic(err)
	}
	return val
}

// ResolveAll resolves every service of type Service from the [di.Scope] stored on the
// [context.Context], in registration order.
func ResolveAll[Service any](ctx context.Context) ([]Service, error) {
	s := Scope(ctx)
	if s == nil {
		return nil, errors.Errorf("resolve all %s from context: scope not found on context", reflect.TypeFor[Service]())
	}

	vals, err := di.ResolveAll[Service](ctx, s)
	if err != nil {
		return nil, errors.Wrapf(err, "resolve all %s from context", reflect.TypeFor[Service]())
	}

	return vals, nil
}
