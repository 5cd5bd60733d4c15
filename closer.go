package di

//go:generate mockery

import (
	"context"
	"reflect"

	"github.com/sectrean/injex/internal/errors"
)

// Closer releases the resources held by a service.
//
// A scope closes the services it constructed when [Container.Close] is called, most recent first.
// Scoped and transient services belong to the scope that resolved them. Singletons belong to the
// root [Container].
//
// Services don't need to implement Closer exactly. Any of these methods is used:
//
//	Close(context.Context) error
//	Close(context.Context)
//	Close() error
//	Close()
//
// See [IgnoreCloser], [WithCloser] and [WithCloseFunc] to change this per service.
type Closer interface {
	Close(ctx context.Context) error
}

// WithCloser closes an instance registered with [AddInstance] or [FromInstance]
// when the root [Container] is closed.
//
// Instances are created outside the container, so they are not closed by default.
func WithCloser() ServiceOption {
	return serviceOption(func(d *descriptor) error {
		d.closerFactory = getCloser
		return nil
	})
}

// IgnoreCloser keeps the container from closing the service.
//
// Use it when the lifecycle of the service is managed somewhere else.
func IgnoreCloser() ServiceOption {
	return serviceOption(func(d *descriptor) error {
		d.closerFactory = nil
		return nil
	})
}

type closerFactory func(val any) Closer

// WithCloseFunc sets the function that closes the service, replacing its Close method if it has one.
// Use it for services that stop with Shutdown or Stop:
//
//	di.AddSingleton[*http.Server](NewServer,
//		di.WithCloseFunc(func(ctx context.Context, s *http.Server) error {
//			return s.Shutdown(ctx)
//		}),
//	)
//
// Registration fails if the service type is not assignable to T.
func WithCloseFunc[T any](f func(context.Context, T) error) ServiceOption {
	return closeFuncOption[T]{f}
}

type closeFuncOption[T any] struct {
	f func(context.Context, T) error
}

func (o closeFuncOption[T]) applyService(d *descriptor) error {
	svcType := d.Type()
	closerType := reflect.TypeFor[T]()

	if !svcType.AssignableTo(closerType) {
		return errors.Errorf("with close func: service type %s is not assignable to %s",
			svcType, closerType)
	}

	d.closerFactory = func(val any) Closer {
		return closeFunc(func(ctx context.Context) error {
			return o.f(ctx, val.(T))
		})
	}
	return nil
}

// closerFor returns the Closer for a value created for d, or nil if it is not closed.
func (d *descriptor) closerFor(val any) Closer {
	if isNil(val) || d.closerFactory == nil {
		return nil
	}
	return d.closerFactory(val)
}

// getCloser adapts any of the supported Close methods to a Closer.
// It returns nil if val cannot be closed.
func getCloser(val any) Closer {
	switch c := val.(type) {
	case Closer:
		return c
	case interface{ Close(context.Context) }:
		return closeFunc(func(ctx context.Context) error {
			c.Close(ctx)
			return nil
		})
	case interface{ Close() error }:
		return closeFunc(func(context.Context) error {
			return c.Close()
		})
	case interface{ Close() }:
		return closeFunc(func(context.Context) error {
			c.Close()
			return nil
		})
	}

	return nil
}

type closeFunc func(context.Context) error

func (f closeFunc) Close(ctx context.Context) error {
	return f(ctx)
}
