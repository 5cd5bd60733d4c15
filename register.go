package di

import (
	"context"
	"reflect"

	"github.com/sectrean/injex/internal/errors"
)

// Register registers a service with the [Container] when calling [NewContainer].
//
// The service is registered as the identity type, which must be an interface, a pointer or a struct.
// The [Producer] creates the service when it is resolved, and the [Lifetime] controls how long the
// created service is kept.
//
// If the created service implements [Closer], or a compatible Close method signature,
// it will be closed when the scope that created it is closed.
//
// Available options:
//   - [WithName] specifies the name of the service.
//   - [As] registers an alias for the service.
//   - [WithNamed], [WithOptional] and [WithDependency] configure constructor dependencies.
//   - [WithCloseFunc] specifies a function to be called when the service is closed.
//   - [IgnoreCloser] specifies that the service should not be closed.
//   - [WithCloser] specifies that an instance should be closed.
func Register(identity reflect.Type, p Producer, lifetime Lifetime, opts ...ServiceOption) ContainerOption {
	return newContainerOption(orderService, func(c *Container) error {
		d, err := newDescriptor(identity, p, lifetime, opts)
		if err != nil {
			return errors.Wrapf(err, "register %v", identity)
		}

		c.register(d)
		return nil
	})
}

// AddSingleton registers a service of type Service that is created once and shared by every scope.
//
// The impl argument can be:
//   - nil to create the Service type itself
//   - a [reflect.Type] to create, which must be assignable to Service
//   - a constructor function returning the service, or the service and an error
//   - a [Producer]
func AddSingleton[Service any](impl any, opts ...ServiceOption) ContainerOption {
	return Register(reflect.TypeFor[Service](), producerFor(reflect.TypeFor[Service](), impl), Singleton, opts...)
}

// AddTransient registers a service of type Service that is created every time it is resolved.
//
// See [AddSingleton] for the supported impl arguments.
func AddTransient[Service any](impl any, opts ...ServiceOption) ContainerOption {
	return Register(reflect.TypeFor[Service](), producerFor(reflect.TypeFor[Service](), impl), Transient, opts...)
}

// AddScoped registers a service of type Service that is created once per scope.
//
// See [AddSingleton] for the supported impl arguments.
func AddScoped[Service any](impl any, opts ...ServiceOption) ContainerOption {
	return Register(reflect.TypeFor[Service](), producerFor(reflect.TypeFor[Service](), impl), Scoped, opts...)
}

// AddSingletonFactory registers a singleton service created by the factory function.
func AddSingletonFactory[Service any](f func(context.Context, Scope) (Service, error), opts ...ServiceOption) ContainerOption {
	return Register(reflect.TypeFor[Service](), typedFactory(f), Singleton, opts...)
}

// AddTransientFactory registers a transient service created by the factory function.
func AddTransientFactory[Service any](f func(context.Context, Scope) (Service, error), opts ...ServiceOption) ContainerOption {
	return Register(reflect.TypeFor[Service](), typedFactory(f), Transient, opts...)
}

// AddScopedFactory registers a scoped service created by the factory function.
func AddScopedFactory[Service any](f func(context.Context, Scope) (Service, error), opts ...ServiceOption) ContainerOption {
	return Register(reflect.TypeFor[Service](), typedFactory(f), Scoped, opts...)
}

// AddInstance registers an existing value as a singleton service of type Service.
//
// The value is not closed by the container unless [WithCloser] or [WithCloseFunc] is used.
func AddInstance[Service any](val Service, opts ...ServiceOption) ContainerOption {
	return Register(reflect.TypeFor[Service](), FromInstance(val), Singleton, opts...)
}

func typedFactory[Service any](f func(context.Context, Scope) (Service, error)) Producer {
	if f == nil {
		return &factoryProducer{t: reflect.TypeFor[Service]()}
	}

	return &factoryProducer{
		fn: func(ctx context.Context, s Scope) (any, error) {
			val, err := f(ctx, s)
			if err != nil {
				return nil, err
			}
			if isNil(val) {
				return nil, nil
			}
			return val, nil
		},
		t: reflect.TypeFor[Service](),
	}
}

// ServiceOption is used to configure a service when calling [Register] or one of the Add functions.
type ServiceOption interface {
	applyService(*descriptor) error
}

type serviceOption func(*descriptor) error

func (o serviceOption) applyService(d *descriptor) error {
	return o(d)
}
