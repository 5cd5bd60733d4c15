package di

import (
	"cmp"
	"context"
	"io"
	"log/slog"
	"reflect"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/sectrean/injex/internal/errors"
)

// Container is a dependency injection container.
// It is used to resolve services by first resolving their dependencies.
//
// The Container returned by [NewContainer] is the root scope. It stores singleton services.
// Child scopes are created with [Container.NewScope]. They share the registered services of the
// root and store their own scoped services.
type Container struct {
	id       uuid.UUID
	registry *registry
	root     *Container
	cache    *instanceCache
	logger   *slog.Logger
	closedMu sync.RWMutex
	closed   bool
}

var _ Scope = (*Container)(nil)

// NewContainer creates a new [Container] with the provided options.
//
// Available options:
//   - [Register], [AddSingleton], [AddTransient], [AddScoped], [AddInstance] and the factory
//     variants register services.
//   - [WithDecorator] wraps a service when it is created.
//   - [WithModule] applies a group of options.
//   - [WithLogger] sets the logger.
//   - [WithDependencyValidation] validates service dependencies.
func NewContainer(opts ...ContainerOption) (*Container, error) {
	c := &Container{
		id:       uuid.New(),
		registry: newRegistry(),
		cache:    newInstanceCache(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	c.root = c

	err := c.applyOptions(opts)
	if err != nil {
		return nil, errors.Wrap(err, "di.NewContainer")
	}

	return c, nil
}

// ContainerOption is used to configure a new [Container] when calling [NewContainer].
type ContainerOption interface {
	order() optionOrder
	applyContainer(*Container) error
}

func (c *Container) applyOptions(opts []ContainerOption) error {
	// Flatten any modules before sorting and applying options
	opts = flattenModules(opts)

	// Sort options by precedence
	// Use stable sort because the registration order of services matters
	slices.SortStableFunc(opts, func(a, b ContainerOption) int {
		return cmp.Compare(a.order(), b.order())
	})

	return applyOptions(opts, func(o ContainerOption) error {
		return o.applyContainer(c)
	})
}

// register adds the service to the registry.
// It is only called while the root Container is created, so no locks are needed.
func (c *Container) register(d *descriptor) {
	c.registry.add(d)

	// Instances are created already, so they are closed with the root Container
	if d.producer.isInstance() {
		val, _ := d.producer.produce(context.Background(), c, nil)
		if closer := d.closerFor(val); closer != nil {
			c.cache.addCloser(closer)
		}
	}
}

// ID returns the unique identifier of the scope.
func (c *Container) ID() uuid.UUID {
	return c.id
}

// NewScope creates a new child scope.
//
// The scope resolves the services registered with the root [Container]. Scoped services are created
// once per scope. Singleton services are still created and stored by the root [Container].
//
// The scope must be closed with [Container.Close] to close the services it created.
func (c *Container) NewScope() (*Container, error) {
	c.closedMu.RLock()
	defer c.closedMu.RUnlock()

	if c.closed {
		return nil, errors.Wrap(ErrContainerClosed, "di.Container.NewScope")
	}

	scope := &Container{
		id:       uuid.New(),
		registry: c.registry,
		root:     c.root,
		cache:    newInstanceCache(),
		logger:   c.logger,
	}

	c.logger.Debug("scope created",
		"scope", scope.id.String(),
		"parent", c.id.String(),
	)

	return scope, nil
}

// Contains returns true if the [Container] has a service registered for the given [reflect.Type].
//
// If t is a slice type, Contains checks for services of the element type.
//
// Available options:
//   - [WithName] specifies the name of the service.
func (c *Container) Contains(t reflect.Type, opts ...ResolveOption) bool {
	if t == nil {
		return false
	}

	// Check if the type is a slice, look for the element type
	if t.Kind() == reflect.Slice {
		t = t.Elem()
	}

	return c.registry.contains(newServiceKey(t, opts))
}

// Resolve a service of the given [reflect.Type].
//
// The type must be registered with the [Container].
// This will return an error if the [Container] has been closed.
//
// Available options:
//   - [WithName] specifies the name of the service.
func (c *Container) Resolve(ctx context.Context, t reflect.Type, opts ...ResolveOption) (any, error) {
	if t == nil {
		return nil, errors.New("di.Container.Resolve: type is nil")
	}

	key := newServiceKey(t, opts)

	c.closedMu.RLock()
	defer c.closedMu.RUnlock()

	if c.closed {
		return nil, errors.Wrapf(ErrContainerClosed, "di.Container.Resolve %s", key)
	}

	val, err := c.resolveKey(ctx, key, newResolveVisitor(), false)
	if err != nil {
		return nil, errors.Wrapf(err, "di.Container.Resolve %s", key)
	}

	return val, nil
}

// ResolveAll resolves every service registered for the given [reflect.Type], under any name,
// in registration order.
//
// An empty slice is returned if no services are registered.
// This will return an error if the [Container] has been closed.
func (c *Container) ResolveAll(ctx context.Context, t reflect.Type) ([]any, error) {
	if t == nil {
		return nil, errors.New("di.Container.ResolveAll: type is nil")
	}

	c.closedMu.RLock()
	defer c.closedMu.RUnlock()

	if c.closed {
		return nil, errors.Wrapf(ErrContainerClosed, "di.Container.ResolveAll %s", t)
	}

	vals, err := c.resolveAll(ctx, t, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "di.Container.ResolveAll %s", t)
	}

	return vals, nil
}

// Close the [Container] and the services it created.
//
// Services are closed in the reverse order they were created.
// Errors returned from closing services are joined together.
//
// Closing a child scope closes its scoped and transient services. Closing the root [Container]
// also closes singletons and instances registered with [WithCloser].
//
// Close will return an error if called more than once.
func (c *Container) Close(ctx context.Context) error {
	c.closedMu.Lock()
	defer c.closedMu.Unlock()

	if c.closed {
		return errors.Wrap(ErrContainerClosed, "di.Container.Close: closed already")
	}
	c.closed = true

	err := c.cache.close(ctx)

	c.logger.DebugContext(ctx, "scope closed",
		"scope", c.id.String(),
		"root", c == c.root,
	)

	if err != nil {
		c.logger.WarnContext(ctx, "error closing services",
			"scope", c.id.String(),
			"error", err,
		)
		return errors.Wrap(err, "di.Container.Close")
	}

	return nil
}

type optionOrder int8

const (
	orderLogger optionOrder = iota
	orderService
	orderDecorator
	orderValidation
)

func newContainerOption(order optionOrder, fn func(*Container) error) ContainerOption {
	return containerOption{fn: fn, ord: order}
}

type containerOption struct {
	fn  func(*Container) error
	ord optionOrder
}

func (o containerOption) order() optionOrder {
	return o.ord
}

func (o containerOption) applyContainer(c *Container) error {
	return o.fn(c)
}
