package di

import (
	"context"
	"reflect"

	"github.com/sectrean/injex/internal/errors"
)

// resolveKey looks up the service for key and resolves it.
//
// If optional is true and the service is not registered, nil is returned without an error.
func (c *Container) resolveKey(
	ctx context.Context,
	key serviceKey,
	visitor *resolveVisitor,
	optional bool,
) (any, error) {
	d := c.registry.lookup(key)
	if d == nil {
		if optional {
			return nil, nil
		}
		return nil, ErrServiceNotRegistered
	}

	return c.resolveService(ctx, key, d, visitor)
}

// resolveAll resolves every service registered for t in registration order.
//
// If visitor is nil, each service is resolved with its own visitor.
func (c *Container) resolveAll(ctx context.Context, t reflect.Type, visitor *resolveVisitor) ([]any, error) {
	svcs := c.registry.lookupAll(t)
	vals := make([]any, 0, len(svcs))

	for _, d := range svcs {
		v := visitor
		if v == nil {
			v = newResolveVisitor()
		}

		key := serviceKey{Type: t, Name: d.key.Name}
		val, err := c.resolveService(ctx, key, d, v)
		if err != nil {
			return nil, err
		}

		vals = append(vals, val)
	}

	return vals, nil
}

func (c *Container) resolveService(
	ctx context.Context,
	key serviceKey,
	d *descriptor,
	visitor *resolveVisitor,
) (any, error) {
	// Check context for errors
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	// Throw an error if this service is already being created by this resolution
	if !visitor.Enter(key, d) {
		return nil, visitor.Cycle(key, d)
	}
	defer visitor.Leave(d)

	if d.producer.isInstance() {
		return d.producer.produce(ctx, c, nil)
	}

	switch d.lifetime {
	case Singleton:
		// Singletons are created and stored by the root scope,
		// so their dependencies are resolved from the root too.
		return c.root.resolveCached(ctx, d, visitor)
	case Scoped:
		return c.resolveCached(ctx, d, visitor)
	default:
		return c.create(ctx, d, visitor, nil)
	}
}

func (c *Container) resolveCached(ctx context.Context, d *descriptor, visitor *resolveVisitor) (any, error) {
	if f, ok := c.cache.load(d); ok {
		return f.wait(ctx, visitor)
	}

	// Resolve constructor dependencies before claiming the cache entry.
	// Dependency cycles are reported before anything waits on another goroutine.
	bound := newBoundScope(c, visitor)
	defer bound.release()

	args, err := c.resolveArgs(ctx, d, bound, visitor)
	if err != nil {
		return nil, err
	}

	return c.cache.getOrCreate(ctx, d, visitor, func() (any, error) {
		return c.create(ctx, d, visitor, args)
	})
}

func (c *Container) resolveArgs(
	ctx context.Context,
	d *descriptor,
	bound *boundScope,
	visitor *resolveVisitor,
) ([]reflect.Value, error) {
	deps := d.deps
	if len(deps) == 0 {
		return nil, nil
	}

	args := make([]reflect.Value, len(deps))
	for i, dep := range deps {
		val, err := c.resolveDependency(ctx, dep, bound, visitor)
		if err != nil {
			// Stop at the first error
			return nil, errors.Wrapf(err, "dependency %s", dep)
		}
		args[i] = val
	}

	return args, nil
}

// create calls the producer, injects properties, applies decorators and registers the service closer.
// If args is nil, the constructor dependencies are resolved first.
func (c *Container) create(
	ctx context.Context,
	d *descriptor,
	visitor *resolveVisitor,
	args []reflect.Value,
) (any, error) {
	bound := newBoundScope(c, visitor)
	defer bound.release()

	if args == nil {
		var err error
		args, err = c.resolveArgs(ctx, d, bound, visitor)
		if err != nil {
			return nil, err
		}
	}

	val, err := d.producer.produce(ctx, bound, args)
	if err != nil {
		return nil, err
	}

	if err := d.checkResult(val); err != nil {
		return nil, err
	}

	val, err = c.injectProperties(ctx, d, val, bound, visitor)
	if err != nil {
		return nil, err
	}

	val, err = c.decorate(ctx, d, val, bound, visitor)
	if err != nil {
		return nil, err
	}
	if err := d.checkResult(val); err != nil {
		return nil, err
	}

	if closer := d.closerFor(val); closer != nil {
		c.cache.addCloser(closer)
	}

	c.logger.DebugContext(ctx, "service constructed",
		"service", d.String(),
		"lifetime", d.lifetime.String(),
		"scope", c.id.String(),
	)

	return val, nil
}

// injectProperties sets the fields tagged with `inject` on the created service.
//
// Struct values are copied before the fields are set. Pointers are updated in place.
func (c *Container) injectProperties(
	ctx context.Context,
	d *descriptor,
	val any,
	bound *boundScope,
	visitor *resolveVisitor,
) (any, error) {
	if isNil(val) {
		return val, nil
	}

	props := d.properties
	if d.dynamicProps {
		var err error
		props, err = propertiesFor(reflect.TypeOf(val))
		if err != nil {
			return nil, err
		}
	}

	if len(props) == 0 {
		return val, nil
	}

	rv := reflect.ValueOf(val)

	var target reflect.Value
	if rv.Kind() == reflect.Ptr {
		target = rv.Elem()
	} else {
		target = reflect.New(rv.Type()).Elem()
		target.Set(rv)
	}

	for _, prop := range props {
		propVal, err := c.resolveDependency(ctx, prop.dep, bound, visitor)
		if err != nil {
			return nil, errors.Wrapf(err, "property %s", prop.field)
		}

		target.Field(prop.index).Set(propVal)
	}

	if rv.Kind() == reflect.Ptr {
		return val, nil
	}
	return target.Interface(), nil
}

// resolveDependency returns a value of the declared type of the dependency.
func (c *Container) resolveDependency(
	ctx context.Context,
	dep dependency,
	bound *boundScope,
	visitor *resolveVisitor,
) (reflect.Value, error) {
	switch dep.kind {
	case depContext:
		return valueOf(dep.Type, ctx), nil

	case depScope:
		return reflect.ValueOf(bound).Convert(typeScope), nil

	case depAll:
		vals, err := c.resolveAll(ctx, dep.key.Type, visitor)
		if err != nil {
			return reflect.Value{}, err
		}

		slice := reflect.MakeSlice(dep.Type, 0, len(vals))
		for _, val := range vals {
			slice = reflect.Append(slice, valueOf(dep.key.Type, val))
		}
		return slice, nil

	default:
		val, err := c.resolveKey(ctx, dep.key, visitor, dep.optional)
		if err != nil {
			return reflect.Value{}, err
		}

		if dep.wrapper != nil {
			return reflect.ValueOf(dep.wrapper.wrap(val)), nil
		}
		return valueOf(dep.Type, val), nil
	}
}
