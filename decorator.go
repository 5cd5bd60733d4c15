package di

import (
	"context"
	"reflect"

	"github.com/sectrean/injex/internal/errors"
)

// WithDecorator registers a function that wraps a service every time the service is created.
//
// decorateFunc must take the service as one of its parameters and return the service,
// or the service and an error. Its other parameters are resolved from the container like
// constructor parameters.
//
// Decorators apply to services registered with the type returned by decorateFunc and the same name.
// They run after properties are injected, in the order they were registered.
// Instances registered with [AddInstance] or [FromInstance] are not decorated.
// The decorated value must still be assignable to every type the service is registered as.
//
// Available options:
//   - [WithName] decorates the service registered with the name.
//   - [WithNamed], [WithOptional] and [WithDependency] configure the other parameters.
//
// Example:
//
//	c, err := di.NewContainer(
//		di.AddSingleton[Sender](NewEmailSender),
//		di.WithDecorator(func(s Sender, log Logger) Sender {
//			return &loggingSender{next: s, log: log}
//		}),
//	)
func WithDecorator(decorateFunc any, opts ...DecoratorOption) ContainerOption {
	return newContainerOption(orderDecorator, func(c *Container) error {
		if decorateFunc == nil {
			return errors.New("WithDecorator: decorateFunc is nil")
		}

		dec, err := newDecorator(decorateFunc, opts)
		if err != nil {
			return errors.Wrapf(err, "WithDecorator %T", decorateFunc)
		}

		c.registry.addDecorator(dec)
		return nil
	})
}

// DecoratorOption is used to configure a decorator when calling [WithDecorator].
type DecoratorOption interface {
	applyDecorator(*decorator) error
}

type decorator struct {
	key      serviceKey
	fn       reflect.Value
	deps     []dependency
	svcIndex int
	hasError bool
}

func newDecorator(fn any, opts []DecoratorOption) (*decorator, error) {
	fnType := reflect.TypeOf(fn)
	if fnType.Kind() != reflect.Func {
		return nil, errors.New("decorateFunc must be a function")
	}

	dec := &decorator{
		fn:       reflect.ValueOf(fn),
		svcIndex: -1,
	}

	switch {
	case fnType.NumOut() == 1:
	case fnType.NumOut() == 2 && fnType.Out(1) == typeError:
		dec.hasError = true
	default:
		return nil, errors.New("function must return Service or (Service, error)")
	}

	t := fnType.Out(0)
	if err := validateServiceType(t); err != nil {
		return nil, err
	}
	dec.key = serviceKey{Type: t, Name: DefaultName}

	dec.deps = make([]dependency, fnType.NumIn())
	for i := range fnType.NumIn() {
		in := fnType.In(i)
		if in == t && dec.svcIndex < 0 {
			dec.svcIndex = i
			dec.deps[i] = dependency{Type: t, key: dec.key, named: true, optional: true}
			continue
		}

		dep, ok := newDependency(in)
		if !ok {
			return nil, &MissingTypeAnnotationError{Target: fnType, Param: i}
		}
		dec.deps[i] = dep
	}

	if dec.svcIndex < 0 {
		return nil, errors.Errorf("function must have a %s parameter", t)
	}

	err := applyOptions(opts, func(opt DecoratorOption) error {
		return opt.applyDecorator(dec)
	})
	if err != nil {
		return nil, err
	}

	return dec, nil
}

// dependencies returns the parameters resolved from the container.
func (dec *decorator) dependencies() []dependency {
	deps := make([]dependency, 0, len(dec.deps)-1)
	for i, dep := range dec.deps {
		if i != dec.svcIndex {
			deps = append(deps, dep)
		}
	}
	return deps
}

func (dec *decorator) String() string {
	return dec.fn.Type().String()
}

// decorate calls the decorators registered for the service in order.
// Their dependencies are resolved as part of the same resolution.
func (c *Container) decorate(
	ctx context.Context,
	d *descriptor,
	val any,
	bound *boundScope,
	visitor *resolveVisitor,
) (any, error) {
	for _, dec := range c.registry.decoratorsFor(d.key) {
		args := make([]reflect.Value, len(dec.deps))
		for i, dep := range dec.deps {
			if i == dec.svcIndex {
				args[i] = valueOf(dep.Type, val)
				continue
			}

			argVal, err := c.resolveDependency(ctx, dep, bound, visitor)
			if err != nil {
				return nil, errors.Wrapf(err, "decorator %s: dependency %s", dec, dep)
			}
			args[i] = argVal
		}

		var out []reflect.Value
		if dec.fn.Type().IsVariadic() {
			out = dec.fn.CallSlice(args)
		} else {
			out = dec.fn.Call(args)
		}

		if dec.hasError {
			if err, _ := out[1].Interface().(error); err != nil {
				return nil, errors.Wrapf(err, "decorator %s", dec)
			}
		}

		val = out[0].Interface()
		if isNil(val) {
			val = nil
		}
	}

	return val, nil
}
