package di

import (
	"context"
	"reflect"

	"github.com/sectrean/injex/internal/errors"
)

// Producer describes how the container creates a service.
//
// A Producer is not modified by registration, so the same Producer can be registered
// any number of times and used by containers created concurrently.
//
// Available producers:
//   - [FromConstructor] calls a constructor function with its parameters resolved from the container.
//   - [FromType] creates the zero value of a type. Dependencies are set with property injection.
//   - [FromFactory] calls a factory function with the active [Scope].
//   - [FromInstance] returns an existing value. Instances are always singletons.
type Producer interface {
	// resultType returns the type created by the producer, or nil if it is not known until resolved.
	resultType() reflect.Type
	// dependencies returns the parameters of the producer. Callers must not modify the slice.
	dependencies() []dependency
	isInstance() bool
	// check returns an error if the producer cannot be registered.
	check() error
	produce(ctx context.Context, s Scope, args []reflect.Value) (any, error)
}

// FromConstructor returns a [Producer] that calls the constructor function fn.
//
// The function may take any number of parameters. Each parameter type is resolved from the container
// when the service is created. Parameters may also be a [context.Context], a [Scope], an [Optional],
// or a slice of services which resolves every service registered for the element type.
//
// The function must return a service, or the service and an error.
func FromConstructor(fn any) Producer {
	p := &constructorProducer{fn: fn}
	p.err = p.analyze()
	return p
}

type constructorProducer struct {
	fn       any
	fnVal    reflect.Value
	t        reflect.Type
	deps     []dependency
	hasError bool
	err      error
}

// analyze is only called by FromConstructor.
func (p *constructorProducer) analyze() error {
	if p.fn == nil {
		return errors.New("constructor is nil")
	}

	fnType := reflect.TypeOf(p.fn)
	if fnType.Kind() != reflect.Func {
		return errors.Errorf("constructor %T is not a function", p.fn)
	}

	switch {
	case fnType.NumOut() == 1:
		p.t = fnType.Out(0)
	case fnType.NumOut() == 2 && fnType.Out(1) == typeError:
		p.t = fnType.Out(0)
		p.hasError = true
	default:
		return errors.New("function must return Service or (Service, error)")
	}

	if !isServiceIdentity(p.t) {
		return errors.Errorf("invalid service type %s", p.t)
	}

	p.deps = make([]dependency, fnType.NumIn())
	for i := range fnType.NumIn() {
		dep, ok := newDependency(fnType.In(i))
		if !ok {
			return &MissingTypeAnnotationError{
				Target: fnType,
				Param:  i,
			}
		}

		p.deps[i] = dep
	}

	p.fnVal = reflect.ValueOf(p.fn)
	return nil
}

func (p *constructorProducer) check() error { return p.err }

func (p *constructorProducer) resultType() reflect.Type {
	if p.err != nil {
		return nil
	}
	return p.t
}

func (p *constructorProducer) dependencies() []dependency { return p.deps }
func (*constructorProducer) isInstance() bool             { return false }

func (p *constructorProducer) produce(_ context.Context, _ Scope, args []reflect.Value) (any, error) {
	var out []reflect.Value
	if p.fnVal.Type().IsVariadic() {
		out = p.fnVal.CallSlice(args)
	} else {
		out = p.fnVal.Call(args)
	}

	var err error
	if p.hasError {
		err, _ = out[1].Interface().(error)
	}

	return out[0].Interface(), err
}

func (p *constructorProducer) String() string {
	if p.fn == nil {
		return "constructor"
	}
	return reflect.TypeOf(p.fn).String()
}

// FromType returns a [Producer] that creates a new value of type t.
//
// A pointer to a struct creates a new zeroed struct. Any other struct type creates its zero value.
// Fields tagged with `inject` are set after the value is created.
func FromType(t reflect.Type) Producer {
	return &typeProducer{t: t}
}

type typeProducer struct {
	t reflect.Type
}

func (p *typeProducer) check() error {
	if p.t == nil {
		return errors.New("type is nil")
	}

	switch {
	case p.t.Kind() == reflect.Ptr && p.t.Elem().Kind() == reflect.Struct:
		return nil
	case p.t.Kind() == reflect.Struct:
		return nil
	}

	return errors.Errorf("cannot create %s: use a constructor or a factory", p.t)
}

func (p *typeProducer) resultType() reflect.Type { return p.t }
func (*typeProducer) dependencies() []dependency { return nil }
func (*typeProducer) isInstance() bool           { return false }

func (p *typeProducer) produce(context.Context, Scope, []reflect.Value) (any, error) {
	if p.t.Kind() == reflect.Ptr {
		return reflect.New(p.t.Elem()).Interface(), nil
	}
	return reflect.Zero(p.t).Interface(), nil
}

func (p *typeProducer) String() string {
	return p.t.String()
}

// FactoryFunc creates a service.
//
// The [Scope] can be used to resolve other services. Services resolved while the factory is running
// are part of the same resolution, so dependency cycles through factories are reported.
type FactoryFunc func(ctx context.Context, s Scope) (any, error)

// FromFactory returns a [Producer] that calls the factory function.
//
// The factory is not inspected for dependencies. The value it returns must be assignable to the
// type the service is registered as.
func FromFactory(fn FactoryFunc) Producer {
	return &factoryProducer{fn: fn}
}

type factoryProducer struct {
	fn FactoryFunc
	t  reflect.Type
}

func (p *factoryProducer) check() error {
	if p.fn == nil {
		return errors.New("factory is nil")
	}
	return nil
}

func (p *factoryProducer) resultType() reflect.Type { return p.t }
func (*factoryProducer) dependencies() []dependency { return nil }
func (*factoryProducer) isInstance() bool           { return false }

func (p *factoryProducer) produce(ctx context.Context, s Scope, _ []reflect.Value) (any, error) {
	return p.fn(ctx, s)
}

func (p *factoryProducer) String() string {
	if p.t == nil {
		return "factory"
	}
	return "factory " + p.t.String()
}

// FromInstance returns a [Producer] that always returns val.
//
// Instances are singletons regardless of the lifetime they are registered with.
// They are not closed by the container unless [WithCloser] or [WithCloseFunc] is used.
func FromInstance(val any) Producer {
	return &instanceProducer{val: val}
}

type instanceProducer struct {
	val any
}

func (p *instanceProducer) check() error {
	if isNil(p.val) {
		return errors.New("instance is nil")
	}
	return nil
}

func (p *instanceProducer) resultType() reflect.Type { return reflect.TypeOf(p.val) }
func (*instanceProducer) dependencies() []dependency { return nil }
func (*instanceProducer) isInstance() bool           { return true }

func (p *instanceProducer) produce(context.Context, Scope, []reflect.Value) (any, error) {
	return p.val, nil
}

func (p *instanceProducer) String() string {
	return reflect.TypeOf(p.val).String()
}

// producerFor converts the implementation passed to the registration functions to a Producer.
func producerFor(t reflect.Type, impl any) Producer {
	switch impl := impl.(type) {
	case nil:
		return FromType(t)
	case Producer:
		return impl
	case reflect.Type:
		return FromType(impl)
	}

	if reflect.TypeOf(impl).Kind() == reflect.Func {
		return FromConstructor(impl)
	}

	return invalidProducer{errors.Errorf("unsupported implementation %T: use a constructor, a type or di.AddInstance", impl)}
}

type invalidProducer struct {
	err error
}

func (p invalidProducer) check() error             { return p.err }
func (invalidProducer) resultType() reflect.Type   { return nil }
func (invalidProducer) dependencies() []dependency { return nil }
func (invalidProducer) isInstance() bool           { return false }
func (p invalidProducer) produce(context.Context, Scope, []reflect.Value) (any, error) {
	return nil, p.err
}
