package di

import (
	"fmt"
	"reflect"

	"github.com/sectrean/injex/internal/errors"
)

// DefaultName is the name of services registered or resolved without [WithName].
const DefaultName = "default"

// serviceKey identifies registered services by type and name.
type serviceKey struct {
	Type reflect.Type
	Name string
}

func newServiceKey(t reflect.Type, opts []ResolveOption) serviceKey {
	key := serviceKey{Type: t, Name: DefaultName}
	for _, opt := range opts {
		key = opt.applyServiceKey(key)
	}

	return key
}

func (k serviceKey) String() string {
	if k.Name == DefaultName {
		return k.Type.String()
	}
	return fmt.Sprintf("%s (name %q)", k.Type, k.Name)
}

func normalizeName(name string) string {
	if name == "" {
		return DefaultName
	}
	return name
}

// WithName is used to specify the name of a service.
//
// Services of the same type can be registered under different names and resolved
// individually by name. [Container.ResolveAll] returns services registered under any name.
//
// WithName can be used with:
//   - [Register], [AddSingleton], [AddTransient], [AddScoped] and the other registration functions
//   - [Resolve]
//   - [MustResolve]
//   - [Container.Resolve]
//   - [Container.Contains]
//   - [WithDecorator]
func WithName(name string) NameOption {
	return nameOption{name: normalizeName(name)}
}

// NameOption is used to specify the name of a service when registering or resolving it.
type NameOption interface {
	ServiceOption
	ResolveOption
	DecoratorOption
}

type nameOption struct {
	name string
}

func (o nameOption) applyService(d *descriptor) error {
	d.key.Name = o.name
	return nil
}

func (o nameOption) applyDecorator(dec *decorator) error {
	dec.key.Name = o.name
	return nil
}

func (o nameOption) applyServiceKey(key serviceKey) serviceKey {
	return serviceKey{
		Type: key.Type,
		Name: o.name,
	}
}

var _ NameOption = nameOption{}

// ResolveOption can be used when calling [Resolve], [MustResolve],
// [Container.Resolve], or [Container.Contains].
//
// Available options:
//   - [WithName]
type ResolveOption interface {
	applyServiceKey(serviceKey) serviceKey
}

// WithNamed is used to specify the name of a dependency when registering a constructor
// or calling [Invoke].
//
// This option can be used multiple times to name several dependencies of the same type,
// in parameter order.
//
// Example:
//
//	c, err := di.NewContainer(
//		di.AddSingleton[Database](NewMySQL, di.WithName("mysql")),
//		di.AddSingleton[Database](NewPostgres, di.WithName("postgresql")),
//		di.AddSingleton[*Replicator](NewReplicator,
//			di.WithNamed[Database]("mysql"),
//			di.WithNamed[Database]("postgresql"),
//		),
//	)
//
// This option will return an error if the function does not have a dependency of type Dependency.
func WithNamed[Dependency any](name string) DependencyOption {
	return depNameOption{
		t:    reflect.TypeFor[Dependency](),
		name: normalizeName(name),
	}
}

// WithDependency specifies the name of a dependency, and whether it is optional, when registering
// a constructor or calling [Invoke].
//
// It combines [WithNamed] and [WithOptional].
func WithDependency[Dependency any](name string, optional bool) DependencyOption {
	return depNameOption{
		t:        reflect.TypeFor[Dependency](),
		name:     normalizeName(name),
		optional: optional,
	}
}

// WithOptional marks a dependency of type Dependency as optional when registering a constructor
// or calling [Invoke].
//
// If no service is registered for an optional dependency, the zero value is passed instead of
// returning [ErrServiceNotRegistered]. Parameters declared as [Optional] are always optional.
func WithOptional[Dependency any]() DependencyOption {
	return depOptionalOption{
		t: reflect.TypeFor[Dependency](),
	}
}

// DependencyOption is used to configure a dependency when registering a constructor or calling [Invoke].
type DependencyOption interface {
	ServiceOption
	InvokeOption
	DecoratorOption
}

type depNameOption struct {
	t        reflect.Type
	name     string
	optional bool
}

// applyDeps assigns the name to the first dependency of the right type that has not been named yet.
//
// The slice is modified in place. It belongs to one descriptor or one call to Invoke.
func (o depNameOption) applyDeps(deps []dependency) error {
	for i := range deps {
		if deps[i].kind == depService && deps[i].key.Type == o.t && !deps[i].named {
			deps[i].key.Name = o.name
			deps[i].named = true
			deps[i].optional = deps[i].optional || o.optional
			return nil
		}
	}
	return errors.Errorf("with named %s: parameter not found", o.t)
}

func (o depNameOption) applyService(d *descriptor) error {
	return o.applyDeps(d.deps)
}

func (o depNameOption) applyInvokeConfig(c *invokeConfig) error {
	return o.applyDeps(c.deps)
}

func (o depNameOption) applyDecorator(dec *decorator) error {
	return o.applyDeps(dec.deps)
}

type depOptionalOption struct {
	t reflect.Type
}

func (o depOptionalOption) applyDeps(deps []dependency) error {
	for i := range deps {
		if deps[i].kind == depService && deps[i].key.Type == o.t && !deps[i].optional {
			deps[i].optional = true
			return nil
		}
	}
	return errors.Errorf("with optional %s: parameter not found", o.t)
}

func (o depOptionalOption) applyService(d *descriptor) error {
	return o.applyDeps(d.deps)
}

func (o depOptionalOption) applyInvokeConfig(c *invokeConfig) error {
	return o.applyDeps(c.deps)
}

func (o depOptionalOption) applyDecorator(dec *decorator) error {
	return o.applyDeps(dec.deps)
}

var (
	_ DependencyOption = depNameOption{}
	_ DependencyOption = depOptionalOption{}
)
