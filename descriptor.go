package di

import (
	"reflect"
	"slices"

	"github.com/sectrean/injex/internal/errors"
)

// descriptor is a registered service: how to produce it and how long it lives.
//
// A descriptor is not modified after it is registered.
type descriptor struct {
	key      serviceKey
	aliases  []reflect.Type
	lifetime Lifetime
	producer Producer

	// deps are the producer parameters with the dependency options of this registration applied.
	deps []dependency

	// properties are the injected fields of the result type, when it is known at registration.
	// Otherwise they are looked up from the type of each created value.
	properties   []property
	dynamicProps bool

	closerFactory closerFactory
}

func newDescriptor(identity reflect.Type, p Producer, lifetime Lifetime, opts []ServiceOption) (*descriptor, error) {
	if identity == nil {
		return nil, errors.New("service type is nil")
	}
	if err := validateServiceType(identity); err != nil {
		return nil, err
	}
	if !lifetime.IsValid() {
		return nil, &InvalidLifetimeError{Lifetime: lifetime}
	}
	if p == nil {
		return nil, errors.New("producer is nil")
	}
	if err := p.check(); err != nil {
		return nil, err
	}

	rt := p.resultType()
	if rt != nil && !rt.AssignableTo(identity) {
		return nil, errors.Errorf("type %s not assignable to %s", rt, identity)
	}

	d := &descriptor{
		key:           serviceKey{Type: identity, Name: DefaultName},
		lifetime:      lifetime,
		producer:      p,
		deps:          slices.Clone(p.dependencies()),
		closerFactory: getCloser,
	}

	if p.isInstance() {
		// Instances are always singletons and are not closed by default.
		d.lifetime = Singleton
		d.closerFactory = nil
	} else if rt != nil && rt.Kind() != reflect.Interface {
		props, err := propertiesFor(rt)
		if err != nil {
			return nil, err
		}
		d.properties = props
	} else {
		d.dynamicProps = true
	}

	err := applyOptions(opts, func(opt ServiceOption) error {
		return opt.applyService(d)
	})
	if err != nil {
		return nil, err
	}

	return d, nil
}

func validateServiceType(t reflect.Type) error {
	if !isServiceIdentity(t) {
		return errors.Errorf("invalid service type %s", t)
	}
	if _, ok := asOptional(t); ok {
		return errors.Errorf("invalid service type %s", t)
	}

	return nil
}

// Type returns the type the service is created as, if known at registration.
// Otherwise it returns the registered service type.
func (d *descriptor) Type() reflect.Type {
	if rt := d.producer.resultType(); rt != nil {
		return rt
	}
	return d.key.Type
}

// Types returns every type the service is registered as.
func (d *descriptor) Types() []reflect.Type {
	return append([]reflect.Type{d.key.Type}, d.aliases...)
}

func (d *descriptor) addAlias(alias reflect.Type) error {
	if err := validateServiceType(alias); err != nil {
		return err
	}

	if t := d.Type(); !t.AssignableTo(alias) {
		return errors.Errorf("type %s not assignable to %s", t, alias)
	}

	d.aliases = append(d.aliases, alias)
	return nil
}

func (d *descriptor) String() string {
	return d.key.String()
}

// checkResult makes sure a created value can be returned as every registered type.
// This is needed for factories, which are not checked at registration.
func (d *descriptor) checkResult(val any) error {
	if val == nil {
		return nil
	}

	vt := reflect.TypeOf(val)
	for _, t := range d.Types() {
		if !vt.AssignableTo(t) {
			return errors.Errorf("%s returned %s: not assignable to %s", d.producer, vt, t)
		}
	}

	return nil
}
