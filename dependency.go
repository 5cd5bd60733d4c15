package di

import (
	"context"
	"reflect"
)

// These are the types the container treats specially.
var (
	typeError   = reflect.TypeFor[error]()
	typeContext = reflect.TypeFor[context.Context]()
	typeScope   = reflect.TypeFor[Scope]()
	typeAny     = reflect.TypeFor[any]()
)

type dependencyKind uint8

const (
	// depService resolves a single service by key.
	depService dependencyKind = iota
	// depAll resolves every service registered for the slice element type.
	depAll
	// depContext passes the context of the current resolution.
	depContext
	// depScope passes the scope the service is resolved from.
	depScope
)

// dependency describes a constructor parameter, an injected field or an Invoke argument.
type dependency struct {
	// Type is the declared type of the parameter or field.
	Type     reflect.Type
	key      serviceKey
	kind     dependencyKind
	optional bool
	named    bool
	// wrapper is set when Type is an Optional.
	wrapper optionalValue
}

func (d dependency) String() string {
	switch d.kind {
	case depAll, depContext, depScope:
		return d.Type.String()
	default:
		return d.key.String()
	}
}

// newDependency analyzes the declared type of a dependency.
// It returns false if the type cannot be resolved from the container.
func newDependency(t reflect.Type) (dependency, bool) {
	switch {
	case t == typeContext:
		return dependency{Type: t, kind: depContext}, true

	case t == typeScope:
		return dependency{Type: t, kind: depScope}, true

	case !isServiceIdentity(t):
		if t.Kind() == reflect.Slice && isServiceIdentity(t.Elem()) {
			return dependency{
				Type: t,
				key:  serviceKey{Type: t.Elem(), Name: DefaultName},
				kind: depAll,
			}, true
		}
		return dependency{}, false
	}

	if o, ok := asOptional(t); ok {
		elem := o.elemType()
		if !isServiceIdentity(elem) {
			return dependency{}, false
		}

		return dependency{
			Type:     t,
			key:      serviceKey{Type: elem, Name: DefaultName},
			kind:     depService,
			optional: true,
			wrapper:  o,
		}, true
	}

	return dependency{
		Type: t,
		key:  serviceKey{Type: t, Name: DefaultName},
		kind: depService,
	}, true
}

// isServiceIdentity returns true if services can be registered and resolved as t.
func isServiceIdentity(t reflect.Type) bool {
	switch t {
	case typeError, typeContext, typeScope, typeAny:
		return false
	}

	switch t.Kind() {
	case reflect.Interface,
		reflect.Ptr,
		reflect.Struct:
		return true
	}

	return false
}
