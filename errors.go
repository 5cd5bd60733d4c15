package di

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/sectrean/injex/internal/errors"
)

var (
	// ErrServiceNotRegistered is returned when no service is registered for the requested type and name.
	ErrServiceNotRegistered = errors.New("service not registered")

	// ErrDependencyCycle is returned when a service depends on itself, directly or indirectly.
	// The returned error is a [*CycleError] carrying the chain of services.
	ErrDependencyCycle = errors.New("dependency cycle detected")

	// ErrMissingTypeAnnotation is returned when a dependency does not declare a type that can be
	// resolved, such as a constructor parameter or injected field of type any.
	ErrMissingTypeAnnotation = errors.New("missing type annotation")

	// ErrInvalidLifetime is returned when a service is registered with an unknown [Lifetime].
	ErrInvalidLifetime = errors.New("invalid lifetime")

	// ErrContainerClosed is returned when using a [Container] that has been closed.
	ErrContainerClosed = errors.New("container closed")
)

// CycleError describes a dependency cycle found while resolving a service.
type CycleError struct {
	// Chain lists the services that form the cycle.
	// The first and last entries are the same service.
	Chain []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%s: %s", ErrDependencyCycle, strings.Join(e.Chain, " -> "))
}

func (*CycleError) Unwrap() error {
	return ErrDependencyCycle
}

// InvalidLifetimeError is returned at registration when the [Lifetime] is not recognized.
type InvalidLifetimeError struct {
	Lifetime Lifetime
}

func (e *InvalidLifetimeError) Error() string {
	return fmt.Sprintf("%s %d: valid lifetimes are Singleton, Transient and Scoped", ErrInvalidLifetime, e.Lifetime)
}

func (*InvalidLifetimeError) Unwrap() error {
	return ErrInvalidLifetime
}

// MissingTypeAnnotationError is returned at registration when a dependency has no usable type.
type MissingTypeAnnotationError struct {
	// Target is the constructor function or struct type declaring the dependency.
	Target reflect.Type
	// Param is the constructor parameter index, or -1 for struct fields.
	Param int
	// Field is the struct field name, if the dependency is an injected field.
	Field string
}

func (e *MissingTypeAnnotationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: field %s of %s", ErrMissingTypeAnnotation, e.Field, e.Target)
	}
	return fmt.Sprintf("%s: parameter %d of %s", ErrMissingTypeAnnotation, e.Param, e.Target)
}

func (*MissingTypeAnnotationError) Unwrap() error {
	return ErrMissingTypeAnnotation
}
