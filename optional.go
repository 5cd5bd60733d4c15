package di

import "reflect"

// Optional is used to declare a dependency that may not be registered.
//
// When a constructor parameter or an injected field is declared as Optional[T],
// the container resolves T if it is registered. Otherwise the Optional is empty
// and construction continues.
//
// Example:
//
//	func NewDataService(db Database, cache di.Optional[Cache]) *DataService {
//		svc := &DataService{db: db}
//		if c, ok := cache.Get(); ok {
//			svc.cache = c
//		}
//		return svc
//	}
type Optional[T any] struct {
	value T
	ok    bool
}

// Some returns an Optional holding the given value.
func Some[T any](val T) Optional[T] {
	return Optional[T]{value: val, ok: true}
}

// Get returns the value and true if it was resolved.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.ok
}

// Value returns the resolved value, or the zero value if it was not resolved.
func (o Optional[T]) Value() T {
	return o.value
}

// HasValue returns true if the dependency was resolved.
func (o Optional[T]) HasValue() bool {
	return o.ok
}

func (Optional[T]) elemType() reflect.Type {
	return reflect.TypeFor[T]()
}

func (Optional[T]) wrap(val any) any {
	if val == nil {
		return Optional[T]{}
	}
	return Optional[T]{value: val.(T), ok: true}
}

// optionalValue is implemented by every Optional[T].
type optionalValue interface {
	elemType() reflect.Type
	wrap(val any) any
}

var typeOptionalValue = reflect.TypeFor[optionalValue]()

func asOptional(t reflect.Type) (optionalValue, bool) {
	if t.Kind() != reflect.Struct || !t.Implements(typeOptionalValue) {
		return nil, false
	}

	o, ok := reflect.Zero(t).Interface().(optionalValue)
	return o, ok
}
