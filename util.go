package di

import (
	"reflect"

	"github.com/sectrean/injex/internal/errors"
)

// applyOptions applies every option, even after one fails, and joins the errors.
func applyOptions[O any](opts []O, apply func(O) error) error {
	var errs errors.MultiError
	for _, o := range opts {
		errs = errs.Append(apply(o))
	}

	return errs.Join()
}

// isNil reports whether v is nil or a typed nil.
func isNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}

	return false
}

// valueOf returns val as a reflect.Value that can be passed where type t is expected.
// A nil val becomes the zero value of t.
func valueOf(t reflect.Type, val any) reflect.Value {
	if val == nil {
		return reflect.Zero(t)
	}

	return reflect.ValueOf(val)
}
