package di

import (
	"context"
	"reflect"

	"github.com/sectrean/injex/internal/errors"
)

// Invoke calls the given function with parameters resolved from the provided Scope.
//
// The function may take any number of parameters which will be resolved from the container,
// and may return any number of results.
// An [error] return parameter will be passed along and any other return parameters are ignored.
//
// Available options:
//   - [WithNamed] specifies the name of a dependency.
//   - [WithOptional] marks a dependency as optional.
//   - [WithDependency] does both.
func Invoke(ctx context.Context, s Scope, fn any, opts ...InvokeOption) error {
	if s == nil {
		return errors.Errorf("di.Invoke %T: scope is nil", fn)
	}

	fnType := reflect.TypeOf(fn)

	// Make sure fn is a function
	if fnType == nil || fnType.Kind() != reflect.Func {
		return errors.Errorf("di.Invoke %T: fn must be a function", fn)
	}

	// Get the dependencies
	deps := make([]dependency, fnType.NumIn())
	for i := range fnType.NumIn() {
		dep, ok := newDependency(fnType.In(i))
		if !ok {
			err := &MissingTypeAnnotationError{Target: fnType, Param: i}
			return errors.Wrapf(err, "di.Invoke %T", fn)
		}
		deps[i] = dep
	}

	// Create a config struct so we can apply options
	config := &invokeConfig{
		deps: deps,
	}

	// Apply options to the config
	err := applyOptions(opts, func(opt InvokeOption) error {
		return opt.applyInvokeConfig(config)
	})
	if err != nil {
		return errors.Wrapf(err, "di.Invoke %T", fn)
	}

	// Resolve deps from the Scope
	in := make([]reflect.Value, len(config.deps))
	for i, dep := range config.deps {
		val, depErr := invokeDependency(ctx, s, dep)
		if depErr != nil {
			// Stop at the first error
			return errors.Wrapf(depErr, "di.Invoke %T", fn)
		}
		in[i] = val
	}

	// Check for a context error before we invoke the function
	if ctx.Err() != nil {
		return errors.Wrapf(ctx.Err(), "di.Invoke %T", fn)
	}

	// Invoke the function
	fnVal := reflect.ValueOf(fn)
	var out []reflect.Value
	if fnType.IsVariadic() {
		out = fnVal.CallSlice(in)
	} else {
		out = fnVal.Call(in)
	}

	// Return the first error return value, if any.
	// Don't wrap the error, return it as-is.
	for i := range fnType.NumOut() {
		if fnType.Out(i) == typeError {
			err, _ := out[i].Interface().(error)
			return err
		}
	}

	return nil
}

func invokeDependency(ctx context.Context, s Scope, dep dependency) (reflect.Value, error) {
	switch dep.kind {
	case depContext:
		return valueOf(dep.Type, ctx), nil

	case depScope:
		return reflect.ValueOf(s).Convert(typeScope), nil

	case depAll:
		vals, err := s.ResolveAll(ctx, dep.key.Type)
		if err != nil {
			return reflect.Value{}, err
		}

		slice := reflect.MakeSlice(dep.Type, 0, len(vals))
		for _, val := range vals {
			slice = reflect.Append(slice, valueOf(dep.key.Type, val))
		}
		return slice, nil
	}

	var val any
	if !dep.optional || s.Contains(dep.key.Type, WithName(dep.key.Name)) {
		var err error
		val, err = s.Resolve(ctx, dep.key.Type, WithName(dep.key.Name))
		if err != nil {
			return reflect.Value{}, err
		}
	}

	if dep.wrapper != nil {
		return reflect.ValueOf(dep.wrapper.wrap(val)), nil
	}
	return valueOf(dep.Type, val), nil
}

// InvokeOption is used to configure the behavior of [Invoke].
//
// Available options:
//   - [WithNamed]
//   - [WithOptional]
//   - [WithDependency]
type InvokeOption interface {
	applyInvokeConfig(*invokeConfig) error
}

type invokeConfig struct {
	deps []dependency
}
