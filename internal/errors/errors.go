// Package errors builds the error messages of the container.
//
// Messages are a chain of context prefixes joined with ": ", most general first:
//
//	di.Container.Resolve *app.Handler: dependency app.Repo: service not registered
package errors

import (
	stderrors "errors"
	"fmt"
)

// New returns an error with the given message.
func New(msg string) error {
	return stderrors.New(msg)
}

// Errorf formats an error message. Use %w to wrap another error.
func Errorf(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}

// Join returns an error wrapping every non-nil error, or nil if there are none.
func Join(errs ...error) error {
	return stderrors.Join(errs...)
}

// Wrap prefixes err with msg. It returns nil if err is nil.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}

	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf prefixes err with a formatted message. It returns nil if err is nil.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}

	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
