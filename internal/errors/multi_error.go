package errors

import (
	stderrors "errors"
)

// MultiError collects the errors of steps that keep going after a failure,
// like closing every service in a scope.
type MultiError []error

// Append adds err to the collection. A nil err is skipped.
func (e MultiError) Append(err error) MultiError {
	if err != nil {
		e = append(e, err)
	}
	return e
}

// Join returns the collected errors as one error, or nil if there are none.
func (e MultiError) Join() error {
	if len(e) == 0 {
		return nil
	}
	return stderrors.Join(e...)
}

// Wrap joins the collected errors and prefixes the result with msg.
// It returns nil if there are no errors.
func (e MultiError) Wrap(msg string) error {
	return Wrap(e.Join(), msg)
}
