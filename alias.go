package di

import (
	"reflect"

	"github.com/sectrean/injex/internal/errors"
)

// As registers an alias for a service.
//
// The service can then be resolved as type Alias as well as the registered type.
// Both types share the same instance for singleton and scoped services.
//
// Example:
//
//	c, err := di.NewContainer(
//		di.AddSingleton[*SMTPSender](NewSMTPSender, di.As[Sender]()),
//	)
func As[Alias any]() ServiceOption {
	return serviceOption(func(d *descriptor) error {
		t := reflect.TypeFor[Alias]()
		if err := d.addAlias(t); err != nil {
			return errors.Wrapf(err, "as %s", t)
		}
		return nil
	})
}
