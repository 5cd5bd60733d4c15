package di

import (
	"log/slog"

	"github.com/sectrean/injex/internal/errors"
)

// WithLogger sets the logger used by the [Container] and its scopes.
//
// Services created and scopes created or closed are logged at debug level.
// Errors closing services are logged at warn level.
// By default, nothing is logged.
func WithLogger(logger *slog.Logger) ContainerOption {
	return newContainerOption(orderLogger, func(c *Container) error {
		if logger == nil {
			return errors.New("WithLogger: logger is nil")
		}

		c.logger = logger.With("component", "di")
		return nil
	})
}
