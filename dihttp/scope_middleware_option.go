package dihttp

import (
	"log/slog"

	"github.com/sectrean/injex/internal/errors"
)

// ScopeMiddlewareOption is an option used to configure the scope middleware
// when calling [NewRequestScopeMiddleware].
type ScopeMiddlewareOption interface {
	applyScopeMiddleware(*scopeMiddlewareConfig) error
}

type scopeMiddlewareConfig struct {
	logger          *slog.Logger
	newScopeHandler NewScopeErrorHandler
	closeHandler    ScopeCloseErrorHandler
}

type scopeMiddlewareOption func(*scopeMiddlewareConfig) error

func (o scopeMiddlewareOption) applyScopeMiddleware(c *scopeMiddlewareConfig) error {
	return o(c)
}

// WithNewScopeErrorHandler sets the error handler for when there is an error creating a new scope.
func WithNewScopeErrorHandler(h NewScopeErrorHandler) ScopeMiddlewareOption {
	return scopeMiddlewareOption(func(c *scopeMiddlewareConfig) error {
		if h == nil {
			return errors.New("WithNewScopeErrorHandler: h is nil")
		}
		c.newScopeHandler = h
		return nil
	})
}

// WithScopeCloseErrorHandler sets the error handler for when there is an error closing the scope.
func WithScopeCloseErrorHandler(h ScopeCloseErrorHandler) ScopeMiddlewareOption {
	return scopeMiddlewareOption(func(c *scopeMiddlewareConfig) error {
		if h == nil {
			return errors.New("WithScopeCloseErrorHandler: h is nil")
		}
		c.closeHandler = h
		return nil
	})
}

// WithLogger sets the logger used by the default error handlers.
//
// The default is [slog.Default].
func WithLogger(logger *slog.Logger) ScopeMiddlewareOption {
	return scopeMiddlewareOption(func(c *scopeMiddlewareConfig) error {
		if logger == nil {
			return errors.New("WithLogger: logger is nil")
		}
		c.logger = logger
		return nil
	})
}
