package dihttp

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/sectrean/injex"
	"github.com/sectrean/injex/dicontext"
	"github.com/sectrean/injex/internal/errors"
)

// NewRequestScopeMiddleware creates a new child scope of parent for each request.
// The scope is closed after the request has been processed.
//
// The scope is stored on the request context and can be accessed using [dicontext.Scope],
// [dicontext.Resolve], or [dicontext.MustResolve]. The current [*http.Request] is stored on the
// context too. Scoped services can accept a [context.Context] and call [Request] to use it.
//
// Available options:
//   - [WithNewScopeErrorHandler] sets the handler for errors creating the scope.
//   - [WithScopeCloseErrorHandler] sets the handler for errors closing the scope.
//   - [WithLogger] sets the logger used by the default error handlers.
func NewRequestScopeMiddleware(
	parent *di.Container,
	opts ...ScopeMiddlewareOption,
) (func(http.Handler) http.Handler, error) {
	if parent == nil {
		return nil, errors.New("dihttp.NewRequestScopeMiddleware: parent is nil")
	}

	cfg := &scopeMiddlewareConfig{
		logger: slog.Default(),
	}

	var errs errors.MultiError
	for _, opt := range opts {
		errs = errs.Append(opt.applyScopeMiddleware(cfg))
	}
	if err := errs.Wrap("dihttp.NewRequestScopeMiddleware"); err != nil {
		return nil, err
	}

	if cfg.newScopeHandler == nil {
		cfg.newScopeHandler = defaultNewScopeErrorHandler(cfg.logger)
	}
	if cfg.closeHandler == nil {
		cfg.closeHandler = defaultScopeCloseErrorHandler(cfg.logger)
	}

	return func(next http.Handler) http.Handler {
		return &scopeMiddleware{
			parent:          parent,
			newScopeHandler: cfg.newScopeHandler,
			closeHandler:    cfg.closeHandler,
			next:            next,
		}
	}, nil
}

// NewScopeErrorHandler is a function that writes an error response to the client.
// This is called by the scope middleware when there is an error creating the scope.
//
// The default handler logs the error and writes a 500 Internal Server Error response.
type NewScopeErrorHandler = func(w http.ResponseWriter, r *http.Request, err error)

func defaultNewScopeErrorHandler(logger *slog.Logger) NewScopeErrorHandler {
	return func(w http.ResponseWriter, r *http.Request, err error) {
		logger.ErrorContext(r.Context(), "error creating new HTTP request scope", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// ScopeCloseErrorHandler is a function that handles errors when closing the scope
// after the request has completed.
//
// The default handler logs the error.
type ScopeCloseErrorHandler = func(r *http.Request, err error)

func defaultScopeCloseErrorHandler(logger *slog.Logger) ScopeCloseErrorHandler {
	return func(r *http.Request, err error) {
		logger.ErrorContext(r.Context(), "error closing HTTP request scope", "error", err)
	}
}

type scopeMiddleware struct {
	parent          *di.Container
	newScopeHandler NewScopeErrorHandler
	closeHandler    ScopeCloseErrorHandler
	next            http.Handler
}

func (m *scopeMiddleware) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	scope, err := m.parent.NewScope()
	if err != nil {
		m.newScopeHandler(w, r, err)
		return
	}

	ctx := dicontext.WithScope(r.Context(), scope)
	ctx = context.WithValue(ctx, requestContextKey{}, r)
	r = r.WithContext(ctx)

	// Runs when the handler panics too
	defer func() {
		// The request context may be canceled already, but the services still need to be closed
		if closeErr := scope.Close(context.WithoutCancel(ctx)); closeErr != nil {
			m.closeHandler(r, closeErr)
		}
	}()

	m.next.ServeHTTP(w, r)
}

type requestContextKey struct{}

// Request returns the [*http.Request] for the request scope stored on the [context.Context], if present.
func Request(ctx context.Context) *http.Request {
	r, _ := ctx.Value(requestContextKey{}).(*http.Request)
	return r
}
