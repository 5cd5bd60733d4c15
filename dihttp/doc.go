/*
Package dihttp provides HTTP middleware for creating a [di.Container] scope for each request.

Example:

	package main

	import (
		"net/http"

		"github.com/go-chi/chi/v5"

		"github.com/sectrean/injex"
		"github.com/sectrean/injex/dicontext"
		"github.com/sectrean/injex/dihttp"
	)

	func main() {
		c, err := di.NewContainer(
			di.AddSingleton[Database](NewDatabase),
			di.AddScoped[*UnitOfWork](NewUnitOfWork),
		)
		if err != nil {
			panic(err)
		}

		// Create a new scope middleware
		scopeMiddleware, err := dihttp.NewRequestScopeMiddleware(c)
		if err != nil {
			panic(err)
		}

		r := chi.NewRouter()
		r.Use(scopeMiddleware)
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			uow := dicontext.MustResolve[*UnitOfWork](r.Context())
			uow.HandleRequest(w, r)
		})

		http.ListenAndServe(":8080", r)
	}
*/
package dihttp
