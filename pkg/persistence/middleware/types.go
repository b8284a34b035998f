// Package middleware wraps report stores with cross-cutting behavior, such
// as redacting sensitive material before it reaches long-term storage.
package middleware

import "github.com/seedbed/espalier/pkg/ports"

// Middleware allows wrapping a ReportStore to add behavior.
type Middleware func(ports.ReportStore) ports.ReportStore

// Chain applies middlewares to a store, first middleware outermost.
func Chain(store ports.ReportStore, middlewares ...Middleware) ports.ReportStore {
	for i := len(middlewares) - 1; i >= 0; i-- {
		store = middlewares[i](store)
	}
	return store
}
