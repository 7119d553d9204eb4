// Package delivery defines the contract every transport implementation
// (HTTP, workers) fulfils so the application entrypoint can start them
// uniformly.
package delivery

import "context"

// Delivery is a long-running transport server.
type Delivery interface {
	// Serve blocks, accepting and dispatching requests until the server is
	// shut down.
	Serve(ctx context.Context) error
}
