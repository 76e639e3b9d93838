// Package delivery defines the contract every transport entrypoint satisfies.
package delivery

import "context"

// Delivery is a long-running transport server (HTTP today, possibly more).
type Delivery interface {
	// Serve blocks and serves requests until the server is shut down.
	Serve(ctx context.Context) error
}
