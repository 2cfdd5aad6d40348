// Package delivery defines the contract every transport frontend satisfies.
package delivery

import "context"

// Delivery is a serving surface (HTTP, worker, ...) started by main and shut
// down through the fx lifecycle.
type Delivery interface {
	Serve(ctx context.Context) error
}
