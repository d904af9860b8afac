// Package mirror reconciles the local till with a remote authoritative
// document store. Local state is the source of truth for the running session;
// the remote store is a best-effort, eventually consistent mirror shared by
// every device addressing the same shop id.
package mirror

import (
	"context"

	"tillpos/internal/till"
)

// Store is the remote document store the engine depends on: one full-state
// document with per-field merge-write semantics plus an append-only orders
// collection, addressed by shop id.
type Store interface {
	// MergeState writes the full-state document. Fields present in s
	// overwrite unconditionally; fields absent remotely are created; nothing
	// else is touched. Last writer wins per field, no version check.
	MergeState(ctx context.Context, s till.State) error

	// LoadState point-reads the full-state document. ok is false when no
	// document exists yet.
	LoadState(ctx context.Context) (s till.State, ok bool, err error)

	// CreateOrder appends an order document and returns its generated id.
	CreateOrder(ctx context.Context, o till.Order) (string, error)

	// UpdateOrder rewrites the order document with the given id.
	UpdateOrder(ctx context.Context, remoteID string, o till.Order) error

	// FindOrderByNo resolves a document id by order number, for mutations
	// whose local order never learned its remote id.
	FindOrderByNo(ctx context.Context, orderNo int) (string, error)

	// ListOrders reads the collection ordered by creation time, newest first.
	ListOrders(ctx context.Context) ([]till.Order, error)

	// SubscribeOrders delivers the current collection contents immediately
	// and again after every collection write, until ctx is cancelled.
	SubscribeOrders(ctx context.Context) (<-chan []till.Order, error)
}
