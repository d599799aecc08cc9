// backend/internal/domain/session/store_port.go
package session

import "context"

// Storage slot keys for the checkout handoff. Snapshot and handoff writes go
// to fixed slots per session: writing overwrites, never appends, so a crash
// between order creation and handoff persistence cannot leave two conflicting
// snapshots.
const (
	KeyCheckoutCart    = "checkout_cart"
	KeyCheckoutOrder   = "checkout_order"
	KeyCheckoutOrderID = "checkout_order_id"
)

// Store is session-scoped key-value storage. Values are opaque to the store;
// callers pass JSON-marshalable values and decode into dest on Get.
//
// Write failures are surfaced so callers can log them; checkout treats them
// as non-fatal (the in-memory state stays authoritative).
type Store interface {
	// Set stores value under (sessionID, key), overwriting any prior value.
	Set(ctx context.Context, sessionID, key string, value any) error

	// Get decodes the value under (sessionID, key) into dest. Returns
	// (false, nil) when the slot is empty or the session is unknown:
	// stale/missing data reads as "nothing here", not as an error.
	Get(ctx context.Context, sessionID, key string, dest any) (bool, error)

	// Delete clears one slot. Missing slots are a no-op.
	Delete(ctx context.Context, sessionID, key string) error
}
