// backend/internal/domain/cart/repository_port.go
package cart

import "context"

// Repository is the persistence port for Cart.
//
// Storage (Firestore):
// - collection: carts
// - docId: sessionID
// - fields: items, createdAt, updatedAt, expiresAt
//
// TTL:
// - Configure Firestore TTL on "expiresAt"; the domain refreshes it on each
//   mutation via touch().
//
// Persistence here is opaque storage across page views, not business logic:
// the in-memory Cart remains authoritative within a request.
type Repository interface {
	// GetBySessionID returns the cart for the session, or (nil, nil) when the
	// session has no cart yet.
	GetBySessionID(ctx context.Context, sessionID string) (*Cart, error)

	// Upsert saves the cart (create or update) under docId = cart.ID.
	Upsert(ctx context.Context, c *Cart) error

	// DeleteBySessionID deletes the cart for the session.
	DeleteBySessionID(ctx context.Context, sessionID string) error
}
