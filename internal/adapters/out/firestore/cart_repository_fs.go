// backend/internal/adapters/out/firestore/cart_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	cartdom "boutique/internal/domain/cart"
)

// CartRepositoryFS implements cart.Repository using Firestore.
//
// Collection design:
// - collection: carts
// - docId: sessionID (docId is the source of truth)
// - fields: items(array, insertion order), createdAt, updatedAt, expiresAt
//
// TTL:
// - Configure Firestore TTL on "expiresAt".
type CartRepositoryFS struct {
	Client *firestore.Client
}

func NewCartRepositoryFS(client *firestore.Client) *CartRepositoryFS {
	return &CartRepositoryFS{Client: client}
}

func (r *CartRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("carts")
}

// GetBySessionID returns (nil, nil) if not found (nil policy).
func (r *CartRepositoryFS) GetBySessionID(ctx context.Context, sessionID string) (*cartdom.Cart, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("cart_repository_fs: firestore client is nil")
	}

	sid := strings.TrimSpace(sessionID)
	if sid == "" {
		return nil, errors.New("cart_repository_fs: sessionID is empty")
	}

	snap, err := r.col().Doc(sid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, err
	}

	var doc cartDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, err
	}

	c := doc.toDomain()
	// docId is source of truth even when the id field is missing
	c.ID = sid
	return c, nil
}

// Upsert saves the cart by docId = cart.ID (= sessionID), overwriting the
// full doc (simple and predictable).
func (r *CartRepositoryFS) Upsert(ctx context.Context, c *cartdom.Cart) error {
	if r == nil || r.Client == nil {
		return errors.New("cart_repository_fs: firestore client is nil")
	}
	if c == nil {
		return errors.New("cart_repository_fs: cart is nil")
	}

	sid := strings.TrimSpace(c.ID)
	if sid == "" {
		return errors.New("cart_repository_fs: Upsert requires cart.ID (= sessionID) as docId")
	}

	_, err := r.col().Doc(sid).Set(ctx, cartDocFromDomain(c))
	return err
}

func (r *CartRepositoryFS) DeleteBySessionID(ctx context.Context, sessionID string) error {
	if r == nil || r.Client == nil {
		return errors.New("cart_repository_fs: firestore client is nil")
	}

	sid := strings.TrimSpace(sessionID)
	if sid == "" {
		return errors.New("cart_repository_fs: sessionID is empty")
	}

	_, err := r.col().Doc(sid).Delete(ctx)
	return err
}

// -----------------------------------------
// Firestore DTO
// -----------------------------------------

// cartDoc keeps the stored shape decoupled from the domain struct.
// Items is an array so insertion order survives the round trip.
type cartDoc struct {
	Items []cartItemDoc `firestore:"items"`

	CreatedAt time.Time `firestore:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedAt"`
	ExpiresAt time.Time `firestore:"expiresAt"`
}

type cartItemDoc struct {
	Key            string `firestore:"key"`
	ProductID      string `firestore:"productId"`
	VariantID      string `firestore:"variantId,omitempty"`
	Title          string `firestore:"title"`
	Image          string `firestore:"image,omitempty"`
	UnitPriceCents int64  `firestore:"unitPriceCents"`
	Currency       string `firestore:"currency"`
	Qty            int    `firestore:"qty"`
}

func cartDocFromDomain(c *cartdom.Cart) cartDoc {
	items := make([]cartItemDoc, 0, len(c.Items))
	for _, it := range c.Items {
		items = append(items, cartItemDoc{
			Key:            it.Key,
			ProductID:      it.ProductID,
			VariantID:      it.VariantID,
			Title:          it.Title,
			Image:          it.Image,
			UnitPriceCents: it.UnitPrice.Cents,
			Currency:       it.UnitPrice.Currency,
			Qty:            it.Qty,
		})
	}
	return cartDoc{
		Items:     items,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		ExpiresAt: c.ExpiresAt,
	}
}

func (d cartDoc) toDomain() *cartdom.Cart {
	items := make([]cartdom.Item, 0, len(d.Items))
	for _, it := range d.Items {
		// drop rows that would violate the quantity invariant
		if it.Qty < 1 || strings.TrimSpace(it.Key) == "" {
			continue
		}
		items = append(items, cartdom.Item{
			Key:       it.Key,
			ProductID: it.ProductID,
			VariantID: it.VariantID,
			Title:     it.Title,
			Image:     it.Image,
			UnitPrice: moneyFromDoc(it.UnitPriceCents, it.Currency),
			Qty:       it.Qty,
		})
	}
	return &cartdom.Cart{
		Items:     items,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
		ExpiresAt: d.ExpiresAt,
	}
}
