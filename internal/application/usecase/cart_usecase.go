// backend/internal/application/usecase/cart_usecase.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	cartdom "boutique/internal/domain/cart"
	productdom "boutique/internal/domain/product"
)

var (
	ErrCartInvalidArgument = errors.New("cart_usecase: invalid argument")
	ErrCannotAddToCart     = errors.New("cart_usecase: cannot add to cart")
)

// Clock provides current time (for testability).
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// CartUsecase coordinates cart operations for one browsing session.
// The cart is the source of truth handed to checkout; every mutation goes
// through here so the quantity invariant always holds on the stored doc.
type CartUsecase struct {
	carts    cartdom.Repository
	products productdom.Repository
	clock    Clock
}

func NewCartUsecase(carts cartdom.Repository, products productdom.Repository) *CartUsecase {
	return &CartUsecase{
		carts:    carts,
		products: products,
		clock:    systemClock{},
	}
}

// NewCartUsecaseWithClock is useful for tests.
func NewCartUsecaseWithClock(carts cartdom.Repository, products productdom.Repository, clock Clock) *CartUsecase {
	if clock == nil {
		clock = systemClock{}
	}
	return &CartUsecase{carts: carts, products: products, clock: clock}
}

// Get returns the session's cart; an absent cart reads as a fresh empty one
// (not persisted until the first mutation).
func (uc *CartUsecase) Get(ctx context.Context, sessionID string) (*cartdom.Cart, error) {
	sid := strings.TrimSpace(sessionID)
	if sid == "" {
		return nil, ErrCartInvalidArgument
	}

	c, err := uc.carts.GetBySessionID(ctx, sid)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return cartdom.NewCart(sid, uc.clock.Now())
	}
	return c, nil
}

// AddItemInput identifies what the shopper adds: either an already-resolved
// variant id, or the option selection to resolve here. Both absent means a
// variantless product.
type AddItemInput struct {
	ProductID string
	VariantID string
	Selection map[string]string
	Qty       int
}

// AddItem resolves the purchasable unit, captures its price, and merges it
// into the cart. A partial or ambiguous selection surfaces as
// ErrCannotAddToCart; the resolver never guesses.
func (uc *CartUsecase) AddItem(ctx context.Context, sessionID string, in AddItemInput) (*cartdom.Cart, error) {
	sid := strings.TrimSpace(sessionID)
	pid := strings.TrimSpace(in.ProductID)
	if sid == "" || pid == "" {
		return nil, ErrCartInvalidArgument
	}
	if in.Qty < 1 {
		return nil, cartdom.ErrInvalidQuantity
	}

	p, err := uc.products.GetByID(ctx, pid)
	if err != nil {
		return nil, err
	}

	line, err := resolveLine(p, in)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()

	c, err := uc.carts.GetBySessionID(ctx, sid)
	if err != nil {
		return nil, err
	}
	if c == nil {
		c, err = cartdom.NewCart(sid, now)
		if err != nil {
			return nil, err
		}
	}

	if err := c.Add(line, in.Qty, now); err != nil {
		return nil, err
	}
	uc.persist(ctx, c)
	return c, nil
}

// SetItemQty sets quantity for a composite key; qty <= 0 removes the item.
// Unknown keys and absent carts are no-ops.
func (uc *CartUsecase) SetItemQty(ctx context.Context, sessionID, key string, qty int) (*cartdom.Cart, error) {
	sid := strings.TrimSpace(sessionID)
	k := strings.TrimSpace(key)
	if sid == "" || k == "" {
		return nil, ErrCartInvalidArgument
	}

	now := uc.clock.Now()

	c, err := uc.carts.GetBySessionID(ctx, sid)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return cartdom.NewCart(sid, now)
	}

	if err := c.SetQty(k, qty, now); err != nil {
		return nil, err
	}
	uc.persist(ctx, c)
	return c, nil
}

// RemoveItem deletes one line; no-op when absent.
func (uc *CartUsecase) RemoveItem(ctx context.Context, sessionID, key string) (*cartdom.Cart, error) {
	return uc.SetItemQty(ctx, sessionID, key, 0)
}

// Clear empties the session's cart (explicit user reset).
func (uc *CartUsecase) Clear(ctx context.Context, sessionID string) error {
	sid := strings.TrimSpace(sessionID)
	if sid == "" {
		return ErrCartInvalidArgument
	}
	return uc.carts.DeleteBySessionID(ctx, sid)
}

// persist saves the cart best-effort. The mutated cart stays authoritative
// for the current request; a failed write is logged, not fatal.
func (uc *CartUsecase) persist(ctx context.Context, c *cartdom.Cart) {
	if err := uc.carts.Upsert(ctx, c); err != nil {
		log.Printf("[cart_usecase] WARN: cart persist failed session=%s: %v", c.ID, err)
	}
}

// resolveLine turns a product + add-item input into a priced cart line.
func resolveLine(p productdom.Product, in AddItemInput) (cartdom.Line, error) {
	sel := productdom.Selection(in.Selection)

	if vid := strings.TrimSpace(in.VariantID); vid != "" {
		v := p.FindVariant(vid)
		if v == nil {
			return cartdom.Line{}, fmt.Errorf("%w: unknown variant %q", ErrCannotAddToCart, vid)
		}
		sel = productdom.Selection(v.Options)
	}

	res, err := productdom.Resolve(p, sel)
	if err != nil {
		// ambiguous variant mapping: configuration error, never guessed
		return cartdom.Line{}, fmt.Errorf("%w: %v", ErrCannotAddToCart, err)
	}
	if !res.CanAddToCart {
		return cartdom.Line{}, ErrCannotAddToCart
	}

	line := cartdom.Line{
		ProductID: p.ID,
		Title:     p.Title,
		Image:     res.Image,
		UnitPrice: res.Price,
	}
	if res.Variant != nil {
		line.VariantID = res.Variant.ID
		if label := variantLabel(p, *res.Variant); label != "" {
			line.Title = p.Title + " - " + label
		}
	}
	return line, nil
}

// variantLabel renders "Red / M" in declared option order.
func variantLabel(p productdom.Product, v productdom.Variant) string {
	parts := make([]string, 0, len(p.Options))
	for _, opt := range p.Options {
		if val := v.Options[opt.Name]; val != "" {
			parts = append(parts, val)
		}
	}
	return strings.Join(parts, " / ")
}
