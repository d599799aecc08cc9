// backend/internal/domain/cart/entity.go
package cart

import (
	"errors"
	"strings"
	"time"

	"boutique/internal/domain/money"
)

var (
	ErrInvalidCart     = errors.New("cart: invalid")
	ErrInvalidQuantity = errors.New("cart: invalid quantity")
	ErrInvalidLine     = errors.New("cart: invalid line")
)

// DefaultCartTTL is the inactivity window after which the cart becomes
// eligible for auto deletion (Firestore TTL should be configured on expiresAt).
const DefaultCartTTL = 7 * 24 * time.Hour

// Line is the input for adding to a cart: the resolved product/variant plus
// the unit price captured at this instant. Upstream price changes after the
// add do not retroactively affect the stored item.
type Line struct {
	ProductID string
	VariantID string // empty for variantless products
	Title     string
	Image     string
	UnitPrice money.Money
}

// Item is one line item in a cart.
// Key is the composite identity (productId, or productId__variantId).
type Item struct {
	Key       string      `json:"key" firestore:"key"`
	ProductID string      `json:"productId" firestore:"productId"`
	VariantID string      `json:"variantId,omitempty" firestore:"variantId,omitempty"`
	Title     string      `json:"title" firestore:"title"`
	Image     string      `json:"image,omitempty" firestore:"image,omitempty"`
	UnitPrice money.Money `json:"unitPrice" firestore:"unitPrice"`
	Qty       int         `json:"qty" firestore:"qty"`
}

// LineTotal is unit price * qty.
func (it Item) LineTotal() money.Money {
	total, err := it.UnitPrice.MulQty(it.Qty)
	if err != nil {
		return money.Zero(it.UnitPrice.Currency)
	}
	return total
}

// ItemKey builds the composite item identity.
func ItemKey(productID, variantID string) string {
	pid := strings.TrimSpace(productID)
	vid := strings.TrimSpace(variantID)
	if vid == "" {
		return pid
	}
	return pid + "__" + vid
}

// Cart represents one shopper's cart document.
//   - docId = sessionID (Firestore)
//   - Items keep insertion order (display order)
//   - ExpiresAt: for Firestore TTL, refreshed on each mutation
type Cart struct {
	// ID is the Firestore docId (= browsing session id).
	ID string `json:"id" firestore:"id"`

	Items []Item `json:"items" firestore:"items"`

	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updatedAt"`
	ExpiresAt time.Time `json:"expiresAt" firestore:"expiresAt"`
}

// Snapshot is an immutable copy of cart contents taken at one instant,
// decoupling checkout from later cart mutations.
type Snapshot struct {
	Items   []Item      `json:"items" firestore:"items"`
	Total   money.Money `json:"total" firestore:"total"`
	TakenAt time.Time   `json:"takenAt" firestore:"takenAt"`
}

// IsEmpty reports whether the snapshot carries no items.
func (s Snapshot) IsEmpty() bool {
	return len(s.Items) == 0
}

// NewCart creates an empty cart doc. id is the Firestore docId (sessionID).
func NewCart(id string, now time.Time) (*Cart, error) {
	c := &Cart{
		ID:        strings.TrimSpace(id),
		Items:     []Item{},
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(DefaultCartTTL),
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Add increments qty for the line's composite key, or appends a new item at
// the end of the sequence. qty must be >= 1.
func (c *Cart) Add(line Line, qty int, now time.Time) error {
	if c == nil {
		return ErrInvalidCart
	}
	if qty < 1 {
		return ErrInvalidQuantity
	}

	pid := strings.TrimSpace(line.ProductID)
	vid := strings.TrimSpace(line.VariantID)
	if pid == "" {
		return ErrInvalidLine
	}
	for _, it := range c.Items {
		if !it.UnitPrice.SameCurrency(line.UnitPrice) {
			return ErrInvalidLine
		}
	}

	key := ItemKey(pid, vid)
	if idx := c.findIndex(key); idx >= 0 {
		// existing entry keeps its captured unit price
		c.Items[idx].Qty += qty
	} else {
		c.Items = append(c.Items, Item{
			Key:       key,
			ProductID: pid,
			VariantID: vid,
			Title:     strings.TrimSpace(line.Title),
			Image:     strings.TrimSpace(line.Image),
			UnitPrice: line.UnitPrice,
			Qty:       qty,
		})
	}

	c.touch(now)
	return c.validate()
}

// SetQty sets quantity for a key. qty <= 0 removes the item (decrement-to-zero
// from a minus control). A missing key is a no-op, not an error.
func (c *Cart) SetQty(key string, qty int, now time.Time) error {
	if c == nil {
		return ErrInvalidCart
	}

	idx := c.findIndex(strings.TrimSpace(key))
	if idx < 0 {
		return nil
	}

	if qty <= 0 {
		c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
	} else {
		c.Items[idx].Qty = qty
	}

	c.touch(now)
	return c.validate()
}

// Remove deletes the entry for key if present; no-op otherwise.
func (c *Cart) Remove(key string, now time.Time) error {
	return c.SetQty(key, 0, now)
}

// Clear empties the cart. Used on successful checkout or explicit reset.
func (c *Cart) Clear(now time.Time) error {
	if c == nil {
		return ErrInvalidCart
	}
	c.Items = []Item{}
	c.touch(now)
	return c.validate()
}

// Total is the sum of unit price * qty across items.
func (c *Cart) Total() money.Money {
	total := money.Zero("")
	for _, it := range c.Items {
		sum, err := total.Add(it.LineTotal())
		if err != nil {
			// mixed currencies are rejected on Add; unreachable for valid carts
			return total
		}
		total = sum
	}
	return total
}

// ItemCount is the sum of quantities (badge count). Never capped here; any
// "99+" ceiling is display-only.
func (c *Cart) ItemCount() int {
	n := 0
	for _, it := range c.Items {
		n += it.Qty
	}
	return n
}

// Snapshot returns a deep copy of items + total, immune to later mutation.
func (c *Cart) Snapshot(now time.Time) Snapshot {
	items := make([]Item, len(c.Items))
	copy(items, c.Items)
	return Snapshot{
		Items:   items,
		Total:   c.Total(),
		TakenAt: now,
	}
}

func (c *Cart) findIndex(key string) int {
	for i := range c.Items {
		if c.Items[i].Key == key {
			return i
		}
	}
	return -1
}

func (c *Cart) touch(now time.Time) {
	c.UpdatedAt = now
	c.ExpiresAt = now.Add(DefaultCartTTL)
}

func (c *Cart) validate() error {
	if c == nil {
		return ErrInvalidCart
	}
	if strings.TrimSpace(c.ID) == "" {
		return ErrInvalidCart
	}
	if c.CreatedAt.IsZero() || c.UpdatedAt.IsZero() || c.ExpiresAt.IsZero() {
		return ErrInvalidCart
	}
	if c.UpdatedAt.Before(c.CreatedAt) {
		return ErrInvalidCart
	}
	if c.ExpiresAt.Before(c.UpdatedAt) {
		return ErrInvalidCart
	}

	seen := map[string]bool{}
	for _, it := range c.Items {
		if strings.TrimSpace(it.Key) == "" || strings.TrimSpace(it.ProductID) == "" {
			return ErrInvalidCart
		}
		if it.Qty < 1 {
			return ErrInvalidCart
		}
		if seen[it.Key] {
			return ErrInvalidCart
		}
		seen[it.Key] = true
	}
	return nil
}
