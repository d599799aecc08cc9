// backend/internal/domain/checkout/entity.go
package checkout

import (
	"errors"
	"time"

	"boutique/internal/domain/cart"
	"boutique/internal/domain/money"
)

var (
	ErrEmptyCart           = errors.New("checkout: cart is empty")
	ErrCheckoutInFlight    = errors.New("checkout: another checkout is already in flight")
	ErrOrderCreationFailed = errors.New("checkout: order creation failed")
)

// Snapshot is the immutable copy of cart state captured at the moment
// checkout begins, plus the currency the order is placed in. Later cart
// mutations do not affect it.
type Snapshot struct {
	Items        []cart.Item `json:"items"`
	Total        money.Money `json:"total"`
	CurrencyCode string      `json:"currencyCode"`
	TakenAt      time.Time   `json:"takenAt"`
}

// NewSnapshot freezes a cart snapshot for checkout.
func NewSnapshot(s cart.Snapshot, currencyCode string) Snapshot {
	return Snapshot{
		Items:        s.Items,
		Total:        s.Total,
		CurrencyCode: currencyCode,
		TakenAt:      s.TakenAt,
	}
}

// IsEmpty reports whether there is nothing to order.
func (s Snapshot) IsEmpty() bool {
	return len(s.Items) == 0
}

// Handoff bridges a completed checkout to the confirmation view: the order
// service's response plus the pre-checkout snapshot, persisted in
// session-scoped storage and read at most once by the next view.
type Handoff struct {
	OrderID   string         `json:"orderId"`
	Order     map[string]any `json:"order"`
	Snapshot  Snapshot       `json:"snapshot"`
	CreatedAt time.Time      `json:"createdAt"`
}
