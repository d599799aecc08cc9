// backend/internal/domain/checkout/order_port.go
package checkout

import "context"

// OrderItem is one line of the order-creation request.
type OrderItem struct {
	ProductID      string `json:"productId"`
	VariantID      string `json:"variantId,omitempty"`
	Title          string `json:"title"`
	Qty            int    `json:"qty"`
	UnitPriceCents int64  `json:"unitPriceCents"`
}

// CreateOrderInput is the payload handed to the external order service.
type CreateOrderInput struct {
	Items        []OrderItem `json:"items"`
	TotalCents   int64       `json:"totalCents"`
	CurrencyCode string      `json:"currencyCode"`
}

// OrderResult is the order service's response: the order identifier plus
// whatever data the service echoes back (kept opaque for the handoff).
type OrderResult struct {
	OrderID string         `json:"orderId"`
	Payload map[string]any `json:"payload,omitempty"`
}

// OrderService is the external order-creation collaborator. Any failure
// (network, validation, server) is treated uniformly as "order creation
// failed"; the caller does not distinguish timeout from other errors.
type OrderService interface {
	CreateOrder(ctx context.Context, in CreateOrderInput) (OrderResult, error)
}

// OrderItemsFromSnapshot maps a checkout snapshot to the order payload lines.
func OrderItemsFromSnapshot(s Snapshot) []OrderItem {
	items := make([]OrderItem, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, OrderItem{
			ProductID:      it.ProductID,
			VariantID:      it.VariantID,
			Title:          it.Title,
			Qty:            it.Qty,
			UnitPriceCents: it.UnitPrice.Cents,
		})
	}
	return items
}
