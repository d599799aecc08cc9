// backend/internal/adapters/out/http/order_client.go
package httpout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	checkoutdom "boutique/internal/domain/checkout"
)

// OrderClient calls the external order service over REST.
// Implements CheckoutUsecase's outbound order port.
type OrderClient struct {
	baseURL string
	client  *http.Client
}

type orderRequest struct {
	Items        []orderItemPayload `json:"items"`
	TotalCents   int64              `json:"totalCents"`
	CurrencyCode string             `json:"currencyCode"`
}

type orderItemPayload struct {
	ProductID      string `json:"productId"`
	VariantID      string `json:"variantId,omitempty"`
	Title          string `json:"title"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	Qty            int    `json:"qty"`
}

type orderResponse struct {
	OrderID string         `json:"orderId"`
	Order   map[string]any `json:"order"`
}

// baseURL example:
// - Cloud Run: https://xxxxx.asia-northeast1.run.app
// - local: http://localhost:8081
func NewOrderClient(baseURL string) *OrderClient {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	return &OrderClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *OrderClient) CreateOrder(ctx context.Context, in checkoutdom.CreateOrderInput) (checkoutdom.OrderResult, error) {
	if c == nil {
		return checkoutdom.OrderResult{}, fmt.Errorf("order client is nil")
	}
	if c.baseURL == "" {
		return checkoutdom.OrderResult{}, fmt.Errorf("order client baseURL is empty")
	}

	url := c.baseURL + "/orders"

	payload := orderRequest{
		Items:        make([]orderItemPayload, 0, len(in.Items)),
		TotalCents:   in.TotalCents,
		CurrencyCode: strings.TrimSpace(in.CurrencyCode),
	}
	for _, it := range in.Items {
		payload.Items = append(payload.Items, orderItemPayload{
			ProductID:      it.ProductID,
			VariantID:      it.VariantID,
			Title:          it.Title,
			UnitPriceCents: it.UnitPriceCents,
			Qty:            it.Qty,
		})
	}

	b, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return checkoutdom.OrderResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return checkoutdom.OrderResult{}, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK && res.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 1<<20))
		return checkoutdom.OrderResult{}, fmt.Errorf("order call failed status=%d body=%s", res.StatusCode, strings.TrimSpace(string(body)))
	}

	var decoded orderResponse
	if err := json.NewDecoder(res.Body).Decode(&decoded); err != nil {
		return checkoutdom.OrderResult{}, fmt.Errorf("order response decode failed: %w", err)
	}
	if strings.TrimSpace(decoded.OrderID) == "" {
		return checkoutdom.OrderResult{}, fmt.Errorf("order response missing orderId")
	}

	return checkoutdom.OrderResult{
		OrderID: decoded.OrderID,
		Payload: decoded.Order,
	}, nil
}
