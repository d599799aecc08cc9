package httpout

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	checkoutdom "boutique/internal/domain/checkout"
)

func TestOrderClientCreateOrder(t *testing.T) {
	var got orderRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"orderId": "ord-77",
			"order":   map[string]any{"status": "pending"},
		})
	}))
	defer srv.Close()

	c := NewOrderClient(srv.URL + "/")

	res, err := c.CreateOrder(context.Background(), checkoutdom.CreateOrderInput{
		Items: []checkoutdom.OrderItem{
			{ProductID: "prod-1", VariantID: "v-red-m", Title: "Classic Shirt - Red / M", UnitPriceCents: 1500, Qty: 3},
		},
		TotalCents:   4500,
		CurrencyCode: "USD",
	})
	require.NoError(t, err)

	assert.Equal(t, "ord-77", res.OrderID)
	assert.Equal(t, "pending", res.Payload["status"])

	assert.Equal(t, int64(4500), got.TotalCents)
	assert.Equal(t, "USD", got.CurrencyCode)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "v-red-m", got.Items[0].VariantID)
	assert.Equal(t, 3, got.Items[0].Qty)
}

func TestOrderClientNon2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "inventory gone", http.StatusConflict)
	}))
	defer srv.Close()

	c := NewOrderClient(srv.URL)

	_, err := c.CreateOrder(context.Background(), checkoutdom.CreateOrderInput{TotalCents: 100, CurrencyCode: "USD"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=409")
}

func TestOrderClientMissingOrderID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"order":{}}`))
	}))
	defer srv.Close()

	c := NewOrderClient(srv.URL)

	_, err := c.CreateOrder(context.Background(), checkoutdom.CreateOrderInput{TotalCents: 100, CurrencyCode: "USD"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing orderId")
}
