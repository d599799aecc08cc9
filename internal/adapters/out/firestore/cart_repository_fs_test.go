package firestore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartdom "boutique/internal/domain/cart"
	"boutique/internal/domain/money"
)

func TestCartDocRoundTripKeepsInsertionOrder(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	c, err := cartdom.NewCart("sess-1", now)
	require.NoError(t, err)
	require.NoError(t, c.Add(cartdom.Line{
		ProductID: "prod-2", VariantID: "v-b", Title: "Mug", UnitPrice: money.New(900, "USD"),
	}, 1, now))
	require.NoError(t, c.Add(cartdom.Line{
		ProductID: "prod-1", VariantID: "v-a", Title: "Shirt", UnitPrice: money.New(1500, "USD"),
	}, 2, now))

	doc := cartDocFromDomain(c)
	back := doc.toDomain()
	back.ID = c.ID

	require.Len(t, back.Items, 2)
	// array storage preserves the order lines were added, not key order
	assert.Equal(t, "prod-2", back.Items[0].ProductID)
	assert.Equal(t, "prod-1", back.Items[1].ProductID)
	assert.Equal(t, int64(900), back.Items[0].UnitPrice.Cents)
	assert.Equal(t, "USD", back.Items[0].UnitPrice.Currency)
	assert.Equal(t, c.Total().Cents, back.Total().Cents)
	assert.Equal(t, c.ExpiresAt, back.ExpiresAt)
}

func TestCartDocToDomainDropsCorruptRows(t *testing.T) {
	doc := cartDoc{
		Items: []cartItemDoc{
			{Key: "prod-1__v-a", ProductID: "prod-1", VariantID: "v-a", Title: "Shirt", UnitPriceCents: 1500, Currency: "USD", Qty: 2},
			{Key: "prod-2", ProductID: "prod-2", Title: "Mug", UnitPriceCents: 900, Currency: "USD", Qty: 0},
			{Key: "", ProductID: "prod-3", Title: "Hat", UnitPriceCents: 500, Currency: "USD", Qty: 1},
		},
	}

	c := doc.toDomain()
	require.Len(t, c.Items, 1)
	assert.Equal(t, "prod-1__v-a", c.Items[0].Key)
}
