package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartdom "boutique/internal/domain/cart"
	"boutique/internal/domain/money"
	productdom "boutique/internal/domain/product"
)

func catalogFixture(t *testing.T) *memProductRepo {
	t.Helper()

	shirt, err := productdom.New(
		"prod-1", "classic-shirt", "Classic Shirt", "",
		money.New(2500, "USD"), nil, []string{"shirt.jpg"},
		[]productdom.Option{
			{Name: "Color", Values: []string{"Red", "Blue"}},
			{Name: "Size", Values: []string{"S", "M"}},
		},
		[]productdom.Variant{
			{ID: "v-red-s", ProductID: "prod-1", Options: map[string]string{"Color": "Red", "Size": "S"}, Price: money.New(2500, "USD"), Stock: 0},
			{ID: "v-red-m", ProductID: "prod-1", Options: map[string]string{"Color": "Red", "Size": "M"}, Price: money.New(2700, "USD"), Stock: 5},
			{ID: "v-blue-s", ProductID: "prod-1", Options: map[string]string{"Color": "Blue", "Size": "S"}, Price: money.New(2500, "USD"), Stock: 3},
			{ID: "v-blue-m", ProductID: "prod-1", Options: map[string]string{"Color": "Blue", "Size": "M"}, Price: money.New(2500, "USD"), Stock: 0},
		},
		true,
	)
	require.NoError(t, err)

	mug, err := productdom.New(
		"prod-2", "plain-mug", "Plain Mug", "",
		money.New(1000, "USD"), nil, nil, nil, nil, true,
	)
	require.NoError(t, err)

	return &memProductRepo{products: []productdom.Product{shirt, mug}}
}

func newCartUC(t *testing.T) (*CartUsecase, *memCartRepo) {
	t.Helper()
	carts := newMemCartRepo()
	uc := NewCartUsecaseWithClock(carts, catalogFixture(t), fixedClock{testNow})
	return uc, carts
}

func TestAddItemByVariantID(t *testing.T) {
	uc, carts := newCartUC(t)
	ctx := context.Background()

	c, err := uc.AddItem(ctx, "sess-1", AddItemInput{ProductID: "prod-1", VariantID: "v-red-m", Qty: 2})
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, "prod-1__v-red-m", c.Items[0].Key)
	assert.Equal(t, "Classic Shirt - Red / M", c.Items[0].Title)
	assert.Equal(t, int64(2700), c.Items[0].UnitPrice.Cents)
	assert.Equal(t, int64(5400), c.Total().Cents)

	// persisted
	stored, err := carts.GetBySessionID(ctx, "sess-1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, 2, stored.ItemCount())
}

func TestAddItemBySelection(t *testing.T) {
	uc, _ := newCartUC(t)

	c, err := uc.AddItem(context.Background(), "sess-1", AddItemInput{
		ProductID: "prod-1",
		Selection: map[string]string{"Color": "Blue", "Size": "S"},
		Qty:       1,
	})
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, "v-blue-s", c.Items[0].VariantID)
}

func TestAddItemMergesSameVariant(t *testing.T) {
	uc, _ := newCartUC(t)
	ctx := context.Background()

	_, err := uc.AddItem(ctx, "sess-1", AddItemInput{ProductID: "prod-1", VariantID: "v-red-m", Qty: 1})
	require.NoError(t, err)
	c, err := uc.AddItem(ctx, "sess-1", AddItemInput{ProductID: "prod-1", VariantID: "v-red-m", Qty: 2})
	require.NoError(t, err)

	require.Len(t, c.Items, 1)
	assert.Equal(t, 3, c.Items[0].Qty)
}

func TestAddItemRejectsPartialSelection(t *testing.T) {
	uc, _ := newCartUC(t)

	_, err := uc.AddItem(context.Background(), "sess-1", AddItemInput{
		ProductID: "prod-1",
		Selection: map[string]string{"Color": "Red"},
		Qty:       1,
	})
	assert.ErrorIs(t, err, ErrCannotAddToCart)
}

func TestAddItemRejectsOutOfStockVariant(t *testing.T) {
	uc, _ := newCartUC(t)

	_, err := uc.AddItem(context.Background(), "sess-1", AddItemInput{ProductID: "prod-1", VariantID: "v-red-s", Qty: 1})
	assert.ErrorIs(t, err, ErrCannotAddToCart)
}

func TestAddItemUnknownVariant(t *testing.T) {
	uc, _ := newCartUC(t)

	_, err := uc.AddItem(context.Background(), "sess-1", AddItemInput{ProductID: "prod-1", VariantID: "v-ghost", Qty: 1})
	assert.ErrorIs(t, err, ErrCannotAddToCart)
}

func TestAddItemVariantlessProduct(t *testing.T) {
	uc, _ := newCartUC(t)

	c, err := uc.AddItem(context.Background(), "sess-1", AddItemInput{ProductID: "prod-2", Qty: 3})
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, "prod-2", c.Items[0].Key)
	assert.Equal(t, "Plain Mug", c.Items[0].Title)
	assert.Equal(t, int64(3000), c.Total().Cents)
}

func TestAddItemInvalidQuantity(t *testing.T) {
	uc, _ := newCartUC(t)

	_, err := uc.AddItem(context.Background(), "sess-1", AddItemInput{ProductID: "prod-2", Qty: 0})
	assert.ErrorIs(t, err, cartdom.ErrInvalidQuantity)
}

func TestSetItemQtyAndRemove(t *testing.T) {
	uc, _ := newCartUC(t)
	ctx := context.Background()

	_, err := uc.AddItem(ctx, "sess-1", AddItemInput{ProductID: "prod-2", Qty: 2})
	require.NoError(t, err)

	c, err := uc.SetItemQty(ctx, "sess-1", "prod-2", 5)
	require.NoError(t, err)
	assert.Equal(t, 5, c.Items[0].Qty)

	// decrement-to-zero removes
	c, err = uc.SetItemQty(ctx, "sess-1", "prod-2", 0)
	require.NoError(t, err)
	assert.Empty(t, c.Items)

	// missing key: state unchanged
	_, err = uc.AddItem(ctx, "sess-1", AddItemInput{ProductID: "prod-2", Qty: 1})
	require.NoError(t, err)
	c, err = uc.SetItemQty(ctx, "sess-1", "missing", 5)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 1, c.Items[0].Qty)
}

func TestGetAbsentCartIsEmpty(t *testing.T) {
	uc, _ := newCartUC(t)

	c, err := uc.Get(context.Background(), "sess-new")
	require.NoError(t, err)
	assert.Empty(t, c.Items)
	assert.Equal(t, 0, c.ItemCount())
}

func TestClear(t *testing.T) {
	uc, carts := newCartUC(t)
	ctx := context.Background()

	_, err := uc.AddItem(ctx, "sess-1", AddItemInput{ProductID: "prod-2", Qty: 2})
	require.NoError(t, err)

	require.NoError(t, uc.Clear(ctx, "sess-1"))
	stored, err := carts.GetBySessionID(ctx, "sess-1")
	require.NoError(t, err)
	assert.Nil(t, stored)
}
