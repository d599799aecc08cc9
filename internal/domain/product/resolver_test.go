package product

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boutique/internal/domain/money"
)

// shirt: Color in {Red, Blue}, Size in {S, M}
// variants: (Red,S,stock=0) (Red,M,stock=5) (Blue,S,stock=3) (Blue,M,stock=0)
func shirtProduct(t *testing.T) Product {
	t.Helper()
	p, err := New(
		"prod-1", "classic-shirt", "Classic Shirt", "",
		money.New(2500, "USD"), nil,
		[]string{"shirt-main.jpg"},
		[]Option{
			{Name: "Color", Values: []string{"Red", "Blue"}, Swatches: map[string]string{"Red": "#c00", "Blue": "#03c"}},
			{Name: "Size", Values: []string{"S", "M"}},
		},
		[]Variant{
			{ID: "v-red-s", ProductID: "prod-1", Options: map[string]string{"Color": "Red", "Size": "S"}, Price: money.New(2500, "USD"), Stock: 0},
			{ID: "v-red-m", ProductID: "prod-1", Options: map[string]string{"Color": "Red", "Size": "M"}, Price: money.New(2700, "USD"), Image: "shirt-red.jpg", Stock: 5},
			{ID: "v-blue-s", ProductID: "prod-1", Options: map[string]string{"Color": "Blue", "Size": "S"}, Price: money.New(2500, "USD"), Stock: 3},
			{ID: "v-blue-m", ProductID: "prod-1", Options: map[string]string{"Color": "Blue", "Size": "M"}, Price: money.New(2500, "USD"), Stock: 0},
		},
		true,
	)
	require.NoError(t, err)
	return p
}

func TestResolveOptionlessProduct(t *testing.T) {
	compareAt := money.New(2000, "USD")
	p, err := New(
		"prod-2", "plain-mug", "Plain Mug", "",
		money.New(1500, "USD"), &compareAt,
		[]string{"mug.jpg"}, nil, nil, true,
	)
	require.NoError(t, err)

	res, err := Resolve(p, nil)
	require.NoError(t, err)
	assert.Nil(t, res.Variant)
	assert.True(t, res.CanAddToCart)
	assert.Equal(t, int64(1500), res.Price.Cents)
	assert.Equal(t, "mug.jpg", res.Image)

	pct, ok := res.DiscountPercent()
	require.True(t, ok)
	assert.Equal(t, 25, pct)

	// out of stock product cannot be added
	p.InStock = false
	res, err = Resolve(p, nil)
	require.NoError(t, err)
	assert.False(t, res.CanAddToCart)
}

func TestResolvePartialSelection(t *testing.T) {
	p := shirtProduct(t)

	res, err := Resolve(p, Selection{"Color": "Red"})
	require.NoError(t, err)

	// partial: no variant, cannot add, even though Red+M would be in stock
	assert.Nil(t, res.Variant)
	assert.False(t, res.CanAddToCart)

	// the only in-stock Red completion is M; S must be suppressed
	assert.False(t, res.AvailableValues["Size"]["S"])
	assert.True(t, res.AvailableValues["Size"]["M"])

	// switching within Color stays possible: Blue has an in-stock variant
	assert.True(t, res.AvailableValues["Color"]["Red"])
	assert.True(t, res.AvailableValues["Color"]["Blue"])
}

func TestResolveFullSelection(t *testing.T) {
	p := shirtProduct(t)

	res, err := Resolve(p, Selection{"Color": "Red", "Size": "M"})
	require.NoError(t, err)
	require.NotNil(t, res.Variant)
	assert.Equal(t, "v-red-m", res.Variant.ID)
	assert.True(t, res.CanAddToCart)
	assert.Equal(t, int64(2700), res.Price.Cents)
	assert.Equal(t, "shirt-red.jpg", res.Image)
}

func TestResolveFullSelectionOutOfStock(t *testing.T) {
	p := shirtProduct(t)

	res, err := Resolve(p, Selection{"Color": "Blue", "Size": "M"})
	require.NoError(t, err)
	require.NotNil(t, res.Variant)
	assert.Equal(t, "v-blue-m", res.Variant.ID)
	assert.False(t, res.CanAddToCart)
}

func TestResolveCrossAvailability(t *testing.T) {
	p := shirtProduct(t)

	// with Size=S chosen, only Blue has stock
	res, err := Resolve(p, Selection{"Size": "S"})
	require.NoError(t, err)
	assert.False(t, res.AvailableValues["Color"]["Red"])
	assert.True(t, res.AvailableValues["Color"]["Blue"])
}

func TestResolveIgnoresUndeclaredSelection(t *testing.T) {
	p := shirtProduct(t)

	res, err := Resolve(p, Selection{"Color": "Red", "Material": "Silk"})
	require.NoError(t, err)
	assert.Nil(t, res.Variant)
	assert.False(t, res.CanAddToCart)
}

func TestResolveAmbiguousMappingIsAnError(t *testing.T) {
	p := shirtProduct(t)
	// inject a duplicate mapping (bypasses the constructor on purpose)
	p.Variants = append(p.Variants, Variant{
		ID:        "v-red-m-dup",
		ProductID: "prod-1",
		Options:   map[string]string{"Color": "Red", "Size": "M"},
		Price:     money.New(2700, "USD"),
		Stock:     2,
	})

	_, err := Resolve(p, Selection{"Color": "Red", "Size": "M"})
	assert.ErrorIs(t, err, ErrAmbiguousVariant)
}

func TestValidateVariantKeySet(t *testing.T) {
	_, err := New(
		"prod-3", "bad", "Bad Product", "",
		money.New(1000, "USD"), nil, nil,
		[]Option{{Name: "Color", Values: []string{"Red"}}},
		[]Variant{{ID: "v-1", ProductID: "prod-3", Options: map[string]string{}, Price: money.New(1000, "USD"), Stock: 1}},
		true,
	)
	assert.ErrorIs(t, err, ErrVariantOptionKeys)

	_, err = New(
		"prod-3", "bad", "Bad Product", "",
		money.New(1000, "USD"), nil, nil,
		[]Option{{Name: "Color", Values: []string{"Red"}}},
		[]Variant{{ID: "v-1", ProductID: "prod-3", Options: map[string]string{"Color": "Green"}, Price: money.New(1000, "USD"), Stock: 1}},
		true,
	)
	assert.ErrorIs(t, err, ErrVariantUnknownValue)
}

func TestValidateComparePrice(t *testing.T) {
	lower := money.New(500, "USD")
	_, err := New(
		"prod-4", "sale", "Sale Product", "",
		money.New(1000, "USD"), &lower, nil, nil, nil, true,
	)
	assert.ErrorIs(t, err, ErrInvalidComparePrice)
}
