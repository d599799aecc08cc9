package cart

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boutique/internal/domain/money"
)

var t0 = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func newTestCart(t *testing.T) *Cart {
	t.Helper()
	c, err := NewCart("sess-1", t0)
	require.NoError(t, err)
	return c
}

func lineAt(productID, variantID string, cents int64) Line {
	return Line{
		ProductID: productID,
		VariantID: variantID,
		Title:     "Item " + productID,
		UnitPrice: money.New(cents, "USD"),
	}
}

func TestItemKey(t *testing.T) {
	assert.Equal(t, "p1", ItemKey("p1", ""))
	assert.Equal(t, "p1__v1", ItemKey("p1", "v1"))
	assert.Equal(t, "p1__v1", ItemKey(" p1 ", " v1 "))
}

func TestAddMergesSameKey(t *testing.T) {
	c := newTestCart(t)

	require.NoError(t, c.Add(lineAt("p1", "v1", 1000), 1, t0))
	require.NoError(t, c.Add(lineAt("p1", "v1", 1000), 2, t0.Add(time.Minute)))

	require.Len(t, c.Items, 1)
	assert.Equal(t, 3, c.Items[0].Qty)
	assert.Equal(t, int64(3000), c.Total().Cents)
}

func TestAddCapturesUnitPrice(t *testing.T) {
	c := newTestCart(t)

	require.NoError(t, c.Add(lineAt("p1", "v1", 1000), 1, t0))
	// upstream price changed; the merged line keeps the captured price
	require.NoError(t, c.Add(lineAt("p1", "v1", 9999), 1, t0))

	require.Len(t, c.Items, 1)
	assert.Equal(t, int64(1000), c.Items[0].UnitPrice.Cents)
}

func TestAddRejectsQuantityBelowOne(t *testing.T) {
	c := newTestCart(t)

	assert.ErrorIs(t, c.Add(lineAt("p1", "", 1000), 0, t0), ErrInvalidQuantity)
	assert.ErrorIs(t, c.Add(lineAt("p1", "", 1000), -3, t0), ErrInvalidQuantity)
	assert.Empty(t, c.Items)
}

func TestInsertionOrderPreserved(t *testing.T) {
	c := newTestCart(t)

	require.NoError(t, c.Add(lineAt("p1", "", 500), 1, t0))
	require.NoError(t, c.Add(lineAt("p2", "", 600), 1, t0))
	require.NoError(t, c.Add(lineAt("p3", "", 700), 1, t0))
	// merging into p1 must not move it
	require.NoError(t, c.Add(lineAt("p1", "", 500), 1, t0))

	keys := []string{c.Items[0].Key, c.Items[1].Key, c.Items[2].Key}
	assert.Equal(t, []string{"p1", "p2", "p3"}, keys)
}

func TestSetQty(t *testing.T) {
	c := newTestCart(t)
	require.NoError(t, c.Add(lineAt("p1", "v1", 1000), 2, t0))

	require.NoError(t, c.SetQty("p1__v1", 5, t0))
	assert.Equal(t, 5, c.Items[0].Qty)

	// zero removes
	require.NoError(t, c.SetQty("p1__v1", 0, t0))
	assert.Empty(t, c.Items)

	// negative also removes
	require.NoError(t, c.Add(lineAt("p1", "v1", 1000), 1, t0))
	require.NoError(t, c.SetQty("p1__v1", -1, t0))
	assert.Empty(t, c.Items)
}

func TestSetQtyMissingKeyIsNoop(t *testing.T) {
	c := newTestCart(t)
	require.NoError(t, c.Add(lineAt("p1", "", 1000), 2, t0))

	before := c.Snapshot(t0)
	require.NoError(t, c.SetQty("missing", 5, t0))

	after := c.Snapshot(t0)
	assert.Equal(t, before.Items, after.Items)
	assert.Equal(t, before.Total, after.Total)
}

func TestRemove(t *testing.T) {
	c := newTestCart(t)
	require.NoError(t, c.Add(lineAt("p1", "", 1000), 1, t0))
	require.NoError(t, c.Add(lineAt("p2", "", 2000), 1, t0))

	require.NoError(t, c.Remove("p1", t0))
	require.Len(t, c.Items, 1)
	assert.Equal(t, "p2", c.Items[0].Key)

	// removing an absent key is a no-op
	require.NoError(t, c.Remove("p1", t0))
	require.Len(t, c.Items, 1)
}

func TestTotalAndCount(t *testing.T) {
	c := newTestCart(t)
	require.NoError(t, c.Add(lineAt("p1", "", 1000), 2, t0)) // $20.00
	require.NoError(t, c.Add(lineAt("p2", "", 2500), 1, t0)) // $25.00

	assert.Equal(t, int64(4500), c.Total().Cents)
	assert.Equal(t, "USD", c.Total().Currency)
	assert.Equal(t, 3, c.ItemCount())

	require.NoError(t, c.Clear(t0))
	assert.Equal(t, int64(0), c.Total().Cents)
	assert.Equal(t, 0, c.ItemCount())
}

func TestQuantityInvariantHoldsAcrossSequences(t *testing.T) {
	c := newTestCart(t)

	ops := []func() error{
		func() error { return c.Add(lineAt("p1", "v1", 1000), 1, t0) },
		func() error { return c.Add(lineAt("p2", "", 700), 3, t0) },
		func() error { return c.SetQty("p1__v1", 4, t0) },
		func() error { return c.SetQty("p2", -2, t0) },
		func() error { return c.Add(lineAt("p3", "v9", 100), 2, t0) },
		func() error { return c.Remove("p3__v9", t0) },
		func() error { return c.SetQty("ghost", 9, t0) },
	}
	for _, op := range ops {
		require.NoError(t, op())
		for _, it := range c.Items {
			assert.GreaterOrEqual(t, it.Qty, 1)
		}
	}
}

func TestSnapshotIsImmune(t *testing.T) {
	c := newTestCart(t)
	require.NoError(t, c.Add(lineAt("p1", "", 1500), 3, t0)) // $45.00

	snap := c.Snapshot(t0)
	require.NoError(t, c.Clear(t0))

	assert.True(t, snap.Total.Cents == 4500)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, 3, snap.Items[0].Qty)
	assert.False(t, snap.IsEmpty())
	assert.True(t, c.Snapshot(t0).IsEmpty())
}

func TestAddRejectsMixedCurrencies(t *testing.T) {
	c := newTestCart(t)
	require.NoError(t, c.Add(lineAt("p1", "", 1000), 1, t0))

	eur := Line{ProductID: "p2", Title: "EUR item", UnitPrice: money.New(900, "EUR")}
	assert.ErrorIs(t, c.Add(eur, 1, t0), ErrInvalidLine)
}
