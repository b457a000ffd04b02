package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YelzhanWeb/pos/internal/adapter/logger"
	"github.com/YelzhanWeb/pos/internal/domain"
)

func newTestCart(store *memStore) *Cart {
	return New(store, domain.DefaultSurchargeTable(), domain.DefaultTaxRate, logger.Nop())
}

func assertConsistent(t *testing.T, c *Cart) {
	t.Helper()
	snap := c.Snapshot()

	sum := d("0")
	for _, item := range snap.Items {
		sum = sum.Add(item.Total)
	}
	assert.True(t, c.Total().Equal(sum), "total %s != sum %s", c.Total(), sum)
	assert.True(t, c.Tax().Equal(c.Total().Mul(d("0.0825"))), "tax %s", c.Tax())
}

func TestCart_TotalsFollowEveryMutation(t *testing.T) {
	c := newTestCart(newMemStore())
	table := c.Surcharges()

	require.NoError(t, c.Add(Compose(burger(), []int{8}, table)))
	assertConsistent(t, c)
	assert.True(t, c.Total().Equal(d("7.90")))
	assert.True(t, c.Tax().Equal(d("0.651750")))

	require.NoError(t, c.Add(Compose(&domain.MenuItem{ID: 5, Price: d("8.99")}, []int{9, 2}, table)))
	assertConsistent(t, c)
	assert.True(t, c.Total().Equal(d("21.39")))

	require.NoError(t, c.Add(NewComposedItem(&domain.MenuItem{ID: 7, Price: d("2.10")}, table)))
	require.NoError(t, c.Remove(0))
	assertConsistent(t, c)
	assert.Equal(t, []int{5, 7}, c.MenuIDs())
	assert.True(t, c.Total().Equal(d("15.59")))
}

func TestCart_PersistsThreeEntries(t *testing.T) {
	store := newMemStore()
	c := newTestCart(store)

	require.NoError(t, c.Add(Compose(burger(), []int{8}, c.Surcharges())))

	items, ok, _ := store.Get(KeyItems)
	require.True(t, ok)
	assert.Contains(t, items, `"menuitem_id":1`)

	total, ok, _ := store.Get(KeyTotal)
	require.True(t, ok)
	assert.Equal(t, "7.9", total)

	tax, ok, _ := store.Get(KeyTax)
	require.True(t, ok)
	assert.Equal(t, "0.65175", tax)
}

func TestCart_EmptyLeavesNothing(t *testing.T) {
	store := newMemStore()
	c := newTestCart(store)
	require.NoError(t, c.Add(Compose(burger(), []int{8, 9}, c.Surcharges())))

	require.NoError(t, c.Empty())

	assert.True(t, c.Total().IsZero())
	assert.True(t, c.Tax().IsZero())
	assert.Zero(t, c.Len())
	assert.Empty(t, store.data)
}

func TestCart_RemoveOutOfRange(t *testing.T) {
	c := newTestCart(newMemStore())
	require.NoError(t, c.Add(Compose(burger(), nil, c.Surcharges())))

	for _, idx := range []int{-1, 1, 5} {
		err := c.Remove(idx)
		assert.ErrorIs(t, err, ErrIndexOutOfRange)
	}
	assert.Equal(t, []int{1}, c.MenuIDs())
	assert.True(t, c.Total().Equal(d("6.40")))
}

func TestCart_FailedWriteKeepsPreviousState(t *testing.T) {
	store := newMemStore()
	c := newTestCart(store)
	require.NoError(t, c.Add(Compose(burger(), []int{8}, c.Surcharges())))
	persisted, _, _ := store.Get(KeyTotal)

	store.putErr = assert.AnError
	err := c.Add(NewComposedItem(&domain.MenuItem{ID: 7, Price: d("2.10")}, c.Surcharges()))
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 1, c.Len())
	assert.True(t, c.Total().Equal(d("7.90")))
	assertConsistent(t, c)

	store.putErr = nil
	require.NoError(t, c.Add(NewComposedItem(&domain.MenuItem{ID: 7, Price: d("2.10")}, c.Surcharges())))
	store.putErr = assert.AnError
	assert.ErrorIs(t, c.Remove(0), assert.AnError)
	assert.Equal(t, []int{1, 7}, c.MenuIDs())
	assert.True(t, c.Total().Equal(d("10.00")))

	store.deleteErr = assert.AnError
	assert.ErrorIs(t, c.Empty(), assert.AnError)
	assert.Equal(t, 2, c.Len())
	assertConsistent(t, c)

	total, _, _ := store.Get(KeyTotal)
	assert.NotEqual(t, persisted, total)
	assert.True(t, d(total).Equal(c.Total()))
}

func TestCart_FirstAddFailureLeavesCartEmpty(t *testing.T) {
	store := newMemStore()
	store.putErr = assert.AnError
	c := newTestCart(store)

	assert.Error(t, c.Add(Compose(burger(), nil, c.Surcharges())))
	assert.Zero(t, c.Len())
	assert.True(t, c.Total().IsZero())
	assert.True(t, c.Tax().IsZero())
	assert.Empty(t, store.data)
}

func TestCart_RestoreRoundTrip(t *testing.T) {
	store := newMemStore()
	before := newTestCart(store)
	require.NoError(t, before.Add(Compose(burger(), []int{9, 2}, before.Surcharges())))
	require.NoError(t, before.Add(Compose(&domain.MenuItem{ID: 5, Name: "Family Box", Price: d("21.00")}, []int{8}, before.Surcharges())))

	after := newTestCart(store)
	require.NoError(t, after.Restore())

	want, got := before.Snapshot(), after.Snapshot()
	require.Len(t, got.Items, len(want.Items))
	for i := range want.Items {
		assert.Equal(t, want.Items[i].MenuItemID, got.Items[i].MenuItemID)
		assert.Equal(t, want.Items[i].Name, got.Items[i].Name)
		assert.Equal(t, want.Items[i].FoodItemIDs, got.Items[i].FoodItemIDs)
		assert.True(t, want.Items[i].Total.Equal(got.Items[i].Total))
		assert.True(t, want.Items[i].BasePrice.Equal(got.Items[i].BasePrice))
	}
	assert.True(t, want.Total.Equal(got.Total))
	assert.True(t, want.Tax.Equal(got.Tax))

	// restored items are live: surcharges still apply
	require.NoError(t, after.Remove(1))
	assert.True(t, after.Total().Equal(d("7.90")))
}

func TestCart_RestoreKeepsStoredScalars(t *testing.T) {
	store := newMemStore()
	require.NoError(t, store.Put(map[string]string{
		KeyItems: `[{"menuitem_id":1,"name":"Burger Meal","base_price":"6.4","fooditem_ids":[8],"total":"7.9"}]`,
		KeyTotal: "8.25",
		KeyTax:   "0.68",
	}))

	c := newTestCart(store)
	require.NoError(t, c.Restore())

	assert.True(t, c.Total().Equal(d("8.25")))
	assert.True(t, c.Tax().Equal(d("0.68")))
	assert.Equal(t, []int{1}, c.MenuIDs())
}

func TestCart_RestoreWithoutStateIsEmpty(t *testing.T) {
	c := newTestCart(newMemStore())
	require.NoError(t, c.Restore())
	assert.Zero(t, c.Len())
	assert.True(t, c.Total().IsZero())
}

func TestCart_RestoreRejectsCorruptState(t *testing.T) {
	tests := map[string]map[string]string{
		"bad json":   {KeyItems: `{not json`},
		"bad item":   {KeyItems: `[{"menuitem_id":0}]`},
		"bad scalar": {KeyItems: `[]`, KeyTotal: "abc"},
	}

	for name, entries := range tests {
		t.Run(name, func(t *testing.T) {
			store := newMemStore()
			require.NoError(t, store.Put(entries))
			assert.Error(t, newTestCart(store).Restore())
		})
	}
}
