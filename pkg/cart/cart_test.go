package cart

import (
	"testing"

	"storefront/pkg/localstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	cloud   = Product{ID: 1, Name: "Servicio de nube", Price: 300000, InStock: true}
	support = Product{ID: 2, Name: "Soporte técnico", Price: 80000, InStock: true}
)

func newCart(t *testing.T) (*Cart, *localstore.MemoryStore) {
	t.Helper()

	store := localstore.NewMemoryStore()
	c, err := New(store)
	require.NoError(t, err)

	return c, store
}

func TestCart_Add(t *testing.T) {
	t.Run("merges by id", func(t *testing.T) {
		c, _ := newCart(t)

		require.NoError(t, c.Add(cloud, 1))
		require.NoError(t, c.Add(support, 2))
		require.NoError(t, c.Add(cloud, 2))

		items := c.Items()
		require.Len(t, items, 2)
		assert.Equal(t, int64(1), items[0].ID)
		assert.Equal(t, 3, items[0].Cantidad)
		assert.Equal(t, 5, c.Count())
		assert.InDelta(t, 3*300000+2*80000, c.Total(), 0.001)
	})

	t.Run("rejects out of stock", func(t *testing.T) {
		c, store := newCart(t)

		err := c.Add(Product{ID: 9, InStock: false}, 1)
		assert.ErrorIs(t, err, ErrUnavailable)
		assert.Empty(t, c.Items())

		_, ok, _ := store.Get(StorageKey)
		assert.False(t, ok)
	})

	t.Run("rejects quantity below one", func(t *testing.T) {
		c, _ := newCart(t)

		assert.ErrorIs(t, c.Add(cloud, 0), ErrInvalidQuantity)
		assert.False(t, c.Contains(cloud.ID))
	})
}

func TestCart_SetQuantity(t *testing.T) {
	c, _ := newCart(t)
	require.NoError(t, c.Add(cloud, 1))
	require.NoError(t, c.Add(support, 1))

	require.NoError(t, c.SetQuantity(cloud.ID, 4))
	assert.Equal(t, 4, c.Quantity(cloud.ID))

	require.NoError(t, c.SetQuantity(42, 3))
	assert.Len(t, c.Items(), 2)

	require.NoError(t, c.SetQuantity(support.ID, 0))
	assert.False(t, c.Contains(support.ID))
	assert.Equal(t, 0, c.Quantity(support.ID))
}

func TestCart_RemoveAndClear(t *testing.T) {
	c, _ := newCart(t)
	require.NoError(t, c.Add(cloud, 1))
	require.NoError(t, c.Add(support, 1))

	require.NoError(t, c.Remove(cloud.ID))
	assert.Equal(t, []Item{{ID: 2, Nombre: "Soporte técnico", Precio: 80000, Cantidad: 1}}, c.Items())

	require.NoError(t, c.Clear())
	assert.Empty(t, c.Items())
	assert.Zero(t, c.Total())
}

func TestCart_PersistAndReload(t *testing.T) {
	c, store := newCart(t)
	require.NoError(t, c.Add(cloud, 2))
	require.NoError(t, c.Add(support, 1))

	reloaded, err := New(store)
	require.NoError(t, err)
	assert.Equal(t, c.Items(), reloaded.Items())

	require.NoError(t, reloaded.Clear())
	raw, ok, err := store.Get(StorageKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `[]`, raw)
}

func TestCart_CorruptSnapshotDiscarded(t *testing.T) {
	store := localstore.NewMemoryStore()
	require.NoError(t, store.Set(StorageKey, "{broken"))

	c, err := New(store)
	require.NoError(t, err)
	assert.Empty(t, c.Items())

	require.NoError(t, c.Add(cloud, 1))
	raw, _, _ := store.Get(StorageKey)
	assert.JSONEq(t, `[{"id":1,"nombre":"Servicio de nube","precio":300000,"cantidad":1}]`, raw)
}

func TestCart_Subscribe(t *testing.T) {
	c, _ := newCart(t)

	var seen [][]Item
	unsubscribe := c.Subscribe(func(items []Item) {
		seen = append(seen, items)
	})

	require.NoError(t, c.Add(cloud, 1))
	require.NoError(t, c.SetQuantity(cloud.ID, 3))
	require.NoError(t, c.Remove(99))

	require.Len(t, seen, 2)
	assert.Equal(t, 1, seen[0][0].Cantidad)
	assert.Equal(t, 3, seen[1][0].Cantidad)

	unsubscribe()
	require.NoError(t, c.Clear())
	assert.Len(t, seen, 2)
}
