package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartAdd(t *testing.T) {
	t.Run("new product becomes a line with quantity 1", func(t *testing.T) {
		cart := NewCart()
		cart.Add(Product{ID: "a"})

		items := cart.Items()
		require.Len(t, items, 1)
		assert.Equal(t, int64(1), items[0].Quantity)
	})

	t.Run("repeated add increments the existing line", func(t *testing.T) {
		cart := NewCart()
		cart.Add(Product{ID: "a"})
		cart.Add(Product{ID: "a"})

		items := cart.Items()
		require.Len(t, items, 1)
		assert.Equal(t, int64(2), items[0].Quantity)
	})

	t.Run("insertion order is preserved", func(t *testing.T) {
		cart := NewCart()
		cart.Add(Product{ID: "b"})
		cart.Add(Product{ID: "a"})
		cart.Add(Product{ID: "c"})
		cart.Add(Product{ID: "a"})

		items := cart.Items()
		require.Len(t, items, 3)
		assert.Equal(t, "b", items[0].Product.ID)
		assert.Equal(t, "a", items[1].Product.ID)
		assert.Equal(t, "c", items[2].Product.ID)
	})
}

func TestCartRemove(t *testing.T) {
	t.Run("removes the line", func(t *testing.T) {
		cart := NewCart()
		cart.Add(Product{ID: "a"})
		cart.Add(Product{ID: "b"})

		cart.Remove("a")

		items := cart.Items()
		require.Len(t, items, 1)
		assert.Equal(t, "b", items[0].Product.ID)
	})

	t.Run("absent product is a no-op", func(t *testing.T) {
		cart := NewCart()
		cart.Add(Product{ID: "a"})

		cart.Remove("missing")

		assert.Len(t, cart.Items(), 1)
	})

	t.Run("index stays consistent after middle removal", func(t *testing.T) {
		cart := NewCart()
		cart.Add(Product{ID: "a"})
		cart.Add(Product{ID: "b"})
		cart.Add(Product{ID: "c"})

		cart.Remove("b")
		cart.Add(Product{ID: "c"}) // должен нарастить существующую позицию "c"

		items := cart.Items()
		require.Len(t, items, 2)
		assert.Equal(t, "a", items[0].Product.ID)
		assert.Equal(t, "c", items[1].Product.ID)
		assert.Equal(t, int64(2), items[1].Quantity)
	})
}

func TestCartSetQuantity(t *testing.T) {
	t.Run("sets quantity of an existing line", func(t *testing.T) {
		cart := NewCart()
		cart.Add(Product{ID: "a"})

		cart.SetQuantity("a", 5)

		assert.Equal(t, int64(5), cart.Items()[0].Quantity)
	})

	t.Run("zero or negative removes the line", func(t *testing.T) {
		cart := NewCart()
		cart.Add(Product{ID: "a"})
		cart.Add(Product{ID: "b"})

		cart.SetQuantity("a", 0)
		cart.SetQuantity("b", -3)

		assert.True(t, cart.IsEmpty())
	})

	t.Run("absent product is not implicitly added", func(t *testing.T) {
		cart := NewCart()

		cart.SetQuantity("ghost", 4)

		assert.True(t, cart.IsEmpty())
	})
}

func TestCartItemCount(t *testing.T) {
	cart := NewCart()
	assert.Equal(t, int64(0), cart.ItemCount())

	cart.Add(Product{ID: "a"})
	cart.Add(Product{ID: "a"})
	cart.Add(Product{ID: "b"})

	assert.Equal(t, int64(3), cart.ItemCount())
}

func TestCartItemsSnapshot(t *testing.T) {
	cart := NewCart()
	cart.Add(Product{ID: "a"})

	snapshot := cart.Items()
	cart.Add(Product{ID: "a"})
	cart.Add(Product{ID: "b"})

	require.Len(t, snapshot, 1)
	assert.Equal(t, int64(1), snapshot[0].Quantity)
}

func TestCartClear(t *testing.T) {
	cart := NewCart()
	cart.Add(Product{ID: "a"})
	cart.Add(Product{ID: "b"})

	cart.Clear()

	assert.True(t, cart.IsEmpty())
	assert.Equal(t, int64(0), cart.ItemCount())

	// После очистки корзина пригодна к повторному использованию
	cart.Add(Product{ID: "a"})
	assert.Equal(t, int64(1), cart.ItemCount())
}
