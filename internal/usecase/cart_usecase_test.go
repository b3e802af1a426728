package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techstore/storefront-backend/internal/domain"
	"github.com/techstore/storefront-backend/pkg/e"
	"github.com/techstore/storefront-backend/pkg/logger"
)

const testSession = "11111111-1111-4111-8111-111111111111"

func newCartFixture() (*CartUseCase, *fakeCartRepo, *fakeCacheRepo) {
	cartRepo := newFakeCartRepo()
	cacheRepo := newFakeCacheRepo()
	productRepo := &fakeProductRepo{products: []domain.Product{
		{ID: "p1", Name: "Premium Laptop", PriceCents: 129999, Category: "electronics", InStock: true},
		{ID: "p2", Name: "Wireless Headphones", PriceCents: 19999, Category: "electronics", InStock: true},
		{ID: "p6", Name: "Desk Lamp", PriceCents: 7999, Category: "home", InStock: false},
	}}

	uc := NewCartUC(cartRepo, productRepo, cacheRepo, logger.NewSlogLogger())
	return uc, cartRepo, cacheRepo
}

func TestCartUseCaseAddItem(t *testing.T) {
	ctx := context.Background()

	t.Run("adds product and recomputes pricing", func(t *testing.T) {
		uc, _, _ := newCartFixture()

		view, err := uc.AddItem(ctx, testSession, "p1")
		require.NoError(t, err)

		require.Len(t, view.Items, 1)
		assert.Equal(t, int64(1), view.ItemCount)
		assert.Equal(t, "1299.99", view.Pricing.Subtotal)
		assert.Equal(t, "0.00", view.Pricing.Shipping)
	})

	t.Run("second add increments the line", func(t *testing.T) {
		uc, _, _ := newCartFixture()

		_, err := uc.AddItem(ctx, testSession, "p1")
		require.NoError(t, err)

		view, err := uc.AddItem(ctx, testSession, "p1")
		require.NoError(t, err)

		require.Len(t, view.Items, 1)
		assert.Equal(t, int64(2), view.Items[0].Quantity)
		assert.Equal(t, int64(2), view.ItemCount)
	})

	t.Run("out of stock product never enters the cart", func(t *testing.T) {
		uc, cartRepo, _ := newCartFixture()

		_, err := uc.AddItem(ctx, testSession, "p6")
		require.Error(t, err)
		assert.True(t, errors.Is(err, e.ErrOutOfStock))
		assert.Empty(t, cartRepo.Items(ctx, testSession))
	})

	t.Run("unknown product", func(t *testing.T) {
		uc, _, _ := newCartFixture()

		_, err := uc.AddItem(ctx, testSession, "ghost")
		require.Error(t, err)
		assert.True(t, errors.Is(err, e.ErrProductNotFound))
	})

	t.Run("resolved product is cached in background", func(t *testing.T) {
		uc, _, cacheRepo := newCartFixture()

		_, err := uc.AddItem(ctx, testSession, "p1")
		require.NoError(t, err)

		require.Eventually(t, func() bool {
			cached, _ := cacheRepo.GetProducts(ctx, []string{"p1"})
			_, ok := cached["p1"]
			return ok
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("stale cache entry still blocks out of stock", func(t *testing.T) {
		uc, cartRepo, cacheRepo := newCartFixture()

		// Кэш считает товар недоступным — добавление отклоняется
		require.NoError(t, cacheRepo.SetProducts(ctx, []domain.Product{
			{ID: "p1", Name: "Premium Laptop", PriceCents: 129999, InStock: false},
		}))

		_, err := uc.AddItem(ctx, testSession, "p1")
		assert.True(t, errors.Is(err, e.ErrOutOfStock))
		assert.Empty(t, cartRepo.Items(ctx, testSession))
	})
}

func TestCartUseCaseSetQuantity(t *testing.T) {
	ctx := context.Background()

	t.Run("updates quantity", func(t *testing.T) {
		uc, _, _ := newCartFixture()
		_, err := uc.AddItem(ctx, testSession, "p2")
		require.NoError(t, err)

		view, err := uc.SetQuantity(ctx, testSession, "p2", 5)
		require.NoError(t, err)

		assert.Equal(t, int64(5), view.ItemCount)
	})

	t.Run("zero quantity removes the line", func(t *testing.T) {
		uc, _, _ := newCartFixture()
		_, err := uc.AddItem(ctx, testSession, "p2")
		require.NoError(t, err)

		view, err := uc.SetQuantity(ctx, testSession, "p2", 0)
		require.NoError(t, err)

		assert.Empty(t, view.Items)
	})

	t.Run("absent line is a no-op", func(t *testing.T) {
		uc, _, _ := newCartFixture()

		view, err := uc.SetQuantity(ctx, testSession, "p2", 3)
		require.NoError(t, err)

		assert.Empty(t, view.Items)
	})
}

func TestCartUseCaseRemoveAndClear(t *testing.T) {
	ctx := context.Background()

	uc, _, _ := newCartFixture()
	_, err := uc.AddItem(ctx, testSession, "p1")
	require.NoError(t, err)
	_, err = uc.AddItem(ctx, testSession, "p2")
	require.NoError(t, err)

	view, err := uc.RemoveItem(ctx, testSession, "p1")
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "p2", view.Items[0].ProductID)

	view, err = uc.Clear(ctx, testSession)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.Equal(t, int64(0), view.ItemCount)
}

func TestCartUseCaseSessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newCartFixture()

	_, err := uc.AddItem(ctx, testSession, "p1")
	require.NoError(t, err)

	other, err := uc.GetCart(ctx, "22222222-2222-4222-8222-222222222222")
	require.NoError(t, err)
	assert.Empty(t, other.Items)
}

func TestCartUseCasePricingExample(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newCartFixture()

	_, err := uc.AddItem(ctx, testSession, "p1")
	require.NoError(t, err)
	_, err = uc.AddItem(ctx, testSession, "p2")
	require.NoError(t, err)

	view, err := uc.SetQuantity(ctx, testSession, "p2", 2)
	require.NoError(t, err)

	assert.Equal(t, "1699.97", view.Pricing.Subtotal)
	assert.Equal(t, "136.00", view.Pricing.Tax)
	assert.Equal(t, "0.00", view.Pricing.Shipping)
	assert.Equal(t, "1835.97", view.Pricing.Total)
}
