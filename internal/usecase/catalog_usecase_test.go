package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techstore/storefront-backend/internal/domain"
	"github.com/techstore/storefront-backend/pkg/logger"
)

func newCatalogFixture() *CatalogUseCase {
	productRepo := &fakeProductRepo{products: []domain.Product{
		{ID: "p1", Name: "Premium Laptop", PriceCents: 129999, Category: "electronics", InStock: true, ImageKey: "laptop/main.jpeg"},
		{ID: "p4", Name: "Coffee Maker", PriceCents: 8999, Category: "home", InStock: true},
		{ID: "p6", Name: "Desk Lamp", PriceCents: 7999, Category: "home", InStock: false},
	}}

	return NewCatalogUC(productRepo, nil, newFakeCacheRepo(), &fakeImageRepo{}, nil, logger.NewSlogLogger())
}

func TestCatalogListProducts(t *testing.T) {
	ctx := context.Background()
	uc := newCatalogFixture()

	t.Run("category all returns everything", func(t *testing.T) {
		products, err := uc.ListProducts(ctx, CategoryAll)
		require.NoError(t, err)
		assert.Len(t, products, 3)
	})

	t.Run("filter is an exact category match", func(t *testing.T) {
		products, err := uc.ListProducts(ctx, "home")
		require.NoError(t, err)

		require.Len(t, products, 2)
		for _, p := range products {
			assert.Equal(t, "home", p.Category)
		}
	})

	t.Run("unknown category yields empty list", func(t *testing.T) {
		products, err := uc.ListProducts(ctx, "garden")
		require.NoError(t, err)
		assert.Empty(t, products)
	})

	t.Run("out of stock products stay visible in the catalog", func(t *testing.T) {
		products, err := uc.ListProducts(ctx, CategoryAll)
		require.NoError(t, err)

		var lamp *ProductInfo
		for i := range products {
			if products[i].ID == "p6" {
				lamp = &products[i]
			}
		}
		require.NotNil(t, lamp)
		assert.False(t, lamp.InStock)
	})

	t.Run("image keys are presigned, missing keys stay empty", func(t *testing.T) {
		products, err := uc.ListProducts(ctx, CategoryAll)
		require.NoError(t, err)

		byID := make(map[string]ProductInfo)
		for _, p := range products {
			byID[p.ID] = p
		}

		assert.Equal(t, "https://storage.test/laptop/main.jpeg", byID["p1"].ImageURL)
		assert.Empty(t, byID["p4"].ImageURL)
	})
}

func TestCatalogCategories(t *testing.T) {
	ctx := context.Background()
	uc := newCatalogFixture()

	categories, err := uc.Categories(ctx)
	require.NoError(t, err)

	require.NotEmpty(t, categories)
	assert.Equal(t, CategoryAll, categories[0])
	assert.Contains(t, categories, "electronics")
	assert.Contains(t, categories, "home")
}
