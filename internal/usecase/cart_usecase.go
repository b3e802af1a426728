package usecase

import (
	"context"
	"time"

	"github.com/techstore/storefront-backend/internal/domain"
	"github.com/techstore/storefront-backend/pkg/e"
	"github.com/techstore/storefront-backend/pkg/logger"
)

// CartUseCase реализует бизнес-логику корзины.
// Корзиной владеет CartRepository; здесь проверяются правила
// (наличие товара, запрет добавления out-of-stock).
type CartUseCase struct {
	cartRepo    CartRepository
	productRepo ProductRepository
	cacheRepo   CacheRepository
	logger      logger.Logger
}

func NewCartUC(
	cartRepo CartRepository,
	productRepo ProductRepository,
	cacheRepo CacheRepository,
	logger logger.Logger,
) *CartUseCase {
	return &CartUseCase{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		cacheRepo:   cacheRepo,
		logger:      logger,
	}
}

// GetCart возвращает текущее состояние корзины с пересчитанными суммами.
func (c *CartUseCase) GetCart(ctx context.Context, sessionID string) (*CartView, error) {
	return NewCartView(c.cartRepo.Items(ctx, sessionID)), nil
}

// AddItem добавляет товар в корзину: существующая позиция увеличивается на 1.
// Товар не в наличии в корзину не попадает независимо от состояния UI.
func (c *CartUseCase) AddItem(ctx context.Context, sessionID string, productID string) (*CartView, error) {
	const op = "CartUseCase.AddItem"

	product, err := c.resolveProduct(ctx, productID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if !product.InStock {
		return nil, e.Wrap(op, e.ErrOutOfStock)
	}

	c.cartRepo.Add(ctx, sessionID, *product)

	return NewCartView(c.cartRepo.Items(ctx, sessionID)), nil
}

// RemoveItem удаляет позицию. Отсутствующая позиция — no-op.
func (c *CartUseCase) RemoveItem(ctx context.Context, sessionID string, productID string) (*CartView, error) {
	c.cartRepo.Remove(ctx, sessionID, productID)
	return NewCartView(c.cartRepo.Items(ctx, sessionID)), nil
}

// SetQuantity устанавливает количество существующей позиции.
// quantity <= 0 эквивалентно удалению; на несуществующей позиции — no-op.
func (c *CartUseCase) SetQuantity(ctx context.Context, sessionID string, productID string, quantity int64) (*CartView, error) {
	c.cartRepo.SetQuantity(ctx, sessionID, productID, quantity)
	return NewCartView(c.cartRepo.Items(ctx, sessionID)), nil
}

// Clear очищает корзину (покупатель отказался от покупки).
func (c *CartUseCase) Clear(ctx context.Context, sessionID string) (*CartView, error) {
	c.cartRepo.Clear(ctx, sessionID)
	return NewCartView(c.cartRepo.Items(ctx, sessionID)), nil
}

// resolveProduct ищет товар сначала в кэше, затем в БД с фоновым прогревом кэша.
func (c *CartUseCase) resolveProduct(ctx context.Context, productID string) (*domain.Product, error) {
	cached, err := c.cacheRepo.GetProducts(ctx, []string{productID})
	if err == nil {
		if product, ok := cached[productID]; ok {
			return &product, nil
		}
	}

	products, err := c.productRepo.GetByIDs(ctx, []string{productID})
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, e.ErrProductNotFound
	}

	product := products[0]

	// Фоновое добавление товара в кэш
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()

		if err := c.cacheRepo.SetProducts(bgCtx, []domain.Product{product}); err != nil {
			c.logger.Warnf("Failed to cache product in background: %v", err)
		}
	}()

	return &product, nil
}
