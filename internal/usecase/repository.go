package usecase

import (
	"context"

	"github.com/techstore/storefront-backend/internal/domain"
)

type ProductRepository interface {
	Upsert(ctx context.Context, product *domain.Product, categoryID int64) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]domain.Product, error)
	Categories(ctx context.Context) ([]string, error)
}

type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) (*domain.Category, error)
}

type CacheRepository interface {
	GetProducts(ctx context.Context, ids []string) (map[string]domain.Product, error)
	SetProducts(ctx context.Context, products []domain.Product) error
	DeleteProducts(ctx context.Context, ids []string) error
}

// CartRepository владеет корзинами покупательских сессий.
// Все операции атомарны относительно друг друга.
type CartRepository interface {
	Add(ctx context.Context, sessionID string, product domain.Product)
	Remove(ctx context.Context, sessionID string, productID string)
	SetQuantity(ctx context.Context, sessionID string, productID string, quantity int64)
	Items(ctx context.Context, sessionID string) []domain.LineItem
	ItemCount(ctx context.Context, sessionID string) int64
	Clear(ctx context.Context, sessionID string)
}

type ImageRepository interface {
	Upload(ctx context.Context, image *domain.Image) (string, error)
	Delete(ctx context.Context, key string) error
	PresignedURL(ctx context.Context, key string) (string, error)
}
