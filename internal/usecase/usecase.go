package usecase

import "context"

type CatalogUC interface {
	ListProducts(ctx context.Context, category string) ([]ProductInfo, error)
	Categories(ctx context.Context) ([]string, error)
	RegisterNewProduct(ctx context.Context, req *RegisterProductReq) (*ProductInfo, error)
}

type CartUC interface {
	GetCart(ctx context.Context, sessionID string) (*CartView, error)
	AddItem(ctx context.Context, sessionID string, productID string) (*CartView, error)
	RemoveItem(ctx context.Context, sessionID string, productID string) (*CartView, error)
	SetQuantity(ctx context.Context, sessionID string, productID string, quantity int64) (*CartView, error)
	Clear(ctx context.Context, sessionID string) (*CartView, error)
}

type CheckoutUC interface {
	Open(ctx context.Context, sessionID string) (*CheckoutView, error)
	UpdateField(ctx context.Context, sessionID string, name string, value string) (*CheckoutView, error)
	Submit(ctx context.Context, sessionID string) (*CheckoutView, error)
	Retry(ctx context.Context, sessionID string) (*CheckoutView, error)
	Cancel(ctx context.Context, sessionID string) error
	Status(ctx context.Context, sessionID string) *CheckoutView
}
