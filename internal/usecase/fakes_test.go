package usecase

import (
	"context"
	"sync"

	"github.com/techstore/storefront-backend/internal/domain"
	"github.com/techstore/storefront-backend/pkg/e"
)

// Ручные фейки зависимостей usecase-слоя. Платёжный шлюз управляется
// каналами, чтобы тесты детерминированно контролировали момент
// завершения асинхронного платежа.

type fakeCartRepo struct {
	mu    sync.Mutex
	carts map[string]*domain.Cart
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{carts: make(map[string]*domain.Cart)}
}

func (f *fakeCartRepo) cart(sessionID string) *domain.Cart {
	if c, ok := f.carts[sessionID]; ok {
		return c
	}
	c := domain.NewCart()
	f.carts[sessionID] = c
	return c
}

func (f *fakeCartRepo) Add(_ context.Context, sessionID string, product domain.Product) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cart(sessionID).Add(product)
}

func (f *fakeCartRepo) Remove(_ context.Context, sessionID string, productID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cart(sessionID).Remove(productID)
}

func (f *fakeCartRepo) SetQuantity(_ context.Context, sessionID string, productID string, quantity int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cart(sessionID).SetQuantity(productID, quantity)
}

func (f *fakeCartRepo) Items(_ context.Context, sessionID string) []domain.LineItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cart(sessionID).Items()
}

func (f *fakeCartRepo) ItemCount(_ context.Context, sessionID string) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cart(sessionID).ItemCount()
}

func (f *fakeCartRepo) Clear(_ context.Context, sessionID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cart(sessionID).Clear()
}

type fakeProductRepo struct {
	products []domain.Product
	listErr  error
}

func (f *fakeProductRepo) Upsert(_ context.Context, product *domain.Product, _ int64) (*domain.Product, error) {
	return product, nil
}

func (f *fakeProductRepo) List(_ context.Context) ([]domain.Product, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.products, nil
}

func (f *fakeProductRepo) GetByIDs(_ context.Context, ids []string) ([]domain.Product, error) {
	var result []domain.Product
	for _, id := range ids {
		for _, p := range f.products {
			if p.ID == id {
				result = append(result, p)
			}
		}
	}
	return result, nil
}

func (f *fakeProductRepo) Categories(_ context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var result []string
	for _, p := range f.products {
		if !seen[p.Category] {
			seen[p.Category] = true
			result = append(result, p.Category)
		}
	}
	return result, nil
}

type fakeCacheRepo struct {
	mu       sync.Mutex
	products map[string]domain.Product
}

func newFakeCacheRepo() *fakeCacheRepo {
	return &fakeCacheRepo{products: make(map[string]domain.Product)}
}

func (f *fakeCacheRepo) GetProducts(_ context.Context, ids []string) (map[string]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	result := make(map[string]domain.Product)
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			result[id] = p
		}
	}
	return result, nil
}

func (f *fakeCacheRepo) SetProducts(_ context.Context, products []domain.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, p := range products {
		f.products[p.ID] = p
	}
	return nil
}

func (f *fakeCacheRepo) DeleteProducts(_ context.Context, ids []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, id := range ids {
		delete(f.products, id)
	}
	return nil
}

type fakeImageRepo struct{}

func (f *fakeImageRepo) Upload(_ context.Context, image *domain.Image) (string, error) {
	return image.ObjectKey, nil
}

func (f *fakeImageRepo) Delete(_ context.Context, _ string) error {
	return nil
}

func (f *fakeImageRepo) PresignedURL(_ context.Context, key string) (string, error) {
	return "https://storage.test/" + key, nil
}

// fakeGateway держит исходящий платёж открытым, пока тест не положит
// результат в release. calls считает фактические обращения к шлюзу.
type fakeGateway struct {
	mu      sync.Mutex
	calls   int
	release chan chargeResult
}

type chargeResult struct {
	res *ChargeRes
	err error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{release: make(chan chargeResult, 8)}
}

func (f *fakeGateway) Charge(ctx context.Context, _ *ChargeReq) (*ChargeRes, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	select {
	case r := <-f.release:
		return r.res, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (f *fakeGateway) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeGateway) succeed(confirmationID string) {
	f.release <- chargeResult{res: &ChargeRes{ConfirmationID: confirmationID}}
}

func (f *fakeGateway) decline(reason string) {
	f.release <- chargeResult{err: e.Wrap(reason, e.ErrPaymentDeclined)}
}

type fakeProducer struct {
	mu        sync.Mutex
	published []OrderCompletedReq
}

func (f *fakeProducer) PublishOrderCompleted(_ context.Context, req *OrderCompletedReq) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, *req)
	return nil
}

func (f *fakeProducer) Published() []OrderCompletedReq {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]OrderCompletedReq(nil), f.published...)
}
