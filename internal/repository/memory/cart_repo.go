package memory

import (
	"context"
	"sync"
	"time"

	"github.com/techstore/storefront-backend/internal/domain"
	"github.com/techstore/storefront-backend/pkg/logger"
)

// cartEntry — корзина одной сессии с отметкой последней активности.
type cartEntry struct {
	cart    *domain.Cart
	touched time.Time
}

// CartRepo хранит корзины покупательских сессий в памяти процесса.
// Состояние не переживает рестарт — это граница области действия, а не недоработка.
// Один мьютекс сериализует все операции: ни одна операция не видит
// частично применённую мутацию другой.
type CartRepo struct {
	mu      sync.Mutex
	entries map[string]*cartEntry

	ttl    time.Duration
	logger logger.Logger
	stop   chan struct{}
	wg     sync.WaitGroup
}

func NewCartRepo(ttl time.Duration, logger logger.Logger) *CartRepo {
	return &CartRepo{
		entries: make(map[string]*cartEntry),
		ttl:     ttl,
		logger:  logger,
		stop:    make(chan struct{}),
	}
}

// Add добавляет товар в корзину сессии, создавая корзину при необходимости.
func (r *CartRepo) Add(_ context.Context, sessionID string, product domain.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry := r.entry(sessionID)
	entry.cart.Add(product)
	entry.touched = time.Now()
}

// Remove удаляет позицию корзины. Отсутствующая позиция или корзина — no-op.
func (r *CartRepo) Remove(_ context.Context, sessionID string, productID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[sessionID]
	if !ok {
		return
	}

	entry.cart.Remove(productID)
	entry.touched = time.Now()
}

// SetQuantity устанавливает количество существующей позиции.
func (r *CartRepo) SetQuantity(_ context.Context, sessionID string, productID string, quantity int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[sessionID]
	if !ok {
		return
	}

	entry.cart.SetQuantity(productID, quantity)
	entry.touched = time.Now()
}

// Items возвращает снимок позиций корзины на момент вызова.
func (r *CartRepo) Items(_ context.Context, sessionID string) []domain.LineItem {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[sessionID]
	if !ok {
		return []domain.LineItem{}
	}

	return entry.cart.Items()
}

// ItemCount возвращает суммарное количество по всем позициям корзины.
func (r *CartRepo) ItemCount(_ context.Context, sessionID string) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[sessionID]
	if !ok {
		return 0
	}

	return entry.cart.ItemCount()
}

// Clear удаляет корзину сессии целиком.
func (r *CartRepo) Clear(_ context.Context, sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, sessionID)
}

// StartSweeper запускает фоновую уборку корзин, неактивных дольше TTL.
func (r *CartRepo) StartSweeper(interval time.Duration) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				r.sweep()
			case <-r.stop:
				return
			}
		}
	}()
}

// Stop останавливает уборщик и дожидается его завершения.
func (r *CartRepo) Stop(ctx context.Context) error {
	close(r.stop)

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *CartRepo) sweep() {
	r.mu.Lock()
	defer r.mu.Unlock()

	deadline := time.Now().Add(-r.ttl)
	for sessionID, entry := range r.entries {
		if entry.touched.Before(deadline) {
			delete(r.entries, sessionID)
			r.logger.Debugf("swept idle cart, session: %s", sessionID)
		}
	}
}

// entry возвращает корзину сессии, создавая её при первом обращении.
// Вызывается только под мьютексом.
func (r *CartRepo) entry(sessionID string) *cartEntry {
	entry, ok := r.entries[sessionID]
	if !ok {
		entry = &cartEntry{cart: domain.NewCart()}
		r.entries[sessionID] = entry
	}

	return entry
}
