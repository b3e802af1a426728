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

const (
	eventuallyTimeout = 2 * time.Second
	eventuallyTick    = 10 * time.Millisecond
)

type checkoutFixture struct {
	uc       *CheckoutUseCase
	cartRepo *fakeCartRepo
	gateway  *fakeGateway
	producer *fakeProducer
}

func newCheckoutFixture(paymentTimeout time.Duration) *checkoutFixture {
	cartRepo := newFakeCartRepo()
	gateway := newFakeGateway()
	producer := &fakeProducer{}

	return &checkoutFixture{
		uc:       NewCheckoutUC(cartRepo, gateway, producer, logger.NewSlogLogger(), paymentTimeout),
		cartRepo: cartRepo,
		gateway:  gateway,
		producer: producer,
	}
}

func (f *checkoutFixture) fillCart(ctx context.Context) {
	f.cartRepo.Add(ctx, testSession, domain.Product{ID: "p1", Name: "Premium Laptop", PriceCents: 129999, InStock: true})
	f.cartRepo.Add(ctx, testSession, domain.Product{ID: "p2", Name: "Wireless Headphones", PriceCents: 19999, InStock: true})
	f.cartRepo.Add(ctx, testSession, domain.Product{ID: "p2", Name: "Wireless Headphones", PriceCents: 19999, InStock: true})
}

func (f *checkoutFixture) fillForm(t *testing.T, ctx context.Context) {
	t.Helper()
	fields := map[string]string{
		domain.FieldEmail:      "jane@example.com",
		domain.FieldFirstName:  "Jane",
		domain.FieldLastName:   "Doe",
		domain.FieldAddress:    "1 Main St",
		domain.FieldCity:       "Springfield",
		domain.FieldZipCode:    "12345",
		domain.FieldCardNumber: "4242424242424242",
		domain.FieldExpiryDate: "12/27",
		domain.FieldCVV:        "123",
	}
	for name, value := range fields {
		_, err := f.uc.UpdateField(ctx, testSession, name, value)
		require.NoError(t, err)
	}
}

func (f *checkoutFixture) state(ctx context.Context) string {
	return f.uc.Status(ctx, testSession).State
}

func TestCheckoutOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("empty cart is rejected", func(t *testing.T) {
		f := newCheckoutFixture(time.Second)

		_, err := f.uc.Open(ctx, testSession)
		require.Error(t, err)
		assert.True(t, errors.Is(err, e.ErrEmptyCart))
		assert.Equal(t, domain.CheckoutIdle.String(), f.state(ctx))
	})

	t.Run("opens with a snapshot of cart and pricing", func(t *testing.T) {
		f := newCheckoutFixture(time.Second)
		f.fillCart(ctx)

		view, err := f.uc.Open(ctx, testSession)
		require.NoError(t, err)

		assert.Equal(t, domain.CheckoutFormEntry.String(), view.State)
		require.Len(t, view.Items, 2)
		assert.Equal(t, "1699.97", view.Pricing.Subtotal)
		assert.Equal(t, "1835.97", view.Pricing.Total)
	})

	t.Run("snapshot is immune to later cart mutations", func(t *testing.T) {
		f := newCheckoutFixture(time.Second)
		f.fillCart(ctx)

		_, err := f.uc.Open(ctx, testSession)
		require.NoError(t, err)

		f.cartRepo.Clear(ctx, testSession)

		view := f.uc.Status(ctx, testSession)
		require.Len(t, view.Items, 2)
		assert.Equal(t, "1699.97", view.Pricing.Subtotal)
	})

	t.Run("double open is rejected", func(t *testing.T) {
		f := newCheckoutFixture(time.Second)
		f.fillCart(ctx)

		_, err := f.uc.Open(ctx, testSession)
		require.NoError(t, err)

		_, err = f.uc.Open(ctx, testSession)
		assert.True(t, errors.Is(err, e.ErrCheckoutAlreadyOpen))
	})
}

func TestCheckoutUpdateField(t *testing.T) {
	ctx := context.Background()

	t.Run("requires an open session", func(t *testing.T) {
		f := newCheckoutFixture(time.Second)

		_, err := f.uc.UpdateField(ctx, testSession, domain.FieldEmail, "a@b.co")
		assert.True(t, errors.Is(err, e.ErrCheckoutNotOpen))
	})

	t.Run("unknown field is rejected", func(t *testing.T) {
		f := newCheckoutFixture(time.Second)
		f.fillCart(ctx)
		_, err := f.uc.Open(ctx, testSession)
		require.NoError(t, err)

		_, err = f.uc.UpdateField(ctx, testSession, "favoriteColor", "blue")
		assert.True(t, errors.Is(err, e.ErrStatusBadRequest))
	})
}

func TestCheckoutSubmit(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid form keeps FormEntry with field errors and no charge", func(t *testing.T) {
		f := newCheckoutFixture(time.Second)
		f.fillCart(ctx)
		_, err := f.uc.Open(ctx, testSession)
		require.NoError(t, err)

		view, err := f.uc.Submit(ctx, testSession)
		require.Error(t, err)
		assert.True(t, errors.Is(err, e.ErrFormValidation))
		require.NotNil(t, view)
		assert.Equal(t, domain.CheckoutFormEntry.String(), view.State)
		assert.Contains(t, view.FieldErrors, domain.FieldEmail)
		assert.Equal(t, 0, f.gateway.Calls())
	})

	t.Run("successful payment completes and clears the cart", func(t *testing.T) {
		f := newCheckoutFixture(time.Second)
		f.fillCart(ctx)
		_, err := f.uc.Open(ctx, testSession)
		require.NoError(t, err)
		f.fillForm(t, ctx)

		view, err := f.uc.Submit(ctx, testSession)
		require.NoError(t, err)
		assert.Equal(t, domain.CheckoutSubmitting.String(), view.State)

		f.gateway.succeed("ord-123")

		require.Eventually(t, func() bool {
			return f.state(ctx) == domain.CheckoutCompleted.String()
		}, eventuallyTimeout, eventuallyTick)

		status := f.uc.Status(ctx, testSession)
		assert.Equal(t, "ord-123", status.OrderID)
		assert.Equal(t, int64(0), f.cartRepo.ItemCount(ctx, testSession))

		require.Eventually(t, func() bool {
			return len(f.producer.Published()) == 1
		}, eventuallyTimeout, eventuallyTick)

		event := f.producer.Published()[0]
		assert.Equal(t, "ord-123", event.OrderID)
		assert.Equal(t, int64(183597), event.TotalCents)
	})

	t.Run("second submit while in flight never double-charges", func(t *testing.T) {
		f := newCheckoutFixture(time.Second)
		f.fillCart(ctx)
		_, err := f.uc.Open(ctx, testSession)
		require.NoError(t, err)
		f.fillForm(t, ctx)

		_, err = f.uc.Submit(ctx, testSession)
		require.NoError(t, err)

		_, err = f.uc.Submit(ctx, testSession)
		assert.True(t, errors.Is(err, e.ErrSubmitInFlight))

		f.gateway.succeed("ord-1")
		require.Eventually(t, func() bool {
			return f.state(ctx) == domain.CheckoutCompleted.String()
		}, eventuallyTimeout, eventuallyTick)

		assert.Equal(t, 1, f.gateway.Calls())
	})

	t.Run("declined payment fails and keeps the cart", func(t *testing.T) {
		f := newCheckoutFixture(time.Second)
		f.fillCart(ctx)
		_, err := f.uc.Open(ctx, testSession)
		require.NoError(t, err)
		f.fillForm(t, ctx)

		_, err = f.uc.Submit(ctx, testSession)
		require.NoError(t, err)

		f.gateway.decline("insufficient funds")

		require.Eventually(t, func() bool {
			return f.state(ctx) == domain.CheckoutFailed.String()
		}, eventuallyTimeout, eventuallyTick)

		status := f.uc.Status(ctx, testSession)
		assert.Contains(t, status.FailureReason, "insufficient funds")
		assert.Equal(t, int64(3), f.cartRepo.ItemCount(ctx, testSession))
		assert.Empty(t, f.producer.Published())
	})

	t.Run("gateway timeout fails the attempt", func(t *testing.T) {
		f := newCheckoutFixture(20 * time.Millisecond)
		f.fillCart(ctx)
		_, err := f.uc.Open(ctx, testSession)
		require.NoError(t, err)
		f.fillForm(t, ctx)

		_, err = f.uc.Submit(ctx, testSession)
		require.NoError(t, err)

		// Результат в шлюз не кладётся — Charge завершится по таймауту контекста
		require.Eventually(t, func() bool {
			return f.state(ctx) == domain.CheckoutFailed.String()
		}, eventuallyTimeout, eventuallyTick)

		status := f.uc.Status(ctx, testSession)
		assert.Equal(t, e.ErrPaymentTimeout.Error(), status.FailureReason)
	})
}

func TestCheckoutRetry(t *testing.T) {
	ctx := context.Background()

	t.Run("failed session returns to form with values intact", func(t *testing.T) {
		f := newCheckoutFixture(time.Second)
		f.fillCart(ctx)
		_, err := f.uc.Open(ctx, testSession)
		require.NoError(t, err)
		f.fillForm(t, ctx)

		_, err = f.uc.Submit(ctx, testSession)
		require.NoError(t, err)
		f.gateway.decline("card expired")

		require.Eventually(t, func() bool {
			return f.state(ctx) == domain.CheckoutFailed.String()
		}, eventuallyTimeout, eventuallyTick)

		view, err := f.uc.Retry(ctx, testSession)
		require.NoError(t, err)
		assert.Equal(t, domain.CheckoutFormEntry.String(), view.State)
		assert.Empty(t, view.FailureReason)

		// Форма сохранилась — повторный Submit сразу уходит в Submitting
		view, err = f.uc.Submit(ctx, testSession)
		require.NoError(t, err)
		assert.Equal(t, domain.CheckoutSubmitting.String(), view.State)

		f.gateway.succeed("ord-2")
		require.Eventually(t, func() bool {
			return f.state(ctx) == domain.CheckoutCompleted.String()
		}, eventuallyTimeout, eventuallyTick)

		assert.Equal(t, 2, f.gateway.Calls())
	})

	t.Run("retry outside Failed is rejected", func(t *testing.T) {
		f := newCheckoutFixture(time.Second)
		f.fillCart(ctx)
		_, err := f.uc.Open(ctx, testSession)
		require.NoError(t, err)

		_, err = f.uc.Retry(ctx, testSession)
		assert.True(t, errors.Is(err, e.ErrInvalidCheckoutState))
	})
}

func TestCheckoutCancel(t *testing.T) {
	ctx := context.Background()

	t.Run("cancel without a session", func(t *testing.T) {
		f := newCheckoutFixture(time.Second)

		err := f.uc.Cancel(ctx, testSession)
		assert.True(t, errors.Is(err, e.ErrCheckoutNotOpen))
	})

	t.Run("cancel during Submitting discards the late result", func(t *testing.T) {
		f := newCheckoutFixture(time.Second)
		f.fillCart(ctx)
		_, err := f.uc.Open(ctx, testSession)
		require.NoError(t, err)
		f.fillForm(t, ctx)

		_, err = f.uc.Submit(ctx, testSession)
		require.NoError(t, err)

		require.NoError(t, f.uc.Cancel(ctx, testSession))
		assert.Equal(t, domain.CheckoutIdle.String(), f.state(ctx))

		// Поздний успех платежа не воскрешает сессию и не трогает корзину
		f.gateway.succeed("ord-late")

		assert.Never(t, func() bool {
			return f.state(ctx) != domain.CheckoutIdle.String() ||
				f.cartRepo.ItemCount(ctx, testSession) == 0 ||
				len(f.producer.Published()) > 0
		}, 100*time.Millisecond, eventuallyTick)
	})

	t.Run("cancel allows reopening with a fresh session", func(t *testing.T) {
		f := newCheckoutFixture(time.Second)
		f.fillCart(ctx)
		_, err := f.uc.Open(ctx, testSession)
		require.NoError(t, err)
		f.fillForm(t, ctx)

		require.NoError(t, f.uc.Cancel(ctx, testSession))

		view, err := f.uc.Open(ctx, testSession)
		require.NoError(t, err)
		assert.Equal(t, domain.CheckoutFormEntry.String(), view.State)
		// Поля формы предыдущей сессии не переживают отмену
		invalid, err := f.uc.Submit(ctx, testSession)
		require.Error(t, err)
		assert.Contains(t, invalid.FieldErrors, domain.FieldEmail)
	})
}

func TestCheckoutStatus(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(time.Second)

	view := f.uc.Status(ctx, testSession)
	assert.Equal(t, domain.CheckoutIdle.String(), view.State)
	assert.Empty(t, view.Items)
}

func TestCheckoutStaleCompletionAfterRetry(t *testing.T) {
	// Платёж первой попытки завершается после того, как покупатель уже
	// перезапустил оформление — устаревший результат отбрасывается.
	ctx := context.Background()
	f := newCheckoutFixture(time.Second)
	f.fillCart(ctx)

	_, err := f.uc.Open(ctx, testSession)
	require.NoError(t, err)
	f.fillForm(t, ctx)

	_, err = f.uc.Submit(ctx, testSession)
	require.NoError(t, err)

	f.gateway.decline("temporary failure")
	require.Eventually(t, func() bool {
		return f.state(ctx) == domain.CheckoutFailed.String()
	}, eventuallyTimeout, eventuallyTick)

	_, err = f.uc.Retry(ctx, testSession)
	require.NoError(t, err)

	_, err = f.uc.Submit(ctx, testSession)
	require.NoError(t, err)

	f.gateway.succeed("ord-second")
	require.Eventually(t, func() bool {
		return f.state(ctx) == domain.CheckoutCompleted.String()
	}, eventuallyTimeout, eventuallyTick)

	status := f.uc.Status(ctx, testSession)
	assert.Equal(t, "ord-second", status.OrderID)
	assert.Len(t, f.producer.Published(), 1)
}
