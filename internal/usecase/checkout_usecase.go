package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/techstore/storefront-backend/internal/domain"
	"github.com/techstore/storefront-backend/pkg/e"
	"github.com/techstore/storefront-backend/pkg/logger"
)

// CheckoutUseCase управляет жизненным циклом оформления заказа:
// Idle -> FormEntry -> Submitting -> {Completed | Failed},
// Failed -> FormEntry (повтор), отмена из FormEntry/Submitting -> Idle.
// На сессию одновременно не более одного платёжного запроса.
type CheckoutUseCase struct {
	cartRepo       CartRepository
	gateway        PaymentGateway
	producer       OrderEventProducer
	logger         logger.Logger
	paymentTimeout time.Duration

	mu       sync.Mutex
	sessions map[string]*domain.CheckoutSession
}

func NewCheckoutUC(
	cartRepo CartRepository,
	gateway PaymentGateway,
	producer OrderEventProducer,
	logger logger.Logger,
	paymentTimeout time.Duration,
) *CheckoutUseCase {
	return &CheckoutUseCase{
		cartRepo:       cartRepo,
		gateway:        gateway,
		producer:       producer,
		logger:         logger,
		paymentTimeout: paymentTimeout,
		sessions:       make(map[string]*domain.CheckoutSession),
	}
}

// Open открывает оформление: снимает неизменяемый снимок корзины и сумм.
// Валидно только из Idle; пустая корзина отклоняется до любых переходов.
func (c *CheckoutUseCase) Open(ctx context.Context, sessionID string) (*CheckoutView, error) {
	const op = "CheckoutUseCase.Open"

	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.sessions[sessionID]; ok {
		if existing.State == domain.CheckoutFormEntry || existing.State == domain.CheckoutSubmitting {
			return nil, e.Wrap(op, e.ErrCheckoutAlreadyOpen)
		}
		// Завершённая или проваленная сессия вытесняется новой
		delete(c.sessions, sessionID)
	}

	items := c.cartRepo.Items(ctx, sessionID)
	if len(items) == 0 {
		return nil, e.Wrap(op, e.ErrEmptyCart)
	}

	session := domain.NewCheckoutSession(sessionID, items, domain.Price(items))
	c.sessions[sessionID] = session

	return NewCheckoutView(session), nil
}

// UpdateField сохраняет значение одного поля формы. Валидно только в FormEntry.
func (c *CheckoutUseCase) UpdateField(ctx context.Context, sessionID string, name string, value string) (*CheckoutView, error) {
	const op = "CheckoutUseCase.UpdateField"

	c.mu.Lock()
	defer c.mu.Unlock()

	session, ok := c.sessions[sessionID]
	if !ok {
		return nil, e.Wrap(op, e.ErrCheckoutNotOpen)
	}
	if session.State != domain.CheckoutFormEntry {
		return nil, e.Wrap(op, e.ErrInvalidCheckoutState)
	}

	if !session.Form.Set(name, value) {
		return nil, e.Wrap(op, e.ErrStatusBadRequest)
	}

	return NewCheckoutView(session), nil
}

// Submit валидирует форму и запускает единственный платёжный запрос.
// Ошибки валидации оставляют сессию в FormEntry с ошибками по полям.
// Повторный Submit во время Submitting отклоняется — двойного списания не бывает.
func (c *CheckoutUseCase) Submit(ctx context.Context, sessionID string) (*CheckoutView, error) {
	const op = "CheckoutUseCase.Submit"

	c.mu.Lock()
	defer c.mu.Unlock()

	session, ok := c.sessions[sessionID]
	if !ok {
		return nil, e.Wrap(op, e.ErrCheckoutNotOpen)
	}

	switch session.State {
	case domain.CheckoutSubmitting:
		return NewCheckoutView(session), e.Wrap(op, e.ErrSubmitInFlight)
	case domain.CheckoutFormEntry:
	default:
		return nil, e.Wrap(op, e.ErrInvalidCheckoutState)
	}

	if fieldErrors := session.Form.Validate(); len(fieldErrors) > 0 {
		session.FieldErrors = fieldErrors
		return NewCheckoutView(session), e.Wrap(op, e.ErrFormValidation)
	}

	session.FieldErrors = nil
	session.State = domain.CheckoutSubmitting
	session.Attempt++

	req := c.buildChargeReq(session)
	go c.processPayment(sessionID, session.Attempt, req)

	return NewCheckoutView(session), nil
}

// Retry возвращает проваленную сессию к форме; введённые значения сохраняются.
func (c *CheckoutUseCase) Retry(ctx context.Context, sessionID string) (*CheckoutView, error) {
	const op = "CheckoutUseCase.Retry"

	c.mu.Lock()
	defer c.mu.Unlock()

	session, ok := c.sessions[sessionID]
	if !ok {
		return nil, e.Wrap(op, e.ErrCheckoutNotOpen)
	}
	if session.State != domain.CheckoutFailed {
		return nil, e.Wrap(op, e.ErrInvalidCheckoutState)
	}

	session.State = domain.CheckoutFormEntry
	session.FailureReason = ""

	return NewCheckoutView(session), nil
}

// Cancel закрывает оформление и уничтожает сессию.
// Отмена из Submitting не прерывает исходящий запрос: его поздний
// результат отбрасывается по номеру попытки и корзину не трогает.
func (c *CheckoutUseCase) Cancel(ctx context.Context, sessionID string) error {
	const op = "CheckoutUseCase.Cancel"

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.sessions[sessionID]; !ok {
		return e.Wrap(op, e.ErrCheckoutNotOpen)
	}

	delete(c.sessions, sessionID)
	return nil
}

// Status возвращает текущее состояние сессии; без открытой сессии — Idle.
func (c *CheckoutUseCase) Status(ctx context.Context, sessionID string) *CheckoutView {
	c.mu.Lock()
	defer c.mu.Unlock()

	session, ok := c.sessions[sessionID]
	if !ok {
		return NewIdleCheckoutView()
	}

	return NewCheckoutView(session)
}

// buildChargeReq собирает платёжный запрос из снимка сессии.
// Сумма округляется до цента на границе со шлюзом.
func (c *CheckoutUseCase) buildChargeReq(session *domain.CheckoutSession) *ChargeReq {
	total := session.Pricing.Total.Round(2)

	return &ChargeReq{
		AmountCents:    total.Mul(centsPerUnit).IntPart(),
		Currency:       "USD",
		CardNumber:     session.Form.Get(domain.FieldCardNumber),
		ExpiryDate:     session.Form.Get(domain.FieldExpiryDate),
		CVV:            session.Form.Get(domain.FieldCVV),
		Email:          session.Form.Get(domain.FieldEmail),
		IdempotencyKey: uuid.NewString(),
	}
}

// processPayment выполняет единственный исходящий платёжный запрос с таймаутом
// и передаёт результат в completePayment. Работает вне мьютекса.
func (c *CheckoutUseCase) processPayment(sessionID string, attempt int64, req *ChargeReq) {
	ctx, cancel := context.WithTimeout(context.Background(), c.paymentTimeout)
	defer cancel()

	res, err := c.gateway.Charge(ctx, req)
	if err != nil && errors.Is(err, context.DeadlineExceeded) {
		err = e.ErrPaymentTimeout
	}

	c.completePayment(sessionID, attempt, res, err)
}

// completePayment применяет результат платежа к сессии.
// Результат устаревшей попытки (сессия отменена, вытеснена или платёж
// перезапущен) отбрасывается и не мутирует корзину.
func (c *CheckoutUseCase) completePayment(sessionID string, attempt int64, res *ChargeRes, chargeErr error) {
	c.mu.Lock()

	session, ok := c.sessions[sessionID]
	if !ok || session.State != domain.CheckoutSubmitting || session.Attempt != attempt {
		c.mu.Unlock()
		c.logger.Debugf("discarding stale payment completion, session: %s, attempt: %d", sessionID, attempt)
		return
	}

	if chargeErr != nil {
		session.State = domain.CheckoutFailed
		session.FailureReason = chargeErr.Error()
		c.mu.Unlock()
		c.logger.Warnf("payment failed, session: %s: %v", sessionID, chargeErr)
		return
	}

	session.State = domain.CheckoutCompleted
	session.OrderID = res.ConfirmationID
	if session.OrderID == "" {
		session.OrderID = uuid.NewString()
	}

	event := &OrderCompletedReq{
		OrderID:     session.OrderID,
		SessionID:   sessionID,
		Items:       NewCartLineInfos(session.Items),
		TotalCents:  session.Pricing.Total.Round(2).Mul(centsPerUnit).IntPart(),
		CompletedAt: time.Now(),
	}

	clearCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	c.cartRepo.Clear(clearCtx, sessionID)
	cancel()

	c.mu.Unlock()

	c.logger.Infof("order completed, session: %s, order: %s", sessionID, event.OrderID)

	go func() {
		pubCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := c.producer.PublishOrderCompleted(pubCtx, event); err != nil {
			c.logger.Warnf("failed to publish order event, order: %s: %v", event.OrderID, err)
		}
	}()
}
