package domain

import (
	"regexp"
	"strings"
	"time"
)

// CheckoutState — состояние жизненного цикла оформления заказа.
type CheckoutState string

const (
	CheckoutIdle       CheckoutState = "IDLE"
	CheckoutFormEntry  CheckoutState = "FORM_ENTRY"
	CheckoutSubmitting CheckoutState = "SUBMITTING"
	CheckoutCompleted  CheckoutState = "COMPLETED"
	CheckoutFailed     CheckoutState = "FAILED"
)

// IsTerminal сообщает, завершено ли оформление окончательно.
func (s CheckoutState) IsTerminal() bool {
	return s == CheckoutCompleted
}

func (s CheckoutState) String() string {
	return string(s)
}

// Поля формы оформления заказа.
const (
	FieldEmail      = "email"
	FieldFirstName  = "firstName"
	FieldLastName   = "lastName"
	FieldAddress    = "address"
	FieldCity       = "city"
	FieldZipCode    = "zipCode"
	FieldCardNumber = "cardNumber"
	FieldExpiryDate = "expiryDate"
	FieldCVV        = "cvv"
)

var (
	emailRe  = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	expiryRe = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cvvRe    = regexp.MustCompile(`^\d{3,4}$`)
	digitsRe = regexp.MustCompile(`^\d+$`)
)

// CheckoutForm хранит значения полей формы покупателя.
type CheckoutForm struct {
	values map[string]string
}

func NewCheckoutForm() *CheckoutForm {
	return &CheckoutForm{values: make(map[string]string)}
}

// Set сохраняет значение поля. Неизвестное имя поля возвращает false.
func (f *CheckoutForm) Set(name, value string) bool {
	switch name {
	case FieldEmail, FieldFirstName, FieldLastName, FieldAddress,
		FieldCity, FieldZipCode, FieldCardNumber, FieldExpiryDate, FieldCVV:
		f.values[name] = value
		return true
	default:
		return false
	}
}

// Get возвращает текущее значение поля.
func (f *CheckoutForm) Get(name string) string {
	return f.values[name]
}

// Validate проверяет обязательность и правдоподобность всех полей.
// Возвращает ошибки по полям; пустая карта означает валидную форму.
func (f *CheckoutForm) Validate() map[string]string {
	fieldErrors := make(map[string]string)

	email := strings.TrimSpace(f.values[FieldEmail])
	if email == "" {
		fieldErrors[FieldEmail] = "email is required"
	} else if !emailRe.MatchString(email) {
		fieldErrors[FieldEmail] = "email is malformed"
	}

	for _, field := range []string{FieldFirstName, FieldLastName, FieldAddress, FieldCity, FieldZipCode} {
		if strings.TrimSpace(f.values[field]) == "" {
			fieldErrors[field] = field + " is required"
		}
	}

	card := strings.NewReplacer(" ", "", "-", "").Replace(f.values[FieldCardNumber])
	if card == "" {
		fieldErrors[FieldCardNumber] = "card number is required"
	} else if !digitsRe.MatchString(card) || len(card) < 13 || len(card) > 19 {
		fieldErrors[FieldCardNumber] = "card number is malformed"
	}

	expiry := strings.TrimSpace(f.values[FieldExpiryDate])
	if expiry == "" {
		fieldErrors[FieldExpiryDate] = "expiry date is required"
	} else if !expiryRe.MatchString(expiry) {
		fieldErrors[FieldExpiryDate] = "expiry date must be MM/YY"
	}

	cvv := strings.TrimSpace(f.values[FieldCVV])
	if cvv == "" {
		fieldErrors[FieldCVV] = "cvv is required"
	} else if !cvvRe.MatchString(cvv) {
		fieldErrors[FieldCVV] = "cvv is malformed"
	}

	return fieldErrors
}

// CheckoutSession — сессия одного оформления заказа.
// Снимок корзины и суммы фиксируются в момент открытия и далее не меняются.
type CheckoutSession struct {
	SessionID string
	Items     []LineItem
	Pricing   PricingBreakdown
	Form      *CheckoutForm
	State     CheckoutState

	// Attempt растет при каждом Submit; завершение платежа с устаревшим
	// номером попытки игнорируется (защита от stale completion).
	Attempt int64

	FailureReason string
	FieldErrors   map[string]string
	OrderID       string
	OpenedAt      time.Time
}

func NewCheckoutSession(sessionID string, items []LineItem, pricing PricingBreakdown) *CheckoutSession {
	return &CheckoutSession{
		SessionID: sessionID,
		Items:     items,
		Pricing:   pricing,
		Form:      NewCheckoutForm(),
		State:     CheckoutFormEntry,
		OpenedAt:  time.Now(),
	}
}
