package e

import "fmt"

var (
	// Внутренние ошибки
	ErrTransactionNotFound  = fmt.Errorf("transaction not found")
	ErrInternalServerError  = fmt.Errorf("internal server error")
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect env variable")

	// 400 Bad Request
	ErrStatusBadRequest     = fmt.Errorf("bad request")
	ErrExpectedMultipart    = fmt.Errorf("expected multipart/form-data")
	ErrMissingFields        = fmt.Errorf("missing required fields")
	ErrInvalidPrice         = fmt.Errorf("invalid price")
	ErrPricePrecision       = fmt.Errorf("price must have at most 2 decimal places")
	ErrInvalidQuantity      = fmt.Errorf("invalid quantity")
	ErrFileTooLarge         = fmt.Errorf("file too large")
	ErrUnsupportedMediaType = fmt.Errorf("unsupported media type")

	// Ошибки каталога
	ErrProductNotFound = fmt.Errorf("product not found")

	// Ошибки корзины
	ErrOutOfStock  = fmt.Errorf("product is out of stock")
	ErrItemMissing = fmt.Errorf("cart line item does not exist")

	// Ошибки оформления заказа
	ErrEmptyCart            = fmt.Errorf("cart is empty")
	ErrCheckoutNotOpen      = fmt.Errorf("checkout is not open")
	ErrCheckoutAlreadyOpen  = fmt.Errorf("checkout is already open")
	ErrInvalidCheckoutState = fmt.Errorf("operation is not valid in the current checkout state")
	ErrSubmitInFlight       = fmt.Errorf("payment attempt is already in flight")
	ErrFormValidation       = fmt.Errorf("checkout form validation failed")
	ErrPaymentTimeout       = fmt.Errorf("payment request timed out")
	ErrPaymentDeclined      = fmt.Errorf("payment declined")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
