package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/jimlawless/whereami"
	"github.com/shopspring/decimal"
	"github.com/techstore/storefront-backend/internal/usecase"
	"github.com/techstore/storefront-backend/pkg/e"
)

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type ProductMetadata struct {
	Name         string
	CategoryName string
	Price        int64
	Description  string
	InStock      bool
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

func ToHTTPResponse(err error) (int, string) {
	switch {
	case errors.Is(err, e.ErrStatusBadRequest):
		return http.StatusBadRequest, e.ErrStatusBadRequest.Error()
	case errors.Is(err, e.ErrExpectedMultipart):
		return http.StatusBadRequest, e.ErrExpectedMultipart.Error()
	case errors.Is(err, e.ErrMissingFields):
		return http.StatusBadRequest, e.ErrMissingFields.Error()
	case errors.Is(err, e.ErrInvalidPrice):
		return http.StatusBadRequest, e.ErrInvalidPrice.Error()
	case errors.Is(err, e.ErrPricePrecision):
		return http.StatusBadRequest, e.ErrPricePrecision.Error()
	case errors.Is(err, e.ErrInvalidQuantity):
		return http.StatusBadRequest, e.ErrInvalidQuantity.Error()
	case errors.Is(err, e.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, e.ErrFileTooLarge.Error()
	case errors.Is(err, e.ErrUnsupportedMediaType):
		return http.StatusUnsupportedMediaType, e.ErrUnsupportedMediaType.Error()
	case errors.Is(err, e.ErrProductNotFound):
		return http.StatusNotFound, e.ErrProductNotFound.Error()
	case errors.Is(err, e.ErrItemMissing):
		return http.StatusNotFound, e.ErrItemMissing.Error()
	case errors.Is(err, e.ErrOutOfStock):
		return http.StatusConflict, e.ErrOutOfStock.Error()
	case errors.Is(err, e.ErrEmptyCart):
		return http.StatusConflict, e.ErrEmptyCart.Error()
	case errors.Is(err, e.ErrCheckoutNotOpen):
		return http.StatusConflict, e.ErrCheckoutNotOpen.Error()
	case errors.Is(err, e.ErrCheckoutAlreadyOpen):
		return http.StatusConflict, e.ErrCheckoutAlreadyOpen.Error()
	case errors.Is(err, e.ErrInvalidCheckoutState):
		return http.StatusConflict, e.ErrInvalidCheckoutState.Error()
	case errors.Is(err, e.ErrSubmitInFlight):
		return http.StatusConflict, e.ErrSubmitInFlight.Error()
	case errors.Is(err, e.ErrFormValidation):
		return http.StatusUnprocessableEntity, e.ErrFormValidation.Error()
	default:
		return http.StatusInternalServerError, e.ErrInternalServerError.Error()
	}
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(NewErrorResponse(code, msg))
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// parsePriceToCents конвертирует строку вида "599.99" или "600" в центы.
// Отклоняет отрицательные значения, более двух знаков после запятой
// и суммы сверх разумного потолка.
func parsePriceToCents(s string) (int64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, errors.New("price is empty")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, e.ErrInvalidPrice
	}

	if d.LessThan(decimal.Zero) {
		return 0, e.ErrInvalidPrice
	}

	maxPrice := decimal.NewFromInt(1_000_000).Mul(decimal.NewFromInt(100))
	if d.GreaterThan(maxPrice) {
		return 0, e.ErrInvalidPrice
	}

	if d.Exponent() < -2 {
		return 0, e.ErrPricePrecision
	}

	cents := d.Mul(decimal.NewFromInt(100)).Round(0)

	return cents.IntPart(), nil
}

func ensureMultipartForm(r *http.Request, maxMemory int64) error {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return e.Wrap(whereami.WhereAmI(), e.ErrExpectedMultipart)
	}
	return r.ParseMultipartForm(maxMemory)
}

func parseProductForm(r *http.Request) (*ProductMetadata, error) {
	name := r.FormValue("name")
	category := r.FormValue("category")
	priceStr := r.FormValue("price")
	description := r.FormValue("description")
	inStockStr := r.FormValue("in_stock")

	if name == "" || category == "" || priceStr == "" {
		return nil, e.Wrap(fmt.Sprintf("name: %s, category: %s, price: %s\n", name, category, priceStr), e.ErrMissingFields)
	}

	priceCents, err := parsePriceToCents(priceStr)
	if err != nil {
		return nil, err
	}

	// Новый товар по умолчанию доступен к покупке
	inStock := true
	if inStockStr != "" {
		inStock = inStockStr == "true" || inStockStr == "1"
	}

	return &ProductMetadata{
		Name:         name,
		CategoryName: category,
		Price:        priceCents,
		Description:  description,
		InStock:      inStock,
	}, nil
}

func parseImage(files []*multipart.FileHeader) (*usecase.ProductImage, error) {
	const maxFileSize = 15 << 20

	if len(files) == 0 {
		return nil, nil // товар без изображения допустим
	}

	fh := files[0]
	data, mimeType, err := readFile(fh, maxFileSize)
	if err != nil {
		return nil, err
	}

	if !strings.HasPrefix(mimeType, "image/") {
		return nil, e.Wrap(fh.Filename, e.ErrUnsupportedMediaType)
	}

	return usecase.NewProductImage(data, mimeType, int64(len(data)), fh.Filename), nil
}

func readFile(fh *multipart.FileHeader, maxSize int64) ([]byte, string, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, "", e.ErrInternalServerError
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, "", e.ErrInternalServerError
	}
	if int64(len(data)) > maxSize {
		return nil, "", e.Wrap(fh.Filename, e.ErrFileTooLarge)
	}

	mimeType := http.DetectContentType(data[:min(len(data), 512)])
	return data, mimeType, nil
}
