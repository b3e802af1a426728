package usecase

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/techstore/storefront-backend/internal/domain"
)

// centsPerUnit переводит суммы в центы на внешних границах.
var centsPerUnit = decimal.NewFromInt(100)

// CATALOG USECASE

// ProductInfo — DTO с информацией о товаре для внешнего использования.
// ImageURL — presigned-ссылка, пригодная для рендера без доступа к S3.
type ProductInfo struct {
	ID          string
	Name        string
	PriceCents  int64
	Description string
	Category    string
	InStock     bool
	ImageURL    string
}

// RegisterProductReq — запрос на регистрацию нового товара.
type RegisterProductReq struct {
	Name         string
	CategoryName string
	PriceCents   int64
	Description  string
	InStock      bool
	Image        *ProductImage
}

// ProductImage представляет изображение, загруженное через multipart/form-data.
type ProductImage struct {
	Data     []byte // байты изображения
	MimeType string // Content-Type из multipart (image/jpeg)
	Size     int64  // фактический размер в байтах
	Name     string // оригинальное имя файла (для логов)
}

// CART USECASE

// CartLineInfo — одна позиция корзины в ответе.
type CartLineInfo struct {
	ProductID  string
	Name       string
	PriceCents int64
	Quantity   int64
}

// PricingView — суммы заказа, округлённые до двух знаков для отображения.
type PricingView struct {
	Subtotal string
	Tax      string
	Shipping string
	Total    string
}

// CartView — текущее состояние корзины вместе с пересчитанными суммами.
type CartView struct {
	Items     []CartLineInfo
	ItemCount int64
	Pricing   PricingView
}

// CHECKOUT USECASE

// CheckoutView — состояние сессии оформления для внешнего использования.
type CheckoutView struct {
	State         string
	Items         []CartLineInfo
	Pricing       PricingView
	FieldErrors   map[string]string
	FailureReason string
	OrderID       string
}

// INFRASTRUCTURE

// ChargeReq — запрос на списание средств у платёжного шлюза.
// AmountCents — итоговая сумма, округлённая до цента.
type ChargeReq struct {
	AmountCents    int64
	Currency       string
	CardNumber     string
	ExpiryDate     string
	CVV            string
	Email          string
	IdempotencyKey string
}

// ChargeRes — результат успешного списания.
type ChargeRes struct {
	ConfirmationID string
}

// OrderCompletedReq — событие успешно завершённого заказа.
type OrderCompletedReq struct {
	OrderID     string
	SessionID   string
	Items       []CartLineInfo
	TotalCents  int64
	CompletedAt time.Time
}

// MAPPERS

func NewProductInfo(p *domain.Product, imageURL string) ProductInfo {
	return ProductInfo{
		ID:          p.ID,
		Name:        p.Name,
		PriceCents:  p.PriceCents,
		Description: p.Description,
		Category:    p.Category,
		InStock:     p.InStock,
		ImageURL:    imageURL,
	}
}

func NewRegisterProductReq(name string, category string, priceCents int64, description string, inStock bool, image *ProductImage) *RegisterProductReq {
	return &RegisterProductReq{
		Name:         name,
		CategoryName: category,
		PriceCents:   priceCents,
		Description:  description,
		InStock:      inStock,
		Image:        image,
	}
}

func NewProductImage(data []byte, mimeType string, size int64, name string) *ProductImage {
	return &ProductImage{
		Data:     data,
		MimeType: mimeType,
		Size:     size,
		Name:     name,
	}
}

func NewCartLineInfos(items []domain.LineItem) []CartLineInfo {
	lines := make([]CartLineInfo, 0, len(items))
	for _, item := range items {
		lines = append(lines, CartLineInfo{
			ProductID:  item.Product.ID,
			Name:       item.Product.Name,
			PriceCents: item.Product.PriceCents,
			Quantity:   item.Quantity,
		})
	}

	return lines
}

// NewPricingView округляет точные суммы до двух знаков — единственная граница округления.
func NewPricingView(b domain.PricingBreakdown) PricingView {
	return PricingView{
		Subtotal: b.Subtotal.Round(2).StringFixed(2),
		Tax:      b.Tax.Round(2).StringFixed(2),
		Shipping: b.Shipping.Round(2).StringFixed(2),
		Total:    b.Total.Round(2).StringFixed(2),
	}
}

func NewCartView(items []domain.LineItem) *CartView {
	var count int64
	for _, item := range items {
		count += item.Quantity
	}

	return &CartView{
		Items:     NewCartLineInfos(items),
		ItemCount: count,
		Pricing:   NewPricingView(domain.Price(items)),
	}
}

func NewCheckoutView(s *domain.CheckoutSession) *CheckoutView {
	return &CheckoutView{
		State:         s.State.String(),
		Items:         NewCartLineInfos(s.Items),
		Pricing:       NewPricingView(s.Pricing),
		FieldErrors:   s.FieldErrors,
		FailureReason: s.FailureReason,
		OrderID:       s.OrderID,
	}
}

func NewIdleCheckoutView() *CheckoutView {
	return &CheckoutView{State: domain.CheckoutIdle.String()}
}
