package http

import "github.com/techstore/storefront-backend/internal/usecase"

// Ответные модели HTTP API. Usecase-слой отдаёт DTO без сериализационных
// деталей, поэтому JSON-представление живёт на границе доставки.

type ProductResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PriceCents  int64  `json:"price_cents"`
	Description string `json:"description"`
	Category    string `json:"category"`
	InStock     bool   `json:"in_stock"`
	ImageURL    string `json:"image_url,omitempty"`
}

type CartLineResponse struct {
	ProductID  string `json:"product_id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	Quantity   int64  `json:"quantity"`
}

type PricingResponse struct {
	Subtotal string `json:"subtotal"`
	Tax      string `json:"tax"`
	Shipping string `json:"shipping"`
	Total    string `json:"total"`
}

type CartResponse struct {
	Items     []CartLineResponse `json:"items"`
	ItemCount int64              `json:"item_count"`
	Pricing   PricingResponse    `json:"pricing"`
}

type CheckoutResponse struct {
	State         string             `json:"state"`
	Items         []CartLineResponse `json:"items,omitempty"`
	Pricing       *PricingResponse   `json:"pricing,omitempty"`
	FieldErrors   map[string]string  `json:"field_errors,omitempty"`
	FailureReason string             `json:"failure_reason,omitempty"`
	OrderID       string             `json:"order_id,omitempty"`
}

type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

type AddItemRequest struct {
	ProductID string `json:"product_id"`
}

type SetQuantityRequest struct {
	Quantity int64 `json:"quantity"`
}

type UpdateFieldRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

func NewProductResponse(info *usecase.ProductInfo) ProductResponse {
	return ProductResponse{
		ID:          info.ID,
		Name:        info.Name,
		PriceCents:  info.PriceCents,
		Description: info.Description,
		Category:    info.Category,
		InStock:     info.InStock,
		ImageURL:    info.ImageURL,
	}
}

func NewArrProductResponse(infos []usecase.ProductInfo) []ProductResponse {
	result := make([]ProductResponse, 0, len(infos))
	for i := range infos {
		result = append(result, NewProductResponse(&infos[i]))
	}

	return result
}

func NewCartLineResponses(lines []usecase.CartLineInfo) []CartLineResponse {
	result := make([]CartLineResponse, 0, len(lines))
	for _, line := range lines {
		result = append(result, CartLineResponse{
			ProductID:  line.ProductID,
			Name:       line.Name,
			PriceCents: line.PriceCents,
			Quantity:   line.Quantity,
		})
	}

	return result
}

func NewPricingResponse(p usecase.PricingView) PricingResponse {
	return PricingResponse{
		Subtotal: p.Subtotal,
		Tax:      p.Tax,
		Shipping: p.Shipping,
		Total:    p.Total,
	}
}

func NewCartResponse(view *usecase.CartView) *CartResponse {
	return &CartResponse{
		Items:     NewCartLineResponses(view.Items),
		ItemCount: view.ItemCount,
		Pricing:   NewPricingResponse(view.Pricing),
	}
}

func NewCheckoutResponse(view *usecase.CheckoutView) *CheckoutResponse {
	resp := &CheckoutResponse{
		State:         view.State,
		Items:         NewCartLineResponses(view.Items),
		FieldErrors:   view.FieldErrors,
		FailureReason: view.FailureReason,
		OrderID:       view.OrderID,
	}

	if len(view.Items) > 0 {
		pricing := NewPricingResponse(view.Pricing)
		resp.Pricing = &pricing
	}

	return resp
}
