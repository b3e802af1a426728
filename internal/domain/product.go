package domain

import "time"

// Product описывает товар витрины.
// Цена хранится в центах; ImageKey — непрозрачная ссылка на объект в S3.
type Product struct {
	ID          string
	Name        string
	PriceCents  int64
	ImageKey    string
	Description string
	Category    string
	InStock     bool
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

func NewProduct(id string, name string, priceCents int64, imageKey string, description string, category string, inStock bool) *Product {
	return &Product{
		ID:          id,
		Name:        name,
		PriceCents:  priceCents,
		ImageKey:    imageKey,
		Description: description,
		Category:    category,
		InStock:     inStock,
	}
}

// Category описывает категорию товара
type Category struct {
	ID        int64
	Name      string
	CreatedAt time.Time
	UpdatedAt *time.Time
}

func NewCategory(name string) *Category {
	return &Category{
		Name: name,
	}
}
