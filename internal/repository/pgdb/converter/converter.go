package converter

import (
	"github.com/techstore/storefront-backend/internal/domain"
)

// ProductConverter преобразует сущности Product между domain и моделью PostgreSQL.
type ProductConverter interface {
	ToEntity(model *ProductModel) *domain.Product
	ToArrEntity(models []ProductModel) []domain.Product
}

// CategoryConverter преобразует сущности Category между domain и моделью PostgreSQL.
type CategoryConverter interface {
	ToEntity(model *CategoryModel) *domain.Category
}

type ProductConverterImpl struct{}

func NewProductConverterImpl() *ProductConverterImpl {
	return &ProductConverterImpl{}
}

func (c *ProductConverterImpl) ToEntity(model *ProductModel) *domain.Product {
	return &domain.Product{
		ID:          model.ID,
		Name:        model.Name,
		PriceCents:  model.PriceCents,
		ImageKey:    model.ImageKey,
		Description: model.Description,
		Category:    model.CategoryName,
		InStock:     model.InStock,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

func (c *ProductConverterImpl) ToArrEntity(models []ProductModel) []domain.Product {
	entities := make([]domain.Product, 0, len(models))
	for i := range models {
		entities = append(entities, *c.ToEntity(&models[i]))
	}

	return entities
}

type CategoryConverterImpl struct{}

func NewCategoryConverterImpl() *CategoryConverterImpl {
	return &CategoryConverterImpl{}
}

func (c *CategoryConverterImpl) ToEntity(model *CategoryModel) *domain.Category {
	return &domain.Category{
		ID:        model.ID,
		Name:      model.Name,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}
