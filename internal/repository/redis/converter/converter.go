package converter

import "github.com/techstore/storefront-backend/internal/domain"

// ProductConverter преобразует товары между domain и моделью Redis.
type ProductConverter interface {
	ToRedisModel(entity *domain.Product) *ProductRedisModel
	ToEntity(model *ProductRedisModel) *domain.Product
	ToArrRedisModel(entities []domain.Product) []ProductRedisModel
}

type ProductConverterImpl struct{}

func NewProductConverterImpl() *ProductConverterImpl {
	return &ProductConverterImpl{}
}

func (c *ProductConverterImpl) ToRedisModel(entity *domain.Product) *ProductRedisModel {
	return &ProductRedisModel{
		ID:          entity.ID,
		Name:        entity.Name,
		PriceCents:  entity.PriceCents,
		Description: entity.Description,
		ImageKey:    entity.ImageKey,
		Category:    entity.Category,
		InStock:     entity.InStock,
	}
}

func (c *ProductConverterImpl) ToEntity(model *ProductRedisModel) *domain.Product {
	return &domain.Product{
		ID:          model.ID,
		Name:        model.Name,
		PriceCents:  model.PriceCents,
		Description: model.Description,
		ImageKey:    model.ImageKey,
		Category:    model.Category,
		InStock:     model.InStock,
	}
}

func (c *ProductConverterImpl) ToArrRedisModel(entities []domain.Product) []ProductRedisModel {
	models := make([]ProductRedisModel, 0, len(entities))
	for i := range entities {
		models = append(models, *c.ToRedisModel(&entities[i]))
	}

	return models
}
