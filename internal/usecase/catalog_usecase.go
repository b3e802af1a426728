package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/techstore/storefront-backend/internal/domain"
	"github.com/techstore/storefront-backend/internal/infrastructure"
	"github.com/techstore/storefront-backend/pkg/e"
	"github.com/techstore/storefront-backend/pkg/logger"
)

// CategoryAll — синтетическая категория, возвращающая весь каталог.
const CategoryAll = "all"

// CatalogUseCase реализует бизнес-логику каталога товаров.
// Каталог неизменяем в течение покупательской сессии; запись идёт
// только через административную регистрацию товара.
type CatalogUseCase struct {
	productRepo  ProductRepository
	categoryRepo CategoryRepository
	cacheRepo    CacheRepository
	imageRepo    ImageRepository
	dbPool       transaction.Transactional
	logger       logger.Logger
}

func NewCatalogUC(
	productRepo ProductRepository,
	categoryRepo CategoryRepository,
	cacheRepo CacheRepository,
	imageRepo ImageRepository,
	dbPool transaction.Transactional,
	logger logger.Logger,
) *CatalogUseCase {
	return &CatalogUseCase{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		cacheRepo:    cacheRepo,
		imageRepo:    imageRepo,
		dbPool:       dbPool,
		logger:       logger,
	}
}

// ListProducts возвращает товары каталога, отфильтрованные по категории.
// Категория "all" возвращает весь каталог; фильтр — точное совпадение.
func (uc *CatalogUseCase) ListProducts(ctx context.Context, category string) ([]ProductInfo, error) {
	const op = "CatalogUseCase.ListProducts"

	products, err := uc.productRepo.List(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	result := make([]ProductInfo, 0, len(products))
	for _, product := range products {
		if category != CategoryAll && product.Category != category {
			continue
		}

		result = append(result, NewProductInfo(&product, uc.imageURL(ctx, product.ImageKey)))
	}

	return result, nil
}

// Categories возвращает различные категории каталога; "all" всегда первая.
func (uc *CatalogUseCase) Categories(ctx context.Context) ([]string, error) {
	const op = "CatalogUseCase.Categories"

	categories, err := uc.productRepo.Categories(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return append([]string{CategoryAll}, categories...), nil
}

// RegisterNewProduct обрабатывает регистрацию товара: идемпотентное создание
// категории и upsert товара в одной транзакции, загрузка изображения в S3,
// инвалидация кэша. Загруженное изображение удаляется при откате транзакции.
func (uc *CatalogUseCase) RegisterNewProduct(ctx context.Context, req *RegisterProductReq) (*ProductInfo, error) {
	const op = "CatalogUseCase.RegisterNewProduct"

	var err error
	if err = uc.validateProduct(req); err != nil {
		return nil, e.Wrap(op, err)
	}

	var (
		imageKey string
		uploaded bool
	)

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, uc.dbPool)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	// Если произошла ошибка, происходит Rollback транзакции и удаление загруженного изображения
	defer func() {
		if err != nil {
			if tx.IsActive() {
				tx.Rollback(ctx)
			}

			if uploaded {
				uc.cleanupImage(imageKey)
			}
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	// идемпотентное создание категории
	category, err := uc.categoryRepo.Create(ctx, domain.NewCategory(req.CategoryName))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if req.Image != nil {
		imageKey, err = uc.uploadImage(ctx, req.Name, req.Image)
		if err != nil {
			return nil, e.Wrap(op, err)
		}
		uploaded = true
	}

	// идемпотентный upsert товара по уникальному имени
	product := domain.NewProduct(uuid.NewString(), req.Name, req.PriceCents, imageKey, req.Description, req.CategoryName, req.InStock)
	product, err = uc.productRepo.Upsert(ctx, product, category.ID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	err = tx.Commit(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// Удаление из кэша старых данных товара
	if err := uc.cacheRepo.DeleteProducts(ctx, []string{product.ID}); err != nil {
		uc.logger.Warnf("Failed to invalidate product cache: %v", e.Wrap(op, err))
	}

	info := NewProductInfo(product, uc.imageURL(ctx, product.ImageKey))
	return &info, nil
}

// uploadImage сохраняет изображение товара в S3 и возвращает ключ объекта.
func (uc *CatalogUseCase) uploadImage(ctx context.Context, productName string, image *ProductImage) (string, error) {
	imageID := uuid.NewString()
	ext, err := infrastructure.GetExtensionFromMIME(image.MimeType)
	if err != nil {
		return "", fmt.Errorf("invalid mime type %s for %s: %w", image.MimeType, image.Name, err)
	}

	objKey := fmt.Sprintf("%s/%s.%s", productName, imageID, ext)
	newImage := domain.NewImage(imageID, "", objKey, image.Data, &image.Size, &image.MimeType)

	return uc.imageRepo.Upload(ctx, newImage)
}

// cleanupImage удаляет осиротевшее изображение после неудачной регистрации.
func (uc *CatalogUseCase) cleanupImage(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := uc.imageRepo.Delete(ctx, key); err != nil {
		uc.logger.Warnf("Failed to clean up orphaned image, key: %s: %v", key, err)
	}
}

// imageURL строит presigned-ссылку на изображение; при ошибке возвращает пустую строку.
func (uc *CatalogUseCase) imageURL(ctx context.Context, key string) string {
	if key == "" {
		return ""
	}

	url, err := uc.imageRepo.PresignedURL(ctx, key)
	if err != nil {
		uc.logger.Warnf("Failed to presign image URL, key: %s: %v", key, err)
		return ""
	}

	return url
}

// validateProduct проверяет корректность входных данных запроса на регистрацию товара.
func (uc *CatalogUseCase) validateProduct(req *RegisterProductReq) error {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.CategoryName) == "" {
		return e.ErrMissingFields
	}

	if req.PriceCents < 0 {
		return e.ErrInvalidPrice
	}

	return nil
}
