package pgdb

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
	"github.com/techstore/storefront-backend/internal/domain"
	"github.com/techstore/storefront-backend/internal/repository/pgdb/converter"
	"github.com/techstore/storefront-backend/pkg/e"
	"github.com/techstore/storefront-backend/pkg/tr"
)

// ProductRepo реализует репозиторий товаров поверх PostgreSQL.
type ProductRepo struct {
	pool *pgxpool.Pool
	conv converter.ProductConverter
}

func NewProductRepo(pool *pgxpool.Pool, conv converter.ProductConverter) *ProductRepo {
	return &ProductRepo{
		pool: pool,
		conv: conv,
	}
}

// Upsert идемпотентно создаёт или обновляет товар по уникальному имени.
// ID существующей записи сохраняется; пустой image_key не затирает прежний.
func (p *ProductRepo) Upsert(ctx context.Context, product *domain.Product, categoryID int64) (*domain.Product, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		WITH upsert AS (
		INSERT INTO products (id, name, price_cents, description, image_key, category_id, in_stock)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (name)
		DO UPDATE SET
			price_cents = EXCLUDED.price_cents,
			description = EXCLUDED.description,
			image_key = COALESCE(NULLIF(EXCLUDED.image_key, ''), products.image_key),
			category_id = EXCLUDED.category_id,
			in_stock = EXCLUDED.in_stock,
			updated_at = NOW()
		RETURNING
			id, name, price_cents, description, image_key, category_id, in_stock, created_at, updated_at
		)
		SELECT
			u.id, u.name, u.price_cents, u.description, u.image_key,
			u.category_id, c.name, u.in_stock, u.created_at, u.updated_at
		FROM upsert u
		JOIN categories c ON u.category_id = c.id;
	`

	var model converter.ProductModel
	err = tx.QueryRow(ctx, query,
		product.ID, product.Name, product.PriceCents, product.Description,
		product.ImageKey, categoryID, product.InStock,
	).Scan(
		&model.ID, &model.Name, &model.PriceCents, &model.Description, &model.ImageKey,
		&model.CategoryID, &model.CategoryName, &model.InStock, &model.CreatedAt, &model.UpdatedAt,
	)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(&model), nil
}

// List возвращает весь каталог в стабильном порядке.
func (p *ProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	query := `
		SELECT pr.id, pr.name, pr.price_cents, pr.description, pr.image_key,
		       pr.category_id, cat.name, pr.in_stock, pr.created_at, pr.updated_at
		FROM products pr
		JOIN categories cat ON pr.category_id = cat.id
		ORDER BY pr.created_at, pr.id
	`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	models := make([]converter.ProductModel, 0)
	for rows.Next() {
		var model converter.ProductModel
		if err := rows.Scan(
			&model.ID, &model.Name, &model.PriceCents, &model.Description, &model.ImageKey,
			&model.CategoryID, &model.CategoryName, &model.InStock, &model.CreatedAt, &model.UpdatedAt,
		); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		models = append(models, model)
	}

	return p.conv.ToArrEntity(models), nil
}

// GetByIDs возвращает товары по их идентификаторам, включая название категории.
func (p *ProductRepo) GetByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	query := `
		SELECT pr.id, pr.name, pr.price_cents, pr.description, pr.image_key,
		       pr.category_id, cat.name, pr.in_stock, pr.created_at, pr.updated_at
		FROM products pr
		JOIN categories cat ON pr.category_id = cat.id
		WHERE pr.id = ANY($1)
	`

	rows, err := p.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	models := make([]converter.ProductModel, 0)
	for rows.Next() {
		var model converter.ProductModel
		if err := rows.Scan(
			&model.ID, &model.Name, &model.PriceCents, &model.Description, &model.ImageKey,
			&model.CategoryID, &model.CategoryName, &model.InStock, &model.CreatedAt, &model.UpdatedAt,
		); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		models = append(models, model)
	}

	return p.conv.ToArrEntity(models), nil
}

// Categories возвращает различные категории товаров каталога.
func (p *ProductRepo) Categories(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT cat.name
		FROM categories cat
		JOIN products pr ON pr.category_id = cat.id
		ORDER BY cat.name
	`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	categories := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		categories = append(categories, name)
	}

	return categories, nil
}
