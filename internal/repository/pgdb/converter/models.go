package converter

import "time"

// ProductModel представляет запись таблицы products в PostgreSQL
// вместе с именем категории из таблицы categories.
type ProductModel struct {
	ID           string     `db:"id"`
	Name         string     `db:"name"`
	PriceCents   int64      `db:"price_cents"`
	Description  string     `db:"description"`
	ImageKey     string     `db:"image_key"`
	CategoryID   int64      `db:"category_id"`
	CategoryName string     `db:"category_name"`
	InStock      bool       `db:"in_stock"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    *time.Time `db:"updated_at"`
}

// CategoryModel представляет запись таблицы categories в PostgreSQL.
type CategoryModel struct {
	ID        int64      `db:"id"`
	Name      string     `db:"name"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt *time.Time `db:"updated_at"`
}
