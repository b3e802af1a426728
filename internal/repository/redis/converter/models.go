package converter

// ProductRedisModel — кэшируемое представление товара.
type ProductRedisModel struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PriceCents  int64  `json:"price_cents"`
	Description string `json:"description"`
	ImageKey    string `json:"image_key"`
	Category    string `json:"category"`
	InStock     bool   `json:"in_stock"`
}
