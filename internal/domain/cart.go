package domain

// LineItem — одна позиция корзины: товар и накопленное количество.
type LineItem struct {
	Product  Product
	Quantity int64
}

// Cart хранит позиции корзины с сохранением порядка добавления.
// Инварианты: не более одной позиции на ID товара; Quantity каждой позиции >= 1.
// Cart не потокобезопасен — сериализацию обеспечивает владелец (repository/memory).
type Cart struct {
	items []LineItem
	index map[string]int // ID товара -> позиция в items
}

func NewCart() *Cart {
	return &Cart{
		items: make([]LineItem, 0),
		index: make(map[string]int),
	}
}

// Add добавляет товар: существующая позиция увеличивается на 1,
// новая — вставляется в конец с количеством 1.
func (c *Cart) Add(product Product) {
	if i, ok := c.index[product.ID]; ok {
		c.items[i].Quantity++
		return
	}

	c.index[product.ID] = len(c.items)
	c.items = append(c.items, LineItem{Product: product, Quantity: 1})
}

// Remove удаляет позицию по ID товара. Отсутствующая позиция — no-op.
func (c *Cart) Remove(productID string) {
	i, ok := c.index[productID]
	if !ok {
		return
	}

	c.items = append(c.items[:i], c.items[i+1:]...)
	delete(c.index, productID)
	for j := i; j < len(c.items); j++ {
		c.index[c.items[j].Product.ID] = j
	}
}

// SetQuantity устанавливает количество существующей позиции.
// quantity <= 0 эквивалентно Remove; отсутствующая позиция — no-op
// (товар не добавляется неявно).
func (c *Cart) SetQuantity(productID string, quantity int64) {
	if quantity <= 0 {
		c.Remove(productID)
		return
	}

	if i, ok := c.index[productID]; ok {
		c.items[i].Quantity = quantity
	}
}

// ItemCount возвращает суммарное количество по всем позициям.
func (c *Cart) ItemCount() int64 {
	var total int64
	for _, item := range c.items {
		total += item.Quantity
	}

	return total
}

// Items возвращает снимок позиций: последующие мутации корзины
// не затрагивают уже выданный срез.
func (c *Cart) Items() []LineItem {
	snapshot := make([]LineItem, len(c.items))
	copy(snapshot, c.items)
	return snapshot
}

// IsEmpty сообщает, пуста ли корзина.
func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// Clear удаляет все позиции.
func (c *Cart) Clear() {
	c.items = c.items[:0]
	c.index = make(map[string]int)
}
