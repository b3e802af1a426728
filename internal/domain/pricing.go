package domain

import "github.com/shopspring/decimal"

// Правила ценообразования витрины: налог 8%, доставка 9.99 при
// промежуточной сумме <= 100 (строго больше 100 — бесплатно).
var (
	taxRate               = decimal.New(8, -2)   // 0.08
	freeShippingThreshold = decimal.New(100, 0)  // 100.00
	flatShippingFee       = decimal.New(999, -2) // 9.99
)

// PricingBreakdown — производные суммы по снимку корзины.
// Значения точные; округление до двух знаков выполняется только на границе отображения.
type PricingBreakdown struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal
}

// Subtotal возвращает сумму price*quantity по всем позициям. 0 для пустой корзины.
func Subtotal(items []LineItem) decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range items {
		price := decimal.New(item.Product.PriceCents, -2)
		subtotal = subtotal.Add(price.Mul(decimal.NewFromInt(item.Quantity)))
	}

	return subtotal
}

// Tax возвращает налог 8% от промежуточной суммы, без округления.
func Tax(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(taxRate)
}

// Shipping возвращает стоимость доставки: 0 при subtotal > 100, иначе 9.99.
// Граница: subtotal == 100 доставка платная.
func Shipping(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThan(freeShippingThreshold) {
		return decimal.Zero
	}

	return flatShippingFee
}

// Total возвращает точную сумму subtotal + tax + shipping.
func Total(subtotal, tax, shipping decimal.Decimal) decimal.Decimal {
	return subtotal.Add(tax).Add(shipping)
}

// Price пересчитывает все четыре суммы с нуля по снимку позиций.
// Результаты нигде не кэшируются.
func Price(items []LineItem) PricingBreakdown {
	subtotal := Subtotal(items)
	tax := Tax(subtotal)
	shipping := Shipping(subtotal)

	return PricingBreakdown{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: shipping,
		Total:    Total(subtotal, tax, shipping),
	}
}
