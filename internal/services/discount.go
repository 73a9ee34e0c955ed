package loyalty

import (
	models "github.com/electrohub/loyalty/internal/models"
	"github.com/shopspring/decimal"
)

// знаков после запятой в валюте
const currencyPrecision = 2

var hundred = decimal.NewFromInt(100)

type DiscountCalculator struct{}

func NewDiscountCalculator() *DiscountCalculator {
	return &DiscountCalculator{}
}

// Скидка по купону на сумму подходящих позиций.
// Ограничение товара всегда сильнее собственного значения купона.
func (DiscountCalculator) ComputeDiscount(coupon models.Coupon, eligibleTotal decimal.Decimal, productCapPct *decimal.Decimal) decimal.Decimal {
	if !eligibleTotal.IsPositive() {
		return decimal.Zero
	}

	var discount decimal.Decimal
	switch coupon.DiscountType {
	case models.FLAT:
		discount = decimal.Min(coupon.DiscountValue, eligibleTotal)
	case models.PERCENTAGE:
		discount = eligibleTotal.Mul(coupon.DiscountValue).Div(hundred)
		if coupon.MaxDiscountAmount != nil {
			discount = decimal.Min(discount, *coupon.MaxDiscountAmount)
		}
	default:
		return decimal.Zero
	}

	// верхняя граница в копейках: округление вниз, чтобы не превысить ни сумму, ни ограничение товара
	limit := eligibleTotal
	if productCapPct != nil && productCapPct.IsPositive() {
		limit = decimal.Min(limit, eligibleTotal.Mul(*productCapPct).Div(hundred))
	}
	discount = decimal.Min(discount, limit)

	// round half up: для неотрицательных значений совпадает с Round
	discount = decimal.Min(discount.Round(currencyPrecision), limit.RoundDown(currencyPrecision))
	if discount.IsNegative() {
		return decimal.Zero
	}
	return discount
}
