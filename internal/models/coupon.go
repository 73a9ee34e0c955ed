package loyalty

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	FLAT       DiscountType = "flat"
	PERCENTAGE DiscountType = "percentage"
)

// Купон
type Coupon struct {
	ID                uuid.UUID        `json:"id"`
	Code              string           `json:"code"`
	DiscountType      DiscountType     `json:"discountType"`
	DiscountValue     decimal.Decimal  `json:"discountValue"`
	MinOrderValue     decimal.Decimal  `json:"minOrderValue"`
	MaxDiscountAmount *decimal.Decimal `json:"maxDiscountAmount,omitempty"`
	StartDate         time.Time        `json:"startDate"`
	EndDate           *time.Time       `json:"endDate,omitempty"`
	TotalUsageLimit   *int64           `json:"totalUsageLimit,omitempty"`
	PerUserUsageLimit *int64           `json:"perUserUsageLimit,omitempty"`
	Active            bool             `json:"active"`
	Categories        []string         `json:"categories,omitempty"` // пусто - на весь магазин
}

// NormalizeCode upper-cases and trims a coupon code; codes are case-insensitive.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (c Coupon) Validate() error {
	if NormalizeCode(c.Code) == "" {
		return ErrInvalidSettings
	}
	if c.DiscountType != FLAT && c.DiscountType != PERCENTAGE {
		return ErrInvalidSettings
	}
	if !c.DiscountValue.IsPositive() || c.MinOrderValue.IsNegative() {
		return ErrInvalidSettings
	}
	if c.MaxDiscountAmount != nil && c.MaxDiscountAmount.IsNegative() {
		return ErrInvalidSettings
	}
	if c.EndDate != nil && c.EndDate.Before(c.StartDate) {
		return ErrInvalidSettings
	}
	return nil
}

// Использование купона
type CouponUsageRecord struct {
	ID             uuid.UUID       `json:"id"`
	CouponID       uuid.UUID       `json:"couponId"`
	UserID         string          `json:"userId"`
	OrderID        string          `json:"orderId"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	UsedAt         time.Time       `json:"usedAt"`
}

// Лимиты, проверяемые атомарно при записи использования
type UsageLimits struct {
	Total   *int64
	PerUser *int64
}

// Позиция заказа
type LineItem struct {
	ProductID string          `json:"productId"`
	Price     decimal.Decimal `json:"price"` // цена за единицу
	Quantity  int64           `json:"quantity"`
}

func (l LineItem) Total() decimal.Decimal {
	q := l.Quantity
	if q <= 0 {
		q = 1
	}
	return l.Price.Mul(decimal.NewFromInt(q))
}

// Контекст заказа для проверки купона
type OrderContext struct {
	UserID     string          `json:"userId"`
	OrderTotal decimal.Decimal `json:"orderTotal"`
	LineItems  []LineItem      `json:"lineItems"`
	AsOf       time.Time       `json:"asOf"`
}

// Total returns OrderTotal, or the line item sum when the total is not given.
func (o OrderContext) Total() decimal.Decimal {
	if !o.OrderTotal.IsZero() {
		return o.OrderTotal
	}
	sum := decimal.Zero
	for _, i := range o.LineItems {
		sum = sum.Add(i.Total())
	}
	return sum
}

type ErrorKind string

const (
	CouponNotFound       ErrorKind = "coupon_not_found"
	CouponInactive       ErrorKind = "coupon_inactive"
	CouponExpired        ErrorKind = "coupon_expired"
	BelowMinimumOrder    ErrorKind = "below_minimum_order"
	UsageLimitExceeded   ErrorKind = "usage_limit_exceeded"
	PerUserLimitExceeded ErrorKind = "per_user_limit_exceeded"
	NoEligibleItems      ErrorKind = "no_eligible_items"
)

// Результат проверки купона
type ValidationResult struct {
	Valid         bool             `json:"valid"`
	Coupon        *Coupon          `json:"coupon,omitempty"`
	ErrorKind     ErrorKind        `json:"errorKind,omitempty"`
	EligibleItems []LineItem       `json:"eligibleItems,omitempty"`
	EligibleTotal decimal.Decimal  `json:"eligibleTotal"`
	ProductCapPct *decimal.Decimal `json:"productCapPct,omitempty"` // самое строгое ограничение среди позиций
}

func Invalid(kind ErrorKind) ValidationResult {
	return ValidationResult{Valid: false, ErrorKind: kind}
}

// Примененный купон
type AppliedCoupon struct {
	Validation ValidationResult   `json:"validation"`
	Discount   decimal.Decimal    `json:"discount"`
	Usage      *CouponUsageRecord `json:"usage,omitempty"`
}

// Товар, доступный для обмена на монеты
type RedeemableProduct struct {
	ProductID     string `json:"productId"`
	CoinsRequired int64  `json:"coinsRequired"`
}
