package loyalty

import (
	"time"

	"github.com/shopspring/decimal"
)

// Период праздничного множителя (границы включительно)
type FestiveWindow struct {
	Start      time.Time       `json:"start"`
	End        time.Time       `json:"end"`
	Multiplier decimal.Decimal `json:"multiplier"`
}

func (f FestiveWindow) Contains(t time.Time) bool {
	return !t.Before(f.Start) && !t.After(f.End)
}

// Системные настройки программы лояльности (одна запись)
type SystemSettings struct {
	Enabled              bool            `json:"enabled"`
	CoinsPerCurrencyUnit decimal.Decimal `json:"coinsPerCurrencyUnit"`
	GlobalMultiplier     decimal.Decimal `json:"globalMultiplier"`
	MinCoinsToRedeem     int64           `json:"minCoinsToRedeem"`
	MaxCoinsPerOrder     *int64          `json:"maxCoinsPerOrder,omitempty"`
	FestiveWindow        *FestiveWindow  `json:"festiveWindow,omitempty"`
	CoinExpiryDays       int             `json:"coinExpiryDays"` // 0 - монеты не сгорают
}

func (s SystemSettings) Validate() error {
	if s.CoinsPerCurrencyUnit.IsNegative() || s.GlobalMultiplier.IsNegative() {
		return ErrInvalidSettings
	}
	if s.MinCoinsToRedeem < 0 || s.CoinExpiryDays < 0 {
		return ErrInvalidSettings
	}
	if s.MaxCoinsPerOrder != nil && *s.MaxCoinsPerOrder < 0 {
		return ErrInvalidSettings
	}
	if f := s.FestiveWindow; f != nil && (f.End.Before(f.Start) || f.Multiplier.IsNegative()) {
		return ErrInvalidSettings
	}
	return nil
}

// Настройки товара
type ProductSettings struct {
	ProductID              string          `json:"productId"`
	CoinsEarnedPerPurchase int64           `json:"coinsEarnedPerPurchase"`
	CoinsRequiredToRedeem  int64           `json:"coinsRequiredToRedeem"`
	EarningEnabled         bool            `json:"earningEnabled"`
	RedemptionEnabled      bool            `json:"redemptionEnabled"`
	CouponEligible         bool            `json:"couponEligible"`
	MaxCouponDiscountPct   decimal.Decimal `json:"maxCouponDiscountPct"` // 0 - без ограничения
	CouponCategories       []string        `json:"couponCategories"`
	AllowStackingWithCoins bool            `json:"allowStackingWithCoins"`
}

// DefaultProductSettings is the row created on first lookup of a product.
func DefaultProductSettings(productID string) ProductSettings {
	return ProductSettings{
		ProductID:              productID,
		CoinsEarnedPerPurchase: 0,
		CoinsRequiredToRedeem:  0,
		EarningEnabled:         true,
		RedemptionEnabled:      false,
		CouponEligible:         true,
		MaxCouponDiscountPct:   decimal.Zero,
		CouponCategories:       []string{},
		AllowStackingWithCoins: false,
	}
}

func (p ProductSettings) Validate() error {
	if p.ProductID == "" {
		return ErrInvalidSettings
	}
	if p.CoinsEarnedPerPurchase < 0 || p.CoinsRequiredToRedeem < 0 {
		return ErrInvalidSettings
	}
	if p.MaxCouponDiscountPct.IsNegative() || p.MaxCouponDiscountPct.GreaterThan(decimal.NewFromInt(100)) {
		return ErrInvalidSettings
	}
	return nil
}

// Итоговые настройки товара на момент времени
type EffectiveSettings struct {
	ProductID              string          `json:"productId"`
	AsOf                   time.Time       `json:"asOf"`
	Enabled                bool            `json:"enabled"`
	EarningEnabled         bool            `json:"earningEnabled"`
	RedemptionEnabled      bool            `json:"redemptionEnabled"`
	CoinsPerCurrencyUnit   decimal.Decimal `json:"coinsPerCurrencyUnit"`
	Multiplier             decimal.Decimal `json:"multiplier"`
	FestiveActive          bool            `json:"festiveActive"`
	CoinsEarnedPerPurchase int64           `json:"coinsEarnedPerPurchase"`
	CoinsRequiredToRedeem  int64           `json:"coinsRequiredToRedeem"`
	MinCoinsToRedeem       int64           `json:"minCoinsToRedeem"`
	MaxCoinsPerOrder       *int64          `json:"maxCoinsPerOrder,omitempty"`
	CoinExpiryDays         int             `json:"coinExpiryDays"`
	CouponEligible         bool            `json:"couponEligible"`
	MaxCouponDiscountPct   decimal.Decimal `json:"maxCouponDiscountPct"`
	CouponCategories       []string        `json:"couponCategories"`
	AllowStackingWithCoins bool            `json:"allowStackingWithCoins"`
}

// CoinsEarned returns the coins a purchase of quantity units at price earns.
// A fixed per-purchase amount on the product takes precedence over the rate.
func (e EffectiveSettings) CoinsEarned(price decimal.Decimal, quantity int64) int64 {
	if !e.Enabled || !e.EarningEnabled || quantity <= 0 || !price.IsPositive() {
		return 0
	}
	var raw decimal.Decimal
	if e.CoinsEarnedPerPurchase > 0 {
		raw = decimal.NewFromInt(e.CoinsEarnedPerPurchase * quantity).Mul(e.Multiplier)
	} else {
		raw = price.Mul(decimal.NewFromInt(quantity)).Mul(e.CoinsPerCurrencyUnit).Mul(e.Multiplier)
	}
	coins := raw.Floor().IntPart()
	if coins < 0 {
		coins = 0
	}
	if e.MaxCoinsPerOrder != nil && coins > *e.MaxCoinsPerOrder {
		coins = *e.MaxCoinsPerOrder
	}
	return coins
}
