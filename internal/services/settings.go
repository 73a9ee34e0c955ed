package loyalty

import (
	"context"
	"errors"
	"fmt"
	"time"

	interf "github.com/electrohub/loyalty/internal/interfaces"
	models "github.com/electrohub/loyalty/internal/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type SettingsResolver struct {
	settings interf.SettingsRepository
	products interf.ProductSettingsRepository
	logger   *zap.Logger
}

func NewSettingsResolver(settings interf.SettingsRepository, products interf.ProductSettingsRepository, logger *zap.Logger) *SettingsResolver {
	return &SettingsResolver{settings, products, logger}
}

// Системные настройки: отсутствие записи - ошибка конфигурации
func (s *SettingsResolver) System(ctx context.Context) (models.SystemSettings, error) {
	sys, err := s.settings.GetSystemSettings(ctx)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.SystemSettings{}, fmt.Errorf("%w: %w", models.ErrConfigurationMissing, err)
		}
		return models.SystemSettings{}, err
	}
	return sys, nil
}

// Настройки товара: если записи нет - создается запись по умолчанию
func (s *SettingsResolver) Product(ctx context.Context, productId string) (models.ProductSettings, error) {
	ps, err := s.products.Get(ctx, productId)
	if err != nil {
		return models.ProductSettings{}, err
	}
	if ps != nil {
		return *ps, nil
	}
	created, err := s.products.CreateDefault(ctx, productId)
	if err != nil {
		s.logger.Error("create default product settings",
			zap.String("service", "Resolve"),
			zap.String("product", productId),
			zap.Error(err),
		)
		return models.ProductSettings{}, err
	}
	s.logger.Info("default product settings created", zap.String("product", productId))
	return created, nil
}

// Resolve merges system and product settings for productId as of asOf.
func (s *SettingsResolver) Resolve(ctx context.Context, productId string, asOf time.Time) (models.EffectiveSettings, error) {
	sys, err := s.System(ctx)
	if err != nil {
		return models.EffectiveSettings{}, err
	}
	// система выключена - продукт не запрашиваем
	if !sys.Enabled {
		return Disabled(productId, asOf, sys), nil
	}
	ps, err := s.Product(ctx, productId)
	if err != nil {
		return models.EffectiveSettings{}, err
	}
	return Merge(sys, ps, asOf), nil
}

// Effective multiplier: global x festive (if asOf inside the window)
func Multiplier(sys models.SystemSettings, asOf time.Time) (multiplier decimal.Decimal, festive bool) {
	multiplier = sys.GlobalMultiplier
	if multiplier.IsZero() {
		multiplier = decimal.NewFromInt(1)
	}
	if sys.FestiveWindow != nil && sys.FestiveWindow.Contains(asOf) && sys.FestiveWindow.Multiplier.IsPositive() {
		multiplier = multiplier.Mul(sys.FestiveWindow.Multiplier)
		festive = true
	}
	return multiplier, festive
}

func Merge(sys models.SystemSettings, ps models.ProductSettings, asOf time.Time) models.EffectiveSettings {
	multiplier, festive := Multiplier(sys, asOf)
	categories := make([]string, len(ps.CouponCategories))
	copy(categories, ps.CouponCategories)
	return models.EffectiveSettings{
		ProductID:              ps.ProductID,
		AsOf:                   asOf,
		Enabled:                sys.Enabled,
		EarningEnabled:         sys.Enabled && ps.EarningEnabled,
		RedemptionEnabled:      sys.Enabled && ps.RedemptionEnabled,
		CoinsPerCurrencyUnit:   sys.CoinsPerCurrencyUnit,
		Multiplier:             multiplier,
		FestiveActive:          festive,
		CoinsEarnedPerPurchase: ps.CoinsEarnedPerPurchase,
		CoinsRequiredToRedeem:  ps.CoinsRequiredToRedeem,
		MinCoinsToRedeem:       sys.MinCoinsToRedeem,
		MaxCoinsPerOrder:       sys.MaxCoinsPerOrder,
		CoinExpiryDays:         sys.CoinExpiryDays,
		CouponEligible:         ps.CouponEligible,
		MaxCouponDiscountPct:   ps.MaxCouponDiscountPct,
		CouponCategories:       categories,
		AllowStackingWithCoins: ps.AllowStackingWithCoins,
	}
}

// Все операции с монетами выключены. Купоны от системного флага не зависят.
func Disabled(productId string, asOf time.Time, sys models.SystemSettings) models.EffectiveSettings {
	def := models.DefaultProductSettings(productId)
	return models.EffectiveSettings{
		ProductID:            productId,
		AsOf:                 asOf,
		CoinsPerCurrencyUnit: decimal.Zero,
		Multiplier:           decimal.Zero,
		MinCoinsToRedeem:     sys.MinCoinsToRedeem,
		CouponEligible:       def.CouponEligible,
		MaxCouponDiscountPct: decimal.Zero,
		CouponCategories:     []string{},
	}
}
