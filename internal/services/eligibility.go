package loyalty

import (
	"context"
	"sort"

	models "github.com/electrohub/loyalty/internal/models"
	"go.uber.org/zap"
)

type RedemptionEligibilityEngine struct {
	settings *SettingsResolver
	ledger   *CoinLedger
	logger   *zap.Logger
}

func NewRedemptionEligibilityEngine(settings *SettingsResolver, ledger *CoinLedger, logger *zap.Logger) *RedemptionEligibilityEngine {
	return &RedemptionEligibilityEngine{settings, ledger, logger}
}

// Товары, которые пользователь может получить за монеты, дешевые сверху.
// Пустой список - нормальный результат, не ошибка.
func (e *RedemptionEligibilityEngine) EligibleProducts(ctx context.Context, userId string, catalog []models.ProductSettings) ([]models.RedeemableProduct, error) {
	sys, err := e.settings.System(ctx)
	if err != nil {
		return nil, err
	}
	if !sys.Enabled {
		return []models.RedeemableProduct{}, nil
	}
	balance, err := e.ledger.Balance(ctx, userId)
	if err != nil {
		return nil, err
	}
	return Redeemable(balance, catalog), nil
}

// Redeemable filters catalog down to products affordable with balance.
func Redeemable(balance int64, catalog []models.ProductSettings) []models.RedeemableProduct {
	result := make([]models.RedeemableProduct, 0)
	for _, p := range catalog {
		if !p.RedemptionEnabled || p.CoinsRequiredToRedeem <= 0 || p.CoinsRequiredToRedeem > balance {
			continue
		}
		result = append(result, models.RedeemableProduct{
			ProductID:     p.ProductID,
			CoinsRequired: p.CoinsRequiredToRedeem,
		})
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].CoinsRequired != result[j].CoinsRequired {
			return result[i].CoinsRequired < result[j].CoinsRequired
		}
		return result[i].ProductID < result[j].ProductID
	})
	return result
}
