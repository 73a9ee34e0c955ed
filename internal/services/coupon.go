package loyalty

import (
	"context"
	"sync"

	interf "github.com/electrohub/loyalty/internal/interfaces"
	models "github.com/electrohub/loyalty/internal/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// сколько настроек товаров запрашиваем параллельно
const settingsFetchLimit = 8

type CouponValidator struct {
	coupons  interf.CouponRepository
	usage    interf.UsageRepository
	settings *SettingsResolver
	logger   *zap.Logger
}

func NewCouponValidator(coupons interf.CouponRepository, usage interf.UsageRepository, settings *SettingsResolver, logger *zap.Logger) *CouponValidator {
	return &CouponValidator{coupons, usage, settings, logger}
}

// Проверка купона. Причина отказа возвращается в результате, error - только сбои хранилищ.
// Проверки идут по порядку, первая неудачная завершает проверку.
func (v *CouponValidator) Validate(ctx context.Context, code string, order models.OrderContext) (models.ValidationResult, error) {
	result, err := v.validate(ctx, code, order)
	if err != nil {
		couponValidations.WithLabelValues("error").Inc()
		return models.ValidationResult{}, err
	}
	if result.Valid {
		couponValidations.WithLabelValues("valid").Inc()
	} else {
		couponValidations.WithLabelValues(string(result.ErrorKind)).Inc()
	}
	return result, nil
}

func (v *CouponValidator) validate(ctx context.Context, code string, order models.OrderContext) (models.ValidationResult, error) {
	// 1. поиск
	coupon, err := v.coupons.FindByCode(ctx, models.NormalizeCode(code))
	if err != nil {
		return models.ValidationResult{}, err
	}
	if coupon == nil {
		return models.Invalid(models.CouponNotFound), nil
	}
	// 2. активность
	if !coupon.Active {
		return models.Invalid(models.CouponInactive), nil
	}
	// 3. срок действия
	if order.AsOf.Before(coupon.StartDate) || (coupon.EndDate != nil && order.AsOf.After(*coupon.EndDate)) {
		return models.Invalid(models.CouponExpired), nil
	}
	// 4. минимальная сумма заказа
	if order.Total().LessThan(coupon.MinOrderValue) {
		return models.Invalid(models.BelowMinimumOrder), nil
	}
	// 5, 6. лимиты использования
	kind, err := v.checkUsage(ctx, *coupon, order.UserID)
	if err != nil {
		return models.ValidationResult{}, err
	}
	if kind != "" {
		return models.Invalid(kind), nil
	}
	// 7. позиции, к которым применим купон
	items, caps, err := v.eligibleItems(ctx, *coupon, order.LineItems)
	if err != nil {
		return models.ValidationResult{}, err
	}
	if len(items) == 0 {
		return models.Invalid(models.NoEligibleItems), nil
	}

	total := decimal.Zero
	for _, i := range items {
		total = total.Add(i.Total())
	}
	return models.ValidationResult{
		Valid:         true,
		Coupon:        coupon,
		EligibleItems: items,
		EligibleTotal: total,
		ProductCapPct: MostRestrictiveCap(caps),
	}, nil
}

// Счетчики использования запрашиваем параллельно
func (v *CouponValidator) checkUsage(ctx context.Context, coupon models.Coupon, userId string) (models.ErrorKind, error) {
	if coupon.TotalUsageLimit == nil && coupon.PerUserUsageLimit == nil {
		return "", nil
	}
	var global, personal int64
	g, gctx := errgroup.WithContext(ctx)
	if coupon.TotalUsageLimit != nil {
		g.Go(func() error {
			n, err := v.usage.CountGlobal(gctx, coupon.ID)
			global = n
			return err
		})
	}
	if coupon.PerUserUsageLimit != nil {
		g.Go(func() error {
			n, err := v.usage.CountForUser(gctx, coupon.ID, userId)
			personal = n
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}
	if coupon.TotalUsageLimit != nil && global >= *coupon.TotalUsageLimit {
		return models.UsageLimitExceeded, nil
	}
	if coupon.PerUserUsageLimit != nil && personal >= *coupon.PerUserUsageLimit {
		return models.PerUserLimitExceeded, nil
	}
	return "", nil
}

func (v *CouponValidator) eligibleItems(ctx context.Context, coupon models.Coupon, items []models.LineItem) ([]models.LineItem, []decimal.Decimal, error) {
	settings := make(map[string]models.ProductSettings)
	mu := &sync.Mutex{}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(settingsFetchLimit)
	seen := make(map[string]struct{})
	for _, i := range items {
		if _, ok := seen[i.ProductID]; ok {
			continue
		}
		seen[i.ProductID] = struct{}{}
		productId := i.ProductID
		g.Go(func() error {
			ps, err := v.settings.Product(gctx, productId)
			if err != nil {
				return err
			}
			mu.Lock()
			settings[productId] = ps
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var eligible []models.LineItem
	var caps []decimal.Decimal
	for _, i := range items {
		ps := settings[i.ProductID]
		if !ItemEligible(ps, coupon) {
			continue
		}
		eligible = append(eligible, i)
		caps = append(caps, ps.MaxCouponDiscountPct)
	}
	return eligible, caps, nil
}

// Позиция подходит, если товар участвует в купонах и категории товара (если заданы)
// пересекаются с категориями купона
func ItemEligible(ps models.ProductSettings, coupon models.Coupon) bool {
	if !ps.CouponEligible {
		return false
	}
	if len(ps.CouponCategories) == 0 {
		return true
	}
	for _, pc := range ps.CouponCategories {
		for _, cc := range coupon.Categories {
			if models.NormalizeCode(pc) == models.NormalizeCode(cc) {
				return true
			}
		}
	}
	return false
}

// Самое строгое (наименьшее ненулевое) ограничение скидки, nil если ограничений нет
func MostRestrictiveCap(caps []decimal.Decimal) *decimal.Decimal {
	var best *decimal.Decimal
	for _, c := range caps {
		if !c.IsPositive() {
			continue
		}
		if best == nil || c.LessThan(*best) {
			c := c
			best = &c
		}
	}
	return best
}
