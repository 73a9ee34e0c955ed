package loyalty

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	interf "github.com/electrohub/loyalty/internal/interfaces"
	models "github.com/electrohub/loyalty/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("loyalty")

// LoyaltyService is the entry point used by checkout and admin callers.
type LoyaltyService struct {
	Resolver    *SettingsResolver
	Ledger      *CoinLedger
	Eligibility *RedemptionEligibilityEngine
	Validator   *CouponValidator
	Calculator  *DiscountCalculator
	Stacking    *StackingPolicy

	storage interf.Storage
	logger  *zap.Logger
	clock   func() time.Time
}

func NewLoyaltyService(storage interf.Storage, logger *zap.Logger) *LoyaltyService {
	resolver := NewSettingsResolver(storage.Settings, storage.Products, logger)
	ledger := NewCoinLedger(storage.Wallets, resolver, storage.Cache, logger)
	return &LoyaltyService{
		Resolver:    resolver,
		Ledger:      ledger,
		Eligibility: NewRedemptionEligibilityEngine(resolver, ledger, logger),
		Validator:   NewCouponValidator(storage.Coupons, storage.Usage, resolver, logger),
		Calculator:  NewDiscountCalculator(),
		Stacking:    NewStackingPolicy(),
		storage:     storage,
		logger:      logger,
		clock:       time.Now,
	}
}

// SetClock replaces the time source of the service and its ledger.
func (s *LoyaltyService) SetClock(clock func() time.Time) {
	s.clock = clock
	s.Ledger.clock = clock
}

func (s *LoyaltyService) ResolveSettings(ctx context.Context, productId string, asOf time.Time) (models.EffectiveSettings, error) {
	ctx, span := tracer.Start(ctx, "ResolveSettings")
	defer span.End()
	span.SetAttributes(attribute.String("product", productId))
	return s.Resolver.Resolve(ctx, productId, asOf)
}

// Начисление монет за покупку товара
func (s *LoyaltyService) EarnCoins(ctx context.Context, userId string, orderTotal decimal.Decimal, productId string, asOf time.Time) (models.Transaction, error) {
	return s.EarnForItem(ctx, userId, "", models.LineItem{ProductID: productId, Price: orderTotal, Quantity: 1}, asOf)
}

func (s *LoyaltyService) EarnForItem(ctx context.Context, userId string, orderId string, item models.LineItem, asOf time.Time) (models.Transaction, error) {
	ctx, span := tracer.Start(ctx, "EarnCoins")
	defer span.End()
	span.SetAttributes(attribute.String("user", userId), attribute.String("product", item.ProductID))

	eff, err := s.Resolver.Resolve(ctx, item.ProductID, asOf)
	if err != nil {
		return models.Transaction{}, err
	}
	if !eff.Enabled {
		return models.Transaction{}, models.ErrCoinsDisabled
	}
	if !eff.EarningEnabled {
		return models.Transaction{}, fmt.Errorf("%w: earning off for product %s", models.ErrCoinsDisabled, item.ProductID)
	}
	quantity := item.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	coins := eff.CoinsEarned(item.Price, quantity)
	if coins <= 0 {
		return models.Transaction{}, fmt.Errorf("%w: purchase earns no coins", models.ErrInvalidAmount)
	}
	return s.Ledger.Earn(ctx, userId, coins, models.Reference{OrderID: orderId, ProductID: item.ProductID})
}

// Обмен монет на товар
func (s *LoyaltyService) RedeemCoins(ctx context.Context, userId string, amount int64, productId string) (models.Transaction, error) {
	return s.RedeemForOrder(ctx, userId, amount, productId, "")
}

func (s *LoyaltyService) RedeemForOrder(ctx context.Context, userId string, amount int64, productId string, orderId string) (models.Transaction, error) {
	return s.redeem(ctx, userId, amount, models.Reference{OrderID: orderId, ProductID: productId})
}

func (s *LoyaltyService) redeem(ctx context.Context, userId string, amount int64, ref models.Reference) (models.Transaction, error) {
	productId := ref.ProductID
	ctx, span := tracer.Start(ctx, "RedeemCoins")
	defer span.End()
	span.SetAttributes(attribute.String("user", userId), attribute.String("product", productId))

	if amount <= 0 {
		return models.Transaction{}, models.ErrInvalidAmount
	}
	eff, err := s.Resolver.Resolve(ctx, productId, s.clock())
	if err != nil {
		return models.Transaction{}, err
	}
	if !eff.Enabled {
		return models.Transaction{}, models.ErrCoinsDisabled
	}
	if !eff.RedemptionEnabled {
		return models.Transaction{}, fmt.Errorf("%w: %s", models.ErrRedemptionDisabled, productId)
	}
	return s.Ledger.Redeem(ctx, userId, amount, ref)
}

func (s *LoyaltyService) GetEligibleProducts(ctx context.Context, userId string) ([]models.RedeemableProduct, error) {
	ctx, span := tracer.Start(ctx, "GetEligibleProducts")
	defer span.End()

	sys, err := s.Resolver.System(ctx)
	if err != nil {
		return nil, err
	}
	if !sys.Enabled {
		return []models.RedeemableProduct{}, nil
	}
	catalog, err := s.storage.Products.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.Eligibility.EligibleProducts(ctx, userId, catalog)
}

func (s *LoyaltyService) ListProductSettings(ctx context.Context) ([]models.ProductSettings, error) {
	return s.storage.Products.List(ctx)
}

func (s *LoyaltyService) ValidateCoupon(ctx context.Context, code string, order models.OrderContext) (models.ValidationResult, error) {
	ctx, span := tracer.Start(ctx, "ValidateCoupon")
	defer span.End()
	if order.AsOf.IsZero() {
		order.AsOf = s.clock()
	}
	return s.Validator.Validate(ctx, code, order)
}

func (s *LoyaltyService) ComputeDiscount(coupon models.Coupon, eligibleTotal decimal.Decimal, productCapPct *decimal.Decimal) decimal.Decimal {
	return s.Calculator.ComputeDiscount(coupon, eligibleTotal, productCapPct)
}

func (s *LoyaltyService) CanStack(ps models.ProductSettings) bool {
	return s.Stacking.CanStack(ps)
}

// CanStackProduct resolves the product settings first.
func (s *LoyaltyService) CanStackProduct(ctx context.Context, productId string) (bool, error) {
	ps, err := s.Resolver.Product(ctx, productId)
	if err != nil {
		return false, err
	}
	return s.Stacking.CanStack(ps), nil
}

// Применение купона к заказу: проверка, расчет и запись использования.
// Лимиты проверяются повторно при записи, поэтому параллельный запрос не превысит лимит.
func (s *LoyaltyService) ApplyCoupon(ctx context.Context, code string, order models.OrderContext, orderId string) (models.AppliedCoupon, error) {
	ctx, span := tracer.Start(ctx, "ApplyCoupon")
	defer span.End()

	result, err := s.ValidateCoupon(ctx, code, order)
	if err != nil {
		return models.AppliedCoupon{}, err
	}
	if !result.Valid {
		return models.AppliedCoupon{Validation: result, Discount: decimal.Zero}, nil
	}
	coupon := *result.Coupon
	discount := s.Calculator.ComputeDiscount(coupon, result.EligibleTotal, result.ProductCapPct)
	rec := models.CouponUsageRecord{
		ID:             uuid.New(),
		CouponID:       coupon.ID,
		UserID:         order.UserID,
		OrderID:        orderId,
		DiscountAmount: discount,
		UsedAt:         s.clock().UTC(),
	}
	err = s.storage.Usage.Record(ctx, rec, models.UsageLimits{Total: coupon.TotalUsageLimit, PerUser: coupon.PerUserUsageLimit})
	switch {
	case errors.Is(err, models.ErrUsageLimitExceeded):
		couponValidations.WithLabelValues(string(models.UsageLimitExceeded)).Inc()
		return models.AppliedCoupon{Validation: models.Invalid(models.UsageLimitExceeded), Discount: decimal.Zero}, nil
	case errors.Is(err, models.ErrPerUserLimitExceeded):
		couponValidations.WithLabelValues(string(models.PerUserLimitExceeded)).Inc()
		return models.AppliedCoupon{Validation: models.Invalid(models.PerUserLimitExceeded), Discount: decimal.Zero}, nil
	case err != nil:
		s.logger.Error("record coupon usage",
			zap.String("service", "ApplyCoupon"),
			zap.String("coupon", coupon.Code),
			zap.String("user", order.UserID),
			zap.Error(err),
		)
		return models.AppliedCoupon{}, err
	}
	return models.AppliedCoupon{Validation: result, Discount: discount, Usage: &rec}, nil
}

// Начисление по всем позициям заказа. Позиции без начисления пропускаются.
func (s *LoyaltyService) EarnForOrder(ctx context.Context, userId string, orderId string, items []models.LineItem, asOf time.Time) ([]models.Transaction, error) {
	var tnxs []models.Transaction
	for _, i := range items {
		tnx, err := WithConflictRetry(func() (models.Transaction, error) {
			return s.EarnForItem(ctx, userId, orderId, i, asOf)
		})
		if err != nil {
			if errors.Is(err, models.ErrInvalidAmount) || errors.Is(err, models.ErrCoinsDisabled) {
				s.logger.Debug("no coins for item",
					zap.String("order", orderId),
					zap.String("product", i.ProductID),
					zap.Error(err),
				)
				continue
			}
			return tnxs, err
		}
		tnxs = append(tnxs, tnx)
	}
	return tnxs, nil
}

// WithConflictRetry runs op once more when it lost a wallet race.
func WithConflictRetry[T any](op func() (T, error)) (T, error) {
	res, err := op()
	if errors.Is(err, models.ErrConflict) {
		return op()
	}
	return res, err
}

// Сгорание монет по всем кошелькам, workers кошельков параллельно.
// Возвращает число кошельков, в которых монеты сгорели.
func (s *LoyaltyService) ExpireAll(ctx context.Context, asOf time.Time, workers int) (int, error) {
	ctx, span := tracer.Start(ctx, "ExpireAll")
	defer span.End()

	users, err := s.storage.Wallets.UsersWithExpiredCoins(ctx, asOf)
	if err != nil {
		return 0, err
	}
	if workers <= 0 {
		workers = 1
	}
	var expired atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, user := range users {
		g.Go(func() error {
			tnx, err := WithConflictRetry(func() (*models.Transaction, error) {
				return s.Ledger.ExpireDue(gctx, user, asOf)
			})
			if err != nil {
				return fmt.Errorf("expire coins of %s: %w", user, err)
			}
			if tnx != nil {
				expired.Add(1)
			}
			return nil
		})
	}
	err = g.Wait()
	return int(expired.Load()), err
}
