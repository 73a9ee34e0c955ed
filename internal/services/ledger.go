package loyalty

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	interf "github.com/electrohub/loyalty/internal/interfaces"
	models "github.com/electrohub/loyalty/internal/models"
	"go.uber.org/zap"
)

// CoinLedger owns wallet state. Every change goes through WalletRepository.ApplyAtomic,
// so the balance check and the journal append are one unit.
type CoinLedger struct {
	wallets  interf.WalletRepository
	settings *SettingsResolver
	cache    interf.CacheStorage
	logger   *zap.Logger
	clock    func() time.Time
}

func NewCoinLedger(wallets interf.WalletRepository, settings *SettingsResolver, cache interf.CacheStorage, logger *zap.Logger) *CoinLedger {
	return &CoinLedger{wallets, settings, cache, logger, time.Now}
}

// log
func (l *CoinLedger) Log(msg string, service string, user string, err error) {
	l.logger.Error(msg,
		zap.String("service", service),
		zap.String("user", user),
		zap.Error(err),
	)
}

// Начисление
func (l *CoinLedger) Earn(ctx context.Context, userId string, amount int64, ref models.Reference) (models.Transaction, error) {
	if amount <= 0 {
		return models.Transaction{}, models.ErrInvalidAmount
	}
	sys, err := l.settings.System(ctx)
	if err != nil {
		return models.Transaction{}, err
	}
	now := l.clock().UTC()
	tnx := models.NewTransaction(userId, models.EARNED, amount, ref, now)
	if sys.CoinExpiryDays > 0 {
		exp := now.Add(time.Duration(sys.CoinExpiryDays) * 24 * time.Hour)
		tnx.ExpiresAt = &exp
	}
	var existing *models.Transaction
	err = l.apply(ctx, "Earn", userId, func(ctx context.Context, w *models.Wallet, log interf.TransactionLog) error {
		// повторное сообщение по тому же заказу и товару не начисляет второй раз
		if ref.OrderID != "" {
			tnxs, err := log.List(ctx, userId)
			if err != nil {
				return err
			}
			for _, t := range tnxs {
				if t.Type == models.EARNED && t.ReferenceOrderID == ref.OrderID && t.ReferenceProductID == ref.ProductID {
					existing = &t
					return nil
				}
			}
		}
		return book(ctx, w, log, tnx)
	})
	if err != nil {
		return models.Transaction{}, err
	}
	if existing != nil {
		return *existing, nil
	}
	return tnx, nil
}

// Списание
func (l *CoinLedger) Redeem(ctx context.Context, userId string, amount int64, ref models.Reference) (models.Transaction, error) {
	if amount <= 0 {
		return models.Transaction{}, models.ErrInvalidAmount
	}
	sys, err := l.settings.System(ctx)
	if err != nil {
		return models.Transaction{}, err
	}
	if amount < sys.MinCoinsToRedeem {
		return models.Transaction{}, fmt.Errorf("%w: minimum is %d coins", models.ErrInsufficientBalance, sys.MinCoinsToRedeem)
	}
	tnx := models.NewTransaction(userId, models.REDEEMED, amount, ref, l.clock().UTC())
	var existing *models.Transaction
	err = l.apply(ctx, "Redeem", userId, func(ctx context.Context, w *models.Wallet, log interf.TransactionLog) error {
		// повторная доставка того же запроса не списывает второй раз
		if ref.RedeemID != "" {
			tnxs, err := log.List(ctx, userId)
			if err != nil {
				return err
			}
			for _, t := range tnxs {
				if t.Type == models.REDEEMED && t.ReferenceRedeemID == ref.RedeemID {
					existing = &t
					return nil
				}
			}
		}
		if w.AvailableBalance < amount {
			return models.ErrInsufficientBalance
		}
		return book(ctx, w, log, tnx)
	})
	if err != nil {
		return models.Transaction{}, err
	}
	if existing != nil {
		return *existing, nil
	}
	return tnx, nil
}

// Ручные корректировки и сгорание
func (l *CoinLedger) Adjust(ctx context.Context, userId string, typ models.TransactionType, amount int64, ref models.Reference) (models.Transaction, error) {
	if typ != models.MANUAL_ADD && typ != models.MANUAL_REMOVE && typ != models.EXPIRED {
		return models.Transaction{}, fmt.Errorf("%w: %s", models.ErrInvalidTransaction, typ)
	}
	if amount <= 0 {
		return models.Transaction{}, models.ErrInvalidAmount
	}
	tnx := models.NewTransaction(userId, typ, amount, ref, l.clock().UTC())
	err := l.apply(ctx, "Adjust", userId, func(ctx context.Context, w *models.Wallet, log interf.TransactionLog) error {
		if !typ.Positive() && w.AvailableBalance < amount {
			return models.ErrInsufficientBalance
		}
		return book(ctx, w, log, tnx)
	})
	if err != nil {
		return models.Transaction{}, err
	}
	return tnx, nil
}

// Сгорание монет, начисленных до asOf. Списания расходуют самые старые монеты,
// поэтому сгорает только то, что не покрыто суммой списаний. Повторный вызов ничего не меняет.
func (l *CoinLedger) ExpireDue(ctx context.Context, userId string, asOf time.Time) (*models.Transaction, error) {
	var out *models.Transaction
	err := l.apply(ctx, "ExpireDue", userId, func(ctx context.Context, w *models.Wallet, log interf.TransactionLog) error {
		tnxs, err := log.List(ctx, userId)
		if err != nil {
			return err
		}
		var expired int64
		for _, t := range tnxs {
			if t.Type == models.EARNED && t.ExpiresAt != nil && !t.ExpiresAt.After(asOf) {
				expired += t.Amount
			}
		}
		amount := min(expired-w.TotalRedeemed, w.AvailableBalance)
		if amount <= 0 {
			return nil
		}
		tnx := models.NewTransaction(userId, models.EXPIRED, amount, models.Reference{}, l.clock().UTC())
		out = &tnx
		return book(ctx, w, log, tnx)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Возврат заказа: снимаем начисленные за заказ монеты, но не больше остатка
func (l *CoinLedger) ReverseOrder(ctx context.Context, userId string, orderId string) (*models.Transaction, error) {
	if orderId == "" {
		return nil, fmt.Errorf("orderId is required")
	}
	var out *models.Transaction
	err := l.apply(ctx, "ReverseOrder", userId, func(ctx context.Context, w *models.Wallet, log interf.TransactionLog) error {
		tnxs, err := log.List(ctx, userId)
		if err != nil {
			return err
		}
		var earned, reversed int64
		for _, t := range tnxs {
			if t.ReferenceOrderID != orderId {
				continue
			}
			switch t.Type {
			case models.EARNED:
				earned += t.Amount
			case models.MANUAL_REMOVE:
				reversed += -t.Amount
			}
		}
		amount := min(earned-reversed, w.AvailableBalance)
		if amount <= 0 {
			return nil
		}
		tnx := models.NewTransaction(userId, models.MANUAL_REMOVE, amount, models.Reference{OrderID: orderId}, l.clock().UTC())
		out = &tnx
		return book(ctx, w, log, tnx)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Сверка: журнал - источник истины, итоги кошелька пересчитываются по нему
func (l *CoinLedger) Reconcile(ctx context.Context, userId string) (models.ReconcileReport, error) {
	report := models.ReconcileReport{UserID: userId}
	wallet, err := l.wallets.ApplyAtomic(ctx, userId, func(ctx context.Context, w *models.Wallet, log interf.TransactionLog) error {
		tnxs, err := log.List(ctx, userId)
		if err != nil {
			return err
		}
		report.Before = *w
		var earned, redeemed int64
		for _, t := range tnxs {
			if t.Amount >= 0 {
				earned += t.Amount
			} else {
				redeemed += -t.Amount
			}
		}
		if earned < redeemed {
			return fmt.Errorf("journal of user %s is negative: earned %d, redeemed %d", userId, earned, redeemed)
		}
		w.TotalEarned = earned
		w.TotalRedeemed = redeemed
		w.AvailableBalance = earned - redeemed
		return nil
	})
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			ledgerConflicts.Inc()
		}
		l.Log("Reconcile", "Reconcile", userId, err)
		return models.ReconcileReport{}, err
	}
	report.After = wallet
	report.Drift = report.After.AvailableBalance - report.Before.AvailableBalance
	if report.Drift != 0 {
		l.logger.Warn("wallet drift fixed",
			zap.String("user", userId),
			zap.Int64("drift", report.Drift),
		)
	}
	l.invalidate(ctx, userId)
	return report, nil
}

// Баланс: кэш, затем база
func (l *CoinLedger) Balance(ctx context.Context, userId string) (coins int64, err error) {
	if l.cache != nil {
		coins, err = l.cache.GetBalance(ctx, userId)
		if err == nil {
			return coins, nil
		}
	}
	wallet, err := l.wallets.GetOrCreate(ctx, userId)
	if err != nil {
		return 0, err
	}
	if l.cache != nil {
		_ = l.cache.SetBalance(ctx, userId, wallet.AvailableBalance)
	}
	return wallet.AvailableBalance, nil
}

func (l *CoinLedger) Wallet(ctx context.Context, userId string) (models.Wallet, error) {
	return l.wallets.GetOrCreate(ctx, userId)
}

// История транзакций, новые сверху
func (l *CoinLedger) History(ctx context.Context, userId string) ([]models.Transaction, error) {
	tnxs, err := l.wallets.History(ctx, userId)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(tnxs, func(i, j int) bool {
		return tnxs[i].CreatedAt.After(tnxs[j].CreatedAt)
	})
	return tnxs, nil
}

func (l *CoinLedger) apply(ctx context.Context, service string, userId string, mutation interf.WalletMutation) error {
	var booked []models.Transaction
	wrapped := func(ctx context.Context, w *models.Wallet, log interf.TransactionLog) error {
		return mutation(ctx, w, &recordingLog{log, &booked})
	}
	_, err := l.wallets.ApplyAtomic(ctx, userId, wrapped)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrConflict):
			ledgerConflicts.Inc()
			l.logger.Warn("wallet conflict",
				zap.String("service", service),
				zap.String("user", userId),
			)
		case errors.Is(err, models.ErrInsufficientBalance):
		default:
			l.Log("Wallet mutation", service, userId, err)
		}
		return err
	}
	for _, t := range booked {
		coinsTotal.WithLabelValues(string(t.Type)).Add(float64(abs(t.Amount)))
	}
	if len(booked) > 0 {
		l.invalidate(ctx, userId)
	}
	return nil
}

func (l *CoinLedger) invalidate(ctx context.Context, userId string) {
	if l.cache == nil {
		return
	}
	if err := l.cache.InvalidateBalance(ctx, userId); err != nil {
		l.Log("Invalidate balance cache", "Cache", userId, err)
	}
}

// запись транзакции и изменение итогов кошелька
func book(ctx context.Context, w *models.Wallet, log interf.TransactionLog, tnx models.Transaction) error {
	if err := log.Append(ctx, tnx); err != nil {
		return err
	}
	w.Apply(tnx.Amount)
	if !w.Consistent() {
		return fmt.Errorf("wallet %s invariant violated: %w", w.UserID, models.ErrInsufficientBalance)
	}
	return nil
}

// запоминает добавленные транзакции для метрик
type recordingLog struct {
	interf.TransactionLog
	booked *[]models.Transaction
}

func (r *recordingLog) Append(ctx context.Context, tnx models.Transaction) error {
	if err := r.TransactionLog.Append(ctx, tnx); err != nil {
		return err
	}
	*r.booked = append(*r.booked, tnx)
	return nil
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
