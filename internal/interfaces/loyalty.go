package loyalty

import (
	"context"
	"time"

	models "github.com/electrohub/loyalty/internal/models"
	"github.com/google/uuid"
)

//go:generate mockgen -destination=./../services/mock_loyalty_test.go -package=loyalty . SettingsRepository,ProductSettingsRepository,WalletRepository,CouponRepository,UsageRepository,CacheStorage,SettingsAdmin

type SettingsRepository interface {
	// ErrConfigurationMissing если записи нет
	GetSystemSettings(ctx context.Context) (models.SystemSettings, error)
}

type ProductSettingsRepository interface {
	// nil, nil если записи нет
	Get(ctx context.Context, productId string) (*models.ProductSettings, error)
	CreateDefault(ctx context.Context, productId string) (models.ProductSettings, error)
	List(ctx context.Context) ([]models.ProductSettings, error)
}

// Журнал транзакций, привязанный к атомарной операции над кошельком
type TransactionLog interface {
	Append(ctx context.Context, tnx models.Transaction) error
	List(ctx context.Context, userId string) ([]models.Transaction, error)
}

// Изменение кошелька: проверка инвариантов и запись в журнал выполняются внутри одной операции.
// Ошибка отменяет все изменения.
type WalletMutation func(ctx context.Context, wallet *models.Wallet, log TransactionLog) error

type WalletRepository interface {
	GetOrCreate(ctx context.Context, userId string) (models.Wallet, error)
	// ErrConflict если параллельное изменение выиграло гонку
	ApplyAtomic(ctx context.Context, userId string, mutation WalletMutation) (models.Wallet, error)
	History(ctx context.Context, userId string) ([]models.Transaction, error)
	UsersWithExpiredCoins(ctx context.Context, asOf time.Time) ([]string, error)
}

type CouponRepository interface {
	// nil, nil если купон не найден
	FindByCode(ctx context.Context, code string) (*models.Coupon, error)
}

type UsageRepository interface {
	CountGlobal(ctx context.Context, couponId uuid.UUID) (int64, error)
	CountForUser(ctx context.Context, couponId uuid.UUID, userId string) (int64, error)
	// атомарно проверяет лимиты и сохраняет запись
	Record(ctx context.Context, rec models.CouponUsageRecord, limits models.UsageLimits) error
}

type CacheStorage interface {
	GetBalance(ctx context.Context, user string) (coins int64, err error)
	SetBalance(ctx context.Context, user string, coins int64) (err error)
	InvalidateBalance(ctx context.Context, user string) error
}

// Хранилища движка
type Storage struct {
	Settings SettingsRepository
	Products ProductSettingsRepository
	Wallets  WalletRepository
	Coupons  CouponRepository
	Usage    UsageRepository
	Cache    CacheStorage // может быть nil
}

// Администрирование настроек и купонов
type SettingsAdmin interface {
	SaveSystemSettings(ctx context.Context, s models.SystemSettings) error
	SaveProductSettings(ctx context.Context, ps models.ProductSettings) error
	SaveCoupon(ctx context.Context, c models.Coupon) (models.Coupon, error)
}
