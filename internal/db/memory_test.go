package loyalty

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	interf "github.com/electrohub/loyalty/internal/interfaces"
	models "github.com/electrohub/loyalty/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestSystemSettingsMissing(t *testing.T) {
	mem := NewMemoryDB()
	_, err := mem.GetSystemSettings(context.Background())
	require.ErrorIs(t, err, models.ErrConfigurationMissing)
}

func TestSaveSystemSettingsValidates(t *testing.T) {
	mem := NewMemoryDB()
	ctx := context.Background()
	start := time.Date(2025, 12, 20, 0, 0, 0, 0, time.UTC)
	negative := int64(-1)

	tests := []struct {
		name string
		sys  models.SystemSettings
	}{
		{"negative rate", models.SystemSettings{CoinsPerCurrencyUnit: decimal.NewFromInt(-1)}},
		{"negative multiplier", models.SystemSettings{GlobalMultiplier: decimal.RequireFromString("-0.5")}},
		{"negative minimum", models.SystemSettings{MinCoinsToRedeem: -10}},
		{"negative cap", models.SystemSettings{MaxCoinsPerOrder: &negative}},
		{"negative expiry", models.SystemSettings{CoinExpiryDays: -1}},
		{"window ends before start", models.SystemSettings{FestiveWindow: &models.FestiveWindow{
			Start: start, End: start.Add(-time.Hour), Multiplier: decimal.NewFromInt(2),
		}}},
	}
	for _, ts := range tests {
		err := mem.SaveSystemSettings(ctx, ts.sys)
		require.ErrorIs(t, err, models.ErrInvalidSettings, ts.name)
	}
	_, err := mem.GetSystemSettings(ctx)
	require.ErrorIs(t, err, models.ErrConfigurationMissing)

	// однодневное окно допустимо
	require.NoError(t, mem.SaveSystemSettings(ctx, models.SystemSettings{
		Enabled:       true,
		FestiveWindow: &models.FestiveWindow{Start: start, End: start, Multiplier: decimal.NewFromInt(2)},
	}))
}

func TestCreateDefaultOnce(t *testing.T) {
	mem := NewMemoryDB()
	ctx := context.Background()

	ps, err := mem.Get(ctx, "P1")
	require.NoError(t, err)
	require.Nil(t, ps)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = mem.CreateDefault(ctx, "P1")
		}()
	}
	wg.Wait()

	list, err := mem.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	// существующая запись не перезаписывается
	custom := models.DefaultProductSettings("P1")
	custom.RedemptionEnabled = true
	require.NoError(t, mem.SaveProductSettings(ctx, custom))
	got, err := mem.CreateDefault(ctx, "P1")
	require.NoError(t, err)
	require.True(t, got.RedemptionEnabled)
}

func TestSaveProductSettingsValidates(t *testing.T) {
	mem := NewMemoryDB()
	err := mem.SaveProductSettings(context.Background(), models.ProductSettings{})
	require.ErrorIs(t, err, models.ErrInvalidSettings)
}

func TestFindByCodeNormalized(t *testing.T) {
	mem := NewMemoryDB()
	ctx := context.Background()

	saved, err := mem.SaveCoupon(ctx, models.Coupon{
		Code:          " summer10 ",
		DiscountType:  models.PERCENTAGE,
		DiscountValue: decimal.NewFromInt(10),
		StartDate:     time.Now(),
		Active:        true,
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, saved.ID)
	require.Equal(t, "SUMMER10", saved.Code)

	c, err := mem.FindByCode(ctx, "Summer10")
	require.NoError(t, err)
	require.NotNil(t, c)
	require.Equal(t, saved.ID, c.ID)

	c, err = mem.FindByCode(ctx, "WINTER")
	require.NoError(t, err)
	require.Nil(t, c)

	_, err = mem.SaveCoupon(ctx, models.Coupon{Code: "BAD", DiscountType: models.FLAT})
	require.ErrorIs(t, err, models.ErrInvalidSettings)
}

func TestRecordLimits(t *testing.T) {
	mem := NewMemoryDB()
	ctx := context.Background()
	couponId := uuid.New()
	total, perUser := int64(3), int64(2)
	limits := models.UsageLimits{Total: &total, PerUser: &perUser}

	use := func(user string) error {
		return mem.Record(ctx, models.CouponUsageRecord{ID: uuid.New(), CouponID: couponId, UserID: user}, limits)
	}
	require.NoError(t, use("u1"))
	require.NoError(t, use("u1"))
	require.ErrorIs(t, use("u1"), models.ErrPerUserLimitExceeded)
	require.NoError(t, use("u2"))
	require.ErrorIs(t, use("u3"), models.ErrUsageLimitExceeded)

	n, err := mem.CountGlobal(ctx, couponId)
	require.NoError(t, err)
	require.Equal(t, int64(3), n)
	n, err = mem.CountForUser(ctx, couponId, "u1")
	require.NoError(t, err)
	require.Equal(t, int64(2), n)

	// без лимитов запись всегда проходит
	require.NoError(t, mem.Record(ctx, models.CouponUsageRecord{ID: uuid.New(), CouponID: couponId, UserID: "u4"}, models.UsageLimits{}))
}

func TestApplyAtomicRollback(t *testing.T) {
	mem := NewMemoryDB()
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	w, err := mem.ApplyAtomic(ctx, "u1", func(ctx context.Context, w *models.Wallet, log interf.TransactionLog) error {
		tnx := models.NewTransaction("u1", models.MANUAL_ADD, 100, models.Reference{}, now)
		w.Apply(tnx.Amount)
		return log.Append(ctx, tnx)
	})
	require.NoError(t, err)
	require.Equal(t, int64(100), w.AvailableBalance)
	require.Equal(t, int64(1), w.Version)

	boom := errors.New("boom")
	_, err = mem.ApplyAtomic(ctx, "u1", func(ctx context.Context, w *models.Wallet, log interf.TransactionLog) error {
		tnx := models.NewTransaction("u1", models.MANUAL_REMOVE, 50, models.Reference{}, now)
		w.Apply(tnx.Amount)
		if err := log.Append(ctx, tnx); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	w, err = mem.GetOrCreate(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, int64(100), w.AvailableBalance)
	tnxs, err := mem.History(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, tnxs, 1)
}

func TestUsersWithExpiredCoins(t *testing.T) {
	mem := NewMemoryDB()
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	expires := now.Add(24 * time.Hour)

	for _, user := range []string{"u1", "u2"} {
		_, err := mem.ApplyAtomic(ctx, user, func(ctx context.Context, w *models.Wallet, log interf.TransactionLog) error {
			tnx := models.NewTransaction(user, models.EARNED, 10, models.Reference{}, now)
			if user == "u1" {
				tnx.ExpiresAt = &expires
			}
			w.Apply(tnx.Amount)
			return log.Append(ctx, tnx)
		})
		require.NoError(t, err)
	}

	users, err := mem.UsersWithExpiredCoins(ctx, now)
	require.NoError(t, err)
	require.Empty(t, users)

	users, err = mem.UsersWithExpiredCoins(ctx, expires)
	require.NoError(t, err)
	require.Equal(t, []string{"u1"}, users)
}
