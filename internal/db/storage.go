package loyalty

import (
	"context"

	config "github.com/electrohub/loyalty/internal/config"
	interf "github.com/electrohub/loyalty/internal/interfaces"
	"go.uber.org/zap"
)

// NewStorage connects Postgres, Mongo and redis. Redis is optional: without it balances are read from Postgres.
func NewStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage interf.Storage, admin interf.SettingsAdmin, closer func(), err error) {
	ledger, err := NewLedgerDB(ctx, cfg.Postgres, logger)
	if err != nil {
		return storage, nil, nil, err
	}
	if err = ledger.EnsureSchema(ctx); err != nil {
		ledger.Close()
		return storage, nil, nil, err
	}
	settings, err := NewSettingsDB(cfg.Mongo)
	if err != nil {
		ledger.Close()
		return storage, nil, nil, err
	}
	storage = interf.Storage{
		Settings: settings,
		Products: settings,
		Wallets:  ledger,
		Coupons:  settings,
		Usage:    ledger,
	}

	// cache
	cache, err := NewCacheService(cfg.Redis)
	if err != nil {
		logger.Error("cache is not available", zap.Error(err))
	} else {
		storage.Cache = cache
	}

	closer = func() {
		if cache != nil {
			cache.Close()
		}
		_ = settings.Close(context.Background())
		ledger.Close()
	}
	return storage, settings, closer, nil
}
