// Job - сгорание монет с истекшим сроком
package main

import (
	"context"
	"time"

	config "github.com/electrohub/loyalty/internal/config"
	db "github.com/electrohub/loyalty/internal/db"
	services "github.com/electrohub/loyalty/internal/services"
	"go.uber.org/zap"
)

func main() {
	// log
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// config
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	ctx := context.Background()

	// database
	storage, _, closer, err := db.NewStorage(ctx, cfg, logger)
	if err != nil {
		panic(err)
	}
	defer closer()

	serv := services.NewLoyaltyService(storage, logger)
	n, err := serv.ExpireAll(ctx, time.Now(), cfg.Workers.Expiry)
	if err != nil {
		logger.Error("expire coins", zap.Error(err))
		return
	}
	logger.Info("Job coin expiry is finished", zap.Int("wallets", n))
}
