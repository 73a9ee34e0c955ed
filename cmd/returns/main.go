// Job - обработка возвратов: монеты, начисленные за заказ, снимаются
package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	config "github.com/electrohub/loyalty/internal/config"
	db "github.com/electrohub/loyalty/internal/db"
	kafka "github.com/electrohub/loyalty/internal/external/kafka"
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

	// kafka
	reader, err := kafka.GetNewReader(cfg.Kafka, cfg.Kafka.ReturnsTopic)
	if err != nil {
		panic(err)
	}
	defer reader.CloseReader()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// database
	storage, _, closer, err := db.NewStorage(ctx, cfg, logger)
	if err != nil {
		panic(err)
	}
	defer closer()

	serv := services.NewLoyaltyService(storage, logger)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-interrupt
		cancel()
	}()

	wg := &sync.WaitGroup{}
	semaphore := make(chan struct{}, cfg.Workers.Returns)

	for ctx.Err() == nil {
		msg, err := reader.GetNewMessage(ctx)
		if err != nil {
			if ctx.Err() == nil {
				logger.Error("read return", zap.Error(err))
			}
			break
		}

		semaphore <- struct{}{}
		wg.Add(1)
		go func(msg kafka.Message) {
			defer wg.Done()
			defer func() { <-semaphore }()
			tnx, err := serv.ReturnProcess(ctx, msg.Value)
			if err != nil {
				logger.Error("return process", zap.Error(err), zap.String("return", msg.Value))
				return
			}
			if tnx != nil {
				logger.Info("coins reversed",
					zap.String("user", tnx.UserID),
					zap.String("order", tnx.ReferenceOrderID),
					zap.Int64("coins", -tnx.Amount),
				)
			}
			if err := reader.Commit(ctx, msg); err != nil {
				logger.Error("commit return", zap.Error(err))
			}
		}(msg)
	}
	wg.Wait()
}
