// Job - обработка новых заказов
// Опрос Kafka -> начисление монет по позициям заказа
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
	reader, err := kafka.GetNewReader(cfg.Kafka, cfg.Kafka.OrdersTopic)
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

	// os signals
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-interrupt
		cancel()
	}()

	wg := &sync.WaitGroup{}
	semaphore := make(chan struct{}, cfg.Workers.Orders)

	for ctx.Err() == nil {
		msg, err := reader.GetNewMessage(ctx)
		if err != nil {
			if ctx.Err() == nil {
				logger.Error("read order", zap.Error(err))
			}
			break
		}

		semaphore <- struct{}{}
		wg.Add(1)
		go func(msg kafka.Message) {
			defer wg.Done()
			defer func() { <-semaphore }()
			_, err := serv.OrderProcess(ctx, msg.Value)
			if err != nil {
				logger.Error("order process", zap.Error(err), zap.String("order", msg.Value))
				return
			}
			if err := reader.Commit(ctx, msg); err != nil {
				logger.Error("commit order", zap.Error(err))
			}
		}(msg)
	}
	wg.Wait()
}
