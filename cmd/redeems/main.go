// Job - обработка списаний монет
package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	config "github.com/electrohub/loyalty/internal/config"
	db "github.com/electrohub/loyalty/internal/db"
	rabbit "github.com/electrohub/loyalty/internal/external/rabbitmq"
	models "github.com/electrohub/loyalty/internal/models"
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

	// rabbitmq
	reader, err := rabbit.NewRabbitConsumer(cfg.Rabbit)
	if err != nil {
		logger.Error(err.Error())
		panic(err)
	}
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// database
	storage, _, closer, err := db.NewStorage(ctx, cfg, logger)
	if err != nil {
		logger.Error(err.Error())
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

	// workers
	wg := &sync.WaitGroup{}
	wg.Add(cfg.Workers.Redeems)
	for i := 0; i < cfg.Workers.Redeems; i++ {
		go worker(ctx, serv, wg, logger, reader)
	}
	wg.Wait()
}

// worker for rabbitmq messages
func worker(ctx context.Context, serv *services.LoyaltyService, wg *sync.WaitGroup, logger *zap.Logger, reader *rabbit.RabbitConsumer) {
	defer wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-reader.Msg:
			if !ok {
				return
			}
			redeemId, err := serv.Redeem(ctx, string(msg.Body))
			if redeemId == "" {
				// нечитаемый запрос - повторять бессмысленно
				logger.Error("redeem request", zap.Error(err), zap.ByteString("body", msg.Body))
				_ = msg.Nack(false, false)
				continue
			}
			confirm := models.RedeemConfirm{RedeemID: redeemId, Success: err == nil}
			if err != nil {
				logger.Error("redeem", zap.String("redeem", redeemId), zap.Error(err))
				confirm.Error = err.Error()
			}
			// списание уже проведено, сообщение подтверждаем даже без отправленного подтверждения
			if err := reader.Processed(ctx, confirm); err != nil {
				logger.Error("redeem confirm", zap.String("redeem", redeemId), zap.Error(err))
			}
			_ = msg.Ack(false)
		}
	}
}
