// gRPC server - баланс, история транзакций и товары за монеты
package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	serv "github.com/electrohub/loyalty/internal/api/grpc"
	config "github.com/electrohub/loyalty/internal/config"
	db "github.com/electrohub/loyalty/internal/db"
	services "github.com/electrohub/loyalty/internal/services"
	"go.uber.org/zap"
	"google.golang.org/grpc"
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
	if err := config.Required("grpc.port", cfg.GRPCPort); err != nil {
		panic(err)
	}

	// database
	storage, _, closer, err := db.NewStorage(context.Background(), cfg, logger)
	if err != nil {
		panic(err)
	}
	defer closer()

	lis, err := net.Listen("tcp", "0.0.0.0:"+cfg.GRPCPort)
	if err != nil {
		panic(err)
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	grpcServer := grpc.NewServer()
	serv.RegisterWalletServer(grpcServer, serv.NewWalletService(services.NewLoyaltyService(storage, logger), logger))

	go func() {
		err := grpcServer.Serve(lis)
		if err != nil {
			logger.Fatal("gRPC server failed", zap.Error(err))
		}
	}()

	<-interrupt
	grpcServer.GracefulStop()
}
