// HTTP API программы лояльности: настройки, монеты, кошельки, купоны
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	api "github.com/electrohub/loyalty/internal/api"
	config "github.com/electrohub/loyalty/internal/config"
	db "github.com/electrohub/loyalty/internal/db"
	services "github.com/electrohub/loyalty/internal/services"
	otel "github.com/electrohub/loyalty/observability/otel"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
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
	if err := config.Required("http.port", cfg.HTTPPort); err != nil {
		panic(err)
	}

	ctx := context.Background()

	// tracing
	shutdown, err := otel.InitTracer(ctx, cfg.OtelEndpoint, "loyalty", logger)
	if err != nil {
		panic(err)
	}
	defer shutdown()

	// database
	storage, admin, closer, err := db.NewStorage(ctx, cfg, logger)
	if err != nil {
		panic(err)
	}
	defer closer()

	// api handlers
	serv := services.NewLoyaltyService(storage, logger)
	handler := api.NewHandler(serv, admin, logger)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", otelhttp.NewHandler(handler, "loyalty"))

	srv := &http.Server{
		Handler:      mux,
		Addr:         ":" + cfg.HTTPPort,
		WriteTimeout: 10 * time.Second,
		ReadTimeout:  10 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", zap.Error(err))
		}
	}()

	// shutdown
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	<-interrupt
	timeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = srv.Shutdown(timeout)
	if err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
}
