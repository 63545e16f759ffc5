// The worker consumes paid-order events and maintains the payment audit
// trail. It shares the schema with the API and is safe to run in parallel.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/arkade-dev/storefront-api/internal/audit"
	"github.com/arkade-dev/storefront-api/internal/config"
	kafkax "github.com/arkade-dev/storefront-api/internal/kafka"
	"github.com/arkade-dev/storefront-api/internal/logx"
	"github.com/arkade-dev/storefront-api/internal/orders"
	"github.com/arkade-dev/storefront-api/internal/postgres"
	"github.com/arkade-dev/storefront-api/internal/redisx"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logx.Init(cfg.ServiceName + "-worker")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		slog.Error("db connect", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		slog.Error("schema bootstrap", "error", err)
		os.Exit(1)
	}

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &audit.Service{
		Repo:        &audit.Repo{DB: db},
		Redis:       rdb,
		ServiceName: cfg.ServiceName + "-worker",
	}

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		slog.Info("shutting down")
		cancel()
	}()

	consumer := kafkax.NewConsumer(cfg.KafkaBrokers, "storefront-audit", orders.TopicOrderPaid, 4)
	slog.Info("consuming", "topic", orders.TopicOrderPaid)
	if err := consumer.Start(ctx, svc.HandleOrderPaid); err != nil {
		slog.Error("consumer stopped", "error", err)
		os.Exit(1)
	}
}
