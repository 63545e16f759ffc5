package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/arkade-dev/storefront-api/internal/auth"
	"github.com/arkade-dev/storefront-api/internal/catalog"
	"github.com/arkade-dev/storefront-api/internal/config"
	"github.com/arkade-dev/storefront-api/internal/httpx"
	kafkax "github.com/arkade-dev/storefront-api/internal/kafka"
	"github.com/arkade-dev/storefront-api/internal/logx"
	"github.com/arkade-dev/storefront-api/internal/orders"
	"github.com/arkade-dev/storefront-api/internal/payments"
	"github.com/arkade-dev/storefront-api/internal/postgres"
	"github.com/arkade-dev/storefront-api/internal/redisx"
	"github.com/arkade-dev/storefront-api/internal/reviews"
	"github.com/arkade-dev/storefront-api/internal/users"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logx.Init(cfg.ServiceName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
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

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producers, one per topic
	createdProd := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderCreated, 1024)
	createdProd.Start(ctx)
	paidProd := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderPaid, 1024)
	paidProd.Start(ctx)

	// Collaborators
	productRepo := &catalog.Repo{DB: db}
	productCache := &catalog.Cache{Next: productRepo, Redis: rdb}
	sessions := &auth.Sessions{Redis: rdb}
	userRepo := &users.Repo{DB: db}
	reviewRepo := &reviews.Repo{DB: db}

	// The gateway is stubbed; swap in the real client here when it exists.
	paymentSvc := payments.NewFake()

	orderSvc := &orders.Service{
		Pricer:          &orders.Pricer{Catalog: productCache},
		Payments:        paymentSvc,
		Store:           &orders.Repo{DB: db},
		CreatedProducer: createdProd,
		PaidProducer:    paidProd,
		ServiceName:     cfg.ServiceName,
	}

	router := httpx.NewRouter(httpx.Handlers{
		Auth:     &httpx.AuthHandler{Users: userRepo, Sessions: sessions},
		Users:    &httpx.UsersHandler{Repo: userRepo},
		Products: &httpx.ProductsHandler{Repo: productRepo, Cache: productCache},
		Reviews:  &httpx.ReviewsHandler{Repo: reviewRepo, Catalog: productCache},
		Orders:   &httpx.OrdersHandler{Service: orderSvc},
		Sessions: sessions,
	})

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		slog.Info("http listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("listen", "error", err)
			os.Exit(1)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	slog.Info("shutting down")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)

	createdProd.Close()
	paidProd.Close()
	cancel()
	createdProd.WaitClosed()
	paidProd.WaitClosed()
}
