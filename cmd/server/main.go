package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/mgoulart/precifica/internal/config"
	"github.com/mgoulart/precifica/internal/domain/materials"
	"github.com/mgoulart/precifica/internal/domain/params"
	"github.com/mgoulart/precifica/internal/domain/pricing"
	"github.com/mgoulart/precifica/internal/domain/products"
	"github.com/mgoulart/precifica/internal/domain/quotes"
	"github.com/mgoulart/precifica/internal/infra/db"
	httpx "github.com/mgoulart/precifica/internal/infra/http"
	"github.com/mgoulart/precifica/internal/infra/logger"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

func runMigrations(dsn string) error {
	sqlDB, err := goose.OpenDBWithDriver("postgres", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()
	return goose.Up(sqlDB, "migrations")
}

func main() {
	cfg, err := config.Load("config/example.yaml")
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.App.Env)

	if err := runMigrations(cfg.Postgres.DSN); err != nil {
		log.Error("migrations failed", "err", err)
		return
	}
	log.Info("migrations applied")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Error("db connect failed", "err", err)
		return
	}
	defer pool.Close()
	log.Info("db connected")

	materialRepo := materials.NewRepo(pool)
	productRepo := products.NewRepo(pool)
	paramRepo := params.NewRepo(pool)
	quoteRepo := quotes.NewRepo(pool)

	pricer := pricing.NewService(productRepo, paramRepo, log)
	quoter := quotes.NewService(quoteRepo, pricer)

	handlers := &httpx.Handlers{
		Pricing:       pricer,
		Quotes:        quoter,
		Materials:     materialRepo,
		Params:        paramRepo,
		SheetsPerReam: cfg.Pricing.SheetsPerReam,
		Log:           log,
	}

	srv := httpx.New(cfg.HTTP.Addr, cfg.Metrics.Enabled, handlers)
	go func() {
		if err := srv.Start(); err != nil && err.Error() != "http: Server closed" {
			log.Error("http server error", "err", err)
		}
	}()
	log.Info("HTTP server started", "addr", cfg.HTTP.Addr)

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("graceful shutdown complete")
}
