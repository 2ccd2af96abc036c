package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/shopfront/fulfillment/internal/config"
	"github.com/shopfront/fulfillment/internal/db"
	"github.com/shopfront/fulfillment/internal/fulfillment"
	"github.com/shopfront/fulfillment/internal/kafka"
	"github.com/shopfront/fulfillment/internal/lifecycle"
	"github.com/shopfront/fulfillment/internal/logger"
	"github.com/shopfront/fulfillment/internal/repository/postgresql"
	"github.com/shopfront/fulfillment/internal/server"
	"github.com/shopfront/fulfillment/internal/storage"
)

func main() {
	configPath := flag.String("config", "", "path to yaml config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Println("Config load error:", err)
		return
	}

	log := logger.New(cfg.App.LogLevel)
	defer func() { _ = log.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, err := buildStore(ctx, cfg)
	if err != nil {
		log.Fatal("storage init failed", zap.Error(err))
	}

	svc := fulfillment.NewService(store, lifecycle.NewEngine(), log, time.Now)

	var producer kafka.Producer
	if cfg.Kafka.Enabled {
		producer = kafka.NewWriterProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	} else {
		producer = kafka.NewConsoleProducer(cfg.Kafka.Topic)
	}
	audit := server.NewAuditManager(producer, cfg.Audit.Workers, cfg.Audit.BatchSize, cfg.Audit.FlushInterval)

	srv := server.New(svc, audit, log)

	metricsSrv := &http.Server{
		Addr:    cfg.Metrics.Addr,
		Handler: promhttp.Handler(),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx, cfg.HTTP.Addr)
	})
	g.Go(func() error {
		log.Info("metrics server starting", zap.String("addr", cfg.Metrics.Addr))
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		return metricsSrv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
	log.Info("server gracefully stopped")
}

func buildStore(ctx context.Context, cfg *config.Config) (fulfillment.Store, error) {
	switch cfg.Storage.Backend {
	case "postgres":
		database, err := db.NewDb(ctx)
		if err != nil {
			return nil, fmt.Errorf("database init: %w", err)
		}
		return storage.NewPostgresStorage(
			database,
			postgresql.NewOrderRepo(database),
			postgresql.NewReturnRepo(database),
			postgresql.NewHistoryRepo(database),
		), nil
	case "file":
		return storage.NewFileStorage(cfg.Storage.FilePath)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
