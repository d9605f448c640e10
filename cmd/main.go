package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/angeloszaimis/guid-writer/config"
	"github.com/angeloszaimis/guid-writer/internal/handler"
	"github.com/angeloszaimis/guid-writer/internal/httpserver"
	"github.com/angeloszaimis/guid-writer/internal/metrics"
	"github.com/angeloszaimis/guid-writer/internal/store"
	"github.com/angeloszaimis/guid-writer/pkg/logger"
)

const metricsBufferSize = 1000

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("err", err))
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.AddSource, cfg.Server.Environment)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Clients are built once per cold start and shared by every invocation.
	objects, records, err := initializeStores(cfg)
	if err != nil {
		log.Error("Failed to initialize storage clients", slog.Any("err", err))
		os.Exit(1)
	}

	switch cfg.Server.Mode {
	case config.ModeLocal:
		collector := metrics.NewCollector(metricsBufferSize, log)
		collector.Start(ctx)

		h := handler.New(log, cfg.Storage, objects, records, handler.WithCollector(collector))

		srv, err := httpserver.New(cfg.Server.Address, setupRouter(h, collector, log), log)
		if err != nil {
			log.Error("Failed to create server", slog.Any("err", err))
			os.Exit(1)
		}

		if err := srv.Run(ctx); err != nil {
			log.Error("Server stopped with error", slog.Any("err", err))
			os.Exit(1)
		}
	default:
		h := handler.New(log, cfg.Storage, objects, records)

		log.Info("Starting Lambda handler",
			slog.String("bucket", cfg.Storage.Bucket),
			slog.String("table", cfg.Storage.Table))
		lambda.StartWithOptions(h.Handle, lambda.WithContext(ctx))
	}
}

func initializeStores(cfg *config.Config) (store.ObjectWriter, store.RecordWriter, error) {
	if cfg.Storage.Backend == config.BackendMemory {
		mem := store.NewMemory()
		return mem, mem, nil
	}

	sess, err := store.NewSession(cfg.AWS)
	if err != nil {
		return nil, nil, err
	}

	return store.NewS3Store(s3.New(sess)), store.NewDynamoStore(dynamodb.New(sess)), nil
}
