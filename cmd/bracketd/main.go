package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	tennisbracket "github.com/justinjudd/tennisbracket"
	"github.com/justinjudd/tennisbracket/config"
	"github.com/justinjudd/tennisbracket/hub"
	"github.com/justinjudd/tennisbracket/models/storm"
	"github.com/justinjudd/tennisbracket/server"
	"github.com/justinjudd/tennisbracket/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("bracketd stopped", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("bracketd stopped")
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	logger.Info("configuration loaded", slog.String("addr", cfg.Addr), slog.String("db", cfg.DBPath))

	engine, err := storm.NewStorageEngine(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := engine.Close(); err != nil {
			logger.Error("failed to close bracket store", slog.Any("error", err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	board := tennisbracket.NewBoard(engine, logger)
	wsHub := hub.NewHub(logger)

	opts := []server.Option{
		server.WithLogger(logger),
		server.WithHub(wsHub),
		server.WithOrigins(cfg.CORSOrigins),
	}
	uploader, err := storage.NewR2Uploader(ctx, cfg.R2())
	switch {
	case err == nil:
		opts = append(opts, server.WithUploader(uploader))
		logger.Info("bracket export enabled", slog.String("bucket", cfg.R2Bucket))
	case errors.Is(err, storage.ErrNotConfigured):
		logger.Info("bracket export disabled")
	default:
		return fmt.Errorf("set up bracket export: %w", err)
	}

	srv := server.New(board, opts...)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return wsHub.Run(gctx)
	})
	g.Go(func() error {
		return srv.ListenAndServe(gctx, cfg.Addr, cfg.ShutdownTimeout)
	})

	return g.Wait()
}
