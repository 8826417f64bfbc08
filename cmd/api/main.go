package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/flrdepot/crm-backend/internal/cache"
	"github.com/flrdepot/crm-backend/internal/config"
	"github.com/flrdepot/crm-backend/internal/db"
	"github.com/flrdepot/crm-backend/internal/logger"
	"github.com/flrdepot/crm-backend/internal/server"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

var (
	gitSHA    = "dev"
	buildTime = ""
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("api: %v", err)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := logger.Init(cfg.LogLevel, cfg.LogFormat); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	conn, err := db.Connect(cfg)
	if err != nil {
		logger.Error("db connect error", zap.Error(err))
		return fmt.Errorf("connect db: %w", err)
	}
	defer func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()
	if err := db.Migrate(conn); err != nil {
		logger.Error("auto migrate error", zap.Error(err))
		return fmt.Errorf("migrate: %w", err)
	}

	var links cache.LinkCache
	if cfg.RedisAddr != "" {
		client, err := cache.NewRedisClient(context.Background(), cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Warn("redis unavailable; retailer links read from db", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		} else {
			defer client.Close()
			links = cache.NewRedisLinkCache(client, cfg.LinkCacheTTL)
		}
	}

	srv := server.New(conn, cfg, links, gitSHA, buildTime)
	stopMonitor := srv.Monitor(cfg).Start()

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", addr), zap.String("git_sha", gitSHA))
		errCh <- srv.Start(addr)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sig)

	var serveErr error
	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", zap.Error(err))
			serveErr = fmt.Errorf("serve: %w", err)
		}
	case s := <-sig:
		logger.Info("shutting down", zap.String("signal", s.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("server shutdown", zap.Error(err))
	}
	if err := stopMonitor(ctx); err != nil {
		logger.Warn("monitor shutdown", zap.Error(err))
	}
	return serveErr
}
