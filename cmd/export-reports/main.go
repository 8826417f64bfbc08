package main

import (
	"context"
	"fmt"
	"log"

	"github.com/flrdepot/crm-backend/internal/config"
	"github.com/flrdepot/crm-backend/internal/db"
	"github.com/flrdepot/crm-backend/internal/export"
	"github.com/flrdepot/crm-backend/internal/logger"
	"github.com/flrdepot/crm-backend/internal/repository"
	"github.com/flrdepot/crm-backend/internal/service"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("export failed: %v", err)
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

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ExportTimeout)
	defer cancel()

	gdb, err := db.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return fmt.Errorf("sql db: %w", err)
	}
	defer sqlDB.Close()

	sink, err := export.NewGCSSink(ctx, cfg.ReportBucket, cfg.GCPCredentialsFile)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	defer sink.Close()

	reports := service.NewReportService(
		service.NewGate(repository.NewUserRepository(gdb), nil),
		repository.NewTransactionRepository(gdb),
		repository.NewProductRepository(gdb),
		repository.NewOrderRepository(gdb),
		repository.NewComplaintRepository(gdb),
	)
	names, err := export.NewExporter(reports, sink, cfg.ReportPrefix).Export(ctx)
	if err != nil {
		return err
	}
	for _, n := range names {
		logger.Info("uploaded", zap.String("bucket", cfg.ReportBucket), zap.String("object", n))
	}
	return nil
}
