package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/mlipski/salesledger/internal/auth"
	"github.com/mlipski/salesledger/internal/config"
	"github.com/mlipski/salesledger/internal/database"
	ledgerHttp "github.com/mlipski/salesledger/internal/http"
	authHandler "github.com/mlipski/salesledger/internal/http/auth"
	healthHandler "github.com/mlipski/salesledger/internal/http/health"
	importHandler "github.com/mlipski/salesledger/internal/http/importcsv"
	reportHandler "github.com/mlipski/salesledger/internal/http/report"
	txHandler "github.com/mlipski/salesledger/internal/http/transaction"
	"github.com/mlipski/salesledger/internal/importer"
	importStore "github.com/mlipski/salesledger/internal/importer/store"
	"github.com/mlipski/salesledger/internal/report"
	reportStore "github.com/mlipski/salesledger/internal/report/store"
	"github.com/mlipski/salesledger/internal/transaction"
	txStore "github.com/mlipski/salesledger/internal/transaction/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(context.Background(), cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var (
		authService        = auth.NewService(cfg.Auth.Enabled, cfg.Auth.Secret, cfg.Auth.APIToken, cfg.Auth.TokenTTL)
		transactionService = transaction.NewService(txStore.New(db))
		importService      = importer.NewService(importStore.New(db))
		reportService      = report.NewService(reportStore.New(db), cfg.ExchangeRates())
	)

	var (
		transactionH = txHandler.NewHandler(transactionService)
		importH      = importHandler.NewHandler(importService, cfg.Server.MaxUploadSize)
		reportH      = reportHandler.NewHandler(reportService)
		authH        = authHandler.NewHandler(authService)
		healthH      = healthHandler.NewHandler(db)
	)

	router := ledgerHttp.New(authService, transactionH, importH, reportH, authH, healthH)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	slog.Info("starting server", "addr", server.Addr)

	if err := server.ListenAndServe(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
