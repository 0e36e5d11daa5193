package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	apihttp "energia-cloud/internal/api/http"
	clientapp "energia-cloud/internal/clients/application"
	clientrepo "energia-cloud/internal/clients/infrastructure/postgres"
	clienthttp "energia-cloud/internal/clients/interfaces/http"
	"energia-cloud/internal/config"
	dashboardapp "energia-cloud/internal/dashboard/application"
	dashboard "energia-cloud/internal/dashboard/domain"
	dashboardrepo "energia-cloud/internal/dashboard/infrastructure/postgres"
	dashboardhttp "energia-cloud/internal/dashboard/interfaces/http"
	"energia-cloud/internal/database"
	"energia-cloud/internal/database/migrations"
	invoiceapp "energia-cloud/internal/invoices/application"
	invoicerepo "energia-cloud/internal/invoices/infrastructure/postgres"
	invoicehttp "energia-cloud/internal/invoices/interfaces/http"
	"energia-cloud/internal/logging"
	"energia-cloud/internal/observability/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(cfg.Log.Level, cfg.Log.Format, cfg.ServiceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("service stopped", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.DatabaseURL, cfg.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migrations.Apply(ctx, db); err != nil {
		return err
	}

	clientRepo := clientrepo.NewClientRepository(db)
	invoiceRepo := invoicerepo.NewInvoiceRepository(db)
	summaryReader := dashboardrepo.NewSummaryReader(db)
	metrics.Init(clientRepo, invoiceRepo, logger)

	clientService, err := clientapp.NewService(clientRepo, invoiceRepo)
	if err != nil {
		return err
	}
	invoiceService, err := invoiceapp.NewService(invoiceRepo, clientRepo)
	if err != nil {
		return err
	}
	dashboardService, err := dashboardapp.NewService(summaryReader, dashboard.GroupBy(cfg.Dashboard.LossGroup), cfg.Dashboard.TopLosses)
	if err != nil {
		return err
	}

	clientHandler, err := clienthttp.NewHandler(clientService, logger)
	if err != nil {
		return err
	}
	invoiceHandler, err := invoicehttp.NewHandler(invoiceService, logger)
	if err != nil {
		return err
	}
	dashboardHandler, err := dashboardhttp.NewHandler(dashboardService, logger)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: apihttp.NewRouter(logger, db, clientHandler, invoiceHandler, dashboardHandler),
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("http listening", zap.String("addr", cfg.HTTPAddr))
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", zap.Duration("timeout", cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
