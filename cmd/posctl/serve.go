package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"restopos/cmd/posctl/handlers"
	"restopos/cmd/posctl/validator"
	"restopos/internal/audit"
	"restopos/internal/config"
	"restopos/internal/events"
	"restopos/internal/health"
	"restopos/internal/ledger"
	"restopos/internal/notification"
	"restopos/internal/order"
	"restopos/internal/payment"
	"restopos/internal/readmodels"
	"restopos/internal/reconcile"
	"restopos/internal/recovery"
	"restopos/kit/broker"
	"restopos/kit/observability"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	logger := observability.NewLogger()
	metrics := observability.NewMetrics()
	bus := broker.New()

	conn, err := openDatabase(cfg, cfg.App.Migrations)
	if err != nil {
		return err
	}

	auditSvc := audit.NewService(logger)
	if cfg.App.AuditPath != "" {
		auditSvc, err = audit.NewServiceWithFile(logger, cfg.App.AuditPath)
		if err != nil {
			return err
		}
	}
	defer func() { _ = auditSvc.Close() }()

	checkout, push := gateways(cfg)

	orderRepo := order.NewGormRepository(conn)
	orderSvc := order.NewService(orderRepo, bus, metrics)
	ledgerSvc := ledger.NewService(ledger.NewGormRepository(conn))
	recoverySvc := recovery.NewService(recovery.NewGormRepository(conn), logger)
	paymentSvc := payment.NewService(orderSvc, ledgerSvc, checkout, push, bus, metrics)
	reconciler := reconcile.NewService(orderSvc, ledgerSvc, checkout, recoverySvc, bus, metrics, cfg.Gateway.VerifyTimeout)

	projector := readmodels.NewProjector()
	notificationSvc := notification.NewService(logger)
	healthSvc := health.NewService(cfg.App.HealthTTL, map[string]health.CheckFunc{
		"database": func(ctx context.Context) error {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	})

	for _, name := range []string{
		(events.PaymentInitiated{}).Name(),
		(events.PaymentReconciled{}).Name(),
		(events.ReconciliationFailed{}).Name(),
		(events.OrderPaid{}).Name(),
	} {
		bus.Subscribe(name, auditSvc.Trail)
		bus.Subscribe(name, projector.Apply)
		bus.Subscribe(name, notificationSvc.Dispatch)
	}

	jsonV := validator.NewJSON()
	orderH := handlers.NewOrder(jsonV, orderSvc, projector)
	paymentH := handlers.NewPayment(jsonV, paymentSvc, ledgerSvc, projector)
	callbackH := handlers.NewCallback(jsonV, reconciler)
	healthH := handlers.NewHealth(healthSvc)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Post("/orders", orderH.Create)
	r.Get("/orders/{id}", orderH.Get)
	r.Post("/orders/{id}/payments", paymentH.Initiate)
	r.Post("/orders/{id}/confirm", orderH.Confirm)
	r.Get("/payment-callback", callbackH.Redirect)
	r.Post("/payment-callback", callbackH.Webhook)
	r.Get("/payments/{reference}", paymentH.Get)
	r.Get("/healthz", healthH.Handler)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server started", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err.Error())
		return err
	}
	return nil
}
