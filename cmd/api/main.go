package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"servicofacil/internal/config"
	"servicofacil/internal/httpserver"
	"servicofacil/internal/metrics"
	accountsvc "servicofacil/internal/service/account"
	clientsvc "servicofacil/internal/service/client"
	ordersvc "servicofacil/internal/service/order"
	itemsvc "servicofacil/internal/service/serviceitem"
	"servicofacil/internal/store"
)

func main() {
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)
	cfg, err := config.Load("")
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	ctx := context.Background()
	st, err := store.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("open store: %v", err)
	}
	defer st.Close()

	if err := st.Migrate(ctx); err != nil {
		logger.Fatalf("apply migrations: %v", err)
	}

	srv, err := httpserver.New(ctx, cfg.HTTPAddr, logger, httpserver.Deps{
		DB:          st,
		Clients:     clientsvc.New(st.Clients),
		Items:       itemsvc.New(st.Items),
		Orders:      ordersvc.New(st.Orders, cfg.DeliveryMethods),
		Accounts:    accountsvc.New(st.Accounts),
		Metrics:     metrics.New(),
		CORSOrigins: cfg.CORSOrigins,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s (driver=%s)", cfg.HTTPAddr, st.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
