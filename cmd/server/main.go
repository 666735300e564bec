package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"keygate/internal/license"
	licmetrics "keygate/internal/license/metrics"
	"keygate/internal/platform/config"
	"keygate/internal/platform/health"
	"keygate/internal/platform/logger"
	"keygate/internal/platform/tracer"
	"keygate/internal/registry"
	regmetrics "keygate/internal/registry/metrics"
	httptransport "keygate/internal/transport/http"
	"keygate/internal/verdict"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	signer, err := verdict.NewSigner(cfg.SigningSeed, cfg.SharedSecret)
	if err != nil {
		log.Error("could not construct signer", "error", err)
		os.Exit(1)
	}

	log.Info("initializing keygate",
		"addr", cfg.Addr,
		"scheme", signer.Mode().String(),
		"store_file", cfg.StoreFile,
	)

	store := registry.NewStoreClient(
		cfg.StoreBaseURL, cfg.StoreToken, cfg.StoreID, cfg.StoreFile, cfg.StoreTimeout,
	)
	reader := registry.NewReader(store,
		registry.WithLogger(log),
		registry.WithMetrics(regmetrics.New()),
		registry.WithTracer(tracer.NewOTel()),
	)

	service := license.New(reader, signer,
		license.WithLogger(log),
		license.WithMetrics(licmetrics.New()),
		license.WithTracer(tracer.NewOTel()),
		license.WithTokenTTL(cfg.TokenTTL),
	)

	hc := health.New(cfg.Environment)
	hc.RegisterCheck("registry_store", func() error {
		if !reader.Ready() {
			return errors.New("store circuit open")
		}
		return nil
	})

	handler := httptransport.NewHandler(service, log)
	router := httptransport.NewRouter(handler, hc, log, httptransport.RouterConfig{
		IssueKeyHash: cfg.IssueKeyHash,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down server gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
