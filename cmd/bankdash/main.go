package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"bankdash/internal/amqp"
	"bankdash/internal/backend"
	"bankdash/internal/cache"
	"bankdash/internal/cli"
	"bankdash/internal/config"
	"bankdash/internal/dashboard"
	"bankdash/internal/dataset"
	apphttp "bankdash/internal/http"
	"bankdash/internal/log"
	"bankdash/internal/session"
	"bankdash/internal/worker"
)

func main() {
	datasetPath := flag.String("dataset", "", "path to the banking CSV (overrides DATASET_PATH and selects the csv backend)")
	flag.Parse()

	cli.LoadEnvFile()
	if *datasetPath != "" {
		_ = os.Setenv("DATASET_PATH", *datasetPath)
		_ = os.Setenv("DATA_BACKEND", config.BackendCSV)
	}

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)
	logger.Info("Starting bankdash", log.FieldOperation, log.OpStartup, "backend", cfg.DataBackend)

	ctx, cancel := cli.SignalContext(logger)
	defer cancel()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}
	src, err := backend.NewFactory(logger.WithComponent(log.ComponentBackend).Logger).CreateSource(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to create data source", log.FieldError, err)
		os.Exit(1)
	}
	defer src.Close()

	provider := dataset.NewProvider(src.Source)
	if _, err := provider.Reload(ctx); err != nil {
		logger.Error("Failed to load dataset", log.FieldOperation, log.OpLoad, log.FieldError, err)
		os.Exit(1)
	}

	caches := cache.NewManager()
	caches.StartCleanup(5 * time.Minute)
	defer caches.Stop()

	sessions := session.NewManager(
		session.NewAuthenticator(cfg.DashboardUsername, cfg.DashboardPassword),
		cfg.MaxSessions, cfg.SessionTTL, caches)
	svc := dashboard.NewService(dashboard.Options{
		CacheSize: cfg.ResultCacheSize,
		CacheTTL:  cfg.ResultCacheTTL,
	}, caches, logger)

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Provider:               provider,
		Sessions:               sessions,
		Dashboard:              svc,
		Logger:                 logger,
		LoginAttemptsPerMinute: cfg.LoginAttemptsPerMinute,
		TrustedProxies:         cfg.TrustedProxies,
	})

	reloader := worker.NewReloadWorker(provider, logger)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting HTTP server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		logger.Info("Shutting down HTTP server", log.FieldOperation, log.OpShutdown)
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		return reloader.Run(gctx, cfg.ReloadInterval)
	})

	if cfg.AMQPEnabled() {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", log.FieldError, err)
			os.Exit(1)
		}
		defer amqpClient.Close()

		g.Go(func() error {
			err := amqpClient.ConsumeDatasetImported(gctx, reloader.HandleDatasetImported)
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	} else {
		logger.Info("AMQP disabled, dataset reloads only on interval or restart")
	}

	err = g.Wait()
	reloads, failures := reloader.Stats()
	if err != nil {
		logger.Error("Server stopped with error", log.FieldError, err, "reloads", reloads, "reload_failures", failures)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully", "reloads", reloads, "reload_failures", failures)
}
