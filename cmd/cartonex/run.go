package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"cartonex/gateway/pkg/cache"
	"cartonex/gateway/pkg/config"
	"cartonex/gateway/pkg/limits/ratelimit"
	"cartonex/gateway/pkg/providers/openai"
	"cartonex/gateway/pkg/proxy/handlers"
	"cartonex/gateway/pkg/routing"
	"cartonex/gateway/pkg/security/auth"
	"cartonex/gateway/pkg/server"
	"cartonex/gateway/pkg/store"
	"cartonex/gateway/pkg/telemetry/logging"
	"cartonex/gateway/pkg/telemetry/metrics"
	"cartonex/gateway/pkg/telemetry/tracing"
	"cartonex/gateway/pkg/usage"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	watchConfig   bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the gateway",
	Long: `Start the gateway with the specified configuration.

Examples:
  # Start with the default config file
  cartonex run

  # Start with a custom config file
  cartonex run --config /etc/cartonex/config.yaml

  # Override the listen address
  cartonex run --listen 0.0.0.0:8080

  # Reload the shared secret, log level, and pricing on config changes
  cartonex run --watch-config`,
	RunE: runGateway,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.watchConfig, "watch-config", false, "reload runtime settings on config file changes")
}

func runGateway(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Logging.Level = runFlags.logLevel
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	logger, levelVar, err := logging.New(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.AddSource,
	})
	if err != nil {
		return fmt.Errorf("failed to configure logging: %w", err)
	}
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("tracing shutdown failed", "error", err)
		}
	}()

	kv, err := store.Open(ctx, store.Options{
		Backend:    cfg.Store.Backend,
		RedisURL:   cfg.Store.RedisURL,
		SQLitePath: cfg.Store.SQLitePath,
	})
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer kv.Close()
	logger.Info("store opened", "backend", cfg.Store.Backend)

	authenticator, err := auth.NewAuthenticator(cfg.Auth.SharedSecret, logger)
	if err != nil {
		return fmt.Errorf("failed to create authenticator: %w", err)
	}

	limiter, err := ratelimit.New(ratelimit.LimiterConfig{
		Store:  store.NewNamespace(kv, "rate_limit"),
		Limit:  cfg.RateLimit.Limit,
		Window: cfg.RateLimit.Window,
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create rate limiter: %w", err)
	}

	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		collector = metrics.NewCollector(nil)
	}

	cacheConfig := cache.CacheConfig{
		Store:  store.NewNamespace(kv, "cache"),
		Logger: logger,
	}
	if collector != nil {
		cacheConfig.Metrics = collector
	}
	responseCache, err := cache.New(cacheConfig)
	if err != nil {
		return fmt.Errorf("failed to create cache: %w", err)
	}

	router, err := routing.NewRouter(routing.RouterConfig{
		FastModel:    cfg.Upstream.FastModel,
		CapableModel: cfg.Upstream.CapableModel,
		Logger:       logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create router: %w", err)
	}

	provider, err := openai.NewClient(openai.ClientConfig{
		Name:    cfg.Upstream.Name,
		BaseURL: cfg.Upstream.BaseURL,
		APIKey:  cfg.Upstream.APIKey,
		Timeout: cfg.Upstream.Timeout,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create upstream client: %w", err)
	}

	pricer := usage.NewPricer(cfg.Usage.Pricing)
	recorder, err := usage.NewRecorder(usage.RecorderConfig{
		Store:  store.NewNamespace(kv, "usage"),
		Pricer: pricer,
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create usage recorder: %w", err)
	}

	// SQLite emulates TTLs; a scheduled sweep keeps the file from growing
	// with dead entries. Redis and the memory backend expire natively.
	if sweeper, ok := kv.(usage.Sweeper); ok && cfg.Usage.RetentionSchedule != "" {
		scheduler := usage.NewRetentionScheduler(sweeper, cfg.Usage.RetentionSchedule, logger)
		if err := scheduler.Start(ctx); err != nil {
			return fmt.Errorf("failed to start retention scheduler: %w", err)
		}
		defer scheduler.Stop()
	}

	generateConfig := handlers.GenerateHandlerConfig{
		Authenticator: authenticator,
		Limiter:       limiter,
		Cache:         responseCache,
		Router:        router,
		Provider:      provider,
		Recorder:      recorder,
		Pricer:        pricer,
		Logger:        logger,
	}
	if collector != nil {
		generateConfig.Metrics = collector
	}
	generateHandler, err := handlers.NewGenerateHandler(generateConfig)
	if err != nil {
		return fmt.Errorf("failed to create generate handler: %w", err)
	}

	srvHandlers := server.Handlers{
		Generate: generateHandler,
		Health:   handlers.NewHealthHandler(Version),
		Ready:    handlers.NewReadyHandler(kv),
		Usage:    handlers.NewUsageHandler(authenticator, recorder),
	}
	if collector != nil {
		srvHandlers.Metrics = collector.Handler()
	}

	srv, err := server.New(cfg.Server, srvHandlers, logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	if runFlags.watchConfig {
		watcher, err := config.NewWatcher(cfgFile, logger)
		if err != nil {
			return fmt.Errorf("failed to create config watcher: %w", err)
		}
		go func() {
			err := watcher.Watch(ctx, func(next *config.Config) {
				applyRuntimeConfig(next, authenticator, levelVar, pricer, logger)
			})
			if err != nil {
				logger.Error("config watcher exited", "error", err)
			}
		}()
	}

	return srv.Start(ctx)
}

// applyRuntimeConfig applies the hot-reloadable subset of a freshly
// loaded config: the shared secret, the log level, and the pricing
// table. Everything else requires a restart.
func applyRuntimeConfig(cfg *config.Config, authenticator *auth.Authenticator, levelVar *slog.LevelVar, pricer *usage.Pricer, logger *slog.Logger) {
	if err := authenticator.SetSecret(cfg.Auth.SharedSecret); err != nil {
		logger.Error("failed to rotate shared secret", "error", err)
	}

	if level, err := logging.ParseLevel(cfg.Logging.Level); err != nil {
		logger.Warn("invalid log level in reloaded config", "level", cfg.Logging.Level)
	} else {
		levelVar.Set(level)
	}

	pricer.Update(cfg.Usage.Pricing)
}
