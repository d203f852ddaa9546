package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"google.golang.org/grpc"

	"scamshield/internal/api"
	"scamshield/internal/api/handlers"
	"scamshield/internal/config"
	"scamshield/internal/domain/services"
	"scamshield/internal/domain/services/ml"
	"scamshield/internal/grpc/health"
	"scamshield/internal/infrastructure/cache"
	"scamshield/internal/infrastructure/database"
	"scamshield/internal/infrastructure/database/repository"
	"scamshield/internal/infrastructure/memstore"
	"scamshield/internal/streaming"
	"scamshield/pkg/logger"
)

// stores bundles the ports the scanner runs against
type stores struct {
	denylist services.DenylistStore
	writer   services.DenylistWriter
	history  services.HistoryStore
	checks   map[string]health.Pinger
}

func main() {
	configPath := os.Getenv("SCAMSHIELD_CONFIG")
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := newLogger(cfg)
	logger.SetGlobal(log)

	log.Info().
		Str("app", cfg.App.Name).
		Str("env", cfg.App.Environment).
		Str("version", cfg.App.Version).
		Msg("starting ScamShield")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Infrastructure
	db, redisCache := initInfrastructure(ctx, cfg, log)
	defer func() {
		if db != nil {
			db.Close()
		}
		if redisCache != nil {
			redisCache.Close()
		}
	}()

	st := buildStores(cfg, db, redisCache, log)

	if cfg.Scan.SeedDenylists {
		if _, err := services.SeedDenylists(ctx, st.writer, services.DefaultDenylistSeed(), log); err != nil {
			log.Error().Err(err).Msg("denylist seeding failed, continuing")
		}
	}

	// Statistical model, trained before any traffic is served
	classifier := ml.NewClassifier(log)
	if err := classifier.Initialize(ml.SeedCorpus); err != nil {
		log.Error().Err(err).Msg("statistical layer unavailable")
	}

	// Streaming
	var sink streaming.Sink
	if cfg.NATS.Enabled {
		natsPublisher, err := streaming.NewNATSPublisher(ctx, cfg.NATS, log)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to NATS, continuing without scan events")
		} else {
			defer natsPublisher.Close()
			sink = natsPublisher
		}
	}
	eventBus := streaming.NewEventBus(sink, log)
	defer eventBus.Close()
	wsHub := streaming.NewWebSocketHub(eventBus, nil, log)

	// Scoring pipeline
	scanner := services.NewScanner(
		services.NewRuleEngine(),
		services.NewDenylistChecker(st.denylist, services.DenylistConfig{
			Timeout:      cfg.Scan.DenylistTimeout,
			PatternLimit: cfg.Scan.MessagePatternLimit,
		}, log),
		classifier,
		st.history,
		eventBus,
		services.ScannerConfig{
			HistoryTimeout: cfg.Scan.HistoryTimeout,
			HistoryLimit:   cfg.Scan.HistoryLimit,
		},
		log,
	)

	// HTTP
	checks := make(map[string]handlers.Pinger, len(st.checks))
	for name, p := range st.checks {
		checks[name] = p
	}
	h := handlers.NewHandlers(handlers.Dependencies{
		Scanner: scanner,
		Checks:  checks,
		WSHub:   wsHub,
		Version: cfg.App.Version,
		Logger:  log,
	})
	router := api.NewRouter(*cfg, h, log)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.HTTPPort),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().Str("addr", httpServer.Addr).Msg("starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// gRPC health
	grpcListener, err := net.Listen("tcp", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.GRPCPort))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create gRPC listener")
	}

	grpcServer := grpc.NewServer()
	monitor := health.NewMonitor(scanner.ModelReady, st.checks, 0, log)
	monitor.Register(grpcServer)
	go monitor.Run(ctx)

	go func() {
		log.Info().Str("addr", grpcListener.Addr().String()).Msg("starting gRPC server")
		if err := grpcServer.Serve(grpcListener); err != nil {
			log.Fatal().Err(err).Msg("gRPC server failed")
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	grpcServer.GracefulStop()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}
	wsHub.Close()

	// drain in-flight history writes and event publishes
	scanner.Wait()

	log.Info().Msg("shutdown complete")
}

func newLogger(cfg *config.Config) *logger.Logger {
	if cfg.Logger.Level != "" {
		return logger.New(logger.Config{
			Level:      cfg.Logger.Level,
			Format:     cfg.Logger.Format,
			TimeFormat: cfg.Logger.TimeFormat,
		})
	}
	if cfg.App.Environment == "production" {
		return logger.NewProduction()
	}
	return logger.NewDevelopment()
}

// initInfrastructure connects to PostgreSQL and Redis when enabled. Either may
// come back nil; the service then runs on the in-memory store.
func initInfrastructure(ctx context.Context, cfg *config.Config, log *logger.Logger) (*database.PostgresDB, *cache.RedisCache) {
	var db *database.PostgresDB
	if cfg.Database.Enabled {
		var err error
		db, err = database.NewPostgres(ctx, cfg.Database, log)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to PostgreSQL, continuing with in-memory store")
			db = nil
		} else if err := db.EnsureSchema(ctx); err != nil {
			log.Error().Err(err).Msg("schema bootstrap failed, continuing with in-memory store")
			db.Close()
			db = nil
		}
	}

	var redisCache *cache.RedisCache
	if cfg.Redis.Enabled {
		var err error
		redisCache, err = cache.NewRedis(ctx, cfg.Redis, log)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to Redis, continuing without cache")
			redisCache = nil
		}
	}

	return db, redisCache
}

func buildStores(cfg *config.Config, db *database.PostgresDB, redisCache *cache.RedisCache, log *logger.Logger) stores {
	if db == nil {
		mem := memstore.New()
		log.Warn().Msg("running without database, scan history is kept in memory")
		return stores{
			denylist: mem,
			writer:   mem,
			history:  mem,
			checks:   map[string]health.Pinger{},
		}
	}

	repos := repository.NewRepositories(db.Pool())
	st := stores{
		denylist: repos.Denylist,
		writer:   repos.Denylist,
		history:  repos.History,
		checks:   map[string]health.Pinger{"postgres": db},
	}

	if redisCache != nil {
		denylist := cache.NewCachedDenylist(repos.Denylist, redisCache, cfg.Redis.CacheTTL, log)
		st.denylist = denylist
		st.writer = denylist
		st.history = cache.NewCachedHistory(repos.History, redisCache, cfg.Redis.StatsTTL, log)
		st.checks["redis"] = redisCache
	}

	return st
}
