package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/garnizeh/jobhunt/api"
	"github.com/garnizeh/jobhunt/internal/auth"
	"github.com/garnizeh/jobhunt/internal/cache"
	"github.com/garnizeh/jobhunt/internal/config"
	"github.com/garnizeh/jobhunt/internal/eligibility"
	"github.com/garnizeh/jobhunt/internal/ingest"
	"github.com/garnizeh/jobhunt/internal/logging"
	"github.com/garnizeh/jobhunt/internal/normalize"
	"github.com/garnizeh/jobhunt/internal/store"
	"github.com/garnizeh/jobhunt/pkg/ollama"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	var configPath = flag.String("config", "", "Path to config YAML file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger, logCloser, err := logging.Init(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logCloser.Close()
	defer logger.Sync() //nolint:errcheck
	api.SetLogger(logger)
	ollama.SetLogger(logger)

	logger.Info("starting jobhunt server",
		zap.String("version", version),
		zap.String("build_time", buildTime),
		zap.String("store", cfg.Store.Driver))
	if cfg.JWTSecret == config.InsecureJWTSecret {
		logger.Warn("using the built-in JWT secret; set JOBHUNT_JWT_SECRET outside development")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, cfg.Store, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.Error(err))
	}
	if err := st.Init(ctx); err != nil {
		logger.Fatal("failed to prepare store", zap.Error(err))
	}

	// A missing cache only costs latency, so the server starts without it.
	var rdb redis.UniversalClient
	if cfg.Cache.RedisURL != "" {
		client, err := cache.NewRedisClient(ctx, cfg.Cache.RedisURL)
		if err != nil {
			logger.Warn("stats cache disabled", zap.Error(err))
		} else {
			rdb = client
			defer client.Close()
		}
	}
	stats := cache.NewStatsCache(st.Stats, rdb, cfg.Cache.TTL, logger)

	authSvc := auth.NewService(st.Users,
		auth.BcryptHasher{Cost: cfg.Auth.BcryptCost},
		auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenDuration),
		auth.PasswordPolicy{Strict: cfg.Auth.StrictPassword},
		logger)

	var assessor eligibility.Assessor = eligibility.NewRandomAssessor(nil)
	if cfg.Eligibility.Strategy == config.StrategyOllama {
		oc, err := ollama.NewDefaultClient(cfg.Ollama)
		if err != nil {
			logger.Fatal("failed to create ollama client", zap.Error(err))
		}
		defer oc.Close()
		assessor = eligibility.NewOllamaAssessor(oc, cfg.Eligibility.Model, assessor, logger)
	}

	var scheduler *ingest.Scheduler
	if cfg.Ingest.Schedule != "" {
		norm, err := normalize.New()
		if err != nil {
			logger.Fatal("failed to build normalizer", zap.Error(err))
		}
		importer := ingest.NewImporter(norm, st.Jobs, stats, logger)
		scheduler = ingest.NewScheduler(importer, cfg.Ingest.Source, cfg.Ingest.Schedule, logger)
		if err := scheduler.Start(ctx); err != nil {
			logger.Fatal("failed to start import scheduler", zap.Error(err))
		}
	}

	handler := api.SetupRoutes(cfg, version, buildTime, api.Deps{
		Jobs:        st.Jobs,
		Stats:       stats,
		Auth:        authSvc,
		Eligibility: assessor,
		Store:       st,
	})

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.APITimeout,
		WriteTimeout: cfg.APITimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	if scheduler != nil {
		scheduler.Stop()
	}
	if err := st.Close(shutdownCtx); err != nil {
		logger.Error("error closing store", zap.Error(err))
	}

	logger.Info("server exited")
}
