package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/ndewijer/portfolio-monitor/internal/api"
	"github.com/ndewijer/portfolio-monitor/internal/config"
	"github.com/ndewijer/portfolio-monitor/internal/database"
	"github.com/ndewijer/portfolio-monitor/internal/logging"
	"github.com/ndewijer/portfolio-monitor/internal/monitor"
	"github.com/ndewijer/portfolio-monitor/internal/repository"
	"github.com/ndewijer/portfolio-monitor/internal/service"
	"github.com/ndewijer/portfolio-monitor/internal/yahoo"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		// Logger is not configured yet
		bootLog := logging.New("info", false)
		bootLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logging.New(cfg.Log.Level, cfg.Log.Pretty)
	logging.SetGlobalLogger(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}
	log.Info().Str("path", cfg.Database.Path).Msg("Connected to database")

	// Create repositories
	kv, closeKV, err := newKVStore(ctx, cfg, db, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open position store")
	}
	defer closeKV()

	codec, err := repository.NewCodec(cfg.Store.EncryptionKey)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to configure position store encryption")
	}
	positionRepo := repository.NewPositionRepository(kv, codec, cfg.Store.Key, cfg.Store.MaxRetries)
	alertRepo := repository.NewAlertRepository(db)

	// Create services
	provider := yahoo.NewFinanceClient(cfg.Quotes.Timeout)
	aggregator := service.NewAggregator(provider, cfg.Quotes.MarketSuffix, cfg.Quotes.Concurrency, log)
	systemService := service.NewSystemService(db, positionRepo)
	positionService := service.NewPositionService(positionRepo, provider, cfg.Quotes.MarketSuffix)
	portfolioService := service.NewPortfolioService(positionRepo, aggregator, provider)
	alertService := service.NewAlertService(alertRepo)

	// Create router
	router := api.NewRouter(systemService, positionService, portfolioService, alertService, cfg, log)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // summary requests wait for all quotes
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup

	if cfg.Monitor.Enabled {
		notifier := monitor.NewLogNotifier(log, cfg.Monitor.NotifyRecipients)
		m := monitor.New(positionRepo, aggregator, notifier, alertRepo, monitor.Config{
			Interval:        cfg.Monitor.Interval,
			SuppressRepeats: cfg.Monitor.SuppressRepeats,
		}, log)

		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.Run(ctx)
		}()
	} else {
		log.Info().Msg("Threshold monitor disabled")
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("Starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Server failed")
			stop()
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	<-ctx.Done()

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	wg.Wait()
	log.Info().Msg("Server exited")
}

// newKVStore opens the configured position store backend. The returned
// function releases backend resources.
func newKVStore(ctx context.Context, cfg *config.Config, db *sql.DB, log zerolog.Logger) (repository.KVStore, func(), error) {
	if cfg.Store.Backend != config.StoreBackendRedis {
		log.Info().Str("backend", config.StoreBackendSQLite).Msg("Using position store")
		return repository.NewSQLiteStore(db), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, err
	}

	log.Info().
		Str("backend", config.StoreBackendRedis).
		Str("addr", cfg.Redis.Addr).
		Msg("Using position store")

	return repository.NewRedisStore(client), func() { client.Close() }, nil
}
