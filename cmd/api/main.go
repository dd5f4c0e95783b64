package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/user/search-engine/internal/adapter/chromedp_crawler"
	"github.com/user/search-engine/internal/adapter/httpfetch"
	"github.com/user/search-engine/internal/adapter/memory"
	"github.com/user/search-engine/internal/adapter/postgres"
	redis_adapter "github.com/user/search-engine/internal/adapter/redis"
	"github.com/user/search-engine/internal/delivery/http/handler"
	"github.com/user/search-engine/internal/delivery/http/router"
	"github.com/user/search-engine/internal/morphology"
	"github.com/user/search-engine/internal/repository"
	"github.com/user/search-engine/internal/snippet"
	"github.com/user/search-engine/internal/usecase"
	"github.com/user/search-engine/pkg/config"
	"github.com/user/search-engine/pkg/logger"
	"github.com/user/search-engine/pkg/metrics"
	"go.uber.org/zap"
)

const visitedTTL = 24 * time.Hour

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// --- Logger ---
	zl, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer zl.Sync()
	zl.Info("Logger initialized", zap.String("level", cfg.Log.Level))

	// --- Metrics ---
	metrics.Init()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	health := make(map[string]handler.Pinger)

	// --- Storage ---
	var store usecase.Store
	switch cfg.Storage.Driver {
	case "postgres":
		dbpool, err := pgxpool.New(ctx, cfg.Postgres.URL)
		if err != nil {
			zl.Fatal("Unable to connect to database", zap.Error(err))
		}
		defer dbpool.Close()
		if err := postgres.Migrate(ctx, dbpool); err != nil {
			zl.Fatal("Unable to migrate database", zap.Error(err))
		}
		zl.Info("PostgreSQL connection pool established")

		store = usecase.Store{
			Sites:    postgres.NewSiteRepo(dbpool),
			Pages:    postgres.NewPageRepo(dbpool),
			Lemmas:   postgres.NewLemmaRepo(dbpool),
			Index:    postgres.NewIndexRepo(dbpool),
			Failures: postgres.NewFetchFailureRepo(dbpool),
		}
		health["postgres"] = dbpool
	default:
		mem := memory.NewStore()
		store = usecase.Store{
			Sites:    memory.NewSiteRepo(mem),
			Pages:    memory.NewPageRepo(mem),
			Lemmas:   memory.NewLemmaRepo(mem),
			Index:    memory.NewIndexRepo(mem),
			Failures: memory.NewFetchFailureRepo(mem),
		}
		zl.Warn("Using in-memory storage, the index is lost on restart")
	}

	// --- Visited set ---
	var visited repository.VisitedRepository = memory.NewVisitedRepo()
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			zl.Fatal("Unable to connect to Redis", zap.Error(err))
		}
		redisVisited := redis_adapter.NewVisitedRepo(rdb, visitedTTL)
		visited = redisVisited
		health["redis"] = redisVisited
		zl.Info("Redis connection established")
	}

	// --- Fetcher ---
	var fetcher repository.PageFetcher
	switch cfg.Fetch.Mode {
	case "browser":
		identity, err := httpfetch.NewIdentity(cfg.Fetch.UserAgents, nil)
		if err != nil {
			zl.Fatal("Invalid fetch identity", zap.Error(err))
		}
		browser := chromedp_crawler.NewChromedpFetcher(identity.UserAgent(), cfg.Fetch.Referrer, cfg.Fetch.Timeout, zl)
		defer browser.Close()
		fetcher = browser
	default:
		fetcher, err = httpfetch.New(httpfetch.Options{
			Timeout:       cfg.Fetch.Timeout,
			Referrer:      cfg.Fetch.Referrer,
			UserAgents:    cfg.Fetch.UserAgents,
			Proxies:       cfg.Fetch.Proxies,
			RespectRobots: cfg.Fetch.RespectRobots,
		}, zl)
		if err != nil {
			zl.Fatal("Unable to create fetcher", zap.Error(err))
		}
	}

	// --- Morphology ---
	analyzer, err := morphology.New(cfg.Morphology.Language)
	if err != nil {
		zl.Fatal("Unable to create morphology analyzer", zap.Error(err))
	}

	// --- Use Cases ---
	indexing := usecase.NewIndexingUseCase(cfg.Sites, store, visited, fetcher, analyzer,
		usecase.IndexingConfig{Workers: cfg.Crawl.Workers, Delay: cfg.Crawl.Delay}, zl)
	pageIndexer := usecase.NewPageIndexerUseCase(cfg.Sites, store, fetcher, analyzer, zl)
	search := usecase.NewSearchUseCase(cfg.Sites, store, analyzer,
		snippet.New(analyzer, cfg.Snippet.MaxLength), cfg.Search.DefaultLimit, zl)
	statistics := usecase.NewStatisticsUseCase(cfg.Sites, store, indexing)

	// --- HTTP Server ---
	apiHandler := handler.NewHandler(indexing, pageIndexer, search, statistics, health, zl)
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router.New(apiHandler, zl),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		zl.Info("Starting server", zap.String("port", cfg.Server.Port), zap.Int("sites", len(cfg.Sites)))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("Could not listen on port", zap.String("port", cfg.Server.Port), zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zl.Error("HTTP server shutdown failed", zap.Error(err))
	}
	if err := indexing.Stop(shutdownCtx); err != nil && !errors.Is(err, usecase.ErrIndexingNotRunning) {
		zl.Error("Failed to stop indexing", zap.Error(err))
	}
}
