package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"kfit/internal/cache"
	"kfit/internal/catalog"
	"kfit/internal/config"
	"kfit/internal/db"
	"kfit/internal/jobs"
	"kfit/internal/metrics"
	"kfit/internal/placeholder"
	"kfit/internal/resolver"
	"kfit/internal/server"
	"kfit/internal/shop"
)

func main() {
	// A local .env is only for development; production sets real env vars.
	if os.Getenv("ENV") != "production" {
		_ = godotenv.Load()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()

	// Load the optional catalog file
	catalogCfg, err := config.LoadCatalogConfig(cfg.CatalogFile)
	if err != nil {
		log.Fatalf("Failed to load catalog file %s: %v", cfg.CatalogFile, err)
	}
	if catalogCfg != nil {
		log.Printf("Loaded catalog file %s", cfg.CatalogFile)
	}
	cat := catalog.New(catalogCfg)

	metrics.Register()

	// Lookup statistics are optional
	var database *db.DB
	if cfg.StatsEnabled() {
		database, err = db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer database.Close()

		if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		log.Println("Migrations completed successfully")

		metrics.Init(database)
	} else {
		log.Println("Lookup statistics are disabled. Set DATABASE_URL to enable.")
	}

	// Shop search client
	shopClient := shop.NewClient(shop.Config{
		ClientID:     cfg.ShopClientID,
		ClientSecret: cfg.ShopClientSecret,
		BaseURL:      cfg.ShopURL,
		Timeout:      cfg.ShopTimeout,
		RetryBackoff: cfg.ShopRetryBackoff,
		RatePerSec:   cfg.ShopRatePerSec,
	})
	if !cfg.ShopEnabled() {
		log.Println("Naver shop search is disabled; every request will get a placeholder. Set NAVER_SHOP_CLIENT_ID and NAVER_SHOP_CLIENT_SECRET to enable.")
	}

	// Resolution cache
	var resolutionCache cache.Cache
	switch cfg.CacheBackend {
	case "redis":
		redisCache := cache.NewRedis(cfg.RedisURL)
		defer redisCache.Close()
		resolutionCache = redisCache
		log.Println("Using Redis resolution cache")
	default:
		resolutionCache = cache.NewMemory(cfg.CacheMaxEntries)
		log.Printf("Using in-memory resolution cache (max entries: %d)", cfg.CacheMaxEntries)
	}

	res := resolver.New(catalog.NewNormalizer(cat), catalog.NewBrandPolicy(cat), shopClient, resolutionCache)
	// Worst case per tier: two attempts plus the 429 backoff.
	res.SetSharedTimeout(3 * (2*cfg.ShopTimeout + cfg.ShopRetryBackoff))

	renderer, err := placeholder.NewRenderer()
	if err != nil {
		log.Fatalf("Failed to load placeholder templates: %v", err)
	}

	srv := server.New(cfg)
	srv.RegisterRoutes(res, renderer, database)

	// Background cache warmer
	if cfg.WarmupInterval > 0 && cfg.ShopEnabled() {
		var ranker jobs.BrandRanker
		if database != nil {
			ranker = database
		}
		warmer := jobs.NewCacheWarmer(res, ranker, catalogCfg.GetWarmupQueries(), cfg.WarmupInterval)
		go warmer.Start(ctx)
	}

	// Graceful shutdown
	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("Server started on %s", cfg.ServerAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	cancel()
	if err := srv.Shutdown(); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}
