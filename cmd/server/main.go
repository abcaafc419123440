package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/matlens/backend/config"
	httpDelivery "github.com/matlens/backend/internal/delivery/http"
	"github.com/matlens/backend/internal/domain"
	"github.com/matlens/backend/internal/infrastructure/cache"
	"github.com/matlens/backend/internal/infrastructure/catalog"
	"github.com/matlens/backend/internal/infrastructure/store"
	"github.com/matlens/backend/internal/scheduler"
	"github.com/matlens/backend/internal/usecase"
	"github.com/matlens/backend/pkg/logger"
)

func main() {
	// .env is optional; real deployments set env vars directly
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog := logger.Must(logger.New(cfg.Server.Environment))
	defer zlog.Sync()

	zlog.Info("starting matlens backend",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("cache", cfg.Cache.Type))

	// Database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := store.Migrate(db); err != nil {
		zlog.Fatal("failed to run migrations", zap.Error(err))
	}

	productRepo := store.NewProductRepository(db)
	recipeRepo := store.NewRecipeRepository(db)
	unitRepo := store.NewUnitRepository(db)

	// Cache
	var cacheRepo domain.CacheRepository
	switch cfg.Cache.Type {
	case "redis":
		redisCache, err := cache.NewRedis(context.Background(), cfg.Cache.RedisURL)
		if err != nil {
			zlog.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer redisCache.Close()
		cacheRepo = redisCache
	default:
		cacheRepo = cache.NewMemory()
	}

	// Catalog feed
	var source catalog.Source
	if cfg.Catalog.URL != "" {
		source = catalog.NewHTTPSource(cfg.Catalog.URL)
	} else {
		source = catalog.FileSource{Path: cfg.Catalog.Path}
	}
	catalogStore := catalog.NewStore(source, logger.Named(zlog, "catalog"))

	// Usecase layer
	matchingService := usecase.NewMatchingService(
		catalogStore,
		productRepo,
		cacheRepo,
		usecase.MatchConfig{
			FuzzyThreshold: cfg.Matching.FuzzyThreshold,
			MaxResults:     cfg.Matching.MaxResults,
			StatsCacheTTL:  cfg.Cache.TTL,
		},
		logger.Named(zlog, "matching"),
	)
	nutritionService := usecase.NewNutritionService(recipeRepo, unitRepo, logger.Named(zlog, "nutrition"))

	// Background jobs
	jobs := scheduler.NewScheduler(cfg, catalogStore, matchingService, logger.Named(zlog, "scheduler"))
	jobs.Start()
	defer jobs.Stop()

	// HTTP delivery
	handler := httpDelivery.NewHandler(matchingService, nutritionService, productRepo, logger.Named(zlog, "http"))
	router := httpDelivery.SetupRouter(cfg, handler)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	zlog.Info("server listening", zap.String("addr", addr))

	if err := router.Run(addr); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}
