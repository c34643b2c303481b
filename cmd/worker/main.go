package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/itinerary-microservice/internal/config"
	"github.com/itinerary-microservice/internal/domain"
	"github.com/itinerary-microservice/internal/domain/repository"
	"github.com/itinerary-microservice/internal/infrastructure/claude"
	"github.com/itinerary-microservice/internal/infrastructure/gemini"
	"github.com/itinerary-microservice/internal/infrastructure/googleplaces"
	"github.com/itinerary-microservice/internal/pkg/logger"
	"github.com/itinerary-microservice/internal/pkg/metrics"
	"github.com/itinerary-microservice/internal/repository/cache"
	"github.com/itinerary-microservice/internal/repository/postgres"
	redisRepo "github.com/itinerary-microservice/internal/repository/redis"
	"github.com/itinerary-microservice/internal/usecase"
	"github.com/itinerary-microservice/internal/worker"
	"github.com/itinerary-microservice/internal/worker/itinerary"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Check if worker is enabled
	if !cfg.Worker.Enabled {
		fmt.Println("Worker is disabled in configuration. Set WORKER_ENABLED=true to enable.")
		os.Exit(0)
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, "itinerary-worker")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Itinerary Generation Worker")
	log.Info("Configuration loaded",
		zap.String("consumer_group", cfg.Worker.ConsumerGroup),
		zap.Int("max_retries", cfg.Worker.MaxRetries),
		zap.Int("batch_size", cfg.Worker.BatchSize),
		zap.String("llm_provider", cfg.LLM.Provider))

	initCtx, initCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer initCancel()

	// 3. Connect to Redis (streams обязательны)
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	// 4. Connect to PostgreSQL
	var historyRepo repository.HistoryRepository
	if cfg.Database.Enabled {
		db, err := postgres.New(&cfg.Database, log)
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
		}
		defer func() {
			if err := db.Close(); err != nil {
				log.Error("Failed to close PostgreSQL connection", zap.Error(err))
			}
		}()
		historyRepo = postgres.NewHistoryRepository(db, log)
	}

	// 5. Initialize repositories
	m := metrics.New()
	streamRepo := redisRepo.NewStreamRepository(redisClient.Client(), log)

	var cacheRepo repository.CacheRepository
	switch cfg.Cache.Driver {
	case config.CacheDriverMemory:
		cacheRepo = cache.NewMemoryRepository(cfg.Cache.ItineraryCacheTTL, cfg.Cache.CleanupInterval, log)
	default:
		cacheRepo = cache.NewCacheRepository(redisClient)
	}

	placesRepo := cache.NewPlaceSearchCache(
		googleplaces.NewClient(&cfg.Places, log),
		cacheRepo,
		cfg.Cache.PlacesCacheTTL,
		m,
		log,
	)

	var generator repository.GenerationRepository
	switch cfg.LLM.Provider {
	case config.ProviderClaude:
		generator, err = claude.NewClient(&cfg.LLM, log)
	default:
		generator, err = gemini.NewClient(initCtx, &cfg.LLM, log)
	}
	if err != nil {
		log.Fatal("Failed to initialize generation backend", zap.Error(err))
	}

	// 6. Initialize use cases
	table := domain.DefaultCategoryTable()
	itineraryUC := usecase.NewItineraryUseCase(
		usecase.NewPlaceProvider(placesRepo, table, &cfg.Places, m, log),
		usecase.NewDeduplicator(table),
		usecase.NewPromptBuilder(domain.DefaultActivityCategories()),
		generator,
		cacheRepo,
		historyRepo,
		m,
		log,
		cfg.Cache.ItineraryCacheTTL,
	)

	// 7. Initialize workers
	generationWorker := itinerary.NewGenerationWorker(
		streamRepo,
		itineraryUC,
		cfg.Worker.ConsumerGroup,
		cfg.Worker.BatchSize,
		cfg.Worker.MaxRetries,
		cfg.Worker.StreamReadTimeout,
		log,
	)

	// 8. Create worker manager and register workers
	workerManager := worker.NewWorkerManager(log, 30*time.Second)
	workerManager.Register(generationWorker)

	// 9. Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := workerManager.Start(ctx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Info("Received shutdown signal")

	cancel()

	if err := workerManager.Stop(); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}

	log.Info("Worker shutdown complete")
}
