package main

// @title Itinerary Microservice API
// @version 1.0.0
// @description Микросервис построения маршрутов на день. Собирает места в заданной области через Google Places,
// @description отбирает и группирует их по категориям, генерирует маршрут языковой моделью и разбирает ответ в пункты.
// @description
// @description Основные возможности:
// @description - Синхронная и асинхронная (Redis Streams) генерация маршрута по кругу или полигону
// @description - Поиск мест в области без генерации
// @description - Каталог занятий для формы запроса
// @description - Статистика и история поисков

// @contact.name API Support
// @contact.email support@itinerary-microservice.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/itinerary-microservice/docs"
	"github.com/itinerary-microservice/internal/config"
	httpDelivery "github.com/itinerary-microservice/internal/delivery/http"
	"github.com/itinerary-microservice/internal/delivery/http/handler"
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
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, "itinerary-api")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Itinerary Microservice")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.String("llm_provider", cfg.LLM.Provider),
		zap.String("cache_driver", cfg.Cache.Driver),
		zap.Bool("database_enabled", cfg.Database.Enabled),
	)

	m := metrics.New()
	healthChecks := map[string]handler.HealthChecker{}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 3. Connect to Redis (обязателен для redis-кеша, иначе нужен только для async режима)
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		if cfg.Cache.Driver == config.CacheDriverRedis {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		log.Warn("Redis unavailable, async generation disabled", zap.Error(err))
		redisClient = nil
	}
	if redisClient != nil {
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Failed to close Redis connection", zap.Error(err))
			}
		}()
		if err := redisClient.Health(ctx); err != nil {
			log.Fatal("Redis health check failed", zap.Error(err))
		}
		healthChecks["redis"] = redisClient
		log.Info("Redis connected")
	}

	// 4. Connect to PostgreSQL (история поисков и статистика)
	var historyRepo repository.HistoryRepository
	var db *postgres.DB
	if cfg.Database.Enabled {
		db, err = postgres.New(&cfg.Database, log)
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
		}
		defer func() {
			if err := db.Close(); err != nil {
				log.Error("Failed to close PostgreSQL connection", zap.Error(err))
			}
		}()
		if err := db.Health(ctx); err != nil {
			log.Fatal("PostgreSQL health check failed", zap.Error(err))
		}
		healthChecks["postgres"] = db
		historyRepo = postgres.NewHistoryRepository(db, log)
		log.Info("PostgreSQL connected")
	}

	// 5. Initialize Repositories
	var cacheRepo repository.CacheRepository
	switch cfg.Cache.Driver {
	case config.CacheDriverMemory:
		cacheRepo = cache.NewMemoryRepository(cfg.Cache.ItineraryCacheTTL, cfg.Cache.CleanupInterval, log)
	default:
		cacheRepo = cache.NewCacheRepository(redisClient)
	}

	var publisher handler.StreamPublisher
	if redisClient != nil {
		publisher = redisRepo.NewStreamRepository(redisClient.Client(), log)
	}

	placesRepo := cache.NewPlaceSearchCache(
		googleplaces.NewClient(&cfg.Places, log),
		cacheRepo,
		cfg.Cache.PlacesCacheTTL,
		m,
		log,
	)

	generator, err := newGenerator(ctx, &cfg.LLM, log)
	if err != nil {
		log.Fatal("Failed to initialize generation backend", zap.Error(err))
	}

	log.Info("Repositories initialized")

	// 6. Initialize Use Cases
	table := domain.DefaultCategoryTable()
	categories := domain.DefaultActivityCategories()

	itineraryUC := usecase.NewItineraryUseCase(
		usecase.NewPlaceProvider(placesRepo, table, &cfg.Places, m, log),
		usecase.NewDeduplicator(table),
		usecase.NewPromptBuilder(categories),
		generator,
		cacheRepo,
		historyRepo,
		m,
		log,
		cfg.Cache.ItineraryCacheTTL,
	)

	var statsProvider handler.StatsProvider
	if historyRepo != nil {
		statsProvider = usecase.NewStatsUseCase(historyRepo, cacheRepo, log, cfg.Cache.StatsCacheTTL)
	}

	log.Info("Use cases initialized")

	// 7. Initialize HTTP Handlers
	handlers := httpDelivery.Handlers{
		Itinerary: handler.NewItineraryHandler(itineraryUC, publisher, log),
		Places:    handler.NewPlacesHandler(itineraryUC, log),
		Activity:  handler.NewActivityHandler(categories),
		Stats:     handler.NewStatsHandler(statsProvider, log),
		Health:    handler.NewHealthHandler(healthChecks, log),
	}

	// 8. Initialize HTTP Server
	server := httpDelivery.NewServer(cfg, log, m, handlers)

	// 9. Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 10. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}

// newGenerator выбирает бэкенд генерации по LLM_PROVIDER
func newGenerator(ctx context.Context, cfg *config.LLMConfig, log *zap.Logger) (repository.GenerationRepository, error) {
	switch cfg.Provider {
	case config.ProviderClaude:
		return claude.NewClient(cfg, log)
	case config.ProviderGemini:
		return gemini.NewClient(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
