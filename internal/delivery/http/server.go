package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/itinerary-microservice/internal/config"
	"github.com/itinerary-microservice/internal/delivery/http/handler"
	"github.com/itinerary-microservice/internal/delivery/http/middleware"
	"github.com/itinerary-microservice/internal/pkg/metrics"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"
)

// Handlers - набор обработчиков, которые регистрирует сервер
type Handlers struct {
	Itinerary *handler.ItineraryHandler
	Places    *handler.PlacesHandler
	Activity  *handler.ActivityHandler
	Stats     *handler.StatsHandler
	Health    *handler.HealthHandler
}

// Server - HTTP сервер на основе Fiber
type Server struct {
	app      *fiber.App
	config   *config.Config
	logger   *zap.Logger
	metrics  *metrics.Metrics
	handlers Handlers
}

// NewServer - создание нового HTTP сервера
func NewServer(cfg *config.Config, logger *zap.Logger, m *metrics.Metrics, handlers Handlers) *Server {
	// запись ответа ждёт генерацию, поэтому таймауты больше времени запроса
	app := fiber.New(fiber.Config{
		AppName:      "Itinerary Microservice",
		ReadTimeout:  cfg.Server.RequestTimeout,
		WriteTimeout: cfg.Server.RequestTimeout + cfg.Server.RequestTimeout/2,
		IdleTimeout:  2 * cfg.Server.RequestTimeout,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:      app,
		config:   cfg,
		logger:   logger,
		metrics:  m,
		handlers: handlers,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

// setupMiddlewares - настройка middleware
func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery(s.logger))
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS(s.config.AllowedOriginsList()))
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

// setupRoutes - настройка маршрутов
func (s *Server) setupRoutes() {
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)
	s.app.Get("/metrics", adaptor.HTTPHandler(s.metrics.Handler()))

	api := s.app.Group("/api/v1")

	api.Get("/health", s.handlers.Health.Health)
	api.Get("/activities", s.handlers.Activity.List)

	// генерация может занять до RequestTimeout; контекст запроса отменяется по таймауту
	api.Post("/itineraries", timeout.NewWithContext(s.handlers.Itinerary.Create, s.config.Server.RequestTimeout))
	api.Post("/itineraries/async", s.handlers.Itinerary.CreateAsync)
	api.Post("/places/search", timeout.NewWithContext(s.handlers.Places.Search, s.config.Server.RequestTimeout))

	api.Get("/stats", s.handlers.Stats.GetStatistics)
	api.Get("/stats/recent", s.handlers.Stats.GetRecent)
}

// App - доступ к fiber.App (тесты)
func (s *Server) App() *fiber.App {
	return s.app
}

// Start - запуск HTTP сервера
func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown - graceful shutdown HTTP сервера
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// customErrorHandler - ошибки, не обработанные хендлерами (404, таймауты, паники)
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		errCode := "INTERNAL_SERVER_ERROR"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			switch code {
			case fiber.StatusNotFound:
				errCode = "NOT_FOUND"
			case fiber.StatusRequestTimeout:
				errCode = "REQUEST_TIMEOUT"
			case fiber.StatusMethodNotAllowed:
				errCode = "METHOD_NOT_ALLOWED"
			}
		}

		if code >= fiber.StatusInternalServerError {
			logger.Error("HTTP Error",
				zap.String("path", c.Path()),
				zap.Int("status", code),
				zap.Error(err),
			)
		}

		return c.Status(code).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    errCode,
				"message": err.Error(),
			},
		})
	}
}
