package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/itinerary-microservice/internal/domain"
	"github.com/itinerary-microservice/internal/pkg/errors"
	"github.com/itinerary-microservice/internal/pkg/utils"
	"github.com/itinerary-microservice/internal/pkg/validator"
	"github.com/itinerary-microservice/internal/usecase/dto"
	"go.uber.org/zap"
)

// ItineraryHandler - построение маршрутов: синхронно и через Redis Streams
type ItineraryHandler struct {
	searcher  ItinerarySearcher
	publisher StreamPublisher
	logger    *zap.Logger
}

// NewItineraryHandler - publisher может быть nil, тогда асинхронный режим недоступен
func NewItineraryHandler(searcher ItinerarySearcher, publisher StreamPublisher, logger *zap.Logger) *ItineraryHandler {
	return &ItineraryHandler{
		searcher:  searcher,
		publisher: publisher,
		logger:    logger,
	}
}

// Create godoc
// @Summary Построить маршрут по области
// @Description Собирает места в области (circle или polygon), убирает дубликаты и генерирует маршрут на день. Статусы результата: ok, raw_only, no_places.
// @Tags Itinerary
// @Accept json
// @Produce json
// @Param request body dto.ItineraryRequest true "Область и предпочтения"
// @Success 200 {object} utils.SuccessResponse{data=domain.ItineraryResult}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/itineraries [post]
func (h *ItineraryHandler) Create(c *fiber.Ctx) error {
	form, err := parseItineraryRequest(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.searcher.Search(c.UserContext(), form)
	if err != nil {
		h.logger.Warn("Itinerary search failed", zap.Error(err))
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		Total:    len(result.Items),
		Status:   string(result.Status),
		Cached:   result.Cached,
		TimeMSec: float64(result.Duration.Microseconds()) / 1000,
	})
}

// CreateAsync godoc
// @Summary Поставить построение маршрута в очередь
// @Description Публикует запрос в stream:itinerary:generate; результат появится в stream:itinerary:done с тем же request_id.
// @Tags Itinerary
// @Accept json
// @Produce json
// @Param request body dto.ItineraryRequest true "Область и предпочтения"
// @Success 202 {object} utils.SuccessResponse{data=dto.AsyncItineraryResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/v1/itineraries/async [post]
func (h *ItineraryHandler) CreateAsync(c *fiber.Ctx) error {
	if h.publisher == nil {
		return utils.SendError(c, errors.ErrServiceUnavailable.WithMessage("Async generation is not configured"))
	}

	form, err := parseItineraryRequest(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	event := &domain.ItineraryGenerateEvent{
		RequestID:   uuid.New(),
		FormData:    form,
		RequestedAt: time.Now().UTC(),
	}

	if err := h.publisher.PublishToStream(c.UserContext(), domain.StreamItineraryGenerate, event); err != nil {
		h.logger.Error("Failed to enqueue itinerary request", zap.Error(err))
		return utils.SendError(c, errors.ErrServiceUnavailable.Wrap(err))
	}

	h.logger.Info("Itinerary request enqueued", zap.String("request_id", event.RequestID.String()))

	return utils.SendAccepted(c, dto.AsyncItineraryResponse{
		RequestID: event.RequestID,
		Stream:    domain.StreamItineraryDone,
	})
}

func parseItineraryRequest(c *fiber.Ctx) (domain.ItineraryFormData, error) {
	var req dto.ItineraryRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ItineraryFormData{}, errors.ErrInvalidRequest.WithMessage("Invalid request body")
	}

	if err := validator.Validate(&req); err != nil {
		return domain.ItineraryFormData{}, err
	}

	form, err := req.ToFormData()
	if err != nil {
		return domain.ItineraryFormData{}, errors.ErrInvalidRequest.Wrap(err)
	}
	return form, nil
}
