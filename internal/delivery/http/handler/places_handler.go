package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/itinerary-microservice/internal/pkg/errors"
	"github.com/itinerary-microservice/internal/pkg/utils"
	"github.com/itinerary-microservice/internal/pkg/validator"
	"github.com/itinerary-microservice/internal/usecase/dto"
	"go.uber.org/zap"
)

// PlacesHandler - места в области без генерации маршрута
type PlacesHandler struct {
	searcher PlacesSearcher
	logger   *zap.Logger
}

func NewPlacesHandler(searcher PlacesSearcher, logger *zap.Logger) *PlacesHandler {
	return &PlacesHandler{
		searcher: searcher,
		logger:   logger,
	}
}

// Search godoc
// @Summary Места в области
// @Description Возвращает места внутри области без дубликатов, сгруппированные по категориям (dining, attractions, outdoor, shopping, other)
// @Tags Places
// @Accept json
// @Produce json
// @Param request body dto.PlacesSearchRequest true "Область поиска"
// @Success 200 {object} utils.SuccessResponse{data=dto.PlacesSearchResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/places/search [post]
func (h *PlacesHandler) Search(c *fiber.Ctx) error {
	var req dto.PlacesSearchRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithMessage("Invalid request body"))
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	grouped, err := h.searcher.SearchPlaces(c.UserContext(), req.Region.ToDomain())
	if err != nil {
		h.logger.Warn("Places search failed", zap.Error(err))
		return utils.SendError(c, err)
	}

	resp := dto.NewPlacesSearchResponse(grouped)
	return utils.SendSuccess(c, resp, &utils.Meta{Total: resp.Total})
}
