package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/itinerary-microservice/internal/domain"
	"github.com/itinerary-microservice/internal/pkg/utils"
	"github.com/itinerary-microservice/internal/usecase/dto"
)

// ActivityHandler отдаёт каталог активностей для формы custom поездки
type ActivityHandler struct {
	categories []domain.ActivityCategory
}

func NewActivityHandler(categories []domain.ActivityCategory) *ActivityHandler {
	return &ActivityHandler{categories: categories}
}

// List godoc
// @Summary Каталог активностей
// @Tags Activities
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.ActivitiesResponse}
// @Router /api/v1/activities [get]
func (h *ActivityHandler) List(c *fiber.Ctx) error {
	return utils.SendSuccess(c, dto.ActivitiesResponse{Categories: h.categories}, &utils.Meta{
		Total: len(h.categories),
	})
}
