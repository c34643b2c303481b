package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/itinerary-microservice/internal/pkg/errors"
	"github.com/itinerary-microservice/internal/pkg/utils"
	"go.uber.org/zap"
)

// StatsHandler обрабатывает запросы для статистики
type StatsHandler struct {
	stats  StatsProvider
	logger *zap.Logger
}

// NewStatsHandler - stats равен nil, когда история поисков отключена (DB_ENABLED=false)
func NewStatsHandler(stats StatsProvider, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{
		stats:  stats,
		logger: logger,
	}
}

// GetStatistics godoc
// @Summary Статистика поисков
// @Description Агрегаты по истории: всего, по статусу, типу области и типу поездки
// @Tags Statistics
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=domain.Statistics}
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/v1/stats [get]
func (h *StatsHandler) GetStatistics(c *fiber.Ctx) error {
	if h.stats == nil {
		return utils.SendError(c, errors.ErrServiceUnavailable.WithMessage("Search history is disabled"))
	}

	stats, err := h.stats.GetStatistics(c.UserContext())
	if err != nil {
		h.logger.Error("Failed to get statistics", zap.Error(err))
		return utils.SendError(c, errors.ErrDatabaseError.Wrap(err))
	}

	return utils.SendSuccess(c, stats, nil)
}

// GetRecent godoc
// @Summary Последние поиски
// @Tags Statistics
// @Produce json
// @Param limit query int false "Количество записей (1-100)" default(20)
// @Success 200 {object} utils.SuccessResponse{data=[]domain.SearchRecord}
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/v1/stats/recent [get]
func (h *StatsHandler) GetRecent(c *fiber.Ctx) error {
	if h.stats == nil {
		return utils.SendError(c, errors.ErrServiceUnavailable.WithMessage("Search history is disabled"))
	}

	records, err := h.stats.RecentSearches(c.UserContext(), c.QueryInt("limit", 20))
	if err != nil {
		h.logger.Error("Failed to list recent searches", zap.Error(err))
		return utils.SendError(c, errors.ErrDatabaseError.Wrap(err))
	}

	return utils.SendSuccess(c, records, &utils.Meta{Total: len(records)})
}
