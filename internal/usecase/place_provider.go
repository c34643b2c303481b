package usecase

import (
	"context"
	"math"

	"github.com/itinerary-microservice/internal/config"
	"github.com/itinerary-microservice/internal/domain"
	"github.com/itinerary-microservice/internal/domain/repository"
	"github.com/itinerary-microservice/internal/pkg/geo"
	"github.com/itinerary-microservice/internal/pkg/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	defaultMaxRadiusMeters = 50000
	defaultMaxResults      = 20

	// generalBucket - label для запроса без фильтра по типам
	generalBucket = "general"
)

// PlaceProvider собирает кандидатов из провайдера поиска: параллельные запросы
// по категориям плюс общий запрос, при пустом результате - текстовые запросы.
type PlaceProvider struct {
	placesRepo      repository.PlaceSearchRepository
	table           *domain.CategoryTable
	maxRadius       float64
	maxResults      int
	fallbackQueries []string
	metrics         *metrics.Metrics
	logger          *zap.Logger
}

type providerQuery struct {
	label string
	run   func(ctx context.Context) ([]domain.PlaceCandidate, error)
}

func NewPlaceProvider(
	placesRepo repository.PlaceSearchRepository,
	table *domain.CategoryTable,
	cfg *config.PlacesConfig,
	m *metrics.Metrics,
	logger *zap.Logger,
) *PlaceProvider {
	p := &PlaceProvider{
		placesRepo:      placesRepo,
		table:           table,
		maxRadius:       cfg.MaxRadiusMeters,
		maxResults:      cfg.MaxResults,
		fallbackQueries: cfg.FallbackQueries,
		metrics:         m,
		logger:          logger,
	}
	if p.maxRadius <= 0 {
		p.maxRadius = defaultMaxRadiusMeters
	}
	if p.maxResults <= 0 {
		p.maxResults = defaultMaxResults
	}
	return p
}

// Fetch возвращает объединённый список кандидатов для области поиска.
// Ошибки отдельных запросов логируются и считаются пустым результатом.
func (p *PlaceProvider) Fetch(ctx context.Context, region domain.Region) ([]domain.PlaceCandidate, error) {
	circle, err := geo.CoveringCircle(region)
	if err != nil {
		return nil, err
	}
	circle.RadiusMeters = math.Min(circle.RadiusMeters, p.maxRadius)

	places := p.runAll(ctx, p.nearbyQueries(circle))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if len(places) == 0 && len(p.fallbackQueries) > 0 {
		p.logger.Info("Nearby search returned no places, using text fallback",
			zap.Float64("lat", circle.Center.Lat),
			zap.Float64("lng", circle.Center.Lng),
			zap.Float64("radius", circle.RadiusMeters))

		places = p.runAll(ctx, p.textQueries(circle))
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	p.logger.Debug("Places fetched",
		zap.Int("count", len(places)),
		zap.Float64("radius", circle.RadiusMeters))

	return places, nil
}

func (p *PlaceProvider) nearbyQueries(circle domain.Circle) []providerQuery {
	queries := make([]providerQuery, 0, len(p.table.Buckets())+1)

	for _, bucket := range p.table.Buckets() {
		if bucket == domain.BucketOther {
			continue
		}
		q := domain.NearbyQuery{
			Center:         circle.Center,
			RadiusMeters:   circle.RadiusMeters,
			IncludedTypes:  p.table.QueryTypesFor(bucket),
			MaxResults:     p.maxResults,
			RankPreference: domain.RankPopularity,
		}
		queries = append(queries, providerQuery{
			label: string(bucket),
			run: func(ctx context.Context) ([]domain.PlaceCandidate, error) {
				return p.placesRepo.SearchNearby(ctx, q)
			},
		})
	}

	general := domain.NearbyQuery{
		Center:         circle.Center,
		RadiusMeters:   circle.RadiusMeters,
		MaxResults:     p.maxResults,
		RankPreference: domain.RankPopularity,
	}
	queries = append(queries, providerQuery{
		label: generalBucket,
		run: func(ctx context.Context) ([]domain.PlaceCandidate, error) {
			return p.placesRepo.SearchNearby(ctx, general)
		},
	})

	return queries
}

func (p *PlaceProvider) textQueries(circle domain.Circle) []providerQuery {
	queries := make([]providerQuery, 0, len(p.fallbackQueries))
	for _, text := range p.fallbackQueries {
		q := domain.TextQuery{
			Query:        text,
			Center:       circle.Center,
			RadiusMeters: circle.RadiusMeters,
			MaxResults:   p.maxResults,
		}
		queries = append(queries, providerQuery{
			label: "text:" + text,
			run: func(ctx context.Context) ([]domain.PlaceCandidate, error) {
				return p.placesRepo.SearchText(ctx, q)
			},
		})
	}
	return queries
}

// runAll - fan-out/fan-in: каждая задача пишет только в свой слот, склейка после Wait
func (p *PlaceProvider) runAll(ctx context.Context, queries []providerQuery) []domain.PlaceCandidate {
	results := make([][]domain.PlaceCandidate, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	for i, q := range queries {
		g.Go(func() error {
			places, err := q.run(gctx)
			if err != nil {
				p.logger.Warn("Place provider query failed",
					zap.String("bucket", q.label),
					zap.Error(err))
				p.metrics.ObserveProviderQuery(q.label, metrics.OutcomeError)
				return nil
			}
			if len(places) == 0 {
				p.metrics.ObserveProviderQuery(q.label, metrics.OutcomeEmpty)
			} else {
				p.metrics.ObserveProviderQuery(q.label, metrics.OutcomeSuccess)
			}
			results[i] = places
			return nil
		})
	}
	_ = g.Wait()

	total := 0
	for _, r := range results {
		total += len(r)
	}
	merged := make([]domain.PlaceCandidate, 0, total)
	for _, r := range results {
		merged = append(merged, r...)
	}
	return merged
}
