package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/itinerary-microservice/internal/domain"
	"github.com/itinerary-microservice/internal/domain/repository"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

type historyRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewHistoryRepository создает новый экземпляр history repository
func NewHistoryRepository(db *DB, logger *zap.Logger) repository.HistoryRepository {
	return &historyRepository{
		db:     db,
		logger: logger,
	}
}

// historyRow - строка search_history; activities хранится как TEXT[]
type historyRow struct {
	ID           uuid.UUID      `db:"id"`
	RegionType   string         `db:"region_type"`
	CenterLat    float64        `db:"center_lat"`
	CenterLng    float64        `db:"center_lng"`
	RadiusMeters float64        `db:"radius_meters"`
	TripType     string         `db:"trip_type"`
	Activities   pq.StringArray `db:"activities"`
	PlaceCount   int            `db:"place_count"`
	ItemCount    int            `db:"item_count"`
	Status       string         `db:"status"`
	Provider     string         `db:"provider"`
	DurationMs   int64          `db:"duration_ms"`
	CreatedAt    time.Time      `db:"created_at"`
}

func toRow(r *domain.SearchRecord) historyRow {
	activities := pq.StringArray(r.Activities)
	if activities == nil {
		activities = pq.StringArray{}
	}
	return historyRow{
		ID:           r.ID,
		RegionType:   string(r.RegionType),
		CenterLat:    r.CenterLat,
		CenterLng:    r.CenterLng,
		RadiusMeters: r.RadiusMeters,
		TripType:     string(r.TripType),
		Activities:   activities,
		PlaceCount:   r.PlaceCount,
		ItemCount:    r.ItemCount,
		Status:       string(r.Status),
		Provider:     r.Provider,
		DurationMs:   r.DurationMs,
		CreatedAt:    r.CreatedAt,
	}
}

func (row historyRow) toDomain() *domain.SearchRecord {
	return &domain.SearchRecord{
		ID:           row.ID,
		RegionType:   domain.RegionType(row.RegionType),
		CenterLat:    row.CenterLat,
		CenterLng:    row.CenterLng,
		RadiusMeters: row.RadiusMeters,
		TripType:     domain.TripType(row.TripType),
		Activities:   []string(row.Activities),
		PlaceCount:   row.PlaceCount,
		ItemCount:    row.ItemCount,
		Status:       domain.ResultStatus(row.Status),
		Provider:     row.Provider,
		DurationMs:   row.DurationMs,
		CreatedAt:    row.CreatedAt,
	}
}

// Save сохраняет запись; повторная запись с тем же ID игнорируется
func (r *historyRepository) Save(ctx context.Context, record *domain.SearchRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO search_history (
			id, region_type, center_lat, center_lng, radius_meters, trip_type,
			activities, place_count, item_count, status, provider, duration_ms, created_at
		) VALUES (
			:id, :region_type, :center_lat, :center_lng, :radius_meters, :trip_type,
			:activities, :place_count, :item_count, :status, :provider, :duration_ms, :created_at
		)
		ON CONFLICT (id) DO NOTHING
	`

	if _, err := r.db.NamedExecContext(ctx, query, toRow(record)); err != nil {
		r.logger.Error("failed to save search history", zap.String("id", record.ID.String()), zap.Error(err))
		return fmt.Errorf("save search history: %w", err)
	}
	return nil
}

// ListRecent возвращает последние записи, новые первыми
func (r *historyRepository) ListRecent(ctx context.Context, limit int) ([]*domain.SearchRecord, error) {
	query := `
		SELECT id, region_type, center_lat, center_lng, radius_meters, trip_type,
		       activities, place_count, item_count, status, provider, duration_ms, created_at
		FROM search_history
		ORDER BY created_at DESC
		LIMIT $1
	`

	var rows []historyRow
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("list search history: %w", err)
	}

	records := make([]*domain.SearchRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.toDomain())
	}
	return records, nil
}

// GetStatistics агрегирует историю: итоги, средние и разбивки по статусу, типу области и поездки
func (r *historyRepository) GetStatistics(ctx context.Context) (*domain.Statistics, error) {
	stats := &domain.Statistics{
		ByStatus:     map[domain.ResultStatus]int{},
		ByRegionType: map[domain.RegionType]int{},
		ByTripType:   map[domain.TripType]int{},
		LastUpdated:  time.Now().UTC(),
	}

	var totals struct {
		Total         int          `db:"total"`
		AvgPlaces     float64      `db:"avg_places"`
		AvgItems      float64      `db:"avg_items"`
		AvgDurationMs float64      `db:"avg_duration_ms"`
		LastSearchAt  sql.NullTime `db:"last_search_at"`
	}

	totalsQuery := `
		SELECT
			COUNT(*) AS total,
			COALESCE(AVG(place_count), 0)::float8 AS avg_places,
			COALESCE(AVG(item_count), 0)::float8 AS avg_items,
			COALESCE(AVG(duration_ms), 0)::float8 AS avg_duration_ms,
			MAX(created_at) AS last_search_at
		FROM search_history
	`
	if err := r.db.GetContext(ctx, &totals, totalsQuery); err != nil {
		r.logger.Error("failed to get history totals", zap.Error(err))
		return nil, fmt.Errorf("get history totals: %w", err)
	}

	stats.TotalSearches = totals.Total
	stats.AvgPlaces = totals.AvgPlaces
	stats.AvgItems = totals.AvgItems
	stats.AvgDurationMs = totals.AvgDurationMs
	if totals.LastSearchAt.Valid {
		last := totals.LastSearchAt.Time
		stats.LastSearchAt = &last
	}

	byStatus, err := r.countBy(ctx, "status")
	if err != nil {
		return nil, err
	}
	for k, v := range byStatus {
		stats.ByStatus[domain.ResultStatus(k)] = v
	}

	byRegion, err := r.countBy(ctx, "region_type")
	if err != nil {
		return nil, err
	}
	for k, v := range byRegion {
		stats.ByRegionType[domain.RegionType(k)] = v
	}

	byTrip, err := r.countBy(ctx, "trip_type")
	if err != nil {
		return nil, err
	}
	for k, v := range byTrip {
		stats.ByTripType[domain.TripType(k)] = v
	}

	return stats, nil
}

// countBy - группировка по колонке; column берётся только из кода, не из запроса
func (r *historyRepository) countBy(ctx context.Context, column string) (map[string]int, error) {
	var rows []struct {
		Key   string `db:"key"`
		Count int    `db:"count"`
	}

	query := fmt.Sprintf(`SELECT %s AS key, COUNT(*) AS count FROM search_history GROUP BY %s`, column, column)
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		r.logger.Error("failed to group search history", zap.String("column", column), zap.Error(err))
		return nil, fmt.Errorf("group search history by %s: %w", column, err)
	}

	result := make(map[string]int, len(rows))
	for _, row := range rows {
		result[row.Key] = row.Count
	}
	return result, nil
}
