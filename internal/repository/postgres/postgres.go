package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/itinerary-microservice/internal/config"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

const (
	applicationName = "itinerary-microservice"
	pingTimeout     = 5 * time.Second
)

// DB - пул подключений к базе истории поисков
type DB struct {
	*sqlx.DB
	logger *zap.Logger
}

// New разбирает DSN через pgx и открывает database/sql пул поверх драйвера pgx
func New(cfg *config.DatabaseConfig, logger *zap.Logger) (*DB, error) {
	connConfig, err := pgx.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	connConfig.RuntimeParams["application_name"] = applicationName

	db := sqlx.NewDb(stdlib.OpenDB(*connConfig), "pgx")

	db.SetMaxOpenConns(cfg.MaxConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database %s@%s:%d: %w", cfg.DBName, cfg.Host, cfg.Port, err)
	}

	logger.Info("PostgreSQL connected",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.DBName),
		zap.Int("max_conns", cfg.MaxConns),
	)

	return &DB{DB: db, logger: logger}, nil
}

func (db *DB) Close() error {
	stats := db.Stats()
	db.logger.Info("Closing PostgreSQL connection",
		zap.Int("open_conns", stats.OpenConnections),
		zap.Int64("wait_count", stats.WaitCount))
	return db.DB.Close()
}

// Health - PING для /health
func (db *DB) Health(ctx context.Context) error {
	return db.PingContext(ctx)
}

// NewDBForTest оборачивает готовое подключение (тесты)
func NewDBForTest(sqlxDB *sqlx.DB, logger *zap.Logger) *DB {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DB{
		DB:     sqlxDB,
		logger: logger,
	}
}
