package testhelpers

import (
	"github.com/itinerary-microservice/internal/domain/repository"
	"github.com/itinerary-microservice/internal/repository/postgres"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// NewDBForTest creates a postgres.DB with test database and logger
func NewDBForTest(db *sqlx.DB, logger *zap.Logger) *postgres.DB {
	return postgres.NewDBForTest(db, logger)
}

// NewHistoryRepositoryForTest creates a history repository with test database and logger
func NewHistoryRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.HistoryRepository {
	return postgres.NewHistoryRepository(NewDBForTest(db, logger), logger)
}
