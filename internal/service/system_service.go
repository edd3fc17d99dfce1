package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ndewijer/portfolio-monitor/internal/database"
	"github.com/ndewijer/portfolio-monitor/internal/repository"
)

// SystemService handles system-related operations
type SystemService struct {
	db           *sql.DB
	positionRepo *repository.PositionRepository
}

// NewSystemService creates a new SystemService
func NewSystemService(db *sql.DB, positionRepo *repository.PositionRepository) *SystemService {
	return &SystemService{
		db:           db,
		positionRepo: positionRepo,
	}
}

// CheckHealth checks the alert log database and the position store backend.
func (s *SystemService) CheckHealth(ctx context.Context) error {
	if err := database.HealthCheck(ctx, s.db); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := s.positionRepo.Ping(ctx); err != nil {
		return fmt.Errorf("position store: %w", err)
	}
	return nil
}
