package service

import (
	"context"

	"github.com/ndewijer/portfolio-monitor/internal/model"
	"github.com/ndewijer/portfolio-monitor/internal/repository"
)

// Alert log page sizes.
const (
	DefaultAlertLimit = 50
	MaxAlertLimit     = 500
)

// AlertService reads the log of alerts raised by the monitor.
type AlertService struct {
	alertRepo *repository.AlertRepository
}

// NewAlertService creates a new AlertService.
func NewAlertService(alertRepo *repository.AlertRepository) *AlertService {
	return &AlertService{alertRepo: alertRepo}
}

// GetRecentAlerts returns the newest alerts first. A non-positive limit uses
// DefaultAlertLimit; limits above MaxAlertLimit are capped.
func (s *AlertService) GetRecentAlerts(ctx context.Context, limit int) ([]model.AlertRecord, error) {
	switch {
	case limit <= 0:
		limit = DefaultAlertLimit
	case limit > MaxAlertLimit:
		limit = MaxAlertLimit
	}
	return s.alertRepo.GetRecentAlerts(ctx, limit)
}
