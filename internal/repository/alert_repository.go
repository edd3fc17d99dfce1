package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ndewijer/portfolio-monitor/internal/model"
)

// AlertRepository records alerts raised by the monitor in the alert_log table.
type AlertRepository struct {
	db *sql.DB
}

// NewAlertRepository creates a new AlertRepository with the provided database connection.
func NewAlertRepository(db *sql.DB) *AlertRepository {
	return &AlertRepository{db: db}
}

// InsertAlert stores an alert together with its delivery outcome.
func (r *AlertRepository) InsertAlert(ctx context.Context, alert model.Alert, delivered bool) error {
	query := `
		INSERT INTO alert_log (
			id, position_id, symbol, current_price, change_percent,
			threshold_percent, subject, delivered, raised_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		alert.ID,
		alert.PositionID,
		alert.Symbol,
		alert.CurrentPrice,
		alert.ChangePercent,
		alert.ThresholdPercent,
		alert.Subject,
		delivered,
		alert.RaisedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert alert: %w", err)
	}
	return nil
}

// GetRecentAlerts returns up to limit alerts, newest first.
// Returns an empty slice if no alerts have been recorded.
func (r *AlertRepository) GetRecentAlerts(ctx context.Context, limit int) ([]model.AlertRecord, error) {
	query := `
		SELECT id, position_id, symbol, current_price, change_percent,
		       threshold_percent, subject, delivered, raised_at
		FROM alert_log
		ORDER BY raised_at DESC
		LIMIT ?
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query alert_log table: %w", err)
	}
	defer rows.Close()

	alerts := []model.AlertRecord{}
	for rows.Next() {
		var a model.AlertRecord
		err := rows.Scan(
			&a.ID,
			&a.PositionID,
			&a.Symbol,
			&a.CurrentPrice,
			&a.ChangePercent,
			&a.ThresholdPercent,
			&a.Subject,
			&a.Delivered,
			&a.RaisedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan alert_log results: %w", err)
		}
		alerts = append(alerts, a)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating alert_log table: %w", err)
	}

	return alerts, nil
}
