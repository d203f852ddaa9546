package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"scamshield/internal/domain/models"
)

// HistoryRepository persists scan results append-only
type HistoryRepository struct {
	pool *pgxpool.Pool
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(pool *pgxpool.Pool) *HistoryRepository {
	return &HistoryRepository{pool: pool}
}

// SaveScan inserts one result
func (r *HistoryRepository) SaveScan(ctx context.Context, s *models.ScanResult) error {
	query := `
		INSERT INTO scan_history (
			id, content, scan_type, risk_score, label, guidance, triggers, scanned_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	triggers := s.Triggers
	if triggers == nil {
		triggers = []string{}
	}

	_, err := r.pool.Exec(ctx, query,
		s.ID, s.Content, string(s.ScanType), s.RiskScore,
		string(s.Label), s.Guidance, triggers, s.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to save scan: %w", err)
	}
	return nil
}

// RecentScans returns up to limit results, newest first
func (r *HistoryRepository) RecentScans(ctx context.Context, limit int) ([]*models.ScanResult, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, content, scan_type, risk_score, label, guidance, triggers, scanned_at
		FROM scan_history
		ORDER BY scanned_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query scan history: %w", err)
	}

	results, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*models.ScanResult, error) {
		var s models.ScanResult
		err := row.Scan(
			&s.ID, &s.Content, &s.ScanType, &s.RiskScore,
			&s.Label, &s.Guidance, &s.Triggers, &s.Timestamp,
		)
		s.Timestamp = s.Timestamp.UTC()
		return &s, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan history rows: %w", err)
	}
	return results, nil
}

// ScanStats counts history rows in total and per label
func (r *HistoryRepository) ScanStats(ctx context.Context) (*models.ScanStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE label = $1),
			COUNT(*) FILTER (WHERE label = $2),
			COUNT(*) FILTER (WHERE label = $3)
		FROM scan_history`

	var stats models.ScanStats
	err := r.pool.QueryRow(ctx, query,
		string(models.RiskLabelSafe), string(models.RiskLabelSuspicious), string(models.RiskLabelDangerous),
	).Scan(&stats.TotalScans, &stats.SafeScans, &stats.SuspiciousScans, &stats.DangerousScans)
	if err != nil {
		return nil, fmt.Errorf("failed to compute scan stats: %w", err)
	}
	return &stats, nil
}
