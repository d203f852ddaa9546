package cache

import (
	"context"
	"errors"
	"time"

	"scamshield/internal/domain/models"
	"scamshield/pkg/logger"
)

// HistoryBackend is the scan history system of record
type HistoryBackend interface {
	SaveScan(ctx context.Context, result *models.ScanResult) error
	RecentScans(ctx context.Context, limit int) ([]*models.ScanResult, error)
	ScanStats(ctx context.Context) (*models.ScanStats, error)
}

// CachedHistory caches the stats aggregate for a short TTL and drops it on
// every write. Recent scans always come from the backend.
type CachedHistory struct {
	backend HistoryBackend
	cache   Store
	ttl     time.Duration
	logger  *logger.Logger
}

// NewCachedHistory wraps backend with a stats cache
func NewCachedHistory(backend HistoryBackend, cache Store, ttl time.Duration, log *logger.Logger) *CachedHistory {
	return &CachedHistory{
		backend: backend,
		cache:   cache,
		ttl:     ttl,
		logger:  log.WithComponent("history-cache"),
	}
}

// SaveScan writes through and invalidates the cached stats
func (h *CachedHistory) SaveScan(ctx context.Context, result *models.ScanResult) error {
	if err := h.backend.SaveScan(ctx, result); err != nil {
		return err
	}
	if err := h.cache.Delete(ctx, KeyScanStats); err != nil {
		h.logger.Debug().Err(err).Msg("stats invalidation failed")
	}
	return nil
}

// RecentScans delegates to the backend
func (h *CachedHistory) RecentScans(ctx context.Context, limit int) ([]*models.ScanResult, error) {
	return h.backend.RecentScans(ctx, limit)
}

// ScanStats serves the cached aggregate when present
func (h *CachedHistory) ScanStats(ctx context.Context) (*models.ScanStats, error) {
	var stats models.ScanStats
	err := GetJSON(ctx, h.cache, KeyScanStats, &stats)
	if err == nil {
		return &stats, nil
	}
	if !errors.Is(err, ErrMiss) {
		h.logger.Debug().Err(err).Msg("stats cache read failed")
	}

	fresh, err := h.backend.ScanStats(ctx)
	if err != nil {
		return nil, err
	}
	if err := SetJSON(ctx, h.cache, KeyScanStats, fresh, h.ttl); err != nil {
		h.logger.Debug().Err(err).Msg("stats cache write failed")
	}
	return fresh, nil
}
