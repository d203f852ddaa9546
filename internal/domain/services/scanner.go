package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"scamshield/internal/domain/models"
	"scamshield/pkg/logger"
)

const (
	defaultHistoryTimeout = 5 * time.Second
	defaultHistoryLimit   = 10
)

// StatisticalScorer is the statistical detection layer
type StatisticalScorer interface {
	Score(content string) models.LayerOutcome
	Ready() bool
}

// HistoryStore persists scan results and serves aggregates over them
type HistoryStore interface {
	SaveScan(ctx context.Context, result *models.ScanResult) error
	RecentScans(ctx context.Context, limit int) ([]*models.ScanResult, error)
	ScanStats(ctx context.Context) (*models.ScanStats, error)
}

// EventPublisher fans completed scans out to subscribers
type EventPublisher interface {
	PublishScan(ctx context.Context, event models.ScanEvent) error
}

// ScannerConfig tunes the orchestrator
type ScannerConfig struct {
	HistoryTimeout time.Duration
	HistoryLimit   int
}

// Scanner runs the three detection layers over one piece of content and
// combines them into a ScanResult
type Scanner struct {
	rules       *RuleEngine
	denylist    *DenylistChecker
	statistical StatisticalScorer
	history     HistoryStore
	publisher   EventPublisher
	cfg         ScannerConfig
	logger      *logger.Logger

	pending sync.WaitGroup
	now     func() time.Time
}

// NewScanner creates a scanner. history and publisher may be nil.
func NewScanner(
	rules *RuleEngine,
	denylist *DenylistChecker,
	statistical StatisticalScorer,
	history HistoryStore,
	publisher EventPublisher,
	cfg ScannerConfig,
	log *logger.Logger,
) *Scanner {
	if cfg.HistoryTimeout <= 0 {
		cfg.HistoryTimeout = defaultHistoryTimeout
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = defaultHistoryLimit
	}
	return &Scanner{
		rules:       rules,
		denylist:    denylist,
		statistical: statistical,
		history:     history,
		publisher:   publisher,
		cfg:         cfg,
		logger:      log.WithComponent("scanner"),
		now:         time.Now,
	}
}

// ModelReady reports whether the statistical layer has a trained model
func (s *Scanner) ModelReady() bool {
	return s.statistical != nil && s.statistical.Ready()
}

// Scan scores the request's content. It fails with ErrInvalidInput for blank
// content or an unknown scan type and with ErrInternal when orchestration
// breaks; degraded layers never fail the scan.
func (s *Scanner) Scan(ctx context.Context, req models.ScanRequest) (*models.ScanResult, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, fmt.Errorf("%w: content cannot be empty", ErrInvalidInput)
	}

	scanType := req.ScanType
	if scanType == "" {
		scanType = DetectScanType(content)
	} else if !scanType.Valid() {
		return nil, fmt.Errorf("%w: unknown scan_type %q", ErrInvalidInput, scanType)
	}

	outcomes, err := s.runLayers(ctx, content, scanType)
	if err != nil {
		s.logger.Error().Err(err).Str("scan_type", scanType.String()).Msg("scan aborted")
		return nil, err
	}

	verdict := Aggregate(outcomes[0].Score, outcomes[1].Score, outcomes[2].Score)

	triggers := make([]string, 0)
	for _, o := range outcomes {
		triggers = append(triggers, o.Triggers...)
	}

	result := &models.ScanResult{
		ID:        uuid.New(),
		Content:   content,
		ScanType:  scanType,
		RiskScore: verdict.Score,
		Label:     verdict.Label,
		Guidance:  verdict.Guidance,
		Triggers:  triggers,
		Timestamp: s.now().UTC(),
		Layers:    outcomes,
	}

	log := s.logger.WithScanID(result.ID.String())
	for _, o := range outcomes {
		if o.Degraded {
			log.Warn().Str("layer", string(o.Layer)).Str("reason", o.Reason).Msg("layer degraded")
		}
	}
	log.Info().
		Str("scan_type", scanType.String()).
		Int("risk_score", result.RiskScore).
		Str("label", string(result.Label)).
		Strs("triggers", result.Triggers).
		Msg("scan completed")

	s.record(result, log)

	return result, nil
}

// runLayers evaluates the detectors concurrently and returns their outcomes
// in rule, denylist, statistical order
func (s *Scanner) runLayers(ctx context.Context, content string, scanType models.ScanType) ([]models.LayerOutcome, error) {
	outcomes := make([]models.LayerOutcome, 3)
	g, gctx := errgroup.WithContext(ctx)

	run := func(i int, layer models.Layer, fn func() models.LayerOutcome) {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("%w: %s layer panicked: %v", ErrInternal, layer, r)
				}
			}()
			outcomes[i] = fn()
			return nil
		})
	}

	run(0, models.LayerRule, func() models.LayerOutcome {
		return s.rules.Score(content, scanType)
	})
	run(1, models.LayerDenylist, func() models.LayerOutcome {
		if s.denylist == nil {
			return models.Degrade(models.LayerDenylist, ErrStoreUnavailable.Error())
		}
		return s.denylist.Score(gctx, content, scanType)
	})
	run(2, models.LayerStatistical, func() models.LayerOutcome {
		if s.statistical == nil {
			return models.Degrade(models.LayerStatistical, "statistical layer not configured")
		}
		return s.statistical.Score(content)
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

// record persists and publishes the result without holding up the caller.
// Failures are logged only.
func (s *Scanner) record(result *models.ScanResult, log *logger.Logger) {
	if s.history == nil && s.publisher == nil {
		return
	}

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()

		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.HistoryTimeout)
		defer cancel()

		if s.history != nil {
			if err := s.history.SaveScan(ctx, result); err != nil {
				log.Error().Err(err).Msg("failed to store scan history")
			}
		}
		if s.publisher != nil {
			if err := s.publisher.PublishScan(ctx, models.NewScanEvent(result)); err != nil {
				log.Warn().Err(err).Msg("failed to publish scan event")
			}
		}
	}()
}

// Wait blocks until all in-flight history writes and publishes finish
func (s *Scanner) Wait() {
	s.pending.Wait()
}

// History returns the most recent results, newest first
func (s *Scanner) History(ctx context.Context) ([]*models.ScanResult, error) {
	if s.history == nil {
		return nil, ErrStoreUnavailable
	}
	results, err := s.history.RecentScans(ctx, s.cfg.HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve scan history: %w", err)
	}
	return results, nil
}

// Stats returns total and per-label scan counts
func (s *Scanner) Stats(ctx context.Context) (*models.ScanStats, error) {
	if s.history == nil {
		return nil, ErrStoreUnavailable
	}
	stats, err := s.history.ScanStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve statistics: %w", err)
	}
	return stats, nil
}
