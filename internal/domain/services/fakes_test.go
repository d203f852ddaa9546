package services

import (
	"context"
	"errors"
	"sync"

	"scamshield/internal/domain/models"
)

var errOutage = errors.New("connection refused")

// failingStore fails every call, simulating a store outage
type failingStore struct{}

func (failingStore) IsBlockedNumber(context.Context, string) (bool, error) { return false, errOutage }
func (failingStore) IsBlockedDomain(context.Context, string) (bool, error) { return false, errOutage }
func (failingStore) ListBlockedMessages(context.Context, int) ([]models.BlockedMessage, error) {
	return nil, errOutage
}

// slowStore blocks until the context is done
type slowStore struct{}

func (slowStore) IsBlockedNumber(ctx context.Context, _ string) (bool, error) {
	<-ctx.Done()
	return false, ctx.Err()
}
func (slowStore) IsBlockedDomain(ctx context.Context, _ string) (bool, error) {
	<-ctx.Done()
	return false, ctx.Err()
}
func (slowStore) ListBlockedMessages(ctx context.Context, _ int) ([]models.BlockedMessage, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

// recordingStore captures lookup keys and the requested pattern limit
type recordingStore struct {
	mu      sync.Mutex
	numbers []string
	domains []string
	limit   int
}

func (s *recordingStore) IsBlockedNumber(_ context.Context, n string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.numbers = append(s.numbers, n)
	return false, nil
}
func (s *recordingStore) IsBlockedDomain(_ context.Context, d string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.domains = append(s.domains, d)
	return false, nil
}
func (s *recordingStore) ListBlockedMessages(_ context.Context, limit int) ([]models.BlockedMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limit = limit
	return nil, nil
}

// failingHistory rejects every write
type failingHistory struct{}

func (failingHistory) SaveScan(context.Context, *models.ScanResult) error { return errOutage }
func (failingHistory) RecentScans(context.Context, int) ([]*models.ScanResult, error) {
	return nil, errOutage
}
func (failingHistory) ScanStats(context.Context) (*models.ScanStats, error) { return nil, errOutage }

// stubStatistical returns a fixed outcome
type stubStatistical struct {
	out   models.LayerOutcome
	ready bool
	panic bool
}

func (s stubStatistical) Score(string) models.LayerOutcome {
	if s.panic {
		panic("boom")
	}
	return s.out
}
func (s stubStatistical) Ready() bool { return s.ready }

// capturePublisher records published events
type capturePublisher struct {
	mu     sync.Mutex
	events []models.ScanEvent
}

func (p *capturePublisher) PublishScan(_ context.Context, e models.ScanEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}
