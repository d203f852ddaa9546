package memstore

import (
	"context"
	"sort"
	"sync"

	"scamshield/internal/domain/models"
)

// Store keeps denylists and scan history in memory.
// This is suitable for development and testing, not for production use.
type Store struct {
	mu       sync.RWMutex
	numbers  map[string]models.BlockedNumber
	domains  map[string]models.BlockedDomain
	messages []models.BlockedMessage
	history  []models.ScanResult
}

// New creates an empty in-memory store
func New() *Store {
	return &Store{
		numbers: make(map[string]models.BlockedNumber),
		domains: make(map[string]models.BlockedDomain),
	}
}

// IsBlockedNumber reports an exact match in the blocked numbers
func (s *Store) IsBlockedNumber(_ context.Context, number string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.numbers[number]
	return ok, nil
}

// IsBlockedDomain reports an exact match in the blocked domains
func (s *Store) IsBlockedDomain(_ context.Context, domain string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.domains[domain]
	return ok, nil
}

// ListBlockedMessages returns up to limit patterns in insertion order
func (s *Store) ListBlockedMessages(_ context.Context, limit int) ([]models.BlockedMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.messages)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]models.BlockedMessage, n)
	copy(out, s.messages[:n])
	return out, nil
}

// AddBlockedNumber inserts the entry unless the number is present
func (s *Store) AddBlockedNumber(_ context.Context, entry models.BlockedNumber) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.numbers[entry.Number]; ok {
		return false, nil
	}
	s.numbers[entry.Number] = entry
	return true, nil
}

// AddBlockedDomain inserts the entry unless the domain is present
func (s *Store) AddBlockedDomain(_ context.Context, entry models.BlockedDomain) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.domains[entry.Domain]; ok {
		return false, nil
	}
	s.domains[entry.Domain] = entry
	return true, nil
}

// AddBlockedMessage inserts the entry unless the pattern is present
func (s *Store) AddBlockedMessage(_ context.Context, entry models.BlockedMessage) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.messages {
		if m.Pattern == entry.Pattern {
			return false, nil
		}
	}
	s.messages = append(s.messages, entry)
	return true, nil
}

// SaveScan appends a copy of the result to history
func (s *Store) SaveScan(_ context.Context, result *models.ScanResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *result
	stored.Triggers = append([]string(nil), result.Triggers...)
	stored.Layers = nil
	s.history = append(s.history, stored)
	return nil
}

// RecentScans returns up to limit results, newest first
func (s *Store) RecentScans(_ context.Context, limit int) ([]*models.ScanResult, error) {
	s.mu.RLock()
	sorted := make([]models.ScanResult, 0, len(s.history))
	for i := len(s.history) - 1; i >= 0; i-- {
		sorted = append(sorted, s.history[i])
	}
	s.mu.RUnlock()

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}

	out := make([]*models.ScanResult, len(sorted))
	for i := range sorted {
		out[i] = &sorted[i]
	}
	return out, nil
}

// ScanStats counts history by label
func (s *Store) ScanStats(_ context.Context) (*models.ScanStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &models.ScanStats{}
	for _, r := range s.history {
		stats.Add(r.Label)
	}
	return stats, nil
}

// Ping always succeeds
func (s *Store) Ping(context.Context) error {
	return nil
}
