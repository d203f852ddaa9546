package models

import (
	"time"

	"github.com/google/uuid"
)

// ScanType is the inferred or requested category of scanned content
type ScanType string

const (
	ScanTypePhone ScanType = "phone"
	ScanTypeURL   ScanType = "url"
	ScanTypeText  ScanType = "text"
)

// Valid reports whether t is one of the known scan types
func (t ScanType) Valid() bool {
	switch t {
	case ScanTypePhone, ScanTypeURL, ScanTypeText:
		return true
	}
	return false
}

func (t ScanType) String() string {
	return string(t)
}

// ScanRequest is the body of POST /scan
type ScanRequest struct {
	Content  string   `json:"content"`
	ScanType ScanType `json:"scan_type,omitempty"`
}

// ScanResult is the immutable outcome of one scan. It is persisted append-only.
type ScanResult struct {
	ID        uuid.UUID `json:"id"`
	Content   string    `json:"content"`
	ScanType  ScanType  `json:"scan_type"`
	RiskScore int       `json:"risk_score"`
	Label     RiskLabel `json:"label"`
	Guidance  string    `json:"guidance"`
	Triggers  []string  `json:"triggers"`
	Timestamp time.Time `json:"timestamp"`

	// Layers is the per-detector breakdown; not part of the wire or stored record
	Layers []LayerOutcome `json:"-"`
}

// LayerOutcome returns the outcome recorded for the named layer, if any
func (r *ScanResult) LayerOutcome(layer Layer) (LayerOutcome, bool) {
	for _, o := range r.Layers {
		if o.Layer == layer {
			return o, true
		}
	}
	return LayerOutcome{}, false
}

// ScanStats holds aggregate counts over scan history
type ScanStats struct {
	TotalScans      int64 `json:"total_scans"`
	SafeScans       int64 `json:"safe_scans"`
	SuspiciousScans int64 `json:"suspicious_scans"`
	DangerousScans  int64 `json:"dangerous_scans"`
}

// Add records one result of the given label
func (s *ScanStats) Add(label RiskLabel) {
	s.TotalScans++
	switch label {
	case RiskLabelSafe:
		s.SafeScans++
	case RiskLabelSuspicious:
		s.SuspiciousScans++
	case RiskLabelDangerous:
		s.DangerousScans++
	}
}

// ScanEvent is published to the event stream after each completed scan
type ScanEvent struct {
	ID        uuid.UUID `json:"id"`
	ScanType  ScanType  `json:"scan_type"`
	RiskScore int       `json:"risk_score"`
	Label     RiskLabel `json:"label"`
	Triggers  []string  `json:"triggers"`
	Timestamp time.Time `json:"timestamp"`
}

// NewScanEvent builds the event for a result. The scanned content is not included.
func NewScanEvent(r *ScanResult) ScanEvent {
	return ScanEvent{
		ID:        r.ID,
		ScanType:  r.ScanType,
		RiskScore: r.RiskScore,
		Label:     r.Label,
		Triggers:  r.Triggers,
		Timestamp: r.Timestamp,
	}
}
