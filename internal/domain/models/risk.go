package models

// RiskLabel is the ordinal verdict derived from a risk score
type RiskLabel string

const (
	RiskLabelSafe       RiskLabel = "Safe"
	RiskLabelSuspicious RiskLabel = "Suspicious"
	RiskLabelDangerous  RiskLabel = "Dangerous"
)

// Score bounds
const (
	MaxRiskScore         = 100
	SafeUpperBound       = 30
	SuspiciousUpperBound = 70
)

// Guidance texts attached to each label
const (
	GuidanceSafe       = "This content appears safe. No significant risk indicators detected."
	GuidanceSuspicious = "This content shows some warning signs. Exercise caution and verify authenticity before taking any action."
	GuidanceDangerous  = "This content is highly likely to be a scam. Do not share personal information, click links, or send money."
)

// Layer identifies one of the independent detectors
type Layer string

const (
	LayerRule        Layer = "rule"
	LayerDenylist    Layer = "denylist"
	LayerStatistical Layer = "statistical"
)

// TriggerPrefix returns the prefix put in front of every trigger the layer emits
func (l Layer) TriggerPrefix() string {
	switch l {
	case LayerRule:
		return "Rule: "
	case LayerDenylist:
		return "Blacklist: "
	case LayerStatistical:
		return "AI: "
	}
	return ""
}

// Trigger formats a trigger name for the layer
func (l Layer) Trigger(name string) string {
	return l.TriggerPrefix() + name
}

// LayerOutcome is the tagged result of one detector: its score contribution and
// triggers, or a degraded marker with the reason the layer contributed nothing.
type LayerOutcome struct {
	Layer    Layer    `json:"layer"`
	Score    int      `json:"score"`
	Triggers []string `json:"triggers"`
	Degraded bool     `json:"degraded"`
	Reason   string   `json:"reason,omitempty"`
}

// Degrade returns a zero-score outcome for the layer carrying the reason
func Degrade(layer Layer, reason string) LayerOutcome {
	return LayerOutcome{Layer: layer, Triggers: []string{}, Degraded: true, Reason: reason}
}
