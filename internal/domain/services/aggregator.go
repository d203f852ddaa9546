package services

import "scamshield/internal/domain/models"

// Verdict is the aggregated score with its label and guidance
type Verdict struct {
	Score    int
	Label    models.RiskLabel
	Guidance string
}

// Aggregate sums the layer scores, caps the total at 100 and labels it
func Aggregate(rule, denylist, statistical int) Verdict {
	total := min(rule+denylist+statistical, models.MaxRiskScore)
	total = max(total, 0)
	label, guidance := Classify(total)
	return Verdict{Score: total, Label: label, Guidance: guidance}
}

// Classify maps a score to its label: <=30 Safe, 31-70 Suspicious, >=71 Dangerous
func Classify(score int) (models.RiskLabel, string) {
	switch {
	case score <= models.SafeUpperBound:
		return models.RiskLabelSafe, models.GuidanceSafe
	case score <= models.SuspiciousUpperBound:
		return models.RiskLabelSuspicious, models.GuidanceSuspicious
	default:
		return models.RiskLabelDangerous, models.GuidanceDangerous
	}
}
