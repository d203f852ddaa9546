package services

import (
	"testing"

	"scamshield/internal/domain/models"
)

func TestClassifyBoundaries(t *testing.T) {
	tests := []struct {
		score    int
		want     models.RiskLabel
		guidance string
	}{
		{0, models.RiskLabelSafe, models.GuidanceSafe},
		{30, models.RiskLabelSafe, models.GuidanceSafe},
		{31, models.RiskLabelSuspicious, models.GuidanceSuspicious},
		{70, models.RiskLabelSuspicious, models.GuidanceSuspicious},
		{71, models.RiskLabelDangerous, models.GuidanceDangerous},
		{100, models.RiskLabelDangerous, models.GuidanceDangerous},
	}

	for _, tt := range tests {
		label, guidance := Classify(tt.score)
		if label != tt.want {
			t.Errorf("Classify(%d) label = %s, want %s", tt.score, label, tt.want)
		}
		if guidance != tt.guidance {
			t.Errorf("Classify(%d) guidance = %q, want %q", tt.score, guidance, tt.guidance)
		}
	}
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name                       string
		rule, denylist, statistical int
		wantScore                  int
		wantLabel                  models.RiskLabel
	}{
		{"nothing", 0, 0, 0, 0, models.RiskLabelSafe},
		{"rule only", 30, 0, 0, 30, models.RiskLabelSafe},
		{"rule and ai", 30, 0, 1, 31, models.RiskLabelSuspicious},
		{"denylist and ai without rules", 0, 50, 40, 90, models.RiskLabelDangerous},
		{"capped at 100", 70, 50, 40, 100, models.RiskLabelDangerous},
		{"never negative", 0, 0, -5, 0, models.RiskLabelSafe},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Aggregate(tt.rule, tt.denylist, tt.statistical)
			if v.Score != tt.wantScore {
				t.Errorf("Aggregate() score = %d, want %d", v.Score, tt.wantScore)
			}
			if v.Label != tt.wantLabel {
				t.Errorf("Aggregate() label = %s, want %s", v.Label, tt.wantLabel)
			}
		})
	}
}
