package streaming

import (
	"net/url"
	"strconv"
	"strings"

	"scamshield/internal/domain/models"
)

// Subscription filters the scan events delivered to a subscriber. The zero
// value matches everything.
type Subscription struct {
	Labels   []models.RiskLabel `json:"labels,omitempty"`
	MinScore int                `json:"min_score,omitempty"`
}

// Matches reports whether the event passes the filter
func (s *Subscription) Matches(event models.ScanEvent) bool {
	if s == nil {
		return true
	}
	if event.RiskScore < s.MinScore {
		return false
	}
	if len(s.Labels) == 0 {
		return true
	}
	for _, l := range s.Labels {
		if strings.EqualFold(string(l), string(event.Label)) {
			return true
		}
	}
	return false
}

// SubscriptionFromQuery reads label (repeatable or comma separated) and
// min_score query parameters
func SubscriptionFromQuery(q url.Values) *Subscription {
	sub := &Subscription{}
	for _, v := range q["label"] {
		for _, l := range strings.Split(v, ",") {
			if l = strings.TrimSpace(l); l != "" {
				sub.Labels = append(sub.Labels, models.RiskLabel(l))
			}
		}
	}
	if n, err := strconv.Atoi(q.Get("min_score")); err == nil {
		sub.MinScore = n
	}
	return sub
}
