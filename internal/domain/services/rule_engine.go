package services

import (
	"regexp"
	"strings"

	"scamshield/internal/domain/models"
)

// Rule layer weights and caps
const (
	maxRuleScore         = 70
	phonePatternBonus    = 20
	urlPatternBonus      = 25
	triggerNumberPattern = "suspicious_number_pattern"
	triggerURLPattern    = "suspicious_url_pattern"
)

// RuleCategory is one named group of scam indicators. The category scores its
// weight once no matter how many of its patterns match.
type RuleCategory struct {
	Name     string
	Weight   int
	Patterns []*regexp.Regexp
}

// Matches reports whether any pattern matches the canonicalized content
func (c RuleCategory) Matches(canonical string) bool {
	for _, p := range c.Patterns {
		if p.MatchString(canonical) {
			return true
		}
	}
	return false
}

// defaultCategories is the fixed rule catalogue, evaluated in this order
var defaultCategories = []RuleCategory{
	{
		Name:   "urgency",
		Weight: 30,
		Patterns: compileAll(
			`urgent|immediate|expire|expires|within \d+ hours?`,
			`act now|limited time|hurry|final notice`,
			`suspend|blocked|frozen|terminate`,
		),
	},
	{
		Name:   "lottery",
		Weight: 35,
		Patterns: compileAll(
			`congratulations|winner|won.*prize|lottery|jackpot`,
			`claim.*\$[\d,]+|claim.*prize|claim.*reward`,
			`inheritance|beneficiary|million dollars?`,
			`you.*won.*\$|selected.*winner`,
		),
	},
	{
		Name:   "otp_phishing",
		Weight: 25,
		Patterns: compileAll(
			`verification code|otp|one.time.password`,
			`code.*\d{4,6}|pin.*\d{4,6}`,
			`authenticate|verify.*account`,
		),
	},
	{
		Name:   "financial",
		Weight: 35,
		Patterns: compileAll(
			`bank.*details|credit.*card|account.*number`,
			`ssn|social.*security|tax.*refund`,
			`bitcoin|crypto|investment.*opportunity`,
		),
	},
	{
		Name:   "authority",
		Weight: 30,
		Patterns: compileAll(
			`irs|fbi|police|government|court`,
			`legal.*action|warrant|arrest`,
			`immigration|deportation|fine`,
		),
	},
	{
		Name:   "suspicious_links",
		Weight: 25,
		Patterns: compileAll(
			`bit\.ly|tinyurl|t\.co|goo\.gl`,
			`click.*here|download.*now|open.*link`,
			`http.*suspicious|shortened.*url`,
		),
	},
}

// Evaluated against the number with separators stripped; first match wins.
// \p{Nd} matches the same digits DetectScanType accepts.
var scamNumberPatterns = compileAll(
	`^(000|111|222|333|444|666|777|888|999)[-\s]?\p{Nd}{3}[-\s]?\p{Nd}{4}$`,
	`^\+1[-\s]?900[-\s]?\p{Nd}{3}[-\s]?\p{Nd}{4}$`,
	`^\p{Nd}{4,6}$`,
	`^\p{Nd}{11,}$`,
)

// Evaluated against the lowercased URL; first match wins
var suspiciousURLPatterns = compileAll(
	`^https?://[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}`,
	`[a-z0-9]{20,}\.`,
	`[0-9]{10,}\.`,
)

// ruleAllowedDomains suppress the URL shape rule when contained in the content
var ruleAllowedDomains = []string{
	"google.com", "microsoft.com", "apple.com", "amazon.com",
	"facebook.com", "youtube.com", "wikipedia.org",
}

// RuleEngine scores content against the static pattern catalogue.
// It is pure and safe for concurrent use.
type RuleEngine struct {
	categories []RuleCategory
}

// NewRuleEngine creates a rule engine over the default catalogue
func NewRuleEngine() *RuleEngine {
	return &RuleEngine{categories: defaultCategories}
}

// Categories returns the catalogue in evaluation order
func (e *RuleEngine) Categories() []RuleCategory {
	return e.categories
}

// Score evaluates content of the given type and returns the rule layer outcome.
// The score never exceeds 70.
func (e *RuleEngine) Score(content string, scanType models.ScanType) models.LayerOutcome {
	out := models.LayerOutcome{Layer: models.LayerRule, Triggers: []string{}}
	canonical := strings.ToLower(content)

	score := 0
	for _, c := range e.categories {
		if c.Matches(canonical) {
			score += c.Weight
			out.Triggers = append(out.Triggers, models.LayerRule.Trigger(c.Name))
		}
	}

	switch scanType {
	case models.ScanTypePhone:
		if firstMatch(scamNumberPatterns, stripPhoneSeparators(content)) {
			score += phonePatternBonus
			out.Triggers = append(out.Triggers, models.LayerRule.Trigger(triggerNumberPattern))
		}
	case models.ScanTypeURL:
		clean := strings.TrimSpace(canonical)
		if !containsAny(clean, ruleAllowedDomains) && firstMatch(suspiciousURLPatterns, clean) {
			score += urlPatternBonus
			out.Triggers = append(out.Triggers, models.LayerRule.Trigger(triggerURLPattern))
		}
	}

	out.Score = min(score, maxRuleScore)
	return out
}

func firstMatch(patterns []*regexp.Regexp, s string) bool {
	for _, p := range patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func compileAll(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, expr := range exprs {
		out[i] = regexp.MustCompile(expr)
	}
	return out
}
