package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/cloudflare/ahocorasick"

	"scamshield/internal/domain/models"
	"scamshield/pkg/logger"
)

const (
	denylistHitScore       = 50
	triggerKnownNumber     = "known_scam_number"
	triggerKnownDomain     = "known_scam_domain"
	triggerKnownMessage    = "known_scam_message"
	defaultDenylistTimeout = 2 * time.Second
	defaultPatternLimit    = 100
)

// DenylistStore answers lookups against the externally maintained denylists
type DenylistStore interface {
	IsBlockedNumber(ctx context.Context, number string) (bool, error)
	IsBlockedDomain(ctx context.Context, domain string) (bool, error)
	ListBlockedMessages(ctx context.Context, limit int) ([]models.BlockedMessage, error)
}

// authorityPattern captures the authority component following the scheme separator
var authorityPattern = regexp.MustCompile(`://([^/]+)`)

// denylistAllowedDomains are never looked up; a superset of the rule engine's list
var denylistAllowedDomains = []string{
	"google.com", "microsoft.com", "apple.com", "amazon.com",
	"facebook.com", "youtube.com", "wikipedia.org", "github.com",
	"linkedin.com", "twitter.com", "instagram.com", "reddit.com",
}

// DenylistConfig tunes the checker
type DenylistConfig struct {
	Timeout      time.Duration
	PatternLimit int
}

// DenylistChecker scores content by membership in the denylists. Store
// failures and timeouts degrade the layer to a zero contribution.
type DenylistChecker struct {
	store        DenylistStore
	timeout      time.Duration
	patternLimit int
	logger       *logger.Logger
}

// NewDenylistChecker creates a checker over the given store. A nil store
// leaves the layer permanently degraded.
func NewDenylistChecker(store DenylistStore, cfg DenylistConfig, log *logger.Logger) *DenylistChecker {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultDenylistTimeout
	}
	if cfg.PatternLimit <= 0 {
		cfg.PatternLimit = defaultPatternLimit
	}
	return &DenylistChecker{
		store:        store,
		timeout:      cfg.Timeout,
		patternLimit: cfg.PatternLimit,
		logger:       log.WithComponent("denylist"),
	}
}

// Score looks content up in the denylist matching its type
func (c *DenylistChecker) Score(ctx context.Context, content string, scanType models.ScanType) models.LayerOutcome {
	if c.store == nil {
		return models.Degrade(models.LayerDenylist, ErrStoreUnavailable.Error())
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	trigger, err := c.lookup(ctx, content, scanType)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("%w: lookup exceeded %s", ErrStoreUnavailable, c.timeout)
		}
		c.logger.Error().
			Err(err).
			Str("scan_type", scanType.String()).
			Msg("denylist check failed, layer degraded")
		return models.Degrade(models.LayerDenylist, err.Error())
	}

	out := models.LayerOutcome{Layer: models.LayerDenylist, Triggers: []string{}}
	if trigger != "" {
		out.Score = denylistHitScore
		out.Triggers = append(out.Triggers, models.LayerDenylist.Trigger(trigger))
	}
	return out
}

// lookup returns the trigger name on a hit, or "" on a miss
func (c *DenylistChecker) lookup(ctx context.Context, content string, scanType models.ScanType) (string, error) {
	switch scanType {
	case models.ScanTypePhone:
		blocked, err := c.store.IsBlockedNumber(ctx, content)
		if err != nil {
			return "", fmt.Errorf("blocked number lookup: %w", err)
		}
		if blocked {
			return triggerKnownNumber, nil
		}

	case models.ScanTypeURL:
		domain, ok := ExtractDomain(content)
		if !ok || containsAny(domain, denylistAllowedDomains) {
			return "", nil
		}
		blocked, err := c.store.IsBlockedDomain(ctx, domain)
		if err != nil {
			return "", fmt.Errorf("blocked domain lookup: %w", err)
		}
		if blocked {
			return triggerKnownDomain, nil
		}

	case models.ScanTypeText:
		messages, err := c.store.ListBlockedMessages(ctx, c.patternLimit)
		if err != nil {
			return "", fmt.Errorf("blocked message listing: %w", err)
		}
		if containsBlockedPattern(content, messages) {
			return triggerKnownMessage, nil
		}
	}

	return "", nil
}

// ExtractDomain returns the lowercased authority component of a URL. It
// reports false when the content carries no scheme separator.
func ExtractDomain(content string) (string, bool) {
	m := authorityPattern.FindStringSubmatch(content)
	if m == nil {
		return "", false
	}
	return strings.ToLower(m[1]), true
}

// containsBlockedPattern reports whether any lowercased pattern occurs in the
// lowercased content. Empty patterns are ignored.
func containsBlockedPattern(content string, messages []models.BlockedMessage) bool {
	patterns := make([]string, 0, len(messages))
	for _, m := range messages {
		if p := strings.ToLower(m.Pattern); p != "" {
			patterns = append(patterns, p)
		}
	}
	if len(patterns) == 0 {
		return false
	}

	matcher := ahocorasick.NewStringMatcher(patterns)
	return len(matcher.Match([]byte(strings.ToLower(content)))) > 0
}
