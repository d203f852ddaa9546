package services

import (
	"context"
	"fmt"

	"scamshield/internal/domain/models"
	"scamshield/pkg/logger"
)

// DenylistWriter inserts denylist entries that are not already present.
// Each Add reports whether a row was inserted.
type DenylistWriter interface {
	AddBlockedNumber(ctx context.Context, entry models.BlockedNumber) (bool, error)
	AddBlockedDomain(ctx context.Context, entry models.BlockedDomain) (bool, error)
	AddBlockedMessage(ctx context.Context, entry models.BlockedMessage) (bool, error)
}

// DefaultDenylistSeed is written at startup when the entries are absent
func DefaultDenylistSeed() models.DenylistSeed {
	return models.DenylistSeed{
		Domains: []models.BlockedDomain{
			{Domain: "bit.ly", Reason: "URL shortener often used in scams"},
			{Domain: "scam-bank-verify.com", Reason: "Phishing domain"},
			{Domain: "fake-lottery.net", Reason: "Lottery scam domain"},
			{Domain: "urgent-account-verify.org", Reason: "Account verification scam"},
			{Domain: "claim-inheritance.biz", Reason: "Inheritance scam domain"},
			{Domain: "irs-tax-urgent.com", Reason: "Fake IRS domain"},
		},
		Numbers: []models.BlockedNumber{
			{Number: "555-0123", Reason: "Known scam number"},
			{Number: "1-800-SCAM-1", Reason: "Fake support number"},
			{Number: "+1-555-000-0000", Reason: "Common scam pattern"},
			{Number: "123-456-7890", Reason: "Test scam number"},
		},
		Messages: []models.BlockedMessage{
			{Pattern: "congratulations you have won", Reason: "Lottery scam pattern"},
			{Pattern: "urgent account verification", Reason: "Phishing pattern"},
			{Pattern: "click here to claim", Reason: "Malicious link pattern"},
			{Pattern: "suspended within 24 hours", Reason: "Urgency scam pattern"},
			{Pattern: "final notice", Reason: "Fake authority pattern"},
		},
	}
}

// SeedDenylists writes the seed entries that are missing and returns how many
// rows were inserted. The first store error stops seeding.
func SeedDenylists(ctx context.Context, w DenylistWriter, seed models.DenylistSeed, log *logger.Logger) (int, error) {
	log = log.WithComponent("denylist-seed")
	inserted := 0

	count := func(ok bool, err error, kind, value string) error {
		if err != nil {
			return fmt.Errorf("failed to seed %s %q: %w", kind, value, err)
		}
		if ok {
			inserted++
		}
		return nil
	}

	for _, d := range seed.Domains {
		ok, err := w.AddBlockedDomain(ctx, d)
		if err := count(ok, err, "domain", d.Domain); err != nil {
			return inserted, err
		}
	}
	for _, n := range seed.Numbers {
		ok, err := w.AddBlockedNumber(ctx, n)
		if err := count(ok, err, "number", n.Number); err != nil {
			return inserted, err
		}
	}
	for _, m := range seed.Messages {
		ok, err := w.AddBlockedMessage(ctx, m)
		if err := count(ok, err, "message pattern", m.Pattern); err != nil {
			return inserted, err
		}
	}

	log.Info().Int("inserted", inserted).Msg("denylists seeded")
	return inserted, nil
}
