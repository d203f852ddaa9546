package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"scamshield/internal/domain/models"
)

// DenylistRepository handles the blocked number, domain and message tables
type DenylistRepository struct {
	pool *pgxpool.Pool
}

// NewDenylistRepository creates a new denylist repository
func NewDenylistRepository(pool *pgxpool.Pool) *DenylistRepository {
	return &DenylistRepository{pool: pool}
}

// IsBlockedNumber reports whether the exact number string is denylisted
func (r *DenylistRepository) IsBlockedNumber(ctx context.Context, number string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM blocked_numbers WHERE number = $1)`, number)
}

// IsBlockedDomain reports whether the exact domain string is denylisted
func (r *DenylistRepository) IsBlockedDomain(ctx context.Context, domain string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM blocked_domains WHERE domain = $1)`, domain)
}

func (r *DenylistRepository) exists(ctx context.Context, query, arg string) (bool, error) {
	var found bool
	if err := r.pool.QueryRow(ctx, query, arg).Scan(&found); err != nil {
		return false, fmt.Errorf("failed to query denylist: %w", err)
	}
	return found, nil
}

// ListBlockedMessages returns up to limit message patterns in insertion order
func (r *DenylistRepository) ListBlockedMessages(ctx context.Context, limit int) ([]models.BlockedMessage, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT pattern, reason
		FROM blocked_messages
		ORDER BY id
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list blocked messages: %w", err)
	}

	messages, err := pgx.CollectRows(rows, pgx.RowToStructByPos[models.BlockedMessage])
	if err != nil {
		return nil, fmt.Errorf("failed to scan blocked messages: %w", err)
	}
	return messages, nil
}

// AddBlockedNumber inserts the number unless it already exists
func (r *DenylistRepository) AddBlockedNumber(ctx context.Context, e models.BlockedNumber) (bool, error) {
	return r.insert(ctx, `
		INSERT INTO blocked_numbers (number, reason) VALUES ($1, $2)
		ON CONFLICT (number) DO NOTHING`, e.Number, e.Reason)
}

// AddBlockedDomain inserts the domain unless it already exists
func (r *DenylistRepository) AddBlockedDomain(ctx context.Context, e models.BlockedDomain) (bool, error) {
	return r.insert(ctx, `
		INSERT INTO blocked_domains (domain, reason) VALUES ($1, $2)
		ON CONFLICT (domain) DO NOTHING`, e.Domain, e.Reason)
}

// AddBlockedMessage inserts the pattern unless it already exists
func (r *DenylistRepository) AddBlockedMessage(ctx context.Context, e models.BlockedMessage) (bool, error) {
	return r.insert(ctx, `
		INSERT INTO blocked_messages (pattern, reason) VALUES ($1, $2)
		ON CONFLICT (pattern) DO NOTHING`, e.Pattern, e.Reason)
}

func (r *DenylistRepository) insert(ctx context.Context, query string, args ...any) (bool, error) {
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to insert denylist entry: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
