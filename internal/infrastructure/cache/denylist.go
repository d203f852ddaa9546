package cache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"scamshield/internal/domain/models"
	"scamshield/pkg/logger"
)

// DenylistBackend is the system of record behind the cache
type DenylistBackend interface {
	IsBlockedNumber(ctx context.Context, number string) (bool, error)
	IsBlockedDomain(ctx context.Context, domain string) (bool, error)
	ListBlockedMessages(ctx context.Context, limit int) ([]models.BlockedMessage, error)
	AddBlockedNumber(ctx context.Context, entry models.BlockedNumber) (bool, error)
	AddBlockedDomain(ctx context.Context, entry models.BlockedDomain) (bool, error)
	AddBlockedMessage(ctx context.Context, entry models.BlockedMessage) (bool, error)
}

// CachedDenylist is a read-through cache over a denylist backend. Cache
// errors fall through to the backend; backend errors are never cached.
type CachedDenylist struct {
	backend DenylistBackend
	cache   Store
	ttl     time.Duration
	logger  *logger.Logger
}

// NewCachedDenylist wraps backend with lookups cached for ttl
func NewCachedDenylist(backend DenylistBackend, cache Store, ttl time.Duration, log *logger.Logger) *CachedDenylist {
	return &CachedDenylist{
		backend: backend,
		cache:   cache,
		ttl:     ttl,
		logger:  log.WithComponent("denylist-cache"),
	}
}

// IsBlockedNumber checks the cache before the backend
func (c *CachedDenylist) IsBlockedNumber(ctx context.Context, number string) (bool, error) {
	return c.lookup(ctx, KeyBlockedNumberPrefix+number, func() (bool, error) {
		return c.backend.IsBlockedNumber(ctx, number)
	})
}

// IsBlockedDomain checks the cache before the backend
func (c *CachedDenylist) IsBlockedDomain(ctx context.Context, domain string) (bool, error) {
	return c.lookup(ctx, KeyBlockedDomainPrefix+domain, func() (bool, error) {
		return c.backend.IsBlockedDomain(ctx, domain)
	})
}

func (c *CachedDenylist) lookup(ctx context.Context, key string, load func() (bool, error)) (bool, error) {
	val, err := c.cache.Get(ctx, key)
	if err == nil {
		if blocked, perr := strconv.ParseBool(val); perr == nil {
			return blocked, nil
		}
	} else if !errors.Is(err, ErrMiss) {
		c.logger.Debug().Err(err).Str("key", key).Msg("cache read failed")
	}

	blocked, err := load()
	if err != nil {
		return false, err
	}

	if err := c.cache.Set(ctx, key, strconv.FormatBool(blocked), c.ttl); err != nil {
		c.logger.Debug().Err(err).Str("key", key).Msg("cache write failed")
	}
	return blocked, nil
}

// cachedMessages records the limit the pattern list was loaded with
type cachedMessages struct {
	Limit    int                     `json:"limit"`
	Messages []models.BlockedMessage `json:"messages"`
}

// ListBlockedMessages serves the pattern list from cache when present
func (c *CachedDenylist) ListBlockedMessages(ctx context.Context, limit int) ([]models.BlockedMessage, error) {
	var cached cachedMessages
	err := GetJSON(ctx, c.cache, KeyBlockedMessages, &cached)
	if err == nil && cached.Limit == limit {
		return cached.Messages, nil
	}
	if err != nil && !errors.Is(err, ErrMiss) {
		c.logger.Debug().Err(err).Str("key", KeyBlockedMessages).Msg("cache read failed")
	}

	messages, err := c.backend.ListBlockedMessages(ctx, limit)
	if err != nil {
		return nil, err
	}

	cached = cachedMessages{Limit: limit, Messages: messages}
	if err := SetJSON(ctx, c.cache, KeyBlockedMessages, cached, c.ttl); err != nil {
		c.logger.Debug().Err(err).Str("key", KeyBlockedMessages).Msg("cache write failed")
	}
	return messages, nil
}

// AddBlockedNumber writes through and drops the cached lookup
func (c *CachedDenylist) AddBlockedNumber(ctx context.Context, e models.BlockedNumber) (bool, error) {
	ok, err := c.backend.AddBlockedNumber(ctx, e)
	c.invalidate(ctx, err, KeyBlockedNumberPrefix+e.Number)
	return ok, err
}

// AddBlockedDomain writes through and drops the cached lookup
func (c *CachedDenylist) AddBlockedDomain(ctx context.Context, e models.BlockedDomain) (bool, error) {
	ok, err := c.backend.AddBlockedDomain(ctx, e)
	c.invalidate(ctx, err, KeyBlockedDomainPrefix+e.Domain)
	return ok, err
}

// AddBlockedMessage writes through and drops the cached pattern list
func (c *CachedDenylist) AddBlockedMessage(ctx context.Context, e models.BlockedMessage) (bool, error) {
	ok, err := c.backend.AddBlockedMessage(ctx, e)
	c.invalidate(ctx, err, KeyBlockedMessages)
	return ok, err
}

func (c *CachedDenylist) invalidate(ctx context.Context, writeErr error, key string) {
	if writeErr != nil {
		return
	}
	if err := c.cache.Delete(ctx, key); err != nil {
		c.logger.Debug().Err(err).Str("key", key).Msg("cache invalidation failed")
	}
}
