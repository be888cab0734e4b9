package activity

import (
	"context"
	"sync"
	"time"

	"linkcook-go/internal/domain/identity"
)

const defaultCacheTTL = 30 * time.Second

type Service struct {
	repo     Repository
	cacheTTL time.Duration
	cache    summaryCache
	now      func() time.Time
}

func NewService(repo Repository) *Service {
	return NewServiceWithCacheTTL(repo, defaultCacheTTL)
}

// NewServiceWithCacheTTL builds a service whose summaries are reused for ttl.
// A zero ttl reads through on every call.
func NewServiceWithCacheTTL(repo Repository, ttl time.Duration) *Service {
	if ttl < 0 {
		ttl = 0
	}
	return &Service{
		repo:     repo,
		cacheTTL: ttl,
		cache:    summaryCache{items: make(map[string]summaryCacheItem)},
		now:      time.Now,
	}
}

func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

func (s *Service) Summary(ctx context.Context, who identity.Identity) (Summary, error) {
	if !who.IsAuthenticated() {
		return Summary{}, ErrUnauthenticated
	}
	if s.cacheTTL <= 0 {
		return s.repo.Summary(ctx, who.ID)
	}

	now := s.now()
	if summary, ok := s.cache.Get(who.ID, now); ok {
		return summary, nil
	}

	summary, err := s.repo.Summary(ctx, who.ID)
	if err != nil {
		return Summary{}, err
	}
	s.cache.Set(who.ID, summary, now.Add(s.cacheTTL))
	return summary, nil
}

type summaryCache struct {
	mu    sync.RWMutex
	items map[string]summaryCacheItem
}

type summaryCacheItem struct {
	summary   Summary
	expiresAt time.Time
}

func (c *summaryCache) Get(key string, now time.Time) (Summary, bool) {
	c.mu.RLock()
	item, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return Summary{}, false
	}

	if !item.expiresAt.After(now) {
		c.mu.Lock()
		item, ok = c.items[key]
		if ok && !item.expiresAt.After(now) {
			delete(c.items, key)
		}
		c.mu.Unlock()
		return Summary{}, false
	}

	return item.summary, true
}

func (c *summaryCache) Set(key string, summary Summary, expiresAt time.Time) {
	c.mu.Lock()
	c.items[key] = summaryCacheItem{summary: summary, expiresAt: expiresAt}
	c.mu.Unlock()
}
