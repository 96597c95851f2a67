package media

import (
	"context"
	"sync"
	"time"

	"github.com/youtweet/backend/internal/models"
)

// StatsSource computes channel dashboard aggregations.
type StatsSource interface {
	ChannelStats(ctx context.Context, channelID string) (models.ChannelStats, error)
}

type statsEntry struct {
	stats   models.ChannelStats
	expires time.Time
}

// CachingStats wraps a StatsSource with a TTL-based in-memory cache. Dashboard
// counters tolerate slightly stale reads, so repeated hits on the same channel
// skip the aggregation queries.
type CachingStats struct {
	base StatsSource
	ttl  time.Duration

	mu    sync.RWMutex
	items map[string]statsEntry
}

// NewCachingStats returns a StatsSource that caches lookups for the provided TTL.
func NewCachingStats(base StatsSource, ttl time.Duration) *CachingStats {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &CachingStats{
		base:  base,
		ttl:   ttl,
		items: make(map[string]statsEntry),
	}
}

// ChannelStats returns cached counters when available, otherwise it delegates
// to the underlying source and stores the result.
func (c *CachingStats) ChannelStats(ctx context.Context, channelID string) (models.ChannelStats, error) {
	if c == nil || c.base == nil {
		return models.ChannelStats{}, ErrStatsUnavailable
	}

	now := time.Now()

	c.mu.RLock()
	entry, ok := c.items[channelID]
	c.mu.RUnlock()
	if ok && now.Before(entry.expires) {
		return entry.stats, nil
	}

	stats, err := c.base.ChannelStats(ctx, channelID)
	if err != nil {
		return models.ChannelStats{}, err
	}

	c.mu.Lock()
	c.items[channelID] = statsEntry{stats: stats, expires: now.Add(c.ttl)}
	c.mu.Unlock()

	return stats, nil
}

// Invalidate drops the cached counters for a channel, forcing the next read
// to recompute.
func (c *CachingStats) Invalidate(channelID string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	delete(c.items, channelID)
	c.mu.Unlock()
}
