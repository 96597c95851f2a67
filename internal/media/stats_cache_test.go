package media

import (
	"context"
	"testing"
	"time"

	"github.com/youtweet/backend/internal/models"
)

type stubStatsSource struct {
	stats models.ChannelStats
	err   error
	calls int
}

func (s *stubStatsSource) ChannelStats(context.Context, string) (models.ChannelStats, error) {
	s.calls++
	if s.err != nil {
		return models.ChannelStats{}, s.err
	}
	return s.stats, nil
}

func TestCachingStatsChannelStats(t *testing.T) {
	base := &stubStatsSource{stats: models.ChannelStats{TotalVideos: 3, TotalViews: 1000510}}
	cache := NewCachingStats(base, time.Minute)

	ctx := context.Background()

	stats, err := cache.ChannelStats(ctx, "channel-1")
	if err != nil {
		t.Fatalf("channel stats: %v", err)
	}
	if stats.TotalVideos != 3 || stats.TotalViews != 1000510 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if base.calls != 1 {
		t.Fatalf("expected base called once got %d", base.calls)
	}

	if _, err := cache.ChannelStats(ctx, "channel-1"); err != nil {
		t.Fatalf("channel stats: %v", err)
	}
	if base.calls != 1 {
		t.Fatalf("expected cached result got %d calls", base.calls)
	}

	if _, err := cache.ChannelStats(ctx, "channel-2"); err != nil {
		t.Fatalf("channel stats: %v", err)
	}
	if base.calls != 2 {
		t.Fatalf("expected per-channel entries got %d calls", base.calls)
	}
}

func TestCachingStatsUnavailable(t *testing.T) {
	cache := NewCachingStats(nil, time.Minute)
	if _, err := cache.ChannelStats(context.Background(), "channel-1"); err != ErrStatsUnavailable {
		t.Fatalf("expected stats unavailable got %v", err)
	}
}

func TestCachingStatsExpiry(t *testing.T) {
	base := &stubStatsSource{stats: models.ChannelStats{TotalVideos: 1}}
	cache := NewCachingStats(base, time.Millisecond)

	if _, err := cache.ChannelStats(context.Background(), "channel-1"); err != nil {
		t.Fatalf("channel stats: %v", err)
	}

	time.Sleep(2 * time.Millisecond)

	if _, err := cache.ChannelStats(context.Background(), "channel-1"); err != nil {
		t.Fatalf("channel stats: %v", err)
	}
	if base.calls != 2 {
		t.Fatalf("expected cache miss after expiry got %d calls", base.calls)
	}
}

func TestCachingStatsInvalidate(t *testing.T) {
	base := &stubStatsSource{stats: models.ChannelStats{TotalSubscribers: 5}}
	cache := NewCachingStats(base, time.Minute)

	if _, err := cache.ChannelStats(context.Background(), "channel-1"); err != nil {
		t.Fatalf("channel stats: %v", err)
	}

	cache.Invalidate("channel-1")

	if _, err := cache.ChannelStats(context.Background(), "channel-1"); err != nil {
		t.Fatalf("channel stats: %v", err)
	}
	if base.calls != 2 {
		t.Fatalf("expected recompute after invalidate got %d calls", base.calls)
	}
}
