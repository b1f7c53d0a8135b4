package transport

import (
	"testing"
	"time"

	"cephlog-mcp/internal/models"
)

func newTestCache(max int, ttl time.Duration) (*ResponseCache, *time.Time) {
	cache := NewResponseCache(max, ttl)
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }
	return cache, &now
}

func cachedResult(total int) *models.SearchResult {
	return &models.SearchResult{TotalCount: total, Transport: models.TransportWebsocket}
}

func TestCacheExpiresLazily(t *testing.T) {
	cache, now := newTestCache(10, 300*time.Second)

	cache.Put("k", cachedResult(1))
	if _, ok := cache.Get("k"); !ok {
		t.Fatal("fresh entry not served")
	}

	*now = now.Add(301 * time.Second)
	if _, ok := cache.Get("k"); ok {
		t.Error("expired entry served")
	}
}

func TestCacheServesWithinTTL(t *testing.T) {
	cache, now := newTestCache(10, 300*time.Second)

	cache.Put("k", cachedResult(7))
	*now = now.Add(299 * time.Second)

	got, ok := cache.Get("k")
	if !ok {
		t.Fatal("entry inside TTL not served")
	}
	if got.TotalCount != 7 {
		t.Errorf("TotalCount = %d, want 7", got.TotalCount)
	}
}

func TestCacheEvictsOldestInsertion(t *testing.T) {
	cache, _ := newTestCache(2, time.Hour)

	cache.Put("a", cachedResult(1))
	cache.Put("b", cachedResult(2))
	cache.Put("c", cachedResult(3))

	if _, ok := cache.Get("a"); ok {
		t.Error("oldest insertion survived eviction")
	}
	for _, key := range []string{"b", "c"} {
		if _, ok := cache.Get(key); !ok {
			t.Errorf("entry %q evicted, want kept", key)
		}
	}
}

func TestCacheReinsertRefreshesAge(t *testing.T) {
	cache, _ := newTestCache(2, time.Hour)

	cache.Put("a", cachedResult(1))
	cache.Put("b", cachedResult(2))
	cache.Put("a", cachedResult(10)) // a is now the newest insertion
	cache.Put("c", cachedResult(3))  // pushes b out, not a

	if _, ok := cache.Get("b"); ok {
		t.Error("b survived, want it evicted as the oldest insertion")
	}
	got, ok := cache.Get("a")
	if !ok {
		t.Fatal("refreshed entry evicted")
	}
	if got.TotalCount != 10 {
		t.Errorf("TotalCount = %d, want the re-inserted value 10", got.TotalCount)
	}
}

func TestCachePutDropsExpired(t *testing.T) {
	cache, now := newTestCache(10, 300*time.Second)

	cache.Put("a", cachedResult(1))
	*now = now.Add(301 * time.Second)
	cache.Put("b", cachedResult(2))

	if cache.Len() != 1 {
		t.Errorf("Len() = %d, want expired entry dropped on insert", cache.Len())
	}
}

func TestCacheGetReturnsCopy(t *testing.T) {
	cache, _ := newTestCache(10, time.Hour)
	cache.Put("k", cachedResult(5))

	first, _ := cache.Get("k")
	first.TotalCount = 999
	first.CacheHit = true

	second, _ := cache.Get("k")
	if second.TotalCount != 5 || second.CacheHit {
		t.Errorf("cached entry mutated through the returned copy: %+v", second)
	}
}
