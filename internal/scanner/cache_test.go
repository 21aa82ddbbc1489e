package scanner

import (
	"fmt"
	"testing"
	"time"
)

func TestCache_SetGet(t *testing.T) {
	cache := NewCache[string](CacheConfig{TTL: time.Minute, MaxItems: 100})

	cache.Set("key1", "value1")

	val, ok := cache.Get("key1")
	if !ok {
		t.Fatal("expected key1 to exist")
	}
	if val != "value1" {
		t.Errorf("expected value1, got %v", val)
	}

	if _, ok := cache.Get("missing"); ok {
		t.Error("expected missing key to not exist")
	}
}

func TestCache_Expiration(t *testing.T) {
	cache := NewCache[int](CacheConfig{TTL: time.Minute, MaxItems: 100})
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	cache.Set("a", 1)
	cache.SetWithTTL("b", 2, time.Hour)

	now = now.Add(2 * time.Minute)

	if _, ok := cache.Get("a"); ok {
		t.Error("expected a to be expired")
	}
	if v, ok := cache.Get("b"); !ok || v != 2 {
		t.Errorf("expected b=2, got %v (ok=%v)", v, ok)
	}
}

func TestCache_Eviction(t *testing.T) {
	cache := NewCache[int](CacheConfig{TTL: time.Minute, MaxItems: 10})
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	for i := 0; i < 10; i++ {
		cache.Set(fmt.Sprintf("k%d", i), i)
		now = now.Add(time.Second)
	}
	cache.Set("overflow", 99)

	if cache.Len() > 10 {
		t.Errorf("expected at most 10 items, got %d", cache.Len())
	}
	if _, ok := cache.Get("k0"); ok {
		t.Error("expected the oldest item to be evicted")
	}
	if _, ok := cache.Get("overflow"); !ok {
		t.Error("expected the new item to be stored")
	}
}
