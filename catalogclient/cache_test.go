package catalogclient

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/mrhid6/SatisfactoryModLauncherAPI/resolver"
)

// countingCatalog counts calls made to it, so tests can confirm the
// redis layer actually serves a second request from cache rather than
// calling through again.
type countingCatalog struct {
	versionsCalls int
	versions      []string
}

func (c *countingCatalog) ListMatchingVersions(_ context.Context, _ string, _ []string) ([]string, error) {
	c.versionsCalls++
	return c.versions, nil
}

func (c *countingCatalog) GetModMetadata(_ context.Context, id, version string) (*resolver.ModMeta, error) {
	return &resolver.ModMeta{ModID: id, Version: version}, nil
}

func (c *countingCatalog) ListLoaderVersions(_ context.Context) ([]resolver.LoaderInfo, error) {
	return nil, nil
}

func (c *countingCatalog) GetLoaderInfo(_ context.Context, version string) (*resolver.LoaderInfo, error) {
	return &resolver.LoaderInfo{Version: version, GameVersion: "109000"}, nil
}

func TestRedisCacheServesSecondCallFromCache(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	inner := &countingCatalog{versions: []string{"1.0.0", "1.0.1"}}
	cache := NewRedisCache(inner, client, time.Minute)

	ctx := context.Background()
	first, err := cache.ListMatchingVersions(ctx, "dummyMod1", []string{"^1.0.0"})
	if err != nil {
		t.Fatalf("ListMatchingVersions: %v", err)
	}
	second, err := cache.ListMatchingVersions(ctx, "dummyMod1", []string{"^1.0.0"})
	if err != nil {
		t.Fatalf("ListMatchingVersions: %v", err)
	}

	if inner.versionsCalls != 1 {
		t.Fatalf("inner catalog called %d times, want 1 (second call should hit cache)", inner.versionsCalls)
	}
	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("ListMatchingVersions = %v / %v, want 2 entries each", first, second)
	}
}

func TestRedisCacheDifferentKeysMissIndependently(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	inner := &countingCatalog{versions: []string{"1.0.0"}}
	cache := NewRedisCache(inner, client, time.Minute)

	ctx := context.Background()
	if _, err := cache.ListMatchingVersions(ctx, "dummyMod1", []string{"^1.0.0"}); err != nil {
		t.Fatalf("ListMatchingVersions: %v", err)
	}
	if _, err := cache.ListMatchingVersions(ctx, "6vQ6ckVYFiidDh", []string{"^1.0.0"}); err != nil {
		t.Fatalf("ListMatchingVersions: %v", err)
	}

	if inner.versionsCalls != 2 {
		t.Fatalf("inner catalog called %d times, want 2 (distinct ids must not share a cache key)", inner.versionsCalls)
	}
}
