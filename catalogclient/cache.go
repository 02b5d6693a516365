package catalogclient

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mrhid6/SatisfactoryModLauncherAPI/resolver"
)

// RedisCache decorates a resolver.Catalog with a redis-backed TTL cache
// keyed the same way resolver.MemoizingCatalog keys its in-process map,
// so repeated smlctl invocations on one machine share catalog responses
// instead of each re-memoizing from cold. Grounded in the retrieval
// pack's RedisUsageStore: a thin key-prefix wrapper over *redis.Client
// doing JSON marshal/unmarshal per call, logging rather than failing the
// caller on a cache-layer error.
type RedisCache struct {
	resolver.Catalog
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache wraps inner with a redis cache using the given TTL
// (spec.md's "Shared resources" note names five minutes).
func NewRedisCache(inner resolver.Catalog, client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{Catalog: inner, client: client, ttl: ttl}
}

func cacheKey(parts ...string) string {
	key := "smlctl:catalog"
	for _, p := range parts {
		key += ":" + p
	}
	return key
}

func (c *RedisCache) getCached(ctx context.Context, key string, dest interface{}) bool {
	data, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("catalogclient: redis GET %s: %v", key, err)
		}
		return false
	}
	if err := json.Unmarshal([]byte(data), dest); err != nil {
		log.Printf("catalogclient: unmarshal cached value for %s: %v", key, err)
		return false
	}
	return true
}

func (c *RedisCache) setCached(ctx context.Context, key string, val interface{}) {
	data, err := json.Marshal(val)
	if err != nil {
		log.Printf("catalogclient: marshal value for %s: %v", key, err)
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		log.Printf("catalogclient: redis SET %s: %v", key, err)
	}
}

func (c *RedisCache) ListMatchingVersions(ctx context.Context, id string, constraints []string) ([]string, error) {
	key := cacheKey("versions", id, fmt.Sprint(constraints))
	var cached []string
	if c.getCached(ctx, key, &cached) {
		return cached, nil
	}
	out, err := c.Catalog.ListMatchingVersions(ctx, id, constraints)
	if err != nil {
		return nil, err
	}
	c.setCached(ctx, key, out)
	return out, nil
}

func (c *RedisCache) GetModMetadata(ctx context.Context, id, version string) (*resolver.ModMeta, error) {
	key := cacheKey("meta", id, version)
	var cached resolver.ModMeta
	if c.getCached(ctx, key, &cached) {
		return &cached, nil
	}
	out, err := c.Catalog.GetModMetadata(ctx, id, version)
	if err != nil {
		return nil, err
	}
	c.setCached(ctx, key, out)
	return out, nil
}

func (c *RedisCache) ListLoaderVersions(ctx context.Context) ([]resolver.LoaderInfo, error) {
	key := cacheKey("loaders")
	var cached []resolver.LoaderInfo
	if c.getCached(ctx, key, &cached) {
		return cached, nil
	}
	out, err := c.Catalog.ListLoaderVersions(ctx)
	if err != nil {
		return nil, err
	}
	c.setCached(ctx, key, out)
	return out, nil
}

func (c *RedisCache) GetLoaderInfo(ctx context.Context, version string) (*resolver.LoaderInfo, error) {
	key := cacheKey("loader", version)
	var cached resolver.LoaderInfo
	if c.getCached(ctx, key, &cached) {
		return &cached, nil
	}
	out, err := c.Catalog.GetLoaderInfo(ctx, version)
	if err != nil {
		return nil, err
	}
	if out != nil {
		c.setCached(ctx, key, out)
	}
	return out, nil
}

var _ resolver.Catalog = (*RedisCache)(nil)
