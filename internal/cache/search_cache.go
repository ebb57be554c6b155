package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"knowledge-assist/internal/model"
)

// SearchCache memoizes search results in redis. Keys live under a numeric
// namespace version; every index mutation bumps the version, so stale hits
// cannot outlive an ingest, delete, or clear. Old namespaces expire via TTL.
//
// Cache failures are logged and treated as misses: retrieval must keep
// working when redis is down.
type SearchCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewSearchCache(client *redisv9.Client, ttl time.Duration) *SearchCache {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &SearchCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *SearchCache) Get(ctx context.Context, query string, topK int, category string) ([]model.SearchResult, bool) {
	key, err := c.resultKey(ctx, query, topK, category)
	if err != nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, key).Result()
	if err == redisv9.Nil {
		return nil, false
	}
	if err != nil {
		log.Printf("redis get search results failed: %v", err)
		return nil, false
	}

	var results []model.SearchResult
	if err := json.Unmarshal([]byte(raw), &results); err != nil {
		log.Printf("unmarshal cached search results failed: %v", err)
		return nil, false
	}
	return results, true
}

func (c *SearchCache) Set(ctx context.Context, query string, topK int, category string, results []model.SearchResult) {
	key, err := c.resultKey(ctx, query, topK, category)
	if err != nil {
		return
	}
	payload, err := json.Marshal(results)
	if err != nil {
		log.Printf("marshal search results for cache failed: %v", err)
		return
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		log.Printf("redis set search results failed: %v", err)
	}
}

// Invalidate bumps the namespace version so every cached result becomes
// unreachable at once.
func (c *SearchCache) Invalidate(ctx context.Context) {
	if err := c.client.Incr(ctx, c.versionKey()).Err(); err != nil {
		log.Printf("redis bump search cache version failed: %v", err)
	}
}

func (c *SearchCache) resultKey(ctx context.Context, query string, topK int, category string) (string, error) {
	version, err := c.client.Get(ctx, c.versionKey()).Int64()
	if err != nil && err != redisv9.Nil {
		return "", fmt.Errorf("redis get search cache version failed: %w", err)
	}
	sum := sha1.Sum([]byte(fmt.Sprintf("%s|%d|%s", query, topK, category)))
	return fmt.Sprintf("kb:search:%d:%s", version, hex.EncodeToString(sum[:])), nil
}

func (c *SearchCache) versionKey() string {
	return "kb:search:version"
}
