package rank

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"newsdesk/internal/domain/entity"
)

// AnalysisCache remembers scores per (title, source) for a bounded time.
// It holds at most size entries; the least recently used entry is evicted first.
type AnalysisCache struct {
	lru *expirable.LRU[string, entity.Scores]
}

// NewAnalysisCache creates a cache with the given capacity and entry TTL.
func NewAnalysisCache(size int, ttl time.Duration) *AnalysisCache {
	return &AnalysisCache{
		lru: expirable.NewLRU[string, entity.Scores](size, nil, ttl),
	}
}

func cacheKey(title, sourceName string) string {
	return title + "\x00" + sourceName
}

// Get returns the cached scores for an article.
func (c *AnalysisCache) Get(title, sourceName string) (entity.Scores, bool) {
	return c.lru.Get(cacheKey(title, sourceName))
}

// Put stores the scores for an article.
func (c *AnalysisCache) Put(title, sourceName string, scores entity.Scores) {
	c.lru.Add(cacheKey(title, sourceName), scores)
}

// Len returns the number of live entries.
func (c *AnalysisCache) Len() int {
	return c.lru.Len()
}

// Purge drops every entry.
func (c *AnalysisCache) Purge() {
	c.lru.Purge()
}
