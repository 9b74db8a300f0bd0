// Package cache provides a short-lived read-through snapshot of the versioned
// joke document. It exists only to shave load off the backing store on public
// reads; the admin write path never consults it and invalidates it on every
// successful write. The cached value is replaced or deleted whole, never
// partially mutated.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jokeoftheday/jotd/internal/store"
)

const DefaultTTL = 30 * time.Second

// DocumentCache is nil-safe: a nil *DocumentCache behaves as a permanent
// miss, so callers don't branch on whether Redis is configured.
type DocumentCache struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func New(client *redis.Client, key string, ttl time.Duration) *DocumentCache {
	if key == "" {
		key = "jotd:document"
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &DocumentCache{client: client, key: key, ttl: ttl}
}

type snapshot struct {
	Content []byte `json:"content"`
	Version string `json:"version"`
}

// Get returns the cached document, or nil on a miss. Cache errors degrade to
// a miss: the backing store is the source of truth and a flaky cache must
// never fail a read.
func (c *DocumentCache) Get(ctx context.Context) *store.Document {
	if c == nil || c.client == nil {
		return nil
	}
	b, err := c.client.Get(ctx, c.key).Bytes()
	if err != nil {
		return nil
	}
	var s snapshot
	if err := json.Unmarshal(b, &s); err != nil {
		return nil
	}
	return &store.Document{Content: s.Content, Version: s.Version}
}

// Put stores the document snapshot under the configured TTL.
func (c *DocumentCache) Put(ctx context.Context, doc *store.Document) {
	if c == nil || c.client == nil || doc == nil {
		return
	}
	b, err := json.Marshal(snapshot{Content: doc.Content, Version: doc.Version})
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, c.key, b, c.ttl).Err()
}

// Invalidate drops the snapshot. Must be called after every successful write
// so the next read observes the new version token.
func (c *DocumentCache) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Del(ctx, c.key).Err()
}
