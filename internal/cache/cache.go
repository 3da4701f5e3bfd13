// Package cache stores serialized chat responses for a bounded time.
//
// Entries live in a single read/write-locked map owned by go-cache; a janitor
// goroutine sweeps expired entries at the configured cleanup interval.
package cache

import (
	"encoding/hex"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/zeebo/blake3"
)

// Cache is a TTL cache of response bodies keyed by request fingerprint.
type Cache struct {
	store      *gocache.Cache
	defaultTTL time.Duration
}

// New creates a cache whose entries expire after defaultTTL. A non-positive
// cleanupInterval disables the background sweep; CleanupExpired still works.
func New(defaultTTL, cleanupInterval time.Duration) *Cache {
	return &Cache{
		store:      gocache.New(defaultTTL, cleanupInterval),
		defaultTTL: defaultTTL,
	}
}

// Get returns the value stored under key. Entries at or past their expiry
// are reported as missing.
func (c *Cache) Get(key string) (string, bool) {
	v, expiresAt, ok := c.store.GetWithExpiration(key)
	if !ok {
		return "", false
	}
	if !expiresAt.IsZero() && !time.Now().Before(expiresAt) {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Set stores value under key with the default TTL.
func (c *Cache) Set(key, value string) {
	c.SetWithTTL(key, value, c.defaultTTL)
}

// SetWithTTL stores value under key for ttl. A non-positive ttl removes the key.
func (c *Cache) SetWithTTL(key, value string, ttl time.Duration) {
	if ttl <= 0 {
		c.store.Delete(key)
		return
	}
	c.store.Set(key, value, ttl)
}

func (c *Cache) Delete(key string) {
	c.store.Delete(key)
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.store.Flush()
}

// CleanupExpired removes expired entries immediately instead of waiting for
// the janitor.
func (c *Cache) CleanupExpired() {
	c.store.DeleteExpired()
}

// Len reports the number of stored entries, including expired entries that
// have not been swept yet.
func (c *Cache) Len() int {
	return c.store.ItemCount()
}

// GenerateKey fingerprints a request as the hex BLAKE3-256 digest of
// "provider:model:request".
func GenerateKey(provider, model, request string) string {
	sum := blake3.Sum256([]byte(provider + ":" + model + ":" + request))
	return hex.EncodeToString(sum[:])
}
