// Package cache stores rendered search results keyed by catalog, query and options.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Backend names accepted by New
const (
	BackendNone   = "none"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Cache is a byte-value store with per-entry TTL
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Stats(ctx context.Context) Stats
	Close() error
}

// Stats tracks cache effectiveness for the current process
type Stats struct {
	Backend string  `json:"backend"`
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	Entries int64   `json:"entries"`
	HitRate float64 `json:"hit_rate"`
}

func (s *Stats) computeHitRate() {
	if total := s.Hits + s.Misses; total > 0 {
		s.HitRate = float64(s.Hits) / float64(total)
	}
}

// Config selects and tunes a backend
type Config struct {
	Backend  string
	TTL      time.Duration
	RedisURL string
}

// New returns the configured backend. BackendNone (or empty) yields a Nop cache.
func New(cfg Config) (Cache, error) {
	switch cfg.Backend {
	case "", BackendNone:
		return Nop{}, nil
	case BackendMemory:
		return NewMemory(), nil
	case BackendRedis:
		r, err := NewRedis(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		return r, nil
	}
	return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
}

// GenerateKey hashes the catalog fingerprint, query and a JSON encoding of
// params into a stable cache key.
func GenerateKey(fingerprint, query string, params interface{}) (string, error) {
	raw, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("failed to marshal key params: %w", err)
	}

	h := sha256.New()
	h.Write([]byte(fingerprint))
	h.Write([]byte(":"))
	h.Write([]byte(query))
	h.Write([]byte(":"))
	h.Write(raw)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// GetJSON decodes a cached value into v. A value that no longer decodes is
// treated as a miss and evicted.
func GetJSON(ctx context.Context, c Cache, key string, v interface{}) (bool, error) {
	data, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, c.Delete(ctx, key)
	}
	return true, nil
}

// SetJSON encodes v and stores it under key
func SetJSON(ctx context.Context, c Cache, key string, v interface{}, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode cache value: %w", err)
	}
	return c.Set(ctx, key, data, ttl)
}

// Nop never stores anything
type Nop struct{}

func (Nop) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (Nop) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (Nop) Delete(context.Context, string) error { return nil }
func (Nop) Clear(context.Context) error { return nil }
func (Nop) Stats(context.Context) Stats { return Stats{Backend: BackendNone} }
func (Nop) Close() error { return nil }
