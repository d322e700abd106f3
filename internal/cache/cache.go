// Package cache stores finished sentence translations so repeated sentences
// and re-runs of a document skip the backend.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
)

// Store is a translation cache keyed by Key.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// Key identifies a translation of text between two languages.
func Key(source, target, text string) string {
	h := sha256.Sum256([]byte(source + "\x00" + target + "\x00" + text))
	return hex.EncodeToString(h[:])
}

// Open returns the store for backend: "memory", "file" (path required),
// "redis" (url required) or "" / "none" for no cache.
func Open(ctx context.Context, backend, path, redisURL string, opts ...RedisOption) (Store, error) {
	switch backend {
	case "", "none":
		return nil, nil
	case "memory":
		return NewMemory(), nil
	case "file":
		if path == "" {
			return nil, fmt.Errorf("file cache needs CACHE_PATH")
		}
		f, err := OpenFile(path)
		if err != nil {
			return nil, err
		}
		return f, nil
	case "redis":
		if redisURL == "" {
			return nil, fmt.Errorf("redis cache needs REDIS_URL")
		}
		r, err := NewRedis(ctx, redisURL, opts...)
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", backend)
	}
}

// Memory is a process-local Store.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]string
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.entries[key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	return nil
}

// Len returns the number of cached entries.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func (m *Memory) Close() error { return nil }
