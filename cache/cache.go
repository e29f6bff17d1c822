// Package cache stores finished extraction results keyed by URL and output
// format. Lookups are age-bounded per request: a caller that sends no
// max-age bypasses the cache entirely.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/jobsift/jdextract/models"
)

// Store is the result-cache capability. Implementations are safe for
// concurrent use.
type Store interface {
	// Get returns a cached response younger than maxAgeMs. A maxAgeMs <= 0
	// disables the lookup.
	Get(ctx context.Context, key string, maxAgeMs int) (*models.ExtractResponse, bool)

	// Set stores a response under key.
	Set(ctx context.Context, key string, res *models.ExtractResponse)
}

// Key derives a cache key from the request URL and output format.
func Key(url, format string) string {
	h := sha256.New()
	h.Write([]byte(url))
	h.Write([]byte("|"))
	h.Write([]byte(format))
	return hex.EncodeToString(h.Sum(nil))
}

// entry holds a cached response with its creation timestamp.
type entry struct {
	response  *models.ExtractResponse
	createdAt time.Time
}

// Memory is an in-process Store bounded by entry count.
type Memory struct {
	mu         sync.RWMutex
	store      map[string]*entry
	maxEntries int
}

// NewMemory creates an in-memory Store holding at most maxEntries results.
// A background goroutine evicts entries older than 1 hour every 5 minutes.
func NewMemory(maxEntries int) *Memory {
	m := &Memory{
		store:      make(map[string]*entry),
		maxEntries: maxEntries,
	}
	go m.cleanupLoop()
	return m
}

func (m *Memory) Get(_ context.Context, key string, maxAgeMs int) (*models.ExtractResponse, bool) {
	if maxAgeMs <= 0 {
		return nil, false
	}

	m.mu.RLock()
	e, ok := m.store[key]
	m.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if time.Since(e.createdAt) > time.Duration(maxAgeMs)*time.Millisecond {
		return nil, false
	}
	return e.response, true
}

func (m *Memory) Set(_ context.Context, key string, res *models.ExtractResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Evict one random entry if at capacity (map iteration is random in Go).
	if len(m.store) >= m.maxEntries {
		for k := range m.store {
			delete(m.store, k)
			break
		}
	}

	m.store[key] = &entry{response: res, createdAt: time.Now()}
}

func (m *Memory) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := time.Now().Add(-1 * time.Hour)
		m.mu.Lock()
		for k, e := range m.store {
			if e.createdAt.Before(cutoff) {
				delete(m.store, k)
			}
		}
		m.mu.Unlock()
	}
}
