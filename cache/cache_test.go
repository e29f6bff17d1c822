package cache

import (
	"context"
	"testing"
	"time"

	"github.com/jobsift/jdextract/models"
)

func TestKeyDistinguishesURLAndFormat(t *testing.T) {
	a := Key("https://example.com/job/1", "text")
	b := Key("https://example.com/job/1", "markdown")
	c := Key("https://example.com/job/2", "text")
	if a == b || a == c {
		t.Errorf("keys should differ: %s %s %s", a, b, c)
	}
	if a != Key("https://example.com/job/1", "text") {
		t.Errorf("key is not deterministic")
	}
}

func TestMemoryGetSet(t *testing.T) {
	m := NewMemory(10)
	ctx := context.Background()
	res := &models.ExtractResponse{Success: true, Status: models.StatusSuccess, JDText: "hello"}

	if _, ok := m.Get(ctx, "k", 1000); ok {
		t.Fatal("hit before set")
	}

	m.Set(ctx, "k", res)
	got, ok := m.Get(ctx, "k", 60000)
	if !ok || got.JDText != "hello" {
		t.Fatalf("miss after set: ok=%v got=%+v", ok, got)
	}
}

func TestMemoryZeroMaxAgeBypassesLookup(t *testing.T) {
	m := NewMemory(10)
	ctx := context.Background()
	m.Set(ctx, "k", &models.ExtractResponse{Success: true, Status: models.StatusSuccess, JDText: "x"})

	if _, ok := m.Get(ctx, "k", 0); ok {
		t.Error("maxAge 0 should bypass the cache")
	}
	if _, ok := m.Get(ctx, "k", -5); ok {
		t.Error("negative maxAge should bypass the cache")
	}
}

func TestMemoryExpiredEntryMisses(t *testing.T) {
	m := NewMemory(10)
	ctx := context.Background()
	m.Set(ctx, "k", &models.ExtractResponse{Success: true, Status: models.StatusSuccess, JDText: "x"})

	// Backdate the entry past any reasonable maxAge.
	m.mu.Lock()
	m.store["k"].createdAt = time.Now().Add(-2 * time.Hour)
	m.mu.Unlock()

	if _, ok := m.Get(ctx, "k", 1000); ok {
		t.Error("stale entry should miss")
	}
}

func TestMemoryEvictsAtCapacity(t *testing.T) {
	m := NewMemory(2)
	ctx := context.Background()
	m.Set(ctx, "a", &models.ExtractResponse{})
	m.Set(ctx, "b", &models.ExtractResponse{})
	m.Set(ctx, "c", &models.ExtractResponse{})

	m.mu.RLock()
	n := len(m.store)
	m.mu.RUnlock()
	if n > 2 {
		t.Errorf("store holds %d entries, capacity 2", n)
	}
}
