package cache

import (
	"context"
	"fmt"
	"testing"
)

func TestMemoryGetSet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(4)

	if _, ok := m.Get(ctx, "missing"); ok {
		t.Error("Get() on empty cache reported a hit")
	}

	if err := m.Set(ctx, "a", "1"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if val, ok := m.Get(ctx, "a"); !ok || val != "1" {
		t.Errorf("Get(a) = %q, %v; expected \"1\", true", val, ok)
	}

	// Overwrite keeps a single entry.
	if err := m.Set(ctx, "a", "2"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if val, _ := m.Get(ctx, "a"); val != "2" {
		t.Errorf("Get(a) after overwrite = %q, expected \"2\"", val)
	}
	if m.Len() != 1 {
		t.Errorf("Len() = %d, expected 1", m.Len())
	}
}

func TestMemoryEvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(3)

	for i := 0; i < 3; i++ {
		_ = m.Set(ctx, fmt.Sprintf("k%d", i), "v")
	}
	// Touch k0 so k1 becomes the eviction candidate.
	if _, ok := m.Get(ctx, "k0"); !ok {
		t.Fatal("Get(k0) missed unexpectedly")
	}

	_ = m.Set(ctx, "k3", "v")

	if m.Len() != 3 {
		t.Errorf("Len() = %d, expected bound of 3", m.Len())
	}
	if _, ok := m.Get(ctx, "k1"); ok {
		t.Error("k1 survived eviction, expected least-recently-used to be dropped")
	}
	for _, key := range []string{"k0", "k2", "k3"} {
		if _, ok := m.Get(ctx, key); !ok {
			t.Errorf("%s was evicted, expected it to survive", key)
		}
	}
}

func TestMemoryDefaultBound(t *testing.T) {
	m := NewMemory(0)
	ctx := context.Background()
	for i := 0; i < 200; i++ {
		_ = m.Set(ctx, fmt.Sprintf("k%d", i), "v")
	}
	if m.Len() > 128 {
		t.Errorf("Len() = %d, expected the default bound to apply", m.Len())
	}
}
