package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) *Redis {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisWithClient(client, time.Minute)
}

func TestRedisGetSet(t *testing.T) {
	ctx := context.Background()
	r := newTestRedis(t)

	if _, ok := r.Get(ctx, "missing"); ok {
		t.Error("Get() on empty redis reported a hit")
	}

	if err := r.Set(ctx, "heloc:schedule:test", `[{"Period":1}]`); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	val, ok := r.Get(ctx, "heloc:schedule:test")
	if !ok {
		t.Fatal("Get() missed after Set()")
	}
	if val != `[{"Period":1}]` {
		t.Errorf("Get() = %q, expected stored value", val)
	}
}

func TestRedisMemoizerRoundTrip(t *testing.T) {
	ctx := context.Background()
	r := newTestRedis(t)
	m := NewMemoizer(r, nil, nil)

	terms := testTerms()
	first, err := m.Generate(ctx, terms, nil)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	second, err := m.Generate(ctx, terms, nil)
	if err != nil {
		t.Fatalf("Generate() on warm cache error = %v", err)
	}
	assertSchedulesEqual(t, first, second)
}
