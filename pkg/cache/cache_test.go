package cache

import (
	"bytes"
	"context"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	// Miss before Set
	_, hit, err := c.Get(ctx, "layout:abc")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("Get before Set should miss")
	}

	// Round trip
	want := []byte(`{"positions":{"a":[1,2]}}`)
	if err := c.Set(ctx, "layout:abc", want, time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	got, hit, err := c.Get(ctx, "layout:abc")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit {
		t.Fatal("Get after Set should hit")
	}
	if !bytes.Equal(got, want) {
		t.Errorf("Get = %s, want %s", got, want)
	}

	// Delete
	if err := c.Delete(ctx, "layout:abc"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	_, hit, _ = c.Get(ctx, "layout:abc")
	if hit {
		t.Error("Get after Delete should miss")
	}

	// Deleting a missing key is fine
	if err := c.Delete(ctx, "layout:abc"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "short", []byte("data"), time.Nanosecond); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	_, hit, err := c.Get(ctx, "short")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("expired entry should miss")
	}

	// Zero TTL means no expiration
	if err := c.Set(ctx, "forever", []byte("data"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	_, hit, _ = c.Get(ctx, "forever")
	if !hit {
		t.Error("zero-TTL entry should not expire")
	}
}

func TestFileCacheClearAndSize(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	for _, key := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, key, []byte("data"), 0); err != nil {
			t.Fatalf("Set error: %v", err)
		}
	}

	count, size, err := c.Size(ctx)
	if err != nil {
		t.Fatalf("Size error: %v", err)
	}
	if count != 3 {
		t.Errorf("Size count = %d, want 3", count)
	}
	if size == 0 {
		t.Error("Size bytes should be non-zero")
	}

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	count, _, err = c.Size(ctx)
	if err != nil {
		t.Fatalf("Size error: %v", err)
	}
	if count != 0 {
		t.Errorf("Size count after Clear = %d, want 0", count)
	}
	_, hit, _ := c.Get(ctx, "a")
	if hit {
		t.Error("Get after Clear should miss")
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

type fakeAlgorithm struct {
	Name    string  `json:"name"`
	Spacing float64 `json:"spacing"`
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	// Same inputs produce the same key
	lk1 := k.LayoutKey("hash123", LayoutKeyOpts{Algorithm: fakeAlgorithm{Name: "fcose", Spacing: 50}})
	lk2 := k.LayoutKey("hash123", LayoutKeyOpts{Algorithm: fakeAlgorithm{Name: "fcose", Spacing: 50}})
	if lk1 != lk2 {
		t.Error("LayoutKey should be deterministic")
	}

	// Different algorithms produce different keys
	lk3 := k.LayoutKey("hash123", LayoutKeyOpts{Algorithm: fakeAlgorithm{Name: "circle", Spacing: 50}})
	if lk1 == lk3 {
		t.Error("Different algorithms should produce different keys")
	}

	// Different options produce different keys
	lk4 := k.LayoutKey("hash123", LayoutKeyOpts{Algorithm: fakeAlgorithm{Name: "fcose", Spacing: 80}})
	if lk1 == lk4 {
		t.Error("Different options should produce different keys")
	}

	// Different graphs produce different keys
	lk5 := k.LayoutKey("hash456", LayoutKeyOpts{Algorithm: fakeAlgorithm{Name: "fcose", Spacing: 50}})
	if lk1 == lk5 {
		t.Error("Different graph hashes should produce different keys")
	}

	// Keys carry the layout prefix
	if lk1[:7] != "layout:" {
		t.Errorf("LayoutKey should start with layout prefix: %s", lk1)
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "proj:website:")

	key := scoped.LayoutKey("hash123", LayoutKeyOpts{})
	if len(key) < 13 || key[:13] != "proj:website:" {
		t.Errorf("ScopedKeyer LayoutKey should be prefixed: %s", key)
	}

	// Prefix aside, the key matches the inner keyer
	want := "proj:website:" + inner.LayoutKey("hash123", LayoutKeyOpts{})
	if key != want {
		t.Errorf("ScopedKeyer LayoutKey = %s, want %s", key, want)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.LayoutKey("hash", LayoutKeyOpts{})
	want := "prefix:" + NewDefaultKeyer().LayoutKey("hash", LayoutKeyOpts{})
	if key != want {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}
