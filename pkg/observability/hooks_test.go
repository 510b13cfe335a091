package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Layout hooks
	l := NoopLayoutHooks{}
	l.OnLayoutStart(ctx, "fcose", 100)
	l.OnLayoutComplete(ctx, "fcose", true, time.Second, nil)

	// Store hooks
	s := NoopStoreHooks{}
	s.OnGet(ctx, "memory", "g1", nil)
	s.OnSave(ctx, "memory", "g1", nil)
	s.OnDelete(ctx, "memory", "g1", nil)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "layout")
	c.OnCacheMiss(ctx, "layout")
	c.OnCacheSet(ctx, "layout", 1024)

	// HTTP hooks
	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "localhost:8080", "/api/layout")
	h.OnResponse(ctx, "POST", "localhost:8080", "/api/layout", 200, time.Second)
	h.OnError(ctx, "POST", "localhost:8080", "/api/layout", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Layout() should return NoopLayoutHooks by default")
	}
	if _, ok := Store().(NoopStoreHooks); !ok {
		t.Error("Store() should return NoopStoreHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	// Set custom hooks
	customLayout := &testLayoutHooks{}
	SetLayoutHooks(customLayout)
	if Layout() != customLayout {
		t.Error("SetLayoutHooks should set custom hooks")
	}

	customStore := &testStoreHooks{}
	SetStoreHooks(customStore)
	if Store() != customStore {
		t.Error("SetStoreHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Reset() should restore NoopLayoutHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testLayoutHooks{}
	SetLayoutHooks(custom)

	// Setting nil should be ignored
	SetLayoutHooks(nil)

	if Layout() != custom {
		t.Error("SetLayoutHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testLayoutHooks struct{ NoopLayoutHooks }
type testStoreHooks struct{ NoopStoreHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
