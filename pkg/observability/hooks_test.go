package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	o := NoopOrderingHooks{}
	o.OnOrderStart(ctx, "run-1", 10, 3)
	o.OnSweep(ctx, "run-1", 0, 4, 4)
	o.OnOrderComplete(ctx, "run-1", 2, 5, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "order")
	c.OnCacheMiss(ctx, "order")
	c.OnCacheSet(ctx, "order", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "/v1/order")
	h.OnResponse(ctx, "POST", "/v1/order", 200, time.Second)
	h.OnError(ctx, "POST", "/v1/order", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Ordering().(NoopOrderingHooks); !ok {
		t.Error("Ordering() should return NoopOrderingHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customOrdering := &testOrderingHooks{}
	SetOrderingHooks(customOrdering)
	if Ordering() != customOrdering {
		t.Error("SetOrderingHooks should set custom hooks")
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

	Reset()
	if _, ok := Ordering().(NoopOrderingHooks); !ok {
		t.Error("Reset() should restore NoopOrderingHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testOrderingHooks{}
	SetOrderingHooks(custom)
	SetOrderingHooks(nil)

	if Ordering() != custom {
		t.Error("SetOrderingHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testOrderingHooks struct{ NoopOrderingHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
