package observability

import (
	"context"
	"testing"
	"time"

	"github.com/matzehuels/kruskal/pkg/kruskal"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	r := NoopRunHooks{}
	r.OnLoad(ctx, "graph.json", nil)
	r.OnRunStart(ctx, "classic", 12, 19)
	r.OnRunComplete(ctx, "classic", kruskal.Stats{Considered: 19}, time.Millisecond, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "trace")
	c.OnCacheMiss(ctx, "trace")
	c.OnCacheSet(ctx, "trace", 1024)

	s := NoopSessionHooks{}
	s.OnSessionCreate(ctx, "id", 3, 3)
	s.OnSessionStep(ctx, "id", 1, kruskal.StateRunning)
	s.OnSessionDelete(ctx, "id")
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Run().(NoopRunHooks); !ok {
		t.Error("Run() should return NoopRunHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := Session().(NoopSessionHooks); !ok {
		t.Error("Session() should return NoopSessionHooks by default")
	}

	customRun := &testRunHooks{}
	SetRunHooks(customRun)
	if Run() != customRun {
		t.Error("SetRunHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customSession := &testSessionHooks{}
	SetSessionHooks(customSession)
	if Session() != customSession {
		t.Error("SetSessionHooks should set custom hooks")
	}

	Reset()
	if _, ok := Run().(NoopRunHooks); !ok {
		t.Error("Reset() should restore NoopRunHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testRunHooks{}
	SetRunHooks(custom)
	SetRunHooks(nil)

	if Run() != custom {
		t.Error("SetRunHooks(nil) should be ignored")
	}

	Reset()
}

type testRunHooks struct{ NoopRunHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testSessionHooks struct{ NoopSessionHooks }
