// Package observability provides hooks for metrics, tracing, and logging.
//
// Libraries emit events through the registered hooks without depending on
// any particular backend. The CLI registers logging hooks under --verbose;
// everything else sees the no-op defaults.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetRunHooks(&myRunHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Run().OnRunStart(ctx, name, vertices, edges)
//	// ... step the engine ...
//	observability.Run().OnRunComplete(ctx, name, stats, duration, err)
package observability

import (
	"context"
	"sync"
	"time"

	"github.com/matzehuels/kruskal/pkg/kruskal"
)

// =============================================================================
// Run Hooks
// =============================================================================

// RunHooks receives events from the run pipeline.
type RunHooks interface {
	// OnLoad records a graph being loaded from a file or the catalog.
	OnLoad(ctx context.Context, source string, err error)

	// OnRunStart records the start of a run over a validated graph.
	OnRunStart(ctx context.Context, name string, vertices, edges int)

	// OnRunComplete records the end of a run. stats is zero when err is set.
	OnRunComplete(ctx context.Context, name string, stats kruskal.Stats, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// Session Hooks
// =============================================================================

// SessionHooks receives events from the HTTP session server.
type SessionHooks interface {
	// OnSessionCreate records a new engine session.
	OnSessionCreate(ctx context.Context, id string, vertices, edges int)

	// OnSessionStep records one or more steps taken on a session.
	OnSessionStep(ctx context.Context, id string, steps int, state kruskal.State)

	// OnSessionDelete records a session being removed.
	OnSessionDelete(ctx context.Context, id string)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopRunHooks is a no-op implementation of RunHooks.
type NoopRunHooks struct{}

func (NoopRunHooks) OnLoad(context.Context, string, error)         {}
func (NoopRunHooks) OnRunStart(context.Context, string, int, int) {}
func (NoopRunHooks) OnRunComplete(context.Context, string, kruskal.Stats, time.Duration, error) {
}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopSessionHooks is a no-op implementation of SessionHooks.
type NoopSessionHooks struct{}

func (NoopSessionHooks) OnSessionCreate(context.Context, string, int, int)          {}
func (NoopSessionHooks) OnSessionStep(context.Context, string, int, kruskal.State) {}
func (NoopSessionHooks) OnSessionDelete(context.Context, string)                   {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	runHooks     RunHooks     = NoopRunHooks{}
	cacheHooks   CacheHooks   = NoopCacheHooks{}
	sessionHooks SessionHooks = NoopSessionHooks{}
	hooksMu      sync.RWMutex
)

// SetRunHooks registers custom run hooks.
// This should be called once at application startup before any runs.
func SetRunHooks(h RunHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		runHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetSessionHooks registers custom session hooks.
func SetSessionHooks(h SessionHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		sessionHooks = h
	}
}

// Run returns the registered run hooks.
func Run() RunHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return runHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Session returns the registered session hooks.
func Session() SessionHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return sessionHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	runHooks = NoopRunHooks{}
	cacheHooks = NoopCacheHooks{}
	sessionHooks = NoopSessionHooks{}
}
