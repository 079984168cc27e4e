package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/kruskal/pkg/kruskal"
)

// newLogger creates a logger with "HH:MM:SS.ms" timestamps that filters
// below level.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs completion of an operation with its elapsed time.
// Not safe for concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs e.g. "Ran 13 graphs (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// =============================================================================
// Observability hooks
// =============================================================================

// logHooks reports pipeline, cache and session events at debug level.
type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) OnLoad(_ context.Context, source string, err error) {
	if err != nil {
		h.logger.Debug("load failed", "source", source, "err", err)
		return
	}
	h.logger.Debug("loaded", "source", source)
}

func (h *logHooks) OnRunStart(_ context.Context, name string, vertices, edges int) {
	h.logger.Debug("run start", "graph", name, "vertices", vertices, "edges", edges)
}

func (h *logHooks) OnRunComplete(_ context.Context, name string, stats kruskal.Stats, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("run failed", "graph", name, "err", err)
		return
	}
	h.logger.Debug("run complete", "graph", name, "accepted", stats.Accepted, "rejected", stats.Rejected, "duration", d)
}

func (h *logHooks) OnCacheHit(_ context.Context, kind string) {
	h.logger.Debug("cache hit", "kind", kind)
}

func (h *logHooks) OnCacheMiss(_ context.Context, kind string) {
	h.logger.Debug("cache miss", "kind", kind)
}

func (h *logHooks) OnCacheSet(_ context.Context, kind string, size int) {
	h.logger.Debug("cache set", "kind", kind, "bytes", size)
}

func (h *logHooks) OnSessionCreate(_ context.Context, id string, vertices, edges int) {
	h.logger.Debug("session create", "id", id, "vertices", vertices, "edges", edges)
}

func (h *logHooks) OnSessionStep(_ context.Context, id string, steps int, state kruskal.State) {
	h.logger.Debug("session step", "id", id, "steps", steps, "state", state)
}

func (h *logHooks) OnSessionDelete(_ context.Context, id string) {
	h.logger.Debug("session delete", "id", id)
}
