package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/kruskal/pkg/kruskal"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	if logger == nil {
		t.Fatal("newLogger() returned nil")
	}

	logger.Info("test message")

	if buf.Len() == 0 {
		t.Error("logger should have written output")
	}
}

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{
			name:    "info at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Info("test") },
			wantLog: true,
		},
		{
			name:    "debug at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Debug("test") },
			wantLog: false,
		},
		{
			name:    "debug at debug level",
			level:   log.DebugLevel,
			logFunc: func(l *log.Logger) { l.Debug("test") },
			wantLog: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, tt.level)
			tt.logFunc(logger)

			gotLog := buf.Len() > 0
			if gotLog != tt.wantLog {
				t.Errorf("got log output = %v, want %v", gotLog, tt.wantLog)
			}
		})
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	prog := newProgress(logger)
	time.Sleep(10 * time.Millisecond)
	prog.done("Ran 3 graphs")

	if !strings.Contains(buf.String(), "Ran 3 graphs") {
		t.Errorf("progress.done() output = %q, want message", buf.String())
	}
	if !strings.Contains(buf.String(), "ms)") {
		t.Errorf("progress.done() output = %q, want elapsed time", buf.String())
	}
}

func TestLogHooks(t *testing.T) {
	ctx := context.Background()

	t.Run("silent at info level", func(t *testing.T) {
		var buf bytes.Buffer
		h := &logHooks{logger: newLogger(&buf, log.InfoLevel)}
		h.OnRunStart(ctx, "classic", 7, 11)
		h.OnCacheHit(ctx, "trace")
		h.OnSessionDelete(ctx, "abc")
		if buf.Len() != 0 {
			t.Errorf("hooks logged at info level: %q", buf.String())
		}
	})

	t.Run("events at debug level", func(t *testing.T) {
		var buf bytes.Buffer
		h := &logHooks{logger: newLogger(&buf, log.DebugLevel)}
		h.OnLoad(ctx, "catalog:classic", nil)
		h.OnLoad(ctx, "missing.json", errors.New("boom"))
		h.OnRunComplete(ctx, "classic", kruskal.Stats{Accepted: 6, Rejected: 5}, time.Millisecond, nil)
		h.OnCacheMiss(ctx, "trace")
		h.OnCacheSet(ctx, "trace", 512)
		h.OnSessionCreate(ctx, "abc", 3, 3)
		h.OnSessionStep(ctx, "abc", 1, kruskal.StateRunning)

		out := buf.String()
		for _, want := range []string{
			"loaded", "load failed", "boom", "run complete", "accepted=6",
			"cache miss", "cache set", "session create", "session step", "state=running",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
	})
}
