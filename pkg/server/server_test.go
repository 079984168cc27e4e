package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kerrors "github.com/matzehuels/kruskal/pkg/errors"
	"github.com/matzehuels/kruskal/pkg/kruskal"
	"github.com/matzehuels/kruskal/pkg/observability"
)

func newTestServer(t *testing.T, opts ...Option) (*Server, *httptest.Server) {
	t.Helper()
	opts = append([]Option{WithLogger(log.New(io.Discard))}, opts...)
	s := New(opts...)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func do(t *testing.T, ts *httptest.Server, method, path, body string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, ts.URL+path, r)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

// fakeClock is advanced by the test while handlers read it.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) option() Option {
	return func(s *Server) { s.now = c.Now }
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func createSession(t *testing.T, ts *httptest.Server, body string) snapshot {
	t.Helper()
	resp := do(t, ts, http.MethodPost, "/api/v1/sessions", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decodeBody[snapshot](t, resp)
}

const triangle = `{"graph": {"name": "tri", "edges": [
	{"from": "A", "to": "B", "weight": 1},
	{"from": "B", "to": "C", "weight": 2},
	{"from": "A", "to": "C", "weight": 3}
]}}`

func TestHealth(t *testing.T) {
	_, ts := newTestServer(t)
	resp := do(t, ts, http.MethodGet, "/api/v1/health", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody[map[string]any](t, resp)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestSessionLifecycle(t *testing.T) {
	_, ts := newTestServer(t)

	snap := createSession(t, ts, triangle)
	assert.Equal(t, "tri", snap.Name)
	assert.Equal(t, "not_started", snap.State)
	assert.Equal(t, 3, snap.Total)
	assert.Len(t, snap.Components, 3)
	base := "/api/v1/sessions/" + snap.ID

	// Step through all three edges.
	wantAccepted := []bool{true, true, false}
	for i, want := range wantAccepted {
		resp := do(t, ts, http.MethodPost, base+"/step", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		step := decodeBody[stepResponse](t, resp)
		assert.Equal(t, i, step.Decision.Index)
		assert.Equal(t, want, step.Decision.Accepted, "edge %d", i)
	}

	// Fourth step: nothing left.
	resp := do(t, ts, http.MethodPost, base+"/step", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, ts, http.MethodGet, base, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	snap = decodeBody[snapshot](t, resp)
	assert.Equal(t, "completed", snap.State)
	assert.Equal(t, 3.0, snap.Forest.TotalWeight)
	assert.Equal(t, 1, snap.Forest.Components)
	assert.Equal(t, "rejected", snap.Edges[2].Status)

	resp = do(t, ts, http.MethodPost, base+"/reset", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	snap = decodeBody[snapshot](t, resp)
	assert.Equal(t, "not_started", snap.State)
	assert.Empty(t, snap.Forest.Edges)

	resp = do(t, ts, http.MethodPost, base+"/run", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	snap = decodeBody[snapshot](t, resp)
	assert.Equal(t, "completed", snap.State)
	assert.Equal(t, 2, snap.Stats.Accepted)

	resp = do(t, ts, http.MethodDelete, base, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = do(t, ts, http.MethodGet, base, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSessionCreate_Errors(t *testing.T) {
	_, ts := newTestServer(t)
	tests := []struct {
		name   string
		body   string
		status int
		code   kerrors.Code
	}{
		{"empty body", `{}`, http.StatusBadRequest, kerrors.ErrCodeInvalidInput},
		{"not json", `{`, http.StatusBadRequest, kerrors.ErrCodeInvalidInput},
		{"path rejected", `{"path": "/etc/passwd"}`, http.StatusBadRequest, kerrors.ErrCodeInvalidInput},
		{"unknown catalog", `{"catalog": "nope"}`, http.StatusNotFound, kerrors.ErrCodeNotFound},
		{"empty graph", `{"graph": {}}`, http.StatusUnprocessableEntity, kerrors.ErrCodeEmptyGraph},
		{"self loop", `{"graph": {"edges": [{"from": "a", "to": "a", "weight": 1}]}}`, http.StatusUnprocessableEntity, kerrors.ErrCodeInvalidEdge},
		{"unknown vertex", `{"graph": {"vertices": ["a"], "edges": [{"from": "a", "to": "b", "weight": 1}]}}`, http.StatusUnprocessableEntity, kerrors.ErrCodeUnknownVertex},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, ts, http.MethodPost, "/api/v1/sessions", tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			body := decodeBody[errorResponse](t, resp)
			assert.Equal(t, tt.code, body.Code)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestSession_InvalidID(t *testing.T) {
	_, ts := newTestServer(t)
	resp := do(t, ts, http.MethodGet, "/api/v1/sessions/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, ts, http.MethodGet, "/api/v1/sessions/0b9f7f0e-3c55-4c35-9a53-2b6f3f1f8a10", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, kerrors.ErrCodeSessionNotFound, decodeBody[errorResponse](t, resp).Code)
}

func TestSession_ConcurrentSteps(t *testing.T) {
	_, ts := newTestServer(t)
	snap := createSession(t, ts, `{"catalog": "classic"}`)
	base := "/api/v1/sessions/" + snap.ID

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = map[int]bool{}
	)
	for range snap.Total + 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := ts.Client().Post(ts.URL+base+"/step", "application/json", nil)
			if err != nil {
				return
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return
			}
			var step stepResponse
			if json.NewDecoder(resp.Body).Decode(&step) == nil {
				mu.Lock()
				seen[step.Decision.Index] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// Every edge decided exactly once.
	assert.Len(t, seen, snap.Total)
	resp := do(t, ts, http.MethodGet, base, "")
	final := decodeBody[snapshot](t, resp)
	assert.Equal(t, "completed", final.State)
	assert.Equal(t, 35.0, final.Forest.TotalWeight)
}

func TestSession_Eviction(t *testing.T) {
	clock := newFakeClock()
	s, ts := newTestServer(t, WithMaxSessions(2), WithSessionTTL(time.Hour), clock.option())

	first := createSession(t, ts, triangle)
	clock.Advance(time.Minute)
	second := createSession(t, ts, triangle)
	clock.Advance(time.Minute)
	third := createSession(t, ts, triangle)

	assert.Equal(t, 2, s.sessionCount(context.Background()))
	assert.Equal(t, http.StatusNotFound, do(t, ts, http.MethodGet, "/api/v1/sessions/"+first.ID, "").StatusCode)
	assert.Equal(t, http.StatusOK, do(t, ts, http.MethodGet, "/api/v1/sessions/"+second.ID, "").StatusCode)

	// Idle past the TTL.
	clock.Advance(2 * time.Hour)
	assert.Equal(t, http.StatusNotFound, do(t, ts, http.MethodGet, "/api/v1/sessions/"+third.ID, "").StatusCode)
}

func TestSessionList(t *testing.T) {
	clock := newFakeClock()
	_, ts := newTestServer(t, clock.option())

	a := createSession(t, ts, `{"catalog": "small"}`)
	clock.Advance(time.Second)
	b := createSession(t, ts, `{"catalog": "grid"}`)

	resp := do(t, ts, http.MethodGet, "/api/v1/sessions", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decodeBody[[]sessionSummary](t, resp)
	require.Len(t, list, 2)
	assert.Equal(t, b.ID, list[0].ID)
	assert.Equal(t, a.ID, list[1].ID)
	assert.Equal(t, "grid", list[0].Name)
}

func TestSessionList_DropsExpired(t *testing.T) {
	hooks := &recordingSessionHooks{}
	observability.SetSessionHooks(hooks)
	defer observability.Reset()

	clock := newFakeClock()
	_, ts := newTestServer(t, WithSessionTTL(time.Hour), clock.option())
	createSession(t, ts, triangle)
	clock.Advance(2 * time.Hour)

	resp := do(t, ts, http.MethodGet, "/api/v1/sessions", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decodeBody[[]sessionSummary](t, resp))

	health := decodeBody[map[string]any](t, do(t, ts, http.MethodGet, "/api/v1/health", ""))
	assert.Equal(t, 0.0, health["sessions"])

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	assert.Equal(t, []string{"create", "delete"}, hooks.events)
}

func TestSessionGet_ExpiredFiresDeleteHook(t *testing.T) {
	hooks := &recordingSessionHooks{}
	observability.SetSessionHooks(hooks)
	defer observability.Reset()

	clock := newFakeClock()
	_, ts := newTestServer(t, WithSessionTTL(time.Hour), clock.option())
	snap := createSession(t, ts, triangle)
	clock.Advance(2 * time.Hour)

	assert.Equal(t, http.StatusNotFound, do(t, ts, http.MethodGet, "/api/v1/sessions/"+snap.ID, "").StatusCode)

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	assert.Equal(t, []string{"create", "delete"}, hooks.events)
}

type recordingSessionHooks struct {
	observability.NoopSessionHooks
	mu      sync.Mutex
	events  []string
	lastRun kruskal.State
}

func (h *recordingSessionHooks) OnSessionCreate(context.Context, string, int, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, "create")
}

func (h *recordingSessionHooks) OnSessionStep(_ context.Context, _ string, _ int, st kruskal.State) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, "step")
	h.lastRun = st
}

func (h *recordingSessionHooks) OnSessionDelete(context.Context, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, "delete")
}

func TestSessionHooks(t *testing.T) {
	hooks := &recordingSessionHooks{}
	observability.SetSessionHooks(hooks)
	defer observability.Reset()

	_, ts := newTestServer(t)
	snap := createSession(t, ts, triangle)
	base := "/api/v1/sessions/" + snap.ID
	do(t, ts, http.MethodPost, base+"/run", "")
	do(t, ts, http.MethodDelete, base, "")

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	assert.Equal(t, []string{"create", "step", "delete"}, hooks.events)
	assert.Equal(t, kruskal.StateCompleted, hooks.lastRun)
}

func TestSessionDOT(t *testing.T) {
	_, ts := newTestServer(t)
	snap := createSession(t, ts, triangle)
	base := "/api/v1/sessions/" + snap.ID
	do(t, ts, http.MethodPost, base+"/step", "")

	resp := do(t, ts, http.MethodGet, base+"/dot?order=true", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "graphviz")
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "graph G {")
	assert.Contains(t, string(body), `label="#1 1"`)

	resp = do(t, ts, http.MethodGet, base+"/dot?format=png", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, ts, http.MethodGet, base+"/dot?weights=maybe", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCatalogEndpoints(t *testing.T) {
	_, ts := newTestServer(t)

	resp := do(t, ts, http.MethodGet, "/api/v1/catalog", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decodeBody[[]map[string]any](t, resp)
	assert.Len(t, list, 13)

	resp = do(t, ts, http.MethodGet, "/api/v1/catalog/triangle-negative", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	g := decodeBody[map[string]any](t, resp)
	assert.Equal(t, "triangle-negative", g["name"])

	resp = do(t, ts, http.MethodGet, "/api/v1/catalog/missing", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, ts, http.MethodGet, "/api/v1/categories", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decodeBody[[]map[string]any](t, resp), 5)
}

func TestRunEndpoint(t *testing.T) {
	_, ts := newTestServer(t)
	resp := do(t, ts, http.MethodPost, "/api/v1/runs", `{"catalog": "negative"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody[runResponse](t, resp)
	assert.Equal(t, -25.0, body.Trace.Forest.TotalWeight)
	assert.Len(t, body.GraphHash, 64)
	assert.False(t, body.CacheHit)
}

func TestCompareEndpoint(t *testing.T) {
	_, ts := newTestServer(t)

	resp := do(t, ts, http.MethodPost, "/api/v1/compare", `{"category": "connectivity"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody[compareResponse](t, resp)
	assert.Equal(t, "classic", body.A)
	assert.Equal(t, "disconnected", body.B)
	assert.Equal(t, 1, body.Summary.A.Components)
	assert.Equal(t, 4, body.Summary.B.Components)
	assert.Len(t, body.Rounds, 23)
	// classic has fewer edges, so its side drops out of the later rounds.
	assert.Nil(t, body.Rounds[22].A)
	assert.NotNil(t, body.Rounds[22].B)

	var buf bytes.Buffer
	buf.WriteString(`{"a": {"catalog": "small"}, "b": ` + triangle + `}`)
	resp = do(t, ts, http.MethodPost, "/api/v1/compare", buf.String())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody[compareResponse](t, resp)
	assert.Equal(t, 18.0, body.Summary.A.Weight)
	assert.Equal(t, 3.0, body.Summary.B.Weight)

	resp = do(t, ts, http.MethodPost, "/api/v1/compare", `{"a": {"catalog": "small"}}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, ts, http.MethodPost, "/api/v1/compare", `{"category": "nope"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
