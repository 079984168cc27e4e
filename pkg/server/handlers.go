package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/kruskal/pkg/buildinfo"
	"github.com/matzehuels/kruskal/pkg/catalog"
	kerrors "github.com/matzehuels/kruskal/pkg/errors"
	"github.com/matzehuels/kruskal/pkg/graph"
	"github.com/matzehuels/kruskal/pkg/kruskal"
	"github.com/matzehuels/kruskal/pkg/observability"
	"github.com/matzehuels/kruskal/pkg/pipeline"
	"github.com/matzehuels/kruskal/pkg/render/dot"
)

// =============================================================================
// Request and response bodies
// =============================================================================

// graphRequest selects a graph by catalog name or carries it inline.
// File paths are not accepted over HTTP.
type graphRequest struct {
	Catalog string       `json:"catalog,omitempty"`
	Graph   *graph.Graph `json:"graph,omitempty"`
	Refresh bool         `json:"refresh,omitempty"`
}

func (req graphRequest) options() pipeline.Options {
	return pipeline.Options{Catalog: req.Catalog, Graph: req.Graph, Refresh: req.Refresh}
}

// compareRequest names either a category or two graphs.
type compareRequest struct {
	Category string        `json:"category,omitempty"`
	A        *graphRequest `json:"a,omitempty"`
	B        *graphRequest `json:"b,omitempty"`
}

type stepResponse struct {
	Decision kruskal.Decision[string] `json:"decision"`
	Snapshot snapshot                 `json:"session"`
}

type runResponse struct {
	Trace     *graph.Trace `json:"trace"`
	GraphHash string       `json:"graph_hash"`
	CacheHit  bool         `json:"cache_hit"`
}

type compareRound struct {
	A *kruskal.Decision[string] `json:"a,omitempty"`
	B *kruskal.Decision[string] `json:"b,omitempty"`
}

type compareResponse struct {
	A       string          `json:"a"`
	B       string          `json:"b"`
	Summary kruskal.Summary `json:"summary"`
	Rounds  []compareRound  `json:"rounds"`
}

type errorResponse struct {
	Code    kerrors.Code `json:"code"`
	Message string       `json:"message"`
}

// =============================================================================
// Meta and catalog
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"version":  buildinfo.Version,
		"sessions": s.sessionCount(r.Context()),
	})
}

func (s *Server) handleCatalogList(w http.ResponseWriter, r *http.Request) {
	type entry struct {
		Name        string  `json:"name"`
		Description string  `json:"description,omitempty"`
		Vertices    int     `json:"vertices"`
		Edges       int     `json:"edges"`
		Density     float64 `json:"density"`
	}
	all := catalog.All()
	out := make([]entry, len(all))
	for i, g := range all {
		out[i] = entry{
			Name:        g.Name,
			Description: g.Description,
			Vertices:    g.VertexCount(),
			Edges:       g.EdgeCount(),
			Density:     g.Density(),
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCatalogGet(w http.ResponseWriter, r *http.Request) {
	g, err := catalog.Get(chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, pipeline.Classify(err))
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, catalog.Categories())
}

// =============================================================================
// Stateless runs
// =============================================================================

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	var req graphRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := s.runner.Run(r.Context(), req.options())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, runResponse{Trace: res.Trace, GraphHash: res.GraphHash, CacheHit: res.CacheHit})
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if !decode(w, r, &req) {
		return
	}

	var ga, gb graph.Graph
	switch {
	case req.Category != "" && (req.A != nil || req.B != nil):
		writeError(w, kerrors.New(kerrors.ErrCodeInvalidInput, "give either a category or two graphs, not both"))
		return
	case req.Category != "":
		c, err := catalog.GetCategory(req.Category)
		if err != nil {
			writeError(w, pipeline.Classify(err))
			return
		}
		if ga, gb, err = c.Pair(); err != nil {
			writeError(w, pipeline.Classify(err))
			return
		}
	case req.A != nil && req.B != nil:
		var err error
		if ga, err = pipeline.Load(r.Context(), req.A.options()); err != nil {
			writeError(w, err)
			return
		}
		if gb, err = pipeline.Load(r.Context(), req.B.options()); err != nil {
			writeError(w, err)
			return
		}
	default:
		writeError(w, kerrors.New(kerrors.ErrCodeInvalidInput, "a category or both graphs a and b are required"))
		return
	}

	ea, err := pipeline.Build(ga)
	if err != nil {
		writeError(w, err)
		return
	}
	eb, err := pipeline.Build(gb)
	if err != nil {
		writeError(w, err)
		return
	}

	d := kruskal.NewDual(ea, eb)
	steps := d.RunBoth()
	rounds := make([]compareRound, len(steps))
	for i, st := range steps {
		if st.OKA {
			rounds[i].A = &st.A
		}
		if st.OKB {
			rounds[i].B = &st.B
		}
	}
	writeJSON(w, http.StatusOK, compareResponse{
		A:       ga.Name,
		B:       gb.Name,
		Summary: d.Summary(),
		Rounds:  rounds,
	})
}

// =============================================================================
// Sessions
// =============================================================================

func (s *Server) handleSessionList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.listSessions(r.Context()))
}

func (s *Server) handleSessionCreate(w http.ResponseWriter, r *http.Request) {
	var req graphRequest
	if !decode(w, r, &req) {
		return
	}
	g, err := pipeline.Load(r.Context(), req.options())
	if err != nil {
		writeError(w, err)
		return
	}
	e, err := pipeline.Build(g)
	if err != nil {
		writeError(w, err)
		return
	}

	sess := s.addSession(r.Context(), g, e)
	s.logger.Info("session created", "id", sess.id, "graph", g.Name, "vertices", g.VertexCount(), "edges", g.EdgeCount())

	sess.mu.Lock()
	snap := sess.snapshotLocked()
	sess.mu.Unlock()
	w.Header().Set("Location", "/api/v1/sessions/"+sess.id)
	writeJSON(w, http.StatusCreated, snap)
}

func (s *Server) handleSessionGet(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	sess.mu.Lock()
	snap := sess.snapshotLocked()
	sess.mu.Unlock()
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleSessionDelete(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	if !s.removeSession(sess.id) {
		writeError(w, kerrors.New(kerrors.ErrCodeSessionNotFound, "session not found: %s", sess.id))
		return
	}
	observability.Session().OnSessionDelete(r.Context(), sess.id)
	s.logger.Info("session deleted", "id", sess.id)
	w.WriteHeader(http.StatusNoContent)
}

// handleSessionStep advances one edge. A complete session answers 204 and
// is left untouched.
func (s *Server) handleSessionStep(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	sess.mu.Lock()
	d, ok := sess.engine.Step()
	state := sess.engine.State()
	snap := sess.snapshotLocked()
	sess.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	observability.Session().OnSessionStep(r.Context(), sess.id, 1, state)
	writeJSON(w, http.StatusOK, stepResponse{Decision: d, Snapshot: snap})
}

func (s *Server) handleSessionRun(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	sess.mu.Lock()
	ds := sess.engine.Run()
	state := sess.engine.State()
	snap := sess.snapshotLocked()
	sess.mu.Unlock()

	observability.Session().OnSessionStep(r.Context(), sess.id, len(ds), state)
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleSessionReset(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	sess.mu.Lock()
	sess.engine.Reset()
	snap := sess.snapshotLocked()
	sess.mu.Unlock()
	writeJSON(w, http.StatusOK, snap)
}

// handleSessionDOT returns the current diagram as DOT, or as SVG with
// ?format=svg. ?order=true adds edge positions and ?weights=false hides
// weights.
func (s *Server) handleSessionDOT(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatDOT
	}
	if format != pipeline.FormatDOT && format != pipeline.FormatSVG {
		writeError(w, kerrors.New(kerrors.ErrCodeInvalidFormat, "invalid format: %q (must be dot or svg)", format))
		return
	}
	opts := dot.Options{Engine: q.Get("layout")}
	opts.ShowOrder, _ = strconv.ParseBool(q.Get("order"))
	if v := q.Get("weights"); v != "" {
		show, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, kerrors.New(kerrors.ErrCodeInvalidInput, "invalid weights flag: %q", v))
			return
		}
		opts.HideWeights = !show
	}

	sess := sessionFrom(r.Context())
	sess.mu.Lock()
	src := dot.ToDOT(dot.FromEngine(sess.name, sess.engine), opts)
	sess.mu.Unlock()

	if format == pipeline.FormatDOT {
		w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, src)
		return
	}
	svg, err := dot.RenderSVG(r.Context(), src)
	if err != nil {
		writeError(w, kerrors.Wrap(kerrors.ErrCodeInternal, err, "render svg"))
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	w.Write(svg)
}

// =============================================================================
// Helpers
// =============================================================================

// decode reads a JSON body into v, writing a 400 on failure.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, kerrors.New(kerrors.ErrCodeInvalidInput, "request body exceeds %d bytes", tooLarge.Limit))
			return false
		}
		writeError(w, kerrors.Wrap(kerrors.ErrCodeInvalidInput, err, "invalid request body"))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError responds with the error's code. Uncoded errors are classified
// first so that sentinel errors from the library packages map correctly.
func writeError(w http.ResponseWriter, err error) {
	code := kerrors.GetCode(err)
	if code == "" {
		err = pipeline.Classify(err)
		code = kerrors.GetCode(err)
	}
	if code == "" {
		code = kerrors.ErrCodeInternal
	}
	writeJSON(w, kerrors.HTTPStatus(code), errorResponse{Code: code, Message: kerrors.UserMessage(err)})
}
