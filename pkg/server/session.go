package server

import (
	"context"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	kerrors "github.com/matzehuels/kruskal/pkg/errors"
	"github.com/matzehuels/kruskal/pkg/graph"
	"github.com/matzehuels/kruskal/pkg/kruskal"
	"github.com/matzehuels/kruskal/pkg/observability"
)

// session is one interactive engine. Its mutex serialises steps so that
// concurrent requests against the same id never interleave.
type session struct {
	id      string
	name    string
	created time.Time

	mu       sync.Mutex
	engine   *kruskal.Engine[string]
	lastUsed time.Time
}

type sessionKey struct{}

func sessionFrom(ctx context.Context) *session {
	return ctx.Value(sessionKey{}).(*session)
}

// addSession registers a new session, evicting expired ones and, at
// capacity, the least recently used.
func (s *Server) addSession(ctx context.Context, g graph.Graph, e *kruskal.Engine[string]) *session {
	now := s.now()
	sess := &session{
		id:       uuid.NewString(),
		name:     g.Name,
		created:  now,
		engine:   e,
		lastUsed: now,
	}

	s.mu.Lock()
	evicted := s.evictLocked(now)
	if s.maxSessions > 0 && len(s.sessions) >= s.maxSessions {
		if id := s.oldestLocked(); id != "" {
			delete(s.sessions, id)
			evicted = append(evicted, id)
		}
	}
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	s.reportEvicted(ctx, evicted)
	observability.Session().OnSessionCreate(ctx, sess.id, len(e.Graph().Vertices), e.Len())
	return sess
}

// lookupSession returns a live session and marks it used.
func (s *Server) lookupSession(ctx context.Context, id string) (*session, bool) {
	now := s.now()
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		return nil, false
	}
	sess.mu.Lock()
	expired := s.ttl > 0 && now.Sub(sess.lastUsed) > s.ttl
	if !expired {
		sess.lastUsed = now
	}
	sess.mu.Unlock()
	if expired {
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	if expired {
		s.reportEvicted(ctx, []string{id})
		return nil, false
	}
	return sess, true
}

func (s *Server) removeSession(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	return true
}

// expire drops sessions idle past the TTL.
func (s *Server) expire(ctx context.Context) {
	now := s.now()
	s.mu.Lock()
	evicted := s.evictLocked(now)
	s.mu.Unlock()
	s.reportEvicted(ctx, evicted)
}

func (s *Server) reportEvicted(ctx context.Context, ids []string) {
	for _, id := range ids {
		s.logger.Debug("session evicted", "id", id)
		observability.Session().OnSessionDelete(ctx, id)
	}
}

func (s *Server) sessionCount(ctx context.Context) int {
	s.expire(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// listSessions returns summaries of every live session, newest first.
func (s *Server) listSessions(ctx context.Context) []sessionSummary {
	s.expire(ctx)
	s.mu.Lock()
	all := make([]*session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		all = append(all, sess)
	}
	s.mu.Unlock()

	out := make([]sessionSummary, 0, len(all))
	for _, sess := range all {
		out = append(out, sess.summary())
	}
	slices.SortFunc(out, func(a, b sessionSummary) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

func (s *Server) evictLocked(now time.Time) []string {
	if s.ttl <= 0 {
		return nil
	}
	var ids []string
	for id, sess := range s.sessions {
		sess.mu.Lock()
		idle := now.Sub(sess.lastUsed)
		sess.mu.Unlock()
		if idle > s.ttl {
			delete(s.sessions, id)
			ids = append(ids, id)
		}
	}
	return ids
}

func (s *Server) oldestLocked() string {
	var (
		oldest string
		at     time.Time
	)
	for id, sess := range s.sessions {
		sess.mu.Lock()
		used := sess.lastUsed
		sess.mu.Unlock()
		if oldest == "" || used.Before(at) {
			oldest, at = id, used
		}
	}
	return oldest
}

// withSession resolves {id} and stores the session in the request context.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := kerrors.ValidateID(id); err != nil {
			writeError(w, err)
			return
		}
		sess, ok := s.lookupSession(r.Context(), id)
		if !ok {
			writeError(w, kerrors.New(kerrors.ErrCodeSessionNotFound, "session not found: %s", id))
			return
		}
		ctx := context.WithValue(r.Context(), sessionKey{}, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionSummary is the list view of a session.
type sessionSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	State     string    `json:"state"`
	Cursor    int       `json:"cursor"`
	Total     int       `json:"total_edges"`
}

func (sess *session) summary() sessionSummary {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sessionSummary{
		ID:        sess.id,
		Name:      sess.name,
		CreatedAt: sess.created,
		State:     sess.engine.State().String(),
		Cursor:    sess.engine.Cursor(),
		Total:     sess.engine.Len(),
	}
}

// edgeView is one edge of the sorted sequence with its outcome.
type edgeView struct {
	kruskal.Edge[string]
	Index  int    `json:"index"`
	Status string `json:"status"`
}

// snapshot is the full view of a session returned by most session endpoints.
type snapshot struct {
	sessionSummary
	Forest     kruskal.Forest[string] `json:"forest"`
	Stats      kruskal.Stats          `json:"stats"`
	Vertices   []string               `json:"vertices"`
	Edges      []edgeView             `json:"edges"`
	Components [][]string             `json:"components"`
}

// snapshotLocked captures the session state. The caller holds sess.mu.
func (sess *session) snapshotLocked() snapshot {
	e := sess.engine
	sorted := e.Edges()
	edges := make([]edgeView, len(sorted))
	for i, edge := range sorted {
		edges[i] = edgeView{Edge: edge, Index: i, Status: e.Status(i).String()}
	}
	return snapshot{
		sessionSummary: sessionSummary{
			ID:        sess.id,
			Name:      sess.name,
			CreatedAt: sess.created,
			State:     e.State().String(),
			Cursor:    e.Cursor(),
			Total:     e.Len(),
		},
		Forest:     e.Forest(),
		Stats:      e.Stats(),
		Vertices:   e.Graph().Vertices,
		Edges:      edges,
		Components: e.Components(),
	}
}
