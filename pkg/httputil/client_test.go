package httputil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

const triangleTOML = `
[[edges]]
from = "a"
to = "b"
weight = 1

[[edges]]
from = "b"
to = "c"
weight = 2
`

func testClient() *Client {
	c := NewClient()
	c.Delay = time.Millisecond
	return c
}

func TestClient_Graph(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("User-Agent"), "kruskal/") {
			t.Errorf("User-Agent = %q", r.Header.Get("User-Agent"))
		}
		switch r.URL.Path {
		case "/graphs/roads.toml":
			w.Write([]byte(triangleTOML))
		case "/graphs/named.json":
			w.Write([]byte(`{"name":"named","edges":[{"from":"x","to":"y","weight":3}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := testClient()

	g, err := c.Graph(context.Background(), srv.URL+"/graphs/roads.toml")
	if err != nil {
		t.Fatalf("Graph() error: %v", err)
	}
	if g.Name != "roads" || g.EdgeCount() != 2 {
		t.Errorf("Graph() = %+v, want roads with 2 edges", g)
	}

	g, err = c.Graph(context.Background(), srv.URL+"/graphs/named.json?rev=2")
	if err != nil {
		t.Fatalf("Graph() error: %v", err)
	}
	if g.Name != "named" {
		t.Errorf("Name = %q, want named", g.Name)
	}

	_, err = c.Graph(context.Background(), srv.URL+"/graphs/missing.json")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("missing graph error = %v, want ErrNotFound", err)
	}
}

func TestClient_GraphUnsupportedExtension(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	if _, err := testClient().Graph(context.Background(), srv.URL+"/graph.yaml"); err == nil {
		t.Fatal("Graph() should reject .yaml")
	}
	if calls.Load() != 0 {
		t.Error("unsupported extension should fail before any request")
	}
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(triangleTOML))
	}))
	defer srv.Close()

	data, err := testClient().Get(context.Background(), srv.URL+"/g.toml")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if !strings.Contains(string(data), "weight = 2") {
		t.Errorf("body = %q", data)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := testClient().Get(context.Background(), srv.URL+"/g.json")
	if !errors.Is(err, ErrStatus) {
		t.Errorf("Get() = %v, want ErrStatus", err)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestClient_TooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Repeat(" ", MaxBodyBytes+1)))
	}))
	defer srv.Close()

	_, err := testClient().Get(context.Background(), srv.URL+"/big.json")
	if !errors.Is(err, ErrTooLarge) {
		t.Errorf("Get() = %v, want ErrTooLarge", err)
	}
}

func TestIsURL(t *testing.T) {
	tests := map[string]bool{
		"https://example.com/g.json":   true,
		"http://localhost:8080/g.toml": true,
		"g.json":                       false,
		"classic":                      false,
		"ftp://example.com/g.json":     false,
	}
	for in, want := range tests {
		if got := IsURL(in); got != want {
			t.Errorf("IsURL(%q) = %v, want %v", in, got, want)
		}
	}
}
