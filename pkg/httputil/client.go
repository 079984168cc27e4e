package httputil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/matzehuels/kruskal/pkg/buildinfo"
	"github.com/matzehuels/kruskal/pkg/graph"
)

const (
	// MaxBodyBytes caps the size of a downloaded graph file.
	MaxBodyBytes = 4 << 20

	defaultAttempts = 3
	defaultDelay    = time.Second
	defaultTimeout  = 30 * time.Second
)

var (
	// ErrNotFound is returned when the server answers 404.
	ErrNotFound = errors.New("remote graph not found")

	// ErrStatus is returned for any other unexpected response status.
	ErrStatus = errors.New("unexpected response status")

	// ErrTooLarge is returned when the body exceeds MaxBodyBytes.
	ErrTooLarge = errors.New("remote graph too large")
)

// Client downloads graph files. The zero value is not usable; call
// [NewClient].
type Client struct {
	HTTP     *http.Client
	Attempts int           // Tries per request, including the first
	Delay    time.Duration // Wait before the first retry; doubles after each
}

// NewClient returns a client with a 30s timeout and 3 attempts.
func NewClient() *Client {
	return &Client{
		HTTP:     &http.Client{Timeout: defaultTimeout},
		Attempts: defaultAttempts,
		Delay:    defaultDelay,
	}
}

// IsURL reports whether s looks like an http or https URL rather than a
// file path or catalog name.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Graph downloads and decodes the graph at rawURL. A graph without a name
// is named after the last path segment.
func (c *Client) Graph(ctx context.Context, rawURL string) (graph.Graph, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return graph.Graph{}, fmt.Errorf("parse url: %w", err)
	}
	f, err := graph.FormatOf(u.Path)
	if err != nil {
		return graph.Graph{}, err
	}
	data, err := c.Get(ctx, rawURL)
	if err != nil {
		return graph.Graph{}, err
	}
	g, err := graph.ReadGraph(bytes.NewReader(data), f)
	if err != nil {
		return graph.Graph{}, fmt.Errorf("%s: %w", rawURL, err)
	}
	if g.Name == "" {
		base := path.Base(u.Path)
		g.Name = strings.TrimSuffix(base, path.Ext(base))
	}
	return g, nil
}

// Get fetches rawURL, retrying network errors, 429 and 5xx responses.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	var body []byte
	err := Retry(ctx, c.Attempts, c.Delay, func() error {
		data, err := c.get(ctx, rawURL)
		if err != nil {
			return err
		}
		body = data
		return nil
	})
	return body, err
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "kruskal/"+buildinfo.Version)
	req.Header.Set("Accept", "application/json, application/toml, text/plain")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &RetryableError{Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, rawURL)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, &RetryableError{Err: fmt.Errorf("%w: %s: %s", ErrStatus, rawURL, resp.Status)}
	default:
		return nil, fmt.Errorf("%w: %s: %s", ErrStatus, rawURL, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes+1))
	if err != nil {
		return nil, &RetryableError{Err: fmt.Errorf("read %s: %w", rawURL, err)}
	}
	if len(data) > MaxBodyBytes {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrTooLarge, rawURL, MaxBodyBytes)
	}
	return data, nil
}
