// Package httputil downloads graph files over HTTP.
//
// # Overview
//
//   - [Client]: Fetches a graph file by URL and decodes it
//   - [Retry]: Automatic retry with exponential backoff
//
// # Fetching
//
// The decoder is chosen from the URL path extension, exactly as for local
// files:
//
//	c := httputil.NewClient()
//	g, err := c.Graph(ctx, "https://example.com/graphs/roads.toml")
//
// Bodies larger than [MaxBodyBytes] are rejected. A 404 yields
// [ErrNotFound]; any other non-200 status yields [ErrStatus].
//
// # Retry
//
// [Retry] retries transient failures:
//
//   - Network errors
//   - 5xx server errors
//   - 429 rate limit responses
//
// The delay doubles after each failed attempt. Downloaded graphs are not
// cached here; the trace cache keys on graph content, so a re-downloaded
// graph still hits it.
package httputil
