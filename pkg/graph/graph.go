package graph

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
)

var (
	// ErrUnsupportedFormat is returned for file extensions or format names
	// other than json and toml.
	ErrUnsupportedFormat = errors.New("unsupported graph format")

	// ErrMalformed is returned when a graph or trace cannot be decoded.
	ErrMalformed = errors.New("malformed graph")
)

// ParseFormat maps a format name such as "json" or ".TOML" to a [Format].
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "json":
		return FormatJSON, nil
	case "toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// FormatOf returns the format implied by a file's extension.
func FormatOf(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", fmt.Errorf("%w: %s has no extension", ErrUnsupportedFormat, path)
	}
	return ParseFormat(ext)
}

// ReadGraph decodes a graph in the given format from r.
//
// Unknown fields are rejected so that typos such as "wieght" surface as
// errors instead of silently becoming zero weights. ReadGraph does not
// validate the graph structure; that happens when the engine is built.
func ReadGraph(r io.Reader, f Format) (Graph, error) {
	var g Graph
	switch f {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&g); err != nil {
			return Graph{}, fmt.Errorf("%w: decode json: %v", ErrMalformed, err)
		}
	case FormatTOML:
		md, err := toml.NewDecoder(r).Decode(&g)
		if err != nil {
			return Graph{}, fmt.Errorf("%w: decode toml: %v", ErrMalformed, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Graph{}, fmt.Errorf("%w: unknown toml key %q", ErrMalformed, undecoded[0].String())
		}
	default:
		return Graph{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
	return g, nil
}

// ReadGraphFile reads the graph at path, choosing the decoder from the
// file extension. A graph without a name is named after the file.
func ReadGraphFile(path string) (Graph, error) {
	f, err := FormatOf(path)
	if err != nil {
		return Graph{}, err
	}
	file, err := os.Open(path)
	if err != nil {
		return Graph{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	g, err := ReadGraph(file, f)
	if err != nil {
		return Graph{}, fmt.Errorf("%s: %w", path, err)
	}
	if g.Name == "" {
		g.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return g, nil
}

// WriteGraph encodes g in the given format and writes it to w.
func WriteGraph(w io.Writer, g Graph, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(g); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(g); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
	return nil
}

// WriteGraphFile writes g to path in the format implied by its extension.
func WriteGraphFile(path string, g Graph) error {
	f, err := FormatOf(path)
	if err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteGraph(file, g, f); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// MarshalGraph returns the canonical JSON encoding of g, used for hashing.
// Vertices are made explicit so that a graph with derived vertices and the
// same graph with a declared list encode identically.
func MarshalGraph(g Graph) ([]byte, error) {
	canon := Graph{
		Vertices: g.VertexSet(),
		Edges:    slices.Clone(g.Edges),
	}
	return json.Marshal(canon)
}

// ReadTrace decodes a JSON trace from r.
func ReadTrace(r io.Reader) (*Trace, error) {
	var t Trace
	if err := json.NewDecoder(r).Decode(&t); err != nil {
		return nil, fmt.Errorf("%w: decode trace: %v", ErrMalformed, err)
	}
	return &t, nil
}

// WriteTrace encodes t as indented JSON.
func WriteTrace(w io.Writer, t *Trace) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(t); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// MarshalTrace returns the compact JSON encoding of t.
func MarshalTrace(t *Trace) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalTrace decodes a trace produced by [MarshalTrace].
func UnmarshalTrace(data []byte) (*Trace, error) {
	return ReadTrace(bytes.NewReader(data))
}
