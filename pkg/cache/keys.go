package cache

// TraceVersion is mixed into every trace key. Bump it when the trace
// encoding or the engine's decision order changes so old entries miss.
const TraceVersion = 1

// Keyer derives cache keys.
type Keyer interface {
	// TraceKey returns the key for the trace of a graph with the given hash.
	TraceKey(graphHash string) string
}

// DefaultKeyer produces unscoped keys of the form "trace:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// TraceKey implements [Keyer].
func (DefaultKeyer) TraceKey(graphHash string) string {
	return hashKey("trace", graphHash, TraceVersion)
}
