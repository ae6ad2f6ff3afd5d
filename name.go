package instrumentation

import (
	"strings"

	"github.com/cespare/xxhash/v2"
)

// MetricName identifies a metric family as an ordered sequence of path segments.
// It is immutable after construction; the zero value is the empty name.
type MetricName struct {
	segments []string
}

// NewMetricName builds a name from the given segments verbatim.
func NewMetricName(segments ...string) MetricName {
	if len(segments) == 0 {
		return MetricName{}
	}
	return MetricName{segments: append([]string(nil), segments...)}
}

// Name parses a dot-separated path such as "http.requests".
// An empty path yields the empty name.
func Name(path string) MetricName {
	if path == "" {
		return MetricName{}
	}
	return MetricName{segments: strings.Split(path, ".")}
}

// Segments returns a copy of the path segments.
func (n MetricName) Segments() []string {
	return append([]string(nil), n.segments...)
}

// Len returns the number of segments.
func (n MetricName) Len() int { return len(n.segments) }

// Empty reports whether the name has no segments.
func (n MetricName) Empty() bool { return len(n.segments) == 0 }

// WithSeparator renders the segments joined by sep.
func (n MetricName) WithSeparator(sep string) string {
	return strings.Join(n.segments, sep)
}

// String renders the name with the default "." separator.
func (n MetricName) String() string { return n.WithSeparator(".") }

// Append returns a new name with extra segments added at the end.
func (n MetricName) Append(segments ...string) MetricName {
	out := make([]string, 0, len(n.segments)+len(segments))
	out = append(out, n.segments...)
	out = append(out, segments...)
	return MetricName{segments: out}
}

// Equal reports whether both names have the same segments in the same order.
func (n MetricName) Equal(o MetricName) bool {
	if len(n.segments) != len(o.segments) {
		return false
	}
	for i := range n.segments {
		if n.segments[i] != o.segments[i] {
			return false
		}
	}
	return true
}

// Hash combines every segment in order. Segments are length-prefixed,
// so ["ab","c"] and ["a","bc"] hash differently.
func (n MetricName) Hash() uint64 {
	d := xxhash.New()
	var lenBuf [8]byte
	for _, s := range n.segments {
		l := uint64(len(s))
		for i := range lenBuf {
			lenBuf[i] = byte(l >> (8 * i))
		}
		_, _ = d.Write(lenBuf[:])
		_, _ = d.WriteString(s)
	}
	return d.Sum64()
}
