package instrumentation

import "sync"

type stringState struct {
	mu sync.RWMutex
	v  string
}

// String holds a replaceable text value, such as a build version or a mode.
// The zero value is an absent handle: Set is a no-op and Value returns "".
type String struct {
	s *stringState
}

// NewString returns a string metric that is not registered anywhere.
func NewString() String { return String{s: &stringState{}} }

// Set replaces the text.
func (s String) Set(v string) {
	if s.s == nil {
		return
	}
	s.s.mu.Lock()
	s.s.v = v
	s.s.mu.Unlock()
}

// Value returns the current text.
func (s String) Value() string {
	if s.s == nil {
		return ""
	}
	s.s.mu.RLock()
	defer s.s.mu.RUnlock()
	return s.s.v
}

// Present reports whether s is backed by state.
func (s String) Present() bool { return s.s != nil }
