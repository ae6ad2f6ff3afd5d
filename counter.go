package instrumentation

import (
	"math"
	"sync/atomic"
)

// atomicFloat is a float64 updated with a compare-and-swap loop.
type atomicFloat struct {
	bits atomic.Uint64
}

func (f *atomicFloat) load() float64 { return math.Float64frombits(f.bits.Load()) }

func (f *atomicFloat) store(v float64) { f.bits.Store(math.Float64bits(v)) }

func (f *atomicFloat) add(delta float64) {
	for {
		old := f.bits.Load()
		next := math.Float64bits(math.Float64frombits(old) + delta)
		if f.bits.CompareAndSwap(old, next) {
			return
		}
	}
}

type counterState struct {
	v atomicFloat
}

// Counter is a monotonically non-decreasing accumulator.
// The zero value is an absent handle: every method is a no-op and Value returns 0.
type Counter struct {
	s *counterState
}

// NewCounter returns a counter that is not registered anywhere.
func NewCounter() Counter { return Counter{s: &counterState{}} }

// Inc adds 1.
func (c Counter) Inc() { c.Add(1) }

// Add adds delta. Negative deltas are ignored, the counter never decreases.
func (c Counter) Add(delta float64) {
	if c.s == nil || !(delta >= 0) {
		return
	}
	c.s.v.add(delta)
}

// Value returns the current total.
func (c Counter) Value() float64 {
	if c.s == nil {
		return 0
	}
	return c.s.v.load()
}

// Present reports whether c is backed by state.
func (c Counter) Present() bool { return c.s != nil }
