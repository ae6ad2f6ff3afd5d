package instrumentation

type gaugeState struct {
	v atomicFloat
}

// Gauge holds a value that can go up and down.
// The zero value is an absent handle: every method is a no-op and Value returns 0.
type Gauge struct {
	s *gaugeState
}

// NewGauge returns a gauge that is not registered anywhere.
func NewGauge() Gauge { return Gauge{s: &gaugeState{}} }

// Set replaces the value.
func (g Gauge) Set(v float64) {
	if g.s != nil {
		g.s.v.store(v)
	}
}

// Add adds delta, which may be negative.
func (g Gauge) Add(delta float64) {
	if g.s != nil {
		g.s.v.add(delta)
	}
}

// Sub subtracts delta.
func (g Gauge) Sub(delta float64) { g.Add(-delta) }

// Inc adds 1.
func (g Gauge) Inc() { g.Add(1) }

// Dec subtracts 1.
func (g Gauge) Dec() { g.Add(-1) }

// Value returns the current value.
func (g Gauge) Value() float64 {
	if g.s == nil {
		return 0
	}
	return g.s.v.load()
}

// Present reports whether g is backed by state.
func (g Gauge) Present() bool { return g.s != nil }
