package promtext

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"time"
)

// ErrInvalidTiming is returned by NewTiming when the resolution or the bucket
// count is not positive.
var ErrInvalidTiming = errors.New("promtext: timing resolution and bucket count must be positive")

type seriesKind uint8

const (
	seriesCounter seriesKind = iota + 1
	seriesGauge
	seriesTiming
	seriesCumulativeTiming
)

// promType is the exposition type a series declares.
func (k seriesKind) promType() string {
	switch k {
	case seriesCounter, seriesCumulativeTiming:
		return typeCounter
	case seriesGauge:
		return typeGauge
	case seriesTiming:
		return typeHistogram
	default:
		return typeUntyped
	}
}

// series is the state behind every Registry handle. The registry only holds
// a weak pointer to it; handles hold the strong one.
type series struct {
	kind seriesKind

	bits atomic.Uint64 // float64 value of counters and gauges
	fn   func() float64

	resolution time.Duration
	buckets    []atomic.Uint64
	inf        atomic.Uint64
	sumNanos   atomic.Int64
}

func (s *series) load() float64 {
	if s.fn != nil {
		return s.fn()
	}
	return math.Float64frombits(s.bits.Load())
}

func (s *series) add(delta float64) {
	for {
		old := s.bits.Load()
		if s.bits.CompareAndSwap(old, math.Float64bits(math.Float64frombits(old)+delta)) {
			return
		}
	}
}

// observeTiming puts d into bucket i when i*resolution < d <= (i+1)*resolution.
// Durations up to zero land in the first bucket.
func (s *series) observeTiming(d time.Duration) {
	idx := 0
	if d > 0 {
		idx = int((d - 1) / s.resolution)
	}
	if idx < len(s.buckets) {
		s.buckets[idx].Add(1)
	} else {
		s.inf.Add(1)
	}
	s.sumNanos.Add(int64(d))
}

// Counter is a Registry counter. It stays exported while a copy of it is
// reachable. The zero value is a no-op.
type Counter struct {
	s *series
	// members of a Fanout counter
	fan []Counter
}

// Inc adds 1.
func (c Counter) Inc() { c.Add(1) }

// Add ignores negative deltas.
func (c Counter) Add(delta float64) {
	if !(delta >= 0) {
		return
	}
	if c.s != nil {
		c.s.add(delta)
	}
	for _, m := range c.fan {
		m.Add(delta)
	}
}

// Value returns the current total. A fan-out counter reports its first member.
func (c Counter) Value() float64 {
	switch {
	case c.s != nil:
		return c.s.load()
	case len(c.fan) > 0:
		return c.fan[0].Value()
	}
	return 0
}

// Gauge is a Registry gauge. The zero value is a no-op.
type Gauge struct {
	s   *series
	fan []Gauge
}

// Set replaces the value.
func (g Gauge) Set(v float64) {
	if g.s != nil {
		g.s.bits.Store(math.Float64bits(v))
	}
	for _, m := range g.fan {
		m.Set(v)
	}
}

// Add adds delta, which may be negative.
func (g Gauge) Add(delta float64) {
	if g.s != nil {
		g.s.add(delta)
	}
	for _, m := range g.fan {
		m.Add(delta)
	}
}

// Sub subtracts delta.
func (g Gauge) Sub(delta float64) { g.Add(-delta) }

// Inc adds 1.
func (g Gauge) Inc() { g.Add(1) }

// Dec subtracts 1.
func (g Gauge) Dec() { g.Add(-1) }

// Value returns the current value. A fan-out gauge reports its first member.
func (g Gauge) Value() float64 {
	switch {
	case g.s != nil:
		return g.s.load()
	case len(g.fan) > 0:
		return g.fan[0].Value()
	}
	return 0
}

// Timing is a histogram with linearly spaced buckets.
type Timing struct {
	s   *series
	fan []Timing
}

// Observe records one event of duration d.
func (t Timing) Observe(d time.Duration) {
	if t.s != nil {
		t.s.observeTiming(d)
	}
	for _, m := range t.fan {
		m.Observe(d)
	}
}

// CumulativeTiming accumulates total time, exported as a counter of seconds.
type CumulativeTiming struct {
	s   *series
	fan []CumulativeTiming
}

// Observe adds d to the total.
func (t CumulativeTiming) Observe(d time.Duration) {
	if t.s != nil {
		t.s.sumNanos.Add(int64(d))
	}
	for _, m := range t.fan {
		m.Observe(d)
	}
}

// Total returns the accumulated duration.
func (t CumulativeTiming) Total() time.Duration {
	switch {
	case t.s != nil:
		return time.Duration(t.s.sumNanos.Load())
	case len(t.fan) > 0:
		return t.fan[0].Total()
	}
	return 0
}

// Callback keeps a callback metric exported for as long as it is reachable.
type Callback struct {
	s   *series
	fan []Callback
}

// Value invokes the callback.
func (c Callback) Value() float64 {
	switch {
	case c.s != nil:
		return c.s.load()
	case len(c.fan) > 0:
		return c.fan[0].Value()
	}
	return 0
}

// snapshot is a series read during collection.
type snapshot struct {
	kind       seriesKind
	value      float64
	resolution time.Duration
	counts     []uint64
	inf        uint64
	sum        time.Duration
}

func (s *series) snapshot() snapshot {
	snap := snapshot{kind: s.kind}
	switch s.kind {
	case seriesCounter, seriesGauge:
		snap.value = s.load()
	case seriesTiming:
		snap.resolution = s.resolution
		snap.counts = make([]uint64, len(s.buckets))
		for i := range s.buckets {
			snap.counts[i] = s.buckets[i].Load()
		}
		snap.inf = s.inf.Load()
		snap.sum = time.Duration(s.sumNanos.Load())
	case seriesCumulativeTiming:
		snap.sum = time.Duration(s.sumNanos.Load())
	}
	return snap
}

func validateTiming(resolution time.Duration, buckets int) error {
	if resolution <= 0 || buckets <= 0 {
		return fmt.Errorf("%w: resolution %v, %d buckets", ErrInvalidTiming, resolution, buckets)
	}
	return nil
}
