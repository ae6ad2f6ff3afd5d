package instrumentation

import (
	"fmt"
	"math"
	"math/bits"
	"sort"
	"sync/atomic"
	"time"
)

// DefaultBuckets returns the thresholds used when a histogram is created
// without WithBuckets: 1-9ms, 10-90ms, 100-900ms, 1-9s, 10-100s.
func DefaultBuckets() []time.Duration {
	out := make([]time.Duration, 0, 46)
	for _, unit := range []time.Duration{time.Millisecond, 10 * time.Millisecond, 100 * time.Millisecond, time.Second, 10 * time.Second} {
		for i := time.Duration(1); i <= 9; i++ {
			out = append(out, i*unit)
		}
	}
	return append(out, 100*time.Second)
}

func validateBuckets(thresholds []time.Duration) error {
	for i, t := range thresholds {
		if t <= 0 {
			return fmt.Errorf("%w: %v", ErrNegativeBucket, t)
		}
		if i == 0 {
			continue
		}
		switch prev := thresholds[i-1]; {
		case t == prev:
			return fmt.Errorf("%w: %v", ErrDuplicateBuckets, t)
		case t < prev:
			return fmt.Errorf("%w: %v after %v", ErrUnsortedBuckets, t, prev)
		}
	}
	return nil
}

type histogramState struct {
	// nil for cumulative timings, which only track the total and the count.
	thresholds []time.Duration
	counts     []atomic.Uint64
	overflow   atomic.Uint64
	sumNanos   atomic.Int64
}

func newHistogramState(thresholds []time.Duration) *histogramState {
	return &histogramState{
		thresholds: thresholds,
		counts:     make([]atomic.Uint64, len(thresholds)),
	}
}

func (h *histogramState) observe(d time.Duration, n uint64) {
	i := sort.Search(len(h.thresholds), func(i int) bool { return h.thresholds[i] >= d })
	if i < len(h.counts) {
		h.counts[i].Add(n)
	} else {
		h.overflow.Add(n)
	}
	h.sumNanos.Add(scaleNanos(d, n))
}

// scaleNanos returns d*n in nanoseconds, clamped to the int64 range.
func scaleNanos(d time.Duration, n uint64) int64 {
	mag := uint64(d)
	if d < 0 {
		mag = -mag
	}
	hi, lo := bits.Mul64(mag, n)
	if d < 0 {
		if hi != 0 || lo > 1<<63 {
			return math.MinInt64
		}
		return -int64(lo)
	}
	if hi != 0 || lo > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(lo)
}

// Histogram is a timing distribution over fixed ascending thresholds plus an
// implicit +Inf bucket. A cumulative timing has no thresholds and counts every
// event in the +Inf bucket while accumulating the total duration.
//
// The zero value is an absent handle: Observe is a no-op and Snapshot is empty.
type Histogram struct {
	s *histogramState
}

// NewHistogram returns an unregistered histogram. With no thresholds,
// DefaultBuckets is used. Thresholds must be positive and strictly increasing.
func NewHistogram(thresholds ...time.Duration) (Histogram, error) {
	if len(thresholds) == 0 {
		thresholds = DefaultBuckets()
	} else {
		thresholds = append([]time.Duration(nil), thresholds...)
	}
	if err := validateBuckets(thresholds); err != nil {
		return Histogram{}, err
	}
	return Histogram{s: newHistogramState(thresholds)}, nil
}

// MustNewHistogram is like NewHistogram but panics on invalid thresholds.
func MustNewHistogram(thresholds ...time.Duration) Histogram {
	h, err := NewHistogram(thresholds...)
	if err != nil {
		panic(err)
	}
	return h
}

// NewCumulativeTiming returns an unregistered histogram without buckets.
func NewCumulativeTiming() Histogram {
	return Histogram{s: newHistogramState(nil)}
}

// Observe records one event of duration d.
func (h Histogram) Observe(d time.Duration) { h.ObserveN(d, 1) }

// ObserveN records n events of duration d each. The product d*n added to the
// sum is clamped to the range of time.Duration, and the running sum itself
// wraps once it passes roughly 292 years of accumulated time.
func (h Histogram) ObserveN(d time.Duration, n uint64) {
	if h.s == nil || n == 0 {
		return
	}
	h.s.observe(d, n)
}

// Since records the time elapsed since start.
func (h Histogram) Since(start time.Time) { h.Observe(time.Since(start)) }

// Cumulative reports whether h is a cumulative timing without buckets.
func (h Histogram) Cumulative() bool { return h.s != nil && h.s.thresholds == nil }

// Present reports whether h is backed by state.
func (h Histogram) Present() bool { return h.s != nil }

// Bucket is the number of events that fell into (previous threshold, UpperBound].
type Bucket struct {
	UpperBound time.Duration
	Count      uint64
}

// HistogramSnapshot is a point-in-time read of a histogram. Buckets are read
// one at a time while writers may be active, so it is not a single atomic instant.
type HistogramSnapshot struct {
	Buckets  []Bucket
	Overflow uint64
	// Count is the sum of all bucket counts and Overflow.
	Count uint64
	Sum   time.Duration
}

// Cumulative returns the running totals per threshold, as exposition formats
// expect them. The last element is the +Inf total.
func (s HistogramSnapshot) Cumulative() []uint64 {
	out := make([]uint64, 0, len(s.Buckets)+1)
	var total uint64
	for _, b := range s.Buckets {
		total += b.Count
		out = append(out, total)
	}
	return append(out, total+s.Overflow)
}

// Snapshot reads the current state.
func (h Histogram) Snapshot() HistogramSnapshot {
	if h.s == nil {
		return HistogramSnapshot{}
	}
	snap := HistogramSnapshot{Buckets: make([]Bucket, len(h.s.thresholds))}
	for i, t := range h.s.thresholds {
		c := h.s.counts[i].Load()
		snap.Buckets[i] = Bucket{UpperBound: t, Count: c}
		snap.Count += c
	}
	snap.Overflow = h.s.overflow.Load()
	snap.Count += snap.Overflow
	snap.Sum = time.Duration(h.s.sumNanos.Load())
	return snap
}
