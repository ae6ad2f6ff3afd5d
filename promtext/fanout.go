package promtext

import (
	"time"

	"github.com/ygrebnov/instrumentation"
)

// Backend creates weakly tracked series. *Registry and *Fanout implement it.
type Backend interface {
	AddHelp(name instrumentation.MetricName, help string)
	NewCounter(name instrumentation.MetricName, tags instrumentation.Tags) Counter
	NewGauge(name instrumentation.MetricName, tags instrumentation.Tags) Gauge
	NewTiming(name instrumentation.MetricName, tags instrumentation.Tags, resolution time.Duration, buckets int) (Timing, error)
	NewCumulativeTiming(name instrumentation.MetricName, tags instrumentation.Tags) CumulativeTiming
	NewCounterFunc(name instrumentation.MetricName, tags instrumentation.Tags, fn func() float64) Callback
	NewGaugeFunc(name instrumentation.MetricName, tags instrumentation.Tags, fn func() float64) Callback
}

var (
	_ Backend = (*Registry)(nil)
	_ Backend = (*Fanout)(nil)
)

// Fanout registers every series in each of its backends and returns one
// handle that updates all of them. The handle holds the only strong
// references, so dropping it removes the series from every backend.
//
// Reads on a fan-out handle report the first backend. A Fanout without
// backends, including a nil one, returns no-op handles.
type Fanout struct {
	backends []Backend
}

// NewFanout returns a fan-out over backends. Nil backends are skipped.
func NewFanout(backends ...Backend) *Fanout {
	f := &Fanout{backends: make([]Backend, 0, len(backends))}
	for _, b := range backends {
		if b != nil {
			f.backends = append(f.backends, b)
		}
	}
	return f
}

func (f *Fanout) members() []Backend {
	if f == nil {
		return nil
	}
	return f.backends
}

// AddHelp sets the HELP text of name in every backend.
func (f *Fanout) AddHelp(name instrumentation.MetricName, help string) {
	for _, b := range f.members() {
		b.AddHelp(name, help)
	}
}

// NewCounter registers a counter in every backend.
func (f *Fanout) NewCounter(name instrumentation.MetricName, tags instrumentation.Tags) Counter {
	var c Counter
	for _, b := range f.members() {
		c.fan = append(c.fan, b.NewCounter(name, tags))
	}
	return c
}

// NewGauge registers a gauge in every backend.
func (f *Fanout) NewGauge(name instrumentation.MetricName, tags instrumentation.Tags) Gauge {
	var g Gauge
	for _, b := range f.members() {
		g.fan = append(g.fan, b.NewGauge(name, tags))
	}
	return g
}

// NewTiming registers a timing in every backend. Arguments are checked
// before any backend sees them; a backend error aborts the call and the
// series already created are released with the discarded handle.
func (f *Fanout) NewTiming(name instrumentation.MetricName, tags instrumentation.Tags, resolution time.Duration, buckets int) (Timing, error) {
	if err := validateTiming(resolution, buckets); err != nil {
		return Timing{}, err
	}
	var t Timing
	for _, b := range f.members() {
		m, err := b.NewTiming(name, tags, resolution, buckets)
		if err != nil {
			return Timing{}, err
		}
		t.fan = append(t.fan, m)
	}
	return t, nil
}

// NewCumulativeTiming registers a cumulative timing in every backend.
func (f *Fanout) NewCumulativeTiming(name instrumentation.MetricName, tags instrumentation.Tags) CumulativeTiming {
	var t CumulativeTiming
	for _, b := range f.members() {
		t.fan = append(t.fan, b.NewCumulativeTiming(name, tags))
	}
	return t
}

// NewCounterFunc exports fn as a counter in every backend. Each backend
// calls fn during its own Collect.
func (f *Fanout) NewCounterFunc(name instrumentation.MetricName, tags instrumentation.Tags, fn func() float64) Callback {
	var c Callback
	for _, b := range f.members() {
		c.fan = append(c.fan, b.NewCounterFunc(name, tags, fn))
	}
	return c
}

// NewGaugeFunc exports fn as a gauge in every backend.
func (f *Fanout) NewGaugeFunc(name instrumentation.MetricName, tags instrumentation.Tags, fn func() float64) Callback {
	var c Callback
	for _, b := range f.members() {
		c.fan = append(c.fan, b.NewGaugeFunc(name, tags, fn))
	}
	return c
}
