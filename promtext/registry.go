package promtext

import (
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"weak"

	"github.com/ygrebnov/instrumentation"
)

// Registry exports series it does not own. Each New* call stores a weak
// reference and returns the only strong one to the caller; once the caller
// drops every copy of the handle, the series disappears from the output and
// its entry is reclaimed by the next Maintenance.
//
// Several series may share a name as long as their tags differ. Registering
// the same name and tags twice keeps both entries.
//
// The zero value is an empty registry ready to use. A nil *Registry records
// nothing: its New* methods return working handles that are never exported.
type Registry struct {
	logger *slog.Logger

	mu   sync.RWMutex
	help map[string]string
	// families groups entries by exposition name, so one HELP and TYPE
	// pair covers every series of a name.
	families map[string]*family
	order    []*family
}

type family struct {
	name    string
	entries []*entry
}

type entry struct {
	labels labelSet
	ref    weak.Pointer[series]
}

var discardLogger = slog.New(slog.DiscardHandler)

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithRegistryLogger routes maintenance diagnostics to l.
func WithRegistryLogger(l *slog.Logger) RegistryOption {
	return func(r *Registry) { r.logger = l }
}

// NewRegistry returns an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		help:     make(map[string]string),
		families: make(map[string]*family),
	}
	for _, o := range opts {
		if o != nil {
			o(r)
		}
	}
	return r
}

func (r *Registry) log() *slog.Logger {
	if r.logger == nil {
		return discardLogger
	}
	return r.logger
}

// AddHelp sets the HELP text of a name. Only the first line of help is kept.
func (r *Registry) AddHelp(name instrumentation.MetricName, help string) {
	if r == nil {
		return
	}
	if i := strings.IndexByte(help, '\n'); i >= 0 {
		help = help[:i]
	}
	r.mu.Lock()
	if r.help == nil {
		r.help = make(map[string]string)
	}
	r.help[MetricName(name)] = help
	r.mu.Unlock()
}

func (r *Registry) add(name instrumentation.MetricName, tags instrumentation.Tags, s *series) {
	if r == nil {
		return
	}
	promName := MetricName(name)
	e := &entry{labels: newLabelSet(tags), ref: weak.Make(s)}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.families == nil {
		r.families = make(map[string]*family)
	}
	f, ok := r.families[promName]
	if !ok {
		f = &family{name: promName}
		r.families[promName] = f
		r.order = append(r.order, f)
	}
	f.entries = append(f.entries, e)
}

// NewCounter registers a counter under name and tags.
func (r *Registry) NewCounter(name instrumentation.MetricName, tags instrumentation.Tags) Counter {
	s := &series{kind: seriesCounter}
	r.add(name, tags, s)
	return Counter{s: s}
}

// NewGauge registers a gauge under name and tags.
func (r *Registry) NewGauge(name instrumentation.MetricName, tags instrumentation.Tags) Gauge {
	s := &series{kind: seriesGauge}
	r.add(name, tags, s)
	return Gauge{s: s}
}

// NewTiming registers a histogram with buckets of equal width resolution.
func (r *Registry) NewTiming(name instrumentation.MetricName, tags instrumentation.Tags, resolution time.Duration, buckets int) (Timing, error) {
	if err := validateTiming(resolution, buckets); err != nil {
		return Timing{}, err
	}
	s := &series{kind: seriesTiming, resolution: resolution, buckets: make([]atomic.Uint64, buckets)}
	r.add(name, tags, s)
	return Timing{s: s}, nil
}

// NewCumulativeTiming registers a timing that only exports its total, in
// seconds, as a counter.
func (r *Registry) NewCumulativeTiming(name instrumentation.MetricName, tags instrumentation.Tags) CumulativeTiming {
	s := &series{kind: seriesCumulativeTiming}
	r.add(name, tags, s)
	return CumulativeTiming{s: s}
}

// NewCounterFunc exports fn as a counter. fn runs during Collect without any
// registry lock held.
func (r *Registry) NewCounterFunc(name instrumentation.MetricName, tags instrumentation.Tags, fn func() float64) Callback {
	s := &series{kind: seriesCounter, fn: fn}
	r.add(name, tags, s)
	return Callback{s: s}
}

// NewGaugeFunc exports fn as a gauge; see NewCounterFunc.
func (r *Registry) NewGaugeFunc(name instrumentation.MetricName, tags instrumentation.Tags, fn func() float64) Callback {
	s := &series{kind: seriesGauge, fn: fn}
	r.add(name, tags, s)
	return Callback{s: s}
}

// Len returns the number of entries, including dead ones not yet reclaimed.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, f := range r.families {
		n += len(f.entries)
	}
	return n
}

type liveFamily struct {
	name   string
	help   string
	labels []labelSet
	series []*series
}

// pin upgrades every weak reference under the read lock. It reports whether
// any reference was dead.
func (r *Registry) pin() ([]liveFamily, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var dead bool
	out := make([]liveFamily, 0, len(r.order))
	for _, f := range r.order {
		lf := liveFamily{name: f.name, help: r.help[f.name]}
		for _, e := range f.entries {
			s := e.ref.Value()
			if s == nil {
				dead = true
				continue
			}
			lf.labels = append(lf.labels, e.labels)
			lf.series = append(lf.series, s)
		}
		if len(lf.series) > 0 {
			out = append(out, lf)
		}
	}
	return out, dead
}

// Collect writes every live series to w, grouped by name in registration
// order. A name whose series declare different types is written as untyped.
// If dead entries were seen, Maintenance runs before Collect returns.
func (r *Registry) Collect(w io.Writer) error {
	families, dead := r.pin()

	var b strings.Builder
	for _, f := range families {
		snaps := make([]snapshot, len(f.series))
		for i, s := range f.series {
			snaps[i] = s.snapshot()
		}
		typ := snaps[0].kind.promType()
		for _, s := range snaps[1:] {
			if s.kind.promType() != typ {
				typ = typeUntyped
				break
			}
		}
		appendHeader(&b, f.name, f.help, typ)
		for i, s := range snaps {
			appendSnapshot(&b, f.name, f.labels[i], s)
		}
	}
	_, err := io.WriteString(w, b.String())

	if dead {
		r.Maintenance()
	}
	return err
}

// CollectString is Collect into a string.
func (r *Registry) CollectString() string {
	var b strings.Builder
	_ = r.Collect(&b)
	return b.String()
}

func appendSnapshot(b *strings.Builder, name string, labels labelSet, s snapshot) {
	switch s.kind {
	case seriesTiming:
		bounds := make([]float64, len(s.counts))
		for i := range bounds {
			bounds[i] = (time.Duration(i+1) * s.resolution).Seconds()
		}
		appendHistogram(b, name, labels, bounds, s.counts, s.inf, s.sum.Seconds())
	case seriesCumulativeTiming:
		appendSample(b, name, labels, instrumentation.FormatFloat(s.sum.Seconds()))
	default:
		appendSample(b, name, labels, instrumentation.FormatFloat(s.value))
	}
}

// Maintenance removes entries whose series were reclaimed and returns how
// many were removed. HELP texts are kept.
func (r *Registry) Maintenance() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	removed := 0
	order := r.order[:0]
	for _, f := range r.order {
		live := f.entries[:0]
		for _, e := range f.entries {
			if e.ref.Value() != nil {
				live = append(live, e)
			}
		}
		removed += len(f.entries) - len(live)
		clear(f.entries[len(live):])
		f.entries = live
		if len(live) == 0 {
			delete(r.families, f.name)
			continue
		}
		order = append(order, f)
	}
	clear(r.order[len(order):])
	r.order = order
	r.mu.Unlock()

	if removed > 0 {
		r.log().Debug("reclaimed dead series", slog.Int("removed", removed))
	}
	return removed
}
