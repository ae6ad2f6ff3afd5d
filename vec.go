package instrumentation

func visitCounter(c Collector, name MetricName, tags Tags, s *counterState) {
	c.VisitCounter(name, tags, Counter{s: s})
}

func visitGauge(c Collector, name MetricName, tags Tags, s *gaugeState) {
	c.VisitGauge(name, tags, Gauge{s: s})
}

func visitString(c Collector, name MetricName, tags Tags, s *stringState) {
	c.VisitString(name, tags, String{s: s})
}

func visitHistogram(c Collector, name MetricName, tags Tags, s *histogramState) {
	c.VisitHistogram(name, tags, Histogram{s: s})
}

// CounterVec is a group of counters partitioned by label values.
// The zero value is absent and only hands out absent counters.
type CounterVec struct {
	g *group[*counterState]
}

// Labels returns the counter for the given label values, in the order the
// label names were declared. Values may be bool, any integer type, float32,
// float64, string or TagValue. A wrong count or an unsupported type yields
// an absent counter.
func (v CounterVec) Labels(values ...any) Counter {
	if v.g == nil {
		return Counter{}
	}
	s, _ := v.g.get(values)
	return Counter{s: s}
}

// Present reports whether v is backed by a registered group.
func (v CounterVec) Present() bool { return v.g != nil }

// GaugeVec is a group of gauges partitioned by label values.
type GaugeVec struct {
	g *group[*gaugeState]
}

// Labels works like CounterVec.Labels.
func (v GaugeVec) Labels(values ...any) Gauge {
	if v.g == nil {
		return Gauge{}
	}
	s, _ := v.g.get(values)
	return Gauge{s: s}
}

// Present reports whether v is backed by a registered group.
func (v GaugeVec) Present() bool { return v.g != nil }

// StringVec is a group of string metrics partitioned by label values.
type StringVec struct {
	g *group[*stringState]
}

// Labels works like CounterVec.Labels.
func (v StringVec) Labels(values ...any) String {
	if v.g == nil {
		return String{}
	}
	s, _ := v.g.get(values)
	return String{s: s}
}

// Present reports whether v is backed by a registered group.
func (v StringVec) Present() bool { return v.g != nil }

// HistogramVec is a group of histograms sharing one threshold set,
// partitioned by label values.
type HistogramVec struct {
	g *group[*histogramState]
}

// Labels works like CounterVec.Labels.
func (v HistogramVec) Labels(values ...any) Histogram {
	if v.g == nil {
		return Histogram{}
	}
	s, _ := v.g.get(values)
	return Histogram{s: s}
}

// Present reports whether v is backed by a registered group.
func (v HistogramVec) Present() bool { return v.g != nil }

// CounterVec returns the counter group registered under name, creating it on
// first use. Options only take effect on creation. If name is already bound
// to a different kind or label count, the result is absent.
func (e *Engine) CounterVec(name MetricName, labelNames []string, opts ...InstrumentOption) CounterVec {
	if e == nil {
		return CounterVec{}
	}
	gh := e.getOrCreate(name, groupShape{kind: KindCounter, arity: len(labelNames)}, func() groupHandle {
		return newGroup(name, KindCounter, applyOptions(opts), labelNames,
			func() *counterState { return &counterState{} }, visitCounter)
	})
	g, _ := gh.(*group[*counterState])
	return CounterVec{g: g}
}

// Counter is CounterVec without labels.
func (e *Engine) Counter(name MetricName, opts ...InstrumentOption) Counter {
	return e.CounterVec(name, nil, opts...).Labels()
}

// GaugeVec returns the gauge group registered under name; see CounterVec.
func (e *Engine) GaugeVec(name MetricName, labelNames []string, opts ...InstrumentOption) GaugeVec {
	if e == nil {
		return GaugeVec{}
	}
	gh := e.getOrCreate(name, groupShape{kind: KindGauge, arity: len(labelNames)}, func() groupHandle {
		return newGroup(name, KindGauge, applyOptions(opts), labelNames,
			func() *gaugeState { return &gaugeState{} }, visitGauge)
	})
	g, _ := gh.(*group[*gaugeState])
	return GaugeVec{g: g}
}

// Gauge is GaugeVec without labels.
func (e *Engine) Gauge(name MetricName, opts ...InstrumentOption) Gauge {
	return e.GaugeVec(name, nil, opts...).Labels()
}

// StringVec returns the string group registered under name; see CounterVec.
func (e *Engine) StringVec(name MetricName, labelNames []string, opts ...InstrumentOption) StringVec {
	if e == nil {
		return StringVec{}
	}
	gh := e.getOrCreate(name, groupShape{kind: KindString, arity: len(labelNames)}, func() groupHandle {
		return newGroup(name, KindString, applyOptions(opts), labelNames,
			func() *stringState { return &stringState{} }, visitString)
	})
	g, _ := gh.(*group[*stringState])
	return StringVec{g: g}
}

// String is StringVec without labels.
func (e *Engine) String(name MetricName, opts ...InstrumentOption) String {
	return e.StringVec(name, nil, opts...).Labels()
}

// HistogramVec returns the histogram group registered under name; see
// CounterVec. Thresholds come from WithBuckets, or DefaultBuckets when none
// are given, and are validated before any lookup: invalid thresholds return
// an error even when the name already exists.
func (e *Engine) HistogramVec(name MetricName, labelNames []string, opts ...InstrumentOption) (HistogramVec, error) {
	cfg := applyOptions(opts)
	buckets := cfg.Buckets
	if len(buckets) == 0 {
		buckets = DefaultBuckets()
	}
	if err := validateBuckets(buckets); err != nil {
		return HistogramVec{}, err
	}
	if e == nil {
		return HistogramVec{}, nil
	}
	gh := e.getOrCreate(name, groupShape{kind: KindHistogram, arity: len(labelNames)}, func() groupHandle {
		return newGroup(name, KindHistogram, cfg, labelNames,
			func() *histogramState { return newHistogramState(buckets) }, visitHistogram)
	})
	g, _ := gh.(*group[*histogramState])
	return HistogramVec{g: g}, nil
}

// Histogram is HistogramVec without labels.
func (e *Engine) Histogram(name MetricName, opts ...InstrumentOption) (Histogram, error) {
	v, err := e.HistogramVec(name, nil, opts...)
	if err != nil {
		return Histogram{}, err
	}
	return v.Labels(), nil
}

// CumulativeTimingVec returns a group of cumulative timings, which keep only
// the event count and the total duration. WithBuckets is ignored.
func (e *Engine) CumulativeTimingVec(name MetricName, labelNames []string, opts ...InstrumentOption) HistogramVec {
	if e == nil {
		return HistogramVec{}
	}
	want := groupShape{kind: KindHistogram, arity: len(labelNames), cumulative: true}
	gh := e.getOrCreate(name, want, func() groupHandle {
		g := newGroup(name, KindHistogram, applyOptions(opts), labelNames,
			func() *histogramState { return newHistogramState(nil) }, visitHistogram)
		g.cumulative = true
		return g
	})
	g, _ := gh.(*group[*histogramState])
	return HistogramVec{g: g}
}

// CumulativeTiming is CumulativeTimingVec without labels.
func (e *Engine) CumulativeTiming(name MetricName, opts ...InstrumentOption) Histogram {
	return e.CumulativeTimingVec(name, nil, opts...).Labels()
}
