// Package promclient exports an instrumentation engine through
// github.com/prometheus/client_golang, so it can be registered next to
// metrics created with that library and served by promhttp.
package promclient

import (
	"log/slog"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ygrebnov/instrumentation"
	"github.com/ygrebnov/instrumentation/promtext"
)

// Collector is a prometheus.Collector that converts every metric of its
// source into a constant metric on each scrape. It describes nothing, which
// makes it an unchecked collector: the set of series is only known at
// collection time.
type Collector struct {
	src    instrumentation.Collectable
	logger *slog.Logger
}

// Option configures a Collector.
type Option func(*Collector)

// WithLogger sets the logger used to report metrics that could not be
// converted, such as ones whose label names clash after sanitizing.
func WithLogger(l *slog.Logger) Option {
	return func(c *Collector) { c.logger = l }
}

// NewCollector wraps src, typically an *instrumentation.Engine.
func NewCollector(src instrumentation.Collectable, opts ...Option) *Collector {
	c := &Collector{src: src, logger: slog.New(slog.DiscardHandler)}
	for _, o := range opts {
		if o != nil {
			o(c)
		}
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	return c
}

var _ prometheus.Collector = (*Collector)(nil)

// Describe implements prometheus.Collector.
func (c *Collector) Describe(chan<- *prometheus.Desc) {}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.src.Collect(&visitor{ch: ch, logger: c.logger})
}

// visitor turns visited metrics into const metrics.
type visitor struct {
	ch     chan<- prometheus.Metric
	logger *slog.Logger

	helpName instrumentation.MetricName
	help     string
}

var _ instrumentation.Collector = (*visitor)(nil)

func (v *visitor) VisitDescription(name instrumentation.MetricName, description string) {
	v.helpName = name
	v.help = description
}

func (v *visitor) helpFor(name instrumentation.MetricName) string {
	if v.helpName.Equal(name) {
		return v.help
	}
	return ""
}

func labelValue(tv instrumentation.TagValue) string {
	switch tv.Kind() {
	case instrumentation.TagBool:
		return strconv.FormatBool(tv.AsBool())
	case instrumentation.TagInt:
		return strconv.FormatInt(tv.AsInt(), 10)
	case instrumentation.TagFloat:
		return instrumentation.FormatFloat(tv.AsFloat())
	default:
		return tv.AsString()
	}
}

// desc builds the descriptor and label values for one series. extra names a
// label appended after the tags.
func (v *visitor) desc(name instrumentation.MetricName, fqName string, tags instrumentation.Tags, extra ...string) (*prometheus.Desc, []string) {
	keys := make([]string, 0, tags.Len()+len(extra))
	values := make([]string, 0, tags.Len()+len(extra))
	tags.Range(func(k string, tv instrumentation.TagValue) bool {
		keys = append(keys, promtext.SanitizeName(k))
		values = append(values, labelValue(tv))
		return true
	})
	for i := 0; i+1 < len(extra); i += 2 {
		keys = append(keys, extra[i])
		values = append(values, extra[i+1])
	}
	return prometheus.NewDesc(fqName, v.helpFor(name), keys, nil), values
}

func (v *visitor) send(name string, m prometheus.Metric, err error) {
	if err != nil {
		v.logger.Warn("skipping metric", slog.String("name", name), slog.Any("error", err))
		return
	}
	v.ch <- m
}

func (v *visitor) VisitCounter(name instrumentation.MetricName, tags instrumentation.Tags, c instrumentation.Counter) {
	fq := promtext.MetricName(name)
	d, values := v.desc(name, fq, tags)
	m, err := prometheus.NewConstMetric(d, prometheus.CounterValue, c.Value(), values...)
	v.send(fq, m, err)
}

func (v *visitor) VisitGauge(name instrumentation.MetricName, tags instrumentation.Tags, g instrumentation.Gauge) {
	fq := promtext.MetricName(name)
	d, values := v.desc(name, fq, tags)
	m, err := prometheus.NewConstMetric(d, prometheus.GaugeValue, g.Value(), values...)
	v.send(fq, m, err)
}

func (v *visitor) VisitString(name instrumentation.MetricName, tags instrumentation.Tags, s instrumentation.String) {
	if tags.Has("strval") {
		return
	}
	fq := promtext.MetricName(name)
	d, values := v.desc(name, fq, tags, "strval", s.Value())
	m, err := prometheus.NewConstMetric(d, prometheus.UntypedValue, 1, values...)
	v.send(fq, m, err)
}

func (v *visitor) VisitHistogram(name instrumentation.MetricName, tags instrumentation.Tags, h instrumentation.Histogram) {
	fq := promtext.MetricName(name) + "_seconds"
	d, values := v.desc(name, fq, tags)
	snap := h.Snapshot()
	buckets := make(map[float64]uint64, len(snap.Buckets))
	cumulative := snap.Cumulative()
	for i, b := range snap.Buckets {
		buckets[b.UpperBound.Seconds()] = cumulative[i]
	}
	m, err := prometheus.NewConstHistogram(d, snap.Count, snap.Sum.Seconds(), buckets, values...)
	v.send(fq, m, err)
}
