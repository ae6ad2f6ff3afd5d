package promtext

import (
	"io"
	"strings"

	"github.com/ygrebnov/instrumentation"
)

const (
	typeCounter   = "counter"
	typeGauge     = "gauge"
	typeHistogram = "histogram"
	typeUntyped   = "untyped"

	// strvalLabel carries the text of a string metric.
	strvalLabel = "strval"
	// histogramSuffix is appended to histogram names, whose bounds are in seconds.
	histogramSuffix = "_seconds"
)

// Encoder is an instrumentation.Collector writing the Prometheus text format.
// One # HELP and # TYPE pair is written per group, right before its first
// sample. The first write error is kept and later writes are skipped.
//
// An Encoder is meant for a single collection pass and is not safe for
// concurrent use.
type Encoder struct {
	w   io.Writer
	err error

	// description announced by the last VisitDescription
	pendingName instrumentation.MetricName
	pendingHelp string

	headerName instrumentation.MetricName
	headerDone bool
}

var _ instrumentation.Collector = (*Encoder)(nil)

// NewEncoder returns an encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Err returns the first write error, if any.
func (e *Encoder) Err() error { return e.err }

// Encode collects src into w.
func Encode(w io.Writer, src instrumentation.Collectable) error {
	enc := NewEncoder(w)
	src.Collect(enc)
	return enc.Err()
}

// EncodeToString collects src into a string.
func EncodeToString(src instrumentation.Collectable) string {
	var b strings.Builder
	// strings.Builder never fails
	_ = Encode(&b, src)
	return b.String()
}

func (e *Encoder) write(s string) {
	if e.err != nil {
		return
	}
	_, e.err = io.WriteString(e.w, s)
}

// VisitDescription remembers the HELP text for the header of name.
func (e *Encoder) VisitDescription(name instrumentation.MetricName, description string) {
	e.pendingName = name
	e.pendingHelp = description
	e.headerDone = false
}

// header appends the HELP and TYPE lines unless they were already written
// for name.
func (e *Encoder) header(b *strings.Builder, name instrumentation.MetricName, promName, typ string) {
	if e.headerDone && e.headerName.Equal(name) {
		return
	}
	e.headerName = name
	e.headerDone = true
	var help string
	if e.pendingName.Equal(name) {
		help = e.pendingHelp
	}
	appendHeader(b, promName, help, typ)
}

// VisitCounter writes a counter sample.
func (e *Encoder) VisitCounter(name instrumentation.MetricName, tags instrumentation.Tags, c instrumentation.Counter) {
	e.scalar(name, tags, typeCounter, c.Value())
}

// VisitGauge writes a gauge sample.
func (e *Encoder) VisitGauge(name instrumentation.MetricName, tags instrumentation.Tags, g instrumentation.Gauge) {
	e.scalar(name, tags, typeGauge, g.Value())
}

func (e *Encoder) scalar(name instrumentation.MetricName, tags instrumentation.Tags, typ string, v float64) {
	var b strings.Builder
	promName := MetricName(name)
	e.header(&b, name, promName, typ)
	appendSample(&b, promName, newLabelSet(tags), instrumentation.FormatFloat(v))
	e.write(b.String())
}

// VisitString writes an untyped sample of 1 carrying the text in a strval
// label. A series that already has a strval tag is skipped, and a group whose
// series are all skipped gets no header.
func (e *Encoder) VisitString(name instrumentation.MetricName, tags instrumentation.Tags, s instrumentation.String) {
	labels := newLabelSet(tags)
	if labels.has(strvalLabel) {
		return
	}
	var b strings.Builder
	promName := MetricName(name)
	e.header(&b, name, promName, typeUntyped)
	appendSample(&b, promName, labels.with(strvalLabel, QuoteLabelValue(s.Value())), "1")
	e.write(b.String())
}

// VisitHistogram writes the buckets of h with bounds in seconds, under the
// name suffixed with _seconds.
func (e *Encoder) VisitHistogram(name instrumentation.MetricName, tags instrumentation.Tags, h instrumentation.Histogram) {
	var b strings.Builder
	promName := MetricName(name) + histogramSuffix
	e.header(&b, name, promName, typeHistogram)

	snap := h.Snapshot()
	bounds := make([]float64, len(snap.Buckets))
	counts := make([]uint64, len(snap.Buckets))
	for i, bucket := range snap.Buckets {
		bounds[i] = bucket.UpperBound.Seconds()
		counts[i] = bucket.Count
	}
	appendHistogram(&b, promName, newLabelSet(tags), bounds, counts, snap.Overflow, snap.Sum.Seconds())
	e.write(b.String())
}
