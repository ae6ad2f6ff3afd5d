package instrumentation

import (
	"fmt"
	"io"
	"strings"
)

// PrintCollector writes one human-readable line per metric, such as
//
//	http.requests{code=200} = 17
//
// It is meant for debugging and tests; the format is not stable.
// Write errors are ignored.
type PrintCollector struct {
	IgnoreDescriptions
	w io.Writer
}

// NewPrintCollector returns a collector writing to w.
func NewPrintCollector(w io.Writer) *PrintCollector {
	return &PrintCollector{w: w}
}

var _ Collector = (*PrintCollector)(nil)

func (p *PrintCollector) line(name MetricName, tags Tags, value string) {
	var b strings.Builder
	b.WriteString(name.String())
	if !tags.Empty() {
		b.WriteString(tags.String())
	}
	b.WriteString(" = ")
	b.WriteString(value)
	b.WriteByte('\n')
	_, _ = io.WriteString(p.w, b.String())
}

// VisitCounter prints the counter value.
func (p *PrintCollector) VisitCounter(name MetricName, tags Tags, c Counter) {
	p.line(name, tags, FormatFloat(c.Value()))
}

// VisitGauge prints the gauge value.
func (p *PrintCollector) VisitGauge(name MetricName, tags Tags, g Gauge) {
	p.line(name, tags, FormatFloat(g.Value()))
}

// VisitString prints the text in Go quoted form.
func (p *PrintCollector) VisitString(name MetricName, tags Tags, s String) {
	p.line(name, tags, fmt.Sprintf("%q", s.Value()))
}

// VisitHistogram prints every bucket as bound:count, the +Inf overflow, then
// the total count and sum.
func (p *PrintCollector) VisitHistogram(name MetricName, tags Tags, h Histogram) {
	snap := h.Snapshot()
	var b strings.Builder
	b.WriteByte('[')
	for _, bucket := range snap.Buckets {
		fmt.Fprintf(&b, "%v:%d ", bucket.UpperBound, bucket.Count)
	}
	fmt.Fprintf(&b, "+Inf:%d] count=%d sum=%v", snap.Overflow, snap.Count, snap.Sum)
	p.line(name, tags, b.String())
}
