package instrumentation

import (
	"fmt"
	"sync"
)

// recorder is a test collector that records every visit as a line.
type recorder struct {
	mu    sync.Mutex
	lines []string
}

func (r *recorder) add(format string, args ...any) {
	r.mu.Lock()
	r.lines = append(r.lines, fmt.Sprintf(format, args...))
	r.mu.Unlock()
}

func (r *recorder) VisitDescription(name MetricName, text string) {
	r.add("desc %s %q", name, text)
}

func (r *recorder) VisitCounter(name MetricName, tags Tags, c Counter) {
	r.add("counter %s%s %s", name, tags, FormatFloat(c.Value()))
}

func (r *recorder) VisitGauge(name MetricName, tags Tags, g Gauge) {
	r.add("gauge %s%s %s", name, tags, FormatFloat(g.Value()))
}

func (r *recorder) VisitString(name MetricName, tags Tags, s String) {
	r.add("string %s%s %q", name, tags, s.Value())
}

func (r *recorder) VisitHistogram(name MetricName, tags Tags, h Histogram) {
	snap := h.Snapshot()
	r.add("histogram %s%s %v", name, tags, snap.Cumulative())
}
