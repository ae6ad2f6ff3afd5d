package instrumentation

// Kind is the primitive type held by a metric group.
type Kind uint8

// Primitive kinds, in the order they were introduced.
const (
	KindCounter Kind = iota + 1
	KindGauge
	KindString
	KindHistogram
)

// String returns the lower-case kind name.
func (k Kind) String() string {
	switch k {
	case KindCounter:
		return "counter"
	case KindGauge:
		return "gauge"
	case KindString:
		return "string"
	case KindHistogram:
		return "histogram"
	default:
		return "unknown"
	}
}

// Collector is driven by a collection pass: VisitDescription is called at
// most once per group, right before the first value of that group, then
// one Visit* call is made per concrete metric.
//
// Implementations are called without any registry lock held and may take
// as long as they need; they must not retain the handles beyond the call
// if they want the registry to stay the only owner.
type Collector interface {
	VisitDescription(name MetricName, description string)
	VisitCounter(name MetricName, tags Tags, c Counter)
	VisitGauge(name MetricName, tags Tags, g Gauge)
	VisitString(name MetricName, tags Tags, s String)
	VisitHistogram(name MetricName, tags Tags, h Histogram)
}

// IgnoreDescriptions can be embedded by collectors that have no use for
// group descriptions.
type IgnoreDescriptions struct{}

// VisitDescription does nothing.
func (IgnoreDescriptions) VisitDescription(MetricName, string) {}

// Collectable is anything that can drive a Collector, such as an *Engine.
type Collectable interface {
	Collect(c Collector)
}
