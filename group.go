package instrumentation

import (
	"strings"
	"sync"
)

// labeled is one primitive together with the tags materialized from its
// label tuple at insertion time.
type labeled[P any] struct {
	tags Tags
	p    P
}

// group holds one primitive per distinct label-value tuple for a single
// metric name. Entries are never removed.
type group[P any] struct {
	name        MetricName
	kind        Kind
	description string
	labelNames  []string
	// cumulative is only meaningful for histograms.
	cumulative bool

	newPrimitive func() P
	visit        func(c Collector, name MetricName, tags Tags, p P)

	mu    sync.RWMutex
	items map[string]*labeled[P]
	// order keeps insertion order so collection output is stable.
	order []*labeled[P]
}

func newGroup[P any](
	name MetricName,
	kind Kind,
	cfg InstrumentConfig,
	labelNames []string,
	newPrimitive func() P,
	visit func(Collector, MetricName, Tags, P),
) *group[P] {
	return &group[P]{
		name:         name,
		kind:         kind,
		description:  cfg.Description,
		labelNames:   append([]string(nil), labelNames...),
		newPrimitive: newPrimitive,
		visit:        visit,
		items:        make(map[string]*labeled[P]),
	}
}

// labelKey converts values into their canonical map key. It fails on a wrong
// arity or an unsupported value type.
func (g *group[P]) labelKey(values []any) (string, []TagValue, bool) {
	if len(values) != len(g.labelNames) {
		return "", nil, false
	}
	tvs := make([]TagValue, len(values))
	var b strings.Builder
	for i, v := range values {
		tv, ok := tagValueOf(v)
		if !ok {
			return "", nil, false
		}
		tvs[i] = tv
		tv.appendKey(&b)
	}
	return b.String(), tvs, true
}

// get returns the primitive for the label tuple, creating it on first use.
// Concurrent first uses may each build a candidate; only the first one
// inserted is kept and returned to everybody.
func (g *group[P]) get(values []any) (P, bool) {
	var zero P
	key, tvs, ok := g.labelKey(values)
	if !ok {
		return zero, false
	}

	g.mu.RLock()
	item, found := g.items[key]
	g.mu.RUnlock()
	if found {
		return item.p, true
	}

	var tags Tags
	if len(tvs) > 0 {
		m := make(map[string]TagValue, len(tvs))
		for i, tv := range tvs {
			m[g.labelNames[i]] = tv
		}
		tags = Tags{m: m}
	}
	candidate := &labeled[P]{tags: tags, p: g.newPrimitive()}

	g.mu.Lock()
	defer g.mu.Unlock()
	if item, found = g.items[key]; found {
		return item.p, true
	}
	g.items[key] = candidate
	g.order = append(g.order, candidate)
	return candidate.p, true
}

// size returns the number of distinct label tuples.
func (g *group[P]) size() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.order)
}

// collect reports the description followed by every member. The visitor is
// called after the lock is released; order only ever grows by appending, so
// the captured prefix stays valid.
func (g *group[P]) collect(c Collector) {
	g.mu.RLock()
	items := g.order[:len(g.order):len(g.order)]
	g.mu.RUnlock()
	if len(items) == 0 {
		return
	}
	c.VisitDescription(g.name, g.description)
	for _, it := range items {
		g.visit(c, g.name, it.tags, it.p)
	}
}

func (g *group[P]) shape() groupShape {
	return groupShape{kind: g.kind, arity: len(g.labelNames), cumulative: g.cumulative}
}

func (g *group[P]) metadata() Metadata {
	return Metadata{
		Name:        g.name,
		Kind:        g.kind,
		Description: g.description,
		LabelNames:  append([]string(nil), g.labelNames...),
		Cumulative:  g.cumulative,
		Series:      g.size(),
	}
}
