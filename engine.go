package instrumentation

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

type groupShape struct {
	kind       Kind
	arity      int
	cumulative bool
}

// groupHandle is the type-erased view of a group[P] the engine stores.
type groupHandle interface {
	shape() groupShape
	collect(c Collector)
	metadata() Metadata
}

type registration struct {
	name MetricName
	g    groupHandle
}

// Engine is a registry from metric name to label-sharded group.
//
// It is safe for concurrent use. The zero value is ready to use, and a nil
// *Engine hands out absent handles, so instrumented code can hold handles
// unconditionally. Groups are never removed.
type Engine struct {
	logger *slog.Logger

	mu sync.RWMutex
	// byHash buckets registrations by MetricName.Hash; collisions are
	// resolved with MetricName.Equal.
	byHash map[uint64][]*registration
	// entries keeps registration order for deterministic collection.
	entries []*registration

	shapeReports atomic.Int32
}

// NewEngine constructs an Engine.
func NewEngine(opts ...EngineOption) *Engine {
	cfg := &engineConfig{}
	for _, o := range opts {
		if o != nil {
			o(cfg)
		}
	}
	return &Engine{
		logger: cfg.logger,
		byHash: make(map[uint64][]*registration),
	}
}

var globalEngine = sync.OnceValue(func() *Engine { return NewEngine() })

// Global returns the process-wide engine, created on first use.
func Global() *Engine { return globalEngine() }

func (e *Engine) log() *slog.Logger {
	if e.logger == nil {
		return discardLogger
	}
	return e.logger
}

func (e *Engine) lookup(name MetricName, h uint64) (*registration, bool) {
	for _, r := range e.byHash[h] {
		if r.name.Equal(name) {
			return r, true
		}
	}
	return nil, false
}

// getOrCreate returns the group registered under name, creating it with
// factory on first use. If the name is bound to a group of another shape,
// it reports the mismatch and returns nil.
func (e *Engine) getOrCreate(name MetricName, want groupShape, factory func() groupHandle) groupHandle {
	h := name.Hash()

	// fast read path
	e.mu.RLock()
	r, ok := e.lookup(name, h)
	e.mu.RUnlock()

	if !ok {
		// build off-lock; a racing loser's group is dropped
		candidate := &registration{name: name, g: factory()}

		e.mu.Lock()
		if r, ok = e.lookup(name, h); !ok {
			if e.byHash == nil {
				e.byHash = make(map[uint64][]*registration)
			}
			e.byHash[h] = append(e.byHash[h], candidate)
			e.entries = append(e.entries, candidate)
			r = candidate
		}
		e.mu.Unlock()
	}

	if have := r.g.shape(); have != want {
		e.reportShapeMismatch(name, want, have)
		return nil
	}
	return r.g
}

// reportShapeMismatch logs a lookup whose kind or label arity differs from
// the registered group. Only the first maxShapeReports are logged per engine.
func (e *Engine) reportShapeMismatch(name MetricName, want, have groupShape) {
	if e.shapeReports.Add(1) > maxShapeReports {
		return
	}
	e.log().Warn("metric shape mismatch, returning absent handle",
		slog.String("name", name.String()),
		slog.String("requested_kind", want.kind.String()),
		slog.Int("requested_labels", want.arity),
		slog.Bool("requested_cumulative", want.cumulative),
		slog.String("registered_kind", have.kind.String()),
		slog.Int("registered_labels", have.arity),
		slog.Bool("registered_cumulative", have.cumulative),
	)
}

func (e *Engine) snapshotEntries() []*registration {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.entries[:len(e.entries):len(e.entries)]
}

// Collect visits every registered group in registration order. No engine or
// group lock is held while c runs, so c may use the engine itself.
func (e *Engine) Collect(c Collector) {
	if e == nil || c == nil {
		return
	}
	for _, r := range e.snapshotEntries() {
		r.g.collect(c)
	}
}

// Len returns the number of registered groups.
func (e *Engine) Len() int {
	if e == nil {
		return 0
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.entries)
}

var _ Collectable = (*Engine)(nil)
