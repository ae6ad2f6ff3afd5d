package instrumentation

// Inspector provides read-only access to group metadata, for admin and
// debug views. Results are copies and safe to mutate.
type Inspector interface {
	Inspect(name MetricName) (Metadata, bool)
	ListMetadata() []Metadata
}

// Metadata describes one registered group.
type Metadata struct {
	Name        MetricName
	Kind        Kind
	Description string
	LabelNames  []string
	Cumulative  bool
	// Series is the number of distinct label tuples seen so far.
	Series int
}

var _ Inspector = (*Engine)(nil)

// Inspect returns the metadata of the group registered under name.
func (e *Engine) Inspect(name MetricName) (Metadata, bool) {
	if e == nil {
		return Metadata{}, false
	}
	e.mu.RLock()
	r, ok := e.lookup(name, name.Hash())
	e.mu.RUnlock()
	if !ok {
		return Metadata{}, false
	}
	return r.g.metadata(), true
}

// ListMetadata returns metadata for every group in registration order. It is
// a best-effort snapshot that may race with concurrent registrations.
func (e *Engine) ListMetadata() []Metadata {
	if e == nil {
		return nil
	}
	entries := e.snapshotEntries()
	out := make([]Metadata, 0, len(entries))
	for _, r := range entries {
		out = append(out, r.g.metadata())
	}
	return out
}
