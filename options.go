package instrumentation

import (
	"log/slog"
	"time"
)

// InstrumentConfig carries the metadata used when a group is first created.
// Options given for a name that already exists are ignored.
type InstrumentConfig struct {
	Description string
	// Buckets are histogram thresholds; DefaultBuckets() is used when empty.
	Buckets []time.Duration
}

// InstrumentOption mutates InstrumentConfig.
type InstrumentOption func(*InstrumentConfig)

// WithDescription sets the human-readable description of a metric group.
func WithDescription(desc string) InstrumentOption {
	return func(c *InstrumentConfig) { c.Description = desc }
}

// WithBuckets sets histogram thresholds. They must be strictly increasing.
func WithBuckets(thresholds ...time.Duration) InstrumentOption {
	return func(c *InstrumentConfig) {
		// copy to avoid external mutation
		c.Buckets = append([]time.Duration(nil), thresholds...)
	}
}

func applyOptions(opts []InstrumentOption) InstrumentConfig {
	var cfg InstrumentConfig
	for _, o := range opts {
		if o != nil {
			o(&cfg)
		}
	}
	return cfg
}

type engineConfig struct {
	logger *slog.Logger
}

// EngineOption configures an Engine constructed by NewEngine.
type EngineOption func(*engineConfig)

// WithLogger routes engine diagnostics to l.
func WithLogger(l *slog.Logger) EngineOption {
	return func(cfg *engineConfig) { cfg.logger = l }
}
