package promclient

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ygrebnov/instrumentation"
)

func newTestEngine(t *testing.T) *instrumentation.Engine {
	t.Helper()
	e := instrumentation.NewEngine()
	reqs := e.CounterVec(instrumentation.Name("http.requests"), []string{"code", "cached"},
		instrumentation.WithDescription("Served requests."))
	reqs.Labels(200, true).Add(3)
	reqs.Labels(500, false).Inc()

	e.Gauge(instrumentation.Name("queue.depth"), instrumentation.WithDescription("Pending items.")).Set(7)
	e.StringVec(instrumentation.Name("build.info"), []string{"component"},
		instrumentation.WithDescription("Build version.")).Labels("api").Set("v1.2.3")

	h, err := e.Histogram(instrumentation.Name("rpc.latency"),
		instrumentation.WithDescription("RPC latency."),
		instrumentation.WithBuckets(100*time.Millisecond, time.Second))
	require.NoError(t, err)
	h.Observe(62500 * time.Microsecond)
	h.Observe(500 * time.Millisecond)
	h.Observe(2 * time.Second)
	return e
}

func TestCollector_CollectAndCompare(t *testing.T) {
	c := NewCollector(newTestEngine(t))

	expected := `
# HELP http_requests Served requests.
# TYPE http_requests counter
http_requests{cached="false",code="500"} 1
http_requests{cached="true",code="200"} 3
# HELP queue_depth Pending items.
# TYPE queue_depth gauge
queue_depth 7
# HELP build_info Build version.
# TYPE build_info untyped
build_info{component="api",strval="v1.2.3"} 1
# HELP rpc_latency_seconds RPC latency.
# TYPE rpc_latency_seconds histogram
rpc_latency_seconds_bucket{le="0.1"} 1
rpc_latency_seconds_bucket{le="1"} 2
rpc_latency_seconds_bucket{le="+Inf"} 3
rpc_latency_seconds_sum 2.5625
rpc_latency_seconds_count 3
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected)))
}

func TestCollector_RegistersNextToClientMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	native := prometheus.NewCounter(prometheus.CounterOpts{Name: "native_total", Help: "Native counter."})
	native.Inc()
	require.NoError(t, reg.Register(native))
	require.NoError(t, reg.Register(NewCollector(newTestEngine(t))))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.ElementsMatch(t, []string{"build_info", "http_requests", "native_total", "queue_depth", "rpc_latency_seconds"}, names)

	assert.Equal(t, 5, testutil.CollectAndCount(NewCollector(newTestEngine(t))))
}

func TestCollector_SkipsInvalidMetrics(t *testing.T) {
	var logs bytes.Buffer
	e := instrumentation.NewEngine()
	// "a.b" and "a_b" collide once sanitized
	e.CounterVec(instrumentation.Name("bad"), []string{"a.b", "a_b"}).Labels(1, 2).Inc()
	e.Counter(instrumentation.Name("good")).Inc()

	c := NewCollector(e, WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))
	assert.Equal(t, 1, testutil.CollectAndCount(c))
	assert.Contains(t, logs.String(), "skipping metric")
	assert.Contains(t, logs.String(), "name=bad")
}
