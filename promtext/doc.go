// Package promtext renders metrics in the Prometheus text exposition format.
//
// Encoder is an instrumentation.Collector that serializes an Engine during a
// collection pass. Registry is a separate, self-contained registry that keeps
// only weak references to its metrics: a series stays exported for as long
// as the caller holds its handle and is pruned after that. A Fanout
// registers each series in several registries behind a single handle.
//
// Output lines separate the label block and the value with tabs:
//
//	# HELP test_metric this is a test
//	# TYPE test_metric counter
//	test_metric	{label_name="foo",}	11
package promtext
