/*
Package instrumentation is a small, concurrency-safe, in-process metrics library.

# Overview

Application code registers named metrics on an Engine and updates them from
any goroutine. A collection pass later walks every registered metric and hands
it to a Collector, for example the Prometheus text encoder in package promtext.

There are four primitive kinds:

  - Counter: a float64 that only goes up. Negative deltas are ignored.
  - Gauge: a float64 that can be set, increased and decreased.
  - String: a replaceable text value, exported by promtext as an untyped
    sample carrying the text in a strval label.
  - Histogram: a timing distribution over fixed ascending thresholds plus an
    implicit +Inf bucket. Cumulative timings keep only count and total.

Every primitive belongs to a group identified by a MetricName. A group fixes
the kind, the description and the ordered label names; each distinct tuple of
label values gets its own primitive, created on first use:

	e := instrumentation.NewEngine()
	requests := e.CounterVec(instrumentation.Name("http.requests"), []string{"method", "code"},
	    instrumentation.WithDescription("Served HTTP requests"))
	requests.Labels("GET", 200).Inc()

How it works (high level)

 1. Fast path: look up the name, then the label tuple, under read locks and
    return the existing primitive.
 2. Slow path: build the group or primitive off-lock, take the write lock,
    re-check and insert. When goroutines race, the first insert wins and the
    other candidates are dropped, so all of them end up sharing one primitive.
 3. Collect copies the registration lists under the read lock and visits them
    after releasing it, in registration order. Two collections without
    updates in between produce the same sequence of visits.

# Absent handles

Requesting a name that is already bound to another kind or label count
returns an absent handle and logs a warning (at most ten per engine). Absent
handles, zero-value handles and handles from a nil *Engine accept every call
and do nothing, so instrumented code never needs to check them:

	var e *instrumentation.Engine
	e.Counter(instrumentation.Name("x")).Inc() // no-op

Histogram thresholds are the only configuration that can fail: thresholds
that are not positive and strictly increasing are rejected at construction.

# Inspection

Engine implements Inspector: ListMetadata and Inspect return copies of the
name, kind, description and label names of registered groups.

# Build and test

	go test -race ./...
*/
package instrumentation
