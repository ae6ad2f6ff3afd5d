package instrumentation

import "time"

// DurationObserver receives measured durations. Histogram implements it.
type DurationObserver interface {
	Observe(d time.Duration)
}

// ObserverFunc adapts a function, for example one setting a gauge, to
// DurationObserver.
type ObserverFunc func(d time.Duration)

// Observe calls f(d).
func (f ObserverFunc) Observe(d time.Duration) { f(d) }

// Tracker measures the running time of a block of work, excluding paused
// intervals, and reports it once on Stop. A Tracker is not safe for
// concurrent use.
type Tracker struct {
	obs     DurationObserver
	now     func() time.Time
	started time.Time
	elapsed time.Duration
	running bool
	stopped bool
}

// Track starts a running tracker reporting to obs. A nil obs is allowed;
// the tracker then only measures.
func Track(obs DurationObserver) *Tracker {
	return startTracker(obs, time.Now)
}

func startTracker(obs DurationObserver, now func() time.Time) *Tracker {
	return &Tracker{obs: obs, now: now, started: now(), running: true}
}

// Pause stops the clock until Resume.
func (t *Tracker) Pause() {
	if !t.running || t.stopped {
		return
	}
	t.elapsed += t.now().Sub(t.started)
	t.running = false
}

// Resume restarts a paused clock.
func (t *Tracker) Resume() {
	if t.running || t.stopped {
		return
	}
	t.started = t.now()
	t.running = true
}

// Elapsed returns the measured time so far.
func (t *Tracker) Elapsed() time.Duration {
	if t.running && !t.stopped {
		return t.elapsed + t.now().Sub(t.started)
	}
	return t.elapsed
}

// Stop freezes the clock and reports the total to the observer. Only the
// first call reports; later calls return the same duration.
func (t *Tracker) Stop() time.Duration {
	if t.stopped {
		return t.elapsed
	}
	t.Pause()
	t.stopped = true
	if t.obs != nil {
		t.obs.Observe(t.elapsed)
	}
	return t.elapsed
}

// Measure runs fn and reports its duration to obs, also when fn panics.
func Measure(obs DurationObserver, fn func()) (d time.Duration) {
	t := Track(obs)
	defer func() { d = t.Stop() }()
	fn()
	return
}
