package instrumentation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeClock advances only when told to.
type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func TestTracker_PauseResumeStop(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	var got []time.Duration
	tr := startTracker(ObserverFunc(func(d time.Duration) { got = append(got, d) }), clock.Now)

	clock.advance(2 * time.Second)
	tr.Pause()
	clock.advance(time.Hour)
	tr.Pause()
	assert.Equal(t, 2*time.Second, tr.Elapsed())

	tr.Resume()
	tr.Resume()
	clock.advance(3 * time.Second)
	assert.Equal(t, 5*time.Second, tr.Elapsed())

	assert.Equal(t, 5*time.Second, tr.Stop())
	clock.advance(time.Minute)
	tr.Resume()
	assert.Equal(t, 5*time.Second, tr.Stop())
	assert.Equal(t, []time.Duration{5 * time.Second}, got)
}

func TestTracker_FeedsHistogram(t *testing.T) {
	h := MustNewHistogram(time.Hour)
	tr := Track(h)
	d := tr.Stop()

	snap := h.Snapshot()
	assert.Equal(t, uint64(1), snap.Count)
	assert.Equal(t, d, snap.Sum)
}

func TestTracker_NilObserver(t *testing.T) {
	tr := Track(nil)
	assert.GreaterOrEqual(t, tr.Stop(), time.Duration(0))
}

func TestMeasure(t *testing.T) {
	ct := NewCumulativeTiming()
	ran := false
	d := Measure(ct, func() { ran = true })
	assert.True(t, ran)
	assert.Equal(t, d, ct.Snapshot().Sum)

	assert.Panics(t, func() {
		Measure(ct, func() { panic("boom") })
	})
	assert.Equal(t, uint64(2), ct.Snapshot().Count)
}
