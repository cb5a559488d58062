package loading

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now     time.Time
	pending []timer
}

type timer struct {
	at time.Time
	f  func()
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) After(d time.Duration, f func()) {
	c.pending = append(c.pending, timer{at: c.now.Add(d), f: f})
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
	var keep []timer
	for _, t := range c.pending {
		if !t.at.After(c.now) {
			t.f()
			continue
		}
		keep = append(keep, t)
	}
	c.pending = keep
}

func TestIndicator_HidesImmediatelyWithoutMinimum(t *testing.T) {
	ind := New(0)

	done := ind.Begin()
	assert.True(t, ind.Visible())

	done()
	assert.False(t, ind.Visible())
	ind.Wait()
}

func TestIndicator_StaysVisibleForMinimum(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)}
	var changes []bool
	ind := New(1500*time.Millisecond,
		WithClock(clock.Now, clock.After),
		WithObserver(func(v bool) { changes = append(changes, v) }),
	)

	done := ind.Begin()
	clock.Advance(200 * time.Millisecond)
	done()
	assert.True(t, ind.Visible(), "indicator hid before the minimum elapsed")

	clock.Advance(1299 * time.Millisecond)
	assert.True(t, ind.Visible())

	clock.Advance(time.Millisecond)
	assert.False(t, ind.Visible())
	assert.Equal(t, []bool{true, false}, changes)
}

func TestIndicator_SlowOperationHidesOnDone(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	ind := New(time.Second, WithClock(clock.Now, clock.After))

	done := ind.Begin()
	clock.Advance(3 * time.Second)
	done()

	assert.False(t, ind.Visible())
	assert.Empty(t, clock.pending)
}

func TestIndicator_NewerBeginWins(t *testing.T) {
	ind := New(0)

	first := ind.Begin()
	second := ind.Begin()

	first()
	assert.True(t, ind.Visible(), "ending a superseded period must not hide the indicator")

	second()
	assert.False(t, ind.Visible())
}

func TestIndicator_DoneIsIdempotent(t *testing.T) {
	var changes int
	ind := New(0, WithObserver(func(bool) { changes++ }))

	done := ind.Begin()
	done()
	done()

	require.False(t, ind.Visible())
	assert.Equal(t, 2, changes)
}
