// Package loading tracks a loading indicator that, once shown, stays
// visible for a minimum duration so it does not flicker on fast responses.
package loading

import (
	"sync"
	"time"
)

// Indicator is a loading flag with a minimum display duration.
type Indicator struct {
	mu       sync.Mutex
	min      time.Duration
	visible  bool
	gen      uint64
	onChange func(visible bool)
	hidden   chan struct{}

	now   func() time.Time
	after func(d time.Duration, f func())
}

// Option configures an Indicator.
type Option func(*Indicator)

// WithObserver registers a callback fired on every visibility change.
func WithObserver(fn func(visible bool)) Option {
	return func(i *Indicator) { i.onChange = fn }
}

// WithClock replaces the time source and the timer used to delay hiding.
func WithClock(now func() time.Time, after func(time.Duration, func())) Option {
	return func(i *Indicator) {
		i.now = now
		i.after = after
	}
}

// New returns a hidden indicator that stays visible at least min once shown.
func New(min time.Duration, opts ...Option) *Indicator {
	i := &Indicator{
		min: min,
		now: time.Now,
		after: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
		hidden: closedChan(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Visible reports whether the indicator is currently shown.
func (i *Indicator) Visible() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.visible
}

// Begin shows the indicator and returns the function that ends this
// loading period. A later Begin supersedes an earlier one: ending the older
// period no longer hides the indicator.
func (i *Indicator) Begin() (done func()) {
	i.mu.Lock()
	i.gen++
	gen := i.gen
	start := i.now()
	changed := !i.visible
	if changed {
		i.visible = true
		i.hidden = make(chan struct{})
	}
	i.mu.Unlock()
	if changed {
		i.notify(true)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			remaining := i.min - i.now().Sub(start)
			if remaining <= 0 {
				i.hide(gen)
				return
			}
			i.after(remaining, func() { i.hide(gen) })
		})
	}
}

// Wait blocks until the indicator is hidden.
func (i *Indicator) Wait() {
	i.mu.Lock()
	ch := i.hidden
	i.mu.Unlock()
	<-ch
}

func (i *Indicator) hide(gen uint64) {
	i.mu.Lock()
	if gen != i.gen || !i.visible {
		i.mu.Unlock()
		return
	}
	i.visible = false
	ch := i.hidden
	i.mu.Unlock()
	i.notify(false)
	close(ch)
}

func (i *Indicator) notify(visible bool) {
	if i.onChange != nil {
		i.onChange(visible)
	}
}

func closedChan() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
