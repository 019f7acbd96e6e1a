package testutil

import (
	"sort"
	"sync"
	"time"

	"feemeter/internal/core/clock"
)

// FakeClock is a manually driven clock for tests.
type FakeClock struct {
	mu     sync.Mutex
	now    time.Time
	nextID int
	timers []*fakeTimer
}

type fakeTimer struct {
	clock *FakeClock
	id    int
	due   time.Time
	fn    func()
}

var _ clock.Clock = new(FakeClock)

// NewFakeClock returns a clock frozen at start.
func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

func (f *FakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *FakeClock) AfterFunc(d time.Duration, fn func()) clock.Timer {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	timer := &fakeTimer{clock: f, id: f.nextID, due: f.now.Add(d), fn: fn}
	f.timers = append(f.timers, timer)
	return timer
}

// Advance moves time forward by d, firing every callback that falls due on
// the way in due order. Callbacks run without the clock lock held, so they may
// schedule new callbacks.
func (f *FakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	target := f.now.Add(d)
	f.mu.Unlock()

	for {
		f.mu.Lock()
		next := f.popDueLocked(target)
		if next == nil {
			if target.After(f.now) {
				f.now = target
			}
			f.mu.Unlock()
			return
		}
		if next.due.After(f.now) {
			f.now = next.due
		}
		f.mu.Unlock()

		next.fn()
	}
}

// Jump moves time forward by d without firing anything, as if the host had
// been asleep. Overdue callbacks fire on the next Advance.
func (f *FakeClock) Jump(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

// Pending returns the number of armed callbacks.
func (f *FakeClock) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.timers)
}

func (f *FakeClock) popDueLocked(target time.Time) *fakeTimer {
	if len(f.timers) == 0 {
		return nil
	}
	sort.SliceStable(f.timers, func(i, j int) bool {
		return f.timers[i].due.Before(f.timers[j].due)
	})
	first := f.timers[0]
	if first.due.After(target) {
		return nil
	}
	f.timers = f.timers[1:]
	return first
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	for index, timer := range t.clock.timers {
		if timer.id == t.id {
			t.clock.timers = append(t.clock.timers[:index], t.clock.timers[index+1:]...)
			return true
		}
	}
	return false
}
