package fs

import (
	"sync"
	"time"

	"github.com/aretw0/studyshare/pkg/core"
)

// debouncer coalesces bursts of events per key. An atomic save produces
// several filesystem notifications; subscribers see one event.
type debouncer struct {
	interval time.Duration

	mu      sync.Mutex
	timers  map[string]*time.Timer
	pending map[string]core.Event
	stopped bool
	wg      sync.WaitGroup
}

func newDebouncer(interval time.Duration) *debouncer {
	return &debouncer{
		interval: interval,
		timers:   make(map[string]*time.Timer),
		pending:  make(map[string]core.Event),
	}
}

// add schedules e for delivery through emit once its key has been quiet
// for the debounce interval.
func (d *debouncer) add(e core.Event, emit func(core.Event)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	if prev, ok := d.pending[e.Key]; ok {
		e = mergeEvents(prev, e)
	}
	d.pending[e.Key] = e

	if t, ok := d.timers[e.Key]; ok && t.Stop() {
		d.wg.Done()
	}

	var t *time.Timer
	d.wg.Add(1)
	t = time.AfterFunc(d.interval, func() {
		defer d.wg.Done()

		d.mu.Lock()
		if d.timers[e.Key] != t {
			d.mu.Unlock()
			return
		}
		ev := d.pending[e.Key]
		delete(d.timers, e.Key)
		delete(d.pending, e.Key)
		d.mu.Unlock()

		emit(ev)
	})
	d.timers[e.Key] = t
}

// stopAndWait drops pending events and waits up to timeout for deliveries
// already in flight.
func (d *debouncer) stopAndWait(timeout time.Duration) {
	d.mu.Lock()
	d.stopped = true
	for key, t := range d.timers {
		if t.Stop() {
			d.wg.Done()
		}
		delete(d.timers, key)
	}
	clear(d.pending)
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
	}
}

// mergeEvents folds next into prev. A create followed by writes is still a
// create; otherwise the latest kind wins.
func mergeEvents(prev, next core.Event) core.Event {
	if prev.Type == core.EventCreate && next.Type == core.EventModify {
		next.Type = core.EventCreate
	}
	return next
}
