package watch

import (
	"sync"
	"time"
)

// Debouncer coalesces bursts of triggers per key into one call of fire,
// made once the key has been quiet for the delay.
type Debouncer struct {
	delay time.Duration
	fire  func(key string)

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// NewDebouncer returns a Debouncer that calls fire on its own goroutine.
func NewDebouncer(delay time.Duration, fire func(key string)) *Debouncer {
	return &Debouncer{
		delay:  delay,
		fire:   fire,
		timers: make(map[string]*time.Timer),
	}
}

// Trigger records activity on key. A pending timer for key is restarted.
// With immediate set and nothing pending, Trigger schedules nothing and
// returns true: the caller should handle key now.
func (d *Debouncer) Trigger(key string, immediate bool) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if timer, ok := d.timers[key]; ok {
		timer.Stop()
	} else if immediate {
		return true
	}

	var timer *time.Timer
	timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		// A newer Trigger may have replaced this timer.
		if d.timers[key] != timer {
			d.mu.Unlock()
			return
		}
		delete(d.timers, key)
		d.mu.Unlock()
		d.fire(key)
	})
	d.timers[key] = timer
	return false
}

// Cancel drops any pending call for key.
func (d *Debouncer) Cancel(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if timer, ok := d.timers[key]; ok {
		timer.Stop()
		delete(d.timers, key)
	}
}

// Pending returns the number of keys waiting to fire.
func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.timers)
}

// Stop cancels every pending call.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for key, timer := range d.timers {
		timer.Stop()
		delete(d.timers, key)
	}
}
