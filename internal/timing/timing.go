// Package timing records wall-clock durations for named phases of a command.
package timing

import (
	"sort"
	"sync"
	"time"
)

// Timer tracks total elapsed time and named phases
type Timer struct {
	start  time.Time
	open   map[string]time.Time
	phases map[string]time.Duration
	order  []string
	mu     sync.Mutex
}

// New starts a Timer
func New() *Timer {
	return &Timer{
		start:  time.Now(),
		open:   make(map[string]time.Time),
		phases: make(map[string]time.Duration),
	}
}

// Elapsed returns the time since New
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}

// ElapsedMs returns Elapsed in whole milliseconds
func (t *Timer) ElapsedMs() int64 {
	return t.Elapsed().Milliseconds()
}

// Start opens a phase. Restarting an open phase resets its start.
func (t *Timer) Start(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.open[name] = time.Now()
}

// Stop closes a phase and returns its duration. Durations of a phase that
// runs more than once accumulate. Stopping a phase never started returns 0.
func (t *Timer) Stop(name string) time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	began, ok := t.open[name]
	if !ok {
		return 0
	}
	delete(t.open, name)

	d := time.Since(began)
	if _, seen := t.phases[name]; !seen {
		t.order = append(t.order, name)
	}
	t.phases[name] += d
	return d
}

// Measure starts name and returns the func that stops it
//
//	defer timer.Measure("score")()
func (t *Timer) Measure(name string) func() {
	t.Start(name)
	return func() { t.Stop(name) }
}

// Phases returns a copy of the recorded durations
func (t *Timer) Phases() map[string]time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make(map[string]time.Duration, len(t.phases))
	for k, v := range t.phases {
		out[k] = v
	}
	return out
}

// Names returns recorded phase names in the order they first finished
func (t *Timer) Names() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.order...)
}

// Fields flattens the phases into alternating key/value pairs for
// structured logging, with keys sorted and values in milliseconds.
func (t *Timer) Fields() []interface{} {
	phases := t.Phases()
	keys := make([]string, 0, len(phases))
	for k := range phases {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]interface{}, 0, len(keys)*2)
	for _, k := range keys {
		out = append(out, k+"_ms", phases[k].Milliseconds())
	}
	return out
}
