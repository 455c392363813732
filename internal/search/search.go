package search

import (
	"strings"
	"sync"
	"time"
)

// Tick is a pending debounce deadline. The owner schedules it (a timer, a
// tea.Tick) and hands Tag back to Fire once Delay has passed.
type Tick struct {
	Tag   uint64
	Delay time.Duration
}

// Debouncer is a trailing-edge debounce over a stream of raw strings. Every
// Set supersedes the ticks handed out before it, so only a value that stays
// put for the whole delay is ever applied.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	raw     string
	value   string
	tag     uint64
	stopped bool
}

func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

func (d *Debouncer) Set(raw string) Tick {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.raw = raw
	d.tag++
	return Tick{Tag: d.tag, Delay: d.delay}
}

// Fire applies the pending raw value if tag is still the latest tick. It
// reports whether the debounced value was updated.
func (d *Debouncer) Fire(tag uint64) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped || tag != d.tag {
		return d.value, false
	}
	d.value = d.raw
	return d.value, true
}

// Flush applies the raw value immediately, invalidating any pending tick.
func (d *Debouncer) Flush() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tag++
	if !d.stopped {
		d.value = d.raw
	}
	return d.value
}

// Stop cancels the pending tick. Later fires are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.tag++
}

func (d *Debouncer) Raw() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.raw
}

func (d *Debouncer) Value() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.value
}

func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Matches reports whether query occurs in title, ignoring case. An empty
// query matches everything.
func Matches(title, query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(title), strings.ToLower(query))
}

// Filter keeps the items whose title matches query, preserving order.
func Filter[T any](items []T, query string, title func(T) string) []T {
	if query == "" {
		return items
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		if Matches(title(it), query) {
			out = append(out, it)
		}
	}
	return out
}
