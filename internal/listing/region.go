// Package listing holds the view-state shared by every screen that shows
// remote data: per-region load state with stale-response protection, and a
// generic paged, searchable list built on top of it.
package listing

import "sync"

type State int

const (
	Idle State = iota
	Loading
	Failed
	Ready
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Failed:
		return "failed"
	case Ready:
		return "ready"
	default:
		return "idle"
	}
}

// Token identifies one request against a Region. Only the most recent token
// may resolve it.
type Token uint64

// Region is the loading/error/success state of one piece of remote data. The
// three outcomes are mutually exclusive.
type Region[T any] struct {
	mu       sync.Mutex
	state    State
	value    T
	err      error
	current  Token
	released bool
}

// Begin marks the region loading and returns the token the response must
// present. Older tokens become stale.
func (r *Region[T]) Begin() Token {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current++
	r.state = Loading
	r.err = nil
	return r.current
}

// Resolve stores v if tok is current. A false return means the response was
// stale and has been dropped.
func (r *Region[T]) Resolve(tok Token, v T) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released || tok != r.current {
		return false
	}
	r.value = v
	r.err = nil
	r.state = Ready
	return true
}

func (r *Region[T]) Fail(tok Token, err error) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released || tok != r.current {
		return false
	}
	var zero T
	r.value = zero
	r.err = err
	r.state = Failed
	return true
}

// Release invalidates every outstanding token. Used when the consumer goes
// away.
func (r *Region[T]) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.released = true
	r.current++
}

// Reset returns the region to Idle and makes it usable again.
func (r *Region[T]) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	var zero T
	r.current++
	r.released = false
	r.state = Idle
	r.value = zero
	r.err = nil
}

func (r *Region[T]) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Region[T]) Value() T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.value
}

func (r *Region[T]) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}
