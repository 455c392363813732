package listing

import (
	"time"

	"github.com/matheuskafuri/blogreader/internal/pager"
	"github.com/matheuskafuri/blogreader/internal/search"
)

// List is a paged, searchable, remotely loaded list. Items arrive through the
// embedded Region; the query goes through a debouncer; the page always stays
// within [1, max(1, TotalPages)].
type List[T any] struct {
	Region[[]T]

	pageSize int
	title    func(T) string
	query    *search.Debouncer

	filtered []T
	page     int
}

func New[T any](pageSize int, debounce time.Duration, title func(T) string) *List[T] {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &List[T]{
		pageSize: pageSize,
		title:    title,
		query:    search.NewDebouncer(debounce),
		page:     1,
	}
}

// Resolve overrides Region.Resolve to refilter after a successful load.
func (l *List[T]) Resolve(tok Token, items []T) bool {
	if !l.Region.Resolve(tok, items) {
		return false
	}
	l.refilter()
	l.page = 1
	return true
}

func (l *List[T]) Fail(tok Token, err error) bool {
	if !l.Region.Fail(tok, err) {
		return false
	}
	l.filtered = nil
	l.page = 1
	return true
}

// Type records a raw query and returns the debounce tick to schedule.
func (l *List[T]) Type(raw string) search.Tick {
	return l.query.Set(raw)
}

// Settle applies the debounced query for tag. When it changes the result
// set, the page goes back to 1.
func (l *List[T]) Settle(tag uint64) bool {
	prev := l.query.Value()
	v, ok := l.query.Fire(tag)
	if !ok {
		return false
	}
	if v != prev {
		l.refilter()
		l.page = 1
	}
	return true
}

// Apply skips the debounce window, e.g. when the user presses enter.
func (l *List[T]) Apply() {
	prev := l.query.Value()
	if l.query.Flush() != prev {
		l.refilter()
		l.page = 1
	}
}

func (l *List[T]) RawQuery() string { return l.query.Raw() }
func (l *List[T]) Query() string    { return l.query.Value() }
func (l *List[T]) PageSize() int    { return l.pageSize }
func (l *List[T]) Page() int        { return l.page }

func (l *List[T]) refilter() {
	l.filtered = search.Filter(l.Value(), l.query.Value(), l.title)
}

// Filtered returns every item matching the current query.
func (l *List[T]) Filtered() []T {
	return l.filtered
}

func (l *List[T]) TotalPages() int {
	return pager.TotalPages(len(l.filtered), l.pageSize)
}

// SetPage moves to p, clamped into the valid range. It reports whether the
// page changed.
func (l *List[T]) SetPage(p int) bool {
	p = max(1, min(p, l.TotalPages()))
	if p == l.page {
		return false
	}
	l.page = p
	return true
}

func (l *List[T]) First() bool { return l.SetPage(1) }
func (l *List[T]) Prev() bool  { return l.SetPage(l.page - 1) }
func (l *List[T]) Next() bool  { return l.SetPage(l.page + 1) }
func (l *List[T]) Last() bool  { return l.SetPage(l.TotalPages()) }

// Visible is the slice of filtered items on the current page.
func (l *List[T]) Visible() []T {
	return pager.Slice(l.filtered, l.pageSize, l.page)
}

func (l *List[T]) Pagination() pager.View {
	return pager.Compute(len(l.filtered), l.pageSize, l.page)
}

// Close stops the debouncer and drops any in-flight load.
func (l *List[T]) Close() {
	l.query.Stop()
	l.Release()
}
