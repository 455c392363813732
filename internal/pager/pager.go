// Package pager computes page counts, slice bounds and the page-number
// window shown by a page picker. Nothing here clamps the requested page;
// callers own that.
package pager

import "strconv"

// MaxVisible is the most numeric labels a window holds.
const MaxVisible = 5

// Label is one slot of a page picker: a page number or an ellipsis.
type Label struct {
	Page     int
	Ellipsis bool
}

func (l Label) String() string {
	if l.Ellipsis {
		return "…"
	}
	return strconv.Itoa(l.Page)
}

func page(n int) Label { return Label{Page: n} }

var ellipsis = Label{Ellipsis: true}

func TotalPages(n, size int) int {
	if n <= 0 || size <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

// Bounds returns the half-open slice bounds of page p. ok is false when p is
// outside [1, TotalPages(n, size)].
func Bounds(n, size, p int) (start, end int, ok bool) {
	total := TotalPages(n, size)
	if p < 1 || p > total {
		return 0, 0, false
	}
	start = (p - 1) * size
	end = min(n, p*size)
	return start, end, true
}

func Slice[T any](items []T, size, p int) []T {
	start, end, ok := Bounds(len(items), size, p)
	if !ok {
		return nil
	}
	return items[start:end]
}

// Window lists the labels for a picker showing at most MaxVisible numbers.
// An ellipsis only appears where it hides at least one page.
func Window(totalPages, p int) []Label {
	if totalPages <= 0 {
		return nil
	}

	var out []Label
	if totalPages <= MaxVisible {
		for i := 1; i <= totalPages; i++ {
			out = append(out, page(i))
		}
		return out
	}

	half := MaxVisible / 2
	switch {
	case p <= half+1:
		for i := 1; i <= MaxVisible; i++ {
			out = append(out, page(i))
		}
		if totalPages-MaxVisible > 1 {
			out = append(out, ellipsis)
		}
		out = append(out, page(totalPages))
	case p >= totalPages-half:
		out = append(out, page(1))
		first := totalPages - MaxVisible + 1
		if first > 2 {
			out = append(out, ellipsis)
		}
		for i := first; i <= totalPages; i++ {
			out = append(out, page(i))
		}
	default:
		out = append(out, page(1))
		if p-1 > 2 {
			out = append(out, ellipsis)
		}
		for i := p - 1; i <= p+1; i++ {
			out = append(out, page(i))
		}
		if p+1 < totalPages-1 {
			out = append(out, ellipsis)
		}
		out = append(out, page(totalPages))
	}
	return out
}

// Controls says which navigation buttons are enabled.
type Controls struct {
	First bool
	Prev  bool
	Next  bool
	Last  bool
}

func Nav(totalPages, p int) Controls {
	if totalPages <= 0 {
		return Controls{}
	}
	back := p != 1
	fwd := p != totalPages
	return Controls{First: back, Prev: back, Next: fwd, Last: fwd}
}

// Range returns the 1-based positions of the first and last item on page p,
// or zeros when there is nothing to show.
func Range(n, size, p int) (from, to int) {
	start, end, ok := Bounds(n, size, p)
	if !ok {
		return 0, 0
	}
	return start + 1, end
}

// View is everything a renderer needs for one page.
type View struct {
	Total      int
	Page       int
	TotalPages int
	From, To   int
	Labels     []Label
	Controls   Controls
}

// Hidden reports whether the picker should be suppressed entirely.
func (v View) Hidden() bool {
	return v.TotalPages == 0
}

func Compute(n, size, p int) View {
	total := TotalPages(n, size)
	from, to := Range(n, size, p)
	return View{
		Total:      n,
		Page:       p,
		TotalPages: total,
		From:       from,
		To:         to,
		Labels:     Window(total, p),
		Controls:   Nav(total, p),
	}
}
