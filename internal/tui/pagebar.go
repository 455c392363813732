package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/matheuskafuri/blogreader/internal/pager"
)

// renderPageBar draws the page picker: first/prev, the label window,
// next/last. Disabled controls are dimmed. Nothing is drawn when there are no
// pages.
func renderPageBar(v pager.View, width int) string {
	if v.Hidden() {
		return ""
	}

	control := func(label string, enabled bool) string {
		if enabled {
			return tabInactiveStyle.Render(label)
		}
		return tabDisabledStyle.Render(label)
	}

	sep := tabSeparatorStyle.Render(" ")
	parts := []string{
		control("« g", v.Controls.First),
		control("‹ p", v.Controls.Prev),
	}
	for _, l := range v.Labels {
		switch {
		case l.Ellipsis:
			parts = append(parts, tabSeparatorStyle.Render("…"))
		case l.Page == v.Page:
			parts = append(parts, tabActiveStyle.Render(l.String()))
		default:
			parts = append(parts, tabInactiveStyle.Render(l.String()))
		}
	}
	parts = append(parts,
		control("n ›", v.Controls.Next),
		control("G »", v.Controls.Last),
	)

	// Stop adding parts once the row would overflow
	var row string
	for i, part := range parts {
		candidate := row
		if i > 0 {
			candidate += sep
		}
		candidate += part
		if lipgloss.Width(candidate) > width && row != "" {
			break
		}
		row = candidate
	}

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, row)
}
