package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/matheuskafuri/blogreader/internal/cache"
)

func renderStatusBar(matches int, query string, stats cache.Stats, width int, hints string) string {
	accent := lipgloss.NewStyle().
		Foreground(colorAccent).
		Bold(true)

	left := fmt.Sprintf(" %d articles", matches)
	if query != "" {
		left += " · " + accent.Render(fmt.Sprintf("%q", query))
	}
	if stats.Fetches > 0 {
		left += fmt.Sprintf(" · comments cached %d/%d", stats.Hits, stats.Hits+stats.Misses)
	}

	right := " " + hints + " "

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + fmt.Sprintf("%*s", gap, "") + right

	return statusBarStyle.Width(width).Render(bar)
}

func renderBottomBar(hints string, width int) string {
	right := " " + hints + " "
	gap := width - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return statusBarStyle.Width(width).Render(fmt.Sprintf("%*s", gap, "") + right)
}
