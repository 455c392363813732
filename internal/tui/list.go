package tui

import (
	"fmt"
	"strings"

	"github.com/matheuskafuri/blogreader/internal/api"
	"github.com/matheuskafuri/blogreader/internal/pager"
)

func renderListItem(a api.Article, selected bool, width int) string {
	if width < 10 {
		width = 30
	}

	var title string
	if selected {
		title = itemSelectedStyle.Render("> " + truncateStr(a.Title, width-4))
	} else {
		title = itemTitleStyle.Render("  " + truncateStr(a.Title, width-4))
	}

	excerpt := "  " + itemBodyStyle.Render(truncateStr(oneLine(a.Body), width-4))
	meta := "  " + itemIDStyle.Render(fmt.Sprintf("Article #%d", a.ID))

	return title + "\n" + excerpt + "\n" + meta
}

func truncateStr(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// renderList draws the articles of the current page. The cursor indexes into
// articles; the window scrolls to keep it visible.
func renderList(articles []api.Article, cursor int, height int, width int) string {
	if len(articles) == 0 {
		return lipglossCenter("No results found. Try a different search.", width, height)
	}

	// Each item is 3 lines + 1 blank line
	itemHeight := 4
	visible := height / itemHeight
	if visible < 1 {
		visible = 1
	}

	start := 0
	if cursor >= visible {
		start = cursor - visible + 1
	}
	end := start + visible
	if end > len(articles) {
		end = len(articles)
		start = end - visible
		if start < 0 {
			start = 0
		}
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		b.WriteString(renderListItem(articles[i], i == cursor, width))
		if i < end-1 {
			b.WriteString("\n\n")
		}
	}

	return b.String()
}

func renderRange(v pager.View) string {
	if v.Hidden() {
		return ""
	}
	return rangeStyle.Render(fmt.Sprintf("Showing %d–%d of %d results", v.From, v.To, v.Total))
}

func lipglossCenter(s string, width, height int) string {
	pad := (width - len([]rune(s))) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat("\n", height/3) + strings.Repeat(" ", pad) + s
}
