package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/matheuskafuri/blogreader/internal/api"
	"github.com/matheuskafuri/blogreader/internal/listing"
	"github.com/matheuskafuri/blogreader/internal/session"
)

func renderArticle(r *listing.Region[api.Article], spin string, width int) string {
	switch r.State() {
	case listing.Loading:
		return spin + " Loading article..."
	case listing.Failed:
		return errorStyle.Render("✗ " + r.Err().Error())
	case listing.Ready:
	default:
		return ""
	}

	a := r.Value()
	contentWidth := max(width-2, 10)
	badge := articleBadgeStyle.Render(fmt.Sprintf("Article #%d", a.ID))
	title := articleTitleStyle.Width(contentWidth).Render(a.Title)
	body := articleBodyStyle.Width(contentWidth).Render(wrapText(a.Body, contentWidth))
	return lipgloss.JoinVertical(lipgloss.Left, badge, title, body)
}

func renderComments(r *listing.Region[[]api.Comment], spin string, width int) string {
	var b strings.Builder

	switch r.State() {
	case listing.Loading:
		b.WriteString(commentAuthorStyle.Render("Comments"))
		b.WriteString("\n\n")
		b.WriteString(spin + " Loading comments...")
		return b.String()
	case listing.Failed:
		b.WriteString(commentAuthorStyle.Render("Comments"))
		b.WriteString("\n\n")
		b.WriteString(errorStyle.Render("✗ " + r.Err().Error()))
		return b.String()
	case listing.Ready:
	default:
		return ""
	}

	comments := r.Value()
	b.WriteString(commentAuthorStyle.Render(fmt.Sprintf("Comments (%d)", len(comments))))
	b.WriteString("\n\n")
	if len(comments) == 0 {
		b.WriteString(helpDimStyle.Render("No comments for this article."))
		return b.String()
	}

	contentWidth := max(width-4, 10)
	for i, c := range comments {
		avatar := commentAvatarStyle.Render(session.User{Name: c.Name}.Initial())
		head := avatar + " " + commentAuthorStyle.Render(c.Name) + "  " + commentEmailStyle.Render(c.Email) +
			"  " + helpDimStyle.Render(fmt.Sprintf("#%d", i+1))
		b.WriteString(head)
		b.WriteString("\n")
		b.WriteString(indent(wrapText(c.Body, contentWidth), "    "))
		if i < len(comments)-1 {
			b.WriteString("\n\n")
		}
	}
	return b.String()
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

// scrollLines drops the first scroll lines and pads or cuts to height.
// Scrolling stops once the last line is at the bottom.
func scrollLines(content string, scroll, height int) string {
	lines := strings.Split(content, "\n")
	scroll = max(0, min(scroll, len(lines)-height))
	lines = lines[scroll:]
	if len(lines) < height {
		lines = append(lines, make([]string, height-len(lines))...)
	} else if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

func wrapText(s string, width int) string {
	if width <= 0 {
		return s
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}

	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) > width {
			lines = append(lines, line)
			line = w
		} else {
			line += " " + w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}
