package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/matheuskafuri/blogreader/internal/pager"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

var (
	errorColor  = color.New(color.FgRed)
	headerColor = color.New(color.FgWhite, color.Bold)
	dimColor    = color.New(color.Faint)
	activeColor = color.New(color.FgMagenta, color.Bold)
)

func printError(w io.Writer, msg string) {
	errorColor.Fprintf(w, "✗ %s\n", msg)
}

func printHeader(w io.Writer, title string) {
	headerColor.Fprintf(w, "%s\n", title)
	fmt.Fprintln(w, strings.Repeat("─", len([]rune(title))))
}

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoWrap: tw.WrapNone,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoFormat: tw.On,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{
					ShowHeader: tw.Off,
				},
			},
		}),
	)
}

// formatWindow renders the page picker as one line, current page
// highlighted, e.g. "« ‹ 1 … 4 [5] 6 … 10 › »". Disabled controls are dimmed.
func formatWindow(v pager.View) string {
	control := func(label string, enabled bool) string {
		if enabled {
			return label
		}
		return dimColor.Sprint(label)
	}

	parts := []string{control("«", v.Controls.First), control("‹", v.Controls.Prev)}
	for _, l := range v.Labels {
		if !l.Ellipsis && l.Page == v.Page {
			parts = append(parts, activeColor.Sprintf("[%d]", l.Page))
			continue
		}
		parts = append(parts, l.String())
	}
	parts = append(parts, control("›", v.Controls.Next), control("»", v.Controls.Last))
	return strings.Join(parts, " ")
}

func formatRange(v pager.View) string {
	return fmt.Sprintf("Showing %d–%d of %d results", v.From, v.To, v.Total)
}

func excerpt(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
