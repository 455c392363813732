package cmd

import (
	"fmt"
	"strconv"

	"github.com/matheuskafuri/blogreader/internal/api"
	"github.com/matheuskafuri/blogreader/internal/pager"
	"github.com/matheuskafuri/blogreader/internal/search"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagQuery string
	flagPage  int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print one page of articles",
	Long: `Fetch every article, keep those whose title contains --query (case
insensitive) and print the requested page with its page window.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVarP(&flagQuery, "query", "q", "", "only show articles whose title contains this text")
	listCmd.Flags().IntVarP(&flagPage, "page", "p", 1, "page to print")
}

func runList(cmd *cobra.Command, args []string) error {
	src, err := openSource(appCfg, flagSource)
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}

	articles, err := src.FetchArticles(cmd.Context())
	if err != nil {
		logger.Warn("list failed", zap.Error(err))
		return err
	}

	matches := search.Filter(articles, flagQuery, func(a api.Article) string { return a.Title })
	size := appCfg.GetPageSize()
	out := cmd.OutOrStdout()

	if len(matches) == 0 {
		fmt.Fprintln(out, "No results found. Try a different search.")
		return nil
	}
	if _, _, ok := pager.Bounds(len(matches), size, flagPage); !ok {
		return fmt.Errorf("page %d out of range (1-%d)", flagPage, pager.TotalPages(len(matches), size))
	}

	t := newTable(out)
	t.Header([]string{"ID", "Title", "Excerpt"})
	for _, a := range pager.Slice(matches, size, flagPage) {
		if err := t.Append([]string{strconv.Itoa(a.ID), excerpt(a.Title, 60), excerpt(a.Body, 50)}); err != nil {
			return fmt.Errorf("rendering table: %w", err)
		}
	}
	if err := t.Render(); err != nil {
		return fmt.Errorf("rendering table: %w", err)
	}

	v := pager.Compute(len(matches), size, flagPage)
	fmt.Fprintln(out)
	fmt.Fprintln(out, formatWindow(v))
	fmt.Fprintln(out, dimColor.Sprint(formatRange(v)))
	return nil
}
