package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/matheuskafuri/blogreader/internal/api"
	"github.com/matheuskafuri/blogreader/internal/cache"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print one article and its comments",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil || id < 1 {
		return fmt.Errorf("invalid article id %q", args[0])
	}

	src, err := openSource(appCfg, flagSource)
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}
	comments := cache.Open(src, logger.Named("cache"))

	// The article and its comments load independently; one failing does not
	// hide the other.
	var (
		article             api.Article
		thread              []api.Comment
		articleErr, listErr error
	)
	var g errgroup.Group
	g.Go(func() error {
		article, articleErr = src.FetchArticle(cmd.Context(), id)
		return nil
	})
	g.Go(func() error {
		thread, listErr = comments.Get(cmd.Context(), id)
		return nil
	})
	_ = g.Wait()

	out := cmd.OutOrStdout()
	if articleErr != nil {
		printError(out, articleErr.Error())
	} else {
		printHeader(out, article.Title)
		dimColor.Fprintf(out, "Article #%d · %s\n\n", article.ID, src.ArticleURL(article.ID))
		fmt.Fprintln(out, article.Body)
	}
	fmt.Fprintln(out)

	if listErr != nil {
		printError(out, listErr.Error())
	} else {
		printHeader(out, fmt.Sprintf("Comments (%d)", len(thread)))
		if len(thread) == 0 {
			dimColor.Fprintln(out, "No comments for this article.")
		}
		for _, c := range thread {
			headerColor.Fprintf(out, "%s ", c.Name)
			dimColor.Fprintf(out, "<%s>\n", c.Email)
			fmt.Fprintf(out, "  %s\n\n", excerpt(c.Body, 500))
		}
	}

	return errors.Join(articleErr, listErr)
}
