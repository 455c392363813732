package cmd

import (
	"fmt"

	"github.com/matheuskafuri/blogreader/internal/cache"
	"github.com/matheuskafuri/blogreader/internal/session"
	"github.com/matheuskafuri/blogreader/internal/tui"
	"github.com/spf13/cobra"
)

func runTUI(cmd *cobra.Command, args []string) error {
	src, err := openSource(appCfg, flagSource)
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}

	return tui.Run(tui.RunOpts{
		Cfg:      appCfg,
		Source:   src,
		Comments: cache.Open(src, logger.Named("cache")),
		Session:  session.New(),
		Resetter: session.NewResetter(appCfg.ResetDuration(), logger.Named("reset")),
		Logger:   logger.Named("tui"),
		URLFor:   src.ArticleURL,
	})
}
