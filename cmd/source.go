package cmd

import (
	"github.com/matheuskafuri/blogreader/internal/api"
	"github.com/matheuskafuri/blogreader/internal/config"
	"github.com/matheuskafuri/blogreader/internal/feed"
	"go.uber.org/zap"
)

// articleSource is a Source that can also link to an article's page.
type articleSource interface {
	api.Source
	ArticleURL(id int) string
}

func openSource(cfg *config.Config, name string) (articleSource, error) {
	src, err := cfg.ActiveSource(name)
	if err != nil {
		return nil, err
	}

	logger.Debug("using source",
		zap.String("name", src.Name),
		zap.String("type", src.Type),
		zap.String("url", src.URL),
	)

	switch src.Type {
	case config.SourceRSS:
		return feed.NewSource(src.URL), nil
	default:
		return api.NewClient(src.URL,
			api.WithRateLimit(cfg.RequestsPerSecond),
			api.WithLogger(logger.Named("api")),
		), nil
	}
}
