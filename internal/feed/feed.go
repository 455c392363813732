// Package feed serves articles from an RSS or Atom feed. Feeds carry no
// comments, so every article has an empty comment list.
package feed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/matheuskafuri/blogreader/internal/api"
	"github.com/mmcdole/gofeed"
)

const maxBody = 2000

type Source struct {
	url    string
	parser *gofeed.Parser

	mu    sync.RWMutex
	links []string // item links by position, from the last fetch
}

func NewSource(url string) *Source {
	return &Source{url: url, parser: gofeed.NewParser()}
}

func (s *Source) FetchArticles(ctx context.Context) ([]api.Article, error) {
	f, err := s.parser.ParseURLWithContext(s.url, ctx)
	if err != nil {
		return nil, api.NewNetworkError(api.OpArticles, statusOf(err), fmt.Errorf("fetching %s: %w", s.url, err))
	}

	links := make([]string, len(f.Items))
	for i, item := range f.Items {
		links[i] = strings.TrimSpace(item.Link)
	}
	s.mu.Lock()
	s.links = links
	s.mu.Unlock()

	return toArticles(f), nil
}

func (s *Source) FetchArticle(ctx context.Context, id int) (api.Article, error) {
	articles, err := s.FetchArticles(ctx)
	if err != nil {
		return api.Article{}, api.NewNetworkError(api.OpArticle, 0, err)
	}
	if id < 1 || id > len(articles) {
		return api.Article{}, api.NewNetworkError(api.OpArticle, 404, nil)
	}
	return articles[id-1], nil
}

func (s *Source) FetchComments(ctx context.Context, articleID int) ([]api.Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, api.NewNetworkError(api.OpComments, 0, err)
	}
	return []api.Comment{}, nil
}

// ArticleURL is the item's own link as of the last fetch. Items without one,
// or not fetched yet, fall back to the feed URL.
func (s *Source) ArticleURL(id int) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id >= 1 && id <= len(s.links) && s.links[id-1] != "" {
		return s.links[id-1]
	}
	return s.url
}

func toArticles(f *gofeed.Feed) []api.Article {
	articles := make([]api.Article, 0, len(f.Items))
	for i, item := range f.Items {
		body := item.Description
		if body == "" {
			body = item.Content
		}
		articles = append(articles, api.Article{
			ID:    i + 1,
			Title: strings.TrimSpace(item.Title),
			Body:  truncate(stripHTML(body), maxBody),
		})
	}
	return articles
}

func statusOf(err error) int {
	var he gofeed.HTTPError
	if errors.As(err, &he) {
		return he.StatusCode
	}
	return 0
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

func stripHTML(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
