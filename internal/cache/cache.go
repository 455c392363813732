package cache

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/matheuskafuri/blogreader/internal/api"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Fetcher loads the comments of one article.
type Fetcher interface {
	FetchComments(ctx context.Context, articleID int) ([]api.Comment, error)
}

// Stats counts cache activity since Open.
type Stats struct {
	Hits    int
	Misses  int
	Fetches int
	Shared  int
}

// Cache memoizes comments per article id for the life of the process. There
// is no eviction. Concurrent misses for the same id wait on a single fetch.
type Cache struct {
	fetcher Fetcher
	logger  *zap.Logger

	mu      sync.RWMutex
	entries map[int][]api.Comment
	stats   Stats

	inflight singleflight.Group
}

func Open(f Fetcher, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		fetcher: f,
		logger:  logger,
		entries: make(map[int][]api.Comment),
	}
}

// Get returns the comments for articleID, fetching them on first use. Failed
// fetches are not stored, so the next Get tries again.
//
// Concurrent misses share one fetch, run under the context of the caller
// that started it. A caller that joined a flight whose starter was cancelled
// fetches again under its own context.
func (c *Cache) Get(ctx context.Context, articleID int) ([]api.Comment, error) {
	if comments, ok := c.lookup(articleID, true); ok {
		return comments, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := strconv.Itoa(articleID)
	for attempt := 0; ; attempt++ {
		ch := c.inflight.DoChan(key, func() (any, error) {
			return c.fetch(ctx, articleID)
		})

		var res singleflight.Result
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case res = <-ch:
		}

		if res.Shared {
			c.mu.Lock()
			c.stats.Shared++
			c.mu.Unlock()
		}
		if res.Err != nil {
			if attempt == 0 && ctx.Err() == nil && isContextErr(res.Err) {
				continue
			}
			c.logger.Warn("comments fetch failed", zap.Int("article", articleID), zap.Error(res.Err))
			return nil, res.Err
		}
		return res.Val.([]api.Comment), nil
	}
}

func (c *Cache) fetch(ctx context.Context, articleID int) ([]api.Comment, error) {
	// A flight for this id may have finished between lookup and DoChan.
	if comments, ok := c.lookup(articleID, false); ok {
		return comments, nil
	}

	c.mu.Lock()
	c.stats.Fetches++
	c.mu.Unlock()

	comments, err := c.fetcher.FetchComments(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []api.Comment{}
	}

	c.mu.Lock()
	c.entries[articleID] = comments
	c.mu.Unlock()
	c.logger.Debug("comments cached", zap.Int("article", articleID), zap.Int("count", len(comments)))
	return comments, nil
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func (c *Cache) lookup(articleID int, count bool) ([]api.Comment, bool) {
	if !count {
		c.mu.RLock()
		defer c.mu.RUnlock()
		comments, ok := c.entries[articleID]
		return comments, ok
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	comments, ok := c.entries[articleID]
	if ok {
		c.stats.Hits++
	} else {
		c.stats.Misses++
	}
	return comments, ok
}

// Peek returns cached comments without fetching. It does not touch Stats.
func (c *Cache) Peek(articleID int) ([]api.Comment, bool) {
	return c.lookup(articleID, false)
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats
}
