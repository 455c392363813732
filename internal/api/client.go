package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const DefaultBaseURL = "https://jsonplaceholder.typicode.com"

// Client talks to a JSONPlaceholder-style REST API. Each call is a single GET
// with no retry; the only way to bound it is the caller's context.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithRateLimit paces outgoing requests. rps <= 0 leaves requests unpaced.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		logger:  zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// ArticleURL is the canonical address of a single article.
func (c *Client) ArticleURL(id int) string {
	return fmt.Sprintf("%s/posts/%d", c.baseURL, id)
}

func (c *Client) FetchArticles(ctx context.Context) ([]Article, error) {
	var articles []Article
	if err := c.get(ctx, OpArticles, "/posts", &articles); err != nil {
		return nil, err
	}
	return articles, nil
}

func (c *Client) FetchArticle(ctx context.Context, id int) (Article, error) {
	var a Article
	if err := c.get(ctx, OpArticle, fmt.Sprintf("/posts/%d", id), &a); err != nil {
		return Article{}, err
	}
	return a, nil
}

func (c *Client) FetchComments(ctx context.Context, articleID int) ([]Comment, error) {
	comments := []Comment{}
	if err := c.get(ctx, OpComments, fmt.Sprintf("/posts/%d/comments", articleID), &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (c *Client) get(ctx context.Context, op Op, path string, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return NewNetworkError(op, 0, err)
		}
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return NewNetworkError(op, 0, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		ne := NewNetworkError(op, 0, err)
		c.logger.Warn("request failed", zap.String("url", url), zap.String("error", ne.Detail()))
		return ne
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		ne := NewNetworkError(op, resp.StatusCode, nil)
		c.logger.Warn("unexpected status", zap.String("url", url), zap.Int("status", resp.StatusCode))
		return ne
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		ne := NewNetworkError(op, resp.StatusCode, fmt.Errorf("decoding response: %w", err))
		c.logger.Warn("bad response body", zap.String("url", url), zap.Error(err))
		return ne
	}

	c.logger.Debug("request ok", zap.String("url", url), zap.Int("status", resp.StatusCode))
	return nil
}
