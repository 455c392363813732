package api

import "context"

type Article struct {
	ID     int    `json:"id"`
	UserID int    `json:"userId,omitempty"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

type Comment struct {
	ID     int    `json:"id"`
	PostID int    `json:"postId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Body   string `json:"body"`
}

// Source is anything that can serve articles and their comments.
type Source interface {
	FetchArticles(ctx context.Context) ([]Article, error)
	FetchArticle(ctx context.Context, id int) (Article, error)
	FetchComments(ctx context.Context, articleID int) ([]Comment, error)
}
