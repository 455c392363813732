package api

import (
	"errors"
	"fmt"
)

// Op names the accessor operation that failed.
type Op string

const (
	OpArticles Op = "articles"
	OpArticle  Op = "article"
	OpComments Op = "comments"
)

const (
	MsgArticlesFailed = "articles failed to load"
	MsgArticleMissing = "article not found"
	MsgCommentsFailed = "comments failed to load"
)

// NetworkError is the only error kind the accessor produces. Message is the
// static text shown to the user; StatusCode is 0 for transport failures.
type NetworkError struct {
	Op         Op
	Message    string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	return e.Message
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Detail includes the underlying cause, for logs.
func (e *NetworkError) Detail() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: HTTP %d", e.Message, e.StatusCode)
	default:
		return e.Message
	}
}

func messageFor(op Op) string {
	switch op {
	case OpArticle:
		return MsgArticleMissing
	case OpComments:
		return MsgCommentsFailed
	default:
		return MsgArticlesFailed
	}
}

// NewNetworkError builds the error for op with its fixed message.
func NewNetworkError(op Op, status int, err error) *NetworkError {
	return &NetworkError{Op: op, Message: messageFor(op), StatusCode: status, Err: err}
}

// IsNetworkError reports whether err is (or wraps) a *NetworkError.
func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}
