package tui

import (
	"github.com/matheuskafuri/blogreader/internal/api"
	"github.com/matheuskafuri/blogreader/internal/listing"
)

type articlesLoadedMsg struct {
	tok      listing.Token
	articles []api.Article
}

type articlesErrMsg struct {
	tok listing.Token
	err error
}

type articleLoadedMsg struct {
	tok     listing.Token
	article api.Article
}

type articleErrMsg struct {
	tok listing.Token
	err error
}

type commentsLoadedMsg struct {
	tok      listing.Token
	comments []api.Comment
}

type commentsErrMsg struct {
	tok listing.Token
	err error
}

// debounceMsg arrives when a search debounce tick expires.
type debounceMsg struct {
	tag uint64
}

type resetDoneMsg struct {
	email string
	err   error
}

type statusErrMsg struct {
	err error
}
