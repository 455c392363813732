package tui

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/matheuskafuri/blogreader/internal/api"
	"github.com/matheuskafuri/blogreader/internal/config"
	"github.com/matheuskafuri/blogreader/internal/listing"
	"github.com/matheuskafuri/blogreader/internal/session"
)

type fakeSource struct {
	mu           sync.Mutex
	articles     []api.Article
	articlesErr  error
	articleErr   error
	comments     []api.Comment
	commentCalls int
}

func (f *fakeSource) FetchArticles(context.Context) ([]api.Article, error) {
	if f.articlesErr != nil {
		return nil, f.articlesErr
	}
	return f.articles, nil
}

func (f *fakeSource) FetchArticle(_ context.Context, id int) (api.Article, error) {
	if f.articleErr != nil {
		return api.Article{}, f.articleErr
	}
	for _, a := range f.articles {
		if a.ID == id {
			return a, nil
		}
	}
	return api.Article{}, api.NewNetworkError(api.OpArticle, http.StatusNotFound, nil)
}

func (f *fakeSource) FetchComments(_ context.Context, id int) ([]api.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commentCalls++
	return f.comments, nil
}

func (f *fakeSource) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.commentCalls
}

func makeArticles(n int) []api.Article {
	out := make([]api.Article, n)
	for i := range out {
		out[i] = api.Article{ID: i + 1, Title: fmt.Sprintf("Post %d", i+1), Body: "body"}
	}
	return out
}

func newTestApp(src *fakeSource) *App {
	a := NewApp(RunOpts{
		Cfg:      &config.Config{PageSize: 10},
		Source:   src,
		Resetter: session.NewResetter(0, nil),
		URLFor:   func(id int) string { return fmt.Sprintf("https://example.com/%d", id) },
	})
	a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return a
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// drain runs cmd and feeds every resulting message back into the app,
// skipping spinner ticks.
func drain(a *App, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case nil, spinner.TickMsg:
	case tea.BatchMsg:
		for _, c := range msg {
			drain(a, c)
		}
	default:
		_, next := a.Update(msg)
		drain(a, next)
	}
}

func press(a *App, keys ...string) {
	for _, k := range keys {
		_, cmd := a.Update(key(k))
		drain(a, cmd)
	}
}

func loaded(t *testing.T, src *fakeSource) *App {
	t.Helper()
	a := newTestApp(src)
	drain(a, a.loadArticles())
	if got := a.articles.State(); got != listing.Ready {
		t.Fatalf("expected ready list, got %s", got)
	}
	return a
}

func TestLoadFailureShowsOnlyError(t *testing.T) {
	src := &fakeSource{articlesErr: api.NewNetworkError(api.OpArticles, http.StatusInternalServerError, nil)}
	a := newTestApp(src)
	drain(a, a.loadArticles())

	view := a.View()
	if !strings.Contains(view, "articles failed to load") {
		t.Errorf("expected error message in view:\n%s", view)
	}
	for _, absent := range []string{"Showing", "« g", "No results", "Post "} {
		if strings.Contains(view, absent) {
			t.Errorf("view should not contain %q:\n%s", absent, view)
		}
	}
}

func TestLoadedListShowsPickerAndRange(t *testing.T) {
	a := loaded(t, &fakeSource{articles: makeArticles(25)})

	view := a.View()
	for _, want := range []string{"Post 1", "Showing 1–10 of 25 results", "« g", "G »"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if strings.Contains(view, "Post 11") {
		t.Error("second page item rendered on first page")
	}
}

func TestStaleArticlesResponseDropped(t *testing.T) {
	src := &fakeSource{articles: makeArticles(3)}
	a := newTestApp(src)

	stale := a.loadArticles()
	fresh := a.loadArticles()

	// The newer request wins even when the older one answers last.
	drain(a, fresh)
	a.Update(articlesErrMsg{tok: 1, err: fmt.Errorf("late")})
	drain(a, stale)

	if a.articles.State() != listing.Ready {
		t.Fatalf("expected ready, got %s", a.articles.State())
	}
	if len(a.articles.Filtered()) != 3 {
		t.Errorf("expected 3 articles, got %d", len(a.articles.Filtered()))
	}
}

func TestPagingKeys(t *testing.T) {
	a := loaded(t, &fakeSource{articles: makeArticles(25)})

	press(a, "j", "j")
	if a.cursor != 2 {
		t.Fatalf("expected cursor 2, got %d", a.cursor)
	}

	steps := []struct {
		key  string
		want int
	}{
		{"n", 2},
		{"right", 3},
		{"n", 3},
		{"p", 2},
		{"g", 1},
		{"left", 1},
		{"G", 3},
	}
	for _, s := range steps {
		press(a, s.key)
		if got := a.articles.Page(); got != s.want {
			t.Fatalf("after %q: page %d, want %d", s.key, got, s.want)
		}
	}
	if a.cursor != 0 {
		t.Errorf("expected cursor reset on page change, got %d", a.cursor)
	}
}

func TestSearchSettlesOnLatestTick(t *testing.T) {
	src := &fakeSource{articles: []api.Article{
		{ID: 1, Title: "Hello World"},
		{ID: 2, Title: "Foo Bar"},
		{ID: 3, Title: "hello again"},
	}}
	a := loaded(t, src)
	press(a, "/")

	a.Update(key("hel"))
	a.Update(key("lo"))
	if a.articles.RawQuery() != "hello" {
		t.Fatalf("raw query = %q", a.articles.RawQuery())
	}
	if a.articles.Query() != "" {
		t.Fatalf("query applied before debounce: %q", a.articles.Query())
	}

	a.Update(debounceMsg{tag: 1})
	if a.articles.Query() != "" {
		t.Fatalf("superseded tick applied: %q", a.articles.Query())
	}

	a.Update(debounceMsg{tag: 2})
	if a.articles.Query() != "hello" {
		t.Fatalf("query = %q, want hello", a.articles.Query())
	}
	if got := len(a.articles.Filtered()); got != 2 {
		t.Errorf("expected 2 matches, got %d", got)
	}
}

func TestSearchResetsPage(t *testing.T) {
	a := loaded(t, &fakeSource{articles: makeArticles(25)})
	press(a, "G")

	press(a, "/")
	a.Update(key("Post 2"))
	press(a, "enter")

	if a.articles.Query() != "Post 2" {
		t.Fatalf("enter should apply query, got %q", a.articles.Query())
	}
	if a.articles.Page() != 1 {
		t.Errorf("expected page 1, got %d", a.articles.Page())
	}

	press(a, "/", "esc")
	if a.articles.Query() != "" {
		t.Errorf("esc should clear query, got %q", a.articles.Query())
	}
}

func TestSearchWithNoMatches(t *testing.T) {
	a := loaded(t, &fakeSource{articles: makeArticles(5)})
	press(a, "/")
	a.Update(key("zzz"))
	press(a, "enter")

	view := a.View()
	if !strings.Contains(view, "No results found") {
		t.Errorf("expected empty state:\n%s", view)
	}
	if strings.Contains(view, "Showing") {
		t.Error("range should be hidden with no results")
	}
}

func TestCommentsModalUsesCache(t *testing.T) {
	src := &fakeSource{
		articles: makeArticles(3),
		comments: []api.Comment{{ID: 1, PostID: 1, Name: "jane", Email: "jane@example.com", Body: "nice"}},
	}
	a := loaded(t, src)

	press(a, "c")
	if a.mode != modeComments {
		t.Fatalf("expected comments modal, mode %d", a.mode)
	}
	if a.thread.State() != listing.Ready {
		t.Fatalf("expected comments ready, got %s", a.thread.State())
	}
	if view := a.View(); !strings.Contains(view, "jane@example.com") {
		t.Errorf("modal missing comment:\n%s", view)
	}

	press(a, "esc", "c")
	if a.thread.State() != listing.Ready {
		t.Fatalf("reopened modal not ready: %s", a.thread.State())
	}
	if got := src.calls(); got != 1 {
		t.Errorf("expected 1 comment fetch, got %d", got)
	}

	press(a, "esc", "c", "esc")
	st := a.comments.Stats()
	if st.Hits != 2 || st.Misses != 1 {
		t.Errorf("expected 2 hits and 1 miss, got %+v", st)
	}
	if view := a.View(); !strings.Contains(view, "comments cached 2/3") {
		t.Errorf("status bar should report cache hits:\n%s", view)
	}
}

func TestReaderScrollStopsAtEnd(t *testing.T) {
	comments := make([]api.Comment, 30)
	for i := range comments {
		comments[i] = api.Comment{ID: i + 1, PostID: 1, Name: fmt.Sprintf("user%d", i), Email: "u@example.com", Body: "text"}
	}
	a := loaded(t, &fakeSource{articles: makeArticles(1), comments: comments})
	press(a, "c")

	limit := a.maxScroll()
	if limit == 0 {
		t.Fatal("expected content taller than the modal")
	}
	for i := 0; i < limit+20; i++ {
		press(a, "j")
	}
	if a.scroll != limit {
		t.Fatalf("scroll = %d, want %d", a.scroll, limit)
	}
	if view := a.View(); !strings.Contains(view, "user29") {
		t.Errorf("bottom of the thread should stay visible:\n%s", view)
	}

	press(a, "k")
	if a.scroll != limit-1 {
		t.Errorf("scroll up from the end: got %d, want %d", a.scroll, limit-1)
	}
}

func TestDetailRegionsAreIndependent(t *testing.T) {
	src := &fakeSource{
		articles:   makeArticles(3),
		articleErr: api.NewNetworkError(api.OpArticle, http.StatusNotFound, nil),
		comments:   []api.Comment{{ID: 7, Name: "bob", Email: "bob@example.com", Body: "hi"}},
	}
	a := loaded(t, src)

	press(a, "enter")
	if a.detail.State() != listing.Failed {
		t.Errorf("expected article failure, got %s", a.detail.State())
	}
	if a.thread.State() != listing.Ready {
		t.Errorf("expected comments ready, got %s", a.thread.State())
	}

	view := a.View()
	if !strings.Contains(view, "article not found") || !strings.Contains(view, "bob@example.com") {
		t.Errorf("detail view:\n%s", view)
	}
}

func TestClosingReaderDropsLateResponses(t *testing.T) {
	a := loaded(t, &fakeSource{articles: makeArticles(3)})

	_, pending := a.Update(key("enter"))
	press(a, "esc")
	drain(a, pending)

	if a.detail.State() != listing.Idle || a.thread.State() != listing.Idle {
		t.Errorf("late responses applied: detail %s, thread %s", a.detail.State(), a.thread.State())
	}
}

func TestLoginLogout(t *testing.T) {
	a := loaded(t, &fakeSource{articles: makeArticles(1)})

	press(a, "L")
	a.Update(key("Ada"))
	press(a, "tab")
	a.Update(key("not-an-email"))
	press(a, "enter")
	if a.formErr == nil || a.formErr.Error() != "invalid email format" {
		t.Fatalf("expected email format error, got %v", a.formErr)
	}

	a.emailInput.SetValue("ada@example.com")
	press(a, "enter")
	if a.session.State() != session.Authenticated {
		t.Fatalf("expected authenticated, got %s", a.session.State())
	}
	if view := a.View(); !strings.Contains(view, "Ada") {
		t.Errorf("header missing user:\n%s", view)
	}

	press(a, "L")
	if a.session.State() != session.Anonymous {
		t.Errorf("expected anonymous after logout, got %s", a.session.State())
	}
}

func TestPasswordReset(t *testing.T) {
	a := loaded(t, &fakeSource{articles: makeArticles(1)})

	press(a, "R")
	press(a, "enter")
	if a.formErr != session.ErrEmailRequired {
		t.Fatalf("expected required error, got %v", a.formErr)
	}

	a.Update(key("ada@example.com"))
	press(a, "enter")
	if a.resetting {
		t.Fatal("reset still in progress")
	}
	if a.resetSent != "ada@example.com" {
		t.Errorf("expected confirmation for ada@example.com, got %q", a.resetSent)
	}
	if view := a.View(); !strings.Contains(view, "Reset link sent") {
		t.Errorf("missing confirmation:\n%s", view)
	}
}

func TestQuitReleasesList(t *testing.T) {
	a := loaded(t, &fakeSource{articles: makeArticles(3)})
	pending := a.loadArticles()

	_, cmd := a.Update(key("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	drain(a, pending)
	if a.articles.State() != listing.Loading {
		t.Errorf("response applied after quit: %s", a.articles.State())
	}
}
