package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/matheuskafuri/blogreader/internal/api"
	"github.com/matheuskafuri/blogreader/internal/browser"
	"github.com/matheuskafuri/blogreader/internal/cache"
	"github.com/matheuskafuri/blogreader/internal/config"
	"github.com/matheuskafuri/blogreader/internal/listing"
	"github.com/matheuskafuri/blogreader/internal/search"
	"github.com/matheuskafuri/blogreader/internal/session"
	"go.uber.org/zap"
)

type mode int

const (
	modeNormal mode = iota
	modeSearch
	modeComments
	modeDetail
	modeLogin
	modeReset
	modeHelp
)

type App struct {
	source   api.Source
	comments *cache.Cache
	session  *session.Session
	resetter *session.Resetter
	logger   *zap.Logger
	urlFor   func(int) string

	ctx    context.Context
	cancel context.CancelFunc

	articles *listing.List[api.Article]
	cursor   int
	mode     mode

	width  int
	height int

	// Sub-components
	searchInput textinput.Model
	nameInput   textinput.Model
	emailInput  textinput.Model
	resetInput  textinput.Model
	spinner     spinner.Model

	// Comment modal and detail screen
	selected api.Article
	detail   listing.Region[api.Article]
	thread   listing.Region[[]api.Comment]
	scroll   int

	// Forms
	formErr   error
	resetting bool
	resetSent string

	notice string
	err    error
}

// RunOpts holds all parameters for launching the TUI.
type RunOpts struct {
	Cfg      *config.Config
	Source   api.Source
	Comments *cache.Cache
	Session  *session.Session
	Resetter *session.Resetter
	Logger   *zap.Logger
	// URLFor maps an article id to the page opened by "o".
	URLFor func(id int) string
}

func NewApp(opts RunOpts) *App {
	ti := textinput.New()
	ti.Placeholder = "Search by title..."
	ti.Prompt = searchPromptStyle.Render("/ ")
	ti.CharLimit = 100

	name := textinput.New()
	name.Placeholder = "Ada Lovelace"
	name.Prompt = "Name  "
	name.CharLimit = 80

	email := textinput.New()
	email.Placeholder = "ada@example.com"
	email.Prompt = "Email "
	email.CharLimit = 120

	reset := textinput.New()
	reset.Placeholder = "you@example.com"
	reset.Prompt = "Email "
	reset.CharLimit = 120

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = spinnerStyle

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg := opts.Cfg
	if cfg == nil {
		cfg = &config.Config{}
	}
	sess := opts.Session
	if sess == nil {
		sess = session.New()
	}
	comments := opts.Comments
	if comments == nil {
		comments = cache.Open(opts.Source, logger)
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &App{
		source:      opts.Source,
		comments:    comments,
		session:     sess,
		resetter:    opts.Resetter,
		logger:      logger,
		urlFor:      opts.URLFor,
		ctx:         ctx,
		cancel:      cancel,
		articles:    listing.New(cfg.GetPageSize(), cfg.DebounceDuration(), articleTitle),
		searchInput: ti,
		nameInput:   name,
		emailInput:  email,
		resetInput:  reset,
		spinner:     sp,
	}
}

func articleTitle(a api.Article) string { return a.Title }

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.loadArticles(), a.spinner.Tick)
}

// loadArticles starts a new list request. Responses to earlier requests are
// dropped when they arrive.
func (a *App) loadArticles() tea.Cmd {
	tok := a.articles.Begin()
	a.cursor = 0
	src, ctx := a.source, a.ctx
	return func() tea.Msg {
		articles, err := src.FetchArticles(ctx)
		if err != nil {
			return articlesErrMsg{tok: tok, err: err}
		}
		return articlesLoadedMsg{tok: tok, articles: articles}
	}
}

func (a *App) loadArticle(id int) tea.Cmd {
	tok := a.detail.Begin()
	src, ctx := a.source, a.ctx
	return func() tea.Msg {
		article, err := src.FetchArticle(ctx, id)
		if err != nil {
			return articleErrMsg{tok: tok, err: err}
		}
		return articleLoadedMsg{tok: tok, article: article}
	}
}

// loadComments serves from the comment cache when it can, so reopening an
// article does not flash a spinner. A cached Get returns at once and still
// counts the hit.
func (a *App) loadComments(id int) tea.Cmd {
	tok := a.thread.Begin()
	if _, ok := a.comments.Peek(id); ok {
		if comments, err := a.comments.Get(a.ctx, id); err == nil {
			a.thread.Resolve(tok, comments)
			return nil
		}
	}
	c, ctx := a.comments, a.ctx
	return func() tea.Msg {
		comments, err := c.Get(ctx, id)
		if err != nil {
			return commentsErrMsg{tok: tok, err: err}
		}
		return commentsLoadedMsg{tok: tok, comments: comments}
	}
}

func debounceCmd(t search.Tick) tea.Cmd {
	return tea.Tick(t.Delay, func(time.Time) tea.Msg {
		return debounceMsg{tag: t.Tag}
	})
}

func openBrowserCmd(url string) tea.Cmd {
	return func() tea.Msg {
		err := browser.Open(url)
		if err != nil {
			return statusErrMsg{err: err}
		}
		return nil
	}
}

func (a *App) sendResetCmd(email string) tea.Cmd {
	r, ctx := a.resetter, a.ctx
	return func() tea.Msg {
		return resetDoneMsg{email: email, err: r.Send(ctx, email)}
	}
}

func (a *App) loading() bool {
	return a.articles.State() == listing.Loading ||
		a.detail.State() == listing.Loading ||
		a.thread.State() == listing.Loading ||
		a.resetting
}

func (a *App) quit() (tea.Model, tea.Cmd) {
	a.articles.Close()
	a.detail.Release()
	a.thread.Release()
	a.cancel()
	return a, tea.Quit
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		// Clear sticky messages on any keypress
		a.err = nil
		a.notice = ""
		return a.handleKey(msg)

	case articlesLoadedMsg:
		if a.articles.Resolve(msg.tok, msg.articles) {
			a.cursor = 0
			a.logger.Debug("articles loaded", zap.Int("count", len(msg.articles)))
		}
		return a, nil

	case articlesErrMsg:
		if a.articles.Fail(msg.tok, msg.err) {
			a.logFailure("articles", msg.err)
		}
		return a, nil

	case articleLoadedMsg:
		a.detail.Resolve(msg.tok, msg.article)
		return a, nil

	case articleErrMsg:
		if a.detail.Fail(msg.tok, msg.err) {
			a.logFailure("article", msg.err)
		}
		return a, nil

	case commentsLoadedMsg:
		a.thread.Resolve(msg.tok, msg.comments)
		return a, nil

	case commentsErrMsg:
		if a.thread.Fail(msg.tok, msg.err) {
			a.logFailure("comments", msg.err)
		}
		return a, nil

	case debounceMsg:
		if a.articles.Settle(msg.tag) {
			a.cursor = 0
		}
		return a, nil

	case resetDoneMsg:
		a.resetting = false
		if msg.err != nil {
			a.formErr = msg.err
			return a, nil
		}
		a.resetSent = msg.email
		return a, nil

	case statusErrMsg:
		a.err = msg.err
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	return a, nil
}

func (a *App) logFailure(what string, err error) {
	fields := []zap.Field{zap.String("region", what), zap.Error(err)}
	var ne *api.NetworkError
	if errors.As(err, &ne) {
		fields = append(fields, zap.Int("status", ne.StatusCode))
	}
	a.logger.Warn("load failed", fields...)
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global keys
	switch msg.String() {
	case "ctrl+c":
		return a.quit()
	}

	// Mode-specific handling
	switch a.mode {
	case modeSearch:
		return a.handleSearchKey(msg)
	case modeComments, modeDetail:
		return a.handleReaderKey(msg)
	case modeLogin:
		return a.handleLoginKey(msg)
	case modeReset:
		return a.handleResetKey(msg)
	case modeHelp:
		if msg.String() == "?" || msg.String() == "esc" || msg.String() == "q" {
			a.mode = modeNormal
		}
		return a, nil
	}

	// Normal mode
	visible := a.articles.Visible()
	switch msg.String() {
	case "q":
		return a.quit()
	case "j", "down":
		if a.cursor < len(visible)-1 {
			a.cursor++
		}
		return a, nil
	case "k", "up":
		if a.cursor > 0 {
			a.cursor--
		}
		return a, nil
	case "n", "right":
		return a.page(a.articles.Next())
	case "p", "left":
		return a.page(a.articles.Prev())
	case "g":
		return a.page(a.articles.First())
	case "G":
		return a.page(a.articles.Last())
	case "c":
		if a.cursor < len(visible) {
			a.selected = visible[a.cursor]
			a.scroll = 0
			a.mode = modeComments
			return a, tea.Batch(a.loadComments(a.selected.ID), a.spinner.Tick)
		}
		return a, nil
	case "enter":
		if a.cursor < len(visible) {
			a.selected = visible[a.cursor]
			a.scroll = 0
			a.mode = modeDetail
			id := a.selected.ID
			return a, tea.Batch(a.loadArticle(id), a.loadComments(id), a.spinner.Tick)
		}
		return a, nil
	case "o":
		if a.cursor < len(visible) {
			return a, a.openArticle(visible[a.cursor].ID)
		}
		return a, nil
	case "r":
		if a.articles.State() != listing.Loading {
			return a, tea.Batch(a.loadArticles(), a.spinner.Tick)
		}
		return a, nil
	case "/":
		a.mode = modeSearch
		a.searchInput.Focus()
		return a, textinput.Blink
	case "L":
		if a.session.State() == session.Authenticated {
			if err := a.session.Logout(); err != nil {
				a.err = err
				return a, nil
			}
			a.notice = "Signed out"
			return a, nil
		}
		a.mode = modeLogin
		a.formErr = nil
		a.nameInput.SetValue("")
		a.emailInput.SetValue("")
		a.emailInput.Blur()
		a.nameInput.Focus()
		return a, textinput.Blink
	case "R":
		if a.resetter == nil {
			return a, nil
		}
		a.mode = modeReset
		a.formErr = nil
		a.resetSent = ""
		a.resetInput.SetValue("")
		a.resetInput.Focus()
		return a, textinput.Blink
	case "?":
		a.mode = modeHelp
		return a, nil
	}

	return a, nil
}

func (a *App) page(changed bool) (tea.Model, tea.Cmd) {
	if changed {
		a.cursor = 0
	}
	return a, nil
}

func (a *App) openArticle(id int) tea.Cmd {
	if a.urlFor == nil {
		return nil
	}
	return openBrowserCmd(a.urlFor(id))
}

func (a *App) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.mode = modeNormal
		a.searchInput.SetValue("")
		a.searchInput.Blur()
		a.articles.Type("")
		a.articles.Apply()
		a.cursor = 0
		return a, nil
	case "enter":
		a.mode = modeNormal
		a.searchInput.Blur()
		a.articles.Apply()
		a.cursor = 0
		return a, nil
	}

	var cmd tea.Cmd
	a.searchInput, cmd = a.searchInput.Update(msg)
	// Only debounce on actual value changes, not cursor moves etc.
	if v := a.searchInput.Value(); v != a.articles.RawQuery() {
		return a, tea.Batch(cmd, debounceCmd(a.articles.Type(v)))
	}
	return a, cmd
}

// handleReaderKey serves the comment modal and the detail screen.
func (a *App) handleReaderKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "backspace":
		a.closeReader()
		return a, nil
	case "q":
		return a.quit()
	case "j", "down":
		a.scroll = min(a.scroll+1, a.maxScroll())
		return a, nil
	case "k", "up":
		if a.scroll > 0 {
			a.scroll--
		}
		return a, nil
	case "o":
		return a, a.openArticle(a.selected.ID)
	case "r":
		var cmds []tea.Cmd
		if a.mode == modeDetail && a.detail.State() == listing.Failed {
			cmds = append(cmds, a.loadArticle(a.selected.ID))
		}
		if a.thread.State() == listing.Failed {
			cmds = append(cmds, a.loadComments(a.selected.ID))
		}
		if len(cmds) > 0 {
			cmds = append(cmds, a.spinner.Tick)
		}
		return a, tea.Batch(cmds...)
	}
	return a, nil
}

// closeReader resets both regions, which also invalidates their in-flight
// tokens.
func (a *App) closeReader() {
	a.mode = modeNormal
	a.scroll = 0
	a.detail.Reset()
	a.thread.Reset()
}

func (a *App) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.mode = modeNormal
		a.nameInput.Blur()
		a.emailInput.Blur()
		return a, nil
	case "tab", "shift+tab", "up", "down":
		if a.nameInput.Focused() {
			a.nameInput.Blur()
			a.emailInput.Focus()
		} else {
			a.emailInput.Blur()
			a.nameInput.Focus()
		}
		return a, textinput.Blink
	case "enter":
		u := session.User{Name: a.nameInput.Value(), Email: a.emailInput.Value()}
		if err := a.session.Login(u); err != nil {
			a.formErr = err
			return a, nil
		}
		a.formErr = nil
		a.mode = modeNormal
		a.nameInput.Blur()
		a.emailInput.Blur()
		if user, ok := a.session.User(); ok {
			a.notice = "Welcome, " + user.Name
			a.logger.Info("signed in", zap.String("email", user.Email))
		}
		return a, nil
	}

	var cmd tea.Cmd
	if a.nameInput.Focused() {
		a.nameInput, cmd = a.nameInput.Update(msg)
	} else {
		a.emailInput, cmd = a.emailInput.Update(msg)
	}
	return a, cmd
}

func (a *App) handleResetKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.mode = modeNormal
		a.resetInput.Blur()
		return a, nil
	case "enter":
		if a.resetting {
			return a, nil
		}
		email := strings.TrimSpace(a.resetInput.Value())
		if err := session.ValidateResetEmail(email); err != nil {
			a.formErr = err
			return a, nil
		}
		a.formErr = nil
		a.resetSent = ""
		a.resetting = true
		return a, tea.Batch(a.sendResetCmd(email), a.spinner.Tick)
	}

	if a.resetting {
		return a, nil
	}
	var cmd tea.Cmd
	a.resetInput, cmd = a.resetInput.Update(msg)
	return a, cmd
}

func (a *App) withBottomBar(content string, hints string) string {
	bar := renderBottomBar(hints, a.width)
	lines := strings.Split(content, "\n")
	for len(lines) < a.height-1 {
		lines = append(lines, "")
	}
	if len(lines) >= a.height {
		lines = lines[:a.height-1]
	}
	lines = append(lines, bar)
	return strings.Join(lines, "\n")
}

func (a *App) header() string {
	left := headerStyle.Render("blogreader")
	right := headerUserStyle.Render("anonymous")
	if u, ok := a.session.User(); ok {
		right = commentAvatarStyle.Render(u.Initial()) + " " + headerUserStyle.Render(u.Name)
	}
	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return left + fmt.Sprintf("%*s", gap, "") + right
}

func (a *App) View() string {
	if a.width == 0 {
		return lipgloss.NewStyle().Foreground(colorAccent).Render("  blogreader")
	}

	switch a.mode {
	case modeHelp:
		return a.withBottomBar(a.renderHelp(), "? close  q quit")
	case modeDetail:
		return a.renderDetail()
	case modeComments:
		return a.withBottomBar(a.renderCommentsModal(), "j/k scroll  o open  esc close")
	case modeLogin:
		return a.withBottomBar(a.renderLogin(), "tab switch  enter sign in  esc cancel")
	case modeReset:
		return a.withBottomBar(a.renderReset(), "enter send  esc back")
	}

	// Layout calculations
	headerHeight := 1
	searchHeight := 1
	footerHeight := 2 // range + page bar
	statusHeight := 1
	contentHeight := a.height - headerHeight - searchHeight - footerHeight - statusHeight - 2 // borders
	if contentHeight < 4 {
		contentHeight = 4
	}

	var searchLine string
	switch {
	case a.mode == modeSearch:
		searchLine = a.searchInput.View()
	case a.articles.Query() != "":
		searchLine = searchPromptStyle.Render("/ ") + a.articles.Query()
	default:
		searchLine = helpDimStyle.Render("/ to search")
	}

	innerW := a.width - 4
	var body, footer string
	switch a.articles.State() {
	case listing.Loading:
		body = "\n  " + a.spinner.View() + " Loading articles..."
	case listing.Failed:
		body = "\n  " + errorStyle.Render("✗ "+a.articles.Err().Error()) +
			"\n\n  " + helpDimStyle.Render("press r to retry")
	case listing.Ready:
		body = renderList(a.articles.Visible(), a.cursor, contentHeight, innerW)
		v := a.articles.Pagination()
		footer = lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.PlaceHorizontal(a.width, lipgloss.Center, renderRange(v)),
			renderPageBar(v, a.width),
		)
	}

	pane := listPaneStyle.Width(a.width - 2).Height(contentHeight).Render(body)

	status := renderStatusBar(
		len(a.articles.Filtered()),
		a.articles.Query(),
		a.comments.Stats(),
		a.width,
		"/ search  c comments  enter read  L login  ? help",
	)
	switch {
	case a.err != nil:
		status = errorStyle.Render(a.err.Error())
	case a.notice != "":
		status = successStyle.Render(a.notice)
	}

	parts := []string{a.header(), searchLine, pane}
	if footer != "" {
		parts = append(parts, footer)
	}
	parts = append(parts, status)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// readerContent is the scrollable text of the comment modal or detail
// screen, with the number of lines that fit.
func (a *App) readerContent() (string, int) {
	if a.mode == modeDetail {
		w := min(a.width-4, 100)
		content := renderArticle(&a.detail, a.spinner.View(), w) + "\n\n" +
			renderComments(&a.thread, a.spinner.View(), w)
		return content, max(a.height-3, 4)
	}

	w := min(a.width-8, 90)
	title := modalTitleStyle.Render(truncateStr(a.selected.Title, w-4))
	excerpt := itemBodyStyle.Render(wrapText(truncateStr(oneLine(a.selected.Body), 3*w), w-2))
	comments := renderComments(&a.thread, a.spinner.View(), w-2)
	return title + "\n\n" + excerpt + "\n\n" + comments, max(a.height-8, 6)
}

func (a *App) maxScroll() int {
	content, h := a.readerContent()
	return max(0, strings.Count(content, "\n")+1-h)
}

func (a *App) renderCommentsModal() string {
	w := min(a.width-8, 90)
	content, h := a.readerContent()
	card := modalStyle.Width(w).Render(scrollLines(content, a.scroll, h))
	return lipgloss.Place(a.width, a.height-1, lipgloss.Center, lipgloss.Center, card)
}

func (a *App) renderDetail() string {
	content, h := a.readerContent()
	body := lipgloss.NewStyle().PaddingLeft(2).Render(scrollLines(content, a.scroll, h))

	return a.withBottomBar(a.header()+"\n"+body, "j/k scroll  o open  r retry  esc back")
}

func (a *App) renderLogin() string {
	form := modalTitleStyle.Render("Sign in") + "\n\n" +
		a.nameInput.View() + "\n" +
		a.emailInput.View()
	if a.formErr != nil {
		form += "\n\n" + errorStyle.Render(a.formErr.Error())
	}
	return lipgloss.Place(a.width, a.height-1, lipgloss.Center, lipgloss.Center, formCardStyle.Render(form))
}

func (a *App) renderReset() string {
	form := modalTitleStyle.Render("Reset password") + "\n\n" +
		helpDimStyle.Render("We'll send a reset link to your inbox.") + "\n\n" +
		a.resetInput.View()
	switch {
	case a.resetting:
		form += "\n\n" + a.spinner.View() + " Sending..."
	case a.formErr != nil:
		form += "\n\n" + errorStyle.Render(a.formErr.Error())
	case a.resetSent != "":
		form += "\n\n" + successStyle.Render("Reset link sent to "+a.resetSent)
	}
	return lipgloss.Place(a.width, a.height-1, lipgloss.Center, lipgloss.Center, formCardStyle.Render(form))
}

func (a *App) renderHelp() string {
	title := lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Render("blogreader")
	dim := helpDimStyle

	help := title + dim.Render(" · Keyboard Shortcuts") + "\n\n" +
		dim.Render("Navigation") + "\n" +
		"  j/k, ↑/↓     Move through the page\n" +
		"  n/→, p/←     Next / previous page\n" +
		"  g, G          First / last page\n\n" +
		dim.Render("Articles") + "\n" +
		"  /             Search titles\n" +
		"  c             Show comments\n" +
		"  enter         Read article\n" +
		"  o             Open in browser\n" +
		"  r             Reload\n\n" +
		dim.Render("Account") + "\n" +
		"  L             Sign in / sign out\n" +
		"  R             Reset password\n\n" +
		dim.Render("General") + "\n" +
		"  esc           Close\n" +
		"  ?             Toggle this help\n" +
		"  q, ctrl+c    Quit"

	card := helpCardStyle.Render(help)

	return lipgloss.Place(a.width, a.height-1, lipgloss.Center, lipgloss.Center, card)
}

// Run starts the TUI application.
func Run(opts RunOpts) error {
	app := NewApp(opts)
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	app.articles.Close()
	app.cancel()
	return err
}
