package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matheuskafuri/blogreader/internal/api"
	"github.com/matheuskafuri/blogreader/internal/config"
	"github.com/matheuskafuri/blogreader/internal/pager"
	"github.com/matheuskafuri/blogreader/internal/update"
)

func posts(n int) []api.Article {
	out := make([]api.Article, n)
	for i := range out {
		out[i] = api.Article{ID: i + 1, UserID: 1, Title: fmt.Sprintf("post %d", i+1), Body: "body text"}
	}
	return out
}

func newServer(t *testing.T, status int) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/posts", func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		json.NewEncoder(w).Encode(posts(25))
	})
	mux.HandleFunc("/posts/3", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(posts(3)[2])
	})
	mux.HandleFunc("/posts/3/comments", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]api.Comment{{ID: 1, PostID: 3, Name: "jane", Email: "jane@example.com", Body: "great"}})
	})
	mux.HandleFunc("/posts/4/comments", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	t.Setenv(config.EnvBaseURL, srv.URL)
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	flagQuery, flagPage, flagSource, flagVerbose, flagLogFile = "", 1, "", false, ""
	flagCheck, flagReleasesURL = false, update.DefaultReleasesURL

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "config.yaml")}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestListFirstPage(t *testing.T) {
	newServer(t, http.StatusOK)

	out, err := run(t, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, want := range []string{"post 1", "post 10", "Showing 1–10 of 25 results"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "post 11") {
		t.Errorf("second page leaked into first:\n%s", out)
	}
}

func TestListQueryAndPage(t *testing.T) {
	newServer(t, http.StatusOK)

	out, err := run(t, "list", "--query", "POST 2", "--page", "1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	// "post 2" and "post 20".."post 25"
	if !strings.Contains(out, "Showing 1–7 of 7 results") {
		t.Errorf("unexpected range:\n%s", out)
	}
}

func TestListServerError(t *testing.T) {
	newServer(t, http.StatusInternalServerError)

	out, err := run(t, "list")
	if err == nil || err.Error() != api.MsgArticlesFailed {
		t.Fatalf("expected %q, got %v", api.MsgArticlesFailed, err)
	}
	if strings.Contains(out, "Showing") || strings.Contains(out, "ID") {
		t.Errorf("no table or page window expected on failure:\n%s", out)
	}
}

func TestListPageOutOfRange(t *testing.T) {
	newServer(t, http.StatusOK)

	_, err := run(t, "list", "--page", "4")
	if err == nil || !strings.Contains(err.Error(), "out of range") {
		t.Errorf("expected out of range error, got %v", err)
	}
}

func TestListNoMatches(t *testing.T) {
	newServer(t, http.StatusOK)

	out, err := run(t, "list", "--query", "nothing like this")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "No results found") {
		t.Errorf("expected empty message:\n%s", out)
	}
}

func TestShow(t *testing.T) {
	newServer(t, http.StatusOK)

	out, err := run(t, "show", "3")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	for _, want := range []string{"post 3", "Comments (1)", "jane@example.com", "great"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestShowCommentsFailIndependently(t *testing.T) {
	newServer(t, http.StatusOK)

	// /posts/4 is not served, so both halves fail with their own message.
	out, err := run(t, "show", "4")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(out, api.MsgArticleMissing) || !strings.Contains(out, api.MsgCommentsFailed) {
		t.Errorf("expected both messages:\n%s", out)
	}
}

func TestShowRejectsBadID(t *testing.T) {
	_, err := run(t, "show", "abc")
	if err == nil || !strings.Contains(err.Error(), "invalid article id") {
		t.Errorf("expected invalid id error, got %v", err)
	}
}

func TestVersion(t *testing.T) {
	SetVersionInfo("1.2.3", "abc", "today")
	out, err := run(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, "blogreader 1.2.3") {
		t.Errorf("unexpected version output %q", out)
	}
}

func TestVersionCheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"tag_name":"v9.0.0"}`)
	}))
	t.Cleanup(srv.Close)

	SetVersionInfo("1.2.3", "abc", "today")
	out, err := run(t, "version", "--check", "--releases-url", srv.URL)
	if err != nil {
		t.Fatalf("version --check: %v", err)
	}
	if !strings.Contains(out, "A newer version is available: 9.0.0") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestUnknownSource(t *testing.T) {
	_, err := run(t, "list", "--source", "nope")
	if err == nil || !strings.Contains(err.Error(), `unknown source "nope"`) {
		t.Errorf("expected unknown source error, got %v", err)
	}
}

func TestFormatWindow(t *testing.T) {
	got := formatWindow(pager.Compute(100, 10, 5))
	for _, want := range []string{"1", "…", "4", "[5]", "6", "10"} {
		if !strings.Contains(got, want) {
			t.Errorf("window %q missing %q", got, want)
		}
	}
}

func TestNewLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	l, err := newLogger(path, true, true)
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}
	l.Info("hello")
	_ = l.Sync()

	nop, err := newLogger("", true, true)
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}
	if nop.Core().Enabled(-1) {
		t.Error("interactive logger without a file should be a no-op")
	}
}
