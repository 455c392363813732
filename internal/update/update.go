// Package update checks GitHub Releases for a newer blogreader build.
package update

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	version "github.com/hashicorp/go-version"
)

const DefaultReleasesURL = "https://api.github.com/repos/matheuskafuri/blogreader/releases/latest"

// Result holds the outcome of a version check.
type Result struct {
	Current       string
	LatestVersion string
	Newer         bool
}

type ghRelease struct {
	TagName string `json:"tag_name"`
}

type Checker struct {
	url    string
	client *http.Client
}

func NewChecker(url string, client *http.Client) *Checker {
	if url == "" {
		url = DefaultReleasesURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Checker{url: url, client: client}
}

// Check fetches the latest release tag and compares it with current. Dev
// builds (unparseable versions) are always reported as outdated.
func (c *Checker) Check(ctx context.Context, current string) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("checking releases: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("checking releases: HTTP %d", resp.StatusCode)
	}

	var release ghRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("decoding release: %w", err)
	}

	latest, err := version.NewVersion(strings.TrimSpace(release.TagName))
	if err != nil {
		return nil, fmt.Errorf("release tag %q: %w", release.TagName, err)
	}

	res := &Result{Current: current, LatestVersion: latest.String()}
	cur, err := version.NewVersion(current)
	if err != nil {
		res.Newer = true
		return res, nil
	}
	res.Newer = latest.GreaterThan(cur)
	return res, nil
}
