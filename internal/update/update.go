// Package update tells the CLI when a newer docredact release is published.
// The latest stable release is looked up on GitHub at most once per TTL and
// remembered next to the global config file.
package update

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	semver "github.com/blang/semver/v4"

	"github.com/redactyl/docredact/internal/config"
)

const (
	// Repo is the GitHub "owner/name" that publishes releases.
	Repo = "redactyl/docredact"
	// DefaultTTL is how long a looked-up release is trusted.
	DefaultTTL = 24 * time.Hour

	latestURL     = "https://api.github.com/repos/" + Repo + "/releases/latest"
	stateFileName = "release-check.json"
	userAgent     = "docredact-release-check"
)

// Release is the newest published stable release.
type Release struct {
	Version semver.Version `json:"version"`
	URL     string         `json:"url,omitempty"`
}

// state is the on-disk record of the last lookup.
type state struct {
	CheckedAt time.Time `json:"checked_at"`
	Release   *Release  `json:"release,omitempty"`
}

// Status compares the running build against the newest release.
type Status struct {
	// Current is nil for builds without a semantic version.
	Current *semver.Version
	Latest  *Release
	// FromCache is set when Latest was read from the state file.
	FromCache bool
}

// Newer reports whether a release above the running build exists.
func (s Status) Newer() bool {
	return s.Current != nil && s.Latest != nil && s.Latest.Version.GT(*s.Current)
}

// Checker looks up releases. The zero value queries GitHub with a two
// second timeout and keeps its state in the docredact config directory.
type Checker struct {
	Endpoint string
	Client   *http.Client
	// StateDir holds the state file; empty means the config directory.
	StateDir string
	TTL      time.Duration
	now      func() time.Time
}

func (c Checker) clock() time.Time {
	if c.now != nil {
		return c.now()
	}
	return time.Now()
}

func (c Checker) statePath() string {
	if c.StateDir != "" {
		return filepath.Join(c.StateDir, stateFileName)
	}
	p, err := config.GlobalPath()
	if err != nil {
		return ""
	}
	return filepath.Join(filepath.Dir(p), stateFileName)
}

func (c Checker) readState() state {
	var st state
	p := c.statePath()
	if p == "" {
		return st
	}
	if b, err := os.ReadFile(p); err == nil {
		_ = json.Unmarshal(b, &st)
	}
	return st
}

func (c Checker) writeState(st state) {
	p := c.statePath()
	if p == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return
	}
	_ = os.WriteFile(p, b, 0o644)
}

// fetch asks the endpoint for the latest release. Drafts, prereleases and
// tags that are not semantic versions yield no release.
func (c Checker) fetch(ctx context.Context) (*Release, error) {
	url := c.Endpoint
	if url == "" {
		url = latestURL
	}
	client := c.Client
	if client == nil {
		client = &http.Client{Timeout: 2 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/vnd.github+json")
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("release lookup: %s", resp.Status)
	}
	var body struct {
		TagName    string `json:"tag_name"`
		HTMLURL    string `json:"html_url"`
		Draft      bool   `json:"draft"`
		Prerelease bool   `json:"prerelease"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("release lookup: %w", err)
	}
	if body.Draft || body.Prerelease {
		return nil, nil
	}
	v, err := semver.ParseTolerant(body.TagName)
	if err != nil {
		return nil, nil
	}
	return &Release{Version: v, URL: body.HTMLURL}, nil
}

// Check compares current against the newest release. A fresh state file
// answers without network access; otherwise the endpoint is queried and
// the answer stored. Lookup failures leave Latest nil and are not stored.
func (c Checker) Check(ctx context.Context, current string) Status {
	st := Status{}
	if v, err := semver.ParseTolerant(current); err == nil {
		st.Current = &v
	}

	ttl := c.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	saved := c.readState()
	if !saved.CheckedAt.IsZero() && c.clock().Sub(saved.CheckedAt) < ttl {
		st.Latest = saved.Release
		st.FromCache = true
		return st
	}

	rel, err := c.fetch(ctx)
	if err != nil {
		return st
	}
	st.Latest = rel
	c.writeState(state{CheckedAt: c.clock(), Release: rel})
	return st
}

// Disabled reports whether release checks are switched off for this
// process, as they are on CI runners.
func Disabled() bool {
	return os.Getenv("CI") != "" || os.Getenv("DOCREDACT_NO_UPDATE_CHECK") != ""
}
