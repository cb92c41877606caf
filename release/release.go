// Package release locates downloadable assets on the latest published
// release of a GitHub project.
package release

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrNoAsset is returned when no asset of the latest release matches the
// requested suffix.
var ErrNoAsset = errors.New("no matching release asset")

// Query identifies a project and the asset to pick from its latest release.
type Query struct {
	Owner  string
	Repo   string
	Suffix string // asset name suffix, e.g. "x86_64-windows.zip"

	// BaseURL overrides the API endpoint. Empty means the public GitHub API.
	BaseURL string
}

// Asset is a downloadable file attached to a release.
type Asset struct {
	Tag  string // release tag, e.g. "25.07.1"
	Name string
	URL  string
}

type releaseInfo struct {
	TagName string `json:"tag_name"`
	Assets  []struct {
		Name               string `json:"name"`
		BrowserDownloadURL string `json:"browser_download_url"`
	} `json:"assets"`
}

// Latest fetches the latest release of the queried project and returns the
// first asset whose name ends with the query suffix. Returns ErrNoAsset when
// nothing matches, and an error for any network or API failure.
func Latest(q Query) (Asset, error) {
	base := q.BaseURL
	if base == "" {
		base = "https://api.github.com"
	}
	url := fmt.Sprintf("%s/repos/%s/%s/releases/latest", base, q.Owner, q.Repo)

	resp, err := http.Get(url)
	if err != nil {
		return Asset{}, fmt.Errorf("fetch release metadata: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Asset{}, fmt.Errorf("fetch release metadata: HTTP %d", resp.StatusCode)
	}

	var rel releaseInfo
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return Asset{}, fmt.Errorf("parse release metadata: %w", err)
	}

	for _, a := range rel.Assets {
		if strings.HasSuffix(a.Name, q.Suffix) {
			return Asset{Tag: rel.TagName, Name: a.Name, URL: a.BrowserDownloadURL}, nil
		}
	}

	return Asset{}, fmt.Errorf("%w: %s/%s %s has no asset ending in %q",
		ErrNoAsset, q.Owner, q.Repo, rel.TagName, q.Suffix)
}
