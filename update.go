package dedihelper

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
	"golang.org/x/mod/semver"
)

// Version is the released version of the tool.
const Version = "0.3.0"

// ReleasesURL is where LatestRelease looks by default.
const ReleasesURL = "https://api.github.com/repos/rekterakathom/ArmaDediHelper/releases/latest"

// LatestRelease asks the GitHub releases endpoint at url for the
// newest published tag.
func LatestRelease(client *http.Client, url string) (string, error) {
	res, err := client.Get(url)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d from %s", res.StatusCode, url)
	}
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}

	tag := gjson.GetBytes(body, "tag_name").String()
	if tag == "" {
		return "", fmt.Errorf("no tag_name in release response")
	}
	return tag, nil
}

// UpdateAvailable reports whether latest is a valid release tag newer
// than current.
func UpdateAvailable(current, latest string) bool {
	c, l := canonicalTag(current), canonicalTag(latest)
	if !semver.IsValid(l) {
		return false
	}
	return semver.Compare(l, c) > 0
}

// Release tags may or may not carry the leading v that x/mod expects.
func canonicalTag(tag string) string {
	if !strings.HasPrefix(tag, "v") {
		return "v" + tag
	}
	return tag
}
