package audit

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
)

// ErrEmptyURL is returned when the input URL is empty after trimming. It is
// the only error an audit run propagates to its caller.
var ErrEmptyURL = errors.New("url is empty")

var schemeRe = regexp.MustCompile(`(?i)^https?://`)

// NormalizeURL trims the input and prepends https:// when no scheme is
// present, so bare domains like "example.com" audit cleanly.
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrEmptyURL
	}
	if !schemeRe.MatchString(raw) {
		raw = "https://" + raw
	}
	return raw, nil
}

// resolveRelative joins a path like /robots.txt against the final page URL.
// A malformed base falls back to naive concatenation so the probe URL is
// still reportable.
func resolveRelative(base, path string) string {
	u, err := url.Parse(base)
	if err != nil {
		return strings.TrimRight(base, "/") + path
	}
	ref, err := url.Parse(path)
	if err != nil {
		return strings.TrimRight(base, "/") + path
	}
	return u.ResolveReference(ref).String()
}
