package audit

import (
	"strings"

	"github.com/temoto/robotstxt"
)

// maxDisallowLines caps how many Disallow lines are carried in a report.
const maxDisallowLines = 50

// ParseRobots builds RobotsInfo from a robots.txt probe. Present requires an
// HTTP 200 with a non-empty body; anything else (including a failed probe,
// signalled by status 0) yields an absent record. Disallow lines are matched
// case-insensitively, skipping blanks and comments, and capped at 50.
//
// RootAllowed is derived with temoto/robotstxt for the given user-agent and
// defaults to true whenever the rules are absent or unparseable.
func ParseRobots(status int, body []byte, robotsURL, userAgent string) RobotsInfo {
	info := RobotsInfo{
		URL:           robotsURL,
		DisallowLines: []string{},
		RootAllowed:   true,
	}
	if status != 200 || len(body) == 0 {
		return info
	}
	info.Present = true

	for _, line := range strings.Split(string(body), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(strings.ToLower(line), "disallow:") {
			if len(info.DisallowLines) < maxDisallowLines {
				info.DisallowLines = append(info.DisallowLines, line)
			}
			info.AnyDisallow = true
		}
	}

	if data, err := robotstxt.FromStatusAndBytes(status, body); err == nil {
		if group := data.FindGroup(userAgent); group != nil {
			info.RootAllowed = group.Test("/")
		}
	}
	return info
}
