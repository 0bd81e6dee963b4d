package audit

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const testUA = "FlowOptSiteAudit/0.1"

func TestParseRobots(t *testing.T) {
	robotsURL := "https://example.com/robots.txt"

	t.Run("disallow lines collected", func(t *testing.T) {
		body := strings.Join([]string{
			"# a comment",
			"User-agent: *",
			"",
			"Disallow: /admin",
			"disallow: /private",
			"Allow: /public",
		}, "\n")

		info := ParseRobots(200, []byte(body), robotsURL, testUA)
		require.True(t, info.Present)
		require.True(t, info.AnyDisallow)
		require.Equal(t, []string{"Disallow: /admin", "disallow: /private"}, info.DisallowLines)
		require.Equal(t, robotsURL, info.URL)
	})

	t.Run("no disallow rules", func(t *testing.T) {
		info := ParseRobots(200, []byte("User-agent: *\nAllow: /"), robotsURL, testUA)
		require.True(t, info.Present)
		require.False(t, info.AnyDisallow)
		require.Empty(t, info.DisallowLines)
		require.True(t, info.RootAllowed)
	})

	t.Run("disallow lines capped at 50", func(t *testing.T) {
		var sb strings.Builder
		sb.WriteString("User-agent: *\n")
		for i := 0; i < 80; i++ {
			fmt.Fprintf(&sb, "Disallow: /p%d\n", i)
		}
		info := ParseRobots(200, []byte(sb.String()), robotsURL, testUA)
		require.True(t, info.AnyDisallow)
		require.Len(t, info.DisallowLines, 50)
	})

	t.Run("non-200 means absent", func(t *testing.T) {
		info := ParseRobots(404, []byte("Disallow: /"), robotsURL, testUA)
		require.False(t, info.Present)
		require.False(t, info.AnyDisallow)
		require.Empty(t, info.DisallowLines)
	})

	t.Run("empty body means absent", func(t *testing.T) {
		info := ParseRobots(200, nil, robotsURL, testUA)
		require.False(t, info.Present)
	})

	t.Run("failed probe means absent", func(t *testing.T) {
		info := ParseRobots(0, nil, robotsURL, testUA)
		require.False(t, info.Present)
		require.True(t, info.RootAllowed)
	})

	t.Run("root disallowed for everyone", func(t *testing.T) {
		info := ParseRobots(200, []byte("User-agent: *\nDisallow: /"), robotsURL, testUA)
		require.True(t, info.AnyDisallow)
		require.False(t, info.RootAllowed)
	})
}
