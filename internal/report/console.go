package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/flowopt/siteaudit/internal/audit"
)

// Score bands shown in the console view.
const (
	LabelHigh   = "HIGH"
	LabelMedium = "MEDIUM"
	LabelLow    = "LOW"
)

// ScoreLabel maps a score onto its band and display color.
func ScoreLabel(score int) (string, *color.Color) {
	switch {
	case score >= 75:
		return LabelHigh, color.New(color.FgGreen)
	case score >= 50:
		return LabelMedium, color.New(color.FgYellow)
	default:
		return LabelLow, color.New(color.FgRed)
	}
}

// Console writes the human-readable report view.
func Console(w io.Writer, r audit.Report) error {
	bold := color.New(color.Bold)

	bold.Fprintf(w, "Automation Potential Audit - %s\n", r.InputURL)
	fmt.Fprintf(w, "Final URL: %s\n", r.FinalURL)
	fmt.Fprintf(w, "HTTP: %s  |  Redirects: %d\n\n", statusText(r.HTTPStatus), r.RedirectCount)

	label, col := ScoreLabel(r.Score)
	fmt.Fprintf(w, "%s %s / 100  (%s)\n", bold.Sprint("Score:"), col.Sprintf("%d", r.Score), col.Sprint(label))
	fmt.Fprintf(w, "%s %s\n\n", bold.Sprint("Suggested approach:"), r.Recommendation)

	bold.Fprintln(w, "Signals")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	row := func(name, value string) {
		fmt.Fprintf(tw, "  %s\t%s\n", name, value)
	}
	row("robots.txt", presence(r.Robots.Present))
	if r.Robots.Present {
		row("robots disallow", yesNo(r.Robots.AnyDisallow))
		row("root allowed", yesNo(r.Robots.RootAllowed))
	}
	row("sitemap", presence(r.SitemapPresent))
	row("login form", yesNo(r.LoginFormDetected))
	row("captcha hints", yesNo(r.CaptchaHintsDetected))
	row("structured data", yesNo(r.StructuredDataDetected))
	row("RSS/Atom", yesNo(r.FeedDetected))
	row("API hints", yesNo(r.APIHintsDetected))
	row("platform hints", dashIfEmpty(strings.Join(r.PlatformHints, ", ")))
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flush signals table: %w", err)
	}

	if len(r.Reasons) > 0 {
		fmt.Fprintln(w)
		bold.Fprintln(w, "Reasons")
		for _, reason := range r.Reasons {
			fmt.Fprintf(w, "- %s\n", reason)
		}
	}
	if len(r.Warnings) > 0 {
		fmt.Fprintln(w)
		bold.Fprintln(w, "Warnings")
		for _, warning := range r.Warnings {
			fmt.Fprintf(w, "- %s\n", warning)
		}
	}
	return nil
}

func statusText(status *int) string {
	if status == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *status)
}

func presence(present bool) string {
	if present {
		return "present"
	}
	return "missing"
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func dashIfEmpty(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
