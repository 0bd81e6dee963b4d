package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/flowopt/siteaudit/internal/audit"
)

const pdfDisclaimer = "Disclaimer: this is a heuristic triage scan. Always check robots.txt/ToS " +
	"and legal constraints before collecting data or automating."

// PDF renders a one-or-two page summary document: summary table, signals
// table, then bulleted reasons and warnings.
func PDF(r audit.Report, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("FlowOpt - Automation Potential Audit", false)
	pdf.SetMargins(18, 16, 18)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.MultiCell(0, 8, "FlowOpt - Automation Potential Audit", "", "L", false)
	pdf.SetFont("Helvetica", "", 9)
	pdf.MultiCell(0, 5, fmt.Sprintf("Generated: %s", generatedAt.Format("2006-01-02 15:04")), "", "L", false)
	pdf.Ln(4)

	heading(pdf, "Summary")
	table(pdf, [][2]string{
		{"URL (input)", r.InputURL},
		{"Final URL", r.FinalURL},
		{"HTTP status", statusText(r.HTTPStatus)},
		{"Redirects", fmt.Sprintf("%d", r.RedirectCount)},
		{"Score (0-100)", fmt.Sprintf("%d", r.Score)},
		{"Suggested approach", r.Recommendation},
	})

	heading(pdf, "Signals")
	table(pdf, [][2]string{
		{"robots.txt", presence(r.Robots.Present)},
		{"robots Disallow", yesNo(r.Robots.AnyDisallow)},
		{"sitemap.xml", presence(r.SitemapPresent)},
		{"Login form", yesNo(r.LoginFormDetected)},
		{"CAPTCHA hints", yesNo(r.CaptchaHintsDetected)},
		{"Structured data", yesNo(r.StructuredDataDetected)},
		{"RSS/Atom", yesNo(r.FeedDetected)},
		{"API hints", yesNo(r.APIHintsDetected)},
		{"Platform hints", dashIfEmpty(strings.Join(r.PlatformHints, ", "))},
	})

	if len(r.Reasons) > 0 {
		heading(pdf, "Why this score")
		bullets(pdf, r.Reasons)
	}
	if len(r.Warnings) > 0 {
		heading(pdf, "Warnings")
		bullets(pdf, r.Warnings)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.MultiCell(0, 4, pdfDisclaimer, "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func heading(pdf *gofpdf.Fpdf, text string) {
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.MultiCell(0, 7, text, "", "L", false)
	pdf.Ln(1)
}

func table(pdf *gofpdf.Fpdf, rows [][2]string) {
	pdf.SetFont("Helvetica", "", 10)
	for i, row := range rows {
		fill := i%2 == 1
		pdf.SetFillColor(248, 250, 252)
		pdf.CellFormat(45, 6, row[0], "1", 0, "L", fill, 0, "")
		pdf.MultiCell(125, 6, row[1], "1", "L", fill)
	}
}

func bullets(pdf *gofpdf.Fpdf, lines []string) {
	pdf.SetFont("Helvetica", "", 10)
	for _, line := range lines {
		pdf.MultiCell(0, 5, "- "+line, "", "L", false)
	}
}
