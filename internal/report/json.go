// Package report renders audit reports as JSON, a colored console view, or
// a PDF document.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/flowopt/siteaudit/internal/audit"
)

// jsonEnvelope inlines the report fields and optionally appends the
// generation timestamp, which is not part of the core entity.
type jsonEnvelope struct {
	audit.Report
	GeneratedAt string `json:"generated_at,omitempty"`
}

// JSON serializes the report with two-space indentation and HTML escaping
// disabled. When generatedAt is non-zero an RFC 3339 generated_at field is
// injected; with a zero time the output is byte-stable for equal reports.
func JSON(r audit.Report, generatedAt time.Time) ([]byte, error) {
	env := jsonEnvelope{Report: r}
	if !generatedAt.IsZero() {
		env.GeneratedAt = generatedAt.Format(time.RFC3339)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(env); err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}
	return buf.Bytes(), nil
}
