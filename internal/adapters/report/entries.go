// Package report renders comparison reports as console tables, HTML pages
// and structured exports.
package report

import (
	"fmt"

	"github.com/baditaflorin/go_doc_similarity/internal/core/domain"
)

// DefaultLengthDeltaWarn is the length delta above which a pair is flagged.
const DefaultLengthDeltaWarn = 0.30

type severity int

const (
	severityOK severity = iota
	severityWarn
	severityBad
	severityMissing
	severityError
)

// entry is one row of a rendered report, shared by the console and HTML writers.
type entry struct {
	severity   severity
	name       string
	similarity string
	delta      string
	lengthWarn bool
	markdown   string
	latex      string
	note       string
	diff       []domain.DiffLine
}

func (s severity) icon() string {
	switch s {
	case severityOK:
		return "✅"
	case severityWarn:
		return "⚠️"
	case severityBad:
		return "❌"
	case severityMissing:
		return "❓"
	default:
		return "🚫"
	}
}

func (s severity) class() string {
	switch s {
	case severityOK:
		return "high"
	case severityWarn:
		return "medium"
	case severityBad:
		return "low"
	case severityMissing:
		return "unmapped"
	default:
		return "error"
	}
}

func tierSeverity(t domain.Tier) severity {
	switch t {
	case domain.TierHigh:
		return severityOK
	case domain.TierMedium:
		return severityWarn
	default:
		return severityBad
	}
}

func percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}

// entries flattens results and unmapped files into display rows, results first.
func entries(report *domain.Report, lengthWarn float64) []entry {
	rows := make([]entry, 0, len(report.Results)+len(report.Unmapped))
	for _, r := range report.Results {
		e := entry{
			name:     r.Pair.LogicalName,
			markdown: r.Pair.MarkdownPath,
			latex:    r.Pair.LatexPath,
			diff:     r.Diff,
		}
		if r.Status == domain.StatusReadError {
			e.severity = severityError
			e.similarity = "-"
			e.delta = "-"
			e.note = r.Err
		} else {
			e.severity = tierSeverity(r.Tier)
			e.similarity = percent(r.Similarity)
			e.delta = percent(r.LengthDeltaPct)
			e.lengthWarn = r.LengthDeltaPct > lengthWarn
			if n := len(r.Fallbacks); n > 0 {
				e.note = fmt.Sprintf("%d verbatim span(s)", n)
			}
		}
		rows = append(rows, e)
	}
	for _, u := range report.Unmapped {
		e := entry{
			severity:   severityMissing,
			name:       u.LogicalName,
			similarity: "-",
			delta:      "-",
			note:       string(u.Kind),
		}
		if u.Kind == domain.NoMarkdown {
			e.latex = u.Path
		} else {
			e.markdown = u.Path
		}
		rows = append(rows, e)
	}
	return rows
}

func summaryLine(s domain.Summary) string {
	return fmt.Sprintf("Summary: %d high, %d medium, %d low, %d unmapped, %d read errors (%d total)",
		s.High, s.Medium, s.Low, s.Unmapped, s.ReadError, s.Total())
}

func diffPrefix(op domain.DiffOp) string {
	switch op {
	case domain.OpRemove:
		return "- "
	case domain.OpAdd:
		return "+ "
	default:
		return "  "
	}
}
