package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
	"gopkg.in/yaml.v3"

	"github.com/baditaflorin/go_doc_similarity/internal/core/domain"
)

func sampleReport() *domain.Report {
	r := &domain.Report{
		RunID:       "3f1c0a52-0000-4000-8000-000000000001",
		GeneratedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		BaseDir:     "thesis",
		Results: []domain.ComparisonResult{
			{
				Pair:       domain.FilePair{MarkdownPath: "thesis/1_intro.md", LatexPath: "thesis/latex/1.tex", LogicalName: "1"},
				Status:     domain.StatusCompared,
				Similarity: 1.0,
				Tier:       domain.TierHigh,
			},
			{
				Pair:           domain.FilePair{MarkdownPath: "thesis/2_method.md", LatexPath: "thesis/latex/2.tex", LogicalName: "2"},
				Status:         domain.StatusCompared,
				Similarity:     0.9,
				LengthDeltaPct: 0.05,
				Tier:           domain.TierMedium,
				Diff: []domain.DiffLine{
					{Op: domain.OpEqual, Text: "We measure latency."},
					{Op: domain.OpRemove, Text: "We report <throughput>."},
					{Op: domain.OpAdd, Text: "We report goodput."},
				},
			},
			{
				Pair:           domain.FilePair{MarkdownPath: "thesis/appendix_a.md", LatexPath: "thesis/latex/appendix_A.tex", LogicalName: "appendix_a"},
				Status:         domain.StatusCompared,
				LengthDeltaPct: 1.0,
				Tier:           domain.TierLow,
			},
			{
				Pair:   domain.FilePair{MarkdownPath: "thesis/3.md", LatexPath: "thesis/latex/3.tex", LogicalName: "3"},
				Status: domain.StatusReadError,
				Err:    "read thesis/latex/3.tex: permission denied",
			},
		},
		Unmapped: []domain.Unmapped{
			{Path: "thesis/latex/4.tex", LogicalName: "4", Kind: domain.NoMarkdown},
		},
	}
	r.Summarize()
	return r
}

func TestEntries(t *testing.T) {
	rows := entries(sampleReport(), DefaultLengthDeltaWarn)
	require.Len(t, rows, 5)

	icons := make([]string, 0, len(rows))
	for _, e := range rows {
		icons = append(icons, e.severity.icon())
	}
	assert.Equal(t, []string{"✅", "⚠️", "❌", "🚫", "❓"}, icons)

	assert.Equal(t, "100.0%", rows[0].similarity)
	assert.False(t, rows[1].lengthWarn)
	assert.True(t, rows[2].lengthWarn)
	assert.Equal(t, "-", rows[3].similarity)
	assert.Contains(t, rows[3].note, "permission denied")
	assert.Equal(t, "thesis/latex/4.tex", rows[4].latex)
	assert.Empty(t, rows[4].markdown)
}

func TestConsoleWriter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewConsoleWriter(&buf, ConsoleOptions{}).Write(sampleReport()))
	out := buf.String()

	assert.Contains(t, out, "appendix_a")
	assert.Contains(t, out, "⚠ length")
	assert.Contains(t, out, "Summary: 1 high, 1 medium, 1 low, 1 unmapped, 1 read errors (5 total)")
	assert.NotContains(t, out, "\x1b[", "non-terminal output must not be colored")
	assert.NotContains(t, out, "+ We report goodput.", "diff is only printed in verbose mode")
}

func TestConsoleWriterVerbose(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewConsoleWriter(&buf, ConsoleOptions{Verbose: true}).Write(sampleReport()))
	out := buf.String()

	assert.Contains(t, out, "== 2 ==")
	assert.Contains(t, out, "  We measure latency.")
	assert.Contains(t, out, "- We report <throughput>.")
	assert.Contains(t, out, "+ We report goodput.")
}

func TestConsoleWriterEmpty(t *testing.T) {
	r := &domain.Report{}
	var buf bytes.Buffer
	require.NoError(t, NewConsoleWriter(&buf, ConsoleOptions{}).Write(r))
	assert.True(t, strings.HasPrefix(buf.String(), "No documents matched."))
}

func TestHTMLWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.html")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))

	w := NewHTMLWriter(path, 0)
	require.NoError(t, w.Write(sampleReport()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	page := string(data)

	assert.True(t, strings.HasPrefix(page, "<!DOCTYPE html>"))
	assert.NotContains(t, page, "stale")
	assert.Contains(t, page, "<style>")
	assert.NotContains(t, page, "<link")
	assert.NotContains(t, page, "<script")
	assert.Contains(t, page, "We report &lt;throughput&gt;.")
	assert.Contains(t, page, `class="flag"`)

	doc, err := html.Parse(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 5, countRows(doc))
}

func countRows(n *html.Node) int {
	count := 0
	if n.Type == html.ElementNode && n.Data == "tr" && n.Parent != nil && n.Parent.Data == "tbody" {
		count++
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		count += countRows(c)
	}
	return count
}

func TestHTMLWriterDefaultPath(t *testing.T) {
	assert.Equal(t, DefaultHTMLPath, NewHTMLWriter("", 0).Path())
}

func TestStructuredWriters(t *testing.T) {
	report := sampleReport()

	var jsonBuf bytes.Buffer
	require.NoError(t, NewJSONWriter(&jsonBuf).Write(report))
	var fromJSON map[string]any
	require.NoError(t, json.Unmarshal(jsonBuf.Bytes(), &fromJSON))
	assert.Equal(t, report.RunID, fromJSON["run_id"])
	assert.Len(t, fromJSON["results"], 4)

	var yamlBuf bytes.Buffer
	require.NoError(t, NewYAMLWriter(&yamlBuf).Write(report))
	var fromYAML struct {
		Summary domain.Summary `yaml:"summary"`
	}
	require.NoError(t, yaml.Unmarshal(yamlBuf.Bytes(), &fromYAML))
	assert.Equal(t, report.Summary, fromYAML.Summary)
	assert.Contains(t, yamlBuf.String(), "kind: no_markdown")
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"", "text", "json", "yaml"} {
		_, err := ParseFormat(s)
		assert.NoError(t, err, s)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
}
