package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/baditaflorin/go_doc_similarity/internal/core/domain"
)

// DefaultHTMLPath is the file the HTML report is written to by default.
const DefaultHTMLPath = "comparison_report.html"

const stylesheet = `
body { font-family: -apple-system, "Segoe UI", Helvetica, Arial, sans-serif; margin: 2rem; color: #1f2328; }
h1 { font-size: 1.5rem; }
.meta { color: #59636e; font-size: 0.9rem; }
table { border-collapse: collapse; margin: 1rem 0; width: 100%; }
th, td { border: 1px solid #d1d9e0; padding: 0.35rem 0.6rem; text-align: left; vertical-align: top; }
th { background: #f6f8fa; }
td.num { text-align: right; font-variant-numeric: tabular-nums; }
tr.high td.num { color: #1a7f37; }
tr.medium td.num { color: #9a6700; }
tr.low td.num { color: #d1242f; }
tr.unmapped { background: #ddf4ff; }
tr.error { background: #ffebe9; }
.flag { color: #d1242f; font-weight: 600; }
pre.diff { background: #f6f8fa; padding: 0.75rem; overflow-x: auto; white-space: pre-wrap; }
.add { color: #1a7f37; }
.remove { color: #d1242f; }
`

// HTMLWriter renders a self-contained HTML report to a file.
type HTMLWriter struct {
	path       string
	lengthWarn float64
}

// NewHTMLWriter creates an HTML writer targeting path. An existing file is overwritten.
func NewHTMLWriter(path string, lengthWarn float64) *HTMLWriter {
	if path == "" {
		path = DefaultHTMLPath
	}
	if lengthWarn <= 0 {
		lengthWarn = DefaultLengthDeltaWarn
	}
	return &HTMLWriter{path: path, lengthWarn: lengthWarn}
}

// Path returns the destination file.
func (w *HTMLWriter) Path() string { return w.path }

// Write implements ports.ReportWriter.
func (w *HTMLWriter) Write(report *domain.Report) error {
	f, err := os.Create(w.path)
	if err != nil {
		return fmt.Errorf("create html report: %w", err)
	}
	bw := bufio.NewWriter(f)
	if err := RenderHTML(bw, report, w.lengthWarn); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("write html report: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close html report: %w", err)
	}
	return nil
}

// RenderHTML writes the report as an HTML document to out.
func RenderHTML(out io.Writer, report *domain.Report, lengthWarn float64) error {
	rows := entries(report, lengthWarn)

	body := el(atom.Body, nil,
		el(atom.H1, nil, txt("Documentation comparison report")),
		el(atom.P, attrs("class", "meta"),
			txt(fmt.Sprintf("Base directory %s, generated %s, run %s",
				report.BaseDir, report.GeneratedAt.Format(time.RFC3339), report.RunID))),
		el(atom.P, attrs("class", "summary"), txt(summaryLine(report.Summary))),
		resultsTable(rows),
	)
	for _, e := range rows {
		if len(e.diff) > 0 {
			body.AppendChild(diffSection(e))
		}
	}

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	doc.AppendChild(el(atom.Html, attrs("lang", "en"),
		el(atom.Head, nil,
			el(atom.Meta, attrs("charset", "utf-8")),
			el(atom.Title, nil, txt("Documentation comparison report")),
			el(atom.Style, nil, txt(stylesheet)),
		),
		body,
	))

	if err := html.Render(out, doc); err != nil {
		return fmt.Errorf("render html report: %w", err)
	}
	return nil
}

func resultsTable(rows []entry) *html.Node {
	header := el(atom.Tr, nil)
	for _, h := range []string{"", "Name", "Similarity", "Length Δ", "Markdown", "LaTeX", "Note"} {
		header.AppendChild(el(atom.Th, nil, txt(h)))
	}
	tbody := el(atom.Tbody, nil)
	for _, e := range rows {
		delta := el(atom.Td, attrs("class", "num"), txt(e.delta))
		if e.lengthWarn {
			delta.AppendChild(txt(" "))
			delta.AppendChild(el(atom.Span, attrs("class", "flag"), txt("⚠ length")))
		}
		tbody.AppendChild(el(atom.Tr, attrs("class", e.severity.class()),
			el(atom.Td, nil, txt(e.severity.icon())),
			el(atom.Td, nil, txt(e.name)),
			el(atom.Td, attrs("class", "num"), txt(e.similarity)),
			delta,
			el(atom.Td, nil, txt(e.markdown)),
			el(atom.Td, nil, txt(e.latex)),
			el(atom.Td, nil, txt(e.note)),
		))
	}
	return el(atom.Table, nil, el(atom.Thead, nil, header), tbody)
}

func diffSection(e entry) *html.Node {
	pre := el(atom.Pre, attrs("class", "diff"))
	for _, line := range e.diff {
		var class string
		switch line.Op {
		case domain.OpAdd:
			class = "add"
		case domain.OpRemove:
			class = "remove"
		}
		span := el(atom.Span, nil, txt(diffPrefix(line.Op)+line.Text+"\n"))
		if class != "" {
			span.Attr = attrs("class", class)
		}
		pre.AppendChild(span)
	}
	return el(atom.Section, nil, el(atom.H2, nil, txt(e.name)), pre)
}

func el(a atom.Atom, attr []html.Attribute, children ...*html.Node) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attr}
	for _, c := range children {
		n.AppendChild(c)
	}
	return n
}

func txt(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func attrs(kv ...string) []html.Attribute {
	out := make([]html.Attribute, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		out = append(out, html.Attribute{Key: kv[i], Val: kv[i+1]})
	}
	return out
}
