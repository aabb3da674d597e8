package report

import (
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"github.com/baditaflorin/go_doc_similarity/internal/core/domain"
)

// ConsoleOptions configures the console writer.
type ConsoleOptions struct {
	Verbose bool
	// NoColor disables colors even on a terminal.
	NoColor         bool
	LengthDeltaWarn float64
}

// ConsoleWriter prints a report as a table followed by a summary line.
type ConsoleWriter struct {
	out        io.Writer
	verbose    bool
	lengthWarn float64
	palette    map[severity]*color.Color
	added      *color.Color
	removed    *color.Color
	heading    *color.Color
}

// NewConsoleWriter creates a console writer. Colors are used only when out is a terminal.
func NewConsoleWriter(out io.Writer, opts ConsoleOptions) *ConsoleWriter {
	if opts.LengthDeltaWarn <= 0 {
		opts.LengthDeltaWarn = DefaultLengthDeltaWarn
	}
	colorize := !opts.NoColor && shouldColorize(out)

	paint := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if colorize {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}

	return &ConsoleWriter{
		out:        out,
		verbose:    opts.Verbose,
		lengthWarn: opts.LengthDeltaWarn,
		palette: map[severity]*color.Color{
			severityOK:      paint(color.FgGreen),
			severityWarn:    paint(color.FgYellow),
			severityBad:     paint(color.FgRed),
			severityMissing: paint(color.FgBlue),
			severityError:   paint(color.FgMagenta),
		},
		added:   paint(color.FgGreen),
		removed: paint(color.FgRed),
		heading: paint(color.FgCyan, color.Bold),
	}
}

// Write implements ports.ReportWriter.
func (w *ConsoleWriter) Write(report *domain.Report) error {
	rows := entries(report, w.lengthWarn)

	var b strings.Builder
	if len(rows) == 0 {
		b.WriteString("No documents matched.\n")
	} else {
		b.WriteString(w.table(rows))
		b.WriteByte('\n')
	}
	b.WriteString(summaryLine(report.Summary))
	b.WriteByte('\n')

	if w.verbose {
		for _, e := range rows {
			if len(e.diff) == 0 {
				continue
			}
			b.WriteByte('\n')
			b.WriteString(w.heading.Sprintf("== %s ==", e.name))
			b.WriteByte('\n')
			for _, line := range e.diff {
				b.WriteString(w.diffLine(line))
				b.WriteByte('\n')
			}
		}
	}

	_, err := io.WriteString(w.out, b.String())
	return err
}

func (w *ConsoleWriter) table(rows []entry) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"", "Name", "Similarity", "Length Δ", "Markdown", "LaTeX", "Note"})

	for _, e := range rows {
		delta := e.delta
		if e.lengthWarn {
			delta += " ⚠ length"
		}
		tw.AppendRow(table.Row{
			e.severity.icon(),
			e.name,
			w.palette[e.severity].Sprint(e.similarity),
			delta,
			e.markdown,
			e.latex,
			e.note,
		})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

func (w *ConsoleWriter) diffLine(line domain.DiffLine) string {
	s := diffPrefix(line.Op) + line.Text
	switch line.Op {
	case domain.OpRemove:
		return w.removed.Sprint(s)
	case domain.OpAdd:
		return w.added.Sprint(s)
	default:
		return s
	}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
