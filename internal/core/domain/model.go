package domain

import "time"

// Format tags the markup dialect of a source document.
type Format int

const (
	// Markdown is CommonMark with pandoc-style citations.
	Markdown Format = iota
	// LaTeX is a LaTeX chapter or appendix body.
	LaTeX
)

// String returns the lowercase name of the format.
func (f Format) String() string {
	switch f {
	case Markdown:
		return "markdown"
	case LaTeX:
		return "latex"
	default:
		return "unknown"
	}
}

// FilePair associates a Markdown source with its LaTeX counterpart.
type FilePair struct {
	MarkdownPath string `json:"markdown_path" yaml:"markdown_path"`
	LatexPath    string `json:"latex_path" yaml:"latex_path"`
	LogicalName  string `json:"logical_name" yaml:"logical_name"`
}

// Fallback records a span the normalizer could not interpret and copied verbatim.
type Fallback struct {
	Offset int    `json:"offset" yaml:"offset"`
	Reason string `json:"reason" yaml:"reason"`
}

// Status describes the outcome of a single report entry.
type Status string

const (
	StatusCompared  Status = "compared"
	StatusUnmapped  Status = "unmapped"
	StatusReadError Status = "read_error"
)

// UnmappedKind explains why a file could not be paired.
type UnmappedKind string

const (
	// NoLatex means a Markdown file has no LaTeX counterpart.
	NoLatex UnmappedKind = "no_latex"
	// NoMarkdown means a LaTeX file has no Markdown counterpart.
	NoMarkdown UnmappedKind = "no_markdown"
	// Duplicate means another Markdown file already claimed the logical name.
	Duplicate UnmappedKind = "duplicate"
)

// Unmapped describes a source file that could not be paired.
type Unmapped struct {
	Path        string       `json:"path" yaml:"path"`
	LogicalName string       `json:"logical_name,omitempty" yaml:"logical_name,omitempty"`
	Kind        UnmappedKind `json:"kind" yaml:"kind"`
}

// Score is the raw outcome of comparing two normalized texts.
type Score struct {
	Similarity     float64
	LengthDeltaPct float64
}

// ComparisonResult holds the outcome of comparing one FilePair.
type ComparisonResult struct {
	Pair           FilePair   `json:"pair" yaml:"pair"`
	Status         Status     `json:"status" yaml:"status"`
	Similarity     float64    `json:"similarity" yaml:"similarity"`
	LengthDeltaPct float64    `json:"length_delta_pct" yaml:"length_delta_pct"`
	Tier           Tier       `json:"tier,omitempty" yaml:"tier,omitempty"`
	MarkdownLines  int        `json:"markdown_lines" yaml:"markdown_lines"`
	LatexLines     int        `json:"latex_lines" yaml:"latex_lines"`
	MarkdownChars  int        `json:"markdown_chars" yaml:"markdown_chars"`
	LatexChars     int        `json:"latex_chars" yaml:"latex_chars"`
	Fallbacks      []Fallback `json:"fallbacks,omitempty" yaml:"fallbacks,omitempty"`
	Err            string     `json:"error,omitempty" yaml:"error,omitempty"`
	Diff           []DiffLine `json:"diff,omitempty" yaml:"diff,omitempty"`
}

// Summary counts report entries per tier and status.
type Summary struct {
	High      int `json:"high" yaml:"high"`
	Medium    int `json:"medium" yaml:"medium"`
	Low       int `json:"low" yaml:"low"`
	Unmapped  int `json:"unmapped" yaml:"unmapped"`
	ReadError int `json:"read_error" yaml:"read_error"`
}

// Total returns the number of entries in the report.
func (s Summary) Total() int {
	return s.High + s.Medium + s.Low + s.Unmapped + s.ReadError
}

// Report aggregates the results of one run.
type Report struct {
	RunID       string             `json:"run_id" yaml:"run_id"`
	GeneratedAt time.Time          `json:"generated_at" yaml:"generated_at"`
	BaseDir     string             `json:"base_dir" yaml:"base_dir"`
	Results     []ComparisonResult `json:"results" yaml:"results"`
	Unmapped    []Unmapped         `json:"unmapped" yaml:"unmapped"`
	Summary     Summary            `json:"summary" yaml:"summary"`
}

// Summarize recomputes the summary counts from results and unmapped entries.
func (r *Report) Summarize() {
	var s Summary
	for _, res := range r.Results {
		if res.Status == StatusReadError {
			s.ReadError++
			continue
		}
		switch res.Tier {
		case TierHigh:
			s.High++
		case TierMedium:
			s.Medium++
		default:
			s.Low++
		}
	}
	s.Unmapped = len(r.Unmapped)
	r.Summary = s
}
