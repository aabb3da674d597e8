// Package docsim compares Markdown and LaTeX sources held in memory.
//
// Both sources are reduced to plain prose before scoring, so markup
// differences such as "**bold**" versus "\textbf{bold}" do not count as drift.
// For whole directories use the pkg/comparison package.
package docsim

import (
	"iter"

	"github.com/baditaflorin/go_doc_similarity/internal/adapters/normalizer"
	"github.com/baditaflorin/go_doc_similarity/internal/core/diff"
	"github.com/baditaflorin/go_doc_similarity/internal/core/domain"
	"github.com/baditaflorin/go_doc_similarity/internal/core/similarity"
)

// Tier is the coarse similarity class of a pair.
type Tier = domain.Tier

// DiffLine is one line of a Markdown/LaTeX difference.
type DiffLine = domain.DiffLine

// Fallback is a LaTeX span that was copied verbatim because it could not be parsed.
type Fallback = domain.Fallback

var (
	factory    = normalizer.NewNormalizerFactory(nil)
	calculator = mustCalculator()
)

func mustCalculator() *similarity.Calculator {
	c, err := similarity.NewCalculator(similarity.DefaultConfig(), nil)
	if err != nil {
		panic(err)
	}
	return c
}

// Result holds the outcome of comparing two in-memory sources.
type Result struct {
	// Similarity is between 0 and 1; 1 means the normalized texts are identical.
	Similarity     float64
	LengthDeltaPct float64
	Tier           Tier
	// Markdown and LaTeX are the normalized texts that were scored.
	Markdown  string
	LaTeX     string
	Fallbacks []Fallback
}

// NormalizeMarkdown reduces Markdown source to plain prose.
func NormalizeMarkdown(source string) string {
	text, _ := factory.Normalize(domain.Markdown, source)
	return text
}

// NormalizeLaTeX reduces LaTeX source to plain prose.
func NormalizeLaTeX(source string) string {
	text, _ := factory.Normalize(domain.LaTeX, source)
	return text
}

// CompareSources normalizes both sources and scores them.
func CompareSources(markdown, latex string) Result {
	md, _ := factory.Normalize(domain.Markdown, markdown)
	tex, fallbacks := factory.Normalize(domain.LaTeX, latex)
	score := calculator.Score(md, tex)
	return Result{
		Similarity:     score.Similarity,
		LengthDeltaPct: score.LengthDeltaPct,
		Tier:           domain.ClassifyTier(score.Similarity),
		Markdown:       md,
		LaTeX:          tex,
		Fallbacks:      fallbacks,
	}
}

// Diff yields the sentence-level differences between the normalized texts.
// Lines only in the Markdown source are removals, lines only in LaTeX are additions.
func (r Result) Diff() iter.Seq[DiffLine] {
	return diff.Lines(diff.SplitSentences(r.Markdown), diff.SplitSentences(r.LaTeX))
}
