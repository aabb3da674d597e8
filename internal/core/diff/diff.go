// Package diff produces line-level differences between normalized texts.
package diff

import (
	"iter"
	"strings"
	"unicode"

	"github.com/baditaflorin/go_doc_similarity/internal/core/domain"
	"github.com/pmezard/go-difflib/difflib"
)

// SplitSentences breaks normalized text into diffable lines. Normalization
// collapses newlines, so a line ends after '.', '!', '?', ':' or ';' followed by a space.
func SplitSentences(text string) []string {
	if text == "" {
		return nil
	}
	var lines []string
	start := 0
	runes := []rune(text)
	for i := 0; i < len(runes)-1; i++ {
		switch runes[i] {
		case '.', '!', '?', ':', ';':
			if unicode.IsSpace(runes[i+1]) {
				lines = append(lines, strings.TrimSpace(string(runes[start:i+1])))
				start = i + 1
			}
		}
	}
	if tail := strings.TrimSpace(string(runes[start:])); tail != "" {
		lines = append(lines, tail)
	}
	return lines
}

// Lines returns the differences between the Markdown lines a and the LaTeX
// lines b. The matching is computed on first iteration; the sequence is meant
// to be consumed once.
func Lines(a, b []string) iter.Seq[domain.DiffLine] {
	return func(yield func(domain.DiffLine) bool) {
		matcher := difflib.NewMatcherWithJunk(a, b, false, nil)
		for _, op := range matcher.GetOpCodes() {
			switch op.Tag {
			case 'e':
				if !emit(yield, domain.OpEqual, a[op.I1:op.I2]) {
					return
				}
			case 'd':
				if !emit(yield, domain.OpRemove, a[op.I1:op.I2]) {
					return
				}
			case 'i':
				if !emit(yield, domain.OpAdd, b[op.J1:op.J2]) {
					return
				}
			case 'r':
				if !emit(yield, domain.OpRemove, a[op.I1:op.I2]) {
					return
				}
				if !emit(yield, domain.OpAdd, b[op.J1:op.J2]) {
					return
				}
			}
		}
	}
}

func emit(yield func(domain.DiffLine) bool, op domain.DiffOp, lines []string) bool {
	for _, l := range lines {
		if !yield(domain.DiffLine{Op: op, Text: l}) {
			return false
		}
	}
	return true
}

// Collect drains seq into a slice, keeping at most limit non-equal lines
// (limit <= 0 keeps everything). Equal lines are dropped when changesOnly is set.
func Collect(seq iter.Seq[domain.DiffLine], limit int, changesOnly bool) []domain.DiffLine {
	var out []domain.DiffLine
	changes := 0
	for line := range seq {
		if line.Op == domain.OpEqual {
			if !changesOnly {
				out = append(out, line)
			}
			continue
		}
		if limit > 0 && changes >= limit {
			break
		}
		out = append(out, line)
		changes++
	}
	return out
}
