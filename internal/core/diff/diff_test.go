package diff

import (
	"slices"
	"testing"

	"github.com/baditaflorin/go_doc_similarity/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestSplitSentences(t *testing.T) {
	assert.Nil(t, SplitSentences(""))
	assert.Equal(t,
		[]string{"Title Some bold text.", "Second one!", "Is it?", "Tail without stop"},
		SplitSentences("Title Some bold text. Second one! Is it? Tail without stop"))
	// Decimal points are not sentence ends.
	assert.Equal(t, []string{"Rate is 128.5 Hz."}, SplitSentences("Rate is 128.5 Hz."))
}

func TestLines(t *testing.T) {
	a := []string{"Intro.", "Only in Markdown.", "Shared.", "Changed md."}
	b := []string{"Intro.", "Shared.", "Changed tex.", "Only in LaTeX."}

	got := slices.Collect(Lines(a, b))
	want := []domain.DiffLine{
		{Op: domain.OpEqual, Text: "Intro."},
		{Op: domain.OpRemove, Text: "Only in Markdown."},
		{Op: domain.OpEqual, Text: "Shared."},
		{Op: domain.OpRemove, Text: "Changed md."},
		{Op: domain.OpAdd, Text: "Changed tex."},
		{Op: domain.OpAdd, Text: "Only in LaTeX."},
	}
	assert.Equal(t, want, got)
}

func TestLinesIdentical(t *testing.T) {
	a := []string{"One.", "Two."}
	for line := range Lines(a, a) {
		assert.Equal(t, domain.OpEqual, line.Op)
	}
}

func TestLinesEarlyStop(t *testing.T) {
	a := []string{"x.", "y.", "z."}
	n := 0
	for range Lines(a, nil) {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}

func TestCollectLimit(t *testing.T) {
	a := []string{"same.", "a1.", "a2.", "a3."}
	b := []string{"same."}

	got := Collect(Lines(a, b), 2, true)
	assert.Equal(t, []domain.DiffLine{
		{Op: domain.OpRemove, Text: "a1."},
		{Op: domain.OpRemove, Text: "a2."},
	}, got)

	all := Collect(Lines(a, b), 0, false)
	assert.Len(t, all, 4)
}
