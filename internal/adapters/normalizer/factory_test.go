package normalizer

import (
	"testing"

	"github.com/baditaflorin/go_doc_similarity/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestNormalizerFactoryDispatch(t *testing.T) {
	f := NewNormalizerFactory(nil)

	assert.IsType(t, &MarkdownNormalizer{}, f.ForFormat(domain.Markdown))
	assert.IsType(t, &LaTeXNormalizer{}, f.ForFormat(domain.LaTeX))

	out, fallbacks := f.Normalize(domain.Markdown, "**x** }")
	assert.Equal(t, "x }", out)
	assert.Nil(t, fallbacks)

	out, fallbacks = f.Normalize(domain.LaTeX, `\textbf{x} }`)
	assert.Equal(t, "x }", out)
	assert.Len(t, fallbacks, 1)
}

func TestFinish(t *testing.T) {
	assert.Equal(t, "a b c", finish(" \t a\n\nb\u00a0 c \n"))
	assert.Equal(t, "", finish("   \n"))
	// e + combining acute composes to a single rune.
	assert.Equal(t, "café", finish("cafe\u0301"))
}
