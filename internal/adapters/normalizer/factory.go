package normalizer

import (
	"github.com/baditaflorin/go_doc_similarity/internal/core/domain"
	"github.com/baditaflorin/go_doc_similarity/internal/ports"
)

// NormalizerFactory creates the normalizer for a document format
type NormalizerFactory struct {
	markdown ports.Normalizer
	latex    *LaTeXNormalizer
}

// NewNormalizerFactory creates a new normalizer factory. The logger may be nil.
func NewNormalizerFactory(logger ports.Logger) *NormalizerFactory {
	return &NormalizerFactory{
		markdown: NewMarkdownNormalizer(),
		latex:    NewLaTeXNormalizer(logger),
	}
}

// ForFormat returns the normalizer for the given format
func (f *NormalizerFactory) ForFormat(format domain.Format) ports.Normalizer {
	switch format {
	case domain.LaTeX:
		return f.latex
	default:
		return f.markdown
	}
}

// Normalize dispatches text to the normalizer of its format and reports any fallbacks.
func (f *NormalizerFactory) Normalize(format domain.Format, text string) (string, []domain.Fallback) {
	n := f.ForFormat(format)
	if d, ok := n.(ports.DiagnosingNormalizer); ok {
		return d.NormalizeWithFallbacks(text)
	}
	return n.Normalize(text), nil
}
