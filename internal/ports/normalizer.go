package ports

import "github.com/baditaflorin/go_doc_similarity/internal/core/domain"

// Normalizer defines the interface for text normalization.
type Normalizer interface {
	Normalize(text string) string
}

// DiagnosingNormalizer is a Normalizer that also reports spans it passed through verbatim.
type DiagnosingNormalizer interface {
	Normalizer
	NormalizeWithFallbacks(text string) (string, []domain.Fallback)
}
