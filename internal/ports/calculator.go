package ports

import "github.com/baditaflorin/go_doc_similarity/internal/core/domain"

// SimilarityCalculator defines the interface for computing similarity between normalized texts.
type SimilarityCalculator interface {
	Score(a, b string) domain.Score
}
