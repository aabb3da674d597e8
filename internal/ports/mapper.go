package ports

import (
	"context"

	"github.com/baditaflorin/go_doc_similarity/internal/core/domain"
)

// Mapping is the result of pairing documents in a base directory.
type Mapping struct {
	Pairs    []domain.FilePair
	Unmapped []domain.Unmapped
}

// FileMapper discovers Markdown/LaTeX pairs under a base directory.
type FileMapper interface {
	Discover(ctx context.Context, baseDir string) (Mapping, error)
}
