package ports

import "context"

// Document is the raw content of a source file.
type Document struct {
	Path    string
	Content string
	Lines   int
}

// SourceReader loads source documents from storage.
type SourceReader interface {
	Read(ctx context.Context, path string) (Document, error)
}
