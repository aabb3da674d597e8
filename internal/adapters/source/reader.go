package source

import (
	"bytes"
	"context"
	"io"
	"os"

	"github.com/baditaflorin/go_doc_similarity/internal/core/domain"
	"github.com/baditaflorin/go_doc_similarity/internal/pool"
	"github.com/baditaflorin/go_doc_similarity/internal/ports"
)

const (
	// DefaultChunkSize defines the default size of each chunk for reading
	DefaultChunkSize = 64 * 1024 // 64KB

	CR = '\r'
	LF = '\n'
)

// FileReader reads source documents from the local filesystem, converting
// CRLF and lone CR line endings to LF.
type FileReader struct {
	logger    ports.Logger
	chunkPool *pool.BufferPool
	outPool   *pool.BufferPool
}

// NewFileReader creates a new file reader.
func NewFileReader(logger ports.Logger) *FileReader {
	return &FileReader{
		logger:    logger,
		chunkPool: pool.NewBufferPool(DefaultChunkSize),
		outPool:   pool.NewBufferPool(DefaultChunkSize),
	}
}

// Read implements ports.SourceReader. Failures are returned as *domain.IOReadError.
func (r *FileReader) Read(ctx context.Context, path string) (ports.Document, error) {
	if err := ctx.Err(); err != nil {
		return ports.Document{}, &domain.IOReadError{Path: path, Err: err}
	}

	f, err := os.Open(path)
	if err != nil {
		return ports.Document{}, &domain.IOReadError{Path: path, Err: err}
	}
	defer f.Close()

	content, lines, err := r.normalizeLines(f)
	if err != nil {
		return ports.Document{}, &domain.IOReadError{Path: path, Err: err}
	}

	r.logger.Debug("Read source document", "path", path, "bytes", len(content), "lines", lines)
	return ports.Document{Path: path, Content: content, Lines: lines}, nil
}

func (r *FileReader) normalizeLines(reader io.Reader) (string, int, error) {
	chunk := r.chunkPool.Get()
	defer r.chunkPool.Put(chunk)
	out := r.outPool.Get()
	defer r.outPool.Put(out)

	buf := (*chunk)[:cap(*chunk)]
	carryoverCR := false
	for {
		n, err := reader.Read(buf)
		for _, b := range buf[:n] {
			if carryoverCR {
				carryoverCR = false
				if b == LF {
					continue
				}
			}
			if b == CR {
				*out = append(*out, LF)
				carryoverCR = true
				continue
			}
			*out = append(*out, b)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", 0, err
		}
	}

	return string(*out), countLines(*out), nil
}

// countLines counts lines the way editors do: a trailing newline does not start a new line.
func countLines(b []byte) int {
	if len(b) == 0 {
		return 0
	}
	n := bytes.Count(b, []byte{LF})
	if b[len(b)-1] != LF {
		n++
	}
	return n
}
