package comparison_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baditaflorin/go_doc_similarity/internal/adapters/logger"
	"github.com/baditaflorin/go_doc_similarity/internal/core/domain"
	"github.com/baditaflorin/go_doc_similarity/pkg/comparison"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestCompareWithOptions(t *testing.T) {
	base := t.TempDir()
	write(t, filepath.Join(base, "intro.md"), "# Introduction\n\nSee [@knuth84].\n")
	write(t, filepath.Join(base, "tex", "intro_chapter.tex"), "\\chapter{Introduction}\nSee \\cite{knuth84}.\n")
	write(t, filepath.Join(base, "2_method.md"), "# Method\n")

	c, err := comparison.New(
		comparison.WithLogSink(logger.NewNop()),
		comparison.WithLatexDir("tex"),
		comparison.WithOverrides(map[string]string{"intro.md": "intro_chapter.tex"}),
		comparison.WithGranularity("char"),
	)
	require.NoError(t, err)

	report, err := c.Compare(context.Background(), base)
	require.NoError(t, err)

	require.Len(t, report.Results, 1)
	assert.Equal(t, "intro", report.Results[0].Pair.LogicalName)
	assert.Equal(t, 1.0, report.Results[0].Similarity)
	require.Len(t, report.Unmapped, 1)
	assert.Equal(t, domain.NoLatex, report.Unmapped[0].Kind)
}

func TestNewRejectsBadGranularity(t *testing.T) {
	_, err := comparison.New(comparison.WithLogSink(logger.NewNop()), comparison.WithGranularity("sentence"))
	assert.Error(t, err)
}

func TestCompareMissingBaseDir(t *testing.T) {
	c, err := comparison.New(comparison.WithLogSink(logger.NewNop()))
	require.NoError(t, err)

	_, err = c.Compare(context.Background(), filepath.Join(t.TempDir(), "nope"))
	var discErr *domain.DiscoveryError
	assert.ErrorAs(t, err, &discErr)
}
