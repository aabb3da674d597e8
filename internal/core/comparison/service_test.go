package comparison_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baditaflorin/go_doc_similarity/internal/adapters/filemapper"
	"github.com/baditaflorin/go_doc_similarity/internal/adapters/logger"
	"github.com/baditaflorin/go_doc_similarity/internal/adapters/normalizer"
	"github.com/baditaflorin/go_doc_similarity/internal/adapters/source"
	"github.com/baditaflorin/go_doc_similarity/internal/core/comparison"
	"github.com/baditaflorin/go_doc_similarity/internal/core/domain"
	"github.com/baditaflorin/go_doc_similarity/internal/core/similarity"
	"github.com/baditaflorin/go_doc_similarity/internal/ports"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// thesis lays out one matching chapter, one drifted chapter, an appendix with
// an empty LaTeX side and an orphan Markdown file.
func thesis(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "1_intro.md"), "# Title\n\nSome **bold** text.\n")
	writeFile(t, filepath.Join(base, "latex", "1.tex"), "\\section{Title}\n\nSome \\textbf{bold} text.\n")
	writeFile(t, filepath.Join(base, "2_method.md"), "# Method\n\nWe measure latency. We report throughput. We ignore jitter.\n")
	writeFile(t, filepath.Join(base, "latex", "2.tex"), "\\section{Method}\n\nWe measure latency. We report goodput. We ignore jitter.\n")
	writeFile(t, filepath.Join(base, "appendix_a_setup.md"), "# Setup\n\nThe testbed has four nodes.\n")
	writeFile(t, filepath.Join(base, "latex", "appendix_A.tex"), "")
	writeFile(t, filepath.Join(base, "5_future.md"), "# Future work\n")
	return base
}

func newService(t *testing.T, reader ports.SourceReader) *comparison.Service {
	t.Helper()
	log := logger.NewNop()
	calc, err := similarity.NewCalculator(similarity.DefaultConfig(), log)
	require.NoError(t, err)
	if reader == nil {
		reader = source.NewFileReader(log)
	}
	return comparison.NewService(
		filemapper.New(filemapper.Options{}, log),
		reader,
		normalizer.NewNormalizerFactory(log),
		calc,
		log,
	)
}

func byName(t *testing.T, report *domain.Report, name string) domain.ComparisonResult {
	t.Helper()
	for _, r := range report.Results {
		if r.Pair.LogicalName == name {
			return r
		}
	}
	t.Fatalf("no result for %q", name)
	return domain.ComparisonResult{}
}

func TestRunComparesAllPairs(t *testing.T) {
	base := thesis(t)
	report, err := newService(t, nil).Run(context.Background(), comparison.Request{BaseDir: base})
	require.NoError(t, err)

	require.Len(t, report.Results, 3)
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, base, report.BaseDir)

	intro := byName(t, report, "1")
	assert.Equal(t, domain.StatusCompared, intro.Status)
	assert.Equal(t, 1.0, intro.Similarity)
	assert.Equal(t, domain.TierHigh, intro.Tier)
	assert.Empty(t, intro.Diff)

	method := byName(t, report, "2")
	assert.Less(t, method.Similarity, 1.0)
	assert.Greater(t, method.Similarity, 0.0)
	assert.Empty(t, method.Diff, "diff is only produced in verbose mode")

	appendix := byName(t, report, "appendix_a")
	assert.Equal(t, domain.TierLow, appendix.Tier)
	assert.InDelta(t, 1.0, appendix.LengthDeltaPct, 1e-9)
	assert.Equal(t, 0, appendix.LatexChars)

	require.Len(t, report.Unmapped, 1)
	assert.Equal(t, domain.NoLatex, report.Unmapped[0].Kind)
	assert.Equal(t, 1, report.Summary.Unmapped)
	assert.Equal(t, 1, report.Summary.High)
	assert.Equal(t, 1, report.Summary.Low)
}

func TestRunVerboseProducesDiff(t *testing.T) {
	base := thesis(t)
	report, err := newService(t, nil).Run(context.Background(), comparison.Request{
		BaseDir: base,
		Pattern: "2",
		Verbose: true,
	})
	require.NoError(t, err)
	require.Len(t, report.Results, 1)

	var removed, added []string
	for _, line := range report.Results[0].Diff {
		switch line.Op {
		case domain.OpRemove:
			removed = append(removed, line.Text)
		case domain.OpAdd:
			added = append(added, line.Text)
		}
	}
	assert.Equal(t, []string{"We report throughput."}, removed)
	assert.Equal(t, []string{"We report goodput."}, added)
}

func TestRunPatternFilter(t *testing.T) {
	base := thesis(t)
	report, err := newService(t, nil).Run(context.Background(), comparison.Request{BaseDir: base, Pattern: "appendix_a"})
	require.NoError(t, err)

	require.Len(t, report.Results, 1)
	assert.Equal(t, "appendix_a", report.Results[0].Pair.LogicalName)
	assert.Empty(t, report.Unmapped)
}

func TestRunParallelKeepsOrder(t *testing.T) {
	base := thesis(t)
	sequential, err := newService(t, nil).Run(context.Background(), comparison.Request{BaseDir: base})
	require.NoError(t, err)
	parallel, err := newService(t, nil).Run(context.Background(), comparison.Request{BaseDir: base, Workers: 4})
	require.NoError(t, err)

	require.Len(t, parallel.Results, len(sequential.Results))
	for i := range sequential.Results {
		assert.Equal(t, sequential.Results[i].Pair, parallel.Results[i].Pair)
		assert.Equal(t, sequential.Results[i].Similarity, parallel.Results[i].Similarity)
	}
}

func TestRunMissingBaseDir(t *testing.T) {
	_, err := newService(t, nil).Run(context.Background(), comparison.Request{
		BaseDir: filepath.Join(t.TempDir(), "absent"),
	})
	var discErr *domain.DiscoveryError
	require.ErrorAs(t, err, &discErr)
}

type failingReader struct {
	ports.SourceReader
	failOn string
}

func (r failingReader) Read(ctx context.Context, path string) (ports.Document, error) {
	if strings.HasSuffix(path, r.failOn) {
		return ports.Document{}, &domain.IOReadError{Path: path, Err: errors.New("permission denied")}
	}
	return r.SourceReader.Read(ctx, path)
}

func TestRunReadErrorIsNotFatal(t *testing.T) {
	base := thesis(t)
	reader := failingReader{SourceReader: source.NewFileReader(logger.NewNop()), failOn: "2.tex"}

	report, err := newService(t, reader).Run(context.Background(), comparison.Request{BaseDir: base})
	require.NoError(t, err)

	method := byName(t, report, "2")
	assert.Equal(t, domain.StatusReadError, method.Status)
	assert.Contains(t, method.Err, "permission denied")
	assert.Equal(t, 1, report.Summary.ReadError)
	assert.Equal(t, domain.StatusCompared, byName(t, report, "1").Status)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newService(t, nil).Run(ctx, comparison.Request{BaseDir: thesis(t)})
	assert.ErrorIs(t, err, context.Canceled)
}
