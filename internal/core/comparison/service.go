// Package comparison runs a full Markdown/LaTeX comparison over a base directory.
package comparison

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/baditaflorin/go_doc_similarity/internal/core/diff"
	"github.com/baditaflorin/go_doc_similarity/internal/core/domain"
	"github.com/baditaflorin/go_doc_similarity/internal/ports"
)

// TextNormalizer normalizes text of a given format and reports verbatim spans.
type TextNormalizer interface {
	Normalize(format domain.Format, text string) (string, []domain.Fallback)
}

// Request describes one comparison run.
type Request struct {
	BaseDir string
	// Pattern keeps only entries whose logical name contains it. Empty keeps all.
	Pattern string
	Verbose bool
	Workers int
	// MaxDiffLines caps changed diff lines per pair. Zero means unlimited.
	MaxDiffLines int
}

// Service wires the mapper, reader, normalizers and scorer together.
type Service struct {
	mapper     ports.FileMapper
	reader     ports.SourceReader
	normalizer TextNormalizer
	scorer     ports.SimilarityCalculator
	logger     ports.Logger
	now        func() time.Time
}

// NewService creates a comparison service.
func NewService(mapper ports.FileMapper, reader ports.SourceReader, normalizer TextNormalizer,
	scorer ports.SimilarityCalculator, logger ports.Logger) *Service {
	return &Service{
		mapper:     mapper,
		reader:     reader,
		normalizer: normalizer,
		scorer:     scorer,
		logger:     logger,
		now:        time.Now,
	}
}

// Run discovers pairs under req.BaseDir and compares each of them. Only a
// discovery failure or context cancellation is returned as an error; per-pair
// read failures become read_error results.
func (s *Service) Run(ctx context.Context, req Request) (*domain.Report, error) {
	runID := uuid.NewString()
	start := s.now()
	s.logger.Info("Starting comparison", "run_id", runID, "base_dir", req.BaseDir, "pattern", req.Pattern)

	mapping, err := s.mapper.Discover(ctx, req.BaseDir)
	if err != nil {
		return nil, err
	}

	pairs := filterPairs(mapping.Pairs, req.Pattern)
	unmapped := filterUnmapped(mapping.Unmapped, req.Pattern)
	for _, u := range unmapped {
		s.logger.Warn("Unmapped document", "path", u.Path, "kind", u.Kind)
	}

	results := make([]domain.ComparisonResult, len(pairs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(req.Workers, 1))
	for i, pair := range pairs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = s.comparePair(gctx, pair, req)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := &domain.Report{
		RunID:       runID,
		GeneratedAt: start.UTC(),
		BaseDir:     req.BaseDir,
		Results:     results,
		Unmapped:    unmapped,
	}
	report.Summarize()

	s.logger.Info("Comparison finished",
		"run_id", runID,
		"pairs", len(results),
		"unmapped", report.Summary.Unmapped,
		"read_errors", report.Summary.ReadError,
		"elapsed", s.now().Sub(start),
	)
	return report, nil
}

func (s *Service) comparePair(ctx context.Context, pair domain.FilePair, req Request) domain.ComparisonResult {
	result := domain.ComparisonResult{Pair: pair, Status: domain.StatusCompared}

	md, err := s.reader.Read(ctx, pair.MarkdownPath)
	if err != nil {
		return s.readFailure(result, err)
	}
	tex, err := s.reader.Read(ctx, pair.LatexPath)
	if err != nil {
		return s.readFailure(result, err)
	}

	mdText, _ := s.normalizer.Normalize(domain.Markdown, md.Content)
	texText, fallbacks := s.normalizer.Normalize(domain.LaTeX, tex.Content)

	score := s.scorer.Score(mdText, texText)
	result.Similarity = score.Similarity
	result.LengthDeltaPct = score.LengthDeltaPct
	result.Tier = domain.ClassifyTier(score.Similarity)
	result.MarkdownLines = md.Lines
	result.LatexLines = tex.Lines
	result.MarkdownChars = len([]rune(mdText))
	result.LatexChars = len([]rune(texText))
	result.Fallbacks = fallbacks

	if req.Verbose && score.Similarity < 1.0 {
		seq := diff.Lines(diff.SplitSentences(mdText), diff.SplitSentences(texText))
		result.Diff = diff.Collect(seq, req.MaxDiffLines, false)
	}

	s.logger.Debug("Compared pair",
		"name", pair.LogicalName,
		"similarity", result.Similarity,
		"tier", result.Tier,
		"fallbacks", len(fallbacks),
	)
	return result
}

func (s *Service) readFailure(result domain.ComparisonResult, err error) domain.ComparisonResult {
	result.Status = domain.StatusReadError
	result.Err = err.Error()

	var readErr *domain.IOReadError
	if errors.As(err, &readErr) {
		s.logger.Warn("Could not read document", "name", result.Pair.LogicalName, "path", readErr.Path, "error", readErr.Err)
	} else {
		s.logger.Warn("Could not read document", "name", result.Pair.LogicalName, "error", err)
	}
	return result
}

func filterPairs(pairs []domain.FilePair, pattern string) []domain.FilePair {
	if pattern == "" {
		return pairs
	}
	out := make([]domain.FilePair, 0, len(pairs))
	for _, p := range pairs {
		if strings.Contains(p.LogicalName, pattern) {
			out = append(out, p)
		}
	}
	return out
}

// Unmapped entries without a logical name are dropped once a pattern is set.
func filterUnmapped(entries []domain.Unmapped, pattern string) []domain.Unmapped {
	if pattern == "" {
		return entries
	}
	out := make([]domain.Unmapped, 0, len(entries))
	for _, u := range entries {
		if u.LogicalName != "" && strings.Contains(u.LogicalName, pattern) {
			out = append(out, u)
		}
	}
	return out
}
