// Package comparison is the public entry point for comparing a Markdown
// thesis against its LaTeX rendition.
package comparison

import (
	"context"

	"github.com/baditaflorin/go_doc_similarity/internal/adapters/filemapper"
	"github.com/baditaflorin/go_doc_similarity/internal/adapters/logger"
	"github.com/baditaflorin/go_doc_similarity/internal/adapters/normalizer"
	"github.com/baditaflorin/go_doc_similarity/internal/adapters/source"
	core "github.com/baditaflorin/go_doc_similarity/internal/core/comparison"
	"github.com/baditaflorin/go_doc_similarity/internal/core/domain"
	"github.com/baditaflorin/go_doc_similarity/internal/core/similarity"
	"github.com/baditaflorin/go_doc_similarity/internal/ports"
	"github.com/baditaflorin/l"
)

// Comparator discovers and compares document pairs.
type Comparator struct {
	service *core.Service
	logger  ports.Logger
	config  comparatorConfig
}

// Option defines a functional option for configuring a Comparator.
type Option func(*comparatorConfig)

type comparatorConfig struct {
	Logger       ports.Logger
	Pattern      string
	Verbose      bool
	Workers      int
	LatexDir     string
	Overrides    map[string]string
	Granularity  similarity.Granularity
	Precision    int
	MaxDiffLines int
	Reader       ports.SourceReader
}

// WithLogger sets a custom logger.
func WithLogger(l l.Logger) Option {
	return func(cfg *comparatorConfig) {
		cfg.Logger = logger.FromExisting(l)
	}
}

// WithLogSink sets an already adapted logger, as built by the CLI.
func WithLogSink(sink ports.Logger) Option {
	return func(cfg *comparatorConfig) {
		cfg.Logger = sink
	}
}

// WithPattern keeps only entries whose logical name contains pattern.
func WithPattern(pattern string) Option {
	return func(cfg *comparatorConfig) {
		cfg.Pattern = pattern
	}
}

// WithVerbose enables per-pair diffs for pairs that are not identical.
func WithVerbose(verbose bool) Option {
	return func(cfg *comparatorConfig) {
		cfg.Verbose = verbose
	}
}

// WithWorkers sets how many pairs are compared concurrently.
func WithWorkers(n int) Option {
	return func(cfg *comparatorConfig) {
		cfg.Workers = n
	}
}

// WithLatexDir sets the LaTeX subdirectory name relative to the base directory.
func WithLatexDir(dir string) Option {
	return func(cfg *comparatorConfig) {
		cfg.LatexDir = dir
	}
}

// WithOverrides sets explicit Markdown to LaTeX file name mappings.
func WithOverrides(overrides map[string]string) Option {
	return func(cfg *comparatorConfig) {
		cfg.Overrides = overrides
	}
}

// WithGranularity selects word ("word") or character ("char") tokens for scoring.
func WithGranularity(g string) Option {
	return func(cfg *comparatorConfig) {
		cfg.Granularity = similarity.Granularity(g)
	}
}

// WithPrecision rounds similarity scores to p decimals.
func WithPrecision(p int) Option {
	return func(cfg *comparatorConfig) {
		cfg.Precision = p
	}
}

// WithMaxDiffLines caps the changed diff lines kept per pair. Zero keeps all.
func WithMaxDiffLines(n int) Option {
	return func(cfg *comparatorConfig) {
		cfg.MaxDiffLines = n
	}
}

// WithSourceReader replaces the filesystem reader.
func WithSourceReader(reader ports.SourceReader) Option {
	return func(cfg *comparatorConfig) {
		cfg.Reader = reader
	}
}

// New creates a Comparator.
func New(opts ...Option) (*Comparator, error) {
	defaults := similarity.DefaultConfig()
	config := comparatorConfig{
		Workers:      1,
		LatexDir:     filemapper.DefaultLatexDir,
		Granularity:  defaults.Granularity,
		Precision:    defaults.Precision,
		MaxDiffLines: 50,
	}

	for _, opt := range opts {
		opt(&config)
	}

	if config.Logger == nil {
		var err error
		config.Logger, err = logger.NewStdLogger()
		if err != nil {
			return nil, err
		}
	}
	if config.Reader == nil {
		config.Reader = source.NewFileReader(config.Logger)
	}

	calculator, err := similarity.NewCalculator(similarity.SimilarityConfig{
		Granularity: config.Granularity,
		Precision:   config.Precision,
	}, config.Logger)
	if err != nil {
		return nil, err
	}

	mapper := filemapper.New(filemapper.Options{
		LatexDir:  config.LatexDir,
		Overrides: config.Overrides,
	}, config.Logger)

	return &Comparator{
		service: core.NewService(mapper, config.Reader, normalizer.NewNormalizerFactory(config.Logger), calculator, config.Logger),
		logger:  config.Logger,
		config:  config,
	}, nil
}

// Compare runs a comparison over baseDir. A *domain.DiscoveryError is
// returned when baseDir cannot be used.
func (c *Comparator) Compare(ctx context.Context, baseDir string) (*domain.Report, error) {
	return c.service.Run(ctx, core.Request{
		BaseDir:      baseDir,
		Pattern:      c.config.Pattern,
		Verbose:      c.config.Verbose,
		Workers:      c.config.Workers,
		MaxDiffLines: c.config.MaxDiffLines,
	})
}
