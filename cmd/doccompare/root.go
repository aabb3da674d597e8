package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/baditaflorin/go_doc_similarity/internal/adapters/logger"
	"github.com/baditaflorin/go_doc_similarity/internal/adapters/report"
	"github.com/baditaflorin/go_doc_similarity/internal/config"
	"github.com/baditaflorin/go_doc_similarity/internal/ports"
	"github.com/baditaflorin/go_doc_similarity/pkg/comparison"
)

type rootOptions struct {
	pattern    string
	verbose    bool
	baseDir    string
	htmlReport bool
	htmlOutput string
	configPath string
	format     string
	workers    int
	noColor    bool
	debug      bool
	logFile    string
}

func newRootCommand() *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:   "doccompare",
		Short: "Compare Markdown chapters with their LaTeX counterparts",
		Long: `doccompare pairs Markdown chapters (1_intro.md, appendix_a_setup.md, ...) with
the LaTeX files under latex/ (1.tex, appendix_A.tex, ...), normalizes both to
plain prose and reports a similarity score per pair.`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.pattern, "file-pattern", "p", "", "Only compare entries whose logical name contains this text")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Show sentence-level differences for pairs that are not identical")
	flags.StringVarP(&opts.baseDir, "base-dir", "d", ".", "Directory containing the Markdown files and the LaTeX subdirectory")
	flags.BoolVar(&opts.htmlReport, "html-report", false, "Also write a self-contained HTML report")
	flags.StringVar(&opts.htmlOutput, "html-output", "", "HTML report path (default from config, comparison_report.html)")
	flags.StringVarP(&opts.configPath, "config", "c", "", "Configuration file path (default <base-dir>/doccompare.toml)")
	flags.StringVar(&opts.format, "format", "text", "Output format: text, json or yaml")
	flags.IntVar(&opts.workers, "workers", 0, "Number of pairs compared concurrently (default from config, 1)")
	flags.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	flags.BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	flags.StringVar(&opts.logFile, "log-file", "", "Write logs to this file instead of stderr")

	return cmd
}

func run(cmd *cobra.Command, opts rootOptions) error {
	format, err := report.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	if opts.workers < 0 {
		return fmt.Errorf("--workers must not be negative, got %d", opts.workers)
	}

	cfg, cfgPath, cfgFound, err := config.Load(opts.configPath, opts.baseDir)
	if err != nil {
		return err
	}
	applyFlagOverrides(cfg, opts)

	log, closeLog, err := newLogger(cfg, opts.debug, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closeLog()
	if cfgFound {
		log.Debug("Loaded configuration", "path", cfgPath)
	}

	comparator, err := comparison.New(
		comparison.WithLogSink(log),
		comparison.WithPattern(opts.pattern),
		comparison.WithVerbose(opts.verbose),
		comparison.WithWorkers(cfg.Workers),
		comparison.WithLatexDir(cfg.LatexDir),
		comparison.WithOverrides(cfg.Overrides),
		comparison.WithGranularity(cfg.Granularity),
		comparison.WithMaxDiffLines(cfg.MaxDiffLines),
	)
	if err != nil {
		return err
	}

	rep, err := comparator.Compare(cmd.Context(), opts.baseDir)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := writerFor(format, out, opts, cfg).Write(rep); err != nil {
		return err
	}

	if opts.htmlReport {
		html := report.NewHTMLWriter(cfg.HTMLReport, cfg.LengthDeltaWarn)
		if err := html.Write(rep); err != nil {
			return err
		}
		log.Info("Wrote HTML report", "path", html.Path())
		if format == report.FormatText {
			fmt.Fprintf(out, "HTML report written to %s\n", html.Path())
		}
	}
	return nil
}

func applyFlagOverrides(cfg *config.Config, opts rootOptions) {
	if opts.workers > 0 {
		cfg.Workers = opts.workers
	}
	if opts.htmlOutput != "" {
		cfg.HTMLReport = opts.htmlOutput
	}
	if opts.logFile != "" {
		cfg.Logging.File = opts.logFile
	}
}

func writerFor(format report.Format, out io.Writer, opts rootOptions, cfg *config.Config) ports.ReportWriter {
	switch format {
	case report.FormatJSON:
		return report.NewJSONWriter(out)
	case report.FormatYAML:
		return report.NewYAMLWriter(out)
	default:
		return report.NewConsoleWriter(out, report.ConsoleOptions{
			Verbose:         opts.verbose,
			NoColor:         opts.noColor,
			LengthDeltaWarn: cfg.LengthDeltaWarn,
		})
	}
}

func newLogger(cfg *config.Config, debug bool, stderr io.Writer) (ports.Logger, func(), error) {
	level := logger.LevelWarn
	if debug {
		level = logger.LevelDebug
	}

	output := stderr
	var file *os.File
	if cfg.Logging.File != "" {
		f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		file = f
		output = f
	}

	log, err := logger.NewCustomStdLogger(logger.Options{
		Output: output,
		JSON:   cfg.Logging.JSON,
		Level:  level,
	})
	if err != nil {
		if file != nil {
			file.Close()
		}
		return nil, nil, fmt.Errorf("create logger: %w", err)
	}

	closeFn := func() {
		_ = log.Close()
		if file != nil {
			_ = file.Close()
		}
	}
	return log, closeFn, nil
}
