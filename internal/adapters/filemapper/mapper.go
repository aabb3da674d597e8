// Package filemapper pairs Markdown chapters with their LaTeX counterparts.
//
// Naming rules, applied to files directly under the base directory:
//
//	<digit>[_anything].md           -> latex/<digit>.tex            logical name "<digit>"
//	appendix_<id>[_anything].md     -> latex/appendix_<ID>.tex      logical name "appendix_<id>"
//
// The appendix id is lowercased in the logical name and uppercased in the
// LaTeX file name. Entries of the overrides table (Markdown file name to LaTeX
// file name) take precedence; their logical name is the Markdown file stem.
// Other Markdown files are not chapters and are ignored.
package filemapper

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/baditaflorin/go_doc_similarity/internal/core/domain"
	"github.com/baditaflorin/go_doc_similarity/internal/ports"
)

// DefaultLatexDir is the subdirectory holding LaTeX sources.
const DefaultLatexDir = "latex"

// ErrNotDirectory is wrapped in a DiscoveryError when the base path is a file.
var ErrNotDirectory = errors.New("not a directory")

var (
	chapterMarkdown  = regexp.MustCompile(`^([0-9])(?:_.*)?\.md$`)
	appendixMarkdown = regexp.MustCompile(`^appendix_([A-Za-z0-9]+)(?:_.*)?\.md$`)
	chapterLatex     = regexp.MustCompile(`^([0-9])\.tex$`)
	appendixLatex    = regexp.MustCompile(`^appendix_([A-Za-z0-9]+)\.tex$`)
)

// Options configures discovery.
type Options struct {
	LatexDir  string
	Overrides map[string]string
}

// Mapper implements ports.FileMapper over the local filesystem.
type Mapper struct {
	opts   Options
	logger ports.Logger
}

// New creates a new Mapper.
func New(opts Options, logger ports.Logger) *Mapper {
	if opts.LatexDir == "" {
		opts.LatexDir = DefaultLatexDir
	}
	return &Mapper{opts: opts, logger: logger}
}

// MapName applies the naming rules to a Markdown file name. ok is false when
// the file is not a chapter or appendix.
func (m *Mapper) MapName(markdownName string) (logical, latexName string, ok bool) {
	if target, found := m.opts.Overrides[markdownName]; found {
		return strings.TrimSuffix(markdownName, filepath.Ext(markdownName)), target, true
	}
	if sm := chapterMarkdown.FindStringSubmatch(markdownName); sm != nil {
		return sm[1], sm[1] + ".tex", true
	}
	if sm := appendixMarkdown.FindStringSubmatch(markdownName); sm != nil {
		return "appendix_" + strings.ToLower(sm[1]), "appendix_" + strings.ToUpper(sm[1]) + ".tex", true
	}
	return "", "", false
}

// Discover implements ports.FileMapper.
func (m *Mapper) Discover(ctx context.Context, baseDir string) (ports.Mapping, error) {
	info, err := os.Stat(baseDir)
	if err != nil {
		return ports.Mapping{}, &domain.DiscoveryError{Path: baseDir, Err: err}
	}
	if !info.IsDir() {
		return ports.Mapping{}, &domain.DiscoveryError{Path: baseDir, Err: ErrNotDirectory}
	}
	entries, err := os.ReadDir(baseDir)
	if err != nil {
		return ports.Mapping{}, &domain.DiscoveryError{Path: baseDir, Err: err}
	}

	latexDir := filepath.Join(baseDir, m.opts.LatexDir)
	latexFiles := m.listLatex(latexDir)

	var mapping ports.Mapping
	claimed := make(map[string]bool)
	usedLatex := make(map[string]bool)

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return ports.Mapping{}, err
		}
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".md" {
			continue
		}
		logical, latexName, ok := m.MapName(name)
		if !ok {
			m.logger.Debug("Ignoring markdown file outside naming rules", "file", name)
			continue
		}

		mdPath := filepath.Join(baseDir, name)
		switch {
		case claimed[logical]:
			m.logger.Warn("Duplicate logical name", "file", mdPath, "logical_name", logical)
			mapping.Unmapped = append(mapping.Unmapped, domain.Unmapped{Path: mdPath, LogicalName: logical, Kind: domain.Duplicate})
		case !latexFiles[latexName]:
			m.logger.Warn("No LaTeX counterpart", "file", mdPath, "expected", filepath.Join(latexDir, latexName))
			mapping.Unmapped = append(mapping.Unmapped, domain.Unmapped{Path: mdPath, LogicalName: logical, Kind: domain.NoLatex})
		default:
			claimed[logical] = true
			usedLatex[latexName] = true
			mapping.Pairs = append(mapping.Pairs, domain.FilePair{
				MarkdownPath: mdPath,
				LatexPath:    filepath.Join(latexDir, latexName),
				LogicalName:  logical,
			})
		}
	}

	overrideTargets := make(map[string]string, len(m.opts.Overrides))
	for md, tex := range m.opts.Overrides {
		overrideTargets[tex] = strings.TrimSuffix(md, filepath.Ext(md))
	}
	for name := range latexFiles {
		if usedLatex[name] {
			continue
		}
		logical, ok := overrideTargets[name]
		if !ok {
			logical, ok = latexLogicalName(name)
		}
		if !ok {
			continue
		}
		texPath := filepath.Join(latexDir, name)
		m.logger.Warn("No Markdown counterpart", "file", texPath, "logical_name", logical)
		mapping.Unmapped = append(mapping.Unmapped, domain.Unmapped{Path: texPath, LogicalName: logical, Kind: domain.NoMarkdown})
	}

	sort.Slice(mapping.Unmapped, func(i, j int) bool {
		return mapping.Unmapped[i].Path < mapping.Unmapped[j].Path
	})

	m.logger.Info("Discovered document pairs",
		"base_dir", baseDir,
		"pairs", len(mapping.Pairs),
		"unmapped", len(mapping.Unmapped),
	)
	return mapping, nil
}

func (m *Mapper) listLatex(dir string) map[string]bool {
	files := make(map[string]bool)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			m.logger.Warn("LaTeX directory not found", "dir", dir)
		} else {
			m.logger.Warn("Cannot list LaTeX directory", "dir", dir, "error", err)
		}
		return files
	}
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".tex" {
			files[e.Name()] = true
		}
	}
	return files
}

func latexLogicalName(name string) (string, bool) {
	if sm := chapterLatex.FindStringSubmatch(name); sm != nil {
		return sm[1], true
	}
	if sm := appendixLatex.FindStringSubmatch(name); sm != nil {
		return "appendix_" + strings.ToLower(sm[1]), true
	}
	return "", false
}
