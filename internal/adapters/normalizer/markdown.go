package normalizer

import (
	"regexp"
	"strings"

	"github.com/baditaflorin/go_doc_similarity/internal/ports"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

var (
	// [^note] footnote references.
	footnoteRef = regexp.MustCompile(`\[\^([^\]\s]+)\]`)
	// [@key], [@a; @b], [see @key, p. 3]
	bracketCitation = regexp.MustCompile(`\[([^\[\]]*@[^\[\]]*)\]`)
	// narrative @key citations preceded by whitespace or line start.
	narrativeCitation = regexp.MustCompile(`(^|\s)@([\p{L}\p{N}_:.\-]*[\p{L}\p{N}_])`)
	citationKey       = regexp.MustCompile(`@([\p{L}\p{N}_:.\-]*[\p{L}\p{N}_])`)
)

// MarkdownNormalizer reduces Markdown to plain prose using the goldmark AST.
type MarkdownNormalizer struct{}

// NewMarkdownNormalizer creates a new Markdown normalizer.
func NewMarkdownNormalizer() ports.Normalizer {
	return &MarkdownNormalizer{}
}

// Normalize strips Markdown syntax, rewrites citations to [key] form and collapses whitespace.
func (n *MarkdownNormalizer) Normalize(source string) string {
	src := []byte(source)
	md := goldmark.New(goldmark.WithExtensions(extension.Table, extension.Strikethrough))
	doc := md.Parser().Parse(text.NewReader(src))

	var sb strings.Builder
	sb.Grow(len(src))

	_ = ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if node.Type() == ast.TypeBlock {
				sb.WriteByte('\n')
			}
			return ast.WalkContinue, nil
		}

		switch node := node.(type) {
		case *ast.Text:
			sb.Write(unescape(node.Segment.Value(src)))
			if node.SoftLineBreak() || node.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(unescape(node.Value))
		case *ast.AutoLink:
			sb.Write(node.Label(src))
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			lines := node.Lines()
			for i := 0; i < lines.Len(); i++ {
				line := lines.At(i)
				sb.Write(line.Value(src))
			}
			return ast.WalkSkipChildren, nil
		case *ast.HTMLBlock, *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return finish(rewriteCitations(sb.String()))
}

func unescape(value []byte) []byte {
	return util.ResolveEntityNames(util.UnescapePunctuations(value))
}

// rewriteCitations aligns pandoc citations and footnote references with the
// [key] form produced for LaTeX citation commands.
func rewriteCitations(s string) string {
	s = footnoteRef.ReplaceAllString(s, "[$1]")
	s = bracketCitation.ReplaceAllStringFunc(s, func(m string) string {
		keys := citationKey.FindAllStringSubmatch(m, -1)
		if len(keys) == 0 {
			return m
		}
		names := make([]string, 0, len(keys))
		for _, k := range keys {
			names = append(names, k[1])
		}
		return "[" + strings.Join(names, ", ") + "]"
	})
	return narrativeCitation.ReplaceAllString(s, "$1[$2]")
}
