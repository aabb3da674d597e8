package normalizer

import (
	"strings"
	"unicode/utf8"

	"github.com/baditaflorin/go_doc_similarity/internal/core/domain"
	"github.com/baditaflorin/go_doc_similarity/internal/ports"
)

// Commands removed together with the given number of mandatory arguments.
var dropCommands = map[string]int{
	"label": 1, "ref": 1, "eqref": 1, "autoref": 1, "cref": 1, "Cref": 1, "pageref": 1,
	"includegraphics": 1, "usepackage": 1, "documentclass": 1, "input": 1, "include": 1,
	"bibliographystyle": 1, "bibliography": 1, "addbibresource": 1,
	"vspace": 1, "hspace": 1, "pagestyle": 1, "thispagestyle": 1, "setcounter": 2, "setlength": 2,
	"newcommand": 2, "renewcommand": 2, "graphicspath": 1, "index": 1, "cline": 1,
	"item": 0, "centering": 0, "noindent": 0, "newpage": 0, "clearpage": 0, "cleardoublepage": 0,
	"maketitle": 0, "tableofcontents": 0, "listoffigures": 0, "listoftables": 0,
	"hline": 0, "toprule": 0, "midrule": 0, "bottomrule": 0, "appendix": 0, "printbibliography": 0,
	"frontmatter": 0, "mainmatter": 0, "backmatter": 0, "raggedright": 0, "raggedleft": 0,
	"small": 0, "footnotesize": 0, "scriptsize": 0, "normalsize": 0, "large": 0, "Large": 0,
	"bigskip": 0, "medskip": 0, "smallskip": 0, "protect": 0, "displaystyle": 0,
}

var citeCommands = map[string]bool{
	"cite": true, "citep": true, "citet": true, "citealp": true, "citeauthor": true, "citeyear": true,
	"parencite": true, "textcite": true, "autocite": true, "footcite": true, "nocite": true,
}

// Commands whose argument is its own block of text.
var blockCommands = map[string]bool{
	"part": true, "chapter": true, "section": true, "subsection": true, "subsubsection": true,
	"paragraph": true, "subparagraph": true, "caption": true, "title": true, "footnote": true,
}

var textCommands = map[string]string{
	"LaTeX": "LaTeX", "TeX": "TeX", "ldots": "...", "dots": "...", "textendash": "–",
	"textemdash": "—", "S": "§", "textbackslash": "\\", "newline": "\n", "par": "\n",
	"linebreak": "\n", "quad": " ", "qquad": " ", "ss": "ß", "ae": "æ", "o": "ø", "aa": "å",
	"textasciitilde": "~", "textless": "<", "textgreater": ">", "textbar": "|",
}

// Environments followed by mandatory arguments that are not content.
var envArgs = map[string]int{
	"tabular": 1, "tabular*": 2, "tabularx": 2, "longtable": 1, "array": 1,
	"minipage": 1, "multicols": 1, "wrapfigure": 2, "subfigure": 1, "minted": 1,
}

// Environments whose body is copied without interpretation.
var rawEnvs = map[string]bool{
	"verbatim": true, "verbatim*": true, "Verbatim": true, "lstlisting": true, "minted": true,
}

// Combining marks for accent control symbols; NFC in finish composes them.
var accents = map[byte]rune{
	'\'': '\u0301', '`': '\u0300', '^': '\u0302', '"': '\u0308', '~': '\u0303', '=': '\u0304', '.': '\u0307',
}

// LaTeXNormalizer reduces LaTeX source to plain prose.
//
// Comments run from an unescaped % to the end of the line; \% is a literal
// percent sign and \\% is a line break followed by a comment. Citation
// commands become [key1, key2]. Spans with unbalanced braces are copied
// verbatim and reported as fallbacks.
type LaTeXNormalizer struct {
	logger ports.Logger
}

// NewLaTeXNormalizer creates a new LaTeX normalizer. The logger may be nil.
func NewLaTeXNormalizer(logger ports.Logger) *LaTeXNormalizer {
	return &LaTeXNormalizer{logger: logger}
}

// Normalize implements ports.Normalizer.
func (n *LaTeXNormalizer) Normalize(text string) string {
	out, _ := n.NormalizeWithFallbacks(text)
	return out
}

// NormalizeWithFallbacks implements ports.DiagnosingNormalizer.
func (n *LaTeXNormalizer) NormalizeWithFallbacks(text string) (string, []domain.Fallback) {
	p := &latexParser{src: documentBody(text)}
	p.out.Grow(len(p.src))
	p.process(0, len(p.src))

	if n.logger != nil {
		for _, fb := range p.fallbacks {
			n.logger.Debug("LaTeX span passed through verbatim", "offset", fb.Offset, "reason", fb.Reason)
		}
	}
	return finish(p.out.String()), p.fallbacks
}

// documentBody returns the content between \begin{document} and \end{document} when present.
func documentBody(src string) string {
	const begin, end = `\begin{document}`, `\end{document}`
	i := strings.Index(src, begin)
	if i < 0 {
		return src
	}
	body := src[i+len(begin):]
	if j := strings.LastIndex(body, end); j >= 0 {
		body = body[:j]
	}
	return body
}

type latexParser struct {
	src       string
	out       strings.Builder
	fallbacks []domain.Fallback
}

func (p *latexParser) process(i, end int) {
	for i < end {
		c := p.src[i]
		switch c {
		case '%':
			i = p.skipComment(i, end)
		case '\\':
			i = p.command(i, end)
		case '{':
			closing := p.matchBrace(i, end)
			if closing < 0 {
				p.passThrough(i, end, "unbalanced opening brace")
				return
			}
			p.process(i+1, closing)
			i = closing + 1
		case '}':
			p.fallback(i, "unmatched closing brace")
			p.out.WriteByte('}')
			i++
		case '~', '&':
			p.out.WriteByte(' ')
			i++
		case '`', '\'':
			if i+1 < end && p.src[i+1] == c {
				p.out.WriteByte('"')
				i += 2
				continue
			}
			p.out.WriteByte(c)
			i++
		default:
			p.out.WriteByte(c)
			i++
		}
	}
}

func (p *latexParser) fallback(offset int, reason string) {
	p.fallbacks = append(p.fallbacks, domain.Fallback{Offset: offset, Reason: reason})
}

func (p *latexParser) passThrough(i, end int, reason string) {
	p.fallback(i, reason)
	p.out.WriteString(p.src[i:end])
}

func (p *latexParser) skipComment(i, end int) int {
	for i < end && p.src[i] != '\n' {
		i++
	}
	return i
}

// matchBrace returns the index of the brace closing the one at open, or -1.
func (p *latexParser) matchBrace(open, end int) int {
	depth := 0
	for i := open; i < end; i++ {
		switch p.src[i] {
		case '\\':
			i++
		case '%':
			i = p.skipComment(i, end)
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// matchBracket returns the index of the bracket closing the one at open, or -1.
func (p *latexParser) matchBracket(open, end int) int {
	depth := 0
	for i := open; i < end; i++ {
		switch p.src[i] {
		case '\\':
			i++
		case '{':
			closing := p.matchBrace(i, end)
			if closing < 0 {
				return -1
			}
			i = closing
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		case '\n':
			if i+1 < end && p.src[i+1] == '\n' {
				return -1
			}
		}
	}
	return -1
}

// skipArgSpace skips blanks and at most one newline between a command and its argument.
func (p *latexParser) skipArgSpace(i, end int) int {
	newline := false
	for i < end {
		switch p.src[i] {
		case ' ', '\t':
		case '\n':
			if newline {
				return i
			}
			newline = true
		default:
			return i
		}
		i++
	}
	return i
}

// skipOptionals skips [..] arguments. When needBrace is set an optional
// argument is only consumed if a brace argument follows it.
func (p *latexParser) skipOptionals(i, end int, needBrace bool) int {
	for {
		j := p.skipArgSpace(i, end)
		if j >= end || p.src[j] != '[' {
			return i
		}
		closing := p.matchBracket(j, end)
		if closing < 0 {
			return i
		}
		if needBrace {
			k := p.skipArgSpace(closing+1, end)
			if k >= end || p.src[k] != '{' {
				return i
			}
		}
		i = closing + 1
	}
}

// braceArg locates a {..} argument starting at or after i. ok is false when
// there is no argument; closing is -1 when the argument is unbalanced.
func (p *latexParser) braceArg(i, end int, adjacent bool) (open, closing int, ok bool) {
	j := i
	if !adjacent {
		j = p.skipArgSpace(i, end)
	}
	if j >= end || p.src[j] != '{' {
		return 0, 0, false
	}
	return j, p.matchBrace(j, end), true
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func (p *latexParser) command(start, end int) int {
	i := start + 1
	if i >= end {
		p.out.WriteByte('\\')
		return end
	}
	if !isLetter(p.src[i]) {
		return p.controlSymbol(i, end)
	}

	j := i
	for j < end && isLetter(p.src[j]) {
		j++
	}
	name := p.src[i:j]
	if j < end && p.src[j] == '*' {
		j++
	}

	switch {
	case name == "begin":
		return p.beginEnv(start, j, end)
	case name == "end":
		_, closing, ok := p.braceArg(j, end, false)
		if !ok {
			return j
		}
		if closing < 0 {
			p.passThrough(start, end, "unbalanced environment name")
			return end
		}
		p.out.WriteByte('\n')
		return closing + 1
	case name == "verb":
		return p.verb(start, j, end)
	case citeCommands[name]:
		return p.cite(start, j, end)
	case name == "href":
		j = p.skipOptionals(j, end, true)
		_, closing, ok := p.braceArg(j, end, false)
		if !ok {
			return j
		}
		if closing < 0 {
			p.passThrough(start, end, "unbalanced href argument")
			return end
		}
		return p.unwrap(start, closing+1, end, false)
	case name == "url" || name == "path":
		open, closing, ok := p.braceArg(j, end, false)
		if !ok {
			return j
		}
		if closing < 0 {
			p.passThrough(start, end, "unbalanced url argument")
			return end
		}
		p.out.WriteString(p.src[open+1 : closing])
		return closing + 1
	}

	if arity, ok := dropCommands[name]; ok {
		return p.drop(start, j, end, arity, arity > 0 || name == "item")
	}
	if text, ok := textCommands[name]; ok {
		p.out.WriteString(text)
		return j
	}

	block := blockCommands[name]
	j = p.skipOptionals(j, end, true)
	return p.unwrap(start, j, end, block)
}

// unwrap emits the contents of the brace arguments following i.
func (p *latexParser) unwrap(start, i, end int, block bool) int {
	if block {
		p.out.WriteByte('\n')
	}
	first := true
	for {
		open, closing, ok := p.braceArg(i, end, !first)
		if !ok {
			break
		}
		if closing < 0 {
			p.passThrough(start, end, "unbalanced command argument")
			return end
		}
		if !first {
			p.out.WriteByte(' ')
		}
		p.process(open+1, closing)
		i = closing + 1
		first = false
	}
	if block {
		p.out.WriteByte('\n')
	}
	return i
}

func (p *latexParser) drop(start, i, end, arity int, optionals bool) int {
	if optionals {
		i = p.skipOptionals(i, end, arity > 0)
	}
	for n := 0; n < arity; n++ {
		_, closing, ok := p.braceArg(i, end, false)
		if !ok {
			return i
		}
		if closing < 0 {
			p.passThrough(start, end, "unbalanced command argument")
			return end
		}
		i = p.skipOptionals(closing+1, end, true)
	}
	return i
}

func (p *latexParser) cite(start, i, end int) int {
	i = p.skipOptionals(i, end, true)
	open, closing, ok := p.braceArg(i, end, false)
	if !ok {
		return i
	}
	if closing < 0 {
		p.passThrough(start, end, "unbalanced citation")
		return end
	}
	parts := strings.Split(p.src[open+1:closing], ",")
	keys := make([]string, 0, len(parts))
	for _, k := range parts {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	p.out.WriteString("[" + strings.Join(keys, ", ") + "]")
	return closing + 1
}

func (p *latexParser) verb(start, i, end int) int {
	if i >= end {
		return i
	}
	delim := p.src[i]
	closing := strings.IndexByte(p.src[i+1:end], delim)
	if closing < 0 {
		p.passThrough(start, end, "unterminated verb")
		return end
	}
	p.out.WriteString(p.src[i+1 : i+1+closing])
	return i + 2 + closing
}

func (p *latexParser) beginEnv(start, i, end int) int {
	open, closing, ok := p.braceArg(i, end, false)
	if !ok {
		return i
	}
	if closing < 0 {
		p.passThrough(start, end, "unbalanced environment name")
		return end
	}
	env := strings.TrimSpace(p.src[open+1 : closing])
	i = p.skipOptionals(closing+1, end, false)
	for n := 0; n < envArgs[env]; n++ {
		_, argClose, ok := p.braceArg(i, end, false)
		if !ok || argClose < 0 {
			break
		}
		i = argClose + 1
	}
	p.out.WriteByte('\n')

	if env == "comment" || rawEnvs[env] {
		terminator := `\end{` + env + `}`
		k := strings.Index(p.src[i:end], terminator)
		if k < 0 {
			p.passThrough(i, end, "unterminated "+env+" environment")
			return end
		}
		if env != "comment" {
			p.out.WriteString(p.src[i : i+k])
		}
		p.out.WriteByte('\n')
		return i + k + len(terminator)
	}
	return i
}

// controlSymbol handles a backslash followed by a non-letter at i.
func (p *latexParser) controlSymbol(i, end int) int {
	c := p.src[i]
	switch c {
	case '\\':
		p.out.WriteByte('\n')
	case '%', '&', '$', '#', '_', '{', '}':
		p.out.WriteByte(c)
	case ' ', ',', ';', ':', '>':
		p.out.WriteByte(' ')
	case '(', ')':
		p.out.WriteByte('$')
	case '[', ']':
		p.out.WriteString("$$")
	case '-', '/', '@', '!':
	default:
		if mark, ok := accents[c]; ok {
			return p.accent(i+1, end, mark)
		}
	}
	return i + 1
}

// accent writes the accented letter as base rune plus combining mark.
func (p *latexParser) accent(i, end int, mark rune) int {
	if i >= end {
		return i
	}
	if p.src[i] == '{' {
		closing := p.matchBrace(i, end)
		if closing < 0 {
			p.passThrough(i, end, "unbalanced accent argument")
			return end
		}
		inner := strings.TrimSpace(p.src[i+1 : closing])
		if inner != "" {
			r, size := utf8.DecodeRuneInString(inner)
			p.out.WriteRune(r)
			p.out.WriteRune(mark)
			p.out.WriteString(inner[size:])
		}
		return closing + 1
	}
	r, size := utf8.DecodeRuneInString(p.src[i:end])
	p.out.WriteRune(r)
	p.out.WriteRune(mark)
	return i + size
}
