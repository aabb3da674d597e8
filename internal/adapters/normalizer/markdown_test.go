package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarkdownNormalizer(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"heading and bold", "# Title\n\nSome **bold** text.", "Title Some bold text."},
		{"italic and underscore emphasis", "An *italic* and _other_ word.", "An italic and other word."},
		{"bullet list", "- first item\n- second *item*\n", "first item second item"},
		{"ordered list", "1. one\n2. two\n", "one two"},
		{"link keeps text", "See [the docs](https://example.com) and `code`.", "See the docs and code."},
		{"image keeps alt", "![System overview](fig/overview.png)", "System overview"},
		{"fenced code", "```go\nx := 1\n```\n", "x := 1"},
		{"html comment dropped", "Text <!-- hidden --> more", "Text more"},
		{"table cells", "| a | b |\n|---|---|\n| 1 | 2 |\n", "a b 1 2"},
		{"blockquote", "> quoted words\n", "quoted words"},
		{"strikethrough", "keep ~~gone~~ this", "keep gone this"},
		{"citations", "As shown [@smith2020; @doe2021] and [^1].", "As shown [smith2020, doe2021] and [1]."},
		{"narrative citation", "@smith2020 argues otherwise.", "[smith2020] argues otherwise."},
		{"whitespace collapse", "  lots   of\n\n\n   space  ", "lots of space"},
		{"empty", "", ""},
	}

	n := NewMarkdownNormalizer()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, n.Normalize(tc.input))
		})
	}
}

func TestMarkdownNormalizerIdempotent(t *testing.T) {
	inputs := []string{
		"# Title\n\nSome **bold** text.",
		"## Background\n\nThe sensor node streams GSR data [@shimmer2019] to the controller.\n\n- low latency\n- *reliable* sync\n",
		"| Sensor | Rate |\n|---|---|\n| GSR | 128 Hz |\n",
		"Plain prose with no markup at all.",
		"Footnote reference[^2] and a [link](http://x.y).",
	}

	n := NewMarkdownNormalizer()
	for _, in := range inputs {
		once := n.Normalize(in)
		assert.Equal(t, once, n.Normalize(once), "input %q", in)
	}
}
