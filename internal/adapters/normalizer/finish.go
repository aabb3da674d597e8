package normalizer

import (
	"unicode"

	"github.com/baditaflorin/go_doc_similarity/internal/pool"
	"golang.org/x/text/unicode/norm"
)

var builderPool = pool.NewStringBuilderPool()

// finish applies the steps shared by every format: NFC composition,
// collapsing whitespace runs to a single space and trimming.
func finish(text string) string {
	if len(text) == 0 {
		return ""
	}
	text = norm.NFC.String(text)

	sb := builderPool.Get()
	defer builderPool.Put(sb)
	sb.Grow(len(text))

	pendingSpace := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			pendingSpace = sb.Len() > 0
			continue
		}
		if pendingSpace {
			sb.WriteByte(' ')
			pendingSpace = false
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
