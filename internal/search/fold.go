package search

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Fold normalizes text for matching: NFKC (full-width to half-width,
// compatibility characters) followed by Unicode case folding.
func Fold(s string) string {
	return cases.Fold().String(norm.NFKC.String(s))
}

// foldedText is folded text that remembers where each folded byte came from
// in the original string.
type foldedText struct {
	original string
	folded   string
	// folded byte i was produced by original[from[i]:to[i]], one NFKC
	// segment of the input.
	from []int
	to   []int
}

// foldMapped folds s like Fold, one normalization segment at a time, so
// matches in the folded text can be mapped back onto s.
func foldMapped(s string) foldedText {
	caser := cases.Fold()
	var b strings.Builder
	from := make([]int, 0, len(s))
	to := make([]int, 0, len(s))

	var it norm.Iter
	it.InitString(norm.NFKC, s)
	for !it.Done() {
		start := it.Pos()
		seg := caser.String(string(it.Next()))
		end := it.Pos()
		b.WriteString(seg)
		for range len(seg) {
			from = append(from, start)
			to = append(to, end)
		}
	}
	return foldedText{original: s, folded: b.String(), from: from, to: to}
}

// span maps a non-empty folded byte range back to the original string,
// widened to whole segments.
func (t foldedText) span(start, end int) (int, int) {
	return t.from[start], t.to[end-1]
}
