package search

import (
	"strings"
	"unicode"

	"github.com/rpggio/karte/internal/calendar"
)

// Query is a parsed search query.
type Query struct {
	Keywords []string
	Hints    []Hint
}

// Empty reports whether the query has nothing to search for.
func (q Query) Empty() bool {
	return len(q.Keywords) == 0 && len(q.Hints) == 0
}

// Parse folds the query and splits it on whitespace, punctuation and
// symbols. Tokens that are relative-date phrases become hints; a whole
// whitespace field is tried first so "3日以内" survives the split.
// Duplicate keywords and hints keep their first occurrence.
func Parse(query string, today calendar.Date) Query {
	var q Query
	seen := make(map[string]bool)
	add := func(tok string) {
		if seen[tok] {
			return
		}
		seen[tok] = true
		if hint, ok := ParseHint(tok, today); ok {
			q.Hints = append(q.Hints, hint)
			return
		}
		q.Keywords = append(q.Keywords, tok)
	}
	for _, field := range strings.Fields(Fold(query)) {
		if _, ok := ParseHint(field, today); ok {
			add(field)
			continue
		}
		for _, tok := range strings.FieldsFunc(field, isSeparator) {
			add(tok)
		}
	}
	return q
}

func isSeparator(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}
