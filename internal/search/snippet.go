package search

import (
	"strings"
	"unicode/utf8"
)

const (
	// snippetContext is the number of runes kept either side of a match.
	snippetContext = 24
	ellipsis       = "…"
	markOpen       = "【"
	markClose      = "】"
)

// Snippet highlights the earliest keyword occurrence in text with up to
// snippetContext runes either side. Without a match it returns the start of
// text.
func Snippet(text string, keywords []string) string {
	text = strings.Join(strings.Fields(text), " ")
	ft := foldMapped(text)

	start, end := -1, -1
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		i := strings.Index(ft.folded, kw)
		if i >= 0 && (start < 0 || i < start) {
			start, end = i, i+len(kw)
		}
	}
	if start < 0 {
		return truncate(text, 2*snippetContext)
	}

	from, to := ft.span(start, end)
	before := text[:from]
	matched := text[from:to]
	after := text[to:]

	var b strings.Builder
	if n := utf8.RuneCountInString(before); n > snippetContext {
		r := []rune(before)
		b.WriteString(ellipsis)
		b.WriteString(string(r[n-snippetContext:]))
	} else {
		b.WriteString(before)
	}
	b.WriteString(markOpen)
	b.WriteString(matched)
	b.WriteString(markClose)
	if n := utf8.RuneCountInString(after); n > snippetContext {
		r := []rune(after)
		b.WriteString(string(r[:snippetContext]))
		b.WriteString(ellipsis)
	} else {
		b.WriteString(after)
	}
	return b.String()
}

func truncate(text string, max int) string {
	if utf8.RuneCountInString(text) <= max {
		return text
	}
	return string([]rune(text)[:max]) + ellipsis
}
