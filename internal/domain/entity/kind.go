// Package entity names the record kinds shared by the activity log and search.
package entity

// Kind identifies one of the four record collections.
type Kind string

const (
	KindProject  Kind = "project"
	KindNote     Kind = "note"
	KindResource Kind = "resource"
	KindIdea     Kind = "idea"
)

// Kinds lists every kind in display order.
var Kinds = []Kind{KindProject, KindNote, KindResource, KindIdea}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k.Order() >= 0
}

// Order returns the display position of k, or -1 for unknown kinds.
func (k Kind) Order() int {
	for i, known := range Kinds {
		if k == known {
			return i
		}
	}
	return -1
}
