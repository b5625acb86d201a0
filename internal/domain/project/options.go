package project

// SortKey selects the ordering of List.
type SortKey string

const (
	// SortDueAsc orders by due date ascending with missing dates last.
	SortDueAsc      SortKey = "due_asc"
	SortUpdatedDesc SortKey = "updated_desc"
	SortCreatedDesc SortKey = "created_desc"
	SortTitleAsc    SortKey = "title_asc"
)

// Valid reports whether k is a known sort key. The empty key is valid and
// means SortDueAsc.
func (k SortKey) Valid() bool {
	switch k {
	case "", SortDueAsc, SortUpdatedDesc, SortCreatedDesc, SortTitleAsc:
		return true
	}
	return false
}

// ListOptions provides filtering options for listing projects.
type ListOptions struct {
	Statuses []Status
	Sort     SortKey
	// Match is applied after the storage filters; nil keeps everything.
	Match func(*Project) bool
	Limit int
}
