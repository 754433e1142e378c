package domain

import "strings"

// SortDirection represents ordering direction for sortable columns.
type SortDirection string

const (
	SortDirectionAsc  SortDirection = "asc"
	SortDirectionDesc SortDirection = "desc"
)

// Search is a text criterion supplied globally or for a single column.
// A nil *Search or a whitespace-only value means no criterion.
type Search struct {
	Value string
}

// IsBlank reports whether the criterion carries no usable value.
func (s *Search) IsBlank() bool {
	return s == nil || strings.TrimSpace(s.Value) == ""
}

// Sort captures an ordering directive for a single column. Priority decides
// the position among all sorted columns; lower values order first.
type Sort struct {
	Priority  int
	Direction SortDirection
}

// Column describes one addressable attribute of the grid model as exposed to
// the caller. Field, when set, takes precedence over Name for property
// resolution.
type Column struct {
	Name       string
	Field      string
	Searchable bool
	Sortable   bool
	Search     *Search
	Sort       *Sort
}

// ResolutionName returns the name used to resolve the column against the
// model: the Field override when present, the display Name otherwise.
func (c Column) ResolutionName() string {
	if strings.TrimSpace(c.Field) != "" {
		return c.Field
	}
	return c.Name
}

// GridRequest is the materialized descriptor of a tabular query: the ordered
// column list plus an optional global search criterion.
type GridRequest struct {
	Columns []Column
	Search  *Search
}
