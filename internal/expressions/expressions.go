// Package expressions compiles a grid request into filter predicates and
// sort keys over a strongly-typed record collection.
package expressions

import (
	"github.com/gridkit/gridexpr/internal/domain"
)

// Predicate reports whether a record matches a filter criterion.
type Predicate[T any] func(record T) bool

// SortKey extracts a uniformly comparable ordering key from a record.
type SortKey[T any] func(record T) any

// FilterExpression ties a compiled predicate to the column and criterion it
// originated from. It is never mutated after creation.
type FilterExpression[T any] struct {
	Column  domain.Column
	Search  domain.Search
	Matches Predicate[T]
}

// OrderExpression ties a compiled sort key to the column and sort directive
// it originated from. It is never mutated after creation.
type OrderExpression[T any] struct {
	Column domain.Column
	Sort   domain.Sort
	Key    SortKey[T]
}

// Set aggregates the three expression kinds produced for one grid request.
//
// For SearchFilters and ColumnFilters a nil slice means that kind of
// filtering was not requested at all, while a non-nil empty slice means it
// was requested but no column could contribute. Orderings is always non-nil.
type Set[T any] struct {
	SearchFilters []FilterExpression[T]
	ColumnFilters []FilterExpression[T]
	Orderings     []OrderExpression[T]
}

// Combine left-folds a list of predicates into a single OR-combined
// predicate. Calling it with an empty list is a precondition violation and
// panics.
func Combine[T any](preds []Predicate[T]) Predicate[T] {
	if len(preds) == 0 {
		panic("expressions: Combine requires at least one predicate")
	}
	combined := preds[0]
	for _, p := range preds[1:] {
		prev, next := combined, p
		combined = func(record T) bool {
			return prev(record) || next(record)
		}
	}
	return combined
}
