// Package dataset applies compiled grid expressions to in-memory record
// slices.
package dataset

import (
	"fmt"
	"sort"
	"time"

	"github.com/gridkit/gridexpr/internal/domain"
	"github.com/gridkit/gridexpr/internal/expressions"
)

// PageInfo describes the position of a page within the filtered result set.
type PageInfo struct {
	HasNextPage     bool `json:"hasNextPage"`
	HasPreviousPage bool `json:"hasPreviousPage"`
	TotalCount      int  `json:"totalCount"`
}

// Apply filters and orders records according to the expression set. Search
// filters are OR-combined, column filters AND-combined, and orderings applied
// as successive tie-break refinements. The input slice is not modified.
func Apply[T any](records []T, set expressions.Set[T]) []T {
	out := make([]T, 0, len(records))
	out = append(out, records...)

	if set.SearchFilters != nil {
		if len(set.SearchFilters) == 0 {
			// A requested search no column could satisfy matches nothing.
			return []T{}
		}
		preds := make([]expressions.Predicate[T], len(set.SearchFilters))
		for i, fe := range set.SearchFilters {
			preds[i] = fe.Matches
		}
		out = filter(out, expressions.Combine(preds))
	}

	for _, fe := range set.ColumnFilters {
		out = filter(out, fe.Matches)
	}

	if len(set.Orderings) > 0 {
		sort.SliceStable(out, func(i, j int) bool {
			return less(out[i], out[j], set.Orderings)
		})
	}

	return out
}

// Paginate slices a window out of the filtered records.
func Paginate[T any](records []T, offset, limit int) ([]T, PageInfo) {
	total := len(records)
	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}

	return records[offset:end], PageInfo{
		HasNextPage:     end < total,
		HasPreviousPage: offset > 0,
		TotalCount:      total,
	}
}

func filter[T any](records []T, pred expressions.Predicate[T]) []T {
	out := records[:0]
	for _, record := range records {
		if pred(record) {
			out = append(out, record)
		}
	}
	return out
}

func less[T any](a, b T, orderings []expressions.OrderExpression[T]) bool {
	for _, oe := range orderings {
		c := compare(oe.Key(a), oe.Key(b))
		if c == 0 {
			continue
		}
		if oe.Sort.Direction == domain.SortDirectionDesc {
			return c > 0
		}
		return c < 0
	}
	return false
}

// compare orders two values of the uniform comparable representation.
// Booleans order false before true, which makes absent values sort first
// under ascending presence keys.
func compare(a, b any) int {
	switch av := a.(type) {
	case bool:
		bv, ok := b.(bool)
		if !ok {
			break
		}
		switch {
		case av == bv:
			return 0
		case !av:
			return -1
		default:
			return 1
		}
	case int64:
		if bv, ok := b.(int64); ok {
			return cmpOrdered(av, bv)
		}
	case uint64:
		if bv, ok := b.(uint64); ok {
			return cmpOrdered(av, bv)
		}
	case float64:
		if bv, ok := b.(float64); ok {
			return cmpOrdered(av, bv)
		}
	case string:
		if bv, ok := b.(string); ok {
			return cmpOrdered(av, bv)
		}
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			switch {
			case av.Equal(bv):
				return 0
			case av.Before(bv):
				return -1
			default:
				return 1
			}
		}
	}
	return cmpOrdered(fmt.Sprint(a), fmt.Sprint(b))
}

func cmpOrdered[T interface {
	~int64 | ~uint64 | ~float64 | ~string
}](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
