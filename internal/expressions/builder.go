package expressions

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"time"

	"github.com/gridkit/gridexpr/internal/domain"
	"github.com/gridkit/gridexpr/internal/providers"
	"github.com/gridkit/gridexpr/internal/schema"
)

// Builder compiles grid requests for one record type. The model type and the
// provider registry are fixed at construction; every call allocates its own
// expressions, so a single builder is safe for concurrent use.
type Builder[T any] struct {
	registry *providers.Registry
	resolver *schema.Resolver
}

// NewBuilder creates a builder for record type T, which must be a struct.
func NewBuilder[T any](registry *providers.Registry) (*Builder[T], error) {
	model := reflect.TypeOf((*T)(nil)).Elem()
	resolver, err := schema.NewResolver(model)
	if err != nil {
		return nil, fmt.Errorf("failed to build resolver: %w", err)
	}
	return &Builder[T]{registry: registry, resolver: resolver}, nil
}

// CreateExpressions runs the three expression builders over the request and
// returns their aggregate. Any failure aborts the whole call; expressions
// already built for the failing request are discarded.
func (b *Builder[T]) CreateExpressions(req domain.GridRequest) (Set[T], error) {
	searchFilters, err := b.searchFilters(req)
	if err != nil {
		return Set[T]{}, err
	}

	columnFilters, err := b.columnFilters(req)
	if err != nil {
		return Set[T]{}, err
	}

	orderings, err := b.orderings(req)
	if err != nil {
		return Set[T]{}, err
	}

	return Set[T]{
		SearchFilters: searchFilters,
		ColumnFilters: columnFilters,
		Orderings:     orderings,
	}, nil
}

// searchFilters builds one predicate per searchable column satisfying the
// global search term. The caller OR-combines the result. A nil result means
// no global search applies; a provider declining a column omits just that
// column.
func (b *Builder[T]) searchFilters(req domain.GridRequest) ([]FilterExpression[T], error) {
	if req.Search.IsBlank() {
		return nil, nil
	}

	var searchable []domain.Column
	for _, col := range req.Columns {
		if col.Searchable {
			searchable = append(searchable, col)
		}
	}
	if len(searchable) == 0 {
		return nil, nil
	}

	out := make([]FilterExpression[T], 0, len(searchable))
	for _, col := range searchable {
		matches, err := b.columnPredicate(col, req.Search.Value)
		if errors.Is(err, providers.ErrNotApplicable) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, FilterExpression[T]{
			Column:  col,
			Search:  *req.Search,
			Matches: matches,
		})
	}
	return out, nil
}

// columnFilters builds one predicate per column carrying its own non-blank
// filter value. The caller AND-combines the result. A declining provider is
// an error here: a column the caller explicitly filtered must never pass
// records through unfiltered.
func (b *Builder[T]) columnFilters(req domain.GridRequest) ([]FilterExpression[T], error) {
	var filtered []domain.Column
	for _, col := range req.Columns {
		if !col.Search.IsBlank() {
			filtered = append(filtered, col)
		}
	}
	if len(filtered) == 0 {
		return nil, nil
	}

	out := make([]FilterExpression[T], 0, len(filtered))
	for _, col := range filtered {
		matches, err := b.columnPredicate(col, col.Search.Value)
		if errors.Is(err, providers.ErrNotApplicable) {
			return nil, fmt.Errorf("filter value %q is not applicable to column %q: %w", col.Search.Value, col.Name, err)
		}
		if err != nil {
			return nil, err
		}
		out = append(out, FilterExpression[T]{
			Column:  col,
			Search:  *col.Search,
			Matches: matches,
		})
	}
	return out, nil
}

// orderings builds the flat, priority-ordered list of sort keys. A nullable
// property contributes two consecutive keys, presence flag first, so that
// its value key only breaks ties among records that agree on presence.
func (b *Builder[T]) orderings(req domain.GridRequest) ([]OrderExpression[T], error) {
	var sorted []domain.Column
	for _, col := range req.Columns {
		if col.Sortable && col.Sort != nil {
			sorted = append(sorted, col)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Sort.Priority < sorted[j].Sort.Priority
	})

	out := make([]OrderExpression[T], 0, len(sorted))
	for _, col := range sorted {
		prop, err := b.resolver.Resolve(col)
		if err != nil {
			return nil, err
		}

		if prop.Nullable() {
			out = append(out,
				OrderExpression[T]{Column: col, Sort: *col.Sort, Key: b.presenceKey(prop)},
				OrderExpression[T]{Column: col, Sort: *col.Sort, Key: b.valueKey(prop)},
			)
			continue
		}
		out = append(out, OrderExpression[T]{Column: col, Sort: *col.Sort, Key: b.valueKey(prop)})
	}
	return out, nil
}

// columnPredicate resolves a column, dispatches to the provider declaring its
// value type, and wraps the provider's value predicate into a record
// predicate. A nil value on a nullable property never matches.
func (b *Builder[T]) columnPredicate(col domain.Column, term string) (Predicate[T], error) {
	prop, err := b.resolver.Resolve(col)
	if err != nil {
		return nil, err
	}

	provider, ok := b.registry.Lookup(prop.ValueType())
	if !ok {
		return nil, &providers.ProviderNotFoundError{Property: prop.Name, Type: prop.ValueType()}
	}

	matchValue, err := provider.FilterPredicate(term)
	if err != nil {
		return nil, err
	}

	nullable := prop.Nullable()
	return func(record T) bool {
		v := prop.Value(reflect.ValueOf(record))
		if nullable {
			if v.IsNil() {
				return false
			}
			v = v.Elem()
		}
		return matchValue(v.Interface())
	}, nil
}

// presenceKey orders records by whether the nullable property carries a
// value; absent sorts before present under ascending direction.
func (b *Builder[T]) presenceKey(prop schema.Property) SortKey[T] {
	return func(record T) any {
		return !prop.Value(reflect.ValueOf(record)).IsNil()
	}
}

// valueKey orders records by the property value, normalized to the uniform
// comparable representation. For a nullable property the zero value stands in
// when the value is absent; the preceding presence key already separates
// those records.
func (b *Builder[T]) valueKey(prop schema.Property) SortKey[T] {
	valueType := prop.ValueType()
	keyProvider, _ := b.lookupKeyProvider(valueType)
	nullable := prop.Nullable()

	return func(record T) any {
		v := prop.Value(reflect.ValueOf(record))
		if nullable {
			if v.IsNil() {
				v = reflect.Zero(valueType)
			} else {
				v = v.Elem()
			}
		}
		if keyProvider != nil {
			return keyProvider.SortKey(v.Interface())
		}
		return normalizeKey(v)
	}
}

func (b *Builder[T]) lookupKeyProvider(t reflect.Type) (providers.KeyProvider, bool) {
	provider, ok := b.registry.Lookup(t)
	if !ok {
		return nil, false
	}
	kp, ok := provider.(providers.KeyProvider)
	return kp, ok
}

var timeType = reflect.TypeOf(time.Time{})

// normalizeKey converts a value-type attribute to the uniform comparable
// representation understood by the dataset comparator. Reference-ish types
// pass through unchanged.
func normalizeKey(v reflect.Value) any {
	switch v.Kind() {
	case reflect.Bool:
		return v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint()
	case reflect.Float32, reflect.Float64:
		return v.Float()
	case reflect.String:
		return v.String()
	}
	if v.Type() == timeType {
		return v.Interface()
	}
	if s, ok := v.Interface().(fmt.Stringer); ok {
		return s.String()
	}
	return v.Interface()
}
