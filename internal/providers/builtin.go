package providers

import (
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// timeLayouts are tried in order when parsing time filter terms.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

const dateOnlyLayout = "2006-01-02"

// StringProvider matches string attributes with a case-folded substring test.
type StringProvider struct{}

func (StringProvider) TargetType() reflect.Type {
	return reflect.TypeOf("")
}

func (StringProvider) FilterPredicate(term string) (func(value any) bool, error) {
	folded := strings.ToLower(term)
	return func(value any) bool {
		s, ok := value.(string)
		return ok && strings.Contains(strings.ToLower(s), folded)
	}, nil
}

// IntProvider matches int attributes for equality, declining terms that do
// not parse as integers.
type IntProvider struct{}

func (IntProvider) TargetType() reflect.Type {
	return reflect.TypeOf(int(0))
}

func (IntProvider) FilterPredicate(term string) (func(value any) bool, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(term), 10, strconv.IntSize)
	if err != nil {
		return nil, ErrNotApplicable
	}
	want := int(n)
	return func(value any) bool {
		v, ok := value.(int)
		return ok && v == want
	}, nil
}

// Int64Provider matches int64 attributes for equality.
type Int64Provider struct{}

func (Int64Provider) TargetType() reflect.Type {
	return reflect.TypeOf(int64(0))
}

func (Int64Provider) FilterPredicate(term string) (func(value any) bool, error) {
	want, err := strconv.ParseInt(strings.TrimSpace(term), 10, 64)
	if err != nil {
		return nil, ErrNotApplicable
	}
	return func(value any) bool {
		v, ok := value.(int64)
		return ok && v == want
	}, nil
}

// Float64Provider matches float64 attributes for equality.
type Float64Provider struct{}

func (Float64Provider) TargetType() reflect.Type {
	return reflect.TypeOf(float64(0))
}

func (Float64Provider) FilterPredicate(term string) (func(value any) bool, error) {
	want, err := strconv.ParseFloat(strings.TrimSpace(term), 64)
	if err != nil {
		return nil, ErrNotApplicable
	}
	return func(value any) bool {
		v, ok := value.(float64)
		return ok && v == want
	}, nil
}

// BoolProvider matches bool attributes, declining terms strconv does not
// recognize as booleans.
type BoolProvider struct{}

func (BoolProvider) TargetType() reflect.Type {
	return reflect.TypeOf(false)
}

func (BoolProvider) FilterPredicate(term string) (func(value any) bool, error) {
	want, err := strconv.ParseBool(strings.TrimSpace(term))
	if err != nil {
		return nil, ErrNotApplicable
	}
	return func(value any) bool {
		v, ok := value.(bool)
		return ok && v == want
	}, nil
}

// TimeProvider matches time.Time attributes. Date-only terms match any
// instant within that calendar day; full timestamps match exactly.
type TimeProvider struct{}

func (TimeProvider) TargetType() reflect.Type {
	return reflect.TypeOf(time.Time{})
}

func (TimeProvider) FilterPredicate(term string) (func(value any) bool, error) {
	trimmed := strings.TrimSpace(term)
	for _, layout := range timeLayouts {
		parsed, err := time.Parse(layout, trimmed)
		if err != nil {
			continue
		}
		if layout == dateOnlyLayout {
			dayStart := parsed
			dayEnd := parsed.AddDate(0, 0, 1)
			return func(value any) bool {
				v, ok := value.(time.Time)
				return ok && !v.Before(dayStart) && v.Before(dayEnd)
			}, nil
		}
		return func(value any) bool {
			v, ok := value.(time.Time)
			return ok && v.Equal(parsed)
		}, nil
	}
	return nil, ErrNotApplicable
}

// UUIDProvider matches uuid.UUID attributes for equality and projects them
// onto their canonical string form when used as a sort key.
type UUIDProvider struct{}

func (UUIDProvider) TargetType() reflect.Type {
	return reflect.TypeOf(uuid.UUID{})
}

func (UUIDProvider) FilterPredicate(term string) (func(value any) bool, error) {
	want, err := uuid.Parse(strings.TrimSpace(term))
	if err != nil {
		return nil, ErrNotApplicable
	}
	return func(value any) bool {
		v, ok := value.(uuid.UUID)
		return ok && v == want
	}, nil
}

func (UUIDProvider) SortKey(value any) any {
	v, ok := value.(uuid.UUID)
	if !ok {
		return ""
	}
	return v.String()
}
