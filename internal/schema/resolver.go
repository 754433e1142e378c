// Package schema resolves grid columns against the fields of a model struct.
package schema

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/gridkit/gridexpr/internal/domain"
)

// Property describes a resolved model attribute: its declared field name, the
// reflect index path used to read it, and its declared type.
type Property struct {
	Name  string
	Index []int
	Type  reflect.Type
}

// Nullable reports whether the property is a nullable wrapper (a pointer
// field) around its value type.
func (p Property) Nullable() bool {
	return p.Type.Kind() == reflect.Pointer
}

// ValueType returns the declared type with any nullable wrapper removed.
func (p Property) ValueType() reflect.Type {
	if p.Nullable() {
		return p.Type.Elem()
	}
	return p.Type
}

// Value reads the property from a record value.
func (p Property) Value(record reflect.Value) reflect.Value {
	return record.FieldByIndex(p.Index)
}

// PropertyNotFoundError reports a column whose resolution name matches no
// readable attribute on the model.
type PropertyNotFoundError struct {
	Model reflect.Type
	Name  string
}

func (e *PropertyNotFoundError) Error() string {
	return fmt.Sprintf("no property %q on model %s", e.Name, e.Model)
}

// Resolver maps column names onto the fields of one model struct type. The
// lookup table is built once, so every builder sharing a resolver resolves a
// given column identically.
type Resolver struct {
	model  reflect.Type
	byName map[string]Property
}

// NewResolver builds a resolver for the given struct type. Matching is
// case-insensitive on exported field names and additionally honors json
// struct-tag names.
func NewResolver(model reflect.Type) (*Resolver, error) {
	if model == nil || model.Kind() != reflect.Struct {
		return nil, fmt.Errorf("model must be a struct type, got %v", model)
	}

	byName := make(map[string]Property)
	for i := 0; i < model.NumField(); i++ {
		field := model.Field(i)
		if !field.IsExported() {
			continue
		}

		prop := Property{
			Name:  field.Name,
			Index: field.Index,
			Type:  field.Type,
		}
		byName[strings.ToLower(field.Name)] = prop

		if tag, ok := field.Tag.Lookup("json"); ok {
			name, _, _ := strings.Cut(tag, ",")
			if name != "" && name != "-" {
				byName[strings.ToLower(name)] = prop
			}
		}
	}

	return &Resolver{model: model, byName: byName}, nil
}

// Model returns the struct type the resolver was built for.
func (r *Resolver) Model() reflect.Type {
	return r.model
}

// Resolve looks up the model attribute for a column, preferring the column's
// field override over its display name.
func (r *Resolver) Resolve(column domain.Column) (Property, error) {
	name := column.ResolutionName()
	prop, ok := r.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Property{}, &PropertyNotFoundError{Model: r.model, Name: name}
	}
	return prop, nil
}
