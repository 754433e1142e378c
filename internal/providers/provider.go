// Package providers holds the type-specific capability providers that turn a
// filter term into a predicate over a single attribute value.
package providers

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrNotApplicable is returned by a provider declining to build a predicate
// for a given term, typically because the term does not parse for the
// provider's target type.
var ErrNotApplicable = errors.New("provider cannot build a predicate for this term")

// Provider builds filter predicates for one declared attribute type. The
// returned predicate receives the attribute value of the current record,
// already unwrapped from any nullable pointer.
type Provider interface {
	TargetType() reflect.Type
	FilterPredicate(term string) (func(value any) bool, error)
}

// KeyProvider is implemented by providers that project attribute values onto
// a custom uniformly comparable sort key.
type KeyProvider interface {
	SortKey(value any) any
}

// ProviderNotFoundError reports an attribute type no registered provider
// declares as its target.
type ProviderNotFoundError struct {
	Property string
	Type     reflect.Type
}

func (e *ProviderNotFoundError) Error() string {
	return fmt.Sprintf("no provider for property %q of type %s", e.Property, e.Type)
}

// Registry is an immutable collection of providers keyed by target type. It
// is built once at startup and is safe for concurrent lookups thereafter.
type Registry struct {
	byType map[reflect.Type]Provider
}

// NewRegistry builds a registry from the given providers. A later provider
// declaring an already registered target type replaces the earlier one.
func NewRegistry(provs ...Provider) *Registry {
	byType := make(map[reflect.Type]Provider, len(provs))
	for _, p := range provs {
		byType[p.TargetType()] = p
	}
	return &Registry{byType: byType}
}

// Lookup returns the provider declaring the given target type.
func (r *Registry) Lookup(t reflect.Type) (Provider, bool) {
	p, ok := r.byType[t]
	return p, ok
}

// Default returns a registry of all built-in providers.
func Default() *Registry {
	return NewRegistry(
		StringProvider{},
		IntProvider{},
		Int64Provider{},
		Float64Provider{},
		BoolProvider{},
		TimeProvider{},
		UUIDProvider{},
	)
}
