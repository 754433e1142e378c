package schema

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/gridkit/gridexpr/internal/domain"
)

type account struct {
	ID        int64      `json:"id"`
	OwnerName string     `json:"ownerName"`
	Balance   *float64   `json:"balance"`
	OpenedAt  time.Time  `json:"openedAt"`
	ClosedAt  *time.Time `json:"-"`
	internal  string
}

func newAccountResolver(t *testing.T) *Resolver {
	t.Helper()
	r, err := NewResolver(reflect.TypeOf(account{}))
	if err != nil {
		t.Fatalf("expected resolver construction to succeed, got %v", err)
	}
	return r
}

func TestNewResolver_RejectsNonStructTypes(t *testing.T) {
	if _, err := NewResolver(reflect.TypeOf(42)); err == nil {
		t.Fatalf("expected non-struct model to be rejected")
	}
	if _, err := NewResolver(nil); err == nil {
		t.Fatalf("expected nil model to be rejected")
	}
}

func TestResolve_ByFieldName(t *testing.T) {
	r := newAccountResolver(t)

	prop, err := r.Resolve(domain.Column{Name: "OwnerName"})
	if err != nil {
		t.Fatalf("expected resolution to succeed, got %v", err)
	}
	if prop.Name != "OwnerName" {
		t.Fatalf("expected OwnerName, got %q", prop.Name)
	}
	if prop.Type.Kind() != reflect.String {
		t.Fatalf("expected string property, got %s", prop.Type)
	}
}

func TestResolve_CaseInsensitiveAndJSONTag(t *testing.T) {
	r := newAccountResolver(t)

	for _, name := range []string{"ownername", "OWNERNAME", "ownerName"} {
		prop, err := r.Resolve(domain.Column{Name: name})
		if err != nil {
			t.Fatalf("expected %q to resolve, got %v", name, err)
		}
		if prop.Name != "OwnerName" {
			t.Fatalf("expected %q to resolve to OwnerName, got %q", name, prop.Name)
		}
	}
}

func TestResolve_FieldOverrideWins(t *testing.T) {
	r := newAccountResolver(t)

	prop, err := r.Resolve(domain.Column{Name: "nonexistent", Field: "balance"})
	if err != nil {
		t.Fatalf("expected override to resolve, got %v", err)
	}
	if prop.Name != "Balance" {
		t.Fatalf("expected Balance, got %q", prop.Name)
	}
}

func TestResolve_UnknownNameCarriesDiagnostics(t *testing.T) {
	r := newAccountResolver(t)

	_, err := r.Resolve(domain.Column{Name: "middleName"})
	if err == nil {
		t.Fatalf("expected resolution failure")
	}

	var notFound *PropertyNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected PropertyNotFoundError, got %v", err)
	}
	if notFound.Name != "middleName" {
		t.Fatalf("expected attempted name in error, got %q", notFound.Name)
	}
	if notFound.Model != reflect.TypeOf(account{}) {
		t.Fatalf("expected model identity in error, got %v", notFound.Model)
	}
}

func TestResolve_UnexportedAndSkippedTagsAreHidden(t *testing.T) {
	r := newAccountResolver(t)

	if _, err := r.Resolve(domain.Column{Name: "internal"}); err == nil {
		t.Fatalf("expected unexported field to be unresolvable")
	}

	// json:"-" hides the tag name but the field name itself still resolves.
	if _, err := r.Resolve(domain.Column{Name: "ClosedAt"}); err != nil {
		t.Fatalf("expected field name resolution despite skipped tag, got %v", err)
	}
}

func TestProperty_NullableHelpers(t *testing.T) {
	r := newAccountResolver(t)

	balance, err := r.Resolve(domain.Column{Name: "balance"})
	if err != nil {
		t.Fatalf("expected balance to resolve, got %v", err)
	}
	if !balance.Nullable() {
		t.Fatalf("expected pointer field to be nullable")
	}
	if balance.ValueType().Kind() != reflect.Float64 {
		t.Fatalf("expected unwrapped float64, got %s", balance.ValueType())
	}

	opened, err := r.Resolve(domain.Column{Name: "openedAt"})
	if err != nil {
		t.Fatalf("expected openedAt to resolve, got %v", err)
	}
	if opened.Nullable() {
		t.Fatalf("expected value field to be non-nullable")
	}
	if opened.ValueType() != reflect.TypeOf(time.Time{}) {
		t.Fatalf("expected time.Time, got %s", opened.ValueType())
	}
}

func TestProperty_Value(t *testing.T) {
	r := newAccountResolver(t)

	prop, err := r.Resolve(domain.Column{Name: "id"})
	if err != nil {
		t.Fatalf("expected id to resolve, got %v", err)
	}

	got := prop.Value(reflect.ValueOf(account{ID: 7}))
	if got.Int() != 7 {
		t.Fatalf("expected 7, got %d", got.Int())
	}
}
