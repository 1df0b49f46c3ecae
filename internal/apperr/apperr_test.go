package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindStatus(t *testing.T) {
	cases := map[Kind]int{
		KindValidation:     http.StatusBadRequest,
		KindAuthentication: http.StatusUnauthorized,
		KindAuthorization:  http.StatusForbidden,
		KindNotFound:       http.StatusNotFound,
		KindUnavailable:    http.StatusServiceUnavailable,
		KindInternal:       http.StatusInternalServerError,
	}
	for kind, want := range cases {
		if got := kind.Status(); got != want {
			t.Fatalf("%s: expected %d, got %d", kind, want, got)
		}
	}
}

func TestNotFoundMessage(t *testing.T) {
	err := NotFound("Property", "abc")
	if err.Public() != "Property not found with id of abc" {
		t.Fatalf("unexpected message %q", err.Public())
	}
}

func TestFromWrapsUnknownErrors(t *testing.T) {
	raw := errors.New("boom")
	got := From(raw)
	if got.Kind != KindInternal {
		t.Fatalf("expected internal kind, got %s", got.Kind)
	}
	if !errors.Is(got, raw) {
		t.Fatalf("expected wrapped error to unwrap to original")
	}
	if got.Public() != "Internal Server Error" {
		t.Fatalf("internal error leaked message %q", got.Public())
	}
}

func TestFromFindsWrappedAppError(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", Forbidden("nope"))
	got := From(wrapped)
	if got.Kind != KindAuthorization || got.Public() != "nope" {
		t.Fatalf("unexpected error %+v", got)
	}
	if !Is(wrapped, KindAuthorization) {
		t.Fatalf("expected Is to match authorization kind")
	}
}
