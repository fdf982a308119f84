package errors

import (
	"errors"
	"testing"
)

func TestErrors_ErrorMethod(t *testing.T) {
	errs := []error{
		&ReservedKeyError{Key: 0},
		&KeyAlreadyPresentError{Key: 5},
		&KeyNotFoundError{Key: 5},
		&InvariantViolationError{Detail: "bst order violated"},
	}

	for _, e := range errs {
		if e.Error() == "" {
			t.Errorf("Error() returned empty string for %T", e)
		}
	}
}

func TestFatal(t *testing.T) {
	base := errors.New("allocation failed")

	wrapped := Fatal("arena exhausted", base)
	if wrapped == nil {
		t.Fatal("expected non-nil error")
	}
	if !errors.Is(wrapped, base) {
		t.Fatal("expected Fatal to wrap the cause so errors.Is still matches it")
	}

	noCause := Fatal("invariant broken", nil)
	if noCause == nil || noCause.Error() == "" {
		t.Fatal("expected a non-empty error even with a nil cause")
	}
}
