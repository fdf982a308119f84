// Package errors collects the typed error cases the tree packages and the
// benchmark harness can produce, plus a Fatal wrapper for conditions the
// design treats as unrecoverable (spec.md §7: allocation failure is fatal,
// the allocator's contract is to abort).
package errors

import (
	"fmt"

	cockroacherrors "github.com/cockroachdb/errors"
)

// ReservedKeyError is the cause, wrapped by Fatal, of the panic the tree
// packages raise when a caller passes one of the two reserved sentinel keys
// (MinKey, MaxKey) to Insert, Delete or Lookup.
type ReservedKeyError struct {
	Key int32
}

func (e *ReservedKeyError) Error() string {
	return fmt.Sprintf("key %d is reserved for the sentinel nodes and must not be used by callers", e.Key)
}

// KeyAlreadyPresentError documents an Insert that found its key already in
// the set. Insert itself just returns false; this type exists for callers
// (the harness, tests) that want to log or assert on the specific reason.
type KeyAlreadyPresentError struct {
	Key int32
}

func (e *KeyAlreadyPresentError) Error() string {
	return fmt.Sprintf("key %d already present", e.Key)
}

// KeyNotFoundError documents a Delete that found no matching key.
type KeyNotFoundError struct {
	Key int32
}

func (e *KeyNotFoundError) Error() string {
	return fmt.Sprintf("key %d not found", e.Key)
}

// InvariantViolationError is raised by Validate when the tree fails one of
// its structural invariants (BST/AVL order, list reciprocity, balance
// factor).
type InvariantViolationError struct {
	Detail string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("invariant violation: %s", e.Detail)
}

// Fatal wraps an unrecoverable error (allocation failure, a corrupted tree
// caught mid-operation) with a captured stack trace via cockroachdb/errors,
// matching the teacher's fmt.Errorf("...: %w", err) wrapping convention but
// adding the trace a process about to abort needs in its crash log.
func Fatal(msg string, cause error) error {
	if cause == nil {
		return cockroacherrors.Newf("fatal: %s", msg)
	}
	return cockroacherrors.Wrapf(cause, "fatal: %s", msg)
}
