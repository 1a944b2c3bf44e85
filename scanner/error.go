package scanner

import (
	"fmt"

	"github.com/coregx/dscan/automaton"
)

// ErrInvalidState is the class sentinel for index-desynchronization
// diagnostics: errors.Is(err, ErrInvalidState) matches any
// *InvalidStateError regardless of which state or position it names.
var ErrInvalidState = &InvalidStateError{Kind: InvalidState}

// ErrorKind classifies scanner errors.
type ErrorKind uint8

const (
	// InvalidState indicates an accepting state the pattern index has no
	// entry for at all.
	InvalidState ErrorKind = iota
)

// String returns a human-readable error kind name.
func (k ErrorKind) String() string {
	switch k {
	case InvalidState:
		return "InvalidState"
	default:
		return fmt.Sprintf("UnknownErrorKind(%d)", k)
	}
}

// InvalidStateError records a scan-time violation of the index invariant:
// a candidate state was pushed as accepting, yet the pattern index has no
// entry for it at all. This should never happen for an index built by
// ctxt.Build from the same automaton the scanner steps, so its appearance
// signals a mismatched Automaton/Index pair rather than ordinary input.
//
// The scanner does not treat this as fatal: it logs the occurrence (if a
// logger is configured), records it in Diagnostics, and falls back to the
// next shorter candidate, or to a one-byte advance if none resolves.
type InvalidStateError struct {
	Kind  ErrorKind
	State automaton.StateID
	Pos   int
}

// Error implements the error interface.
func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("dscan: scanner state %d has no pattern index entry at position %d", e.State, e.Pos)
}

// Is implements error comparison for errors.Is: two scanner errors match
// when their kinds match, so ErrInvalidState works as a class check
// without comparing state ids or positions.
func (e *InvalidStateError) Is(target error) bool {
	t, ok := target.(*InvalidStateError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}
