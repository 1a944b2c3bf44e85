package scanner_test

import (
	"errors"
	"testing"

	"github.com/coregx/dscan/automaton"
	"github.com/coregx/dscan/internal/charset"
	"github.com/coregx/dscan/pattern"
	"github.com/coregx/dscan/scanner"
)

// TestInvalidStateErrorOnMismatchedIndex builds an automaton that accepts
// on 'a' but pairs it with an index missing an entry for that state
// entirely, exercising the defensive diagnostic path described in
// scanner/error.go for a corrupted or mismatched Automaton/Index pair.
func TestInvalidStateErrorOnMismatchedIndex(t *testing.T) {
	start := automaton.NewState(0, false, false,
		[]automaton.Transition{{Chars: charset.One('a'), Next: 1}}, 0)
	accept := automaton.NewState(1, true, false, nil, 1)
	auto := automaton.NewAutomaton([]*automaton.State{start, accept}, 0)

	sc := scanner.New(auto, pattern.Index{}, scanner.DefaultConfig())
	matches := sc.Update('a')
	matches = append(matches, sc.Complete()...)

	if len(matches) != 0 {
		t.Fatalf("expected no matches from an unindexed accepting state, got %+v", matches)
	}
	diags := sc.Diagnostics()
	if len(diags) != 1 {
		t.Fatalf("expected exactly one diagnostic, got %d", len(diags))
	}
	if diags[0].State != 1 {
		t.Fatalf("expected the diagnostic to name state 1, got %d", diags[0].State)
	}
	if diags[0].Kind != scanner.InvalidState {
		t.Fatalf("expected kind %v, got %v", scanner.InvalidState, diags[0].Kind)
	}
	if !errors.Is(&diags[0], scanner.ErrInvalidState) {
		t.Fatal("expected the diagnostic to match the ErrInvalidState sentinel")
	}
}
