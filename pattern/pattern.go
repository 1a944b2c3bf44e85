// Package pattern defines the Pattern catalogue and the state→pattern
// index that the streaming scanner consults to resolve a DFA accepting
// state to the original pattern(s) nullable there.
package pattern

import (
	"fmt"

	"github.com/coregx/dscan/automaton"
	"github.com/coregx/dscan/expr"
)

// ID identifies a pattern: Major comes from the pattern definition, Minor
// disambiguates boundary/regex expansions within a single definition.
type ID struct {
	Major int
	Minor int
}

// String renders an ID as "major.minor", e.g. "1.1".
func (id ID) String() string { return fmt.Sprintf("%d.%d", id.Major, id.Minor) }

// Pattern is one compiled entry in the catalogue: an identifier, a display
// name, the source regex string it was parsed from, and whether a match
// should be suppressed (ignored) rather than emitted.
type Pattern struct {
	ID     ID
	Name   string
	Source string
	Ignore bool
}

// Index maps an automaton state id to the ordered list of patterns whose
// corresponding vector coordinate is nullable at that state, earliest
// declared first. A state with no nullable coordinate has no entry.
type Index map[automaton.StateID][]Pattern

// Lookup returns the patterns recorded for state id, and whether an entry
// exists at all (as opposed to existing but being empty).
func (idx Index) Lookup(id automaton.StateID) ([]Pattern, bool) {
	p, ok := idx[id]
	return p, ok
}

// Builder accumulates an Index via the automaton.Compiler's NotifyFunc
// callback. patterns[i] names the pattern compiled into vector coordinate
// i; a coordinate whose expression was dropped by a parse failure has no
// place in the vector at all, so patterns and the vector are always kept
// aligned by the caller (ctxt.Build).
type Builder struct {
	patterns []Pattern
	index    Index
}

// NewBuilder creates a Builder for the given per-coordinate patterns.
func NewBuilder(patterns []Pattern) *Builder {
	return &Builder{patterns: patterns, index: make(Index)}
}

// Notify is an automaton.NotifyFunc: for each newly created state, it
// records every pattern whose coordinate is nullable in that state's
// source vector.
//
// Coordinates are visited from last to first so that each prepend leaves
// the list in declaration order (earliest pattern first) by the time
// every nullable coordinate has been visited — visiting forward would
// prepend the highest-indexed nullable coordinate last, putting it ahead
// of earlier-declared patterns and silently breaking the earliest-wins
// rule the scanner relies on.
func (b *Builder) Notify(state *automaton.State, source expr.Vector) {
	var list []Pattern
	for i := len(source.Exprs) - 1; i >= 0; i-- {
		if source.Exprs[i].Nullable() {
			list = append([]Pattern{b.patterns[i]}, list...)
		}
	}
	// A state appears in the index only if some coordinate is nullable
	// there — a non-accepting state gets no entry at all, distinct from
	// an accepting state whose entry happens to be empty.
	if len(list) > 0 {
		b.index[state.ID()] = list
	}
}

// Index returns the accumulated index. Call once Compile has finished.
func (b *Builder) Index() Index { return b.index }
