// Package prefilter accelerates the streaming scanner with a multi-literal
// Aho-Corasick search: a cheap pre-scan that skips input positions which
// cannot possibly begin any pattern in the compiled vector, before the
// derivative DFA itself is asked to step through them.
//
// The Aho-Corasick automaton is never a substitute for the DFA, only an
// accelerator the Scanner consults between matches. The DFA remains the
// sole authority on what matches and where.
package prefilter

import (
	"github.com/coregx/ahocorasick"

	"github.com/coregx/dscan/literal"
)

// Prefilter narrows candidate scan-start positions using the required
// literal prefix of every pattern in a compiled vector.
type Prefilter struct {
	auto *ahocorasick.Automaton
}

// Build constructs a Prefilter from one required-prefix Literal per
// pattern. It returns ok=false when lits is empty or any entry is itself
// empty: a pattern with no required literal could start a match at a
// position the prefilter would otherwise skip, making the accelerator
// unsound for the whole vector, so the caller (ctxt.Build) falls back to
// unaccelerated scanning instead.
func Build(lits []literal.Literal) (*Prefilter, bool) {
	if len(lits) == 0 {
		return nil, false
	}
	builder := ahocorasick.NewBuilder()
	for _, lit := range lits {
		if lit.Len() == 0 {
			return nil, false
		}
		builder.AddPattern(lit.Bytes)
	}
	auto, err := builder.Build()
	if err != nil {
		return nil, false
	}
	return &Prefilter{auto: auto}, true
}

// NextCandidate returns the earliest position at or after at where some
// pattern's required literal prefix occurs, or len(haystack) if none does.
// It is only safe to jump to this position when the caller's scanner is
// Idle (scanner.Scanner.Idle): a skip across bytes that would otherwise
// extend an in-flight candidate match breaks the backtracking invariant.
func (p *Prefilter) NextCandidate(haystack []byte, at int) int {
	if at >= len(haystack) {
		return len(haystack)
	}
	m := p.auto.Find(haystack, at)
	if m == nil {
		return len(haystack)
	}
	return m.Start
}
