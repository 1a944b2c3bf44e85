// Package scanner drives an automaton.Automaton over a byte stream and
// resolves accepting/final states to pattern.Pattern occurrences, under
// longest-match, earliest-declared-pattern, leftmost-scan semantics.
//
// The loop is step-then-check: consume one byte, step the live state,
// record a candidate on every accepting state, and resolve candidates
// only once the automaton goes final — that is the earliest point at
// which no longer match can still arrive.
package scanner

import (
	"github.com/coregx/dscan/automaton"
	"github.com/coregx/dscan/internal/asciirun"
	"github.com/coregx/dscan/pattern"
)

// Stats accumulates observability counters over a Scanner's lifetime: a
// count of which fast paths actually fired, never a value that changes
// matching behavior.
type Stats struct {
	// ASCIIChunks counts UpdateString calls whose input was confirmed
	// entirely 7-bit ASCII by internal/asciirun. Only incremented when
	// Config.ASCIIFastPath is set.
	ASCIIChunks int

	// NonASCIIChunks counts UpdateString calls whose input contained at
	// least one byte with the high bit set. Only incremented when
	// Config.ASCIIFastPath is set.
	NonASCIIChunks int
}

// Scanner streams bytes through a compiled Automaton, emitting Match values
// as patterns resolve. A Scanner is not safe for concurrent use; build one
// per goroutine (ctxt.ScannerCtxt.NewScanner is cheap).
type Scanner struct {
	auto  *automaton.Automaton
	index pattern.Index
	cfg   Config

	state      automaton.StateID
	buf        scanBuffer
	consumed   int
	candidates matchBuffer
	pos        int

	diagnostics []InvalidStateError
	stats       Stats
}

// New creates a Scanner over auto, resolving accepting states via index.
func New(auto *automaton.Automaton, index pattern.Index, cfg Config) *Scanner {
	return &Scanner{
		auto:  auto,
		index: index,
		cfg:   cfg,
		state: auto.Start(),
	}
}

// Update feeds one byte and returns any matches it resolves.
func (sc *Scanner) Update(c byte) []Match {
	sc.buf.Append(c)
	return sc.drive(false)
}

// UpdateString feeds s byte by byte and returns the concatenation of every
// match resolved along the way.
func (sc *Scanner) UpdateString(s string) []Match {
	if sc.cfg.ASCIIFastPath {
		if asciirun.IsASCII([]byte(s)) {
			sc.stats.ASCIIChunks++
		} else {
			sc.stats.NonASCIIChunks++
		}
	}
	var out []Match
	for i := 0; i < len(s); i++ {
		out = append(out, sc.Update(s[i])...)
	}
	return out
}

// Stats returns the scanner's accumulated observability counters.
func (sc *Scanner) Stats() Stats { return sc.stats }

// Complete forces resolution of whatever remains buffered: any pending
// candidate is emitted (or, absent one, the buffer is dropped one byte at a
// time) until the buffer is empty. Call this at end of input.
func (sc *Scanner) Complete() []Match {
	return sc.drive(true)
}

// Reset returns the scanner to its initial state, discarding any buffered,
// unresolved content and position counter.
func (sc *Scanner) Reset() {
	sc.state = sc.auto.Start()
	sc.buf.Reset()
	sc.consumed = 0
	sc.candidates.Reset()
	sc.pos = 0
}

// Pos returns the number of input bytes committed to emitted matches or
// dropped so far (i.e. the start of the still-live buffer).
func (sc *Scanner) Pos() int { return sc.pos }

// Idle reports whether the scanner has nothing buffered and sits at the
// automaton's start state. A caller driving a literal prefilter (see the
// prefilter package) may only skip input ahead while Idle is true: once a
// partial match is live in the buffer, every byte must be fed through in
// order or the backtracking candidate stack goes stale.
func (sc *Scanner) Idle() bool {
	return sc.buf.Len() == 0 && sc.state == sc.auto.Start()
}

// Diagnostics returns every InvalidStateError observed so far. The slice is
// owned by the caller; Scanner does not reuse it.
func (sc *Scanner) Diagnostics() []InvalidStateError {
	out := make([]InvalidStateError, len(sc.diagnostics))
	copy(out, sc.diagnostics)
	return out
}

// drive consumes every byte currently sitting unconsumed in the live buffer,
// resolving matches as accepting/final states are reached, until the buffer
// is exhausted in a live (non-final) state. When complete is true, a live
// state at end of buffer is forced to resolve (or drop a byte) repeatedly
// until the buffer empties entirely.
func (sc *Scanner) drive(complete bool) []Match {
	var matches []Match
	for {
		for sc.consumed < sc.buf.Len() {
			c := sc.buf.Bytes()[sc.consumed]
			sc.state = sc.auto.Step(sc.state, c)
			sc.consumed++
			cur := sc.auto.State(sc.state)

			if cur.Accepting() {
				sc.candidates.Push(sc.state, sc.buf.Bytes()[:sc.consumed])
			}

			switch {
			case sc.candidates.Len() > 0 && cur.Final():
				matches = append(matches, sc.resolveOrDrop()...)
			case sc.candidates.Len() == 0 && cur.Final():
				sc.forceAdvance(1)
			default:
				// The buffer cap only interrupts growth that has produced no
				// candidate yet: once one is buffered, a forced advance here
				// would truncate a legitimate longest match mid-run.
				if sc.cfg.MaxBufferLen > 0 && sc.candidates.Len() == 0 && sc.buf.Len() > sc.cfg.MaxBufferLen {
					sc.forceAdvance(1)
				}
				continue
			}
			// A resolution reset consumed/buf; re-enter the inner loop to
			// process whatever tail remains from this same drive call.
			break
		}

		if sc.consumed < sc.buf.Len() {
			continue // an advance trimmed the buffer; reprocess the tail now
		}
		if !complete || sc.buf.Len() == 0 {
			return matches
		}
		matches = append(matches, sc.resolveOrDrop()...)
	}
}

// resolveOrDrop tries to resolve the current candidate stack into a match;
// failing that (stack empty, or every candidate's state lacks an index
// entry or resolves to an empty entry), it drops a single byte to guarantee
// forward progress.
func (sc *Scanner) resolveOrDrop() []Match {
	m, length, ok := sc.backtrackResolve()
	if !ok {
		sc.forceAdvance(1)
		return nil
	}
	if length < 1 {
		length = 1
	}
	sc.forceAdvance(length)
	if m.Ignored {
		return nil
	}
	return []Match{m}
}

// backtrackResolve walks the candidate stack from longest to shortest,
// looking for the first whose state has a non-empty index entry. A state
// with no entry at all violates the accepting/index invariant and is
// recorded as a diagnostic; a state with an entry that happens to be empty
// is a legitimate "accepting but no pattern declared here" case and is
// simply skipped in favor of a shorter candidate.
func (sc *Scanner) backtrackResolve() (Match, int, bool) {
	for i := sc.candidates.Len() - 1; i >= 0; i-- {
		cand := sc.candidates.entries[i]
		list, exists := sc.index.Lookup(cand.state)
		if !exists {
			sc.recordInvalidState(cand.state)
			continue
		}
		if len(list) == 0 {
			continue
		}
		p := list[0]
		return Match{
			ID:      p.ID,
			Name:    p.Name,
			Source:  p.Source,
			Pos:     sc.pos,
			Text:    string(cand.text),
			Ignored: p.Ignore,
		}, len(cand.text), true
	}
	return Match{}, 0, false
}

func (sc *Scanner) recordInvalidState(state automaton.StateID) {
	e := InvalidStateError{Kind: InvalidState, State: state, Pos: sc.pos}
	sc.diagnostics = append(sc.diagnostics, e)
	if sc.cfg.Logger != nil {
		sc.cfg.Logger.Error("dscan: scanner hit state with no pattern index entry",
			"state", uint32(state), "pos", sc.pos)
	}
}

// forceAdvance commits k bytes of the live buffer, resets the automaton to
// its start state, and clears the candidate stack.
func (sc *Scanner) forceAdvance(k int) {
	sc.buf.Advance(k)
	sc.pos += k
	sc.consumed = 0
	sc.candidates.Reset()
	sc.state = sc.auto.Start()
}
