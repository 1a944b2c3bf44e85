package scanner

import "github.com/coregx/dscan/automaton"

// scanBuffer holds the characters consumed since the last advance point.
// Advance trims from the left in amortized O(1): the backing array is
// only compacted once the discarded prefix has grown large relative to
// what remains.
type scanBuffer struct {
	data  []byte
	start int
}

func (b *scanBuffer) Append(c byte) { b.data = append(b.data, c) }

func (b *scanBuffer) Bytes() []byte { return b.data[b.start:] }

func (b *scanBuffer) Len() int { return len(b.data) - b.start }

const compactThreshold = 4096

// Advance drops the first k bytes of the live buffer.
func (b *scanBuffer) Advance(k int) {
	b.start += k
	if b.start >= compactThreshold && b.start*2 >= len(b.data) {
		remaining := copy(b.data, b.data[b.start:])
		b.data = b.data[:remaining]
		b.start = 0
	}
}

func (b *scanBuffer) Reset() {
	b.data = b.data[:0]
	b.start = 0
}

// candidateEntry is one entry of the match-candidate buffer: a state
// reached during this scan pass together with the prefix that reached
// it. The last entry is always the longest seen so far, since entries
// are only ever appended as the buffer grows.
type candidateEntry struct {
	state automaton.StateID
	text  []byte
}

// matchBuffer is a stack of candidates pushed whenever the DFA enters an
// accepting state during a scan pass.
type matchBuffer struct {
	entries []candidateEntry
}

func (m *matchBuffer) Push(state automaton.StateID, text []byte) {
	cp := make([]byte, len(text))
	copy(cp, text)
	m.entries = append(m.entries, candidateEntry{state: state, text: cp})
}

func (m *matchBuffer) Len() int { return len(m.entries) }

func (m *matchBuffer) Reset() { m.entries = m.entries[:0] }
