// Package serialize round-trips a ctxt.ScannerCtxt to and from an opaque
// binary blob, so a pattern set can be compiled once and the result
// shipped to many processes.
//
// The payload is gob: a DFA state graph is plain Go data (ints, bools,
// byte ranges) once freed from the expr.Store's hash-consed pointer
// identities, which is exactly what the wire-format mirror types below
// do. The expr.Store/Expression tree itself is not serialized: the
// scanner's hot path only ever touches the compiled automaton and the
// pattern index, never the algebra that produced them, so round-tripping
// the harder hash-consed pointer graph would buy nothing a caller of
// Encode/Decode actually needs.
package serialize

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"

	"github.com/coregx/dscan/automaton"
	"github.com/coregx/dscan/ctxt"
	"github.com/coregx/dscan/internal/charset"
	"github.com/coregx/dscan/pattern"
)

// formatVersion is written as a 4-byte big-endian header before the gob
// stream. Bump it whenever the wire struct shapes below change in a
// backward-incompatible way.
const formatVersion uint32 = 1

type wireTransition struct {
	Chars []charset.Range
	Next  automaton.StateID
}

type wireState struct {
	ID          automaton.StateID
	Accepting   bool
	Final       bool
	Transitions []wireTransition
	Default     automaton.StateID
}

type wireAutomaton struct {
	States []wireState
	Start  automaton.StateID
}

type wireContext struct {
	Automaton wireAutomaton
	Index     pattern.Index
}

// Encode serializes c's compiled automaton and pattern index into a
// versioned binary blob.
func Encode(c *ctxt.ScannerCtxt) ([]byte, error) {
	auto := c.Automaton()
	wa := wireAutomaton{Start: auto.Start()}
	for i := 0; i < auto.NumStates(); i++ {
		st := auto.State(automaton.StateID(i))
		ws := wireState{
			ID:        st.ID(),
			Accepting: st.Accepting(),
			Final:     st.Final(),
			Default:   st.Default(),
		}
		for _, tr := range st.Transitions() {
			ws.Transitions = append(ws.Transitions, wireTransition{
				Chars: append([]charset.Range(nil), tr.Chars.Ranges()...),
				Next:  tr.Next,
			})
		}
		wa.States = append(wa.States, ws)
	}

	var body bytes.Buffer
	if err := gob.NewEncoder(&body).Encode(wireContext{Automaton: wa, Index: c.Index()}); err != nil {
		return nil, err
	}

	out := make([]byte, 4, 4+body.Len())
	binary.BigEndian.PutUint32(out, formatVersion)
	return append(out, body.Bytes()...), nil
}

// Decode reconstructs a ScannerCtxt from a blob produced by Encode. A
// version mismatch or a malformed gob stream is a *DeserializationError;
// no partial context is returned in either case.
func Decode(blob []byte) (*ctxt.ScannerCtxt, error) {
	if len(blob) < 4 {
		return nil, &DeserializationError{Detail: "blob too short to contain a version header"}
	}
	version := binary.BigEndian.Uint32(blob[:4])
	if version != formatVersion {
		return nil, &DeserializationError{Detail: "unsupported format version"}
	}

	var wc wireContext
	if err := gob.NewDecoder(bytes.NewReader(blob[4:])).Decode(&wc); err != nil {
		return nil, &DeserializationError{Detail: "gob decode failed", Cause: err}
	}

	states := make([]*automaton.State, len(wc.Automaton.States))
	for i, ws := range wc.Automaton.States {
		transitions := make([]automaton.Transition, len(ws.Transitions))
		for j, wt := range ws.Transitions {
			transitions[j] = automaton.Transition{
				Chars: charset.FromRanges(wt.Chars),
				Next:  wt.Next,
			}
		}
		states[i] = automaton.NewState(ws.ID, ws.Accepting, ws.Final, transitions, ws.Default)
	}
	auto := automaton.NewAutomaton(states, wc.Automaton.Start)

	return ctxt.FromParts(auto, wc.Index), nil
}
