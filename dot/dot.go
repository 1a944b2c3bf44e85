// Package dot renders a compiled automaton.Automaton plus its
// pattern.Index as a Graphviz DOT graph, for debugging pattern sets and
// eyeballing state counts.
//
// Pure text generation: nodes, edges, a handful of attributes. stdlib
// fmt/strings only.
package dot

import (
	"fmt"
	"sort"
	"strings"

	"github.com/coregx/dscan/automaton"
	"github.com/coregx/dscan/internal/charset"
	"github.com/coregx/dscan/pattern"
)

// Write renders auto as a DOT digraph. Accepting states are drawn as
// double circles, final non-accepting states as filled circles. Each
// distinct (from, to) transition pair collapses onto a single edge
// labeled with the merged character-class ranges that produce it, using
// the same interval representation the derivation maps themselves use so
// a label reads "[0-9]" rather than ten separate edges.
func Write(auto *automaton.Automaton, index pattern.Index) string {
	var b strings.Builder
	b.WriteString("digraph dscan {\n\trankdir=LR;\n")

	for i := 0; i < auto.NumStates(); i++ {
		id := automaton.StateID(i)
		st := auto.State(id)
		shape := "circle"
		style := ""
		switch {
		case st.Accepting():
			shape = "doublecircle"
		case st.Final():
			style = ", style=filled"
		}
		label := fmt.Sprintf("%d", id)
		if names, ok := index.Lookup(id); ok && len(names) > 0 {
			var parts []string
			for _, p := range names {
				parts = append(parts, p.Name)
			}
			label = fmt.Sprintf("%d\\n%s", id, strings.Join(parts, ","))
		}
		fmt.Fprintf(&b, "\tS%d [shape=%s, label=%q%s];\n", id, shape, label, style)
	}

	type edgeKey struct{ from, to automaton.StateID }
	byPair := make(map[edgeKey]charset.Set)
	pairOrder := make([]edgeKey, 0)

	addEdge := func(from, to automaton.StateID, chars charset.Set) {
		k := edgeKey{from, to}
		cur, seen := byPair[k]
		if !seen {
			pairOrder = append(pairOrder, k)
		}
		byPair[k] = charset.Union(cur, chars)
	}

	for i := 0; i < auto.NumStates(); i++ {
		id := automaton.StateID(i)
		st := auto.State(id)
		defaultCovered := charset.Empty()
		for _, tr := range st.Transitions() {
			addEdge(id, tr.Next, tr.Chars)
			defaultCovered = charset.Union(defaultCovered, tr.Chars)
		}
		remaining := charset.Difference(charset.Full(), defaultCovered)
		if !remaining.IsEmpty() {
			addEdge(id, st.Default(), remaining)
		}
	}

	sort.Slice(pairOrder, func(i, j int) bool {
		if pairOrder[i].from != pairOrder[j].from {
			return pairOrder[i].from < pairOrder[j].from
		}
		return pairOrder[i].to < pairOrder[j].to
	})

	for _, k := range pairOrder {
		fmt.Fprintf(&b, "\tS%d -> S%d [label=%q];\n", k.from, k.to, formatRanges(byPair[k]))
	}

	b.WriteString("}\n")
	return b.String()
}

// formatRanges renders a Set as a compact "[a-zA-Z0-9]"-style label,
// escaping bytes outside printable ASCII as \xHH.
func formatRanges(s charset.Set) string {
	var b strings.Builder
	b.WriteByte('[')
	for _, r := range s.Ranges() {
		if r.Lo == r.Hi {
			b.WriteString(formatByte(r.Lo))
			continue
		}
		b.WriteString(formatByte(r.Lo))
		b.WriteByte('-')
		b.WriteString(formatByte(r.Hi))
	}
	b.WriteByte(']')
	return b.String()
}

func formatByte(c byte) string {
	if c >= 0x20 && c < 0x7F && c != '\\' && c != '"' {
		return string(rune(c))
	}
	return fmt.Sprintf("\\x%02x", c)
}
