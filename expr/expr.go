// Package expr implements the regular-expression algebra: a closed family
// of immutable values with smart-constructor normalization, nullability,
// finality, and Brzozowski derivatives — both single-character and
// partitioned (the DerivationMap used to drive DFA compilation).
//
// Every Expression is owned by exactly one Store. A Store hash-conses its
// nodes: two calls that would build structurally-equal (under the
// normalization law) expressions return the identical *Expression pointer,
// so equality and hashing both reduce to pointer (equivalently, id)
// comparison.
//
// Derivation maps and finality are computed on first use and cached on the
// node. A derivative successor can be the very expression being derived
// (d(a*b, a) = a*b), so maps cannot be built inside the smart constructors;
// deferring them breaks the cycle, because a map only ever demands the maps
// of an expression's sub-terms, never of its successors. The cost is that
// the cache fill is a mutation: construction and the first full traversal
// (the DFA compiler's Compile does one) must happen on a single goroutine.
// After that, expressions are immutable and safe to share freely.
package expr

import "github.com/coregx/dscan/internal/charset"

// Kind identifies which variant of the expression sum type a node is.
type Kind uint8

const (
	KindEmptySet Kind = iota
	KindEmptyString
	KindAny
	KindSymbol
	KindConcat
	KindOr
	KindAnd
	KindStar
	KindNot
)

// String renders a Kind's name for diagnostics.
func (k Kind) String() string {
	switch k {
	case KindEmptySet:
		return "EmptySet"
	case KindEmptyString:
		return "EmptyString"
	case KindAny:
		return "Any"
	case KindSymbol:
		return "Symbol"
	case KindConcat:
		return "Concat"
	case KindOr:
		return "Or"
	case KindAnd:
		return "And"
	case KindStar:
		return "Star"
	case KindNot:
		return "Not"
	default:
		return "Unknown"
	}
}

// ClassEntry is one partition of a DerivationMap: every character in Chars
// derives to Successor.
type ClassEntry struct {
	Successor *Expression
	Chars     charset.Set
}

// DerivationMap is the partitioned derivative of an expression: a finite
// set of disjoint, exhaustive-over-the-exceptions classes plus a default
// successor for every character not named by a class.
type DerivationMap struct {
	Classes []ClassEntry
	Default *Expression
}

// Lookup returns the successor expression for character c.
func (m *DerivationMap) Lookup(c byte) *Expression {
	for _, cl := range m.Classes {
		if cl.Chars.Contains(c) {
			return cl.Successor
		}
	}
	return m.Default
}

// Expression is an immutable node in the regex algebra. The zero value is
// not valid; Expressions are only produced by a Store's smart constructors.
type Expression struct {
	id       int32
	kind     Kind
	sym      byte
	args     []*Expression // Concat: ordered operands. Or/And: canonical sorted operand set. Star/Not: single operand.
	nullable bool
	store    *Store

	dmap     *DerivationMap // computed on first DerivationMap() call
	final    bool
	finalSet bool
}

// ID returns the expression's hash-consed arena id. Two expressions from
// the same Store are structurally equal (under the normalization law) iff
// their ids are equal.
func (e *Expression) ID() int32 { return e.id }

// Kind returns the expression's variant.
func (e *Expression) Kind() Kind { return e.kind }

// Sym returns the character a KindSymbol expression matches. Only valid
// when Kind() == KindSymbol.
func (e *Expression) Sym() byte { return e.sym }

// Args returns the expression's operands: a single element for Star/Not,
// the ordered operands for Concat, the canonical operand set for Or/And,
// nil for the leaf kinds. The caller must not mutate the returned slice.
func (e *Expression) Args() []*Expression { return e.args }

// Nullable reports whether e matches the empty string.
func (e *Expression) Nullable() bool { return e.nullable }

// Final reports whether e's acceptance decision can never change again:
// every class successor and the default successor of e's own derivation
// map is e itself. EmptySet (the permanent reject sink) and expressions
// like Not(EmptySet) or Star(Any) (permanent accept sinks) are final.
func (e *Expression) Final() bool {
	if !e.finalSet {
		e.final = fixedPoint(e, e.DerivationMap())
		e.finalSet = true
	}
	return e.final
}

// DerivationMap returns e's partitioned derivative, computing and caching
// it on first use.
func (e *Expression) DerivationMap() *DerivationMap {
	if e.dmap == nil {
		e.dmap = e.store.computeMap(e)
	}
	return e.dmap
}

// Equal reports whether e and o are the same node. Only meaningful for
// expressions built from the same Store.
func (e *Expression) Equal(o *Expression) bool { return e == o }
