package expr

import "github.com/coregx/dscan/internal/charset"

// Vector lifts the algebra to an ordered tuple of expressions so one DFA
// can track k patterns in lockstep. Vector element order is semantically
// significant for pattern attribution: two vectors are equal only when
// coordinate-wise equal in the same order — there is no
// canonicalization/sorting here, unlike Or/And's operand sets.
type Vector struct {
	Exprs []*Expression
}

// NewVector wraps exprs as a Vector. The slice is not copied; callers must
// not mutate it afterwards.
func NewVector(exprs []*Expression) Vector { return Vector{Exprs: exprs} }

// Nullable reports whether any coordinate is nullable.
func (v Vector) Nullable() bool {
	for _, e := range v.Exprs {
		if e.Nullable() {
			return true
		}
	}
	return false
}

// Final reports whether every coordinate is final.
func (v Vector) Final() bool {
	for _, e := range v.Exprs {
		if !e.Final() {
			return false
		}
	}
	return true
}

// Equal reports whether v and o have the same expressions in the same
// positions.
func (v Vector) Equal(o Vector) bool {
	if len(v.Exprs) != len(o.Exprs) {
		return false
	}
	for i := range v.Exprs {
		if v.Exprs[i] != o.Exprs[i] {
			return false
		}
	}
	return true
}

// Key returns a value suitable for use as a map key identifying v's
// coordinates by id. Used by the DFA compiler's visited-vector table.
func (v Vector) Key() string { return packIDs(v.Exprs) }

// VectorClassEntry is one partition of a VectorDerivationMap.
type VectorClassEntry struct {
	Successor Vector
	Chars     charset.Set
}

// VectorDerivationMap is the cross-combination of each coordinate's own
// DerivationMap: the intersect-then-difference combinator applied
// iteratively across all coordinates.
type VectorDerivationMap struct {
	Classes []VectorClassEntry
	Default Vector
}

// DerivationMap computes v's partitioned derivative by refining the joint
// partition one coordinate at a time. Unlike the scalar algebra's
// Concat/Or/And combinators, there is no smart constructor collapsing
// coordinates together — the "combine" operation here is simply
// appending the next coordinate's successor to the running tuple.
func (v Vector) DerivationMap() *VectorDerivationMap {
	if len(v.Exprs) == 0 {
		return &VectorDerivationMap{Default: Vector{}}
	}
	first := v.Exprs[0].DerivationMap()
	classes := make([]partial, 0, len(first.Classes))
	for _, cl := range first.Classes {
		classes = append(classes, partial{chars: cl.Chars, tuple: []*Expression{cl.Successor}})
	}
	defaultTuple := []*Expression{first.Default}

	for _, coord := range v.Exprs[1:] {
		m := coord.DerivationMap()
		classes, defaultTuple = refine(classes, defaultTuple, m)
	}

	out := &VectorDerivationMap{Default: Vector{Exprs: defaultTuple}}
	for _, p := range classes {
		out.Classes = append(out.Classes, VectorClassEntry{Successor: Vector{Exprs: p.tuple}, Chars: p.chars})
	}
	return out
}

// Lookup returns the successor vector for character c.
func (m *VectorDerivationMap) Lookup(c byte) Vector {
	for _, cl := range m.Classes {
		if cl.Chars.Contains(c) {
			return cl.Successor
		}
	}
	return m.Default
}

type partial struct {
	chars charset.Set
	tuple []*Expression
}

func appended(tuple []*Expression, e *Expression) []*Expression {
	out := make([]*Expression, len(tuple)+1)
	copy(out, tuple)
	out[len(tuple)] = e
	return out
}

// refine cross-partitions the current joint classes (plus their implicit
// default, held separately as defaultTuple) against the next coordinate's
// own map m, exactly as combineMaps does for two expression maps, except
// the "combine" step only ever appends — it never invokes a smart
// constructor, since a Vector has no algebra of its own.
func refine(classes []partial, defaultTuple []*Expression, m *DerivationMap) ([]partial, []*Expression) {
	var out []partial
	common := charset.Empty()
	for _, a := range classes {
		for _, b := range m.Classes {
			inter := charset.Intersect(a.chars, b.Chars)
			if inter.IsEmpty() {
				continue
			}
			out = append(out, partial{chars: inter, tuple: appended(a.tuple, b.Successor)})
			common = charset.Union(common, inter)
		}
	}
	for _, a := range classes {
		rem := charset.Difference(a.chars, common)
		if !rem.IsEmpty() {
			out = append(out, partial{chars: rem, tuple: appended(a.tuple, m.Default)})
		}
	}
	for _, b := range m.Classes {
		rem := charset.Difference(b.Chars, common)
		if !rem.IsEmpty() {
			out = append(out, partial{chars: rem, tuple: appended(defaultTuple, b.Successor)})
		}
	}
	newDefault := appended(defaultTuple, m.Default)
	return out, newDefault
}
