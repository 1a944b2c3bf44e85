package expr

import (
	"sort"

	"github.com/coregx/dscan/internal/charset"
)

// Store is an arena and hash-consing table for Expressions: callers never
// construct an Expression directly, they ask the Store for one, and the
// Store decides whether to reuse an existing node.
type Store struct {
	arena    []*Expression
	nullary  map[Kind]*Expression // EmptySet, EmptyString, Any singletons
	symbols  [256]*Expression
	compound map[compoundKey]*Expression
	top      *Expression // Not(EmptySet), the universal accept-sink
}

type compoundKey struct {
	kind Kind
	ids  string // packed big-endian int32 child ids
}

func packIDs(args []*Expression) string {
	buf := make([]byte, 4*len(args))
	for i, a := range args {
		id := uint32(a.id)
		buf[4*i] = byte(id >> 24)
		buf[4*i+1] = byte(id >> 16)
		buf[4*i+2] = byte(id >> 8)
		buf[4*i+3] = byte(id)
	}
	return string(buf)
}

// NewStore creates an empty Store. The nullary singletons (EmptySet,
// EmptyString, Any) are pre-interned.
func NewStore() *Store {
	s := &Store{
		nullary:  make(map[Kind]*Expression),
		compound: make(map[compoundKey]*Expression),
	}
	s.nullary[KindEmptySet] = s.alloc(KindEmptySet, 0, nil, false)
	s.nullary[KindEmptyString] = s.alloc(KindEmptyString, 0, nil, true)
	s.nullary[KindAny] = s.alloc(KindAny, 0, nil, false)
	s.top = s.Not(s.EmptySet())
	return s
}

func (s *Store) alloc(kind Kind, sym byte, args []*Expression, nullable bool) *Expression {
	e := &Expression{
		id:       int32(len(s.arena)),
		kind:     kind,
		sym:      sym,
		args:     args,
		nullable: nullable,
		store:    s,
	}
	s.arena = append(s.arena, e)
	return e
}

// EmptySet returns ∅, the expression matching no string.
func (s *Store) EmptySet() *Expression { return s.nullary[KindEmptySet] }

// EmptyString returns ε, the expression matching only the empty string.
func (s *Store) EmptyString() *Expression { return s.nullary[KindEmptyString] }

// Any returns the expression matching exactly one arbitrary character.
func (s *Store) Any() *Expression { return s.nullary[KindAny] }

// Top returns ¬∅, the expression matching every string.
func (s *Store) Top() *Expression { return s.top }

// Symbol returns the expression matching exactly the character c.
func (s *Store) Symbol(c byte) *Expression {
	if e := s.symbols[c]; e != nil {
		return e
	}
	e := s.alloc(KindSymbol, c, nil, false)
	s.symbols[c] = e
	return e
}

// FromSet builds the expression matching exactly one character drawn from
// cs: EmptySet if cs is empty, Any if cs is the full byte alphabet,
// otherwise an Or of the individual Symbols in cs. There is no dedicated
// character-class variant in the algebra — the sum type has exactly nine
// variants — so bracket expressions desugar to Or of Symbol here, at the
// boundary between surface syntax and algebra.
func (s *Store) FromSet(cs charset.Set) *Expression {
	if cs.IsEmpty() {
		return s.EmptySet()
	}
	full := charset.Full()
	if charset.Equal(cs, full) {
		return s.Any()
	}
	var syms []*Expression
	for _, r := range cs.Ranges() {
		for b := int(r.Lo); b <= int(r.Hi); b++ {
			syms = append(syms, s.Symbol(byte(b)))
		}
	}
	return s.Or(syms...)
}

func fixedPoint(e *Expression, m *DerivationMap) bool {
	for _, cl := range m.Classes {
		if cl.Successor != e {
			return false
		}
	}
	return m.Default == e
}

// ---- Concat ----

// Concat builds the concatenation of args in order, applying the
// normalization law (∅·r = r·∅ = ∅, ε·r = r·ε = r) and associativity
// (nested Concats flatten).
func (s *Store) Concat(args ...*Expression) *Expression {
	flat := make([]*Expression, 0, len(args))
	for _, a := range args {
		if a.kind == KindConcat {
			flat = append(flat, a.args...)
		} else {
			flat = append(flat, a)
		}
	}
	out := flat[:0:0]
	for _, a := range flat {
		if a.kind == KindEmptySet {
			return s.EmptySet()
		}
		if a.kind == KindEmptyString {
			continue // unit law: drop ε operands
		}
		out = append(out, a)
	}
	switch len(out) {
	case 0:
		return s.EmptyString()
	case 1:
		return out[0]
	}
	key := compoundKey{kind: KindConcat, ids: packIDs(out)}
	if e, ok := s.compound[key]; ok {
		return e
	}
	nullable := true
	for _, a := range out {
		nullable = nullable && a.nullable
	}
	e := s.alloc(KindConcat, 0, out, nullable)
	s.compound[key] = e
	return e
}

// ---- Or ----

// Or builds the alternation of args, applying idempotence (r∨r=r),
// identity (∅∨r=r), annihilation (¬∅∨r=¬∅), and commutative/associative
// canonicalization (nested Ors flatten; the operand set is deduplicated
// and sorted by id so that equal operand sets always produce the same
// node, regardless of the order args was given in).
func (s *Store) Or(args ...*Expression) *Expression {
	return s.orAnd(KindOr, args)
}

// And builds the intersection of args, applying idempotence (r∧r=r),
// identity (¬∅∧r=r), annihilation (∅∧r=∅), and the same canonicalization
// as Or.
func (s *Store) And(args ...*Expression) *Expression {
	return s.orAnd(KindAnd, args)
}

func (s *Store) orAnd(kind Kind, args []*Expression) *Expression {
	identity, annihilator := s.EmptySet(), s.top
	if kind == KindAnd {
		identity, annihilator = s.top, s.EmptySet()
	}

	flat := make([]*Expression, 0, len(args))
	for _, a := range args {
		if a.kind == kind {
			flat = append(flat, a.args...)
		} else {
			flat = append(flat, a)
		}
	}

	seen := make(map[int32]bool, len(flat))
	var out []*Expression
	for _, a := range flat {
		if a == annihilator {
			return annihilator
		}
		if a == identity {
			continue
		}
		if seen[a.id] {
			continue
		}
		seen[a.id] = true
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })

	switch len(out) {
	case 0:
		return identity
	case 1:
		return out[0]
	}
	key := compoundKey{kind: kind, ids: packIDs(out)}
	if e, ok := s.compound[key]; ok {
		return e
	}
	var nullable bool
	if kind == KindOr {
		nullable = false
		for _, a := range out {
			nullable = nullable || a.nullable
		}
	} else {
		nullable = true
		for _, a := range out {
			nullable = nullable && a.nullable
		}
	}
	e := s.alloc(kind, 0, out, nullable)
	s.compound[key] = e
	return e
}

// ---- Star ----

// Star builds the Kleene closure of r, collapsing (r*)*=r* and ε*=∅*=ε.
func (s *Store) Star(r *Expression) *Expression {
	if r.kind == KindStar {
		return r
	}
	if r.kind == KindEmptyString || r.kind == KindEmptySet {
		return s.EmptyString()
	}
	key := compoundKey{kind: KindStar, ids: packIDs([]*Expression{r})}
	if e, ok := s.compound[key]; ok {
		return e
	}
	e := s.alloc(KindStar, 0, []*Expression{r}, true)
	s.compound[key] = e
	return e
}

// ---- Not ----

// Not builds the complement of r, collapsing ¬¬r=r.
func (s *Store) Not(r *Expression) *Expression {
	if r.kind == KindNot {
		return r.args[0]
	}
	key := compoundKey{kind: KindNot, ids: packIDs([]*Expression{r})}
	if e, ok := s.compound[key]; ok {
		return e
	}
	e := s.alloc(KindNot, 0, []*Expression{r}, !r.nullable)
	s.compound[key] = e
	return e
}

// computeMap builds e's partitioned derivative from its sub-terms' maps.
// Called once per node, from Expression.DerivationMap. Recursion here
// only ever descends into
// sub-terms (for Concat, into the interned concatenation of the operand
// tail, which has strictly fewer operands), so it terminates even though
// the successors it constructs may include e itself.
func (s *Store) computeMap(e *Expression) *DerivationMap {
	switch e.kind {
	case KindEmptySet:
		return &DerivationMap{Default: e}
	case KindEmptyString:
		return &DerivationMap{Default: s.EmptySet()}
	case KindAny:
		return &DerivationMap{Default: s.EmptyString()}
	case KindSymbol:
		return &DerivationMap{
			Classes: []ClassEntry{{Successor: s.EmptyString(), Chars: charset.One(e.sym)}},
			Default: s.EmptySet(),
		}
	case KindConcat:
		// Folding right to left against the already-flattened, already-
		// interned operand tail keeps the map independent of how the n-ary
		// node was originally assembled, matching the three-level-rotation
		// associativity the normalization law requires.
		head, tail := e.args[0], s.Concat(e.args[1:]...)
		return s.concatBinaryMap(head, tail)
	case KindOr, KindAnd:
		combine := func(a, b *Expression) *Expression {
			if e.kind == KindOr {
				return s.Or(a, b)
			}
			return s.And(a, b)
		}
		acc := e.args[0].DerivationMap()
		for _, next := range e.args[1:] {
			acc = combineMaps(s, e.kind, acc, next.DerivationMap(), false, combine)
		}
		return acc
	case KindStar:
		rm := e.args[0].DerivationMap()
		classes := make([]ClassEntry, len(rm.Classes))
		for i, cl := range rm.Classes {
			classes[i] = ClassEntry{Successor: s.Concat(cl.Successor, e), Chars: cl.Chars}
		}
		return &DerivationMap{Classes: classes, Default: s.Concat(rm.Default, e)}
	case KindNot:
		rm := e.args[0].DerivationMap()
		classes := make([]ClassEntry, len(rm.Classes))
		for i, cl := range rm.Classes {
			classes[i] = ClassEntry{Successor: s.Not(cl.Successor), Chars: cl.Chars}
		}
		return &DerivationMap{Classes: classes, Default: s.Not(rm.Default)}
	default:
		panic("expr: unknown kind")
	}
}

// concatBinaryMap builds the derivation map of Concat(head, tail) from
// head's and tail's own maps. d(head·tail, c) = d(head,c)·tail ∨ d(tail,c),
// the second disjunct applying only when head is nullable. When it is not,
// the map is simply head's own map with every successor wrapped as "·tail"
// — no refinement by tail's partition is needed, and skipping it avoids
// fragmenting the partition along boundaries that can't affect the result.
func (s *Store) concatBinaryMap(head, tail *Expression) *DerivationMap {
	hm := head.DerivationMap()
	if !head.nullable {
		classes := make([]ClassEntry, len(hm.Classes))
		for i, cl := range hm.Classes {
			classes[i] = ClassEntry{Successor: s.Concat(cl.Successor, tail), Chars: cl.Chars}
		}
		return &DerivationMap{Classes: classes, Default: s.Concat(hm.Default, tail)}
	}
	combine := func(a, b *Expression) *Expression {
		return s.Or(s.Concat(a, tail), b)
	}
	return combineMaps(s, KindConcat, hm, tail.DerivationMap(), true, combine)
}

// Derive computes the single-character Brzozowski derivative of r with
// respect to c directly from the structural equations, independent of
// DerivationMap — the two are required to agree, and are implemented
// independently so that the agreement tests check something real rather
// than a tautology.
func (s *Store) Derive(r *Expression, c byte) *Expression {
	switch r.kind {
	case KindEmptySet, KindEmptyString:
		return s.EmptySet()
	case KindAny:
		return s.EmptyString()
	case KindSymbol:
		if r.sym == c {
			return s.EmptyString()
		}
		return s.EmptySet()
	case KindConcat:
		ops := r.args
		head, rest := ops[0], ops[1:]
		restExpr := s.Concat(rest...)
		term := s.Concat(s.Derive(head, c), restExpr)
		if head.nullable {
			return s.Or(term, s.Derive(restExpr, c))
		}
		return term
	case KindOr:
		parts := make([]*Expression, len(r.args))
		for i, a := range r.args {
			parts[i] = s.Derive(a, c)
		}
		return s.Or(parts...)
	case KindAnd:
		parts := make([]*Expression, len(r.args))
		for i, a := range r.args {
			parts[i] = s.Derive(a, c)
		}
		return s.And(parts...)
	case KindStar:
		inner := r.args[0]
		return s.Concat(s.Derive(inner, c), r)
	case KindNot:
		return s.Not(s.Derive(r.args[0], c))
	default:
		panic("expr: unknown kind")
	}
}

// combineMaps is the pairwise intersect-then-difference combinator shared
// by Concat/Or/And: classes common to both maps are intersected and
// combined; classes unique to m1 are combined with m2's default; classes
// unique to m2 are combined with m1's default (for Concat, only when
// leftNullable — otherwise those characters fall through to the joint
// default, since a non-nullable head makes the tail's partition
// irrelevant).
func combineMaps(s *Store, kind Kind, m1, m2 *DerivationMap, leftNullable bool, combine func(a, b *Expression) *Expression) *DerivationMap {
	var classes []ClassEntry
	common := charset.Empty()
	for _, a := range m1.Classes {
		for _, b := range m2.Classes {
			inter := charset.Intersect(a.Chars, b.Chars)
			if inter.IsEmpty() {
				continue
			}
			classes = append(classes, ClassEntry{Successor: combine(a.Successor, b.Successor), Chars: inter})
			common = charset.Union(common, inter)
		}
	}
	for _, a := range m1.Classes {
		rem := charset.Difference(a.Chars, common)
		if !rem.IsEmpty() {
			classes = append(classes, ClassEntry{Successor: combine(a.Successor, m2.Default), Chars: rem})
		}
	}
	if kind != KindConcat || leftNullable {
		for _, b := range m2.Classes {
			rem := charset.Difference(b.Chars, common)
			if !rem.IsEmpty() {
				classes = append(classes, ClassEntry{Successor: combine(m1.Default, b.Successor), Chars: rem})
			}
		}
	}
	return &DerivationMap{Classes: classes, Default: combine(m1.Default, m2.Default)}
}
