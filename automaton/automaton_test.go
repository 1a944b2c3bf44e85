package automaton_test

import (
	"testing"

	"github.com/coregx/dscan/automaton"
	"github.com/coregx/dscan/expr"
)

// directMatch computes membership by repeated single-character derivation,
// independent of the compiled automaton, so comparing the two checks the
// compiler against the algebra rather than against itself.
func directMatch(s *expr.Store, r *expr.Expression, w string) bool {
	for i := 0; i < len(w); i++ {
		r = s.Derive(r, w[i])
	}
	return r.Nullable()
}

func compile(s *expr.Store, exprs ...*expr.Expression) *automaton.Automaton {
	c := automaton.NewCompiler(nil)
	return c.Compile(expr.NewVector(exprs))
}

func TestDFAEquivalence(t *testing.T) {
	s := expr.NewStore()
	a, b := s.Symbol('a'), s.Symbol('b')
	r := s.Concat(s.Star(a), b) // a*b

	auto := compile(s, r)
	words := []string{"", "b", "ab", "aab", "aaab", "a", "ba", "abb"}
	for _, w := range words {
		got := auto.Matches([]byte(w))
		want := directMatch(s, r, w)
		if got != want {
			t.Errorf("Matches(%q) = %v, want %v", w, got, want)
		}
	}
}

func TestDFAEquivalenceWithIntersectionAndComplement(t *testing.T) {
	s := expr.NewStore()
	a, b := s.Symbol('a'), s.Symbol('b')
	// (a|b)* ∧ ¬(a·a·a·(a|b)*)  -- no three leading a's
	r := s.And(s.Star(s.Or(a, b)), s.Not(s.Concat(a, a, a, s.Star(s.Or(a, b)))))

	auto := compile(s, r)
	words := []string{"", "a", "aa", "aaa", "aaab", "ab", "ba", "aabaaa"}
	for _, w := range words {
		got := auto.Matches([]byte(w))
		want := directMatch(s, r, w)
		if got != want {
			t.Errorf("Matches(%q) = %v, want %v", w, got, want)
		}
	}
}

func TestCompilerIsFinite(t *testing.T) {
	s := expr.NewStore()
	a, b, c := s.Symbol('a'), s.Symbol('b'), s.Symbol('c')
	r := s.Concat(s.Star(s.Or(a, b)), c, s.Star(a))
	auto := compile(s, r)
	if auto.NumStates() == 0 {
		t.Fatal("expected at least a start state")
	}
	if auto.NumStates() > 64 {
		t.Fatalf("unexpectedly large state space: %d states", auto.NumStates())
	}
}

func TestNotifyFiresOncePerStateInCreationOrder(t *testing.T) {
	s := expr.NewStore()
	a := s.Symbol('a')
	r := s.Star(a)

	var seen []automaton.StateID
	c := automaton.NewCompiler(func(st *automaton.State, _ expr.Vector) {
		seen = append(seen, st.ID())
	})
	c.Compile(expr.NewVector([]*expr.Expression{r}))

	for i, id := range seen {
		if int(id) != i {
			t.Fatalf("notify order %v did not match creation order (state %d seen at position %d)", seen, id, i)
		}
	}
}

func TestStatsCountAcceptingAndFinalStates(t *testing.T) {
	s := expr.NewStore()
	a := s.Symbol('a')
	auto := compile(s, a)
	stats := auto.Stats()
	if stats.TotalStates == 0 {
		t.Fatal("expected at least one state")
	}
	if stats.AcceptingStates == 0 {
		t.Fatal("expected the state reached after consuming 'a' to be accepting")
	}
	if stats.FinalStates == 0 {
		t.Fatal("expected the empty-set sink state to be final")
	}
}
