package syntax_test

import (
	"testing"

	"github.com/coregx/dscan/expr"
	"github.com/coregx/dscan/syntax"
)

func mustParse(t *testing.T, store *expr.Store, pattern string) *expr.Expression {
	t.Helper()
	e, err := syntax.Parse(store, pattern)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", pattern, err)
	}
	return e
}

func directMatches(s *expr.Store, r *expr.Expression, w string) bool {
	for i := 0; i < len(w); i++ {
		r = s.Derive(r, w[i])
	}
	return r.Nullable()
}

func TestParseLiteral(t *testing.T) {
	s := expr.NewStore()
	e := mustParse(t, s, "abc")
	if !directMatches(s, e, "abc") {
		t.Error("expected literal 'abc' to match 'abc'")
	}
	if directMatches(s, e, "abcd") {
		t.Error("did not expect 'abc' to match 'abcd'")
	}
}

func TestParseAlternationAndStar(t *testing.T) {
	s := expr.NewStore()
	e := mustParse(t, s, "(a|b)*c")
	for _, w := range []string{"c", "ac", "bc", "abababc"} {
		if !directMatches(s, e, w) {
			t.Errorf("expected (a|b)*c to match %q", w)
		}
	}
	if directMatches(s, e, "abab") {
		t.Error("did not expect (a|b)*c to match 'abab'")
	}
}

func TestParseCountedRepetition(t *testing.T) {
	s := expr.NewStore()
	e := mustParse(t, s, `[[:digit:]]{3}`)
	if !directMatches(s, e, "123") {
		t.Error("expected digit{3} to match '123'")
	}
	if directMatches(s, e, "12") || directMatches(s, e, "1234") {
		t.Error("expected digit{3} to reject wrong-length input")
	}
}

func TestParseCountedRange(t *testing.T) {
	s := expr.NewStore()
	e := mustParse(t, s, `a{2,4}`)
	for _, w := range []string{"aa", "aaa", "aaaa"} {
		if !directMatches(s, e, w) {
			t.Errorf("expected a{2,4} to match %q", w)
		}
	}
	for _, w := range []string{"a", "aaaaa"} {
		if directMatches(s, e, w) {
			t.Errorf("did not expect a{2,4} to match %q", w)
		}
	}
}

func TestParseCountedOpenEnded(t *testing.T) {
	s := expr.NewStore()
	e := mustParse(t, s, `a{2,}`)
	if directMatches(s, e, "a") {
		t.Error("did not expect a{2,} to match 'a'")
	}
	if !directMatches(s, e, "aaaaaa") {
		t.Error("expected a{2,} to match 'aaaaaa'")
	}
}

func TestParseBracketNegationAndRange(t *testing.T) {
	s := expr.NewStore()
	e := mustParse(t, s, `1[^13]`)
	if !directMatches(s, e, "12") {
		t.Error("expected 1[^13] to match '12'")
	}
	if directMatches(s, e, "11") || directMatches(s, e, "13") {
		t.Error("did not expect 1[^13] to match '11' or '13'")
	}
}

func TestParseSetIntersectionAndUnion(t *testing.T) {
	s := expr.NewStore()
	// [[:alpha:]]{-}[a-m] is letters a-m only.
	e := mustParse(t, s, `[[:alpha:]]{-}[a-m]`)
	if !directMatches(s, e, "c") {
		t.Error("expected the intersection to match 'c'")
	}
	if directMatches(s, e, "x") {
		t.Error("did not expect the intersection to match 'x'")
	}

	// [a-c]{+}[x-z] is letters a-c and x-z.
	u := mustParse(t, s, `[a-c]{+}[x-z]`)
	if !directMatches(s, u, "b") || !directMatches(s, u, "y") {
		t.Error("expected the union to match 'b' and 'y'")
	}
	if directMatches(s, u, "m") {
		t.Error("did not expect the union to match 'm'")
	}
}

func TestParseInvalidCountedRangeIsRangeError(t *testing.T) {
	s := expr.NewStore()
	_, err := syntax.Parse(s, `a{4,2}`)
	if err == nil {
		t.Fatal("expected a RangeError for max < min")
	}
	if _, ok := err.(*syntax.RangeError); !ok {
		t.Fatalf("expected *syntax.RangeError, got %T", err)
	}
}

func TestParseMalformedPatternIsParseError(t *testing.T) {
	s := expr.NewStore()
	_, err := syntax.Parse(s, `(abc`)
	if err == nil {
		t.Fatal("expected a parse error for an unterminated group")
	}
	if _, ok := err.(*syntax.ParseError); !ok {
		t.Fatalf("expected *syntax.ParseError, got %T", err)
	}
}

func TestParseAnyAndEscapes(t *testing.T) {
	s := expr.NewStore()
	e := mustParse(t, s, `a.c\t`)
	if !directMatches(s, e, "aXc\t") {
		t.Error("expected a.c\\t to match 'aXc<tab>'")
	}
}
