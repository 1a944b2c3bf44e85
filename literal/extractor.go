package literal

import "github.com/coregx/dscan/expr"

// ExtractPrefix returns the literal run of Symbol nodes that e's matches
// are required to begin with, and whether that run is complete (consumes e
// entirely, so the literal alone is sufficient evidence of a match) or
// merely a necessary prefix (e continues with something other than a bare
// symbol, e.g. a class, a Star, an alternation).
//
// A Concat chain of Symbol nodes is a literal run; anything else (a
// class, Or, Star, Not, Any) truncates it.
func ExtractPrefix(e *expr.Expression) (Literal, bool) {
	switch e.Kind() {
	case expr.KindSymbol:
		return NewLiteral([]byte{e.Sym()}, true), true
	case expr.KindConcat:
		args := e.Args()
		var buf []byte
		for _, a := range args {
			if a.Kind() != expr.KindSymbol {
				break
			}
			buf = append(buf, a.Sym())
		}
		if len(buf) == 0 {
			return Literal{}, false
		}
		return NewLiteral(buf, len(buf) == len(args)), true
	default:
		return Literal{}, false
	}
}

// ExtractVectorPrefixes extracts one required-prefix Literal per coordinate
// of exprs, in order. It returns ok=false if any coordinate yields no
// literal at all: a prefilter is only sound when every pattern in the
// vector contributes a required prefix, since a pattern with none could
// start a match at a position the prefilter would otherwise skip.
func ExtractVectorPrefixes(exprs []*expr.Expression) ([]Literal, bool) {
	out := make([]Literal, len(exprs))
	for i, e := range exprs {
		lit, ok := ExtractPrefix(e)
		if !ok {
			return nil, false
		}
		out[i] = lit
	}
	return out, true
}
