// Package syntax parses the POSIX-like pattern surface grammar into
// expr.Expression trees: literals, `.`, alternation, grouping, `* + ?`,
// counted repetition `{m}`/`{m,n}`/`{m,}`, bracket expressions with POSIX
// class names and backslash meta-classes, and set intersection/union via
// `{-}`/`{+}`.
//
// A plain recursive-descent parser; counted repetition desugars to
// Concat/Or expansion here, since the algebra has no counting construct.
package syntax

import (
	"fmt"

	"github.com/coregx/dscan/expr"
	"github.com/coregx/dscan/internal/charset"
)

// Parser holds the cursor over one pattern's source text.
type Parser struct {
	store   *expr.Store
	pattern string
	pos     int
}

// Parse parses pattern against store and returns the resulting expression.
// store is shared across every pattern in a vector so that structurally
// identical sub-expressions hash-cons to the same node.
func Parse(store *expr.Store, pattern string) (*expr.Expression, error) {
	p := &Parser{store: store, pattern: pattern}
	e, err := p.parseAlt()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.pattern) {
		return nil, &ParseError{Pattern: p.pattern, Pos: p.pos, Detail: fmt.Sprintf("unexpected %q", p.peek())}
	}
	return e, nil
}

func (p *Parser) peek() byte {
	if p.pos >= len(p.pattern) {
		return 0
	}
	return p.pattern[p.pos]
}

func (p *Parser) peekAt(k int) byte {
	i := p.pos + k
	if i >= len(p.pattern) {
		return 0
	}
	return p.pattern[i]
}

func (p *Parser) next() byte {
	c := p.peek()
	if c != 0 {
		p.pos++
	}
	return c
}

func (p *Parser) expect(c byte) error {
	if p.peek() != c {
		return &ParseError{Pattern: p.pattern, Pos: p.pos, Detail: fmt.Sprintf("expected %q", c)}
	}
	p.next()
	return nil
}

// parseAlt := concat ('|' concat)*
func (p *Parser) parseAlt() (*expr.Expression, error) {
	first, err := p.parseConcat()
	if err != nil {
		return nil, err
	}
	parts := []*expr.Expression{first}
	for p.peek() == '|' {
		p.next()
		next, err := p.parseConcat()
		if err != nil {
			return nil, err
		}
		parts = append(parts, next)
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	return p.store.Or(parts...), nil
}

// parseConcat := repeat*
func (p *Parser) parseConcat() (*expr.Expression, error) {
	var parts []*expr.Expression
	for {
		c := p.peek()
		if c == 0 || c == '|' || c == ')' {
			break
		}
		e, err := p.parseRepeat()
		if err != nil {
			return nil, err
		}
		parts = append(parts, e)
	}
	if len(parts) == 0 {
		return p.store.EmptyString(), nil
	}
	return p.store.Concat(parts...), nil
}

// parseRepeat := atom ( '*' | '+' | '?' | '{' m [',' [n]] '}' )*
func (p *Parser) parseRepeat() (*expr.Expression, error) {
	e, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek() {
		case '*':
			p.next()
			e = p.store.Star(e)
		case '+':
			p.next()
			e = p.store.Concat(e, p.store.Star(e))
		case '?':
			p.next()
			e = p.store.Or(e, p.store.EmptyString())
		case '{':
			if p.peekAt(1) < '0' || p.peekAt(1) > '9' {
				return e, nil
			}
			e, err = p.parseCounted(e)
			if err != nil {
				return nil, err
			}
		default:
			return e, nil
		}
	}
}

func (p *Parser) parseCounted(e *expr.Expression) (*expr.Expression, error) {
	p.next() // '{'
	m, err := p.parseInt()
	if err != nil {
		return nil, err
	}
	n := m
	explicitMax := false
	if p.peek() == ',' {
		p.next()
		if p.peek() == '}' {
			n = -1
		} else {
			n, err = p.parseInt()
			if err != nil {
				return nil, err
			}
			explicitMax = true
		}
	}
	if err := p.expect('}'); err != nil {
		return nil, err
	}
	if explicitMax && n <= m {
		return nil, &RangeError{Pattern: p.pattern, Detail: fmt.Sprintf("counted repetition {%d,%d}: max not greater than min", m, n)}
	}
	return p.buildCounted(e, m, n), nil
}

func (p *Parser) buildCounted(e *expr.Expression, m, n int) *expr.Expression {
	var parts []*expr.Expression
	for i := 0; i < m; i++ {
		parts = append(parts, e)
	}
	if n == -1 {
		parts = append(parts, p.store.Star(e))
	} else {
		opt := p.store.Or(e, p.store.EmptyString())
		for i := 0; i < n-m; i++ {
			parts = append(parts, opt)
		}
	}
	if len(parts) == 0 {
		return p.store.EmptyString()
	}
	return p.store.Concat(parts...)
}

func (p *Parser) parseInt() (int, error) {
	start := p.pos
	for p.peek() >= '0' && p.peek() <= '9' {
		p.next()
	}
	if p.pos == start {
		return 0, &ParseError{Pattern: p.pattern, Pos: p.pos, Detail: "expected digits"}
	}
	n := 0
	for i := start; i < p.pos; i++ {
		n = n*10 + int(p.pattern[i]-'0')
	}
	return n, nil
}

// parseAtom consumes one atomic unit: a group, `.`, a bracket expression
// (possibly combined with `{-}`/`{+}` operands), an escape, or a literal
// character.
func (p *Parser) parseAtom() (*expr.Expression, error) {
	switch c := p.peek(); {
	case c == 0:
		return nil, &ParseError{Pattern: p.pattern, Pos: p.pos, Detail: "unexpected end of pattern"}
	case c == '(':
		p.next()
		e, err := p.parseAlt()
		if err != nil {
			return nil, err
		}
		if err := p.expect(')'); err != nil {
			return nil, err
		}
		return e, nil
	case c == '.':
		p.next()
		return p.store.Any(), nil
	case c == '[':
		set, err := p.parseBracket()
		if err != nil {
			return nil, err
		}
		set, err = p.parseSetOps(set)
		if err != nil {
			return nil, err
		}
		return p.store.FromSet(set), nil
	case c == '\\':
		return p.parseEscapeAtom()
	default:
		p.next()
		return p.store.Symbol(c), nil
	}
}

func (p *Parser) parseEscapeAtom() (*expr.Expression, error) {
	p.next() // backslash
	c := p.next()
	if c == 0 {
		return nil, &ParseError{Pattern: p.pattern, Pos: p.pos, Detail: "dangling escape"}
	}
	if cs, ok := metaClass(c); ok {
		return p.store.FromSet(cs), nil
	}
	return p.store.Symbol(literalEscapeByte(c)), nil
}

func literalEscapeByte(c byte) byte {
	switch c {
	case 'b':
		return 0x08
	case 'f':
		return 0x0C
	case 'n':
		return 0x0A
	case 'r':
		return 0x0D
	case 't':
		return 0x09
	default:
		return c
	}
}

// parseSetOps applies zero or more trailing `{-}`/`{+}` set operations to
// set, each followed by another bracket-or-meta-class operand.
func (p *Parser) parseSetOps(set charset.Set) (charset.Set, error) {
	for {
		switch {
		case p.peek() == '{' && p.peekAt(1) == '-' && p.peekAt(2) == '}':
			p.pos += 3
			other, err := p.parseClassOperand()
			if err != nil {
				return charset.Set{}, err
			}
			set = charset.Intersect(set, other)
		case p.peek() == '{' && p.peekAt(1) == '+' && p.peekAt(2) == '}':
			p.pos += 3
			other, err := p.parseClassOperand()
			if err != nil {
				return charset.Set{}, err
			}
			set = charset.Union(set, other)
		default:
			return set, nil
		}
	}
}

func (p *Parser) parseClassOperand() (charset.Set, error) {
	switch {
	case p.peek() == '[':
		return p.parseBracket()
	case p.peek() == '\\':
		p.next()
		c := p.next()
		if cs, ok := metaClass(c); ok {
			return cs, nil
		}
		return charset.One(literalEscapeByte(c)), nil
	default:
		return charset.Set{}, &ParseError{Pattern: p.pattern, Pos: p.pos, Detail: "expected a character set after {-} or {+}"}
	}
}

// parseBracket parses a `[...]` or `[^...]` bracket expression into a
// charset.Set: individual characters, `a-z` ranges, `[:name:]` POSIX
// classes, and `\w \d \D \s \S \a \x` meta-classes may all appear inside.
func (p *Parser) parseBracket() (charset.Set, error) {
	if err := p.expect('['); err != nil {
		return charset.Set{}, err
	}
	neg := false
	if p.peek() == '^' {
		neg = true
		p.next()
	}
	set := charset.Empty()
	first := true
	for {
		if p.peek() == 0 {
			return charset.Set{}, &ParseError{Pattern: p.pattern, Pos: p.pos, Detail: "unterminated bracket expression"}
		}
		if p.peek() == ']' && !first {
			p.next()
			break
		}
		first = false

		if p.peek() == '[' && p.peekAt(1) == ':' {
			name, err := p.parsePosixClassName()
			if err != nil {
				return charset.Set{}, err
			}
			cs, ok := posixClass(name)
			if !ok {
				return charset.Set{}, &ParseError{Pattern: p.pattern, Pos: p.pos, Detail: fmt.Sprintf("unknown class [:%s:]", name)}
			}
			set = charset.Union(set, cs)
			continue
		}

		var lo byte
		if p.peek() == '\\' {
			p.next()
			c := p.next()
			if cs, ok := metaClass(c); ok {
				set = charset.Union(set, cs)
				continue
			}
			lo = literalEscapeByte(c)
		} else {
			lo = p.next()
		}

		if p.peek() == '-' && p.peekAt(1) != ']' && p.peekAt(1) != 0 {
			p.next() // '-'
			hi, err := p.parseBracketRangeEnd()
			if err != nil {
				return charset.Set{}, err
			}
			if hi < lo {
				return charset.Set{}, &RangeError{Pattern: p.pattern, Detail: fmt.Sprintf("range %c-%c has max less than min", lo, hi)}
			}
			set = charset.Union(set, charset.FromRange(lo, hi))
			continue
		}
		set = charset.Union(set, charset.One(lo))
	}
	if neg {
		set = charset.Negate(set)
	}
	return set, nil
}

// parseBracketRangeEnd parses the upper endpoint of an `a-z` range. A
// meta-class escape here is not a literal symbol, so it is rejected.
func (p *Parser) parseBracketRangeEnd() (byte, error) {
	if p.peek() == '\\' {
		p.next()
		c := p.next()
		if _, ok := metaClass(c); ok {
			return 0, &RangeError{Pattern: p.pattern, Detail: "range endpoint must be a literal symbol"}
		}
		return literalEscapeByte(c), nil
	}
	if p.peek() == 0 {
		return 0, &ParseError{Pattern: p.pattern, Pos: p.pos, Detail: "unterminated bracket expression"}
	}
	return p.next(), nil
}

func (p *Parser) parsePosixClassName() (string, error) {
	p.next() // '['
	p.next() // ':'
	start := p.pos
	for p.peek() != ':' && p.peek() != 0 {
		p.next()
	}
	name := p.pattern[start:p.pos]
	if p.peek() != ':' {
		return "", &ParseError{Pattern: p.pattern, Pos: p.pos, Detail: "unterminated POSIX class"}
	}
	p.next() // ':'
	if p.peek() != ']' {
		return "", &ParseError{Pattern: p.pattern, Pos: p.pos, Detail: "malformed POSIX class"}
	}
	p.next() // ']'
	return name, nil
}
