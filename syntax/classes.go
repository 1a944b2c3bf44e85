package syntax

import "github.com/coregx/dscan/internal/charset"

// Named character classes, built once and reused by every parse. Byte-range
// only: the engine's alphabet is bytes, so codepoints above 0x7F are out
// of scope.
var (
	classAlnum  = charset.Union(classAlpha0(), classDigit0())
	classAlpha  = classAlpha0()
	classWord   = charset.Union(classAlnum, charset.One('_'))
	classBlank  = charset.Union(charset.One(' '), charset.One('\t'))
	classCntrl  = charset.Union(charset.FromRange(0x00, 0x1F), charset.One(0x7F))
	classDigit  = classDigit0()
	classGraph  = charset.FromRange(0x21, 0x7E)
	classLower  = charset.FromRange('a', 'z')
	classPrint  = charset.FromRange(0x20, 0x7E)
	classPunct  = classPunct0()
	classSpace  = classSpace0()
	classUpper  = charset.FromRange('A', 'Z')
	classXDigit = charset.Union(charset.FromRange('0', '9'),
		charset.Union(charset.FromRange('a', 'f'), charset.FromRange('A', 'F')))
)

func classAlpha0() charset.Set {
	return charset.Union(charset.FromRange('a', 'z'), charset.FromRange('A', 'Z'))
}

func classDigit0() charset.Set { return charset.FromRange('0', '9') }

func classSpace0() charset.Set {
	s := charset.One(' ')
	for _, c := range []byte{'\t', '\n', '\v', '\f', '\r'} {
		s = charset.Union(s, charset.One(c))
	}
	return s
}

func classPunct0() charset.Set {
	s := charset.Empty()
	for c := byte(0x21); c <= 0x7E; c++ {
		if charset.FromRange('a', 'z').Contains(c) || charset.FromRange('A', 'Z').Contains(c) || charset.FromRange('0', '9').Contains(c) {
			continue
		}
		s = charset.Union(s, charset.One(c))
	}
	return s
}

// posixClass resolves a `[:name:]` bracket-class name.
func posixClass(name string) (charset.Set, bool) {
	switch name {
	case "alnum":
		return classAlnum, true
	case "word":
		return classWord, true
	case "alpha":
		return classAlpha, true
	case "blank":
		return classBlank, true
	case "cntrl":
		return classCntrl, true
	case "digit":
		return classDigit, true
	case "graph":
		return classGraph, true
	case "lower":
		return classLower, true
	case "print":
		return classPrint, true
	case "punct":
		return classPunct, true
	case "space":
		return classSpace, true
	case "upper":
		return classUpper, true
	case "xdigit":
		return classXDigit, true
	}
	return charset.Set{}, false
}

// metaClass resolves a standalone `\x` meta-escape (distinct from the
// literal control-character escapes `\b \f \n \r \t`) to a named class.
func metaClass(c byte) (charset.Set, bool) {
	switch c {
	case 'w':
		return classWord, true
	case 'd':
		return classDigit, true
	case 'D':
		return charset.Negate(classDigit), true
	case 'a':
		return classAlpha, true
	case 's':
		return classSpace, true
	case 'S':
		return charset.Negate(classSpace), true
	case 'x':
		return classXDigit, true
	}
	return charset.Set{}, false
}
