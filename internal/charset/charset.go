// Package charset provides an interval-based character set used by the
// expression algebra's partitioned derivatives.
//
// A Set is a sorted, merged list of inclusive byte ranges. Representing
// classes as ranges rather than per-byte bitsets keeps wide classes (entire
// [:print:] spans, negated classes) cheap to build, union, intersect and
// diff — all of which reduce to a single merge pass over two sorted range
// lists.
package charset

import "sort"

// Range is an inclusive byte range [Lo, Hi].
type Range struct {
	Lo, Hi byte
}

// Set is an immutable-by-convention sorted list of disjoint, non-adjacent
// ranges. Sets are only produced by the constructors below (FromRanges
// normalizes its input) and by the Union/Intersect/Difference/Negate
// operations, which always return normalized sets.
type Set struct {
	ranges []Range
}

// Empty returns the empty set.
func Empty() Set { return Set{} }

// Full returns the set containing every byte value.
func Full() Set { return Set{ranges: []Range{{0, 0xFF}}} }

// One returns the singleton set containing only b.
func One(b byte) Set { return Set{ranges: []Range{{b, b}}} }

// FromRange returns the set containing [lo, hi]. Panics if hi < lo.
func FromRange(lo, hi byte) Set {
	if hi < lo {
		panic("charset: invalid range")
	}
	return Set{ranges: []Range{{lo, hi}}}
}

// FromRanges rebuilds a Set from a slice of ranges, normalizing (sorting
// and merging) them. Used by the serialize package to reconstruct a Set
// from its wire representation without exposing the ranges field itself.
func FromRanges(rs []Range) Set {
	cp := make([]Range, len(rs))
	copy(cp, rs)
	return Set{ranges: normalize(cp)}
}

// IsEmpty reports whether the set has no members.
func (s Set) IsEmpty() bool { return len(s.ranges) == 0 }

// Ranges returns the set's sorted, disjoint ranges. The caller must not
// mutate the returned slice.
func (s Set) Ranges() []Range { return s.ranges }

// Contains reports whether b is a member of s.
func (s Set) Contains(b byte) bool {
	ranges := s.ranges
	lo, hi := 0, len(ranges)
	for lo < hi {
		mid := (lo + hi) / 2
		r := ranges[mid]
		switch {
		case b < r.Lo:
			hi = mid
		case b > r.Hi:
			lo = mid + 1
		default:
			return true
		}
	}
	return false
}

// normalize sorts ranges by Lo and merges overlapping or adjacent ranges.
func normalize(rs []Range) []Range {
	if len(rs) < 2 {
		return rs
	}
	sort.Slice(rs, func(i, j int) bool { return rs[i].Lo < rs[j].Lo })
	out := rs[:1]
	for _, r := range rs[1:] {
		last := &out[len(out)-1]
		if r.Lo <= last.Hi || (last.Hi != 0xFF && r.Lo == last.Hi+1) {
			if r.Hi > last.Hi {
				last.Hi = r.Hi
			}
			continue
		}
		out = append(out, r)
	}
	return out
}

// Union returns the set of bytes in s or t.
func Union(s, t Set) Set {
	merged := make([]Range, 0, len(s.ranges)+len(t.ranges))
	merged = append(merged, s.ranges...)
	merged = append(merged, t.ranges...)
	return Set{ranges: normalize(merged)}
}

// Intersect returns the set of bytes in both s and t.
func Intersect(s, t Set) Set {
	var out []Range
	i, j := 0, 0
	for i < len(s.ranges) && j < len(t.ranges) {
		a, b := s.ranges[i], t.ranges[j]
		lo := a.Lo
		if b.Lo > lo {
			lo = b.Lo
		}
		hi := a.Hi
		if b.Hi < hi {
			hi = b.Hi
		}
		if lo <= hi {
			out = append(out, Range{lo, hi})
		}
		if a.Hi < b.Hi {
			i++
		} else {
			j++
		}
	}
	return Set{ranges: out}
}

// Difference returns the set of bytes in s but not in t.
func Difference(s, t Set) Set {
	if t.IsEmpty() {
		return s
	}
	var out []Range
	for _, a := range s.ranges {
		// lo and hi are tracked as ints, one past byte range, so that a
		// subtracted range reaching all the way to 0xFF can be represented
		// as lo==256 ("nothing left") without colliding with the real byte
		// value 0xFF.
		lo, hi := int(a.Lo), int(a.Hi)
		for _, b := range t.ranges {
			if int(b.Hi) < lo || int(b.Lo) > hi {
				continue
			}
			if int(b.Lo) > lo {
				out = append(out, Range{byte(lo), byte(int(b.Lo) - 1)})
			}
			next := int(b.Hi) + 1
			if next > lo {
				lo = next
			}
			if lo > hi {
				break
			}
		}
		if lo <= hi {
			out = append(out, Range{byte(lo), byte(hi)})
		}
	}
	return Set{ranges: normalize(out)}
}

// Negate returns the complement of s within the full byte alphabet.
func Negate(s Set) Set {
	return Difference(Full(), s)
}

// Equal reports whether s and t contain the same bytes.
func Equal(s, t Set) bool {
	if len(s.ranges) != len(t.ranges) {
		return false
	}
	for i := range s.ranges {
		if s.ranges[i] != t.ranges[i] {
			return false
		}
	}
	return true
}
