// Package patternfile reads an XML pattern-definition file into the
// ctxt.Source list a ScannerCtxt is built from: a single Load entry
// point taking an io.Reader, returning a typed error on any schema
// violation.
package patternfile

import (
	"encoding/xml"
	"io"
	"strconv"

	"github.com/coregx/dscan/ctxt"
	"github.com/coregx/dscan/pattern"
)

type document struct {
	XMLName  xml.Name     `xml:"Patterns"`
	Patterns []xmlPattern `xml:"Pattern"`
}

type xmlPattern struct {
	ID         string        `xml:"Id"`
	Name       string        `xml:"Name"`
	Boundaries []xmlBoundary `xml:"Boundary"`
	RegEx      []string      `xml:"RegEx"`
	Ignore     string        `xml:"Ignore"`
	Disabled   string        `xml:"Disabled"`
}

type xmlBoundary struct {
	Prefix string `xml:"Prefix"`
	Suffix string `xml:"Suffix"`
}

// Load parses a pattern-definition document from r, expands each Pattern
// element's boundary × regex cross product into concrete pattern strings
// in document order, and returns one ctxt.Source per expansion ready for
// ctxt.Build. Disabled patterns are dropped before minor-numbering, so
// minors are always dense per surviving major id starting at 0.
//
// A malformed document (not well-formed XML, a non-integer Id, or a
// Pattern with no RegEx at all) is a *PatternFileFormatError and aborts
// the whole load — the loader never returns a partial []ctxt.Source.
func Load(r io.Reader) ([]ctxt.Source, error) {
	var doc document
	dec := xml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, &PatternFileFormatError{Detail: "malformed XML", Cause: err}
	}

	var sources []ctxt.Source
	for _, p := range doc.Patterns {
		if p.Disabled == "true" {
			continue
		}
		major, err := strconv.Atoi(p.ID)
		if err != nil {
			return nil, &PatternFileFormatError{Pattern: p.Name, Detail: "Id is not an integer: " + p.ID}
		}
		if len(p.RegEx) == 0 {
			return nil, &PatternFileFormatError{Pattern: p.Name, Detail: "no RegEx elements present"}
		}

		ignore := p.Ignore == "true"
		minor := 0
		expand := func(regex string) {
			sources = append(sources, ctxt.Source{
				ID:     pattern.ID{Major: major, Minor: minor},
				Name:   p.Name,
				Regex:  regex,
				Ignore: ignore,
			})
			minor++
		}

		if len(p.Boundaries) == 0 {
			for _, re := range p.RegEx {
				expand(re)
			}
			continue
		}
		for _, b := range p.Boundaries {
			for _, re := range p.RegEx {
				expand(b.Prefix + re + b.Suffix)
			}
		}
	}
	return sources, nil
}
