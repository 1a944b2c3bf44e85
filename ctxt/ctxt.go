// Package ctxt wires the regex parser, the expression algebra, the DFA
// compiler, and the pattern index together into a single reusable,
// serializable bundle: a ScannerCtxt.
package ctxt

import (
	"log/slog"

	"github.com/coregx/dscan/automaton"
	"github.com/coregx/dscan/expr"
	"github.com/coregx/dscan/literal"
	"github.com/coregx/dscan/pattern"
	"github.com/coregx/dscan/prefilter"
	"github.com/coregx/dscan/scanner"
	"github.com/coregx/dscan/syntax"
)

// Source is one pattern entry ready for compilation: boundary/regex
// expansion has already happened and ID.Minor has already been assigned
// by the caller (the patternfile loader, or a test).
type Source struct {
	ID     pattern.ID
	Name   string
	Regex  string
	Ignore bool
}

// ScannerCtxt pairs a compiled Automaton with its state→pattern Index.
// Immutable once built; share one across as many Scanner instances as
// needed (scanner.New is cheap, automaton.Automaton is safe to read
// concurrently).
type ScannerCtxt struct {
	auto  *automaton.Automaton
	index pattern.Index
	store *expr.Store
	pf    *prefilter.Prefilter // nil when no sound literal prefilter exists
}

// Config controls context construction.
type Config struct {
	// Logger receives one Error record per pattern that fails to parse.
	// Default: nil (no logging)
	Logger *slog.Logger
}

// Option configures a Build call.
type Option func(*Config)

// WithLogger sets the logger used during Build for per-pattern parse
// failures.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// Build parses every source, drops (and logs) the ones that fail to parse,
// compiles the surviving patterns into a single DFA, and returns the
// resulting context. A Source list with nothing that survives parsing (or
// an empty list to begin with) yields an empty context: a single,
// non-accepting, final start state, so every scanner built from it reports
// zero matches for any input.
func Build(sources []Source, opts ...Option) *ScannerCtxt {
	cfg := Config{}
	for _, opt := range opts {
		opt(&cfg)
	}

	store := expr.NewStore()
	var patterns []pattern.Pattern
	var exprs []*expr.Expression

	for _, src := range sources {
		e, err := syntax.Parse(store, src.Regex)
		if err != nil {
			if cfg.Logger != nil {
				cfg.Logger.Error("dscan: dropping pattern with malformed regex",
					"id", src.ID.String(), "name", src.Name, "regex", src.Regex, "err", err)
			}
			continue
		}
		patterns = append(patterns, pattern.Pattern{
			ID:     src.ID,
			Name:   src.Name,
			Source: src.Regex,
			Ignore: src.Ignore,
		})
		exprs = append(exprs, e)
	}

	vector := expr.NewVector(exprs)
	builder := pattern.NewBuilder(patterns)
	compiler := automaton.NewCompiler(builder.Notify)
	auto := compiler.Compile(vector)

	var pf *prefilter.Prefilter
	if lits, ok := literal.ExtractVectorPrefixes(exprs); ok {
		pf, _ = prefilter.Build(lits)
	}

	return &ScannerCtxt{auto: auto, index: builder.Index(), store: store, pf: pf}
}

// Automaton returns the compiled DFA.
func (c *ScannerCtxt) Automaton() *automaton.Automaton { return c.auto }

// Index returns the state→pattern index.
func (c *ScannerCtxt) Index() pattern.Index { return c.index }

// FromParts assembles a ScannerCtxt directly from an already-compiled
// automaton and index, bypassing Build's parse/compile pipeline. Exported
// for the serialize package, which reconstructs a context from a
// deserialized wire format: the expression Store that produced the
// original automaton is not part of the serialized blob — the scanner
// never touches the algebra once compilation has happened — and
// a context built this way never has a prefilter, since the required
// literals were never serialized either — round-trip equivalence only
// requires the same matches, and the prefilter is solely a pre-scan
// accelerator (see ScanAll), never a source of matches on its own.
func FromParts(auto *automaton.Automaton, index pattern.Index) *ScannerCtxt {
	return &ScannerCtxt{auto: auto, index: index}
}

// NewScanner creates a Scanner bound to this context.
func (c *ScannerCtxt) NewScanner(cfg scanner.Config) *scanner.Scanner {
	return scanner.New(c.auto, c.index, cfg)
}

// HasPrefilter reports whether Build found a sound required-literal prefix
// for every pattern, making the literal prefilter available to ScanAll.
func (c *ScannerCtxt) HasPrefilter() bool { return c.pf != nil }

// ScanAll drives a fresh Scanner over the whole of data and returns every
// match, completing the scanner at the end. When the context has a sound
// literal prefilter, idle stretches of input (the scanner sitting at the
// start state with nothing buffered) are skipped directly to the next
// position some pattern's literal could begin — a pre-scan accelerator,
// never a change to which matches are found, since a skip is only taken
// while the scanner is Idle and the prefilter's literals are each a
// genuine requirement of their pattern.
func (c *ScannerCtxt) ScanAll(data []byte, cfg scanner.Config) []scanner.Match {
	sc := c.NewScanner(cfg)
	var out []scanner.Match
	if c.pf == nil {
		for _, b := range data {
			out = append(out, sc.Update(b)...)
		}
		return append(out, sc.Complete()...)
	}
	// Skipped bytes never reach the scanner, so its positions are shifted
	// by the number skipped so far to stay absolute offsets into data.
	skipped := 0
	shift := func(ms []scanner.Match) []scanner.Match {
		for j := range ms {
			ms[j].Pos += skipped
		}
		return ms
	}
	for i := 0; i < len(data); {
		if sc.Idle() {
			if next := c.pf.NextCandidate(data, i); next > i {
				skipped += next - i
				i = next
				continue
			}
		}
		out = append(out, shift(sc.Update(data[i]))...)
		i++
	}
	return append(out, shift(sc.Complete())...)
}
