// Command dscan streams an input file through a compiled dscan context and
// prints every match's id, name, offset, and literal text.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/coregx/dscan/ctxt"
	"github.com/coregx/dscan/pattern"
	"github.com/coregx/dscan/patternfile"
	"github.com/coregx/dscan/scanner"
)

func main() {
	inputPath := flag.String("input", "", "path to the input file to scan (required)")
	patternsPath := flag.String("patterns", "", "path to an XML pattern-definition file (optional; a small built-in demo set is used when omitted)")
	strict := flag.Bool("strict", false, "print InvalidStateError diagnostics to stderr instead of only logging them")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	if *inputPath == "" {
		fmt.Fprintln(os.Stderr, "dscan: -input is required")
		flag.Usage()
		os.Exit(2)
	}

	data, err := os.ReadFile(*inputPath)
	if err != nil {
		logger.Error("dscan: failed to read input file", "path", *inputPath, "err", err)
		os.Exit(1)
	}

	sources, err := loadSources(*patternsPath, logger)
	if err != nil {
		logger.Error("dscan: failed to load patterns", "path", *patternsPath, "err", err)
		os.Exit(1)
	}

	c := ctxt.Build(sources, ctxt.WithLogger(logger))
	sc := c.NewScanner(scanner.Config{Logger: logger})

	var matches []scanner.Match
	matches = append(matches, sc.UpdateString(string(data))...)
	matches = append(matches, sc.Complete()...)

	for _, m := range matches {
		fmt.Printf("%s\t%s\t%d\t%q\n", m.ID, m.Name, m.Pos, m.Text)
	}

	if *strict {
		for _, d := range sc.Diagnostics() {
			fmt.Fprintln(os.Stderr, d.Error())
		}
	}
}

// loadSources reads patternsPath if given, or falls back to a small
// built-in ssn/visa demo set so the binary is runnable with only -input.
func loadSources(patternsPath string, logger *slog.Logger) ([]ctxt.Source, error) {
	if patternsPath == "" {
		logger.Info("dscan: no -patterns given, using the built-in demo pattern set")
		return demoSources(), nil
	}
	f, err := os.Open(patternsPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return patternfile.Load(f)
}

func demoSources() []ctxt.Source {
	return []ctxt.Source{
		{
			ID:    pattern.ID{Major: 1, Minor: 1},
			Name:  "ssn",
			Regex: "[[:digit:]]{3}[ -][[:digit:]]{2}[ -][[:digit:]]{4}",
		},
		{
			ID:    pattern.ID{Major: 2, Minor: 1},
			Name:  "visa",
			Regex: "4[[:digit:]]{3}([ -]?[[:digit:]]{4}){3}",
		},
	}
}
