package ctxt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coregx/dscan/ctxt"
	"github.com/coregx/dscan/pattern"
	"github.com/coregx/dscan/scanner"
)

const (
	ssnRegex            = `[[:digit:]]{3}[ -][[:digit:]]{2}[ -][[:digit:]]{4}`
	visaRegex           = `4[[:digit:]]{3}([ -]?[[:digit:]]{4}){3}`
	ssnUnformattedRegex = `[[:digit:]]{9}`
	digitRuleRegex      = `1[^13]`
)

func id(major, minor int) pattern.ID { return pattern.ID{Major: major, Minor: minor} }

func feed(t *testing.T, sc *scanner.Scanner, input string) []scanner.Match {
	t.Helper()
	matches := sc.UpdateString(input)
	matches = append(matches, sc.Complete()...)
	return matches
}

func TestScenarioDigitRule(t *testing.T) {
	c := ctxt.Build([]ctxt.Source{
		{ID: id(4, 1), Name: "digit", Regex: digitRuleRegex},
	})
	sc := c.NewScanner(scanner.DefaultConfig())
	matches := feed(t, sc, "12 ")
	require.Len(t, matches, 1)
	assert.Equal(t, id(4, 1), matches[0].ID)
	assert.Equal(t, "digit", matches[0].Name)
	assert.Equal(t, 0, matches[0].Pos)
	assert.Equal(t, "12", matches[0].Text)
}

func TestScenarioSSN(t *testing.T) {
	c := ctxt.Build([]ctxt.Source{
		{ID: id(1, 1), Name: "ssn", Regex: ssnRegex},
		{ID: id(2, 1), Name: "visa", Regex: visaRegex},
	})
	sc := c.NewScanner(scanner.DefaultConfig())
	matches := feed(t, sc, "Hi, here is my social security number 444-42-1234")
	require.Len(t, matches, 1)
	assert.Equal(t, id(1, 1), matches[0].ID)
	assert.Equal(t, 38, matches[0].Pos)
	assert.Equal(t, "444-42-1234", matches[0].Text)
}

func TestScenarioVisa(t *testing.T) {
	c := ctxt.Build([]ctxt.Source{
		{ID: id(1, 1), Name: "ssn", Regex: ssnRegex},
		{ID: id(2, 1), Name: "visa", Regex: visaRegex},
	})
	sc := c.NewScanner(scanner.DefaultConfig())
	matches := feed(t, sc, "Hi, here is my visa number 4045124442700008, don't give it to anyone")
	require.Len(t, matches, 1)
	assert.Equal(t, id(2, 1), matches[0].ID)
	assert.Equal(t, 27, matches[0].Pos)
	assert.Equal(t, "4045124442700008", matches[0].Text)
}

func TestScenarioVisaSpaced(t *testing.T) {
	c := ctxt.Build([]ctxt.Source{
		{ID: id(1, 1), Name: "ssn", Regex: ssnRegex},
		{ID: id(2, 1), Name: "visa", Regex: visaRegex},
	})
	sc := c.NewScanner(scanner.DefaultConfig())
	matches := feed(t, sc, "Hi, here is my visa number 4045 1244 4270 0008, don't give it to anyone")
	require.Len(t, matches, 1)
	assert.Equal(t, id(2, 1), matches[0].ID)
	assert.Equal(t, 27, matches[0].Pos)
	assert.Equal(t, "4045 1244 4270 0008", matches[0].Text)
}

func TestScenarioVisaWinsOverUnformattedSSN(t *testing.T) {
	c := ctxt.Build([]ctxt.Source{
		{ID: id(1, 1), Name: "ssn", Regex: ssnRegex},
		{ID: id(3, 1), Name: "ssn_unformatted", Regex: ssnUnformattedRegex},
		{ID: id(2, 1), Name: "visa", Regex: visaRegex},
	})
	sc := c.NewScanner(scanner.DefaultConfig())
	matches := feed(t, sc, "Hi, here is my visa number 4045124442700008, don't give it to anyone")
	require.Len(t, matches, 1)
	assert.Equal(t, id(2, 1), matches[0].ID)
	assert.Equal(t, 27, matches[0].Pos)
	assert.Equal(t, "4045124442700008", matches[0].Text)
}

func TestScenarioTwoMatches(t *testing.T) {
	c := ctxt.Build([]ctxt.Source{
		{ID: id(1, 1), Name: "ssn", Regex: ssnRegex},
		{ID: id(2, 1), Name: "visa", Regex: visaRegex},
	})
	sc := c.NewScanner(scanner.DefaultConfig())
	matches := feed(t, sc, "Hi, here is my SSN is 444-42-1234 and  visa number is #4045124442700008, don't give it to anyone")
	require.Len(t, matches, 2)
	assert.Equal(t, id(1, 1), matches[0].ID)
	assert.Equal(t, 22, matches[0].Pos)
	assert.Equal(t, "444-42-1234", matches[0].Text)
	assert.Equal(t, id(2, 1), matches[1].ID)
	assert.Equal(t, 55, matches[1].Pos)
	assert.Equal(t, "4045124442700008", matches[1].Text)
}

func TestEmptyContextNeverMatches(t *testing.T) {
	c := ctxt.Build(nil)
	sc := c.NewScanner(scanner.DefaultConfig())
	matches := feed(t, sc, "444-42-1234 4045124442700008")
	assert.Empty(t, matches)
}

func TestPrefilterUnavailableWhenNoPatternHasARequiredLiteral(t *testing.T) {
	c := ctxt.Build([]ctxt.Source{
		{ID: id(1, 1), Name: "ssn", Regex: ssnRegex},
		{ID: id(2, 1), Name: "visa", Regex: visaRegex},
	})
	assert.False(t, c.HasPrefilter())
}

func TestPrefilterAvailableWhenEveryPatternHasARequiredLiteral(t *testing.T) {
	c := ctxt.Build([]ctxt.Source{
		{ID: id(4, 1), Name: "digit", Regex: digitRuleRegex},
	})
	assert.True(t, c.HasPrefilter())
}

func TestScanAllMatchesAgreeWithByteAtATimeDriving(t *testing.T) {
	c := ctxt.Build([]ctxt.Source{
		{ID: id(4, 1), Name: "digit", Regex: digitRuleRegex},
	})
	input := "before 12 middle 10 after 15 done"

	driven := feed(t, c.NewScanner(scanner.DefaultConfig()), input)
	accelerated := c.ScanAll([]byte(input), scanner.DefaultConfig())

	require.Equal(t, driven, accelerated)
	require.NotEmpty(t, accelerated)
}
