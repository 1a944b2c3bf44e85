package prefilter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coregx/dscan/literal"
	"github.com/coregx/dscan/prefilter"
)

func TestBuildRejectsEmptyLiteral(t *testing.T) {
	_, ok := prefilter.Build([]literal.Literal{literal.NewLiteral([]byte("ssn"), false), {}})
	assert.False(t, ok)
}

func TestBuildRejectsNoLiterals(t *testing.T) {
	_, ok := prefilter.Build(nil)
	assert.False(t, ok)
}

func TestNextCandidateFindsEarliestLiteral(t *testing.T) {
	pf, ok := prefilter.Build([]literal.Literal{
		literal.NewLiteral([]byte("ssn"), false),
		literal.NewLiteral([]byte("visa"), false),
	})
	require.True(t, ok)

	haystack := []byte("hello visa number here, ssn too")
	pos := pf.NextCandidate(haystack, 0)
	assert.Equal(t, 6, pos)

	pos = pf.NextCandidate(haystack, 7)
	assert.Equal(t, 24, pos)
}

func TestNextCandidateNoneFound(t *testing.T) {
	pf, ok := prefilter.Build([]literal.Literal{literal.NewLiteral([]byte("zzz"), false)})
	require.True(t, ok)
	haystack := []byte("nothing to see here")
	assert.Equal(t, len(haystack), pf.NextCandidate(haystack, 0))
}
