package serialize_test

import (
	"testing"

	"github.com/coregx/dscan/ctxt"
	"github.com/coregx/dscan/pattern"
	"github.com/coregx/dscan/scanner"
	"github.com/coregx/dscan/serialize"
	"github.com/stretchr/testify/require"
)

func TestRoundTripProducesEquivalentMatches(t *testing.T) {
	c := ctxt.Build([]ctxt.Source{
		{ID: pattern.ID{Major: 1, Minor: 1}, Name: "ssn", Regex: "[[:digit:]]{3}[ -][[:digit:]]{2}[ -][[:digit:]]{4}"},
		{ID: pattern.ID{Major: 2, Minor: 1}, Name: "visa", Regex: "4[[:digit:]]{3}([ -]?[[:digit:]]{4}){3}"},
	})

	input := []byte("Hi, here is my social security number 444-42-1234")
	want := c.ScanAll(input, scanner.DefaultConfig())
	require.NotEmpty(t, want)

	blob, err := serialize.Encode(c)
	require.NoError(t, err)

	restored, err := serialize.Decode(blob)
	require.NoError(t, err)

	got := restored.ScanAll(input, scanner.DefaultConfig())
	require.Equal(t, want, got)
}

func TestDecodeRejectsShortBlob(t *testing.T) {
	_, err := serialize.Decode([]byte{1, 2})
	require.Error(t, err)
	var dErr *serialize.DeserializationError
	require.ErrorAs(t, err, &dErr)
}

func TestDecodeRejectsWrongVersion(t *testing.T) {
	blob := []byte{0, 0, 0, 99, 'j', 'u', 'n', 'k'}
	_, err := serialize.Decode(blob)
	require.Error(t, err)
	var dErr *serialize.DeserializationError
	require.ErrorAs(t, err, &dErr)
}

func TestDecodeRejectsCorruptGobStream(t *testing.T) {
	blob := []byte{0, 0, 0, 1, 0xFF, 0xFF, 0xFF}
	_, err := serialize.Decode(blob)
	require.Error(t, err)
	var dErr *serialize.DeserializationError
	require.ErrorAs(t, err, &dErr)
	require.Error(t, dErr.Unwrap(), "a corrupt gob stream should carry the decoder's error as its cause")
}

func TestEmptyContextRoundTrips(t *testing.T) {
	c := ctxt.Build(nil)
	blob, err := serialize.Encode(c)
	require.NoError(t, err)

	restored, err := serialize.Decode(blob)
	require.NoError(t, err)

	got := restored.ScanAll([]byte("anything"), scanner.DefaultConfig())
	require.Empty(t, got)
}
