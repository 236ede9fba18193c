package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeHexEscapes(t *testing.T) {
	in := `\x20\x2F\x2A\x2B\x3D\x26\x3B\x24\x27\x40\x28\x3C\x3E\x29\x23\x3F\x7C\x21`
	require.Equal(t, ` /*+=&;$'@(<>)#?|!`, DecodeHexEscapes(in))
}

func TestDecodeHexEscapesNoOpOnCleanInput(t *testing.T) {
	clean := `{"models":{"serverDefs":{"data":{"BUILD_IDENTIFIER":"va5e8014f"}}}}`
	require.Equal(t, clean, DecodeHexEscapes(clean))
}

func TestDecodeHexEscapesMixed(t *testing.T) {
	require.Equal(
		t,
		`"authURL":"167802150.s012a?b/c"`,
		DecodeHexEscapes(`"authURL":"167802150.s012a\x3Fb\x2Fc"`),
	)
}

func TestNormalizeName(t *testing.T) {
	require.Equal(t, "the dark knight", NormalizeName("  The   Dark\tKnight\n"))
}
