package bencode_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/raklaptudirm/mtorrent/pkg/bencode"
)

// TestRoundTrip exercises the codec round-trip property: for any valid
// bencode input, decoding into the generic value tree and re-encoding
// produces exactly the original bytes.
func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"i0e",
		"i-42e",
		"3:cat",
		"0:",
		"le",
		"li1ei2ei3ee",
		"de",
		"d3:bar4:spam3:fooi42ee",
		"d4:infod6:lengthi12345e4:name3:catee",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			v, err := bencode.Decode([]byte(in))
			require.NoError(t, err)

			out, err := bencode.Marshal(v)
			require.NoError(t, err)
			require.Equal(t, in, out)
		})
	}
}

func TestDecodeErrorKinds(t *testing.T) {
	tests := []struct {
		name string
		in   string
		kind bencode.ErrorKind
	}{
		{"unordered keys", "d3:fooi1e3:bari2ee", bencode.ErrUnorderedDictKeys},
		{"duplicate key", "d3:fooi1e3:fooi2ee", bencode.ErrDuplicateDictKey},
		{"invalid integer", "i01e", bencode.ErrInvalidInteger},
		{"unexpected eof", "d3:foo", bencode.ErrUnexpectedEOF},
		{"trailing data", "i1ei2e", bencode.ErrTrailing},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := bencode.Decode([]byte(test.in))
			require.Error(t, err)

			var decErr *bencode.DecodeError
			require.ErrorAs(t, err, &decErr)
			require.Equal(t, test.kind, decErr.Kind)
		})
	}
}
