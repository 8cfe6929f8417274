package scanner_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/raklaptudirm/mtorrent/pkg/bencode/scanner"
)

var validTests = []struct {
	input string
	valid bool
}{
	// no value
	{"", false},

	// non-closed value
	{"d", false},
	{"l", false},
	{"i", false},
	{"1", false},

	// closed multiple times
	{"dee", false},
	{"lee", false},
	{"iee", false},

	// data missing
	{"ie", false},
	{"1:", false},

	// proper values
	{"de", true},
	{"le", true},
	{"i1e", true},
	{"i-1e", true},
	{"i0e", true},
	{"0:", true},
	{"1:a", true},

	// invalid values
	{"i01e", false},
	{"i-0e", false},

	// multiple top-level values
	{"dede", false},
}

func TestValid(t *testing.T) {
	for _, test := range validTests {
		t.Run(test.input, func(t *testing.T) {
			valid := scanner.Valid([]byte(test.input))
			require.Equal(t, test.valid, valid)
		})
	}
}

var kindTests = []struct {
	input string
	kind  scanner.Kind
}{
	{"i", scanner.KindInvalidInteger},
	{"d1:ai1e", scanner.KindUnexpectedEOF},
	{"i01e", scanner.KindInvalidInteger},
	{"i-0e", scanner.KindInvalidInteger},
	{"d3:bbbi1e3:aaai2ee", scanner.KindUnorderedDictKeys},
	{"d3:aaai1e3:aaai2ee", scanner.KindDuplicateDictKey},
	{"i1ei2e", scanner.KindTrailing},
}

func TestSyntaxErrorKind(t *testing.T) {
	for _, test := range kindTests {
		t.Run(test.input, func(t *testing.T) {
			s := scanner.New([]byte(test.input))
			err := s.Valid()
			require.Error(t, err)

			var synErr *scanner.SyntaxError
			require.True(t, errors.As(err, &synErr))
			require.Equal(t, test.kind, synErr.Kind)
		})
	}
}
