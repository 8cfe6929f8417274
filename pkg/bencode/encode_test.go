package bencode_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/raklaptudirm/mtorrent/pkg/bencode"
)

func TestMarshal(t *testing.T) {
	tests := []struct {
		name string
		in   any
		out  string
	}{
		{"int", 123, "i123e"},
		{"negative int", -123, "i-123e"},
		{"zero", 0, "i0e"},
		{"empty string", "", "0:"},
		{"string", "cat", "3:cat"},
		{"empty list", []any{}, "le"},
		{"list", []any{123, "cat"}, "li123e3:cate"},
		{"map keys sorted", map[string]string{"z": "1", "a": "2"}, "d1:a1:21:z1:1e"},
		{"map[string]any tree", map[string]any{"name": "bat", "length": int64(3)}, "d6:lengthi3e4:name3:bate"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := bencode.Marshal(test.in)
			require.NoError(t, err)
			require.Equal(t, test.out, got)
		})
	}
}

func TestMarshalUnsupportedType(t *testing.T) {
	_, err := bencode.Marshal(3.14)
	require.Error(t, err)

	var typeErr *bencode.UnsupportedTypeError
	require.ErrorAs(t, err, &typeErr)
}
