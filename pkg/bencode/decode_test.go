package bencode_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/raklaptudirm/mtorrent/pkg/bencode"
)

var tests = []struct {
	in  string
	out any
	err error
}{
	// basic values
	{in: "i123e", out: int64(123)},
	{in: "i-123e", out: int64(-123)},
	{in: "i0e", out: int64(0)},
	{in: "0:", out: ""},
	{in: "3:cat", out: "cat"},
	{in: "le", out: *new([]any)},
	{in: "li123e3:cate", out: []any{int64(123), "cat"}},
	{in: "lli123e3:catee", out: []any{[]any{int64(123), "cat"}}},
	{in: "de", out: map[string]any{}},
	{in: "d3:cati123e3:dogi-123ee", out: map[string]any{"cat": int64(123), "dog": int64(-123)}},
	{in: "d1:ad1:ai123e1:b3:catee", out: map[string]any{"a": map[string]any{"a": int64(123), "b": "cat"}}},
}

func TestDecode(t *testing.T) {
	for _, test := range tests {
		t.Run(test.in, func(t *testing.T) {
			v, err := bencode.Decode([]byte(test.in))
			require.Equal(t, test.err, err)
			require.Equal(t, test.out, v)
		})
	}
}
