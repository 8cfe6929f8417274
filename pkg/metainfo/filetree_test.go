package metainfo_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/raklaptudirm/mtorrent/pkg/metainfo"
)

func TestFileTreeFlattenUnflatten(t *testing.T) {
	items := []metainfo.FileItem{
		{Length: 10, Path: []string{"a.txt"}},
		{Length: 20, Path: []string{"dir", "b.txt"}},
		{Length: 30, Path: []string{"dir", "sub", "c.txt"}},
	}
	roots := []string{"", "root-b", "root-c"}

	tree := metainfo.Unflatten(items, roots)
	flat := tree.Flatten()

	require.Len(t, flat, len(items))
	for i, item := range items {
		require.Equal(t, item.Path, flat[i].Path)
		require.Equal(t, item.Length, flat[i].Length)
	}
}

func TestFileTreeFlattenUnflattenRoundTrip(t *testing.T) {
	items := []metainfo.FileItem{
		{Length: 1, Path: []string{"x"}},
		{Length: 2, Path: []string{"y", "z"}},
	}
	roots := []string{"", ""}

	tree := metainfo.Unflatten(items, roots)
	again := metainfo.Unflatten(tree.Flatten(), roots)

	require.Equal(t, tree.Flatten(), again.Flatten())
}
