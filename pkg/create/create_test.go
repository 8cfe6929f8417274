package create_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/raklaptudirm/mtorrent/pkg/create"
	"github.com/raklaptudirm/mtorrent/pkg/metainfo"
)

func writeFile(t *testing.T, dir, name string, data []byte) {
	t.Helper()
	full := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, data, 0o644))
}

func TestGenerateV1SingleFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "movie.mp4", []byte("not actually a movie"))

	b := create.New(filepath.Join(dir, "movie.mp4"), 16*1024, "udp://tracker.test")
	tr, err := b.Generate(context.Background(), create.VersionV1)
	require.NoError(t, err)

	require.Equal(t, metainfo.VariantV1, tr.Info.Variant)
	require.Equal(t, "movie.mp4", tr.Info.Name)
	require.True(t, tr.Info.SingleFile())
	require.Equal(t, "udp://tracker.test", tr.Announce)

	data, err := tr.Bencode()
	require.NoError(t, err)

	back, err := metainfo.Decode(data, metainfo.PadfileDefault)
	require.NoError(t, err)
	require.Equal(t, tr.Info.Pieces, back.Info.Pieces)
}

func TestGenerateHybridDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", make([]byte, 100))
	writeFile(t, dir, "sub/b.txt", make([]byte, 300))

	b := create.New(dir, 16*1024)
	tr, err := b.Generate(context.Background(), create.VersionHybrid)
	require.NoError(t, err)

	require.Equal(t, metainfo.VariantHybrid, tr.Info.Variant)

	data, err := tr.Bencode()
	require.NoError(t, err)

	back, err := metainfo.Decode(data, metainfo.PadfileDefault)
	require.NoError(t, err)
	require.Equal(t, metainfo.VariantHybrid, back.Info.Variant)
}

func TestGenerateRejectsInvalidPieceLength(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", []byte("hi"))

	b := create.New(filepath.Join(dir, "a.txt"), 12345)
	_, err := b.Generate(context.Background(), create.VersionV1)
	require.Error(t, err)

	var usageErr *create.UsageError
	require.ErrorAs(t, err, &usageErr)
}
