package metainfo_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/raklaptudirm/mtorrent/pkg/metainfo"
)

func TestDecodeV1SingleFile(t *testing.T) {
	in := "d8:announce12:udp://x.test4:infod6:lengthi10e4:name4:test12:piece lengthi16384e6:pieces20:AAAAAAAAAAAAAAAAAAAAee"

	tr, err := metainfo.Decode([]byte(in), metainfo.PadfileDefault)
	require.NoError(t, err)

	require.Equal(t, metainfo.VariantV1, tr.Info.Variant)
	require.Equal(t, "test", tr.Info.Name)
	require.Equal(t, uint64(10), tr.Info.Length)
	require.True(t, tr.Info.SingleFile())
	require.Equal(t, "udp://x.test", tr.Announce)
}

func TestDecodeV1PieceCountMismatch(t *testing.T) {
	// 40 bytes of pieces (2 hashes) for a file that only needs 1.
	in := "d4:infod6:lengthi10e4:name4:test12:piece lengthi16384e6:pieces40:" + strings.Repeat("A", 40) + "ee"

	_, err := metainfo.Decode([]byte(in), metainfo.PadfileDefault)
	require.Error(t, err)

	var schemaErr *metainfo.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	require.Equal(t, metainfo.KindPieceCountMismatch, schemaErr.Kind)
}

func TestDecodeMissingInfo(t *testing.T) {
	_, err := metainfo.Decode([]byte("d8:announce12:udp://x.teste"), metainfo.PadfileDefault)
	require.Error(t, err)

	var schemaErr *metainfo.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	require.Equal(t, metainfo.KindMissingField, schemaErr.Kind)
}

func TestHybridBencodeDecodeRoundTrip(t *testing.T) {
	root := strings.Repeat("B", 32)
	files := []metainfo.FileItem{{Length: 16384, Path: []string{"a"}}}

	tr := &metainfo.Torrent{
		Info: metainfo.Info{
			Variant:     metainfo.VariantHybrid,
			Name:        "pkg",
			PieceLength: 16384,
			Pieces:      strings.Repeat("A", 20),
			Files:       files,
			MetaVersion: 2,
			FileTree:    metainfo.Unflatten(files, []string{root}),
		},
	}

	data, err := tr.Bencode()
	require.NoError(t, err)

	got, err := metainfo.Decode(data, metainfo.PadfileDefault)
	require.NoError(t, err)

	require.Equal(t, metainfo.VariantHybrid, got.Info.Variant)
	require.Equal(t, tr.Info.Name, got.Info.Name)
	require.Equal(t, tr.Info.Pieces, got.Info.Pieces)
	require.Equal(t, tr.Info.FileTree.Flatten(), got.Info.FileTree.Flatten())

	v1Hash, err := got.V1Infohash()
	require.NoError(t, err)
	require.NotZero(t, v1Hash)

	v2Hash, err := got.V2Infohash()
	require.NoError(t, err)
	require.NotZero(t, v2Hash)
}

func TestV1InfohashRejectedForV2Only(t *testing.T) {
	root := strings.Repeat("B", 32)
	files := []metainfo.FileItem{{Length: 16384, Path: []string{"a"}}}

	tr := &metainfo.Torrent{
		Info: metainfo.Info{
			Variant:     metainfo.VariantV2,
			Name:        "pkg",
			PieceLength: 16384,
			MetaVersion: 2,
			FileTree:    metainfo.Unflatten(files, []string{root}),
		},
	}

	_, err := tr.V1Infohash()
	require.Error(t, err)

	var usageErr *metainfo.UsageError
	require.ErrorAs(t, err, &usageErr)
	require.Equal(t, metainfo.KindContradictoryInputs, usageErr.Kind)
}

func TestTotalLengthAndNFilesV2Only(t *testing.T) {
	root := strings.Repeat("B", 32)
	files := []metainfo.FileItem{
		{Length: 16384, Path: []string{"a"}},
		{Length: 100, Path: []string{"b"}},
	}

	info := metainfo.Info{
		Variant:     metainfo.VariantV2,
		Name:        "pkg",
		PieceLength: 16384,
		MetaVersion: 2,
		FileTree:    metainfo.Unflatten(files, []string{root, ""}),
	}

	require.Equal(t, uint64(16484), info.TotalLength())
	require.Equal(t, 2, info.NFiles())
}

func TestDumpMapBinaryRoundTripsThroughBencode(t *testing.T) {
	tr := &metainfo.Torrent{
		Announce: "udp://x.test",
		Info: metainfo.Info{
			Variant:     metainfo.VariantV1,
			Name:        "test",
			PieceLength: 16384,
			Pieces:      strings.Repeat("A", 20),
			Length:      10,
		},
	}

	strDump, err := tr.DumpMap("str")
	require.NoError(t, err)

	binDump, err := tr.DumpMap("binary")
	require.NoError(t, err)

	require.Equal(t, strDump, binDump)

	info, ok := binDump["info"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "test", info["name"])
	require.Equal(t, int64(10), info["length"])
}
