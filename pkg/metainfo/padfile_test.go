package metainfo_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/raklaptudirm/mtorrent/pkg/metainfo"
)

func TestFileItemIsPad(t *testing.T) {
	f := metainfo.FileItem{Attr: "p"}
	require.True(t, f.IsPad())

	g := metainfo.FileItem{Attr: "x"}
	require.False(t, g.IsPad())
}

// TestDefaultModeRejectsMisalignedPadfile checks that PadfileDefault,
// despite not requiring every misaligned file to carry a padfile, still
// rejects a padfile that is present but whose length does not bring its
// preceding file to a piece boundary.
func TestDefaultModeRejectsMisalignedPadfile(t *testing.T) {
	pieces := strings.Repeat("A", 20)
	files := "ld6:lengthi10e4:pathl1:aeed4:attr1:p6:lengthi3e4:pathl4:.padeee"
	info := "d5:files" + files + "4:name4:test12:piece lengthi16e6:pieces20:" + pieces + "e"
	in := "d4:info" + info + "e"

	_, err := metainfo.Decode([]byte(in), metainfo.PadfileDefault)
	require.Error(t, err)

	var schemaErr *metainfo.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	require.Equal(t, metainfo.KindPadfileMisaligned, schemaErr.Kind)
}

// TestIgnoreModeAcceptsMisalignedPadfile confirms PadfileIgnore remains a
// true no-op, unlike PadfileDefault above.
func TestIgnoreModeAcceptsMisalignedPadfile(t *testing.T) {
	pieces := strings.Repeat("A", 20)
	files := "ld6:lengthi10e4:pathl1:aeed4:attr1:p6:lengthi3e4:pathl4:.padeee"
	info := "d5:files" + files + "4:name4:test12:piece lengthi16e6:pieces20:" + pieces + "e"
	in := "d4:info" + info + "e"

	_, err := metainfo.Decode([]byte(in), metainfo.PadfileIgnore)
	require.NoError(t, err)
}

func TestPadfileModeString(t *testing.T) {
	cases := map[metainfo.PadfileMode]string{
		metainfo.PadfileDefault: "default",
		metainfo.PadfileStrict:  "strict",
		metainfo.PadfileIgnore:  "ignore",
		metainfo.PadfileForbid:  "forbid",
	}
	for mode, want := range cases {
		require.Equal(t, want, mode.String())
	}
}
