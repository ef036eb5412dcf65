package mp4tag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFileValidChain(t *testing.T) {
	title := buildItem(FourCCTitle, IndicatorUTF8, []byte("Some Title"))
	data := buildFile("M4A ", [][]byte{title}, 0, true)
	raf, _ := openTempRAF(t, data)

	fm, err := ParseFile(raf)
	require.NoError(t, err)
	assert.True(t, fm.HasMoov)
	assert.True(t, fm.HasUdta)
	assert.True(t, fm.HasMeta)
	assert.True(t, fm.HasHdlr)
	assert.True(t, fm.HasIlst)
	assert.True(t, fm.HasMdat)
	assert.False(t, fm.HasTrailingFree)
}

func TestParseFileTrailingFreeDetected(t *testing.T) {
	title := buildItem(FourCCTitle, IndicatorUTF8, []byte("x"))
	data := buildFile("M4A ", [][]byte{title}, 32, false)
	raf, _ := openTempRAF(t, data)

	fm, err := ParseFile(raf)
	require.NoError(t, err)
	require.True(t, fm.HasTrailingFree)
	assert.EqualValues(t, 32, fm.TrailingFree.TotalSize)
	assert.Equal(t, FourCCFree, fm.TrailingFree.Type)
}

func TestParseFileRejectsNonFtypFirst(t *testing.T) {
	data := buildMoovBox(buildUdtaBox(buildMetaBox(buildIlstBox())))
	raf, _ := openTempRAF(t, data)

	_, err := ParseFile(raf)
	require.Error(t, err)
	var mp4Err *Error
	require.ErrorAs(t, err, &mp4Err)
	assert.Equal(t, NotMp4, mp4Err.Kind)
}

func TestParseFileUnknownBrand(t *testing.T) {
	data := buildFile("xxxx", nil, 0, false)
	raf, _ := openTempRAF(t, data)

	_, err := ParseFile(raf)
	require.Error(t, err)
	var mp4Err *Error
	require.ErrorAs(t, err, &mp4Err)
	assert.Equal(t, NotMp4, mp4Err.Kind)
}

func TestParseFileMissingMoov(t *testing.T) {
	data := buildFtyp("M4A ")
	raf, _ := openTempRAF(t, data)

	_, err := ParseFile(raf)
	require.Error(t, err)
	var mp4Err *Error
	require.ErrorAs(t, err, &mp4Err)
	assert.Equal(t, NotMp4, mp4Err.Kind)
}

func TestParseFileNoUdtaIsNotAnError(t *testing.T) {
	data := buildFileNoUdta("M4A ")
	raf, _ := openTempRAF(t, data)

	fm, err := ParseFile(raf)
	require.NoError(t, err)
	assert.True(t, fm.HasMoov)
	assert.False(t, fm.HasUdta)
	assert.False(t, fm.HasIlst)
}
