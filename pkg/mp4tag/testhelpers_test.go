package mp4tag

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.m4a")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func openTempRAF(t *testing.T, data []byte) (*randomAccessFile, string) {
	t.Helper()
	path := writeTempFile(t, data)
	raf, err := openRandomAccessFile(path, os.O_RDWR, 0o644)
	if err != nil {
		t.Fatalf("open fixture: %v", err)
	}
	t.Cleanup(func() { raf.Close() })
	return raf, path
}

func buildFtyp(brand string) []byte {
	content := make([]byte, 8)
	copy(content[0:4], brand)
	content = append(content, []byte(brand)...)
	var buf bytes.Buffer
	WriteBoxHeader(&buf, FourCCFtyp, uint32(8+len(content)))
	buf.Write(content)
	return buf.Bytes()
}

func buildIlstBox(items ...[]byte) []byte {
	var content []byte
	for _, it := range items {
		content = append(content, it...)
	}
	var buf bytes.Buffer
	WriteBoxHeader(&buf, FourCCIlst, uint32(8+len(content)))
	buf.Write(content)
	return buf.Bytes()
}

func buildMetaBox(ilst []byte) []byte {
	hdlr := buildHdlr()
	content := append([]byte{0, 0, 0, 0}, hdlr...)
	content = append(content, ilst...)
	var buf bytes.Buffer
	WriteBoxHeader(&buf, FourCCMeta, uint32(8+len(content)))
	buf.Write(content)
	return buf.Bytes()
}

func buildUdtaBox(meta []byte) []byte {
	var buf bytes.Buffer
	WriteBoxHeader(&buf, FourCCUdta, uint32(8+len(meta)))
	buf.Write(meta)
	return buf.Bytes()
}

func buildMoovBox(udta []byte) []byte {
	var buf bytes.Buffer
	WriteBoxHeader(&buf, FourCCMoov, uint32(8+len(udta)))
	buf.Write(udta)
	return buf.Bytes()
}

func buildMdatBox(payload []byte) []byte {
	var buf bytes.Buffer
	WriteBoxHeader(&buf, FourCCMdat, uint32(8+len(payload)))
	buf.Write(payload)
	return buf.Bytes()
}

// buildFile assembles ftyp + moov(udta(meta(hdlr, ilst[, trailing free]))) +
// mdat into one complete in-memory file.
func buildFile(brand string, items [][]byte, trailingFreeSize int64, includeMdat bool) []byte {
	ilst := buildIlstBox(items...)
	if trailingFreeSize > 0 {
		var fb bytes.Buffer
		_ = WriteFreeBox(&fb, trailingFreeSize)
		ilst = append(ilst, fb.Bytes()...)
	}
	meta := buildMetaBox(ilst)
	udta := buildUdtaBox(meta)
	moov := buildMoovBox(udta)

	var out []byte
	out = append(out, buildFtyp(brand)...)
	out = append(out, moov...)
	if includeMdat {
		out = append(out, buildMdatBox([]byte("placeholder-audio-samples"))...)
	}
	return out
}

// buildFileNoUdta assembles a file whose moov has no udta at all, used to
// test the insert-on-rewrite path.
func buildFileNoUdta(brand string) []byte {
	var moovContent []byte // an empty moov; real files carry mvhd/trak here,
	// out of scope for this package.
	var buf bytes.Buffer
	WriteBoxHeader(&buf, FourCCMoov, uint32(8+len(moovContent)))
	buf.Write(moovContent)

	var out []byte
	out = append(out, buildFtyp(brand)...)
	out = append(out, buf.Bytes()...)
	return out
}
