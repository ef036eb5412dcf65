package mp4tag

import (
	"bytes"
	"encoding/binary"
)

// Box describes one ISO-BMFF box's position on disk, as found by a single
// ReadBoxHeader call. It never holds the box's payload; callers read the
// payload themselves from DataOffset/DataSize when they need it.
type Box struct {
	Type       FourCC
	Offset     int64 // absolute offset of the box's size field
	HeaderSize int64 // 8 for a standard box, 16 for a 64-bit extended-size box
	TotalSize  int64 // header + payload, including any extended-size field
	DataOffset int64 // Offset + HeaderSize
	DataSize   int64 // TotalSize - HeaderSize
}

// ReadBoxHeader reads the box header at absolute offset at: a 4-byte size,
// a 4-byte type, and (when size == 1) an 8-byte extended size. size == 0
// means "box runs to EOF", per the ISO-BMFF spec.
func ReadBoxHeader(f *randomAccessFile, at int64) (Box, error) {
	if at < 0 || at+8 > f.Size() {
		return Box{}, newError(Truncated, "ReadBoxHeader", nil)
	}
	var hdr [8]byte
	if _, err := f.ReadAt(hdr[:], at); err != nil {
		return Box{}, newError(Io, "ReadBoxHeader", err)
	}
	size := binary.BigEndian.Uint32(hdr[0:4])
	var typ FourCC
	copy(typ[:], hdr[4:8])

	headerSize := int64(8)
	var total int64
	switch size {
	case 1:
		if at+16 > f.Size() {
			return Box{}, newError(Truncated, "ReadBoxHeader", nil)
		}
		var ext [8]byte
		if _, err := f.ReadAt(ext[:], at+8); err != nil {
			return Box{}, newError(Io, "ReadBoxHeader", err)
		}
		total = int64(binary.BigEndian.Uint64(ext[:]))
		headerSize = 16
	case 0:
		total = f.Size() - at
	default:
		total = int64(size)
	}

	if total < headerSize {
		return Box{}, newError(BadBox, "ReadBoxHeader", nil)
	}
	if at+total > f.Size() {
		return Box{}, newError(Truncated, "ReadBoxHeader", nil)
	}

	return Box{
		Type:       typ,
		Offset:     at,
		HeaderSize: headerSize,
		TotalSize:  total,
		DataOffset: at + headerSize,
		DataSize:   total - headerSize,
	}, nil
}

// WriteBoxHeader appends an 8-byte standard box header (size, type) to buf.
// Every box this package writes fits in a 32-bit size, so the extended-size
// form is never produced on encode.
func WriteBoxHeader(buf *bytes.Buffer, typ FourCC, size uint32) {
	var hdr [8]byte
	binary.BigEndian.PutUint32(hdr[0:4], size)
	copy(hdr[4:8], typ[:])
	buf.Write(hdr[:])
}

// WriteFreeBox appends a free box of exactly totalSize bytes (header plus
// zeroed payload) to buf. It refuses to emit a box smaller than 8 bytes,
// since that could never be read back as a valid box.
func WriteFreeBox(buf *bytes.Buffer, totalSize int64) error {
	if totalSize < 8 {
		return newError(BadBox, "WriteFreeBox", nil)
	}
	WriteBoxHeader(buf, FourCCFree, uint32(totalSize))
	buf.Write(make([]byte, totalSize-8))
	return nil
}

// findChild scans the box span [dataOffset, dataOffset+dataSize) for the
// first child box of type want. It reports ok=false, not an error, when no
// such child exists — a missing optional child is an expected outcome
// throughout the box tree, not a parse failure.
func findChild(f *randomAccessFile, dataOffset, dataSize int64, want FourCC) (Box, bool, error) {
	offset := dataOffset
	end := dataOffset + dataSize
	for offset+8 <= end {
		b, err := ReadBoxHeader(f, offset)
		if err != nil {
			return Box{}, false, err
		}
		if b.TotalSize <= 0 || offset+b.TotalSize > end {
			return Box{}, false, newError(Corrupt, "findChild", nil)
		}
		if b.Type == want {
			return b, true, nil
		}
		offset += b.TotalSize
	}
	return Box{}, false, nil
}
