package mp4tag

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

// DecodeIlst walks every item child of an ilst box and returns a Collection
// holding a single Tag targeted at TargetAlbum. A child with no usable data
// box is skipped rather than aborting the parse, matching spec.md's stance
// that a missing or unrecognized item is expected, not corruption.
func DecodeIlst(f *randomAccessFile, ilst Box) (*Collection, error) {
	col := NewCollection()
	tag := col.AddTag(TargetAlbum)

	offset := ilst.DataOffset
	end := ilst.DataOffset + ilst.DataSize
	for offset+8 <= end {
		item, err := ReadBoxHeader(f, offset)
		if err != nil {
			return nil, err
		}
		if item.TotalSize <= 0 || offset+item.TotalSize > end {
			return nil, newError(Corrupt, "DecodeIlst", nil)
		}

		var st *SimpleTag
		var ok bool
		if item.Type == FourCCFreeform {
			st, ok, err = decodeFreeformItem(f, item)
		} else {
			st, ok, err = decodeItem(f, item)
		}
		if err != nil {
			return nil, err
		}
		if ok {
			tag.Simple = append(tag.Simple, st)
		}
		offset += item.TotalSize
	}
	return col, nil
}

// decodeItem decodes one ordinary (non-freeform) ilst item: find its first
// data child, dispatch on atom type and then on the data box's type
// indicator, per spec.md §6.
func decodeItem(f *randomAccessFile, item Box) (*SimpleTag, bool, error) {
	dataBox, found, err := findChild(f, item.DataOffset, item.DataSize, FourCCData)
	if err != nil {
		return nil, false, err
	}
	if !found || dataBox.DataSize < 8 {
		return nil, false, nil
	}

	var hdr [8]byte
	if _, err := f.ReadAt(hdr[:], dataBox.DataOffset); err != nil {
		return nil, false, newError(Io, "decodeItem", err)
	}
	indicator := binary.BigEndian.Uint32(hdr[0:4])

	payloadSize := dataBox.DataSize - 8
	payload := make([]byte, payloadSize)
	if payloadSize > 0 {
		if _, err := f.ReadAt(payload, dataBox.DataOffset+8); err != nil {
			return nil, false, newError(Io, "decodeItem", err)
		}
	}

	st := &SimpleTag{Name: nameForAtom(item.Type)}

	switch item.Type {
	case FourCCTrkn, FourCCDisk:
		st.Value = decodeIntPair(payload)
	case FourCCTmpo, FourCCCpil, FourCCPgap, FourCCGnre, FourCCStik:
		st.Value = decodeIntegerAtom(payload)
	case FourCCCovr:
		st.Binary = append([]byte(nil), payload...)
	default:
		switch indicator {
		case IndicatorUTF8, IndicatorImplicit:
			st.Value = string(payload)
		case IndicatorInteger:
			st.Value = decodeUnsignedDecimal(payload)
		case IndicatorJPEG, IndicatorPNG:
			st.Binary = append([]byte(nil), payload...)
		default:
			st.Binary = append([]byte(nil), payload...)
		}
	}
	return st, true, nil
}

// decodeFreeformItem decodes a ---- atom's mean/name/data triplet into a
// SimpleTag named "mean:name" (the teacher's com.apple.iTunes:ASIN
// convention), a feature spec.md's table doesn't mention but doesn't
// exclude either; see SPEC_FULL.md's supplemented features.
func decodeFreeformItem(f *randomAccessFile, item Box) (*SimpleTag, bool, error) {
	meanBox, ok, err := findChild(f, item.DataOffset, item.DataSize, FourCCMean)
	if err != nil || !ok || meanBox.DataSize < 4 {
		return nil, false, err
	}
	nameBox, ok, err := findChild(f, item.DataOffset, item.DataSize, FourCCName)
	if err != nil || !ok || nameBox.DataSize < 4 {
		return nil, false, err
	}
	dataBox, ok, err := findChild(f, item.DataOffset, item.DataSize, FourCCData)
	if err != nil || !ok || dataBox.DataSize < 8 {
		return nil, false, err
	}

	meanBytes := make([]byte, meanBox.DataSize-4)
	if _, err := f.ReadAt(meanBytes, meanBox.DataOffset+4); err != nil {
		return nil, false, newError(Io, "decodeFreeformItem", err)
	}
	nameBytes := make([]byte, nameBox.DataSize-4)
	if _, err := f.ReadAt(nameBytes, nameBox.DataOffset+4); err != nil {
		return nil, false, newError(Io, "decodeFreeformItem", err)
	}
	payload := make([]byte, dataBox.DataSize-8)
	if len(payload) > 0 {
		if _, err := f.ReadAt(payload, dataBox.DataOffset+8); err != nil {
			return nil, false, newError(Io, "decodeFreeformItem", err)
		}
	}

	return &SimpleTag{
		Name:  fmt.Sprintf("%s:%s", meanBytes, nameBytes),
		Value: string(payload),
	}, true, nil
}

// decodeIntPair decodes the trkn/disk 8-byte payload layout
// (00 00 NN NN TT TT 00 00) into "N/T", or plain "N" when T is zero.
func decodeIntPair(payload []byte) string {
	if len(payload) < 4 {
		return "0"
	}
	n := binary.BigEndian.Uint16(payload[2:4])
	var t uint16
	if len(payload) >= 6 {
		t = binary.BigEndian.Uint16(payload[4:6])
	}
	if t > 0 {
		return fmt.Sprintf("%d/%d", n, t)
	}
	return strconv.FormatUint(uint64(n), 10)
}

// decodeIntegerAtom implements the shared rule for tmpo/cpil/pgap: a
// 1-byte payload is a boolean ("0"/"1"), anything else is a big-endian
// unsigned decimal of length 1..8 — which a 2-byte tmpo payload already
// satisfies, so no atom-specific branch is needed beyond this.
func decodeIntegerAtom(payload []byte) string {
	if len(payload) == 1 {
		if payload[0] != 0 {
			return "1"
		}
		return "0"
	}
	return decodeUnsignedDecimal(payload)
}

func decodeUnsignedDecimal(b []byte) string {
	if len(b) == 0 || len(b) > 8 {
		return ""
	}
	var v uint64
	for _, by := range b {
		v = v<<8 | uint64(by)
	}
	return strconv.FormatUint(v, 10)
}

// EncodeIlstContent serializes a Collection's simple tags into the ilst
// box's content (concatenated item boxes, without the ilst header itself),
// the shape the writer needs for both the in-place and rewrite strategies.
func EncodeIlstContent(col *Collection) ([]byte, error) {
	var buf bytes.Buffer
	for _, tag := range col.Tags {
		for _, st := range tag.Simple {
			item, ok := encodeItem(st)
			if ok {
				buf.Write(item)
			}
		}
	}
	return buf.Bytes(), nil
}

// encodeItem resolves a SimpleTag's FourCC and encodes it into one item
// box. ok is false when the name can't be resolved to an atom type or the
// value can't be parsed into the shape that atom requires; such tags are
// silently dropped from the written file rather than aborting the write.
func encodeItem(st *SimpleTag) ([]byte, bool) {
	if mean, key, ok := splitFreeformName(st.Name); ok {
		return encodeFreeformItem(mean, key, st.Value), true
	}

	fc, ok := resolveFourCC(st.Name)
	if !ok {
		return nil, false
	}

	switch fc {
	case FourCCTrkn, FourCCDisk:
		payload, ok := encodeIntPair(st.Value)
		if !ok {
			return nil, false
		}
		return buildItem(fc, IndicatorImplicit, payload), true
	case FourCCTmpo:
		v, err := strconv.ParseUint(st.Value, 10, 16)
		if err != nil {
			return nil, false
		}
		payload := make([]byte, 2)
		binary.BigEndian.PutUint16(payload, uint16(v))
		return buildItem(fc, IndicatorInteger, payload), true
	case FourCCCpil, FourCCPgap:
		b := byte(0)
		if st.Value == "1" || strings.EqualFold(st.Value, "true") {
			b = 1
		}
		return buildItem(fc, IndicatorInteger, []byte{b}), true
	case FourCCGnre, FourCCStik:
		v, err := strconv.ParseUint(st.Value, 10, 16)
		if err != nil {
			return nil, false
		}
		payload := make([]byte, 2)
		binary.BigEndian.PutUint16(payload, uint16(v))
		return buildItem(fc, IndicatorImplicit, payload), true
	case FourCCCovr:
		if len(st.Binary) == 0 {
			return nil, false
		}
		return buildItem(fc, detectCoverIndicator(st.Binary), st.Binary), true
	default:
		return buildItem(fc, IndicatorUTF8, []byte(st.Value)), true
	}
}

// encodeIntPair parses "N/T" or plain "N" (T defaulting to 0) into the
// trkn/disk 8-byte payload layout.
func encodeIntPair(value string) ([]byte, bool) {
	var n, t uint
	if _, err := fmt.Sscanf(value, "%d/%d", &n, &t); err != nil {
		t = 0
		if _, err := fmt.Sscanf(value, "%d", &n); err != nil {
			return nil, false
		}
	}
	payload := make([]byte, 8)
	binary.BigEndian.PutUint16(payload[2:4], uint16(n))
	binary.BigEndian.PutUint16(payload[4:6], uint16(t))
	return payload, true
}

func buildDataBox(indicator uint32, payload []byte) []byte {
	content := make([]byte, 8+len(payload))
	binary.BigEndian.PutUint32(content[0:4], indicator)
	binary.BigEndian.PutUint32(content[4:8], 0) // locale, always 0
	copy(content[8:], payload)

	var buf bytes.Buffer
	WriteBoxHeader(&buf, FourCCData, uint32(8+len(content)))
	buf.Write(content)
	return buf.Bytes()
}

func buildItem(fc FourCC, indicator uint32, payload []byte) []byte {
	dataBox := buildDataBox(indicator, payload)
	var buf bytes.Buffer
	WriteBoxHeader(&buf, fc, uint32(8+len(dataBox)))
	buf.Write(dataBox)
	return buf.Bytes()
}

func encodeFreeformItem(mean, name, value string) []byte {
	meanContent := make([]byte, 4+len(mean))
	copy(meanContent[4:], mean)
	var meanBuf bytes.Buffer
	WriteBoxHeader(&meanBuf, FourCCMean, uint32(8+len(meanContent)))
	meanBuf.Write(meanContent)

	nameContent := make([]byte, 4+len(name))
	copy(nameContent[4:], name)
	var nameBuf bytes.Buffer
	WriteBoxHeader(&nameBuf, FourCCName, uint32(8+len(nameContent)))
	nameBuf.Write(nameContent)

	dataBox := buildDataBox(IndicatorUTF8, []byte(value))

	content := make([]byte, 0, meanBuf.Len()+nameBuf.Len()+len(dataBox))
	content = append(content, meanBuf.Bytes()...)
	content = append(content, nameBuf.Bytes()...)
	content = append(content, dataBox...)

	var buf bytes.Buffer
	WriteBoxHeader(&buf, FourCCFreeform, uint32(8+len(content)))
	buf.Write(content)
	return buf.Bytes()
}

// buildHdlr returns the fixed 33-byte "mdir"/"appl" metadata handler box
// every udta/meta container needs alongside ilst.
func buildHdlr() []byte {
	content := make([]byte, 25)
	copy(content[8:12], "mdir")
	copy(content[12:16], "appl")
	var buf bytes.Buffer
	WriteBoxHeader(&buf, FourCCHdlr, 33)
	buf.Write(content)
	return buf.Bytes()
}

// BuildUdtaPayload builds a complete udta box (udta{meta{hdlr;ilst}}) from a
// Collection, the bytes a full-rewrite write needs in place of the file's
// old udta (or in addition to moov's children, if none existed).
func BuildUdtaPayload(col *Collection) ([]byte, error) {
	ilstContent, err := EncodeIlstContent(col)
	if err != nil {
		return nil, err
	}
	var ilstBuf bytes.Buffer
	WriteBoxHeader(&ilstBuf, FourCCIlst, uint32(8+len(ilstContent)))
	ilstBuf.Write(ilstContent)

	hdlr := buildHdlr()

	metaContent := make([]byte, 0, 4+len(hdlr)+ilstBuf.Len())
	metaContent = append(metaContent, 0, 0, 0, 0) // full-box version+flags
	metaContent = append(metaContent, hdlr...)
	metaContent = append(metaContent, ilstBuf.Bytes()...)

	var metaBuf bytes.Buffer
	WriteBoxHeader(&metaBuf, FourCCMeta, uint32(8+len(metaContent)))
	metaBuf.Write(metaContent)

	var udtaBuf bytes.Buffer
	WriteBoxHeader(&udtaBuf, FourCCUdta, uint32(8+metaBuf.Len()))
	udtaBuf.Write(metaBuf.Bytes())
	return udtaBuf.Bytes(), nil
}
