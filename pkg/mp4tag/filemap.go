package mp4tag

// majorBrands is the full set of major_brand values spec.md §4.B names as
// legal for this package's scope. compatibleBrands is a distinct, smaller
// fallback list: when major_brand itself isn't recognized, at least one
// entry of ftyp's compatible_brands list must be one of these before the
// file is accepted as MP4-shaped. The two lists are not the same set —
// compatibleBrands deliberately excludes brands like M4P/qt/3gp4/3gp5 that
// are only ever accepted as a major_brand; every compatibleBrands entry,
// avc1 included, is also a majorBrands entry.
var majorBrands = map[FourCC]bool{
	StrToFourCC("isom"): true,
	StrToFourCC("iso2"): true,
	StrToFourCC("iso5"): true,
	StrToFourCC("iso6"): true,
	StrToFourCC("mp41"): true,
	StrToFourCC("mp42"): true,
	StrToFourCC("M4A "): true,
	StrToFourCC("M4B "): true,
	StrToFourCC("M4P "): true,
	StrToFourCC("M4V "): true,
	StrToFourCC("M4VH"): true,
	StrToFourCC("avc1"): true,
	StrToFourCC("f4v "): true,
	StrToFourCC("qt  "): true,
	StrToFourCC("MSNV"): true,
	StrToFourCC("NDAS"): true,
	StrToFourCC("dash"): true,
	StrToFourCC("3gp4"): true,
	StrToFourCC("3gp5"): true,
	StrToFourCC("3gp6"): true,
	StrToFourCC("3g2a"): true,
}

var compatibleBrands = map[FourCC]bool{
	StrToFourCC("isom"): true,
	StrToFourCC("mp41"): true,
	StrToFourCC("mp42"): true,
	StrToFourCC("M4A "): true,
	StrToFourCC("M4B "): true,
	StrToFourCC("M4V "): true,
	StrToFourCC("avc1"): true,
}

// FileMap is the result of walking a file's top-level boxes and the handful
// of nested boxes the rest of this package needs: the chain
// moov -> udta -> meta -> (hdlr, ilst, trailing free/skip). Every box not
// on that chain (mdat's sample data, trak descent, chapter lists) is never
// parsed by this package, per spec.md's Non-goals; a full rewrite copies
// those bytes verbatim.
type FileMap struct {
	Ftyp Box
	Moov Box
	HasMoov bool
	Mdat Box
	HasMdat bool

	Udta    Box
	HasUdta bool

	Meta              Box
	HasMeta           bool
	MetaPayloadOffset int64 // Meta.DataOffset + 4, past the full-box version/flags
	MetaPayloadSize   int64

	Hdlr    Box
	HasHdlr bool

	Ilst    Box
	HasIlst bool

	TrailingFree    Box
	HasTrailingFree bool
}

// ParseFile walks f's box tree and returns a FileMap. It requires the first
// box to be ftyp with a brand this package recognizes, and a top-level moov
// box; everything past that (udta/meta/hdlr/ilst/trailing-free) is optional
// and its absence is reported through the Has* flags rather than an error.
func ParseFile(f *randomAccessFile) (*FileMap, error) {
	if f.Size() < 8 {
		return nil, newError(Truncated, "ParseFile", nil)
	}

	ftyp, err := ReadBoxHeader(f, 0)
	if err != nil {
		return nil, err
	}
	if ftyp.Type != FourCCFtyp {
		return nil, newError(NotMp4, "ParseFile", nil)
	}
	if err := validateBrand(f, ftyp); err != nil {
		return nil, err
	}

	fm := &FileMap{Ftyp: ftyp}

	offset := int64(0)
	size := f.Size()
	for offset+8 <= size {
		b, err := ReadBoxHeader(f, offset)
		if err != nil {
			return nil, err
		}
		if b.TotalSize <= 0 || offset+b.TotalSize > size {
			return nil, newError(Corrupt, "ParseFile", nil)
		}
		switch b.Type {
		case FourCCMoov:
			fm.Moov = b
			fm.HasMoov = true
		case FourCCMdat:
			fm.Mdat = b
			fm.HasMdat = true
		}
		offset += b.TotalSize
	}
	if !fm.HasMoov {
		return nil, newError(NotMp4, "ParseFile", nil)
	}

	if err := fm.descendMoov(f); err != nil {
		return nil, err
	}
	return fm, nil
}

func validateBrand(f *randomAccessFile, ftyp Box) error {
	if ftyp.DataSize < 8 {
		return newError(NotMp4, "validateBrand", nil)
	}
	buf := make([]byte, ftyp.DataSize)
	if _, err := f.ReadAt(buf, ftyp.DataOffset); err != nil {
		return newError(Io, "validateBrand", err)
	}
	var major FourCC
	copy(major[:], buf[0:4])
	if majorBrands[major] {
		return nil
	}
	for off := 8; off+4 <= len(buf); off += 4 {
		var cc FourCC
		copy(cc[:], buf[off:off+4])
		if compatibleBrands[cc] {
			return nil
		}
	}
	return newError(NotMp4, "validateBrand", nil)
}

func (fm *FileMap) descendMoov(f *randomAccessFile) error {
	udta, ok, err := findChild(f, fm.Moov.DataOffset, fm.Moov.DataSize, FourCCUdta)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	fm.Udta = udta
	fm.HasUdta = true

	meta, ok, err := findChild(f, udta.DataOffset, udta.DataSize, FourCCMeta)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if meta.DataSize < 4 {
		return newError(Corrupt, "descendMoov", nil)
	}
	fm.Meta = meta
	fm.HasMeta = true
	fm.MetaPayloadOffset = meta.DataOffset + 4
	fm.MetaPayloadSize = meta.DataSize - 4

	if hdlr, ok, err := findChild(f, fm.MetaPayloadOffset, fm.MetaPayloadSize, FourCCHdlr); err != nil {
		return err
	} else if ok {
		fm.Hdlr = hdlr
		fm.HasHdlr = true
	}

	ilst, ok, err := findChild(f, fm.MetaPayloadOffset, fm.MetaPayloadSize, FourCCIlst)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	fm.Ilst = ilst
	fm.HasIlst = true

	nextOffset := ilst.Offset + ilst.TotalSize
	metaEnd := meta.Offset + meta.TotalSize
	if nextOffset+8 <= metaEnd {
		next, err := ReadBoxHeader(f, nextOffset)
		if err == nil && (next.Type == FourCCFree || next.Type == FourCCSkip) && next.Offset+next.TotalSize <= metaEnd {
			fm.TrailingFree = next
			fm.HasTrailingFree = true
		}
	}
	return nil
}
