package mp4tag

// FourCC is a four byte box type, stored big-endian the way it appears on
// the wire. Some well-known iTunes atoms start with the MacRoman copyright
// byte 0xA9 rather than a printable ASCII character; FourCC preserves it
// raw rather than requiring callers to round-trip through UTF-8.
type FourCC [4]byte

// String renders the four raw bytes as a Go string. The result is not
// guaranteed to be valid UTF-8 for atoms like ©nam, by design: the byte
// content must survive unchanged for encode to reproduce it.
func (f FourCC) String() string {
	return string(f[:])
}

// StrToFourCC builds a FourCC from an ASCII string, NUL-padding on the
// right if it is shorter than four bytes and truncating if longer.
func StrToFourCC(s string) FourCC {
	var f FourCC
	copy(f[:], s)
	return f
}

// Well-known top-level and container box types.
var (
	FourCCFtyp = FourCC{'f', 't', 'y', 'p'}
	FourCCMoov = FourCC{'m', 'o', 'o', 'v'}
	FourCCMdat = FourCC{'m', 'd', 'a', 't'}
	FourCCFree = FourCC{'f', 'r', 'e', 'e'}
	FourCCSkip = FourCC{'s', 'k', 'i', 'p'}
	FourCCWide = FourCC{'w', 'i', 'd', 'e'}
	FourCCUdta = FourCC{'u', 'd', 't', 'a'}
	FourCCMeta = FourCC{'m', 'e', 't', 'a'}
	FourCCHdlr = FourCC{'h', 'd', 'l', 'r'}
	FourCCIlst = FourCC{'i', 'l', 's', 't'}
	FourCCData = FourCC{'d', 'a', 't', 'a'}
	FourCCMean = FourCC{'m', 'e', 'a', 'n'}
	FourCCName = FourCC{'n', 'a', 'm', 'e'}

	// Integer-valued item atoms with non-text payload encodings.
	FourCCTrkn = FourCC{'t', 'r', 'k', 'n'}
	FourCCDisk = FourCC{'d', 'i', 's', 'k'}
	FourCCTmpo = FourCC{'t', 'm', 'p', 'o'}
	FourCCCpil = FourCC{'c', 'p', 'i', 'l'}
	FourCCPgap = FourCC{'p', 'g', 'a', 'p'}
	FourCCCovr = FourCC{'c', 'o', 'v', 'r'}
	FourCCGnre = FourCC{'g', 'n', 'r', 'e'}
	FourCCStik = FourCC{'s', 't', 'i', 'k'}

	// Freeform custom atom, written literally "----" on the wire.
	FourCCFreeform = FourCC{'-', '-', '-', '-'}

	// Common text item atoms, keyed here only for readability; the
	// canonical name table lives in names.go.
	FourCCTitle     = FourCC{0xA9, 'n', 'a', 'm'}
	FourCCArtist    = FourCC{0xA9, 'A', 'R', 'T'}
	FourCCAlbumArt  = FourCC{'a', 'A', 'R', 'T'}
	FourCCAlbum     = FourCC{0xA9, 'a', 'l', 'b'}
	FourCCGenreText = FourCC{0xA9, 'g', 'e', 'n'}
	FourCCDate      = FourCC{0xA9, 'd', 'a', 'y'}
	FourCCComment   = FourCC{0xA9, 'c', 'm', 't'}
	FourCCWriter    = FourCC{0xA9, 'w', 'r', 't'}
	FourCCEncoder   = FourCC{0xA9, 't', 'o', 'o'}
	FourCCGrouping  = FourCC{0xA9, 'g', 'r', 'p'}
	FourCCCopyright = FourCC{'c', 'p', 'r', 't'}
	FourCCLyrics    = FourCC{0xA9, 'l', 'y', 'r'}
	FourCCDesc      = FourCC{'d', 'e', 's', 'c'}
	FourCCSonm      = FourCC{'s', 'o', 'n', 'm'}
	FourCCSoar      = FourCC{'s', 'o', 'a', 'r'}
	FourCCSoal      = FourCC{'s', 'o', 'a', 'l'}
	FourCCSoaa      = FourCC{'s', 'o', 'a', 'a'}
	FourCCSoco      = FourCC{'s', 'o', 'c', 'o'}
)

// Data type indicator values carried in an item's data box, spec.md §6.
const (
	IndicatorImplicit = 0
	IndicatorUTF8     = 1
	IndicatorUTF16BE  = 2
	IndicatorJPEG     = 13
	IndicatorPNG      = 14
	IndicatorInteger  = 21
	IndicatorBMP      = 27
)
