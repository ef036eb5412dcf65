package mp4tag

import "strings"

// nameToFourCC is the canonical, human-facing name for every item atom this
// package knows by name. Lookup is case-insensitive; the keys here are
// upper-cased on purpose so LookupFourCC doesn't have to normalize twice.
var nameToFourCC = map[string]FourCC{
	"TITLE":             FourCCTitle,
	"ARTIST":            FourCCArtist,
	"ALBUM_ARTIST":      FourCCAlbumArt,
	"ALBUM":             FourCCAlbum,
	"GENRE":             FourCCGenreText,
	"DATE_RELEASED":     FourCCDate,
	"COMMENT":           FourCCComment,
	"COMPOSER":          FourCCWriter,
	"ENCODER":           FourCCEncoder,
	"GROUPING":          FourCCGrouping,
	"COPYRIGHT":         FourCCCopyright,
	"LYRICS":            FourCCLyrics,
	"TRACK_NUMBER":      FourCCTrkn,
	"DISC_NUMBER":       FourCCDisk,
	"BPM":               FourCCTmpo,
	"COMPILATION":       FourCCCpil,
	"GAPLESS":           FourCCPgap,
	"COVER_ART":         FourCCCovr,
	"GENRE_ID":          FourCCGnre,
	"MEDIA_TYPE":        FourCCStik,
	"DESCRIPTION":       FourCCDesc,
	"SORT_NAME":         FourCCSonm,
	"SORT_ARTIST":       FourCCSoar,
	"SORT_ALBUM":        FourCCSoal,
	"SORT_ALBUM_ARTIST": FourCCSoaa,
	"SORT_COMPOSER":     FourCCSoco,
}

// fourCCToName is built once at init, the inverse of nameToFourCC. No two
// names in nameToFourCC share a FourCC, so the inversion is unambiguous.
var fourCCToName = func() map[FourCC]string {
	m := make(map[FourCC]string, len(nameToFourCC))
	for name, fc := range nameToFourCC {
		m[fc] = name
	}
	return m
}()

// LookupFourCC resolves a canonical tag name (case-insensitive) to its
// FourCC atom type. ok is false for names this package doesn't know.
func LookupFourCC(name string) (FourCC, bool) {
	fc, ok := nameToFourCC[strings.ToUpper(name)]
	return fc, ok
}

// LookupName resolves a FourCC atom type to its canonical tag name. ok is
// false for atom types this package doesn't have a name for; callers fall
// back to the FourCC's raw string form in that case.
func LookupName(fc FourCC) (string, bool) {
	name, ok := fourCCToName[fc]
	return name, ok
}

// resolveFourCC implements the encode-side name resolution rule: look the
// name up in the table first, and if that fails, accept an exact four
// character name as a literal FourCC. Anything else is unresolvable and the
// tag is skipped on encode.
func resolveFourCC(name string) (FourCC, bool) {
	if fc, ok := LookupFourCC(name); ok {
		return fc, true
	}
	if len(name) == 4 {
		return StrToFourCC(name), true
	}
	return FourCC{}, false
}

// nameForAtom is the decode-side counterpart: prefer the canonical name,
// fall back to the raw FourCC string (non-ASCII bytes preserved as-is) for
// atom types this package doesn't otherwise recognize.
func nameForAtom(fc FourCC) string {
	if name, ok := LookupName(fc); ok {
		return name
	}
	return fc.String()
}

// splitFreeformName recognizes the "mean:name" shape used for the
// supplemental ---- freeform atom and splits it into its two parts. Names
// produced by the canonical table never contain a colon, so this check
// never shadows a real table entry.
func splitFreeformName(name string) (mean, key string, ok bool) {
	idx := strings.IndexByte(name, ':')
	if idx <= 0 || idx == len(name)-1 {
		return "", "", false
	}
	return name[:idx], name[idx+1:], true
}
