package mp4tag

import "github.com/gabriel-vasile/mimetype"

// detectCoverIndicator classifies cover art bytes for the data-box type
// indicator written alongside covr. This corrects a bug present in the
// source this package's data model is derived from, which had the PNG and
// JPEG magic-byte checks swapped: PNG's signature (0x89 'P' 'N' 'G') must
// map to IndicatorPNG and JPEG's (0xFF 0xD8 0xFF) to IndicatorJPEG.
// Anything else defaults to IndicatorJPEG, matching the fallback the
// original table used.
func detectCoverIndicator(data []byte) uint32 {
	if len(data) >= 4 && data[0] == 0x89 && data[1] == 'P' && data[2] == 'N' && data[3] == 'G' {
		return IndicatorPNG
	}
	if len(data) >= 3 && data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF {
		return IndicatorJPEG
	}
	return IndicatorJPEG
}

// DetectCoverType is a convenience wrapper around
// github.com/gabriel-vasile/mimetype for callers that want a MIME type
// string rather than (or in addition to) the raw data-box indicator used
// internally by encode. It does not affect what encode writes to disk; that
// always uses detectCoverIndicator's two-signature check, per spec.md §9.
func DetectCoverType(data []byte) (indicator uint32, mime string) {
	mtype := mimetype.Detect(data)
	return detectCoverIndicator(data), mtype.String()
}
