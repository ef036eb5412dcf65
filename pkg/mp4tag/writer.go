package mp4tag

import (
	"encoding/binary"
	"os"

	"github.com/pkg/errors"
)

// WriteOptions controls optional pre-write behavior. Unless Force is set,
// which of the two write strategies runs is decided purely on whether the
// new ilst fits the old footprint.
type WriteOptions struct {
	// Backup, when true, copies the file's current bytes to <path>.bak
	// before either write strategy touches it.
	Backup bool
	// Force skips the in-place strategy and always performs a full
	// rewrite, the forced-rewrite entry point spec.md §5 invites
	// implementations to expose.
	Force bool
}

// writeCollection writes col's tags into the file at path, trying the
// in-place strategy first (unless opts.Force) and falling back to a full
// rewrite when the new ilst doesn't fit the old footprint. It returns the
// FileMap resulting from re-parsing the file after the write.
func writeCollection(raf *randomAccessFile, path string, fm *FileMap, col *Collection, opts WriteOptions, log Logger) (*FileMap, error) {
	if opts.Backup {
		if err := backupFile(path); err != nil {
			return nil, err
		}
	}

	ilstContent, err := EncodeIlstContent(col)
	if err != nil {
		return nil, err
	}

	if !opts.Force && fm.HasUdta && fm.HasMeta && fm.HasIlst {
		newFm, err := writeInPlace(raf, fm, ilstContent)
		if err == nil {
			return newFm, nil
		}
		mp4Err, ok := err.(*Error)
		if !ok || mp4Err.Kind != NoSpace {
			return nil, err
		}
		log.Info("in-place write would not fit, falling back to full rewrite", map[string]interface{}{"path": path})
	}

	return rewriteFile(path, fm, col)
}

// writeInPlace implements Strategy 1: replace the bytes of the existing
// ilst box (plus, if present, the immediately following trailing free/skip
// box) with the new ilst. Leftover room of 8 bytes or more is padded with a
// fresh free box; a leftover of 1-7 bytes can't form a valid free box, so it
// is folded into ilst's own declared size instead and zero-filled — the
// decode loop in DecodeIlst already stops walking children once fewer than
// 8 bytes remain before a box's declared end, so a handful of zero bytes
// trailing inside ilst's own span is read back as nothing, not corruption.
// Either way this never changes the size of any box outside the
// ilst+trailing-free footprint, so udta and meta's recorded sizes stay
// correct without having to touch them.
func writeInPlace(raf *randomAccessFile, fm *FileMap, ilstContent []byte) (*FileMap, error) {
	newIlstTotal := int64(8 + len(ilstContent))

	available := fm.Ilst.TotalSize
	if fm.HasTrailingFree {
		available += fm.TrailingFree.TotalSize
	}
	if newIlstTotal > available {
		return nil, newError(NoSpace, "writeInPlace", nil)
	}
	leftover := available - newIlstTotal

	ilstBoxTotal := newIlstTotal
	var padInsideIlst, freeBoxSize int64
	switch {
	case leftover == 0:
		// exact fit, nothing to pad
	case leftover < 8:
		ilstBoxTotal = available
		padInsideIlst = leftover
	default:
		freeBoxSize = leftover
	}

	var hdr [8]byte
	binary.BigEndian.PutUint32(hdr[0:4], uint32(ilstBoxTotal))
	copy(hdr[4:8], FourCCIlst[:])
	if _, err := raf.WriteAt(hdr[:], fm.Ilst.Offset); err != nil {
		return nil, newError(WriteFailed, "writeInPlace", err)
	}
	if len(ilstContent) > 0 {
		if _, err := raf.WriteAt(ilstContent, fm.Ilst.Offset+8); err != nil {
			return nil, newError(WriteFailed, "writeInPlace", err)
		}
	}
	if padInsideIlst > 0 {
		if _, err := raf.WriteAt(make([]byte, padInsideIlst), fm.Ilst.Offset+newIlstTotal); err != nil {
			return nil, newError(WriteFailed, "writeInPlace", err)
		}
	}
	if freeBoxSize > 0 {
		buf := make([]byte, freeBoxSize)
		binary.BigEndian.PutUint32(buf[0:4], uint32(freeBoxSize))
		copy(buf[4:8], FourCCFree[:])
		if _, err := raf.WriteAt(buf, fm.Ilst.Offset+newIlstTotal); err != nil {
			return nil, newError(WriteFailed, "writeInPlace", err)
		}
	}
	if err := raf.Sync(); err != nil {
		return nil, newError(Io, "writeInPlace", err)
	}

	return ParseFile(raf)
}

// rewriteFile implements Strategy 2: read the whole file, splice in a
// freshly built udta box in place of the old one (or insert one into moov
// if none existed), patch moov's recorded size, and write the result to a
// scratch file that is atomically renamed over the original. A crash
// between writing the scratch file and the rename leaves the original
// untouched and the scratch file orphaned; Context.OpenRW removes any
// leftover scratch file from a prior aborted rewrite before using a path.
func rewriteFile(path string, fm *FileMap, col *Collection) (*FileMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, newError(Io, "rewriteFile", err)
	}

	newUdta, err := BuildUdtaPayload(col)
	if err != nil {
		return nil, err
	}

	var spliced []byte
	if fm.HasUdta {
		spliced = spliceBytes(data, fm.Udta.Offset, fm.Udta.TotalSize, newUdta)
	} else {
		spliced = spliceBytes(data, fm.Moov.Offset+fm.Moov.TotalSize, 0, newUdta)
	}

	delta := int64(len(spliced)) - int64(len(data))
	if err := patchBoxSize(spliced, fm.Moov, fm.Moov.TotalSize+delta); err != nil {
		return nil, err
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, spliced, 0o644); err != nil {
		return nil, newError(WriteFailed, "rewriteFile", err)
	}
	f, err := os.OpenFile(tmpPath, os.O_RDWR, 0o644)
	if err == nil {
		_ = f.Sync()
		_ = f.Close()
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return nil, newError(RenameFailed, "rewriteFile", err)
	}

	raf, err := openRandomAccessFile(path, os.O_RDWR, 0o644)
	if err != nil {
		return nil, newError(Io, "rewriteFile", err)
	}
	defer raf.Close()
	return ParseFile(raf)
}

// spliceBytes returns a new slice equal to data with the oldLen bytes
// starting at start replaced by replacement.
func spliceBytes(data []byte, start, oldLen int64, replacement []byte) []byte {
	out := make([]byte, 0, int64(len(data))-oldLen+int64(len(replacement)))
	out = append(out, data[:start]...)
	out = append(out, replacement...)
	out = append(out, data[start+oldLen:]...)
	return out
}

// patchBoxSize rewrites a box's size field in place within buf to
// newTotalSize, supporting both the 8-byte standard header and the
// 16-byte extended-size header.
func patchBoxSize(buf []byte, b Box, newTotalSize int64) error {
	switch b.HeaderSize {
	case 8:
		if newTotalSize > 0xFFFFFFFF {
			return newError(Unsupported, "patchBoxSize", nil)
		}
		binary.BigEndian.PutUint32(buf[b.Offset:b.Offset+4], uint32(newTotalSize))
	case 16:
		binary.BigEndian.PutUint64(buf[b.Offset+8:b.Offset+16], uint64(newTotalSize))
	default:
		return newError(BadBox, "patchBoxSize", nil)
	}
	return nil
}

func backupFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return newError(Io, "backupFile", err)
	}
	if err := os.WriteFile(path+".bak", data, 0o644); err != nil {
		return newError(WriteFailed, "backupFile", err)
	}
	return nil
}

// cleanupStrayScratch removes a leftover <path>.tmp from a previous
// aborted rewrite, per spec.md §5's crash-recovery note. It is best-effort:
// a missing scratch file is not an error.
func cleanupStrayScratch(path string) error {
	tmpPath := path + ".tmp"
	if err := os.Remove(tmpPath); err != nil && !os.IsNotExist(err) {
		return errors.WithStack(err)
	}
	return nil
}
