package mp4tag

import (
	"io"
	"os"

	"github.com/pkg/errors"
)

// cacheBlockSize is the span of a single cached read. Box headers are read
// eight or sixteen bytes at a time while walking a tree, so a modest cache
// avoids a syscall per box on any filesystem that doesn't already buffer.
const cacheBlockSize = 4096

// randomAccessFile is a thin wrapper over *os.File giving ReadAt/WriteAt
// plus a one-block read cache. Box parsing and in-place writes go through
// it; the full rewrite, backup and scratch cleanup in writer.go use the os
// package directly.
type randomAccessFile struct {
	f          *os.File
	size       int64
	cacheOff   int64
	cacheLen   int
	cacheValid bool
	cache      [cacheBlockSize]byte
}

func openRandomAccessFile(path string, flag int, perm os.FileMode) (*randomAccessFile, error) {
	f, err := os.OpenFile(path, flag, perm)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.WithStack(err)
	}
	return &randomAccessFile{f: f, size: info.Size()}, nil
}

func (r *randomAccessFile) Size() int64 {
	return r.size
}

// ReadAt fills buf from off, bypassing the cache for reads larger than a
// block and otherwise serving (and refilling) the single cached block.
func (r *randomAccessFile) ReadAt(buf []byte, off int64) (int, error) {
	if len(buf) == 0 {
		return 0, nil
	}
	if len(buf) > cacheBlockSize {
		n, err := r.f.ReadAt(buf, off)
		if err != nil && err != io.EOF {
			return n, errors.WithStack(err)
		}
		return n, nil
	}
	if !r.cacheValid || off < r.cacheOff || off+int64(len(buf)) > r.cacheOff+int64(r.cacheLen) {
		n, err := r.f.ReadAt(r.cache[:], off)
		if n == 0 && err != nil && err != io.EOF {
			r.cacheValid = false
			return 0, errors.WithStack(err)
		}
		r.cacheOff = off
		r.cacheLen = n
		r.cacheValid = true
	}
	avail := int64(r.cacheLen) - (off - r.cacheOff)
	if avail <= 0 {
		return 0, errors.New("mp4tag: read past end of file")
	}
	return copy(buf, r.cache[off-r.cacheOff:r.cacheLen]), nil
}

// WriteAt writes through to the file and invalidates the cache, since the
// writer only ever patches a handful of bytes and correctness matters more
// than avoiding one extra syscall.
func (r *randomAccessFile) WriteAt(buf []byte, off int64) (int, error) {
	n, err := r.f.WriteAt(buf, off)
	r.cacheValid = false
	if end := off + int64(n); end > r.size {
		r.size = end
	}
	if err != nil {
		return n, errors.WithStack(err)
	}
	return n, nil
}

func (r *randomAccessFile) Truncate(size int64) error {
	if err := r.f.Truncate(size); err != nil {
		return errors.WithStack(err)
	}
	r.size = size
	r.cacheValid = false
	return nil
}

func (r *randomAccessFile) Sync() error {
	if err := r.f.Sync(); err != nil {
		return errors.WithStack(err)
	}
	return nil
}

func (r *randomAccessFile) Close() error {
	if err := r.f.Close(); err != nil {
		return errors.WithStack(err)
	}
	return nil
}
