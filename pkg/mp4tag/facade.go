package mp4tag

import "os"

// Options configures a Context at Open/OpenRW time.
type Options struct {
	// Logger receives optional diagnostic messages. A nil Logger is
	// replaced with a no-op.
	Logger Logger
}

// Context is the stateful handle this package's callers interact with: one
// open file, a box map of it, and a cached Collection that is invalidated
// whenever the file is mutated or the Context is closed. It is not safe for
// concurrent use from multiple goroutines, matching spec.md's concurrency
// model: callers serialize access to a single Context themselves.
type Context struct {
	path       string
	raf        *randomAccessFile
	readOnly   bool
	open       bool
	fm         *FileMap
	collection *Collection
	log        Logger
}

// Open opens path read-only and parses its box map. The file stays open
// until Close; ReadTags lazily parses and caches the ilst contents on first
// use.
func Open(path string, opts Options) (*Context, error) {
	return open(path, os.O_RDONLY, true, opts)
}

// OpenRW opens path for reading and writing. Any leftover scratch file from
// a previously aborted rewrite (<path>.tmp) is removed first, per spec.md
// §5's crash-recovery note.
func OpenRW(path string, opts Options) (*Context, error) {
	if err := cleanupStrayScratch(path); err != nil {
		return nil, newError(Io, "OpenRW", err)
	}
	return open(path, os.O_RDWR, false, opts)
}

func open(path string, flag int, readOnly bool, opts Options) (*Context, error) {
	raf, err := openRandomAccessFile(path, flag, 0o644)
	if err != nil {
		return nil, newError(Io, "Open", err)
	}
	fm, err := ParseFile(raf)
	if err != nil {
		raf.Close()
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = defaultLogger
	}
	return &Context{
		path:     path,
		raf:      raf,
		readOnly: readOnly,
		open:     true,
		fm:       fm,
		log:      log,
	}, nil
}

// IsOpen reports whether the Context still owns an open file handle.
func (c *Context) IsOpen() bool {
	return c.open
}

// Close releases the underlying file handle and invalidates the cached
// Collection. Close is idempotent: closing an already-closed Context is a
// no-op that returns nil.
func (c *Context) Close() error {
	if !c.open {
		return nil
	}
	c.open = false
	c.collection = nil
	if err := c.raf.Close(); err != nil {
		return newError(Io, "Close", err)
	}
	return nil
}

func (c *Context) requireOpen(op string) error {
	if !c.open {
		return newError(NotOpen, op, nil)
	}
	return nil
}

func (c *Context) requireWritable(op string) error {
	if err := c.requireOpen(op); err != nil {
		return err
	}
	if c.readOnly {
		return newError(ReadOnly, op, nil)
	}
	return nil
}

// ReadTags returns the file's metadata as a Collection, decoding and
// caching it on first call. Subsequent calls return the cached Collection
// until the next write invalidates it. A file with no ilst box at all
// returns a NoTags error; a present-but-empty ilst returns an empty,
// non-nil Collection.
func (c *Context) ReadTags() (*Collection, error) {
	if err := c.requireOpen("ReadTags"); err != nil {
		return nil, err
	}
	if c.collection != nil {
		return c.collection, nil
	}
	if !c.fm.HasIlst {
		return nil, newError(NoTags, "ReadTags", nil)
	}
	col, err := DecodeIlst(c.raf, c.fm.Ilst)
	if err != nil {
		return nil, err
	}
	c.collection = col
	return col, nil
}

// ReadTagString returns the text value of the first top-level SimpleTag
// matching name (case-insensitive). It distinguishes a file with no tags at
// all (NoTags) from one that has tags but not this one (TagNotFound).
func (c *Context) ReadTagString(name string) (string, error) {
	col, err := c.ReadTags()
	if err != nil {
		return "", err
	}
	st := col.FindSimple(name)
	if st == nil {
		return "", newError(TagNotFound, "ReadTagString", nil)
	}
	return st.Value, nil
}

// WriteTags replaces the file's metadata with col, choosing the in-place or
// full-rewrite strategy automatically, and refreshes the cached box map and
// Collection to reflect the result.
func (c *Context) WriteTags(col *Collection, opts WriteOptions) error {
	if err := c.requireWritable("WriteTags"); err != nil {
		return err
	}
	fm, err := writeCollection(c.raf, c.path, c.fm, col, opts, c.log)
	if err != nil {
		return err
	}
	// A full rewrite renames a new file over c.path, leaving c.raf on the
	// replaced one, so the handle is reopened before fm is used with it.
	raf, err := openRandomAccessFile(c.path, os.O_RDWR, 0o644)
	if err != nil {
		return newError(Io, "WriteTags", err)
	}
	c.raf.Close()
	c.raf = raf
	c.fm = fm
	c.collection = nil
	return nil
}

// WriteTagsForce writes col via a full rewrite unconditionally, skipping
// the in-place strategy even when the new ilst would have fit the old
// footprint. This is the forced-rewrite entry point spec.md §5 invites
// implementations to expose.
func (c *Context) WriteTagsForce(col *Collection, opts WriteOptions) error {
	opts.Force = true
	return c.WriteTags(col, opts)
}

// SetTagString sets (adding if absent, replacing if present) the value of
// the top-level SimpleTag named name and writes the result back to disk.
func (c *Context) SetTagString(name, value string, opts WriteOptions) error {
	base, err := c.readOrEmptyCollection()
	if err != nil {
		return err
	}
	col := base.Clone()
	tag := col.albumTag()
	if st := tag.FindSimple(name); st != nil {
		st.Value = value
		st.Binary = nil
	} else {
		tag.AddSimple(name, value)
	}
	return c.WriteTags(col, opts)
}

// RemoveTag removes every top-level SimpleTag named name and writes the
// result back to disk. Removing a name that isn't present is not an error.
func (c *Context) RemoveTag(name string, opts WriteOptions) error {
	base, err := c.readOrEmptyCollection()
	if err != nil {
		return err
	}
	col := base.Clone()
	for _, tag := range col.Tags {
		kept := tag.Simple[:0]
		for _, st := range tag.Simple {
			if !equalFold4(st.Name, name) {
				kept = append(kept, st)
			}
		}
		tag.Simple = kept
	}
	return c.WriteTags(col, opts)
}

func (c *Context) readOrEmptyCollection() (*Collection, error) {
	col, err := c.ReadTags()
	if err != nil {
		mp4Err, ok := err.(*Error)
		if ok && mp4Err.Kind == NoTags {
			return NewCollection(), nil
		}
		return nil, err
	}
	return col, nil
}
