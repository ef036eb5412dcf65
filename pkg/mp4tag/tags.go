package mp4tag

import "github.com/robinjoseph08/golib/pointerutil"

// TagTarget classifies what a Tag describes. ISO-BMFF iTunes metadata has
// no notion of per-track or per-edition tags, so the codec always produces
// a single Tag targeted at TargetAlbum; the other levels exist so the
// builder API matches the full target vocabulary a caller may already be
// using to build tags for other container formats.
type TagTarget int

const (
	TargetShot       TagTarget = 10
	TargetSubtrack   TagTarget = 20
	TargetTrack      TagTarget = 30
	TargetPart       TagTarget = 40
	TargetAlbum      TagTarget = 50
	TargetEdition    TagTarget = 60
	TargetCollection TagTarget = 70
)

// SimpleTag is a single name/value pair, optionally carrying binary data
// instead of (or alongside) text, an explicit language, a default-ness
// flag, and nested children. Name is matched against the FourCC table
// case-insensitively on encode; Value and Binary are mutually relevant
// depending on the atom (cover art populates Binary and leaves Value
// empty, most other atoms are the reverse).
type SimpleTag struct {
	Name      string
	Value     string
	Binary    []byte
	Language  *string
	IsDefault *bool
	Nested    []*SimpleTag
}

// AddNested appends a child SimpleTag and returns it, for chaining.
func (st *SimpleTag) AddNested(child *SimpleTag) *SimpleTag {
	st.Nested = append(st.Nested, child)
	return child
}

// SetLanguage sets an explicit ISO 639-2 language code on the tag.
func (st *SimpleTag) SetLanguage(lang string) *SimpleTag {
	st.Language = pointerutil.String(lang)
	return st
}

// SetDefault marks whether this tag is the default among its siblings.
func (st *SimpleTag) SetDefault(isDefault bool) *SimpleTag {
	st.IsDefault = &isDefault
	return st
}

// Tag groups SimpleTags under a single target plus the UID lists spec.md's
// data model names for addressing tracks, editions, chapters, and
// attachments that the tag applies to. The ISO-BMFF codec never populates
// the UID lists; they exist for API parity with sibling container formats
// and so a caller building a Collection by hand has somewhere to put them.
type Tag struct {
	Target         TagTarget
	TrackUIDs      []uint64
	EditionUIDs    []uint64
	ChapterUIDs    []uint64
	AttachmentUIDs []uint64
	Simple         []*SimpleTag
}

// AddSimple appends a new SimpleTag with the given name and text value and
// returns it, for chaining calls like SetLanguage.
func (t *Tag) AddSimple(name, value string) *SimpleTag {
	st := &SimpleTag{Name: name, Value: value}
	t.Simple = append(t.Simple, st)
	return st
}

// AddBinary appends a new SimpleTag carrying binary data (cover art, for
// example) and returns it.
func (t *Tag) AddBinary(name string, data []byte) *SimpleTag {
	st := &SimpleTag{Name: name, Binary: data}
	t.Simple = append(t.Simple, st)
	return st
}

// AddTrackUID appends a track UID this tag applies to.
func (t *Tag) AddTrackUID(uid uint64) {
	t.TrackUIDs = append(t.TrackUIDs, uid)
}

// FindSimple returns the first top-level SimpleTag with the given name,
// matched case-insensitively, or nil if none exists.
func (t *Tag) FindSimple(name string) *SimpleTag {
	for _, st := range t.Simple {
		if equalFold4(st.Name, name) {
			return st
		}
	}
	return nil
}

// Collection is an ordered set of Tags, the unit a reader produces and a
// writer consumes. For ISO-BMFF files a Collection holds exactly one Tag
// targeted at TargetAlbum.
type Collection struct {
	Tags []*Tag
}

// NewCollection returns an empty Collection, mirroring the builder API's
// collection_create. There is no corresponding Free: Go's garbage collector
// reclaims a Collection once it is no longer referenced.
func NewCollection() *Collection {
	return &Collection{}
}

// AddTag appends a new Tag with the given target and returns it.
func (c *Collection) AddTag(target TagTarget) *Tag {
	t := &Tag{Target: target}
	c.Tags = append(c.Tags, t)
	return t
}

// FindSimple searches every Tag in the collection for the first top-level
// SimpleTag with the given name (case-insensitive).
func (c *Collection) FindSimple(name string) *SimpleTag {
	for _, t := range c.Tags {
		if st := t.FindSimple(name); st != nil {
			return st
		}
	}
	return nil
}

// Clone produces a deep copy of the collection, used by SetTagString to
// build a modified copy without mutating the caller's cached Collection.
func (c *Collection) Clone() *Collection {
	out := &Collection{Tags: make([]*Tag, len(c.Tags))}
	for i, t := range c.Tags {
		nt := &Tag{
			Target:         t.Target,
			TrackUIDs:      append([]uint64(nil), t.TrackUIDs...),
			EditionUIDs:    append([]uint64(nil), t.EditionUIDs...),
			ChapterUIDs:    append([]uint64(nil), t.ChapterUIDs...),
			AttachmentUIDs: append([]uint64(nil), t.AttachmentUIDs...),
			Simple:         make([]*SimpleTag, len(t.Simple)),
		}
		for j, st := range t.Simple {
			nt.Simple[j] = cloneSimple(st)
		}
		out.Tags[i] = nt
	}
	return out
}

func cloneSimple(st *SimpleTag) *SimpleTag {
	out := &SimpleTag{
		Name:   st.Name,
		Value:  st.Value,
		Binary: append([]byte(nil), st.Binary...),
	}
	if st.Language != nil {
		lang := *st.Language
		out.Language = &lang
	}
	if st.IsDefault != nil {
		isDefault := *st.IsDefault
		out.IsDefault = &isDefault
	}
	for _, n := range st.Nested {
		out.Nested = append(out.Nested, cloneSimple(n))
	}
	return out
}

// albumTag returns the collection's single ISO-BMFF tag, creating it if
// this is the first simple tag being added to an otherwise empty
// collection built for writing.
func (c *Collection) albumTag() *Tag {
	for _, t := range c.Tags {
		if t.Target == TargetAlbum {
			return t
		}
	}
	return c.AddTag(TargetAlbum)
}

func equalFold4(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'a' <= ca && ca <= 'z' {
			ca -= 'a' - 'A'
		}
		if 'a' <= cb && cb <= 'z' {
			cb -= 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
