// Package mp4tag reads and writes iTunes-style metadata embedded in
// ISO-BMFF container files (.mp4, .m4a, .m4b, .m4v, .m4p, .mov).
//
// The package is organized around the box tree that every ISO-BMFF file is
// built from: Box primitives (fourcc.go, box.go) describe a single atom's
// position and size; FileMap (filemap.go) walks a file once and records the
// handful of boxes the rest of the package cares about (ftyp, moov, udta,
// meta, hdlr, ilst, a trailing free/skip); the item codec (codec.go,
// names.go) translates between ilst bytes and a Collection of tags; the
// writer (writer.go) turns an edited Collection back into bytes, in place
// when the new ilst fits in the old footprint and via a full rewrite
// otherwise. Context (facade.go) ties these together into the single
// stateful handle callers use.
package mp4tag
