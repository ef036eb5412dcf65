package mp4tag

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind is the closed set of error categories the public API can surface.
// NoSpace is produced internally by the in-place write strategy to signal
// that it must escalate to a full rewrite; it is never returned from an
// exported function and tests assert that it doesn't leak.
type Kind int

const (
	InvalidArg Kind = iota
	NotOpen
	AlreadyOpen
	ReadOnly
	NoMemory
	Io
	SeekFailed
	WriteFailed
	RenameFailed
	NotMp4
	BadBox
	Corrupt
	Truncated
	Unsupported
	NoTags
	TagNotFound
	TagTooLarge
	NoSpace
)

var kindStrings = map[Kind]string{
	InvalidArg:   "invalid argument",
	NotOpen:      "not open",
	AlreadyOpen:  "already open",
	ReadOnly:     "read only",
	NoMemory:     "out of memory",
	Io:           "i/o error",
	SeekFailed:   "seek failed",
	WriteFailed:  "write failed",
	RenameFailed: "rename failed",
	NotMp4:       "not an mp4 file",
	BadBox:       "malformed box",
	Corrupt:      "corrupt file",
	Truncated:    "truncated file",
	Unsupported:  "unsupported",
	NoTags:       "no tags",
	TagNotFound:  "tag not found",
	TagTooLarge:  "tag too large",
	NoSpace:      "no space",
}

// Strerror returns a stable, human-readable string for a Kind. Unknown
// values (there shouldn't be any, the enum is closed) render as "unknown
// error".
func Strerror(k Kind) string {
	if s, ok := kindStrings[k]; ok {
		return s
	}
	return "unknown error"
}

func (k Kind) String() string {
	return Strerror(k)
}

// Error is the concrete error type every exported mp4tag function returns.
// Op names the operation that failed (e.g. "Open", "WriteTags"); Err, when
// present, is the underlying cause and is reachable through Unwrap.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("mp4tag: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("mp4tag: %s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports equality by Kind, so callers can write
// errors.Is(err, &mp4tag.Error{Kind: mp4tag.TagNotFound}).
func (e *Error) Is(target error) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	return te.Kind == e.Kind
}

func newError(kind Kind, op string, cause error) *Error {
	if cause != nil {
		cause = errors.WithStack(cause)
	}
	return &Error{Kind: kind, Op: op, Err: cause}
}
