package mp4tag

// Version is the package version string, following the teacher's
// pkg/version convention of a plain package-level var rather than a build
// tag or embedded file. It has no ldflags-settable build step here since
// this is a library, not a deployed binary, so it is simply fixed.
var Version = "1.0.0"

// VersionString returns Version, mirroring spec.md §6's version() entry
// point.
func VersionString() string {
	return Version
}
