package mp4tag

import "strconv"

// id3v1Genres is the standard ID3v1 genre table, 1-based (index 0 is
// unused) to match the gnre atom's own 1-based indexing. Grounded on the
// teacher's genreIDToString lookup table.
var id3v1Genres = []string{
	"", "Blues", "Classic Rock", "Country", "Dance", "Disco", "Funk",
	"Grunge", "Hip-Hop", "Jazz", "Metal", "New Age", "Oldies", "Other",
	"Pop", "R&B", "Rap", "Reggae", "Rock", "Techno", "Industrial",
	"Alternative", "Ska", "Death Metal", "Pranks", "Soundtrack",
	"Euro-Techno", "Ambient", "Trip-Hop", "Vocal", "Jazz+Funk", "Fusion",
	"Trance", "Classical", "Instrumental", "Acid", "House", "Game",
	"Sound Clip", "Gospel", "Noise", "AlternRock", "Bass", "Soul", "Punk",
	"Space", "Meditative", "Instrumental Pop", "Instrumental Rock",
	"Ethnic", "Gothic", "Darkwave", "Techno-Industrial", "Electronic",
	"Pop-Folk", "Eurodance", "Dream", "Southern Rock", "Comedy", "Cult",
	"Gangsta", "Top 40", "Christian Rap", "Pop/Funk", "Jungle",
	"Native American", "Cabaret", "New Wave", "Psychedelic", "Rave",
	"Showtunes", "Trailer", "Lo-Fi", "Tribal", "Acid Punk", "Acid Jazz",
	"Polka", "Retro", "Musical", "Rock & Roll", "Hard Rock",
}

// GenreName renders the human-readable ID3v1 genre name for a gnre atom's
// 1-based numeric ID. It returns "" for an out-of-range or unrecognized ID,
// rather than an error, since a caller displaying metadata generally wants
// to fall back to showing nothing over aborting.
func GenreName(id int) string {
	if id <= 0 || id >= len(id3v1Genres) {
		return ""
	}
	return id3v1Genres[id]
}

// GenreName looks up the file's GENRE_ID tag (the gnre atom) and renders it
// through the ID3v1 table, returning "" if the file's tags have no such tag
// or its value isn't a valid ID3v1 index. A file with no ilst at all gets
// ReadTags' NoTags error instead. ©gen (free-text genre) is unaffected and
// is read normally via ReadTagString("GENRE").
func (c *Context) GenreName() (string, error) {
	col, err := c.ReadTags()
	if err != nil {
		return "", err
	}
	st := col.FindSimple("GENRE_ID")
	if st == nil {
		return "", nil
	}
	id, err := strconv.Atoi(st.Value)
	if err != nil {
		return "", nil
	}
	return GenreName(id), nil
}
