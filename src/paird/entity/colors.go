package entity

import "hash/fnv"

// _palette holds the cursor colors assigned to remote participants. The
// assignment must be stable for a given user identifier across the whole
// session, so selection is a pure function of the identifier.
var _palette = []string{
	"#e6194b",
	"#3cb44b",
	"#4363d8",
	"#f58231",
	"#911eb4",
	"#42d4f4",
	"#f032e6",
	"#9a6324",
}

// ColorFor returns the display color for a user identifier. The same
// identifier always maps to the same palette entry.
func ColorFor(userID string) string {
	h := fnv.New32a()
	h.Write([]byte(userID))
	return _palette[h.Sum32()%uint32(len(_palette))]
}

// PaletteSize reports how many distinct colors are available.
func PaletteSize() int {
	return len(_palette)
}
