package probe

import "strings"

const (
	defaultStripSuffix  = ".pdf"
	defaultMarkerSuffix = "_searchable.pdf"
)

// Renamer derives the identifier the processing step writes its output under.
type Renamer interface {
	Rename(identifier string) string
}

// SuffixRenamer strips Strip (case-insensitive) from the end of the identifier
// and appends Marker. An identifier without the suffix keeps its full name.
type SuffixRenamer struct {
	Strip  string
	Marker string
}

// DefaultRenamer turns "doc.pdf" into "doc_searchable.pdf".
func DefaultRenamer() SuffixRenamer {
	return SuffixRenamer{Strip: defaultStripSuffix, Marker: defaultMarkerSuffix}
}

func (r SuffixRenamer) Rename(identifier string) string {
	base := identifier
	if r.Strip != "" && len(base) >= len(r.Strip) &&
		strings.EqualFold(base[len(base)-len(r.Strip):], r.Strip) {
		base = base[:len(base)-len(r.Strip)]
	}
	return base + r.Marker
}
