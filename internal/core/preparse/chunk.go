package preparse

import (
	"regexp"
	"strings"
	"unicode"
)

var reChunkSplit = regexp.MustCompile(`(?i)(?:;\s*|\n+|\s+y\s+|\s*,\s*y\s+)`)

// Chunk is a run of zone text believed to describe one person.
type Chunk struct {
	Text  string
	Start int // byte offset inside the zone
	End   int
	IDs   int // national-ID matches
	named bool
}

// SplitChunks cuts a zone on semicolons, newlines and the conjunction "y", then regroups the
// pieces so that one person's trailing details ("y pasaporte ...", "con domicilio en ...")
// stay with the piece carrying their ID. A piece opens a new chunk when it carries an ID and
// the current chunk already has one, when it starts with a name-like uppercase run, or when
// it carries an ID and the current chunk is unnamed preamble.
func SplitChunks(zone string) []Chunk {
	var out []Chunk
	for _, pc := range splitPieces(zone) {
		txt := zone[pc[0]:pc[1]]
		ids := len(ReNationalID.FindAllStringIndex(txt, -1))
		named := startsWithName(txt)

		var cur *Chunk
		if len(out) > 0 {
			cur = &out[len(out)-1]
		}
		attach := false
		switch {
		case cur == nil:
		case ids > 0:
			attach = cur.IDs == 0 && cur.named
		case named:
		default:
			attach = true
		}

		if attach {
			cur.End = pc[1]
			cur.Text = zone[cur.Start:cur.End]
			cur.IDs += ids
			continue
		}
		out = append(out, Chunk{Text: txt, Start: pc[0], End: pc[1], IDs: ids, named: named})
	}
	return out
}

func splitPieces(zone string) [][2]int {
	var pieces [][2]int
	prev := 0
	add := func(start, end int) {
		for start < end && isASCIISpace(zone[start]) {
			start++
		}
		for end > start && isASCIISpace(zone[end-1]) {
			end--
		}
		if start < end {
			pieces = append(pieces, [2]int{start, end})
		}
	}
	for _, sep := range reChunkSplit.FindAllStringIndex(zone, -1) {
		add(prev, sep[0])
		prev = sep[1]
	}
	add(prev, len(zone))
	return pieces
}

func startsWithName(s string) bool {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	loc := ReUpperName.FindStringIndex(s)
	if loc == nil || loc[0] != 0 {
		return false
	}
	return LooksLikeName(s[loc[0]:loc[1]])
}

func isASCIISpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\v' || b == '\f'
}
