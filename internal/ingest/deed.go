package ingest

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/minutas/constants"
)

// Deed is one discovered deed text file and its optional model-output sibling.
type Deed struct {
	// Name is the path relative to the scanned root without extension; it identifies the deed
	// in batch outputs.
	Name      string
	TextPath  string
	ModelPath string
	// Hash is the SHA-256 of the text, the same value carried as raw_text_hash.
	Hash string
	// Duplicate marks a text identical to one seen earlier by the same Scanner.
	Duplicate bool
	Err       string
}

// DirStats summarizes a directory scan.
type DirStats struct {
	Scanned      uint32
	Matched      uint32
	Succeeded    uint32
	Deduplicated uint32
	Failed       uint32
}

// modelOutputFor returns the sibling <name>.json of a text file, or "" when there is none.
func modelOutputFor(textPath string) string {
	p := strings.TrimSuffix(textPath, filepath.Ext(textPath)) + "." + constants.ModelOutputExt
	if st, err := os.Stat(p); err == nil && st.Mode().IsRegular() {
		return p
	}
	return ""
}
