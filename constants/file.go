package constants

import "strings"

// TextExtensions are the deed text files picked up by batch normalization.
var TextExtensions = map[string]struct{}{
	"txt": {},
	"md":  {},
}

// ModelOutputExt is the extension of the model-output file paired with each text file.
const ModelOutputExt = "json"

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
