package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
)

var (
	reOpenFence  = regexp.MustCompile("(?i)^```(?:json)?\\s*")
	reCloseFence = regexp.MustCompile("\\s*```$")
)

// DecodeModelOutput parses the raw model reply. Markdown code fences are stripped; when the
// reply still is not valid JSON, the outermost {...} block is tried before giving up.
func DecodeModelOutput(data []byte) (any, error) {
	cleaned := bytes.TrimSpace(data)
	if len(cleaned) == 0 {
		return nil, fmt.Errorf("empty model output")
	}
	cleaned = reOpenFence.ReplaceAll(cleaned, nil)
	cleaned = reCloseFence.ReplaceAll(cleaned, nil)

	var doc any
	err := json.Unmarshal(cleaned, &doc)
	if err == nil {
		return doc, nil
	}
	start, end := bytes.IndexByte(cleaned, '{'), bytes.LastIndexByte(cleaned, '}')
	if start >= 0 && end > start {
		if json.Unmarshal(cleaned[start:end+1], &doc) == nil {
			return doc, nil
		}
	}
	return nil, fmt.Errorf("model output is not valid JSON: %w", err)
}
