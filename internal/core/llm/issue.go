package llm

import "fmt"

// IssueKind classifies why a model-output field was coerced or dropped.
type IssueKind string

const (
	IssueMissing      IssueKind = "missing"
	IssueTypeMismatch IssueKind = "type_mismatch"
	IssueInvalidSpan  IssueKind = "invalid_span"
	IssueNotNumeric   IssueKind = "not_numeric"
	IssueNotObject    IssueKind = "not_object"
)

// Issue is one classified parse outcome for a field path such as
// "generales_ley.otorgantes[0].evidence.nombres".
type Issue struct {
	Path string    `json:"path"`
	Kind IssueKind `json:"kind"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s", i.Path, i.Kind)
}

// IssuePaths renders issues for logging.
func IssuePaths(issues []Issue) []string {
	out := make([]string, 0, len(issues))
	for _, i := range issues {
		out = append(out, i.String())
	}
	return out
}
