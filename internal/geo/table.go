// Package geo resolves department/province/district names to six-digit location codes
// (ubigeo) against a reference table fetched from an online source and cached.
package geo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/joseph-ayodele/minutas/internal/textutil"
)

var (
	rePunct   = regexp.MustCompile("[.,;:()\"'“”´`]+")
	reSixCode = regexp.MustCompile(`^\d{6}$`)
	reDigits  = regexp.MustCompile(`^\d{1,6}$`)
)

// containerKeys hold the row list when the source wraps it in an object.
var containerKeys = []string{"data", "items", "ubigeos", "results", "result", "rows", "list"}

// departmentAliases fold metropolitan-area spellings to the core name.
var departmentAliases = map[string]string{
	"LIMA METROPOLITANA":   "LIMA",
	"LIMA - METROPOLITANA": "LIMA",
	"PROVINCIA DE LIMA":    "LIMA",
}

// Row is one reference entry.
type Row struct {
	Department string `json:"departamento"`
	Province   string `json:"provincia"`
	District   string `json:"distrito"`
	Code       string `json:"ubigeo"`
}

// Table is the parsed reference table with precomputed comparison keys.
type Table struct {
	rows []Row
	keys []rowKey
}

type rowKey struct {
	department, province, district string
}

// NewTable indexes rows. Rows without a six-digit code are dropped.
func NewTable(rows []Row) *Table {
	t := &Table{
		rows: make([]Row, 0, len(rows)),
		keys: make([]rowKey, 0, len(rows)),
	}
	for _, r := range rows {
		r.Code = canonicalCode(r.Code)
		if r.Code == "" {
			continue
		}
		t.rows = append(t.rows, r)
		t.keys = append(t.keys, rowKey{
			department: Alias(r.Department),
			province:   Alias(r.Province),
			district:   Norm(r.District),
		})
	}
	return t
}

// Len is the number of indexed rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// Rows returns a copy of the indexed rows.
func (t *Table) Rows() []Row {
	if t == nil {
		return nil
	}
	return append([]Row(nil), t.rows...)
}

// Find looks up the code of a triple. Order: exact triple; then the province may equal the
// department (single-province departments); then exact department and province with the
// district contained in the row's district. Department and province are never relaxed
// beyond that.
func (t *Table) Find(department, province, district string) (string, bool) {
	if t == nil {
		return "", false
	}
	dep, prov, dist := Alias(department), Alias(province), Norm(district)
	if dep == "" || prov == "" || dist == "" {
		return "", false
	}
	matchers := []func(k rowKey) bool{
		func(k rowKey) bool { return k.department == dep && k.province == prov && k.district == dist },
		func(k rowKey) bool {
			return k.department == dep && (k.province == prov || k.province == dep) && k.district == dist
		},
		func(k rowKey) bool {
			return k.department == dep && k.province == prov && strings.Contains(k.district, dist)
		},
	}
	for _, match := range matchers {
		for i, k := range t.keys {
			if match(k) {
				return t.rows[i].Code, true
			}
		}
	}
	return "", false
}

// Norm is the comparison form of a place name: no diacritics, punctuation turned into
// spaces, upper case.
func Norm(s string) string {
	s = textutil.StripDiacritics(s)
	s = rePunct.ReplaceAllString(s, " ")
	return textutil.Key(s)
}

// Alias is Norm plus the department/province alias fold.
func Alias(s string) string {
	n := Norm(s)
	if a, ok := departmentAliases[n]; ok {
		return a
	}
	return n
}

// canonicalCode zero-pads numeric codes that lost their leading zero and rejects anything
// that is not six digits.
func canonicalCode(code string) string {
	code = strings.TrimSpace(code)
	if reDigits.MatchString(code) && len(code) < 6 {
		code = strings.Repeat("0", 6-len(code)) + code
	}
	if !reSixCode.MatchString(code) {
		return ""
	}
	return code
}

// ParseTable reads any of the shapes the source has been seen to return: a row list, a
// department -> province -> district tree whose leaves carry "ubigeo", an object wrapping
// the list under a container key, or an object keyed by code. Anything else yields an
// empty table.
func ParseTable(data []byte) (*Table, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode ubigeo table: %w", err)
	}
	return NewTable(rowsOf(doc)), nil
}

func rowsOf(doc any) []Row {
	switch v := doc.(type) {
	case []any:
		return listRows(v)
	case map[string]any:
		if isTree(v) {
			return treeRows(v)
		}
		for _, k := range containerKeys {
			if list, ok := v[k].([]any); ok {
				return listRows(list)
			}
		}
		return codeKeyedRows(v)
	}
	return nil
}

func listRows(list []any) []Row {
	out := make([]Row, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			out = append(out, rowOf(m, ""))
		}
	}
	return out
}

// isTree peeks at the first branch of each level, the way the tree shape is recognized.
func isTree(m map[string]any) bool {
	provs, ok := firstValue(m).(map[string]any)
	if !ok {
		return false
	}
	dists, ok := firstValue(provs).(map[string]any)
	if !ok {
		return false
	}
	leaf, ok := firstValue(dists).(map[string]any)
	if !ok {
		return false
	}
	_, has := leaf["ubigeo"]
	return has
}

// firstValue returns the value under the smallest key, so detection is deterministic.
func firstValue(m map[string]any) any {
	first := ""
	found := false
	for k := range m {
		if !found || k < first {
			first, found = k, true
		}
	}
	if !found {
		return nil
	}
	return m[first]
}

func treeRows(tree map[string]any) []Row {
	var out []Row
	for dep, p := range tree {
		provs, ok := p.(map[string]any)
		if !ok {
			continue
		}
		for prov, d := range provs {
			dists, ok := d.(map[string]any)
			if !ok {
				continue
			}
			for dist, leaf := range dists {
				payload, ok := leaf.(map[string]any)
				if !ok {
					continue
				}
				out = append(out, Row{
					Department: dep,
					Province:   prov,
					District:   dist,
					Code:       scalar(payload["ubigeo"]),
				})
			}
		}
	}
	sortByCode(out)
	return out
}

func codeKeyedRows(m map[string]any) []Row {
	out := make([]Row, 0, len(m))
	for code, v := range m {
		row, ok := v.(map[string]any)
		if !ok {
			return nil
		}
		out = append(out, rowOf(row, code))
	}
	sortByCode(out)
	return out
}

// sortByCode fixes the order of rows built from JSON objects.
func sortByCode(rows []Row) {
	slices.SortStableFunc(rows, func(a, b Row) int { return strings.Compare(a.Code, b.Code) })
}

func rowOf(m map[string]any, defaultCode string) Row {
	r := Row{
		Department: scalar(m["departamento"]),
		Province:   scalar(m["provincia"]),
		District:   scalar(m["distrito"]),
		Code:       scalar(m["ubigeo"]),
	}
	if r.Code == "" {
		r.Code = defaultCode
	}
	return r
}

func scalar(v any) string {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case json.Number:
		return x.String()
	case nil:
		return ""
	default:
		return fmt.Sprint(x)
	}
}
