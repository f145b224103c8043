package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfidenceRaiseAndCap(t *testing.T) {
	var c Confidence
	c.Raise("a", 0.7, 0.9)
	assert.InDelta(t, 0.9, c.Fields["a"], 1e-9)

	c.Fields["b"] = 0.95
	c.Raise("b", 0.7, 0.9)
	assert.InDelta(t, 0.95, c.Fields["b"], 1e-9, "raise never lowers")

	c.Cap("c", 0.6, 0.4)
	assert.InDelta(t, 0.4, c.Fields["c"], 1e-9)

	c.Fields["d"] = 0.1
	c.Cap("d", 0.6, 0.4)
	assert.InDelta(t, 0.1, c.Fields["d"], 1e-9, "cap never raises")
}

func TestLongestEvidence(t *testing.T) {
	p := PersonCandidate{Evidence: map[string]Evidence{
		"a": {Text: "short"},
		"b": {Text: "the longest snippet"},
		"c": {Text: "middle one"},
	}}
	assert.Equal(t, "the longest snippet", p.LongestEvidence())
	assert.Equal(t, "", (&PersonCandidate{}).LongestEvidence())
}

func TestPartiesList(t *testing.T) {
	var p Parties
	*p.List(RoleBeneficiary) = append(*p.List(RoleBeneficiary), PersonCandidate{GivenNames: "X"})
	assert.Len(t, p.Beneficiaries, 1)
	assert.Empty(t, p.Grantors)
	assert.Equal(t, "indeterminados", RoleUndetermined.Key())
}

func TestEmptyPayloadEncodesEmptyLists(t *testing.T) {
	b, err := json.Marshal(EmptyPayload())
	require.NoError(t, err)
	assert.Contains(t, string(b), `"otorgantes":[]`)
	assert.Contains(t, string(b), `"transferencia":[]`)
	assert.Contains(t, string(b), `"bienes":[]`)
}
