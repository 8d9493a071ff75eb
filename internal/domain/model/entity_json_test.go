package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetabolite_JSONRoundTrip(t *testing.T) {
	charge := -4
	in := &Metabolite{
		ID:           "atp",
		Name:         "ATP",
		Formula:      "C10H12N5O13P3",
		Charge:       &charge,
		Compartments: map[string]bool{"e": true, "c": true},
		Aliases:      map[string][]string{"kegg": {"C00002"}},
		Notes:        map[string]string{"mass": "503.15"},
		Source:       "bigg",
	}

	data, err := json.Marshal(in)
	require.NoError(t, err)
	// Sorted list form, not the internal set.
	assert.Contains(t, string(data), `"compartments":["c","e"]`)

	var out Metabolite
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in.ID, out.ID)
	assert.Equal(t, in.Compartments, out.Compartments)
	assert.Equal(t, in.Aliases, out.Aliases)
	assert.Equal(t, -4, *out.Charge)
}

func TestUniversalModel_JSONRoundTrip(t *testing.T) {
	acc := NewAccumulator("universal", "Universal", nil)
	require.NoError(t, acc.AddMetabolite(MetaboliteRecord{ID: "atp", Compartment: "c", Source: "bigg"}))
	require.NoError(t, acc.AddReaction(ReactionRecord{
		ID: "R1",
		Stoichiometry: []Stoich{
			{Metabolite: "atp", Compartment: "c", Coefficient: -1},
			{Metabolite: "adp", Compartment: "c", Coefficient: 1},
		},
		LowerBound: -1000, UpperBound: 1000,
		Source: "bigg",
	}))
	in := acc.Finalize()

	data, err := json.Marshal(in)
	require.NoError(t, err)

	var out UniversalModel
	require.NoError(t, json.Unmarshal(data, &out))
	out.Reindex()

	assert.Equal(t, in.ID, out.ID)
	require.Len(t, out.Metabolites, 2)
	atp, ok := out.Metabolite("atp")
	require.True(t, ok)
	assert.True(t, atp.Compartments["c"])
	r1, ok := out.Reaction("R1")
	require.True(t, ok)
	assert.Len(t, r1.Stoichiometry, 2)
}
