package compare

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmundy42/cobrababel/internal/domain/model"
)

func intPtr(v int) *int { return &v }

func modelA() *model.UniversalModel {
	return &model.UniversalModel{
		ID: "A",
		Metabolites: []*model.Metabolite{
			{ID: "atp", Name: "ATP", Formula: "C10H12N5O13P3", Charge: intPtr(-4),
				Compartments: map[string]bool{"c": true}},
			{ID: "h2o", Name: "Water", Formula: "H2O",
				Compartments: map[string]bool{"c": true, "e": true}},
		},
		Reactions: []*model.Reaction{
			{ID: "R1", Name: "ATPase", LowerBound: -1000, UpperBound: 1000,
				Stoichiometry: []model.Stoich{
					{Metabolite: "atp", Compartment: "c", Coefficient: -1},
				}},
		},
		Compartments: []*model.Compartment{{ID: "c", Name: "cytosol"}},
	}
}

func TestModels_IdenticalInputs(t *testing.T) {
	r := Models(modelA(), modelA())
	assert.True(t, r.Identical())
	assert.Equal(t, []string{"atp", "h2o"}, r.Metabolites.Common)
	assert.Empty(t, r.Metabolites.Diffs)
}

func TestModels_FindsDifferences(t *testing.T) {
	b := modelA()
	b.ID = "B"
	b.Metabolites[0].Formula = "C10H16N5O13P3" // protonated form
	b.Metabolites[1].Compartments = map[string]bool{"c": true}
	b.Metabolites = append(b.Metabolites, &model.Metabolite{ID: "nadh"})
	b.Reactions[0].UpperBound = 99999
	b.Compartments[0].Name = "cytoplasm"

	r := Models(modelA(), b)
	assert.False(t, r.Identical())

	assert.Equal(t, []string{"nadh"}, r.Metabolites.OnlySecond)
	assert.Empty(t, r.Metabolites.OnlyFirst)

	fields := make(map[string]FieldDiff)
	for _, d := range r.Metabolites.Diffs {
		fields[d.ID+"."+d.Field] = d
	}
	assert.Equal(t, "C10H12N5O13P3", fields["atp.formula"].First)
	assert.Equal(t, "C10H16N5O13P3", fields["atp.formula"].Second)
	assert.Equal(t, "c,e", fields["h2o.compartments"].First)
	assert.Equal(t, "c", fields["h2o.compartments"].Second)

	require.Len(t, r.Reactions.Diffs, 1)
	assert.Equal(t, "bounds", r.Reactions.Diffs[0].Field)
	assert.Equal(t, "[-1000, 99999]", r.Reactions.Diffs[0].Second)

	require.Len(t, r.Compartments.Diffs, 1)
	assert.Equal(t, "cytoplasm", r.Compartments.Diffs[0].Second)
}

func TestModels_ChargeNilVsSet(t *testing.T) {
	b := modelA()
	b.Metabolites[0].Charge = nil

	r := Models(modelA(), b)
	var found bool
	for _, d := range r.Metabolites.Diffs {
		if d.ID == "atp" && d.Field == "charge" {
			found = true
			assert.Equal(t, "-4", d.First)
			assert.Equal(t, "", d.Second)
		}
	}
	assert.True(t, found)
}

func TestModels_StoichiometryOrderInsensitive(t *testing.T) {
	a := modelA()
	a.Reactions[0].Stoichiometry = []model.Stoich{
		{Metabolite: "atp", Compartment: "c", Coefficient: -1},
		{Metabolite: "adp", Compartment: "c", Coefficient: 1},
	}
	b := modelA()
	b.Reactions[0].Stoichiometry = []model.Stoich{
		{Metabolite: "adp", Compartment: "c", Coefficient: 1},
		{Metabolite: "atp", Compartment: "c", Coefficient: -1},
	}

	r := Models(a, b)
	assert.Empty(t, r.Reactions.Diffs)
}

func TestWriteText(t *testing.T) {
	b := modelA()
	b.ID = "B"
	b.Compartments[0].Name = "cytoplasm"

	var buf bytes.Buffer
	require.NoError(t, Models(modelA(), b).WriteText(&buf))

	out := buf.String()
	assert.Contains(t, out, "Comparing A with B")
	assert.Contains(t, out, "Metabolites: 2 common")
	assert.Contains(t, out, `c name: "cytosol" vs "cytoplasm"`)
}
