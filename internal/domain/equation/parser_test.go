package equation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmundy42/cobrababel/pkg/errors"
)

func parse(t *testing.T, text string) *Equation {
	t.Helper()
	eq, err := NewParser(Options{}).Parse(text)
	require.NoError(t, err)
	return eq
}

func TestParse_Simple(t *testing.T) {
	eq := parse(t, "1 A + 1 B = 1 C")
	require.Len(t, eq.Left, 2)
	require.Len(t, eq.Right, 1)
	assert.Equal(t, Term{Coefficient: 1, Metabolite: "A"}, eq.Left[0])
	assert.Equal(t, Term{Coefficient: 1, Metabolite: "B"}, eq.Left[1])
	assert.Equal(t, Term{Coefficient: 1, Metabolite: "C"}, eq.Right[0])
	assert.Equal(t, Reversible, eq.Direction)
}

func TestParse_OmittedCoefficientDefaultsToOne(t *testing.T) {
	eq := parse(t, "A + 2 B = C")
	assert.Equal(t, 1.0, eq.Left[0].Coefficient)
	assert.Equal(t, 2.0, eq.Left[1].Coefficient)
	assert.Equal(t, 1.0, eq.Right[0].Coefficient)
}

func TestParse_FractionalCoefficient(t *testing.T) {
	eq := parse(t, "0.5 o2 + h2 = h2o")
	assert.Equal(t, 0.5, eq.Left[0].Coefficient)
}

func TestParse_CompartmentTags(t *testing.T) {
	eq := parse(t, "1 glc_D@e = 1 glc_D@c")
	assert.Equal(t, "glc_D", eq.Left[0].Metabolite)
	assert.Equal(t, "e", eq.Left[0].Compartment)
	assert.Equal(t, "glc_D_e", eq.Left[0].Qualified())
	assert.Equal(t, "glc_D_c", eq.Right[0].Qualified())
}

func TestParse_Arrows(t *testing.T) {
	assert.Equal(t, Reversible, parse(t, "A <=> B").Direction)
	assert.Equal(t, Forward, parse(t, "A => B").Direction)
	assert.Equal(t, Reverse, parse(t, "A <= B").Direction)
	assert.Equal(t, Reversible, parse(t, "A = B").Direction)
}

func TestParse_SymbolicCoefficientRejectsWholeEquation(t *testing.T) {
	_, err := NewParser(Options{}).Parse("(2n) A + 1 B = 1 C")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeEquationUnresolved))

	_, err = NewParser(Options{}).Parse("n A = B")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeEquationUnresolved))
}

func TestParse_UndefinedMetaboliteReference(t *testing.T) {
	known := map[string]bool{"A": true, "B": true}
	p := NewParser(Options{Resolve: func(id string) bool { return known[id] }})

	_, err := p.Parse("1 A + 1 BIOMASS = 1 B")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeEquationUndefinedMet))

	eq, err := p.Parse("1 A = 1 B")
	require.NoError(t, err)
	assert.Len(t, eq.Left, 1)
}

func TestParse_Malformed(t *testing.T) {
	p := NewParser(Options{})
	for _, text := range []string{"", "A + B", "1 2 A = B"} {
		_, err := p.Parse(text)
		require.Error(t, err, text)
		assert.True(t, errors.IsCode(err, errors.ErrCodeEquationMalformed), text)
	}
}

func TestParse_DelimiterInsideIdentifier(t *testing.T) {
	p := NewParser(Options{CompartmentDelimiter: "_"})

	eq, err := p.Parse("atp_c + glc__D_c <=> adp_c + g6p_c + h_c")
	require.NoError(t, err)
	require.Len(t, eq.Left, 2)
	assert.Equal(t, Term{Coefficient: 1, Metabolite: "atp", Compartment: "c"}, eq.Left[0])
	assert.Equal(t, Term{Coefficient: 1, Metabolite: "glc__D", Compartment: "c"}, eq.Left[1])

	eq, err = p.Parse("26dap__M_c + h_c => co2_c + lys__L_c")
	require.NoError(t, err)
	assert.Equal(t, "26dap__M", eq.Left[0].Metabolite)
	assert.Equal(t, "lys__L", eq.Right[1].Metabolite)
	assert.Equal(t, "c", eq.Right[1].Compartment)
}

func TestParse_OneSidedEquations(t *testing.T) {
	p := NewParser(Options{CompartmentDelimiter: "_"})

	eq, err := p.Parse("glc__D_e <=>")
	require.NoError(t, err)
	require.Len(t, eq.Left, 1)
	assert.Empty(t, eq.Right)
	assert.Equal(t, "glc__D", eq.Left[0].Metabolite)
	assert.Equal(t, "e", eq.Left[0].Compartment)
	assert.Equal(t, Reversible, eq.Direction)

	eq, err = p.Parse("=> h_e")
	require.NoError(t, err)
	assert.Empty(t, eq.Left)
	require.Len(t, eq.Right, 1)
	assert.Equal(t, Forward, eq.Direction)

	_, err = p.Parse("<=>")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeEquationMalformed))
}

func TestStoichiometry(t *testing.T) {
	eq := parse(t, "2 MNXM2 + 2 MNXM947 = 1 MNXM4 + 2 MNXM470")
	coeffs := eq.Stoichiometry()
	assert.Equal(t, map[string]float64{
		"MNXM2":   -2,
		"MNXM947": -2,
		"MNXM4":   1,
		"MNXM470": 2,
	}, coeffs)
}

func TestStoichiometry_SameMetaboliteBothSidesNets(t *testing.T) {
	eq := parse(t, "2 A = 1 A + 1 B")
	coeffs := eq.Stoichiometry()
	assert.Equal(t, -1.0, coeffs["A"])
	assert.Equal(t, 1.0, coeffs["B"])
}

func TestParse_CustomDelimiter(t *testing.T) {
	p := NewParser(Options{CompartmentDelimiter: "!"})
	eq, err := p.Parse("1 atp!c = 1 adp!c")
	require.NoError(t, err)
	assert.Equal(t, "atp_c", eq.Left[0].Qualified())
}
