package suffix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmundy42/cobrababel/pkg/errors"
)

func TestDetect(t *testing.T) {
	assert.Equal(t, ConventionBiGG, Detect("glc_D[c]"))
	assert.Equal(t, ConventionModelSEED, Detect("glc_D_c"))
	assert.Equal(t, ConventionUnknown, Detect("cpd00027"))
	assert.Equal(t, ConventionUnknown, Detect("glc_D[z]"))
}

func TestSplit(t *testing.T) {
	base, compartment, ok := Split("atp[m]")
	require.True(t, ok)
	assert.Equal(t, "atp", base)
	assert.Equal(t, "m", compartment)

	base, compartment, ok = Split("cpd00002_e")
	require.True(t, ok)
	assert.Equal(t, "cpd00002", base)
	assert.Equal(t, "e", compartment)

	base, compartment, ok = Split("MNXM2")
	assert.False(t, ok)
	assert.Equal(t, "MNXM2", base)
	assert.Empty(t, compartment)
}

func TestTranslate(t *testing.T) {
	out, err := Translate("glc_D[c]", ConventionModelSEED)
	require.NoError(t, err)
	assert.Equal(t, "glc_D_c", out)

	out, err = Translate("glc_D_c", ConventionBiGG)
	require.NoError(t, err)
	assert.Equal(t, "glc_D[c]", out)
}

// Translating to the alternate convention and back yields the original
// identifier for every supported convention pair.
func TestTranslate_RoundTrip(t *testing.T) {
	cases := []struct {
		id  string
		via Convention
	}{
		{"glc_D[c]", ConventionModelSEED},
		{"atp[m]", ConventionModelSEED},
		{"h2o[e]", ConventionModelSEED},
		{"cpd00001_c", ConventionBiGG},
		{"cpd00067_e", ConventionBiGG},
	}
	for _, tc := range cases {
		there, err := Translate(tc.id, tc.via)
		require.NoError(t, err, tc.id)
		back, err := Translate(there, Detect(tc.id))
		require.NoError(t, err, tc.id)
		assert.Equal(t, tc.id, back)
	}
}

func TestTranslate_NoMatchReturnsInputWithSignal(t *testing.T) {
	out, err := Translate("MNXM2", ConventionBiGG)
	assert.Equal(t, "MNXM2", out)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeSuffixNoMatch))
}

func TestTranslate_BadConvention(t *testing.T) {
	out, err := Translate("glc_D[c]", Convention("kegg"))
	assert.Equal(t, "glc_D[c]", out)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeSuffixBadConvention))
}

func TestTranslate_SameConventionIsIdentity(t *testing.T) {
	out, err := Translate("glc_D_c", ConventionModelSEED)
	require.NoError(t, err)
	assert.Equal(t, "glc_D_c", out)
}
