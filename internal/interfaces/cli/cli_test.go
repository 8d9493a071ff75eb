package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmundy42/cobrababel/internal/config"
	"github.com/mmundy42/cobrababel/internal/domain/model"
	"github.com/mmundy42/cobrababel/internal/infrastructure/cache"
	"github.com/mmundy42/cobrababel/internal/infrastructure/monitoring/logging"
)

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func buildTestModel(t *testing.T, id string, charge int) *model.UniversalModel {
	t.Helper()
	acc := model.NewAccumulator(id, "Test model "+id, nil)
	require.NoError(t, acc.AddCompartment(model.Compartment{ID: "c", Name: "cytosol"}, "bigg"))
	require.NoError(t, acc.AddMetabolite(model.MetaboliteRecord{
		ID: "atp", Name: "ATP", Formula: "C10H12N5O13P3", Charge: &charge,
		Compartment: "c", Source: "bigg",
	}))
	require.NoError(t, acc.AddReaction(model.ReactionRecord{
		ID: "ATPASE", Name: "ATPase",
		Stoichiometry: []model.Stoich{
			{Metabolite: "atp", Compartment: "c", Coefficient: -1},
			{Metabolite: "adp", Compartment: "c", Coefficient: 1},
		},
		LowerBound: 0, UpperBound: 1000,
		Source: "bigg",
	}))
	return acc.Finalize()
}

func writeTestModel(t *testing.T, dir, name string, m *model.UniversalModel) string {
	t.Helper()
	data, err := json.Marshal(m)
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestCompareCmd_IdenticalModels(t *testing.T) {
	dir := t.TempDir()
	m := buildTestModel(t, "universal", -4)
	a := writeTestModel(t, dir, "a.json", m)
	b := writeTestModel(t, dir, "b.json", m)

	stdout, _, err := execute(t, "compare", a, b)

	require.NoError(t, err)
	assert.Contains(t, stdout, "identical")
}

func TestCompareCmd_FailOnDiff(t *testing.T) {
	dir := t.TempDir()
	a := writeTestModel(t, dir, "a.json", buildTestModel(t, "first", -4))
	b := writeTestModel(t, dir, "b.json", buildTestModel(t, "second", -3))

	_, _, err := execute(t, "compare", "--fail-on-diff", a, b)

	assert.ErrorIs(t, err, errModelsDiffer)
}

func TestExportCmd_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := writeTestModel(t, dir, "model.json", buildTestModel(t, "universal", -4))
	outPath := filepath.Join(dir, "cobra.json")

	_, _, err := execute(t, "export", path, "-o", outPath)
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "universal", doc["id"])
	assert.NotEmpty(t, doc["metabolites"])
}

func TestExportCmd_RequiresInput(t *testing.T) {
	_, _, err := execute(t, "export")
	assert.Error(t, err)
}

func TestMergeCmd_CombinesModels(t *testing.T) {
	dir := t.TempDir()
	a := writeTestModel(t, dir, "a.json", buildTestModel(t, "first", -4))
	b := writeTestModel(t, dir, "b.json", buildTestModel(t, "second", -3))
	outPath := filepath.Join(dir, "merged.json")

	_, stderr, err := execute(t, "merge", a, b, "-o", outPath, "--model-id", "combined")
	require.NoError(t, err)
	assert.Contains(t, stderr, "combined")

	merged, err := readModelFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "combined", merged.ID)
	require.Len(t, merged.Metabolites, 2)
	atp, ok := merged.Metabolite("atp")
	require.True(t, ok)
	require.NotNil(t, atp.Charge)
	assert.Equal(t, -4, *atp.Charge)
}

func TestTranslateCmd_RewritesIdentifiers(t *testing.T) {
	dir := t.TempDir()
	path := writeTestModel(t, dir, "model.json", buildTestModel(t, "universal", -4))
	xrefPath := filepath.Join(dir, "xref.tsv")
	xref := "#ID\tMNX_ID\nbigg:atp\tMNXM3\nbigg:adp\tMNXM7\nbigg:ATPASE\tMNXR100\n"
	require.NoError(t, os.WriteFile(xrefPath, []byte(xref), 0o644))
	outPath := filepath.Join(dir, "translated.json")

	_, _, err := execute(t, "translate", path, "--xref", xrefPath, "--from", "bigg", "-o", outPath)
	require.NoError(t, err)

	translated, err := readModelFile(outPath)
	require.NoError(t, err)
	_, ok := translated.Metabolite("MNXM3")
	assert.True(t, ok)
	_, ok = translated.Reaction("MNXR100")
	assert.True(t, ok)
}

func TestTranslateCmd_RequiresFlags(t *testing.T) {
	_, _, err := execute(t, "translate", "model.json")
	assert.Error(t, err)
}

func TestNewSource_KnownAndUnknown(t *testing.T) {
	cfg := config.Default()
	logger := logging.NewNopLogger()
	c := cache.NewNop()

	for _, name := range []string{"bigg", "metanetx", "kegg"} {
		src, err := newSource(name, cfg, c, logger)
		require.NoError(t, err)
		assert.Equal(t, name, src.Name())
	}

	_, err := newSource("modelseed", cfg, c, logger)
	assert.Error(t, err)
}

func TestReadModelFile_BadInput(t *testing.T) {
	_, err := readModelFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	_, err = readModelFile(path)
	assert.Error(t, err)
}

func TestWriteOutput_Stdout(t *testing.T) {
	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)

	require.NoError(t, writeOutput(cmd, "", []byte("hello\n")))
	assert.Equal(t, "hello\n", out.String())
}
