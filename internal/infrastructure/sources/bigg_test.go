package sources

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmundy42/cobrababel/internal/config"
	"github.com/mmundy42/cobrababel/internal/domain/normalize"
)

func newBiGGServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/universal/metabolites", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": [{"bigg_id": "atp"}]}`))
	})
	mux.HandleFunc("/universal/metabolites/atp", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"bigg_id": "atp",
			"name": "ATP C10H12N5O13P3",
			"formulae": ["C10H12N5O13P3"],
			"charges": [-4],
			"compartments_in_models": [
				{"bigg_id": "c", "model_bigg_id": "e_coli_core", "compartment_name": "cytosol"},
				{"bigg_id": "c", "model_bigg_id": "iJO1366", "compartment_name": "cytosol"},
				{"bigg_id": "e", "model_bigg_id": "iJO1366", "compartment_name": "extracellular space"}
			]
		}`))
	})
	mux.HandleFunc("/universal/reactions", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": [{"bigg_id": "ATPM"}]}`))
	})
	mux.HandleFunc("/universal/reactions/ATPM", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"bigg_id": "ATPM",
			"name": "ATP maintenance requirement",
			"reaction_string": "atp_c + h2o_c &#8652; adp_c + h_c + pi_c",
			"results": [
				{"model_bigg_id": "e_coli_core", "lower_bound": 8.39, "upper_bound": 1000.0},
				{"model_bigg_id": "iJO1366", "lower_bound": 3.15, "upper_bound": 1000.0}
			]
		}`))
	})
	mux.HandleFunc("/database_version", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"bigg_models_version": "1.5", "last_updated": "2019-10-31"}`))
	})
	return httptest.NewServer(mux)
}

func newBiGGClient(url string) *BiGG {
	return NewBiGG(config.BiGGConfig{URL: url, Timeout: time.Second}, nil, nil)
}

func drain(t *testing.T, it interface {
	Next(context.Context) (normalize.Record, error)
	Close() error
}) []normalize.Record {
	t.Helper()
	defer it.Close()
	var out []normalize.Record
	for {
		rec, err := it.Next(context.Background())
		if err == io.EOF {
			return out
		}
		require.NoError(t, err)
		out = append(out, rec)
	}
}

func TestBiGG_MetabolitesOneRecordPerCompartment(t *testing.T) {
	srv := newBiGGServer(t)
	defer srv.Close()

	it, err := newBiGGClient(srv.URL).Metabolites(context.Background())
	require.NoError(t, err)
	records := drain(t, it)
	require.Len(t, records, 2)

	assert.Equal(t, "atp", records[0]["bigg_id"])
	assert.Equal(t, "C10H12N5O13P3", records[0]["formula"])
	assert.Equal(t, -4.0, records[0]["charge"])
	assert.Equal(t, "c", records[0]["compartment"])
	assert.Equal(t, "cytosol", records[0]["compartment_name"])
	assert.Equal(t, "e", records[1]["compartment"])
	assert.Equal(t, "extracellular space", records[1]["compartment_name"])
}

func TestBiGG_ReactionsNormalizeArrow(t *testing.T) {
	srv := newBiGGServer(t)
	defer srv.Close()

	it, err := newBiGGClient(srv.URL).Reactions(context.Background())
	require.NoError(t, err)
	records := drain(t, it)
	require.Len(t, records, 1)

	assert.Equal(t, "ATPM", records[0]["bigg_id"])
	assert.Equal(t, "atp_c + h2o_c <=> adp_c + h_c + pi_c", records[0]["reaction_string"])
}

func TestBiGG_ReactionLiftsModelBounds(t *testing.T) {
	srv := newBiGGServer(t)
	defer srv.Close()

	it, err := newBiGGClient(srv.URL).Reactions(context.Background())
	require.NoError(t, err)
	records := drain(t, it)
	require.Len(t, records, 1)

	// The first model instance's explicit bounds take precedence over the
	// arrow-derived defaults downstream.
	assert.Equal(t, 8.39, records[0]["lower_bound"])
	assert.Equal(t, 1000.0, records[0]["upper_bound"])
}

func TestBiGG_DatabaseVersion(t *testing.T) {
	srv := newBiGGServer(t)
	defer srv.Close()

	version, updated, err := newBiGGClient(srv.URL).DatabaseVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1.5", version)
	assert.Equal(t, "2019-10-31", updated)
}

func TestNormalizeArrows(t *testing.T) {
	assert.Equal(t, "a <=> b", normalizeArrows("a ⇌ b"))
	assert.Equal(t, "a <=> b", normalizeArrows("a <-> b"))
	assert.Equal(t, "a => b", normalizeArrows("a --> b"))
	assert.Equal(t, "a <= b", normalizeArrows("a <-- b"))
}
