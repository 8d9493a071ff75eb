package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmundy42/cobrababel/internal/config"
)

const keggReactionFlat = `ENTRY       R00001                      Reaction
NAME        polyphosphate polyphosphohydrolase
DEFINITION  Polyphosphate + n H2O <=> (n+1) Oligophosphate
EQUATION    C00404 + n C00001 <=> (n+1) C02174
ENZYME      3.6.1.10
///
ENTRY       R00002                      Reaction
NAME        Reduced ferredoxin:dinitrogen oxidoreductase;
            nitrogenase
EQUATION    8 C00138 + 8 C00080 + C00002 <=> 8 C00139 +
            C00008 + C00009
ENZYME      1.18.6.1        1.19.6.1
///
`

const keggCompoundFlat = `ENTRY       C00002                      Compound
NAME        ATP;
            Adenosine 5'-triphosphate
FORMULA     C10H16N5O13P3
REMARK      Same as: D08646
///
`

func TestParseKEGGRecords_Reactions(t *testing.T) {
	records := parseKEGGRecords(keggReactionFlat)
	require.Len(t, records, 2)

	assert.Equal(t, "R00001", records[0]["entry"])
	assert.Equal(t, "polyphosphate polyphosphohydrolase", records[0]["name"])
	assert.Equal(t, "C00404 + n C00001 <=> (n+1) C02174", records[0]["equation"])
	assert.Equal(t, []string{"3.6.1.10"}, records[0]["enzyme"])

	// Continuation lines fold into the preceding field.
	assert.Equal(t, "Reduced ferredoxin:dinitrogen oxidoreductase nitrogenase", records[1]["name"])
	assert.Equal(t, "8 C00138 + 8 C00080 + C00002 <=> 8 C00139 + C00008 + C00009", records[1]["equation"])
	assert.Equal(t, []string{"1.18.6.1", "1.19.6.1"}, records[1]["enzyme"])
}

func TestParseKEGGRecords_Compound(t *testing.T) {
	records := parseKEGGRecords(keggCompoundFlat)
	require.Len(t, records, 1)

	assert.Equal(t, "C00002", records[0]["entry"])
	assert.Equal(t, "ATP Adenosine 5'-triphosphate", records[0]["name"])
	assert.Equal(t, "C10H16N5O13P3", records[0]["formula"])
	assert.Equal(t, "Same as: D08646", records[0]["remark"])
}

func TestKEGG_IteratesInBatches(t *testing.T) {
	var getPaths []string
	mux := http.NewServeMux()
	mux.HandleFunc("/list/reaction", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("rn:R00001\tfirst\nrn:R00002\tsecond\nrn:R00003\tthird\n"))
	})
	mux.HandleFunc("/get/", func(w http.ResponseWriter, r *http.Request) {
		getPaths = append(getPaths, r.URL.Path)
		for _, q := range strings.Split(strings.TrimPrefix(r.URL.Path, "/get/"), "+") {
			id := strings.TrimPrefix(q, "reaction:")
			w.Write([]byte("ENTRY       " + id + "                      Reaction\nEQUATION    C00001 <=> C00001\n///\n"))
		}
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := NewKEGG(config.KEGGConfig{URL: srv.URL, BatchSize: 2, Timeout: time.Second}, nil, nil)
	it, err := client.Reactions(context.Background())
	require.NoError(t, err)

	records := drain(t, it)
	require.Len(t, records, 3)
	assert.Equal(t, "R00001", records[0]["entry"])
	assert.Equal(t, "R00003", records[2]["entry"])

	require.Len(t, getPaths, 2)
	assert.Equal(t, "/get/reaction:R00001+reaction:R00002", getPaths[0])
	assert.Equal(t, "/get/reaction:R00003", getPaths[1])
}

func TestKEGG_ListIDs(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/list/compound", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("cpd:C00001\tH2O\ncpd:C00002\tATP\n"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := NewKEGG(config.KEGGConfig{URL: srv.URL, Timeout: time.Second}, nil, nil)
	ids, err := client.ListIDs(context.Background(), "compound")
	require.NoError(t, err)
	assert.Equal(t, []string{"C00001", "C00002"}, ids)
}
