package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmundy42/cobrababel/internal/config"
)

const chemPropSample = `# MetaNetX chemical properties
#MNX_ID	Description	Formula	Charge	Mass	InChI	SMILES	Source
MNXM1	H(+)	H	1	1.008	InChI=1S/p+1	[H+]	chebi:15378
MNXM2	H2O	H2O	0	18.015	InChI=1S/H2O/h1H2	O	chebi:15377
MNXM3	short row
`

const reacPropSample = `#MNX_ID	Equation	Description	Balance	EC	Source
MNXR1	1 MNXM2@MNXD1 = 1 MNXM2@MNXD2	water transport	true		rhea:35	extra
MNXR2	1 MNXM1@MNXD1 + 1 MNXM2@MNXD1 = 1 MNXM3@MNXD1	hydration	true	4.2.1.1	rhea:10
`

func newMetaNetXServer() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/chem_prop.tsv", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chemPropSample))
	})
	mux.HandleFunc("/reac_prop.tsv", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(reacPropSample))
	})
	return httptest.NewServer(mux)
}

func TestMetaNetX_Metabolites(t *testing.T) {
	srv := newMetaNetXServer()
	defer srv.Close()

	client := NewMetaNetX(config.MetaNetXConfig{URL: srv.URL, Timeout: time.Second}, nil, nil)
	it, err := client.Metabolites(context.Background())
	require.NoError(t, err)

	records := drain(t, it)
	require.Len(t, records, 2) // the short row is skipped

	assert.Equal(t, "MNXM1", records[0]["MNX_ID"])
	assert.Equal(t, "H(+)", records[0]["Description"])
	assert.Equal(t, "1", records[0]["Charge"])
	assert.Equal(t, "chebi:15378", records[0]["Source"])
	assert.Equal(t, "H2O", records[1]["Formula"])
}

func TestMetaNetX_ReactionsSkipWrongColumnCount(t *testing.T) {
	srv := newMetaNetXServer()
	defer srv.Close()

	client := NewMetaNetX(config.MetaNetXConfig{URL: srv.URL, Timeout: time.Second}, nil, nil)
	it, err := client.Reactions(context.Background())
	require.NoError(t, err)

	records := drain(t, it)
	require.Len(t, records, 1) // MNXR1 has an extra column

	assert.Equal(t, "MNXR2", records[0]["MNX_ID"])
	assert.Equal(t, "1 MNXM1@MNXD1 + 1 MNXM2@MNXD1 = 1 MNXM3@MNXD1", records[0]["Equation"])
	assert.Equal(t, "4.2.1.1", records[0]["EC"])
}

func TestTSVIterator_CancelledContext(t *testing.T) {
	it := newTSVIterator([]byte("a\tb\n"), []string{"X", "Y"}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := it.Next(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
