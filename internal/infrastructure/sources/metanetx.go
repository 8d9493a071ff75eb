package sources

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/mmundy42/cobrababel/internal/application/build"
	"github.com/mmundy42/cobrababel/internal/config"
	"github.com/mmundy42/cobrababel/internal/domain/normalize"
	"github.com/mmundy42/cobrababel/internal/infrastructure/cache"
	"github.com/mmundy42/cobrababel/internal/infrastructure/monitoring/logging"
)

// chemPropColumns and reacPropColumns name the tab-separated columns of the
// MetaNetX property files, in file order.
var (
	chemPropColumns = []string{"MNX_ID", "Description", "Formula", "Charge", "Mass", "InChI", "SMILES", "Source"}
	reacPropColumns = []string{"MNX_ID", "Equation", "Description", "Balance", "EC", "Source"}
)

// MetaNetX retrieves universal metabolites and reactions from the MetaNetX
// property files.  Each file is one TSV download; rows with a wrong column
// count are skipped rather than failing the whole file.
type MetaNetX struct {
	cfg     config.MetaNetXConfig
	fetcher *Fetcher
	logger  logging.Logger
}

// NewMetaNetX builds a MetaNetX client.
func NewMetaNetX(cfg config.MetaNetXConfig, c cache.Cache, logger logging.Logger) *MetaNetX {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &MetaNetX{
		cfg:     cfg,
		fetcher: NewFetcher(cfg.Timeout, c, logger),
		logger:  logger.Named("metanetx"),
	}
}

// Name returns the source tag.
func (m *MetaNetX) Name() string { return "metanetx" }

// Metabolites streams the chem_prop.tsv rows.
func (m *MetaNetX) Metabolites(ctx context.Context) (build.RecordIterator, error) {
	return m.open(ctx, "chem_prop.tsv", chemPropColumns)
}

// Reactions streams the reac_prop.tsv rows.
func (m *MetaNetX) Reactions(ctx context.Context) (build.RecordIterator, error) {
	return m.open(ctx, "reac_prop.tsv", reacPropColumns)
}

func (m *MetaNetX) open(ctx context.Context, file string, columns []string) (build.RecordIterator, error) {
	body, err := m.fetcher.Get(ctx, m.cfg.URL+"/"+file)
	if err != nil {
		return nil, err
	}
	m.logger.Info("downloaded property file",
		logging.String("file", file), logging.Int("bytes", len(body)))
	return newTSVIterator(body, columns, m.logger), nil
}

// tsvIterator yields one record per TSV row, keyed by column name.  Comment
// lines and rows with a wrong field count are skipped.
type tsvIterator struct {
	scanner *bufio.Scanner
	columns []string
	logger  logging.Logger
	lineNo  int
	closed  bool
}

func newTSVIterator(body []byte, columns []string, logger logging.Logger) *tsvIterator {
	scanner := bufio.NewScanner(bytes.NewReader(body))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &tsvIterator{scanner: scanner, columns: columns, logger: logger}
}

func (it *tsvIterator) Next(ctx context.Context) (normalize.Record, error) {
	for {
		if it.closed {
			return nil, io.EOF
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !it.scanner.Scan() {
			if err := it.scanner.Err(); err != nil {
				return nil, err
			}
			return nil, io.EOF
		}
		it.lineNo++
		line := it.scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != len(it.columns) {
			it.logger.Debug("skipping row with wrong field count",
				logging.Int("line", it.lineNo),
				logging.Int("fields", len(fields)),
				logging.Int("expected", len(it.columns)))
			continue
		}
		rec := make(normalize.Record, len(it.columns))
		for i, col := range it.columns {
			rec[col] = fields[i]
		}
		return rec, nil
	}
}

func (it *tsvIterator) Close() error {
	it.closed = true
	return nil
}
