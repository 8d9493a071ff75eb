package sources

import (
	"context"
	"io"
	"strings"

	"github.com/mmundy42/cobrababel/internal/application/build"
	"github.com/mmundy42/cobrababel/internal/config"
	"github.com/mmundy42/cobrababel/internal/domain/normalize"
	"github.com/mmundy42/cobrababel/internal/infrastructure/cache"
	"github.com/mmundy42/cobrababel/internal/infrastructure/monitoring/logging"
)

// KEGG retrieves compounds and reactions from the KEGG REST web service.
// The service lists identifiers one per line and serves detail records in
// a flat-file format, at most ten records per get request.
type KEGG struct {
	cfg     config.KEGGConfig
	fetcher *Fetcher
	logger  logging.Logger
}

// NewKEGG builds a KEGG client.
func NewKEGG(cfg config.KEGGConfig, c cache.Cache, logger logging.Logger) *KEGG {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if cfg.BatchSize <= 0 || cfg.BatchSize > 10 {
		cfg.BatchSize = 10
	}
	return &KEGG{
		cfg:     cfg,
		fetcher: NewFetcher(cfg.Timeout, c, logger),
		logger:  logger.Named("kegg"),
	}
}

// Name returns the source tag.
func (k *KEGG) Name() string { return "kegg" }

// ListIDs returns the identifiers of every entry in a KEGG database.  The
// list response has one "db:id<TAB>definition" line per entry.
func (k *KEGG) ListIDs(ctx context.Context, db string) ([]string, error) {
	body, err := k.fetcher.Get(ctx, k.cfg.URL+"/list/"+db)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, line := range strings.Split(string(body), "\n") {
		if line == "" {
			continue
		}
		id := line
		if tab := strings.IndexByte(line, '\t'); tab >= 0 {
			id = line[:tab]
		}
		if colon := strings.IndexByte(id, ':'); colon >= 0 {
			id = id[colon+1:]
		}
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// Metabolites iterates the compound database.
func (k *KEGG) Metabolites(ctx context.Context) (build.RecordIterator, error) {
	ids, err := k.ListIDs(ctx, "compound")
	if err != nil {
		return nil, err
	}
	k.logger.Info("listed compounds", logging.Int("count", len(ids)))
	return &keggIterator{client: k, db: "compound", ids: ids}, nil
}

// Reactions iterates the reaction database.
func (k *KEGG) Reactions(ctx context.Context) (build.RecordIterator, error) {
	ids, err := k.ListIDs(ctx, "reaction")
	if err != nil {
		return nil, err
	}
	k.logger.Info("listed reactions", logging.Int("count", len(ids)))
	return &keggIterator{client: k, db: "reaction", ids: ids}, nil
}

type keggIterator struct {
	client  *KEGG
	db      string
	ids     []string
	pos     int
	pending []normalize.Record
	closed  bool
}

func (it *keggIterator) Next(ctx context.Context) (normalize.Record, error) {
	for len(it.pending) == 0 {
		if it.closed || it.pos >= len(it.ids) {
			return nil, io.EOF
		}
		end := it.pos + it.client.cfg.BatchSize
		if end > len(it.ids) {
			end = len(it.ids)
		}
		batch := it.ids[it.pos:end]
		it.pos = end

		query := make([]string, len(batch))
		for i, id := range batch {
			query[i] = it.db + ":" + id
		}
		body, err := it.client.fetcher.Get(ctx, it.client.cfg.URL+"/get/"+strings.Join(query, "+"))
		if err != nil {
			return nil, err
		}
		it.pending = parseKEGGRecords(string(body))
	}
	rec := it.pending[0]
	it.pending = it.pending[1:]
	return rec, nil
}

func (it *keggIterator) Close() error {
	it.closed = true
	return nil
}

// parseKEGGRecords splits a flat-file response into records.  A field name
// occupies the first 12 characters of a line; a blank prefix continues the
// previous field, and "///" terminates a record.
func parseKEGGRecords(body string) []normalize.Record {
	var records []normalize.Record

	rec := make(normalize.Record)
	var field string
	var names, enzymes []string

	flush := func() {
		if len(names) > 0 {
			rec["name"] = strings.Join(names, " ")
		}
		if len(enzymes) > 0 {
			rec["enzyme"] = enzymes
		}
		if len(rec) > 0 {
			records = append(records, rec)
		}
		rec = make(normalize.Record)
		field = ""
		names = nil
		enzymes = nil
	}

	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(line, "///") {
			flush()
			continue
		}
		if line == "" {
			continue
		}
		var value string
		if len(line) > 12 {
			value = strings.TrimSpace(line[12:])
		}
		if !strings.HasPrefix(line, "            ") {
			name := line
			if len(line) > 12 {
				name = line[:12]
			}
			field = strings.TrimSpace(name)
		}

		switch field {
		case "ENTRY":
			if parts := strings.Fields(value); len(parts) > 0 {
				rec["entry"] = parts[0]
			}
		case "NAME":
			names = append(names, strings.Trim(value, ";"))
		case "FORMULA":
			rec["formula"] = value
		case "DEFINITION":
			rec["definition"] = value
		case "EQUATION":
			// Continuation lines extend the equation.
			if existing, ok := rec["equation"].(string); ok {
				rec["equation"] = existing + " " + value
			} else {
				rec["equation"] = value
			}
		case "ENZYME":
			enzymes = append(enzymes, strings.Fields(value)...)
		case "REMARK":
			rec["remark"] = value
		}
	}
	flush()
	return records
}
