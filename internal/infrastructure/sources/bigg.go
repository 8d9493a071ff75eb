package sources

import (
	"context"
	"encoding/json"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/mmundy42/cobrababel/internal/application/build"
	"github.com/mmundy42/cobrababel/internal/config"
	"github.com/mmundy42/cobrababel/internal/domain/normalize"
	"github.com/mmundy42/cobrababel/internal/infrastructure/cache"
	"github.com/mmundy42/cobrababel/internal/infrastructure/monitoring/logging"
	"github.com/mmundy42/cobrababel/pkg/errors"
)

// BiGG retrieves universal metabolites and reactions from the BiGG data API.
// The API serves a paged identifier list plus one detail document per entity,
// so iteration fetches lazily and pauses periodically to stay polite.
type BiGG struct {
	cfg     config.BiGGConfig
	fetcher *Fetcher
	logger  logging.Logger
}

// NewBiGG builds a BiGG client.
func NewBiGG(cfg config.BiGGConfig, c cache.Cache, logger logging.Logger) *BiGG {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &BiGG{
		cfg:     cfg,
		fetcher: NewFetcher(cfg.Timeout, c, logger),
		logger:  logger.Named("bigg"),
	}
}

// Name returns the source tag.
func (b *BiGG) Name() string { return "bigg" }

type biggList struct {
	Results []struct {
		BiggID string `json:"bigg_id"`
	} `json:"results"`
}

func (b *BiGG) listIDs(ctx context.Context, kind string) ([]string, error) {
	body, err := b.fetcher.Get(ctx, b.cfg.URL+"/universal/"+kind)
	if err != nil {
		return nil, err
	}
	var list biggList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSourceParseError, "decoding "+kind+" list")
	}
	ids := make([]string, 0, len(list.Results))
	for _, r := range list.Results {
		ids = append(ids, r.BiggID)
	}
	return ids, nil
}

// Metabolites iterates the universal metabolites.  A metabolite observed in
// several compartments yields one record per compartment.
func (b *BiGG) Metabolites(ctx context.Context) (build.RecordIterator, error) {
	ids, err := b.listIDs(ctx, "metabolites")
	if err != nil {
		return nil, err
	}
	b.logger.Info("listed universal metabolites", logging.Int("count", len(ids)))
	return &biggIterator{client: b, kind: "metabolites", ids: ids}, nil
}

// Reactions iterates the universal reactions.
func (b *BiGG) Reactions(ctx context.Context) (build.RecordIterator, error) {
	ids, err := b.listIDs(ctx, "reactions")
	if err != nil {
		return nil, err
	}
	b.logger.Info("listed universal reactions", logging.Int("count", len(ids)))
	return &biggIterator{client: b, kind: "reactions", ids: ids}, nil
}

// DatabaseVersion returns the BiGG database version and last-update strings.
func (b *BiGG) DatabaseVersion(ctx context.Context) (version, lastUpdated string, err error) {
	body, err := b.fetcher.Get(ctx, b.cfg.URL+"/database_version")
	if err != nil {
		return "", "", err
	}
	var v struct {
		Version     string `json:"bigg_models_version"`
		LastUpdated string `json:"last_updated"`
	}
	if err := json.Unmarshal(body, &v); err != nil {
		return "", "", errors.Wrap(err, errors.ErrCodeSourceParseError, "decoding database version")
	}
	return v.Version, v.LastUpdated, nil
}

// ModelInfo is one entry of the published model list.
type ModelInfo struct {
	BiggID          string `json:"bigg_id"`
	Organism        string `json:"organism"`
	MetaboliteCount int    `json:"metabolite_count"`
	ReactionCount   int    `json:"reaction_count"`
	GeneCount       int    `json:"gene_count"`
}

// ModelList returns the models available for download.
func (b *BiGG) ModelList(ctx context.Context) ([]ModelInfo, error) {
	body, err := b.fetcher.Get(ctx, b.cfg.URL+"/models")
	if err != nil {
		return nil, err
	}
	var list struct {
		Results []ModelInfo `json:"results"`
	}
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSourceParseError, "decoding model list")
	}
	return list.Results, nil
}

// DownloadModel returns the COBRA JSON serialization of a published model.
func (b *BiGG) DownloadModel(ctx context.Context, biggID string) ([]byte, error) {
	return b.fetcher.Get(ctx, b.cfg.URL+"/models/"+biggID+"/download")
}

type biggIterator struct {
	client *BiGG
	kind   string
	ids    []string
	pos    int

	// pending buffers the per-compartment records of one metabolite.
	pending []normalize.Record
	fetched int
	closed  bool
}

func (it *biggIterator) Next(ctx context.Context) (normalize.Record, error) {
	if len(it.pending) > 0 {
		rec := it.pending[0]
		it.pending = it.pending[1:]
		return rec, nil
	}
	for {
		if it.closed || it.pos >= len(it.ids) {
			return nil, io.EOF
		}
		id := it.ids[it.pos]
		it.pos++

		it.pause(ctx)
		body, err := it.client.fetcher.Get(ctx, it.client.cfg.URL+"/universal/"+it.kind+"/"+id)
		if err != nil {
			return nil, err
		}
		it.fetched++

		var detail map[string]interface{}
		if err := json.Unmarshal(body, &detail); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeSourceParseError, "decoding "+it.kind+" "+id)
		}

		records := it.expand(detail)
		if len(records) == 0 {
			continue
		}
		rec := records[0]
		it.pending = records[1:]
		return rec, nil
	}
}

// pause sleeps between request bursts.  Context cancellation cuts the sleep
// short; the subsequent fetch observes the cancellation.
func (it *biggIterator) pause(ctx context.Context) {
	if it.client.cfg.PauseCount <= 0 || it.fetched == 0 || it.fetched%it.client.cfg.PauseCount != 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(it.client.cfg.PauseDuration):
	}
}

// expand converts one detail document into records.  Metabolite details list
// every compartment the entity occurs in across published models; one record
// per compartment is emitted so compartment sets union downstream.  Reaction
// equations are normalized to the "<=>" arrow form and the first result
// entry's explicit flux bounds are lifted to the top level; the arrow only
// decides bounds when no model instance carries them.
func (it *biggIterator) expand(detail map[string]interface{}) []normalize.Record {
	if it.kind == "reactions" {
		if s, ok := detail["reaction_string"].(string); ok {
			detail["reaction_string"] = normalizeArrows(s)
		}
		if results, ok := detail["results"].([]interface{}); ok && len(results) > 0 {
			if first, ok := results[0].(map[string]interface{}); ok {
				lb, lok := first["lower_bound"]
				ub, uok := first["upper_bound"]
				if lok && uok {
					detail["lower_bound"] = lb
					detail["upper_bound"] = ub
				}
			}
		}
		return []normalize.Record{normalize.Record(detail)}
	}

	if formulae, ok := detail["formulae"].([]interface{}); ok && len(formulae) > 0 {
		detail["formula"] = formulae[0]
	}
	if charges, ok := detail["charges"].([]interface{}); ok && len(charges) > 0 {
		detail["charge"] = charges[0]
	}

	compartments := make(map[string]string)
	if inModels, ok := detail["compartments_in_models"].([]interface{}); ok {
		for _, entry := range inModels {
			m, ok := entry.(map[string]interface{})
			if !ok {
				continue
			}
			id, _ := m["bigg_id"].(string)
			if id == "" {
				continue
			}
			name, _ := m["compartment_name"].(string)
			if _, seen := compartments[id]; !seen || name != "" {
				compartments[id] = name
			}
		}
	}
	if len(compartments) == 0 {
		return []normalize.Record{normalize.Record(detail)}
	}

	ids := make([]string, 0, len(compartments))
	for id := range compartments {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	records := make([]normalize.Record, 0, len(ids))
	for _, id := range ids {
		rec := make(normalize.Record, len(detail)+2)
		for k, v := range detail {
			rec[k] = v
		}
		rec["compartment"] = id
		if name := compartments[id]; name != "" {
			rec["compartment_name"] = name
		}
		records = append(records, rec)
	}
	return records
}

func (it *biggIterator) Close() error {
	it.closed = true
	return nil
}

// normalizeArrows rewrites the arrow glyphs BiGG uses in reaction strings to
// the plain forms the equation parser understands.
func normalizeArrows(s string) string {
	replacer := strings.NewReplacer(
		"⇌", "<=>", // ⇌
		"&#8652;", "<=>",
		"<->", "<=>",
		"-->", "=>",
		"<--", "<=",
	)
	return replacer.Replace(s)
}
