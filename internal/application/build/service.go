// Package build orchestrates universal-model construction: it drains record
// streams from retrieval sources, normalizes each record, and folds the
// results into a single accumulator.  One goroutine owns the accumulator for
// the whole run, so construction needs no locking and stays deterministic
// for a fixed source order.
package build

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/mmundy42/cobrababel/internal/domain/model"
	"github.com/mmundy42/cobrababel/internal/domain/normalize"
	"github.com/mmundy42/cobrababel/internal/infrastructure/monitoring/logging"
	"github.com/mmundy42/cobrababel/pkg/errors"
)

// RecordIterator yields raw records one at a time.  Next returns io.EOF when
// the stream is exhausted; Close releases any underlying transport resources
// and is safe to call more than once.
type RecordIterator interface {
	Next(ctx context.Context) (normalize.Record, error)
	Close() error
}

// Source is a retrieval client for one external database.  Name must match a
// configured normalization rule set.
type Source interface {
	Name() string
	Metabolites(ctx context.Context) (RecordIterator, error)
	Reactions(ctx context.Context) (RecordIterator, error)
}

// Metrics receives per-record counters during a build.  The prometheus
// implementation lives in infrastructure; NopMetrics satisfies tests.
type Metrics interface {
	RecordProcessed(source, kind string)
	RecordRejected(source, kind, reason string)
}

type nopMetrics struct{}

func (nopMetrics) RecordProcessed(string, string)        {}
func (nopMetrics) RecordRejected(string, string, string) {}

// NopMetrics returns a Metrics that discards everything.
func NopMetrics() Metrics { return nopMetrics{} }

// Report summarizes one construction run.
type Report struct {
	RunID   string        `json:"run_id"`
	ModelID string        `json:"model_id"`
	Started time.Time     `json:"started"`
	Elapsed time.Duration `json:"elapsed"`

	// Per-source counts of records accepted into the model.
	MetabolitesAdded map[string]int `json:"metabolites_added"`
	ReactionsAdded   map[string]int `json:"reactions_added"`

	// Records dropped under the skip-and-continue policy, by event kind.
	Rejected map[string]int `json:"rejected,omitempty"`

	MetaboliteCount int `json:"metabolite_count"`
	ReactionCount   int `json:"reaction_count"`
}

func newReport(modelID string) *Report {
	return &Report{
		RunID:            uuid.NewString(),
		ModelID:          modelID,
		Started:          time.Now(),
		MetabolitesAdded: make(map[string]int),
		ReactionsAdded:   make(map[string]int),
		Rejected:         make(map[string]int),
	}
}

// finishReport stamps final counts.  Attribute conflicts are advisory and do
// not count as rejections.
func finishReport(report *Report, m *model.UniversalModel, counting *model.CollectingReporter) {
	for _, ev := range counting.Events() {
		if ev.Kind == model.KindAttributeConflict {
			continue
		}
		report.Rejected[string(ev.Kind)]++
	}
	report.Elapsed = time.Since(report.Started)
	report.MetaboliteCount = len(m.Metabolites)
	report.ReactionCount = len(m.Reactions)
}

// Options configures a Service.
type Options struct {
	ModelID   string
	ModelName string

	// Rules maps a source name to its normalization rules.  A source with no
	// rules aborts the build up front.
	Rules map[string]normalize.Rules

	// Verbose attaches a log reporter so merge conflicts and rejected records
	// surface as warnings.
	Verbose bool

	Logger   logging.Logger
	Reporter model.Reporter
	Metrics  Metrics
}

// Service builds universal models from source record streams.
type Service struct {
	opts     Options
	logger   logging.Logger
	reporter model.Reporter
	metrics  Metrics
}

// NewService constructs a build service.  Nil Logger, Reporter, and Metrics
// fields default to no-ops.
func NewService(opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	reporter := opts.Reporter
	if reporter == nil {
		reporter = model.NewNopReporter()
	}
	if opts.Verbose {
		reporter = model.TeeReporter{reporter, model.NewLogReporter(logger)}
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = NopMetrics()
	}
	return &Service{opts: opts, logger: logger, reporter: reporter, metrics: metrics}
}

// Build drains every source in order and folds the records into one model.
// Individual bad records are skipped and reported; a transport failure from
// an iterator aborts the build with an error.  An empty source list yields a
// valid empty model.
func (s *Service) Build(ctx context.Context, sources []Source) (*model.UniversalModel, *Report, error) {
	report := newReport(s.opts.ModelID)

	counting := model.NewCollectingReporter()
	reporter := model.TeeReporter{s.reporter, counting}

	acc := model.NewAccumulator(s.opts.ModelID, s.opts.ModelName, reporter)

	for _, src := range sources {
		rules, ok := s.opts.Rules[src.Name()]
		if !ok {
			return nil, nil, errors.New(errors.ErrCodeRecordUnknownSource,
				"no normalization rules for source").WithDetail("source=" + src.Name())
		}
		if err := s.drainSource(ctx, src, rules, acc, report); err != nil {
			return nil, nil, err
		}
	}

	m := acc.Finalize()
	finishReport(report, m, counting)

	s.logger.Info("model build finished",
		logging.String("run_id", report.RunID),
		logging.String("model_id", report.ModelID),
		logging.Int("metabolites", report.MetaboliteCount),
		logging.Int("reactions", report.ReactionCount),
		logging.Duration("elapsed", report.Elapsed),
	)
	return m, report, nil
}

func (s *Service) drainSource(ctx context.Context, src Source, rules normalize.Rules, acc *model.Accumulator, report *Report) error {
	norm := normalize.New(rules)
	name := src.Name()

	s.logger.Info("processing source", logging.String("source", name))

	mets, err := src.Metabolites(ctx)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSourceUnavailable, "opening metabolite stream for "+name)
	}
	defer mets.Close()
	if err := s.drainMetabolites(ctx, name, mets, norm, acc, report); err != nil {
		return err
	}

	rxns, err := src.Reactions(ctx)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSourceUnavailable, "opening reaction stream for "+name)
	}
	defer rxns.Close()
	return s.drainReactions(ctx, name, rxns, norm, acc, report)
}

func (s *Service) drainMetabolites(ctx context.Context, name string, it RecordIterator, norm *normalize.Normalizer, acc *model.Accumulator, report *Report) error {
	for {
		raw, err := it.Next(ctx)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeSourceUnavailable, "reading metabolites from "+name)
		}
		rec, err := norm.Metabolite(raw)
		if err != nil {
			s.reject(name, "metabolite", err)
			continue
		}
		if err := acc.AddMetabolite(rec); err != nil {
			s.reject(name, "metabolite", err)
			continue
		}
		report.MetabolitesAdded[name]++
		s.metrics.RecordProcessed(name, "metabolite")
	}
}

func (s *Service) drainReactions(ctx context.Context, name string, it RecordIterator, norm *normalize.Normalizer, acc *model.Accumulator, report *Report) error {
	for {
		raw, err := it.Next(ctx)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeSourceUnavailable, "reading reactions from "+name)
		}
		rec, err := norm.Reaction(raw)
		if err != nil {
			s.reject(name, "reaction", err)
			continue
		}
		if err := acc.AddReaction(rec); err != nil {
			s.reject(name, "reaction", err)
			continue
		}
		report.ReactionsAdded[name]++
		s.metrics.RecordProcessed(name, "reaction")
	}
}

// reject reports one skipped record.  The event kind mirrors the error code
// family so verbose output and metrics agree on the reason.
func (s *Service) reject(source, kind string, err error) {
	code := errors.GetCode(err)
	var evKind model.EventKind
	switch code {
	case errors.ErrCodeEquationUnresolved:
		evKind = model.KindUnresolvedStoichiometry
	case errors.ErrCodeEquationUndefinedMet:
		evKind = model.KindUndefinedReference
	default:
		evKind = model.KindMalformedRecord
	}
	s.reporter.Report(model.Event{
		Kind:   evKind,
		Source: source,
		Detail: err.Error(),
	})
	s.metrics.RecordRejected(source, kind, string(evKind))
}
