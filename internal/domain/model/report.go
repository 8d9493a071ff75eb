package model

import (
	"fmt"
	"sync"

	"github.com/mmundy42/cobrababel/internal/infrastructure/monitoring/logging"
)

// EventKind classifies a reportable event raised during model construction.
// None of these abort a build; they are surfaced so callers running in
// verbose mode can see what was dropped or discarded.
type EventKind string

const (
	// KindMalformedRecord — a raw record was rejected before normalization
	// (typically a missing identifier).
	KindMalformedRecord EventKind = "malformed_record"
	// KindUnresolvedStoichiometry — an equation carried a symbolic coefficient
	// and the whole reaction was dropped.
	KindUnresolvedStoichiometry EventKind = "unresolved_stoichiometry"
	// KindUndefinedReference — an equation referenced an unrecognized
	// pseudo-metabolite and the whole reaction was dropped.
	KindUndefinedReference EventKind = "undefined_reference"
	// KindAttributeConflict — a merge discarded a disagreeing incoming value
	// under the first-seen-wins policy.
	KindAttributeConflict EventKind = "attribute_conflict"
	// KindSuffixMiss — a compartment-suffix translation found no known pattern
	// and passed the identifier through unchanged.
	KindSuffixMiss EventKind = "suffix_miss"
	// KindMissingXref — a namespace translation found no cross-reference for
	// an identifier and kept the original.
	KindMissingXref EventKind = "missing_xref"
)

// Event is one reportable occurrence during a build.
type Event struct {
	Kind      EventKind
	Source    string
	EntityID  string
	Field     string
	Kept      string
	Discarded string
	Detail    string
}

func (e Event) String() string {
	switch e.Kind {
	case KindAttributeConflict:
		return fmt.Sprintf("%s %s.%s: kept %q, discarded %q (source %s)",
			e.Kind, e.EntityID, e.Field, e.Kept, e.Discarded, e.Source)
	default:
		return fmt.Sprintf("%s %s: %s (source %s)", e.Kind, e.EntityID, e.Detail, e.Source)
	}
}

// Reporter receives build events.  Implementations must tolerate being called
// from the single build goroutine only; the core provides no locking beyond
// what an implementation adds for itself.
type Reporter interface {
	Report(ev Event)
}

type nopReporter struct{}

func (nopReporter) Report(Event) {}

// NewNopReporter returns a Reporter that discards every event.  This is the
// non-verbose default.
func NewNopReporter() Reporter { return nopReporter{} }

// CollectingReporter retains every event and per-kind counts.  Used by the
// build service to assemble the final build report, and by tests.
type CollectingReporter struct {
	mu     sync.Mutex
	events []Event
	counts map[EventKind]int
}

// NewCollectingReporter returns an empty CollectingReporter.
func NewCollectingReporter() *CollectingReporter {
	return &CollectingReporter{counts: make(map[EventKind]int)}
}

// Report implements Reporter.
func (c *CollectingReporter) Report(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
	c.counts[ev.Kind]++
}

// Events returns a copy of all collected events in arrival order.
func (c *CollectingReporter) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Event, len(c.events))
	copy(out, c.events)
	return out
}

// Count returns the number of events of the given kind.
func (c *CollectingReporter) Count(kind EventKind) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[kind]
}

// logReporter forwards events to a structured logger at WARN level.
type logReporter struct {
	logger logging.Logger
}

// NewLogReporter returns a Reporter that logs every event as a warning.
func NewLogReporter(logger logging.Logger) Reporter {
	return &logReporter{logger: logger}
}

func (l *logReporter) Report(ev Event) {
	l.logger.Warn(ev.String(),
		logging.String("kind", string(ev.Kind)),
		logging.String("source", ev.Source),
		logging.String("entity", ev.EntityID))
}

// TeeReporter fans one event out to several reporters.
type TeeReporter []Reporter

// Report implements Reporter.
func (t TeeReporter) Report(ev Event) {
	for _, r := range t {
		r.Report(ev)
	}
}
