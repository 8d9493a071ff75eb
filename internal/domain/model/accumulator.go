package model

import (
	"sort"

	"github.com/mmundy42/cobrababel/pkg/errors"
)

// Accumulator builds one UniversalModel from an ordered stream of normalized
// records.  All add operations are idempotent with respect to identity:
// adding a record whose canonical identifier is already present routes through
// the resolver and merger instead of duplicating the entity.
//
// The accumulator is single-writer: construction is a sequential fold over
// records in caller-controlled order, and the deterministic first-seen-wins
// merge policy depends on that order being stable.  No internal locking is
// provided; callers that parallelize retrieval must serialize delivery.
type Accumulator struct {
	id   string
	name string

	resolver resolver
	merger   merger
	reporter Reporter

	sources    []string
	sourceSeen map[string]bool
	finalized  bool
}

// NewAccumulator creates an empty accumulator for a model with the given
// identifier and display name.  Events raised during construction go to
// reporter; pass NewNopReporter() to discard them.
func NewAccumulator(id, name string, reporter Reporter) *Accumulator {
	if reporter == nil {
		reporter = NewNopReporter()
	}
	return &Accumulator{
		id:         id,
		name:       name,
		resolver:   newResolver(),
		merger:     merger{reporter: reporter},
		reporter:   reporter,
		sourceSeen: make(map[string]bool),
	}
}

// errFinalized is returned by add operations after Finalize has been called.
func errFinalized() error {
	return errors.New(errors.ErrCodeModelFinalized, "universal model already finalized")
}

func (a *Accumulator) noteSource(tag string) {
	if tag == "" || a.sourceSeen[tag] {
		return
	}
	a.sourceSeen[tag] = true
	a.sources = append(a.sources, tag)
}

// AddMetabolite inserts rec or merges it into an existing metabolite with the
// same identifier.  A record without an identifier is rejected with
// ErrCodeRecordMissingID.
func (a *Accumulator) AddMetabolite(rec MetaboliteRecord) error {
	if a.finalized {
		return errFinalized()
	}
	if rec.ID == "" {
		return errors.New(errors.ErrCodeRecordMissingID, "missing identifier")
	}
	a.noteSource(rec.Source)

	if rec.Compartment != "" {
		a.addCompartment(Compartment{ID: rec.Compartment, Name: rec.CompartmentName}, rec.Source)
	}

	if existing := a.resolver.resolveMetabolite(rec.ID); existing != nil {
		a.merger.mergeMetabolite(existing, rec)
		return nil
	}

	met := &Metabolite{
		ID:           rec.ID,
		Name:         rec.Name,
		Formula:      rec.Formula,
		Charge:       rec.Charge,
		Compartments: make(map[string]bool),
		Aliases:      make(map[string][]string),
		Source:       rec.Source,
	}
	if rec.Compartment != "" {
		met.Compartments[rec.Compartment] = true
	}
	mergeAliases(met.Aliases, rec.Aliases)
	if len(rec.Notes) > 0 {
		met.Notes = make(map[string]string, len(rec.Notes))
		for k, v := range rec.Notes {
			met.Notes[k] = v
		}
	}
	a.resolver.metabolites[rec.ID] = met
	return nil
}

// AddReaction inserts rec or, when the identifier already exists, accumulates
// its cross-references into the existing reaction.  Stoichiometry referencing
// a metabolite identifier not yet present auto-inserts a placeholder
// metabolite rather than failing; placeholders are distinguishable from fully
// populated metabolites via the Placeholder flag.
func (a *Accumulator) AddReaction(rec ReactionRecord) error {
	if a.finalized {
		return errFinalized()
	}
	if rec.ID == "" {
		return errors.New(errors.ErrCodeRecordMissingID, "missing identifier")
	}
	a.noteSource(rec.Source)

	if existing := a.resolver.resolveReaction(rec.ID); existing != nil {
		a.merger.mergeReaction(existing, rec)
		return nil
	}

	name := rec.Name
	if name == "" {
		// Sources that provide no reaction name fall back to the identifier.
		name = rec.ID
	}

	rxn := &Reaction{
		ID:            rec.ID,
		Name:          name,
		Stoichiometry: make([]Stoich, len(rec.Stoichiometry)),
		LowerBound:    rec.LowerBound,
		UpperBound:    rec.UpperBound,
		Aliases:       make(map[string][]string),
		Source:        rec.Source,
	}
	copy(rxn.Stoichiometry, rec.Stoichiometry)
	sort.Slice(rxn.Stoichiometry, func(i, j int) bool {
		return rxn.Stoichiometry[i].Qualified() < rxn.Stoichiometry[j].Qualified()
	})
	mergeAliases(rxn.Aliases, rec.Aliases)
	rxn.ECNumbers = append(rxn.ECNumbers, rec.ECNumbers...)

	// Every referenced metabolite must exist; unknown identifiers become
	// placeholders carrying only the identifier and compartment.
	for _, s := range rec.Stoichiometry {
		if s.Compartment != "" {
			a.addCompartment(Compartment{ID: s.Compartment}, rec.Source)
		}
		if existing := a.resolver.resolveMetabolite(s.Metabolite); existing != nil {
			if s.Compartment != "" {
				existing.Compartments[s.Compartment] = true
			}
			continue
		}
		placeholder := &Metabolite{
			ID:           s.Metabolite,
			Compartments: make(map[string]bool),
			Aliases:      make(map[string][]string),
			Placeholder:  true,
			Source:       rec.Source,
		}
		if s.Compartment != "" {
			placeholder.Compartments[s.Compartment] = true
		}
		a.resolver.metabolites[s.Metabolite] = placeholder
	}

	a.resolver.reactions[rec.ID] = rxn
	return nil
}

// AddCompartment registers a compartment.  The first record to supply a name
// for an identifier wins; later disagreeing names are ignored and reported.
func (a *Accumulator) AddCompartment(c Compartment, source string) error {
	if a.finalized {
		return errFinalized()
	}
	if c.ID == "" {
		return errors.New(errors.ErrCodeRecordMissingID, "missing identifier")
	}
	a.addCompartment(c, source)
	return nil
}

func (a *Accumulator) addCompartment(c Compartment, source string) {
	if existing := a.resolver.resolveCompartment(c.ID); existing != nil {
		a.merger.mergeCompartment(existing, c, source)
		return
	}
	a.resolver.compartments[c.ID] = &Compartment{ID: c.ID, Name: c.Name}
}

// MetaboliteCount returns the number of metabolites added so far, placeholders
// included.
func (a *Accumulator) MetaboliteCount() int { return len(a.resolver.metabolites) }

// ReactionCount returns the number of reactions added so far.
func (a *Accumulator) ReactionCount() int { return len(a.resolver.reactions) }

// Finalize freezes the accumulator and returns the built model.  Entities are
// sorted by identifier for deterministic output.  An empty input stream yields
// a valid empty model, not an error.  Subsequent add calls fail with
// ErrCodeModelFinalized.
func (a *Accumulator) Finalize() *UniversalModel {
	a.finalized = true

	u := &UniversalModel{
		ID:      a.id,
		Name:    a.name,
		Sources: a.sources,
	}

	u.Metabolites = make([]*Metabolite, 0, len(a.resolver.metabolites))
	for _, m := range a.resolver.metabolites {
		u.Metabolites = append(u.Metabolites, m)
	}
	sort.Slice(u.Metabolites, func(i, j int) bool { return u.Metabolites[i].ID < u.Metabolites[j].ID })

	u.Reactions = make([]*Reaction, 0, len(a.resolver.reactions))
	for _, r := range a.resolver.reactions {
		u.Reactions = append(u.Reactions, r)
	}
	sort.Slice(u.Reactions, func(i, j int) bool { return u.Reactions[i].ID < u.Reactions[j].ID })

	u.Compartments = make([]*Compartment, 0, len(a.resolver.compartments))
	for _, c := range a.resolver.compartments {
		u.Compartments = append(u.Compartments, c)
	}
	sort.Slice(u.Compartments, func(i, j int) bool { return u.Compartments[i].ID < u.Compartments[j].ID })

	u.buildIndexes()
	return u
}
