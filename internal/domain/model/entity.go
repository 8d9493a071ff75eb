// Package model holds the universal-model domain: the deduplicated metabolite,
// reaction, and compartment entities, the accumulator that builds them from
// normalized source records, and the identity/merge rules that reconcile
// records arriving from different source namespaces.
package model

import "sort"

// Metabolite is a deduplicated universal-model metabolite.  The identifier is
// unique within a model; formula and charge keep the first-seen value when
// sources disagree.  A metabolite observed in several compartments carries the
// union of compartment codes rather than one entry per compartment.
type Metabolite struct {
	ID      string `json:"id"`
	Name    string `json:"name,omitempty"`
	Formula string `json:"formula,omitempty"`

	// Charge is nil until some source supplies one.
	Charge *int `json:"charge,omitempty"`

	// Compartments is the set of compartment codes the metabolite has been
	// observed in, across all sources.
	Compartments map[string]bool `json:"-"`

	// Aliases maps namespace → identifiers in that namespace.  Accumulated by
	// union across sources, never overwritten.
	Aliases map[string][]string `json:"aliases,omitempty"`

	// Notes carries free-form per-source annotations (mass, InChI, SMILES).
	Notes map[string]string `json:"notes,omitempty"`

	// Placeholder marks a metabolite that was auto-inserted because a reaction
	// referenced it before (or without) a dedicated metabolite record.  It is
	// cleared when a real record for the identifier arrives.
	Placeholder bool `json:"placeholder,omitempty"`

	// Source is the tag of the source that first introduced the metabolite.
	Source string `json:"source,omitempty"`
}

// CompartmentIDs returns the compartment set as a sorted slice.
func (m *Metabolite) CompartmentIDs() []string {
	ids := make([]string, 0, len(m.Compartments))
	for id := range m.Compartments {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Stoich is one term of a reaction's stoichiometry: a signed coefficient for
// a metabolite in a compartment.  Reactants are negative, products positive.
type Stoich struct {
	Metabolite  string  `json:"metabolite"`
	Compartment string  `json:"compartment,omitempty"`
	Coefficient float64 `json:"coefficient"`
}

// Qualified returns the metabolite identifier with the compartment attached
// using the model's internal "_" delimiter.
func (s Stoich) Qualified() string {
	if s.Compartment == "" {
		return s.Metabolite
	}
	return s.Metabolite + "_" + s.Compartment
}

// Reaction is a deduplicated universal-model reaction.  Reactions are
// immutable after insertion except for alias accumulation when the same
// identifier is seen again.
type Reaction struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// Stoichiometry holds only resolved numeric coefficients; reactions with
	// symbolic coefficients never reach the model.
	Stoichiometry []Stoich `json:"stoichiometry"`

	LowerBound float64 `json:"lower_bound"`
	UpperBound float64 `json:"upper_bound"`

	// Aliases maps namespace → identifiers, accumulated by union.
	Aliases map[string][]string `json:"aliases,omitempty"`

	// ECNumbers lists enzyme-classification numbers attached by sources.
	ECNumbers []string `json:"ec_numbers,omitempty"`

	// Source is the tag of the source that introduced the reaction.
	Source string `json:"source,omitempty"`
}

// Compartment is a cellular location referenced by metabolites and reactions.
// Within one model build an identifier maps to exactly one name, set by
// whichever record is processed first.
type Compartment struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// UniversalModel is the finalized, read-only result of one construction run.
// Entity slices are sorted by identifier so repeated runs over the same input
// produce identical output.
type UniversalModel struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`

	Metabolites  []*Metabolite  `json:"metabolites"`
	Reactions    []*Reaction    `json:"reactions"`
	Compartments []*Compartment `json:"compartments"`

	// Sources lists the source tags folded into the model, in processing order.
	Sources []string `json:"sources,omitempty"`

	metaboliteIndex map[string]*Metabolite
	reactionIndex   map[string]*Reaction
}

// Metabolite looks up a metabolite by identifier.
func (u *UniversalModel) Metabolite(id string) (*Metabolite, bool) {
	m, ok := u.metaboliteIndex[id]
	return m, ok
}

// Reaction looks up a reaction by identifier.
func (u *UniversalModel) Reaction(id string) (*Reaction, bool) {
	r, ok := u.reactionIndex[id]
	return r, ok
}

// buildIndexes populates the lookup maps after finalization or deserialization.
func (u *UniversalModel) buildIndexes() {
	u.metaboliteIndex = make(map[string]*Metabolite, len(u.Metabolites))
	for _, m := range u.Metabolites {
		u.metaboliteIndex[m.ID] = m
	}
	u.reactionIndex = make(map[string]*Reaction, len(u.Reactions))
	for _, r := range u.Reactions {
		u.reactionIndex[r.ID] = r
	}
}

// Reindex rebuilds the internal lookup maps.  Call after constructing a
// UniversalModel by hand (e.g. when loading from storage).
func (u *UniversalModel) Reindex() { u.buildIndexes() }
