package model

// resolver decides whether an incoming record matches an entity already in
// the growing model.  Identity is by identifier only:
//
//   - Metabolites match on exact identifier.  A known identifier seen in a new
//     compartment extends the existing metabolite's compartment set; it never
//     creates a duplicate.
//   - Reactions match on exact identifier.  Structurally identical
//     stoichiometry under a different identifier is intentionally NOT a match;
//     content-based deduplication is a known limitation left to the caller.
type resolver struct {
	metabolites  map[string]*Metabolite
	reactions    map[string]*Reaction
	compartments map[string]*Compartment
}

func newResolver() resolver {
	return resolver{
		metabolites:  make(map[string]*Metabolite),
		reactions:    make(map[string]*Reaction),
		compartments: make(map[string]*Compartment),
	}
}

// resolveMetabolite returns the existing metabolite for id, or nil when the
// record should be inserted as a new entity.
func (r *resolver) resolveMetabolite(id string) *Metabolite {
	return r.metabolites[id]
}

// resolveReaction returns the existing reaction for id, or nil.
func (r *resolver) resolveReaction(id string) *Reaction {
	return r.reactions[id]
}

// resolveCompartment returns the existing compartment for id, or nil.
func (r *resolver) resolveCompartment(id string) *Compartment {
	return r.compartments[id]
}
