package model

import "fmt"

// merger reconciles an incoming normalized record with the existing entity the
// resolver matched it to.  The policy is deterministic and deliberately
// simple: formula, charge, name, and compartment names keep the first-seen
// value regardless of which source supplied it; cross-references accumulate by
// union and are never overwritten.  Disagreements are surfaced through the
// reporter, not resolved.
//
// First-seen-wins is inherited behavior, not an attempt at reconciliation;
// a confidence-weighted merge is an open question for a future design.
type merger struct {
	reporter Reporter
}

// mergeMetabolite folds rec into the existing metabolite in place.
func (g merger) mergeMetabolite(existing *Metabolite, rec MetaboliteRecord) {
	// A placeholder inserted from a stoichiometry reference is upgraded by the
	// first dedicated metabolite record for the identifier.
	if existing.Placeholder {
		existing.Name = rec.Name
		existing.Formula = rec.Formula
		existing.Charge = rec.Charge
		existing.Source = rec.Source
		existing.Placeholder = false
	} else {
		if rec.Name != "" && existing.Name == "" {
			existing.Name = rec.Name
		}
		if rec.Formula != "" {
			if existing.Formula == "" {
				existing.Formula = rec.Formula
			} else if existing.Formula != rec.Formula {
				g.reporter.Report(Event{
					Kind:      KindAttributeConflict,
					Source:    rec.Source,
					EntityID:  existing.ID,
					Field:     "formula",
					Kept:      existing.Formula,
					Discarded: rec.Formula,
				})
			}
		}
		if rec.Charge != nil {
			if existing.Charge == nil {
				existing.Charge = rec.Charge
			} else if *existing.Charge != *rec.Charge {
				g.reporter.Report(Event{
					Kind:      KindAttributeConflict,
					Source:    rec.Source,
					EntityID:  existing.ID,
					Field:     "charge",
					Kept:      fmt.Sprintf("%d", *existing.Charge),
					Discarded: fmt.Sprintf("%d", *rec.Charge),
				})
			}
		}
	}

	if rec.Compartment != "" {
		existing.Compartments[rec.Compartment] = true
	}
	mergeAliases(existing.Aliases, rec.Aliases)
	for k, v := range rec.Notes {
		if _, ok := existing.Notes[k]; !ok {
			if existing.Notes == nil {
				existing.Notes = make(map[string]string)
			}
			existing.Notes[k] = v
		}
	}
}

// mergeReaction folds a repeated sighting of a reaction identifier into the
// existing reaction.  Only cross-references accumulate; stoichiometry, bounds
// and name are immutable after insertion, and disagreements are reported
// rather than silently overwritten.
func (g merger) mergeReaction(existing *Reaction, rec ReactionRecord) {
	if rec.Name != "" && existing.Name != rec.Name {
		g.reporter.Report(Event{
			Kind:      KindAttributeConflict,
			Source:    rec.Source,
			EntityID:  existing.ID,
			Field:     "name",
			Kept:      existing.Name,
			Discarded: rec.Name,
		})
	}
	mergeAliases(existing.Aliases, rec.Aliases)
	for _, ec := range rec.ECNumbers {
		if !containsString(existing.ECNumbers, ec) {
			existing.ECNumbers = append(existing.ECNumbers, ec)
		}
	}
}

// mergeCompartment applies first-seen-wins to a compartment name.  A later
// record supplying a different name for the same identifier is ignored and
// reported.
func (g merger) mergeCompartment(existing *Compartment, incoming Compartment, source string) {
	if incoming.Name == "" || existing.Name == incoming.Name {
		return
	}
	if existing.Name == "" {
		existing.Name = incoming.Name
		return
	}
	g.reporter.Report(Event{
		Kind:      KindAttributeConflict,
		Source:    source,
		EntityID:  existing.ID,
		Field:     "compartment_name",
		Kept:      existing.Name,
		Discarded: incoming.Name,
	})
}

// mergeAliases unions src into dst per namespace, preserving order of first
// appearance and skipping duplicates.
func mergeAliases(dst map[string][]string, src map[string][]string) {
	for ns, ids := range src {
		for _, id := range ids {
			if !containsString(dst[ns], id) {
				dst[ns] = append(dst[ns], id)
			}
		}
	}
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
