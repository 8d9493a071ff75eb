package build

import (
	"context"

	"github.com/mmundy42/cobrababel/internal/domain/model"
	"github.com/mmundy42/cobrababel/internal/infrastructure/monitoring/logging"
)

// Merge folds several finalized models into one, in argument order.  The
// same first-seen-wins rules apply as during construction: the earliest
// model's formula, charge, and compartment names win, metabolite compartment
// sets and aliases are unioned, and a reaction identifier already present in
// an earlier model keeps the earlier definition.
func (s *Service) Merge(ctx context.Context, models ...*model.UniversalModel) (*model.UniversalModel, *Report, error) {
	report := newReport(s.opts.ModelID)

	counting := model.NewCollectingReporter()
	reporter := model.TeeReporter{s.reporter, counting}
	acc := model.NewAccumulator(s.opts.ModelID, s.opts.ModelName, reporter)

	for _, m := range models {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		if m == nil {
			continue
		}
		tag := m.ID

		for _, c := range m.Compartments {
			if err := acc.AddCompartment(*c, tag); err != nil {
				return nil, nil, err
			}
		}
		for _, met := range m.Metabolites {
			if err := s.mergeMetabolite(acc, tag, met, report); err != nil {
				return nil, nil, err
			}
		}
		for _, rxn := range m.Reactions {
			if err := acc.AddReaction(model.ReactionRecord{
				ID:            rxn.ID,
				Name:          rxn.Name,
				Stoichiometry: rxn.Stoichiometry,
				LowerBound:    rxn.LowerBound,
				UpperBound:    rxn.UpperBound,
				Aliases:       rxn.Aliases,
				ECNumbers:     rxn.ECNumbers,
				Source:        rxn.Source,
			}); err != nil {
				return nil, nil, err
			}
			report.ReactionsAdded[tag]++
		}
	}

	merged := acc.Finalize()
	finishReport(report, merged, counting)

	s.logger.Info("model merge finished",
		logging.String("model_id", merged.ID),
		logging.Int("inputs", len(models)),
		logging.Int("metabolites", report.MetaboliteCount),
		logging.Int("reactions", report.ReactionCount),
	)
	return merged, report, nil
}

// mergeMetabolite replays one finalized metabolite into the accumulator as a
// record per compartment, so compartment sets union correctly with entries
// already present.
func (s *Service) mergeMetabolite(acc *model.Accumulator, tag string, met *model.Metabolite, report *Report) error {
	rec := model.MetaboliteRecord{
		ID:      met.ID,
		Name:    met.Name,
		Formula: met.Formula,
		Charge:  met.Charge,
		Aliases: met.Aliases,
		Notes:   met.Notes,
		Source:  met.Source,
	}
	if rec.Source == "" {
		rec.Source = tag
	}

	compartments := met.CompartmentIDs()
	if len(compartments) == 0 {
		if err := acc.AddMetabolite(rec); err != nil {
			return err
		}
		report.MetabolitesAdded[tag]++
		return nil
	}
	for _, comp := range compartments {
		rec.Compartment = comp
		if err := acc.AddMetabolite(rec); err != nil {
			return err
		}
	}
	report.MetabolitesAdded[tag]++
	return nil
}
