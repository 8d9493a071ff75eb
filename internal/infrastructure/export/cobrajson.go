// Package export serializes universal models to the COBRA JSON interchange
// format, the representation most downstream modeling tools load directly.
package export

import (
	"encoding/json"
	"io"

	"github.com/mmundy42/cobrababel/internal/domain/model"
	"github.com/mmundy42/cobrababel/pkg/errors"
)

// cobraMetabolite is one compartment-qualified metabolite entry.
type cobraMetabolite struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Compartment string              `json:"compartment,omitempty"`
	Formula     string              `json:"formula,omitempty"`
	Charge      *int                `json:"charge,omitempty"`
	Notes       map[string]string   `json:"notes,omitempty"`
	Annotation  map[string][]string `json:"annotation,omitempty"`
}

type cobraReaction struct {
	ID               string              `json:"id"`
	Name             string              `json:"name"`
	Metabolites      map[string]float64  `json:"metabolites"`
	LowerBound       float64             `json:"lower_bound"`
	UpperBound       float64             `json:"upper_bound"`
	GeneReactionRule string              `json:"gene_reaction_rule"`
	Annotation       map[string][]string `json:"annotation,omitempty"`
}

type cobraModel struct {
	ID           string            `json:"id"`
	Name         string            `json:"name,omitempty"`
	Version      int               `json:"version"`
	Metabolites  []cobraMetabolite `json:"metabolites"`
	Reactions    []cobraReaction   `json:"reactions"`
	Genes        []interface{}     `json:"genes"`
	Compartments map[string]string `json:"compartments,omitempty"`
}

// toCobra flattens a universal model into the COBRA shape.  A metabolite
// observed in several compartments becomes one entry per compartment with
// the compartment code appended to the identifier, matching how reaction
// stoichiometry references it.
func toCobra(m *model.UniversalModel) cobraModel {
	out := cobraModel{
		ID:      m.ID,
		Name:    m.Name,
		Version: 1,
		Genes:   []interface{}{},
	}

	out.Compartments = make(map[string]string, len(m.Compartments))
	for _, c := range m.Compartments {
		out.Compartments[c.ID] = c.Name
	}

	for _, met := range m.Metabolites {
		compartments := met.CompartmentIDs()
		if len(compartments) == 0 {
			compartments = []string{""}
		}
		for _, comp := range compartments {
			entry := cobraMetabolite{
				ID:          met.ID,
				Name:        met.Name,
				Compartment: comp,
				Formula:     met.Formula,
				Charge:      met.Charge,
				Notes:       met.Notes,
				Annotation:  met.Aliases,
			}
			if comp != "" {
				entry.ID = met.ID + "_" + comp
			}
			out.Metabolites = append(out.Metabolites, entry)
		}
	}
	if out.Metabolites == nil {
		out.Metabolites = []cobraMetabolite{}
	}

	for _, rxn := range m.Reactions {
		entry := cobraReaction{
			ID:          rxn.ID,
			Name:        rxn.Name,
			Metabolites: make(map[string]float64, len(rxn.Stoichiometry)),
			LowerBound:  rxn.LowerBound,
			UpperBound:  rxn.UpperBound,
			Annotation:  buildReactionAnnotation(rxn),
		}
		for _, s := range rxn.Stoichiometry {
			entry.Metabolites[s.Qualified()] += s.Coefficient
		}
		out.Reactions = append(out.Reactions, entry)
	}
	if out.Reactions == nil {
		out.Reactions = []cobraReaction{}
	}
	return out
}

func buildReactionAnnotation(rxn *model.Reaction) map[string][]string {
	if len(rxn.Aliases) == 0 && len(rxn.ECNumbers) == 0 {
		return nil
	}
	annotation := make(map[string][]string, len(rxn.Aliases)+1)
	for ns, ids := range rxn.Aliases {
		annotation[ns] = ids
	}
	if len(rxn.ECNumbers) > 0 {
		annotation["ec-code"] = rxn.ECNumbers
	}
	return annotation
}

// Model renders the COBRA JSON document.
func Model(m *model.UniversalModel) ([]byte, error) {
	data, err := json.MarshalIndent(toCobra(m), "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "encoding model "+m.ID)
	}
	return data, nil
}

// Write streams the COBRA JSON document to w.
func Write(w io.Writer, m *model.UniversalModel) error {
	data, err := Model(m)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "writing model "+m.ID)
	}
	return nil
}
