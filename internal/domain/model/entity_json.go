package model

import "encoding/json"

// metaboliteJSON is the wire form of Metabolite.  The compartment set is
// serialized as a sorted list so documents are deterministic and the set
// round-trips through storage.
type metaboliteJSON struct {
	ID           string              `json:"id"`
	Name         string              `json:"name,omitempty"`
	Formula      string              `json:"formula,omitempty"`
	Charge       *int                `json:"charge,omitempty"`
	Compartments []string            `json:"compartments,omitempty"`
	Aliases      map[string][]string `json:"aliases,omitempty"`
	Notes        map[string]string   `json:"notes,omitempty"`
	Placeholder  bool                `json:"placeholder,omitempty"`
	Source       string              `json:"source,omitempty"`
}

func (m *Metabolite) MarshalJSON() ([]byte, error) {
	return json.Marshal(metaboliteJSON{
		ID:           m.ID,
		Name:         m.Name,
		Formula:      m.Formula,
		Charge:       m.Charge,
		Compartments: m.CompartmentIDs(),
		Aliases:      m.Aliases,
		Notes:        m.Notes,
		Placeholder:  m.Placeholder,
		Source:       m.Source,
	})
}

func (m *Metabolite) UnmarshalJSON(data []byte) error {
	var wire metaboliteJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	m.ID = wire.ID
	m.Name = wire.Name
	m.Formula = wire.Formula
	m.Charge = wire.Charge
	m.Compartments = make(map[string]bool, len(wire.Compartments))
	for _, c := range wire.Compartments {
		m.Compartments[c] = true
	}
	m.Aliases = wire.Aliases
	if m.Aliases == nil {
		m.Aliases = make(map[string][]string)
	}
	m.Notes = wire.Notes
	m.Placeholder = wire.Placeholder
	m.Source = wire.Source
	return nil
}
