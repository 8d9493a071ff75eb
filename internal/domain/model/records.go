package model

// MetaboliteRecord is the canonical form of a metabolite record after
// per-source normalization.  It is the accumulator's input type; the
// normalizer produces it from raw source records.
type MetaboliteRecord struct {
	ID      string
	Name    string
	Formula string
	Charge  *int

	// Compartment is the compartment code the metabolite was observed in for
	// this record, empty when the source supplies none.
	Compartment string
	// CompartmentName is the human-readable name for Compartment, when the
	// source supplies one.
	CompartmentName string

	Aliases map[string][]string
	Notes   map[string]string
	Source  string
}

// ReactionRecord is the canonical form of a reaction record after
// normalization and successful equation parsing.  Stoichiometry holds only
// resolved numeric coefficients.
type ReactionRecord struct {
	ID   string
	Name string

	Stoichiometry []Stoich

	LowerBound float64
	UpperBound float64

	Aliases   map[string][]string
	ECNumbers []string
	Source    string
}
