// Package normalize converts raw per-source records into the canonical record
// forms consumed by the universal-model accumulator.  Each source names its
// fields differently (BiGG "bigg_id" vs MetaNetX "MNX_ID"); the mapping is a
// declarative per-source field table carried in Rules, not branching per
// source inside the transform.
package normalize

import (
	"strconv"
	"strings"

	"github.com/mmundy42/cobrababel/internal/domain/equation"
	"github.com/mmundy42/cobrababel/internal/domain/model"
	"github.com/mmundy42/cobrababel/internal/domain/suffix"
	"github.com/mmundy42/cobrababel/pkg/errors"
)

// Record is one raw source record: a mapping of source-defined field names to
// values as delivered by a retrieval client.  Values are untyped because
// sources deliver a mix of JSON numbers, strings, and nested structures.
type Record map[string]interface{}

// Canonical field keys.  Rules.Fields maps these to source-specific names;
// an unmapped key falls back to the canonical name itself.
const (
	FieldID              = "id"
	FieldName            = "name"
	FieldFormula         = "formula"
	FieldCharge          = "charge"
	FieldCompartment     = "compartment"
	FieldCompartmentName = "compartment_name"
	FieldEquation        = "equation"
	FieldLowerBound      = "lower_bound"
	FieldUpperBound      = "upper_bound"
	FieldEC              = "ec"
	FieldAliases         = "aliases"
	FieldNotes           = "notes"
)

// Rules is the declarative per-source normalization configuration.
type Rules struct {
	// Source tags every produced record with the source system's name.
	Source string `mapstructure:"source"`

	// Fields maps canonical field keys to the source's field names.
	Fields map[string]string `mapstructure:"fields"`

	// CompartmentDelimiter separates metabolite and compartment in the
	// source's equation strings.  Defaults to "@".
	CompartmentDelimiter string `mapstructure:"compartment_delimiter"`

	// DefaultLowerBound and DefaultUpperBound apply when a source record
	// carries neither explicit bounds nor a directional arrow.
	DefaultLowerBound float64 `mapstructure:"default_lower_bound"`
	DefaultUpperBound float64 `mapstructure:"default_upper_bound"`
}

// DefaultBounds is the bi-directional flux range assumed when a source does
// not specify direction.
const (
	DefaultLowerBound = -1000.0
	DefaultUpperBound = 1000.0
)

// Normalizer is a pure per-source transform from raw records to canonical
// records.  It performs no I/O.
type Normalizer struct {
	rules  Rules
	parser *equation.Parser
}

// New constructs a Normalizer for one source.  Zero-valued bounds in rules
// are replaced with the standard bi-directional defaults.
func New(rules Rules) *Normalizer {
	if rules.DefaultLowerBound == 0 && rules.DefaultUpperBound == 0 {
		rules.DefaultLowerBound = DefaultLowerBound
		rules.DefaultUpperBound = DefaultUpperBound
	}
	return &Normalizer{
		rules: rules,
		parser: equation.NewParser(equation.Options{
			CompartmentDelimiter: rules.CompartmentDelimiter,
		}),
	}
}

// Source returns the source tag records are stamped with.
func (n *Normalizer) Source() string { return n.rules.Source }

func (n *Normalizer) field(rec Record, canonical string) (interface{}, bool) {
	key := n.rules.Fields[canonical]
	if key == "" {
		key = canonical
	}
	v, ok := rec[key]
	return v, ok
}

func (n *Normalizer) str(rec Record, canonical string) string {
	v, ok := n.field(rec, canonical)
	if !ok {
		return ""
	}
	return asString(v)
}

// Metabolite normalizes a raw metabolite record.  A record without an
// identifier is rejected with ErrCodeRecordMissingID; every other field is
// optional.  An identifier carrying a recognizable compartment suffix is
// split into base identifier and compartment via the suffix translator.
func (n *Normalizer) Metabolite(rec Record) (model.MetaboliteRecord, error) {
	id := strings.TrimSpace(n.str(rec, FieldID))
	if id == "" {
		return model.MetaboliteRecord{}, errors.New(errors.ErrCodeRecordMissingID, "missing identifier").
			WithDetail("source=" + n.rules.Source)
	}

	out := model.MetaboliteRecord{
		Name:            n.str(rec, FieldName),
		Formula:         n.str(rec, FieldFormula),
		Compartment:     n.str(rec, FieldCompartment),
		CompartmentName: n.str(rec, FieldCompartmentName),
		Source:          n.rules.Source,
	}

	// Sources that bake the compartment into the identifier (e.g. "glc_D[c]")
	// get it split off so identity matching sees the bare identifier.
	if out.Compartment == "" {
		if base, compartment, ok := suffix.Split(id); ok {
			id = base
			out.Compartment = compartment
		}
	}
	out.ID = id

	if v, ok := n.field(rec, FieldCharge); ok {
		if c, ok := asInt(v); ok {
			out.Charge = &c
		}
	}
	if v, ok := n.field(rec, FieldAliases); ok {
		out.Aliases = asAliases(v)
	}
	if v, ok := n.field(rec, FieldNotes); ok {
		out.Notes = asNotes(v)
	}
	return out, nil
}

// Reaction normalizes a raw reaction record and parses its equation.  The
// rejection outcomes are distinct: ErrCodeRecordMissingID for a missing
// identifier, ErrCodeEquationUnresolved / ErrCodeEquationUndefinedMet /
// ErrCodeEquationMalformed from the parser.  Bounds come from explicit record
// fields when present, then from the equation arrow, then from the source
// defaults.
func (n *Normalizer) Reaction(rec Record) (model.ReactionRecord, error) {
	id := strings.TrimSpace(n.str(rec, FieldID))
	if id == "" {
		return model.ReactionRecord{}, errors.New(errors.ErrCodeRecordMissingID, "missing identifier").
			WithDetail("source=" + n.rules.Source)
	}

	eqText := n.str(rec, FieldEquation)
	eq, err := n.parser.Parse(eqText)
	if err != nil {
		return model.ReactionRecord{}, errors.Wrap(err, errors.CodeUnknown, "reaction "+id)
	}

	out := model.ReactionRecord{
		ID:     id,
		Name:   n.str(rec, FieldName),
		Source: n.rules.Source,
	}

	for _, t := range eq.Left {
		out.Stoichiometry = append(out.Stoichiometry, model.Stoich{
			Metabolite:  t.Metabolite,
			Compartment: t.Compartment,
			Coefficient: -t.Coefficient,
		})
	}
	for _, t := range eq.Right {
		out.Stoichiometry = append(out.Stoichiometry, model.Stoich{
			Metabolite:  t.Metabolite,
			Compartment: t.Compartment,
			Coefficient: t.Coefficient,
		})
	}

	out.LowerBound, out.UpperBound = n.bounds(rec, eq.Direction)

	if v, ok := n.field(rec, FieldEC); ok {
		out.ECNumbers = asStrings(v)
	}
	if v, ok := n.field(rec, FieldAliases); ok {
		out.Aliases = asAliases(v)
	}
	return out, nil
}

func (n *Normalizer) bounds(rec Record, dir equation.Direction) (float64, float64) {
	lv, lok := n.field(rec, FieldLowerBound)
	uv, uok := n.field(rec, FieldUpperBound)
	if lok && uok {
		if lower, ok1 := asFloat(lv); ok1 {
			if upper, ok2 := asFloat(uv); ok2 {
				return lower, upper
			}
		}
	}
	switch dir {
	case equation.Forward:
		return 0, n.rules.DefaultUpperBound
	case equation.Reverse:
		return n.rules.DefaultLowerBound, 0
	default:
		return n.rules.DefaultLowerBound, n.rules.DefaultUpperBound
	}
}

// value coercion helpers

func asString(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	default:
		return ""
	}
}

func asInt(v interface{}) (int, bool) {
	switch c := v.(type) {
	case int:
		return c, true
	case float64:
		return int(c), true
	case string:
		c = strings.TrimSpace(c)
		if c == "" {
			return 0, false
		}
		i, err := strconv.Atoi(c)
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}

func asFloat(v interface{}) (float64, bool) {
	switch c := v.(type) {
	case float64:
		return c, true
	case int:
		return float64(c), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(c), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func asStrings(v interface{}) []string {
	switch s := v.(type) {
	case []string:
		return s
	case string:
		if s == "" {
			return nil
		}
		return []string{s}
	case []interface{}:
		out := make([]string, 0, len(s))
		for _, e := range s {
			if str := asString(e); str != "" {
				out = append(out, str)
			}
		}
		return out
	default:
		return nil
	}
}

func asAliases(v interface{}) map[string][]string {
	switch m := v.(type) {
	case map[string][]string:
		return m
	case string:
		// "namespace:identifier" form, as in the MetaNetX Source column.
		colon := strings.Index(m, ":")
		if colon <= 0 || colon == len(m)-1 {
			return nil
		}
		return map[string][]string{m[:colon]: {m[colon+1:]}}
	case map[string]string:
		out := make(map[string][]string, len(m))
		for ns, id := range m {
			out[ns] = []string{id}
		}
		return out
	case map[string]interface{}:
		out := make(map[string][]string, len(m))
		for ns, ids := range m {
			if vals := asStrings(ids); len(vals) > 0 {
				out[ns] = vals
			}
		}
		return out
	default:
		return nil
	}
}

func asNotes(v interface{}) map[string]string {
	switch m := v.(type) {
	case map[string]string:
		return m
	case map[string]interface{}:
		out := make(map[string]string, len(m))
		for k, val := range m {
			if s := asString(val); s != "" {
				out[k] = s
			}
		}
		return out
	default:
		return nil
	}
}
