// Package equation parses textual chemical reaction equations into structured
// stoichiometry.  The supported convention is
//
//	[coeff] metabolite[@compartment] (+ ...) <arrow> [coeff] metabolite[@compartment] (+ ...)
//
// where the coefficient defaults to 1 when omitted and the arrow is one of
// "=", "<=>", "=>" or "<=".  Either side may be empty, as in exchange and
// sink reactions.  Equations with symbolic coefficients such as "(2n)" and
// equations referencing unresolvable pseudo-metabolites are rejected as a
// whole; a reaction is never partially included.
package equation

import (
	"strconv"
	"strings"

	"github.com/mmundy42/cobrababel/pkg/errors"
)

// Direction describes the reversibility implied by the equation arrow.
type Direction int

const (
	// Reversible covers "=" and "<=>".
	Reversible Direction = iota
	// Forward covers "=>".
	Forward
	// Reverse covers "<=".
	Reverse
)

// Term is one stoichiometric term on either side of an equation.  The
// coefficient is always positive; sign is implied by the side the term
// appears on.
type Term struct {
	Coefficient float64
	Metabolite  string
	Compartment string
}

// Qualified returns the metabolite identifier with the compartment tag
// attached using the universal model's internal "_" delimiter.  When the term
// carries no compartment the bare identifier is returned.
func (t Term) Qualified() string {
	if t.Compartment == "" {
		return t.Metabolite
	}
	return t.Metabolite + "_" + t.Compartment
}

// Equation is the parsed form of a reaction equation string.
type Equation struct {
	Left      []Term
	Right     []Term
	Direction Direction
}

// Stoichiometry flattens the equation into a signed-coefficient mapping keyed
// by qualified metabolite identifier.  Reactants are negative, products
// positive; a metabolite appearing on both sides nets out.
func (e *Equation) Stoichiometry() map[string]float64 {
	coeffs := make(map[string]float64, len(e.Left)+len(e.Right))
	for _, t := range e.Left {
		coeffs[t.Qualified()] -= t.Coefficient
	}
	for _, t := range e.Right {
		coeffs[t.Qualified()] += t.Coefficient
	}
	return coeffs
}

// ResolveFunc reports whether a metabolite identifier is resolvable.  A nil
// ResolveFunc accepts every identifier (best-effort mode).
type ResolveFunc func(id string) bool

// Options configures a Parser.
type Options struct {
	// CompartmentDelimiter separates the metabolite identifier from its
	// compartment tag in source equations.  Defaults to "@".
	CompartmentDelimiter string

	// Resolve, when non-nil, is consulted for every metabolite token.  A
	// token it rejects fails the whole equation with
	// ErrCodeEquationUndefinedMet.  This is how undefined pseudo-metabolites
	// (e.g. an unexpanded "BIOMASS" placeholder) are kept out of the model.
	Resolve ResolveFunc
}

// Parser parses reaction equation strings.  The zero value is not usable;
// construct with NewParser.
type Parser struct {
	delimiter string
	resolve   ResolveFunc
}

// NewParser constructs a Parser with the given options.
func NewParser(opts Options) *Parser {
	d := opts.CompartmentDelimiter
	if d == "" {
		d = "@"
	}
	return &Parser{delimiter: d, resolve: opts.Resolve}
}

// arrows in match order; "<=>" must precede "<=" and "=".
var arrows = []struct {
	token     string
	direction Direction
}{
	{" <=> ", Reversible},
	{" => ", Forward},
	{" <= ", Reverse},
	{" = ", Reversible},
}

// Parse parses an equation string.  All failures reject the equation as a
// whole: a symbolic coefficient yields ErrCodeEquationUnresolved, an
// unresolvable metabolite token yields ErrCodeEquationUndefinedMet, and any
// structural problem yields ErrCodeEquationMalformed.
func (p *Parser) Parse(text string) (*Equation, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New(errors.ErrCodeEquationMalformed, "empty equation")
	}

	// Padding lets the arrow match at either end, so one-sided equations
	// (exchange and sink reactions like "glc__D_e <=>") parse with an empty
	// side instead of failing the arrow match.
	padded := " " + text + " "
	var left, right string
	direction := Reversible
	found := false
	for _, a := range arrows {
		if l, r, ok := strings.Cut(padded, a.token); ok {
			left, right, direction, found = l, r, a.direction, true
			break
		}
	}
	if !found {
		return nil, errors.New(errors.ErrCodeEquationMalformed, "no reaction arrow").
			WithDetail(text)
	}

	lhs, err := p.parseSide(left)
	if err != nil {
		return nil, err
	}
	rhs, err := p.parseSide(right)
	if err != nil {
		return nil, err
	}
	if len(lhs) == 0 && len(rhs) == 0 {
		return nil, errors.New(errors.ErrCodeEquationMalformed, "no stoichiometric terms").
			WithDetail(text)
	}
	return &Equation{Left: lhs, Right: rhs, Direction: direction}, nil
}

func (p *Parser) parseSide(side string) ([]Term, error) {
	side = strings.TrimSpace(side)
	if side == "" {
		return nil, nil
	}
	parts := strings.Split(side, " + ")
	terms := make([]Term, 0, len(parts))
	for _, part := range parts {
		term, err := p.parseTerm(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		terms = append(terms, term)
	}
	return terms, nil
}

func (p *Parser) parseTerm(part string) (Term, error) {
	if part == "" {
		return Term{}, errors.New(errors.ErrCodeEquationMalformed, "empty term")
	}

	fields := strings.Fields(part)
	coeff := 1.0
	var token string
	switch len(fields) {
	case 1:
		token = fields[0]
	case 2:
		c, err := parseCoefficient(fields[0])
		if err != nil {
			return Term{}, err
		}
		coeff = c
		token = fields[1]
	default:
		return Term{}, errors.New(errors.ErrCodeEquationMalformed, "malformed term").
			WithDetail(part)
	}
	if coeff <= 0 {
		return Term{}, errors.New(errors.ErrCodeEquationUnresolved, "unresolved stoichiometry").
			WithDetail("non-positive coefficient in " + part)
	}

	// Split the compartment off the end of the token.  Base identifiers may
	// themselves contain the delimiter (BiGG "glc__D_c"), so only the last
	// occurrence separates the compartment tag.
	id, compartment := token, ""
	if i := strings.LastIndex(token, p.delimiter); i >= 0 {
		id, compartment = token[:i], token[i+len(p.delimiter):]
	}
	if id == "" {
		return Term{}, errors.New(errors.ErrCodeEquationMalformed, "missing metabolite identifier").
			WithDetail(part)
	}
	if p.resolve != nil && !p.resolve(id) {
		return Term{}, errors.New(errors.ErrCodeEquationUndefinedMet, "undefined metabolite reference").
			WithDetail("metabolite=" + id)
	}
	return Term{Coefficient: coeff, Metabolite: id, Compartment: compartment}, nil
}

// parseCoefficient resolves a coefficient token to a fixed number.  Tokens
// like "(2n)" or "n" carry variable stoichiometry; they are never coerced to
// a number, the equation is rejected instead.
func parseCoefficient(token string) (float64, error) {
	raw := token
	if strings.HasPrefix(raw, "(") && strings.HasSuffix(raw, ")") {
		raw = raw[1 : len(raw)-1]
	}
	c, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.New(errors.ErrCodeEquationUnresolved, "unresolved stoichiometry").
			WithDetail("coefficient=" + token)
	}
	return c, nil
}
