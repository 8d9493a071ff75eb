// Package compare computes structural differences between two universal
// models: which entities exist in only one of them, and which shared entities
// disagree on attributes.
package compare

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/mmundy42/cobrababel/internal/domain/model"
)

// FieldDiff records one attribute disagreement on a shared entity.
type FieldDiff struct {
	ID     string `json:"id"`
	Field  string `json:"field"`
	First  string `json:"first"`
	Second string `json:"second"`
}

// EntityDiff summarizes one entity class.
type EntityDiff struct {
	OnlyFirst  []string    `json:"only_first,omitempty"`
	OnlySecond []string    `json:"only_second,omitempty"`
	Common     []string    `json:"common,omitempty"`
	Diffs      []FieldDiff `json:"diffs,omitempty"`
}

// Identical reports whether the entity class matches exactly.
func (d EntityDiff) Identical() bool {
	return len(d.OnlyFirst) == 0 && len(d.OnlySecond) == 0 && len(d.Diffs) == 0
}

// Report is the full comparison result.
type Report struct {
	FirstID  string `json:"first_id"`
	SecondID string `json:"second_id"`

	Metabolites  EntityDiff `json:"metabolites"`
	Reactions    EntityDiff `json:"reactions"`
	Compartments EntityDiff `json:"compartments"`
}

// Identical reports whether the two models match structurally.
func (r *Report) Identical() bool {
	return r.Metabolites.Identical() && r.Reactions.Identical() && r.Compartments.Identical()
}

// Models compares two universal models by identifier and attribute.
func Models(first, second *model.UniversalModel) *Report {
	r := &Report{FirstID: first.ID, SecondID: second.ID}
	r.Metabolites = diffMetabolites(first.Metabolites, second.Metabolites)
	r.Reactions = diffReactions(first.Reactions, second.Reactions)
	r.Compartments = diffCompartments(first.Compartments, second.Compartments)
	return r
}

func diffMetabolites(first, second []*model.Metabolite) EntityDiff {
	a := make(map[string]*model.Metabolite, len(first))
	for _, m := range first {
		a[m.ID] = m
	}
	b := make(map[string]*model.Metabolite, len(second))
	for _, m := range second {
		b[m.ID] = m
	}

	var d EntityDiff
	d.OnlyFirst, d.OnlySecond, d.Common = partition(keys(a), keys(b))

	for _, id := range d.Common {
		ma, mb := a[id], b[id]
		if ma.Name != mb.Name {
			d.Diffs = append(d.Diffs, FieldDiff{ID: id, Field: "name", First: ma.Name, Second: mb.Name})
		}
		if ma.Formula != mb.Formula {
			d.Diffs = append(d.Diffs, FieldDiff{ID: id, Field: "formula", First: ma.Formula, Second: mb.Formula})
		}
		if ca, cb := chargeString(ma.Charge), chargeString(mb.Charge); ca != cb {
			d.Diffs = append(d.Diffs, FieldDiff{ID: id, Field: "charge", First: ca, Second: cb})
		}
		if ca, cb := strings.Join(ma.CompartmentIDs(), ","), strings.Join(mb.CompartmentIDs(), ","); ca != cb {
			d.Diffs = append(d.Diffs, FieldDiff{ID: id, Field: "compartments", First: ca, Second: cb})
		}
	}
	return d
}

func diffReactions(first, second []*model.Reaction) EntityDiff {
	a := make(map[string]*model.Reaction, len(first))
	for _, r := range first {
		a[r.ID] = r
	}
	b := make(map[string]*model.Reaction, len(second))
	for _, r := range second {
		b[r.ID] = r
	}

	var d EntityDiff
	d.OnlyFirst, d.OnlySecond, d.Common = partition(keys(a), keys(b))

	for _, id := range d.Common {
		ra, rb := a[id], b[id]
		if ra.Name != rb.Name {
			d.Diffs = append(d.Diffs, FieldDiff{ID: id, Field: "name", First: ra.Name, Second: rb.Name})
		}
		if sa, sb := stoichString(ra.Stoichiometry), stoichString(rb.Stoichiometry); sa != sb {
			d.Diffs = append(d.Diffs, FieldDiff{ID: id, Field: "stoichiometry", First: sa, Second: sb})
		}
		if ra.LowerBound != rb.LowerBound || ra.UpperBound != rb.UpperBound {
			d.Diffs = append(d.Diffs, FieldDiff{
				ID: id, Field: "bounds",
				First:  boundsString(ra.LowerBound, ra.UpperBound),
				Second: boundsString(rb.LowerBound, rb.UpperBound),
			})
		}
	}
	return d
}

func diffCompartments(first, second []*model.Compartment) EntityDiff {
	a := make(map[string]*model.Compartment, len(first))
	for _, c := range first {
		a[c.ID] = c
	}
	b := make(map[string]*model.Compartment, len(second))
	for _, c := range second {
		b[c.ID] = c
	}

	var d EntityDiff
	d.OnlyFirst, d.OnlySecond, d.Common = partition(keys(a), keys(b))

	for _, id := range d.Common {
		if a[id].Name != b[id].Name {
			d.Diffs = append(d.Diffs, FieldDiff{ID: id, Field: "name", First: a[id].Name, Second: b[id].Name})
		}
	}
	return d
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// partition splits two sorted identifier lists into first-only, second-only,
// and common, each sorted.
func partition(a, b []string) (onlyA, onlyB, common []string) {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			onlyA = append(onlyA, a[i])
			i++
		case a[i] > b[j]:
			onlyB = append(onlyB, b[j])
			j++
		default:
			common = append(common, a[i])
			i++
			j++
		}
	}
	onlyA = append(onlyA, a[i:]...)
	onlyB = append(onlyB, b[j:]...)
	return onlyA, onlyB, common
}

func chargeString(c *int) string {
	if c == nil {
		return ""
	}
	return strconv.Itoa(*c)
}

func boundsString(lo, hi float64) string {
	return fmt.Sprintf("[%g, %g]", lo, hi)
}

func stoichString(terms []model.Stoich) string {
	parts := make([]string, 0, len(terms))
	for _, t := range terms {
		parts = append(parts, fmt.Sprintf("%g %s", t.Coefficient, t.Qualified()))
	}
	sort.Strings(parts)
	return strings.Join(parts, " + ")
}

// WriteText renders a human-readable summary of the report.
func (r *Report) WriteText(w io.Writer) error {
	write := func(format string, args ...interface{}) error {
		_, err := fmt.Fprintf(w, format, args...)
		return err
	}
	if err := write("Comparing %s with %s\n\n", r.FirstID, r.SecondID); err != nil {
		return err
	}
	sections := []struct {
		name string
		diff EntityDiff
	}{
		{"Metabolites", r.Metabolites},
		{"Reactions", r.Reactions},
		{"Compartments", r.Compartments},
	}
	for _, s := range sections {
		if err := write("%s: %d common, %d only in %s, %d only in %s, %d attribute differences\n",
			s.name, len(s.diff.Common),
			len(s.diff.OnlyFirst), r.FirstID,
			len(s.diff.OnlySecond), r.SecondID,
			len(s.diff.Diffs)); err != nil {
			return err
		}
		for _, fd := range s.diff.Diffs {
			if err := write("  %s %s: %q vs %q\n", fd.ID, fd.Field, fd.First, fd.Second); err != nil {
				return err
			}
		}
	}
	if r.Identical() {
		return write("\nModels are identical\n")
	}
	return nil
}
