package translate

import (
	"github.com/mmundy42/cobrababel/internal/domain/model"
	"github.com/mmundy42/cobrababel/internal/infrastructure/monitoring/logging"
	"github.com/mmundy42/cobrababel/pkg/errors"
)

// NamespaceCanonical selects the cross-reference table's canonical identifier
// space (the second xref column) as a translation endpoint.
const NamespaceCanonical = "mnx"

// Translator rewrites model identifiers between namespaces.  Identifiers with
// no cross-reference are kept unchanged and reported; the translation never
// drops entities.
type Translator struct {
	table    *Table
	reporter model.Reporter
	logger   logging.Logger
}

// NewTranslator constructs a Translator.  Nil reporter and logger default to
// no-ops.
func NewTranslator(table *Table, reporter model.Reporter, logger logging.Logger) *Translator {
	if reporter == nil {
		reporter = model.NewNopReporter()
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Translator{table: table, reporter: reporter, logger: logger}
}

func (t *Translator) checkNamespace(ns string) error {
	if ns == NamespaceCanonical {
		return nil
	}
	if !t.table.HasNamespace(ns) {
		return errors.New(errors.ErrCodeXrefBadNamespace, "unknown namespace").
			WithDetail("namespace=" + ns)
	}
	return nil
}

// translateID maps one identifier from the from-namespace to the
// to-namespace through the canonical space.
func (t *Translator) translateID(id, from, to string) (string, bool) {
	canonical := id
	if from != NamespaceCanonical {
		var ok bool
		canonical, ok = t.table.Canonical(from, id)
		if !ok {
			return "", false
		}
	}
	if to == NamespaceCanonical {
		return canonical, true
	}
	return t.table.InNamespace(to, canonical)
}

// Model produces a copy of m with metabolite and reaction identifiers
// rewritten from the from-namespace to the to-namespace.  Entities with no
// cross-reference, and entities whose translated identifier collides with an
// already-translated one, keep their original identifier and are reported.
// Every translated entity records its original identifier as an alias under
// the from-namespace.
func (t *Translator) Model(m *model.UniversalModel, from, to string) (*model.UniversalModel, error) {
	if err := t.checkNamespace(from); err != nil {
		return nil, err
	}
	if err := t.checkNamespace(to); err != nil {
		return nil, err
	}

	out := &model.UniversalModel{
		ID:      m.ID,
		Name:    m.Name,
		Sources: append([]string(nil), m.Sources...),
	}
	for _, c := range m.Compartments {
		cc := *c
		out.Compartments = append(out.Compartments, &cc)
	}

	// metRename maps old metabolite identifier to new, for stoichiometry
	// rewriting.  Identity entries are included so lookups never miss.
	metRename := make(map[string]string, len(m.Metabolites))
	seen := make(map[string]bool, len(m.Metabolites))

	for _, met := range m.Metabolites {
		mc := copyMetabolite(met)
		newID, ok := t.translateID(met.ID, from, to)
		switch {
		case !ok:
			t.reporter.Report(model.Event{
				Kind:     model.KindMissingXref,
				EntityID: met.ID,
				Detail:   "no cross-reference from " + from + " to " + to,
			})
		case seen[newID]:
			t.reporter.Report(model.Event{
				Kind:      model.KindAttributeConflict,
				EntityID:  met.ID,
				Field:     "id",
				Kept:      met.ID,
				Discarded: newID,
				Detail:    "translated identifier already taken",
			})
		default:
			addAlias(mc.Aliases, from, met.ID)
			mc.ID = newID
		}
		seen[mc.ID] = true
		metRename[met.ID] = mc.ID
		out.Metabolites = append(out.Metabolites, mc)
	}

	seenRxn := make(map[string]bool, len(m.Reactions))
	for _, rxn := range m.Reactions {
		rc := copyReaction(rxn)
		for i := range rc.Stoichiometry {
			if renamed, ok := metRename[rc.Stoichiometry[i].Metabolite]; ok {
				rc.Stoichiometry[i].Metabolite = renamed
			}
		}
		newID, ok := t.translateID(rxn.ID, from, to)
		switch {
		case !ok:
			t.reporter.Report(model.Event{
				Kind:     model.KindMissingXref,
				EntityID: rxn.ID,
				Detail:   "no cross-reference from " + from + " to " + to,
			})
		case seenRxn[newID]:
			t.reporter.Report(model.Event{
				Kind:      model.KindAttributeConflict,
				EntityID:  rxn.ID,
				Field:     "id",
				Kept:      rxn.ID,
				Discarded: newID,
				Detail:    "translated identifier already taken",
			})
		default:
			addAlias(rc.Aliases, from, rxn.ID)
			rc.ID = newID
		}
		seenRxn[rc.ID] = true
		out.Reactions = append(out.Reactions, rc)
	}

	out.Reindex()
	t.logger.Info("model translated",
		logging.String("model_id", m.ID),
		logging.String("from", from),
		logging.String("to", to),
	)
	return out, nil
}

func copyMetabolite(m *model.Metabolite) *model.Metabolite {
	c := *m
	c.Compartments = make(map[string]bool, len(m.Compartments))
	for k, v := range m.Compartments {
		c.Compartments[k] = v
	}
	c.Aliases = copyAliases(m.Aliases)
	c.Notes = make(map[string]string, len(m.Notes))
	for k, v := range m.Notes {
		c.Notes[k] = v
	}
	return &c
}

func copyReaction(r *model.Reaction) *model.Reaction {
	c := *r
	c.Stoichiometry = append([]model.Stoich(nil), r.Stoichiometry...)
	c.Aliases = copyAliases(r.Aliases)
	c.ECNumbers = append([]string(nil), r.ECNumbers...)
	return &c
}

func copyAliases(src map[string][]string) map[string][]string {
	out := make(map[string][]string, len(src))
	for ns, ids := range src {
		out[ns] = append([]string(nil), ids...)
	}
	return out
}

func addAlias(aliases map[string][]string, namespace, id string) {
	for _, existing := range aliases[namespace] {
		if existing == id {
			return
		}
	}
	aliases[namespace] = append(aliases[namespace], id)
}
