// Package translate rewrites universal-model identifiers between source
// namespaces using cross-reference tables of the MetaNetX xref form.
package translate

import (
	"bufio"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/mmundy42/cobrababel/pkg/errors"
)

// Table is a bidirectional identifier cross-reference.  Each entry links an
// identifier in a named namespace (the "bigg" of "bigg:atp") to a canonical
// identifier, typically a MetaNetX one.
type Table struct {
	// toCanonical maps namespace -> namespaced id -> canonical id.
	toCanonical map[string]map[string]string
	// fromCanonical maps namespace -> canonical id -> namespaced id.  When a
	// canonical identifier has several entries in one namespace the first one
	// in file order is kept.
	fromCanonical map[string]map[string]string
}

// NewTable returns an empty cross-reference table.
func NewTable() *Table {
	return &Table{
		toCanonical:   make(map[string]map[string]string),
		fromCanonical: make(map[string]map[string]string),
	}
}

// Add records one cross-reference link.
func (t *Table) Add(namespace, id, canonical string) {
	if t.toCanonical[namespace] == nil {
		t.toCanonical[namespace] = make(map[string]string)
		t.fromCanonical[namespace] = make(map[string]string)
	}
	if _, dup := t.toCanonical[namespace][id]; !dup {
		t.toCanonical[namespace][id] = canonical
	}
	if _, dup := t.fromCanonical[namespace][canonical]; !dup {
		t.fromCanonical[namespace][canonical] = id
	}
}

// Namespaces lists the known namespaces, sorted.
func (t *Table) Namespaces() []string {
	out := make([]string, 0, len(t.toCanonical))
	for ns := range t.toCanonical {
		out = append(out, ns)
	}
	sort.Strings(out)
	return out
}

// HasNamespace reports whether any entry mentions the namespace.
func (t *Table) HasNamespace(namespace string) bool {
	_, ok := t.toCanonical[namespace]
	return ok
}

// Canonical resolves a namespaced identifier to its canonical form.
func (t *Table) Canonical(namespace, id string) (string, bool) {
	m, ok := t.toCanonical[namespace]
	if !ok {
		return "", false
	}
	c, ok := m[id]
	return c, ok
}

// InNamespace resolves a canonical identifier to its form in a namespace.
func (t *Table) InNamespace(namespace, canonical string) (string, bool) {
	m, ok := t.fromCanonical[namespace]
	if !ok {
		return "", false
	}
	id, ok := m[canonical]
	return id, ok
}

// Len returns the number of namespaced entries.
func (t *Table) Len() int {
	n := 0
	for _, m := range t.toCanonical {
		n += len(m)
	}
	return n
}

// ParseTable reads a tab-separated cross-reference stream.  The expected
// layout is the MetaNetX xref one: the first column is "namespace:id", the
// second the canonical identifier; further columns are ignored.  Lines
// starting with "#" are comments.  Rows whose first column carries no
// namespace prefix (the canonical identifier's own self-reference row) are
// skipped.
func ParseTable(r io.Reader) (*Table, error) {
	table := NewTable()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			return nil, errors.New(errors.ErrCodeXrefParseError, "short cross-reference row").
				WithDetail(firstDetail(lineNo, line))
		}
		xref, canonical := fields[0], fields[1]
		colon := strings.Index(xref, ":")
		if colon <= 0 {
			continue
		}
		namespace, id := xref[:colon], xref[colon+1:]
		if id == "" || canonical == "" {
			return nil, errors.New(errors.ErrCodeXrefParseError, "empty identifier in cross-reference row").
				WithDetail(firstDetail(lineNo, line))
		}
		table.Add(namespace, id, canonical)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeXrefParseError, "reading cross-reference stream")
	}
	return table, nil
}

func firstDetail(lineNo int, line string) string {
	if len(line) > 60 {
		line = line[:60]
	}
	return "line " + strconv.Itoa(lineNo) + ": " + line
}
